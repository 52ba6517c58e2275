package models

// TokenResponse represents the response after successful registration or login
type TokenResponse struct {
	Token string `json:"token"` // JWT bearer token
}
