package apperrors

import "errors"

// Sentinel errors returned by the core components. Controllers map each of
// these to a deterministic HTTP status; everything else becomes a 500.
var (
	// Registration / login
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPasswordTooLong    = errors.New("password exceeds maximum length")

	// Token verification
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrTokenMalformed   = errors.New("malformed token")

	// Identity resolution
	ErrMissingBearer = errors.New("missing or malformed authorization header")
	ErrUnknownUser   = errors.New("unknown user")

	// Resource access
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden")
)
