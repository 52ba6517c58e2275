package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"todo-be/internal/apperrors"
)

// TokenService issues and verifies signed, time-limited bearer tokens.
// Tokens carry only the subject (user id) and an expiration instant; validity
// is determined purely by signature and expiration, with no server-side state.
type TokenService struct {
	secretKey []byte
	ttl       time.Duration
}

// NewTokenService creates a new token service. The secret must be a long,
// unpredictable value known only to the server process.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		secretKey: []byte(secret),
		ttl:       ttl,
	}
}

// Issue generates a signed token for the given user, expiring after the
// configured TTL.
func (s *TokenService) Issue(userID int64) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// Verify parses and validates a token string and returns the user id it was
// issued for. It fails with apperrors.ErrTokenExpired, ErrInvalidSignature or
// ErrTokenMalformed depending on which check failed.
func (s *TokenService) Verify(tokenString string) (int64, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secretKey, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return 0, apperrors.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return 0, apperrors.ErrInvalidSignature
		default:
			return 0, apperrors.ErrTokenMalformed
		}
	}
	if !token.Valid {
		return 0, apperrors.ErrTokenMalformed
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, apperrors.ErrTokenMalformed
	}

	return userID, nil
}
