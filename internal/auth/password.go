package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"todo-be/internal/apperrors"
)

// HashPassword generates a salted one-way hash of the plaintext password.
// The cost parameters are embedded in the returned hash string.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		// bcrypt rejects inputs over 72 bytes
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", apperrors.ErrPasswordTooLong
		}
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// CheckPassword reports whether the plaintext password matches the stored
// hash. The comparison runs in constant time. A malformed hash yields false
// rather than an error.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
