package auth

import (
	"strings"

	"todo-be/internal/apperrors"
	"todo-be/internal/entities"
)

// UserLookupFunc loads a user record by id.
type UserLookupFunc func(id int64) (*entities.User, error)

// IdentityResolver maps a request's Authorization header to a live user
// record. Every authenticated operation passes through it.
type IdentityResolver struct {
	tokens *TokenService
}

// NewIdentityResolver creates a new identity resolver
func NewIdentityResolver(tokens *TokenService) *IdentityResolver {
	return &IdentityResolver{tokens: tokens}
}

// Resolve extracts the bearer token from the Authorization header value,
// verifies it and loads the corresponding user via lookup. Any failure along
// the chain is an authentication error.
func (r *IdentityResolver) Resolve(authHeader string, lookup UserLookupFunc) (*entities.User, error) {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return nil, apperrors.ErrMissingBearer
	}

	userID, err := r.tokens.Verify(parts[1])
	if err != nil {
		return nil, err
	}

	user, err := lookup(userID)
	if err != nil || user == nil {
		return nil, apperrors.ErrUnknownUser
	}

	return user, nil
}
