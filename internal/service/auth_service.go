package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"todo-be/internal/apperrors"
	"todo-be/internal/auth"
	"todo-be/internal/cache"
	"todo-be/internal/entities"
	"todo-be/internal/models"
	"todo-be/internal/repository"
)

// AuthService defines the interface for authentication business logic
type AuthService interface {
	Register(req *models.RegisterRequest) (*models.TokenResponse, error)
	Login(req *models.LoginRequest) (*models.TokenResponse, error)
	LookupUser(id int64) (*entities.User, error)
}

const userCacheTTL = 5 * time.Minute

type authService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenService
	cache    cache.Cache
	ctx      context.Context
}

// NewAuthService creates a new auth service. cacheClient may be nil, in which
// case every user lookup hits the database.
func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenService, cacheClient cache.Cache) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		cache:    cacheClient,
		ctx:      context.Background(),
	}
}

// Register creates a new user account and returns a token for it
func (s *authService) Register(req *models.RegisterRequest) (*models.TokenResponse, error) {
	// Check if user already exists
	existingUser, err := s.userRepo.FindByEmail(req.Email)
	if err == nil && existingUser != nil {
		return nil, apperrors.ErrEmailTaken
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	// The unique index on email backstops the check above under concurrency
	user, err := s.userRepo.Create(req.Name, req.Email, hashedPassword)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailTaken) {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &models.TokenResponse{Token: token}, nil
}

// Login authenticates a user and returns a fresh token. The same failure is
// reported whether the email or the password was wrong.
func (s *authService) Login(req *models.LoginRequest) (*models.TokenResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &models.TokenResponse{Token: token}, nil
}

// LookupUser loads a user record by id, consulting the cache first. Users are
// never mutated or deleted in this service, so cached records only go stale
// through the TTL.
func (s *authService) LookupUser(id int64) (*entities.User, error) {
	cacheKey := fmt.Sprintf("user:%d", id)

	if s.cache != nil {
		var cached entities.User
		if err := s.cache.GetJSON(s.ctx, cacheKey, &cached); err == nil && cached.ID == id {
			return &cached, nil
		}
	}

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetJSON(s.ctx, cacheKey, user, userCacheTTL)
	}

	return user, nil
}
