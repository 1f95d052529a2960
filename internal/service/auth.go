// Package service provides business-logic services for authentication,
// notes, and notebooks, delegating persistence to repository interfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/notely/notely/internal/auth"
	"github.com/notely/notely/internal/models"
	"github.com/notely/notely/internal/noteerr"
)

// UserRepository defines the persistence operations required by the
// authentication and note services.
type UserRepository interface {
	// Create stores a new user record.
	Create(ctx context.Context, u *models.User) error
	// GetByID fetches a user by id.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByUsername fetches a user by username.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// AuthService implements registration, login, and profile lookup.
type AuthService struct {
	users    UserRepository
	secret   []byte
	tokenTTL time.Duration
}

// NewAuthService constructs an AuthService. secret signs issued tokens;
// ttl bounds their validity.
func NewAuthService(users UserRepository, secret []byte, ttl time.Duration) *AuthService {
	return &AuthService{users: users, secret: secret, tokenTTL: ttl}
}

// Register creates a new user. All fields are required; username and
// email are stored lowercased.
func (s *AuthService) Register(ctx context.Context, username, email, password, fullName string) (*models.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" || password == "" || strings.TrimSpace(fullName) == "" {
		return nil, fmt.Errorf("%w: all fields are required", noteerr.ErrInvalidArgument)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		FullName:     strings.TrimSpace(fullName),
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies the credentials and mints a signed token. Wrong
// username and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	u, err := s.users.GetByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if errors.Is(err, noteerr.ErrNotFound) {
		return "", nil, fmt.Errorf("%w: invalid username or password", noteerr.ErrUnauthenticated)
	}
	if err != nil {
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) != nil {
		return "", nil, fmt.Errorf("%w: invalid username or password", noteerr.ErrUnauthenticated)
	}

	token, err := auth.GenerateToken(u.ID, s.secret, s.tokenTTL)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}
	return token, u, nil
}

// UserByID returns the profile of an authenticated user.
func (s *AuthService) UserByID(ctx context.Context, id string) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}
