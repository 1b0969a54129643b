// Package services implements registration, login and bearer-token
// resolution on top of the credential store.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/invoicebox/invoicebox/internal/lib/jwt"
	"github.com/invoicebox/invoicebox/internal/lib/password"
	"github.com/invoicebox/invoicebox/internal/models"
	"github.com/invoicebox/invoicebox/internal/storage/repository"
)

// Errors surfaced to the handlers.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidRole        = errors.New("invalid role")
)

// UserRepository is the credential store contract the service needs.
type UserRepository interface {
	// CreateUser stores a new account and returns its id.
	CreateUser(ctx context.Context, user models.User) (int64, error)

	// GetUserByUsername returns the account by username.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByID returns the account by id.
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// AuthService handles registration, login and token verification.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewAuthService builds an AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register creates an account with the given role, hashes the password
// and returns the new user id together with a fresh token. Duplicate
// username or email errors pass through from the repository.
func (s *AuthService) Register(ctx context.Context, username, email, rawPassword, role string) (int64, string, error) {
	const op = "auth.Register"

	if role != models.RoleProvider && role != models.RolePurchaser {
		return 0, "", fmt.Errorf("%s: %w", op, ErrInvalidRole)
	}
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return 0, "", fmt.Errorf("%s: %w", op, err)
	}
	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		Role:         role,
	}
	id, err := s.users.CreateUser(ctx, user)
	if err != nil {
		return 0, "", fmt.Errorf("%s: %w", op, err)
	}
	token, err := s.jwtMaker.GenerateToken(id)
	if err != nil {
		return 0, "", fmt.Errorf("%s: %w", op, err)
	}
	return id, token, nil
}

// Login verifies the password and issues a token. A missing user and a
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (*models.User, string, error) {
	const op = "auth.Login"

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	token, err := s.jwtMaker.GenerateToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	return user, token, nil
}

// ResolveToken verifies a bearer token and loads the account it names.
func (s *AuthService) ResolveToken(ctx context.Context, token string) (*models.User, error) {
	const op = "auth.ResolveToken"

	userID, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}
	return user, nil
}
