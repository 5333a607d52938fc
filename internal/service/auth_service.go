package service

import (
	"context"
	"log/slog"

	"github.com/splitsync/splitsync/internal/auth"
	"github.com/splitsync/splitsync/internal/models"
	"github.com/splitsync/splitsync/internal/storage"
)

// AuthService wraps credential handling and token issuance.
type AuthService struct {
	authn auth.Authenticator
	jwt   *auth.JWTManager
	store storage.Store
}

// NewAuthService creates an AuthService.
func NewAuthService(authn auth.Authenticator, jwt *auth.JWTManager, store storage.Store) *AuthService {
	return &AuthService{authn: authn, jwt: jwt, store: store}
}

// Register creates a user account and returns it with a fresh token.
func (s *AuthService) Register(ctx context.Context, email, name, password string) (*models.User, string, error) {
	user, err := s.authn.Register(ctx, email, name, password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.jwt.Generate(user)
	if err != nil {
		return nil, "", err
	}

	slog.Info("user registered", "user_id", user.ID, "email", user.Email)
	return user, token, nil
}

// Login verifies credentials and returns the user with a fresh token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.authn.Authenticate(ctx, email, password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.jwt.Generate(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// GetUser returns a single user.
func (s *AuthService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.store.GetUserByID(ctx, id)
}

// ListUsers returns the full user directory.
func (s *AuthService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.store.ListUsers(ctx)
}
