package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/restaurante/backend/internal/auth"
	"github.com/restaurante/backend/internal/models"
)

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token string `json:"token"`
	// ExpiresIn is the token lifetime in seconds.
	ExpiresIn int64        `json:"expires_in"`
	User      *models.User `json:"usuario"`
}

// AuthService logs staff in and provisions their accounts.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		logger:        logger,
	}
}

// Login checks the credentials and issues a bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	s.logger.Info("Login request", "email", email)

	if strings.TrimSpace(email) == "" || password == "" {
		return nil, invalid("email and senha are required")
	}

	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		s.logger.Warn("Login failed", "email", email, "error", err)
		return nil, auth.ErrInvalidCredentials
	}

	token, err := s.jwtManager.Issue(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "id_usuario", user.ID, "error", err)
		return nil, err
	}

	s.logger.Info("User logged in successfully", "id_usuario", user.ID, "email", user.Email)
	return &LoginResult{
		Token:     token.Value,
		ExpiresIn: int64(s.jwtManager.TTL().Seconds()),
		User:      user,
	}, nil
}

// Register creates a staff account.
func (s *AuthService) Register(ctx context.Context, email, name, password string) (*models.User, error) {
	s.logger.Info("Register request", "email", email)

	if strings.TrimSpace(email) == "" || strings.TrimSpace(name) == "" {
		return nil, invalid("email and nome are required")
	}

	user, err := s.authenticator.Register(ctx, email, name, password)
	if errors.Is(err, auth.ErrWeakPassword) {
		return nil, invalid(err.Error())
	}
	if err != nil {
		s.logger.Error("Registration failed", "email", email, "error", err)
		return nil, err
	}

	s.logger.Info("User registered successfully", "id_usuario", user.ID, "email", user.Email)
	return user, nil
}

// EnsureAdmin creates the configured admin account unless it exists.
// An empty email or password disables it.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, name, password string) error {
	if email == "" || password == "" {
		s.logger.Warn("No admin account configured")
		return nil
	}
	if name == "" {
		name = "Administrador"
	}

	_, err := s.Register(ctx, email, name, password)
	if errors.Is(err, auth.ErrEmailExists) {
		s.logger.Info("Admin account already exists", "email", email)
		return nil
	}
	return err
}
