package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/restaurante/backend/internal/models"
	"github.com/restaurante/backend/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = fmt.Errorf("password must have between %d and %d bytes", MinPasswordLength, MaxPasswordLength)
	ErrEmailExists        = errors.New("email already registered")
)

const (
	MinPasswordLength = 8
	// MaxPasswordLength is the bcrypt input limit.
	MaxPasswordLength = 72
)

// UserStorage is the part of storage.Store the authenticator needs.
type UserStorage interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// PasswordAuthenticator keeps staff accounts with bcrypt password hashes.
type PasswordAuthenticator struct {
	users UserStorage
	cost  int
	// decoy is compared against when the email is unknown so both failure
	// paths cost one bcrypt comparison.
	decoy []byte
}

func NewPasswordAuthenticator(users UserStorage) *PasswordAuthenticator {
	return (&PasswordAuthenticator{users: users}).WithCost(bcrypt.DefaultCost)
}

// WithCost sets the bcrypt cost of new hashes.
func (a *PasswordAuthenticator) WithCost(cost int) *PasswordAuthenticator {
	a.cost = cost
	a.decoy, _ = bcrypt.GenerateFromPassword([]byte("restaurante-decoy"), cost)
	return a
}

func (a *PasswordAuthenticator) ValidateCredential(credential string) error {
	if n := len(credential); n < MinPasswordLength || n > MaxPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

// Register stores a new account. The email is the login key and is kept
// lower case.
func (a *PasswordAuthenticator) Register(ctx context.Context, email, name, credential string) (*models.User, error) {
	if err := a.ValidateCredential(credential); err != nil {
		return nil, err
	}
	email = normalizeEmail(email)

	switch _, err := a.users.GetUserByEmail(ctx, email); {
	case err == nil:
		return nil, ErrEmailExists
	case !errors.Is(err, storage.ErrNotFound):
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(credential), a.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := models.NewUser(email, strings.TrimSpace(name), string(hash))

	err = a.users.CreateUser(ctx, user)
	if errors.Is(err, storage.ErrDuplicate) {
		// Lost a race with a concurrent registration.
		return nil, ErrEmailExists
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Authenticate returns the account matching email and credential. Every
// failure is ErrInvalidCredentials.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, email, credential string) (*models.User, error) {
	user, err := a.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		_ = bcrypt.CompareHashAndPassword(a.decoy, []byte(credential))
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credential)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
