// Package auth handles staff accounts: password hashing and the JWT
// bearer tokens that guard the mutating routes.
package auth

import (
	"context"

	"github.com/restaurante/backend/internal/models"
)

// Authenticator creates and checks staff accounts. PasswordAuthenticator
// is the only implementation.
type Authenticator interface {
	// Register creates an account for email. It fails with ErrEmailExists
	// when the email is taken.
	Register(ctx context.Context, email, name, credential string) (*models.User, error)

	// Authenticate returns the account matching email and credential, or
	// ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks a credential before it is stored.
	ValidateCredential(credential string) error
}
