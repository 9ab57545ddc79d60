package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a staff account allowed to change data when authentication is
// enabled.
type User struct {
	ID           string `json:"id_usuario" db:"id_usuario"`
	Email        string `json:"email" db:"email"`
	Name         string `json:"nome" db:"nome"`
	PasswordHash string `json:"-" db:"senha_hash"`
	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64 `json:"criado_em" db:"criado_em"`
}

// NewUser creates a user with a fresh ID and creation time.
func NewUser(email, name, passwordHash string) *User {
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().Unix(),
	}
}
