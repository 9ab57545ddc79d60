package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/restaurante/backend/internal/models"
	"github.com/restaurante/backend/internal/storage"
)

var userTable = table{
	name:    "Usuario",
	keys:    []string{"id_usuario"},
	columns: []string{"email", "nome", "senha_hash", "criado_em"},
}

// CreateUser inserts a new staff account.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return insertRow(ctx, s.db, userTable, u)
}

// GetUserByEmail retrieves a user by their email address.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	query := userTable.selectQuery() + " WHERE email = ?"
	err := s.db.GetContext(ctx, user, s.db.Rebind(query), email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s %w", email, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by their ID.
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return getRow[models.User](ctx, s.db, userTable, id)
}
