package sqldb

import (
	"context"

	"github.com/restaurante/backend/internal/models"
)

var (
	addressTable = table{
		name:    "Endereco",
		keys:    []string{"id_endereco"},
		columns: []string{"rua", "numero", "bairro", "cidade", "estado", "cep"},
	}
	clientTable = table{
		name:    "Cliente",
		keys:    []string{"id_cliente"},
		columns: []string{"nome", "telefone", "cpf", "id_endereco"},
	}
)

// CreateAddress inserts a new address.
func (s *Store) CreateAddress(ctx context.Context, a *models.Address) error {
	return insertRow(ctx, s.db, addressTable, a)
}

// ListAddresses returns every address.
func (s *Store) ListAddresses(ctx context.Context) ([]models.Address, error) {
	return listRows[models.Address](ctx, s.db, addressTable, "")
}

// GetAddress retrieves an address by ID.
func (s *Store) GetAddress(ctx context.Context, id string) (*models.Address, error) {
	return getRow[models.Address](ctx, s.db, addressTable, id)
}

// UpdateAddress rewrites every column of an address.
func (s *Store) UpdateAddress(ctx context.Context, a *models.Address) error {
	return updateRow(ctx, s.db, addressTable, a)
}

// DeleteAddress removes an address. It fails with storage.ErrReference
// while a client still lives there.
func (s *Store) DeleteAddress(ctx context.Context, id string) error {
	return deleteRow(ctx, s.db, addressTable, id)
}

// CreateClient inserts a new client.
func (s *Store) CreateClient(ctx context.Context, c *models.Client) error {
	return insertRow(ctx, s.db, clientTable, c)
}

// ListClients returns every client.
func (s *Store) ListClients(ctx context.Context) ([]models.Client, error) {
	return listRows[models.Client](ctx, s.db, clientTable, "")
}

// GetClient retrieves a client by ID.
func (s *Store) GetClient(ctx context.Context, id string) (*models.Client, error) {
	return getRow[models.Client](ctx, s.db, clientTable, id)
}

// UpdateClient rewrites every column of a client.
func (s *Store) UpdateClient(ctx context.Context, c *models.Client) error {
	return updateRow(ctx, s.db, clientTable, c)
}

// DeleteClient removes a client.
func (s *Store) DeleteClient(ctx context.Context, id string) error {
	return deleteRow(ctx, s.db, clientTable, id)
}
