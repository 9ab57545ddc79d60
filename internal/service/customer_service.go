package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/restaurante/backend/internal/models"
	"github.com/restaurante/backend/internal/storage"
	"github.com/restaurante/backend/internal/validation"
)

// CustomerService manages addresses and clients.
type CustomerService struct {
	store storage.Store
}

// NewCustomerService creates a CustomerService with the given storage backend.
func NewCustomerService(store storage.Store) *CustomerService {
	return &CustomerService{store: store}
}

func normalizeAddress(a *models.Address) {
	a.Street = strings.TrimSpace(a.Street)
	a.Number = strings.TrimSpace(a.Number)
	a.Neighborhood = strings.TrimSpace(a.Neighborhood)
	a.City = strings.TrimSpace(a.City)
	a.State = validation.NormalizeUF(a.State)
	a.ZipCode = validation.NormalizeCEP(a.ZipCode)
}

// CreateAddress validates and stores a new address.
func (s *CustomerService) CreateAddress(ctx context.Context, a *models.Address) error {
	slog.Info("CreateAddress request received", "id_endereco", a.ID, "cidade", a.City)

	normalizeAddress(a)
	if err := check(a); err != nil {
		return done("CreateAddress", err)
	}
	ensureID(&a.ID)
	return done("CreateAddress", s.store.CreateAddress(ctx, a), "id_endereco", a.ID)
}

// ListAddresses returns every address.
func (s *CustomerService) ListAddresses(ctx context.Context) ([]models.Address, error) {
	addrs, err := s.store.ListAddresses(ctx)
	return addrs, done("ListAddresses", err, "count", len(addrs))
}

// GetAddress returns the address with the given ID.
func (s *CustomerService) GetAddress(ctx context.Context, id string) (*models.Address, error) {
	a, err := s.store.GetAddress(ctx, id)
	return a, done("GetAddress", err, "id_endereco", id)
}

// UpdateAddress rewrites every field of an existing address.
func (s *CustomerService) UpdateAddress(ctx context.Context, a *models.Address) error {
	slog.Info("UpdateAddress request received", "id_endereco", a.ID)

	if err := requireID("id_endereco", a.ID); err != nil {
		return done("UpdateAddress", err)
	}
	normalizeAddress(a)
	if err := check(a); err != nil {
		return done("UpdateAddress", err)
	}
	return done("UpdateAddress", s.store.UpdateAddress(ctx, a), "id_endereco", a.ID)
}

// DeleteAddress removes an address. Clients living there block the delete.
func (s *CustomerService) DeleteAddress(ctx context.Context, id string) error {
	slog.Info("DeleteAddress request received", "id_endereco", id)
	return done("DeleteAddress", s.store.DeleteAddress(ctx, id), "id_endereco", id)
}

// normalizeClient stores the CPF as bare digits.
func normalizeClient(c *models.Client) {
	c.Name = strings.TrimSpace(c.Name)
	c.Phone = strings.TrimSpace(c.Phone)
	c.AddressID = strings.TrimSpace(c.AddressID)
	if digits := validation.Digits(c.CPF); len(digits) == 11 {
		c.CPF = digits
	}
}

// CreateClient validates and stores a new client. The CPF must be valid
// and not yet registered.
func (s *CustomerService) CreateClient(ctx context.Context, c *models.Client) error {
	slog.Info("CreateClient request received", "id_cliente", c.ID, "nome", c.Name)

	normalizeClient(c)
	if err := check(c); err != nil {
		return done("CreateClient", err)
	}
	ensureID(&c.ID)
	return done("CreateClient", s.store.CreateClient(ctx, c), "id_cliente", c.ID)
}

// ListClients returns every client.
func (s *CustomerService) ListClients(ctx context.Context) ([]models.Client, error) {
	clients, err := s.store.ListClients(ctx)
	return clients, done("ListClients", err, "count", len(clients))
}

// GetClient returns the client with the given ID.
func (s *CustomerService) GetClient(ctx context.Context, id string) (*models.Client, error) {
	c, err := s.store.GetClient(ctx, id)
	return c, done("GetClient", err, "id_cliente", id)
}

// UpdateClient rewrites a client after the same checks as CreateClient.
func (s *CustomerService) UpdateClient(ctx context.Context, c *models.Client) error {
	slog.Info("UpdateClient request received", "id_cliente", c.ID)

	if err := requireID("id_cliente", c.ID); err != nil {
		return done("UpdateClient", err)
	}
	normalizeClient(c)
	if err := check(c); err != nil {
		return done("UpdateClient", err)
	}
	return done("UpdateClient", s.store.UpdateClient(ctx, c), "id_cliente", c.ID)
}

// DeleteClient removes a client. Orders of the client block the delete.
func (s *CustomerService) DeleteClient(ctx context.Context, id string) error {
	slog.Info("DeleteClient request received", "id_cliente", id)
	return done("DeleteClient", s.store.DeleteClient(ctx, id), "id_cliente", id)
}
