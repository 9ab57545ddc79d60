package sqldb

import (
	"context"
	"fmt"

	"github.com/restaurante/backend/internal/models"
)

var stockTable = table{
	name:    "Estoque",
	keys:    []string{"id_estoque"},
	columns: []string{"id_ingrediente", "quantidade", "limite_minimo", "data_atualizacao"},
	mutable: []string{"quantidade", "limite_minimo", "data_atualizacao"},
}

// CreateStock inserts a new stock row.
func (s *Store) CreateStock(ctx context.Context, st *models.Stock) error {
	return insertRow(ctx, s.db, stockTable, st)
}

// ListStock returns every stock row.
func (s *Store) ListStock(ctx context.Context) ([]models.Stock, error) {
	return listRows[models.Stock](ctx, s.db, stockTable, "")
}

// GetStock retrieves a stock row by ID.
func (s *Store) GetStock(ctx context.Context, id string) (*models.Stock, error) {
	return getRow[models.Stock](ctx, s.db, stockTable, id)
}

// UpdateStock writes quantity, minimum level and date. The ingredient of a
// stock row never changes.
func (s *Store) UpdateStock(ctx context.Context, st *models.Stock) error {
	return updateRow(ctx, s.db, stockTable, st)
}

// DeleteStock removes a stock row.
func (s *Store) DeleteStock(ctx context.Context, id string) error {
	return deleteRow(ctx, s.db, stockTable, id)
}

// ListLowStock returns the stock rows at or below their minimum level with
// the name and unit of their ingredient. Shortfall is left for the caller.
func (s *Store) ListLowStock(ctx context.Context) ([]models.LowStock, error) {
	query := `
		SELECT e.id_estoque, e.id_ingrediente, e.quantidade, e.limite_minimo,
		       e.data_atualizacao, i.nome, i.unidade_medida
		FROM Estoque e
		JOIN Ingrediente i ON i.id_ingrediente = e.id_ingrediente
		WHERE e.quantidade <= e.limite_minimo
		ORDER BY i.nome, e.id_estoque
	`

	rows := []models.LowStock{}
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list low stock: %w", err)
	}
	return rows, nil
}
