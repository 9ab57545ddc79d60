package models

import "github.com/shopspring/decimal"

// Stock tracks how much of one ingredient is on hand, a row of the
// Estoque table.
type Stock struct {
	ID           string          `json:"id_estoque" db:"id_estoque"`
	IngredientID string          `json:"id_ingrediente" db:"id_ingrediente" validate:"required"`
	Quantity     decimal.Decimal `json:"quantidade" db:"quantidade" validate:"gte=0"`
	MinimumLevel decimal.Decimal `json:"limite_minimo" db:"limite_minimo" validate:"gte=0"`
	// UpdatedOn is a calendar date (YYYY-MM-DD).
	UpdatedOn string `json:"data_atualizacao" db:"data_atualizacao" validate:"omitempty,datetime=2006-01-02"`
}

// IsLow reports whether the quantity on hand reached the minimum level.
func (s Stock) IsLow() bool {
	return s.Quantity.LessThanOrEqual(s.MinimumLevel)
}

// LowStock is a stock row below its minimum level, joined with the
// ingredient it refers to.
type LowStock struct {
	Stock
	IngredientName string          `json:"nome_ingrediente" db:"nome"`
	Unit           string          `json:"unidade_medida" db:"unidade_medida"`
	Shortfall      decimal.Decimal `json:"falta" db:"-"`
}

func init() {
	// The front-end reads quantities as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}
