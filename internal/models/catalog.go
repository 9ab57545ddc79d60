package models

import "github.com/shopspring/decimal"

// Units accepted for Ingredient.Unit.
const (
	UnitKilogram   = "kg"
	UnitGram       = "g"
	UnitLiter      = "L"
	UnitMilliliter = "ml"
	UnitPiece      = "un"
)

// Dish categories.
const (
	CategoryStarter = "entrada"
	CategoryMain    = "prato_principal"
	CategoryDessert = "sobremesa"
)

// Ingredient is a row of the Ingrediente table.
type Ingredient struct {
	ID   string `json:"id_ingrediente" db:"id_ingrediente"`
	Name string `json:"nome" db:"nome" validate:"required"`
	Unit string `json:"unidade_medida" db:"unidade_medida" validate:"required,oneof=kg g L ml un"`
}

// Dish is a menu item, a row of the Prato table.
type Dish struct {
	ID          string `json:"id_prato" db:"id_prato"`
	Name        string `json:"nome" db:"nome" validate:"required"`
	Description string `json:"descricao" db:"descricao"`
	PriceCents  int64  `json:"preco_centavos" db:"preco_centavos" validate:"gte=0"`
	Category    string `json:"categoria" db:"categoria" validate:"required,oneof=entrada prato_principal sobremesa"`
}

// DishIngredient links a dish to one ingredient of its recipe.
// The pair (DishID, IngredientID) is the key.
type DishIngredient struct {
	DishID       string          `json:"id_prato" db:"id_prato" validate:"required"`
	IngredientID string          `json:"id_ingrediente" db:"id_ingrediente" validate:"required"`
	QuantityUsed decimal.Decimal `json:"quantidade_utilizada" db:"quantidade_utilizada" validate:"gt=0"`
}
