package sqldb

import (
	"context"

	"github.com/restaurante/backend/internal/models"
)

var (
	ingredientTable = table{
		name:    "Ingrediente",
		keys:    []string{"id_ingrediente"},
		columns: []string{"nome", "unidade_medida"},
	}
	dishTable = table{
		name:    "Prato",
		keys:    []string{"id_prato"},
		columns: []string{"nome", "descricao", "preco_centavos", "categoria"},
	}
	dishIngredientTable = table{
		name:    "Prato_Ingrediente",
		keys:    []string{"id_prato", "id_ingrediente"},
		columns: []string{"quantidade_utilizada"},
	}
)

func (s *Store) CreateIngredient(ctx context.Context, i *models.Ingredient) error {
	return insertRow(ctx, s.db, ingredientTable, i)
}

func (s *Store) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	return listRows[models.Ingredient](ctx, s.db, ingredientTable, "")
}

func (s *Store) GetIngredient(ctx context.Context, id string) (*models.Ingredient, error) {
	return getRow[models.Ingredient](ctx, s.db, ingredientTable, id)
}

func (s *Store) UpdateIngredient(ctx context.Context, i *models.Ingredient) error {
	return updateRow(ctx, s.db, ingredientTable, i)
}

func (s *Store) DeleteIngredient(ctx context.Context, id string) error {
	return deleteRow(ctx, s.db, ingredientTable, id)
}

func (s *Store) CreateDish(ctx context.Context, d *models.Dish) error {
	return insertRow(ctx, s.db, dishTable, d)
}

func (s *Store) ListDishes(ctx context.Context) ([]models.Dish, error) {
	return listRows[models.Dish](ctx, s.db, dishTable, "")
}

func (s *Store) GetDish(ctx context.Context, id string) (*models.Dish, error) {
	return getRow[models.Dish](ctx, s.db, dishTable, id)
}

func (s *Store) UpdateDish(ctx context.Context, d *models.Dish) error {
	return updateRow(ctx, s.db, dishTable, d)
}

// DeleteDish removes a dish and, by cascade, its recipe. Dishes that were
// ordered cannot be deleted.
func (s *Store) DeleteDish(ctx context.Context, id string) error {
	return deleteRow(ctx, s.db, dishTable, id)
}

func (s *Store) CreateDishIngredient(ctx context.Context, di *models.DishIngredient) error {
	return insertRow(ctx, s.db, dishIngredientTable, di)
}

func (s *Store) ListDishIngredients(ctx context.Context) ([]models.DishIngredient, error) {
	return listRows[models.DishIngredient](ctx, s.db, dishIngredientTable, "")
}

// ListIngredientsOfDish returns the recipe of one dish.
func (s *Store) ListIngredientsOfDish(ctx context.Context, dishID string) ([]models.DishIngredient, error) {
	return listRows[models.DishIngredient](ctx, s.db, dishIngredientTable, "id_prato = ?", dishID)
}

func (s *Store) GetDishIngredient(ctx context.Context, dishID, ingredientID string) (*models.DishIngredient, error) {
	return getRow[models.DishIngredient](ctx, s.db, dishIngredientTable, dishID, ingredientID)
}

func (s *Store) UpdateDishIngredient(ctx context.Context, di *models.DishIngredient) error {
	return updateRow(ctx, s.db, dishIngredientTable, di)
}

func (s *Store) DeleteDishIngredient(ctx context.Context, dishID, ingredientID string) error {
	return deleteRow(ctx, s.db, dishIngredientTable, dishID, ingredientID)
}
