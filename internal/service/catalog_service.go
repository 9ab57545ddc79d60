package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/restaurante/backend/internal/calculator"
	"github.com/restaurante/backend/internal/models"
	"github.com/restaurante/backend/internal/storage"
)

// CatalogService manages ingredients, stock, dishes and dish recipes.
type CatalogService struct {
	store storage.Store
}

// NewCatalogService creates a CatalogService with the given storage backend.
func NewCatalogService(store storage.Store) *CatalogService {
	return &CatalogService{store: store}
}

// CreateIngredient stores an ingredient. The unit must be one of kg, g, L,
// ml or un.
func (s *CatalogService) CreateIngredient(ctx context.Context, i *models.Ingredient) error {
	slog.Info("CreateIngredient request received", "id_ingrediente", i.ID, "nome", i.Name)

	i.Name = strings.TrimSpace(i.Name)
	if err := check(i); err != nil {
		return done("CreateIngredient", err)
	}
	ensureID(&i.ID)
	return done("CreateIngredient", s.store.CreateIngredient(ctx, i), "id_ingrediente", i.ID)
}

// ListIngredients returns every ingredient.
func (s *CatalogService) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	items, err := s.store.ListIngredients(ctx)
	return items, done("ListIngredients", err, "count", len(items))
}

// GetIngredient returns the ingredient with the given ID.
func (s *CatalogService) GetIngredient(ctx context.Context, id string) (*models.Ingredient, error) {
	i, err := s.store.GetIngredient(ctx, id)
	return i, done("GetIngredient", err, "id_ingrediente", id)
}

// UpdateIngredient rewrites the name and unit of an ingredient.
func (s *CatalogService) UpdateIngredient(ctx context.Context, i *models.Ingredient) error {
	slog.Info("UpdateIngredient request received", "id_ingrediente", i.ID)

	if err := requireID("id_ingrediente", i.ID); err != nil {
		return done("UpdateIngredient", err)
	}
	i.Name = strings.TrimSpace(i.Name)
	if err := check(i); err != nil {
		return done("UpdateIngredient", err)
	}
	return done("UpdateIngredient", s.store.UpdateIngredient(ctx, i), "id_ingrediente", i.ID)
}

// DeleteIngredient removes an ingredient. Stock rows or recipes that use
// it block the delete.
func (s *CatalogService) DeleteIngredient(ctx context.Context, id string) error {
	slog.Info("DeleteIngredient request received", "id_ingrediente", id)
	return done("DeleteIngredient", s.store.DeleteIngredient(ctx, id), "id_ingrediente", id)
}

// CreateStock stores a stock row. The date defaults to today.
func (s *CatalogService) CreateStock(ctx context.Context, st *models.Stock) error {
	slog.Info("CreateStock request received", "id_estoque", st.ID, "id_ingrediente", st.IngredientID)

	if st.UpdatedOn == "" {
		st.UpdatedOn = today()
	}
	if err := check(st); err != nil {
		return done("CreateStock", err)
	}
	ensureID(&st.ID)
	return done("CreateStock", s.store.CreateStock(ctx, st), "id_estoque", st.ID)
}

// ListStock returns every stock row.
func (s *CatalogService) ListStock(ctx context.Context) ([]models.Stock, error) {
	rows, err := s.store.ListStock(ctx)
	return rows, done("ListStock", err, "count", len(rows))
}

// GetStock returns the stock row with the given ID.
func (s *CatalogService) GetStock(ctx context.Context, id string) (*models.Stock, error) {
	st, err := s.store.GetStock(ctx, id)
	return st, done("GetStock", err, "id_estoque", id)
}

// UpdateStock changes quantity, minimum level and date of a stock row.
// The date defaults to today.
func (s *CatalogService) UpdateStock(ctx context.Context, st *models.Stock) error {
	slog.Info("UpdateStock request received", "id_estoque", st.ID)

	current, err := s.store.GetStock(ctx, st.ID)
	if err != nil {
		return done("UpdateStock", err, "id_estoque", st.ID)
	}
	current.Quantity = st.Quantity
	current.MinimumLevel = st.MinimumLevel
	current.UpdatedOn = st.UpdatedOn
	if current.UpdatedOn == "" {
		current.UpdatedOn = today()
	}
	if err := check(current); err != nil {
		return done("UpdateStock", err)
	}
	if err := s.store.UpdateStock(ctx, current); err != nil {
		return done("UpdateStock", err, "id_estoque", st.ID)
	}
	*st = *current
	return done("UpdateStock", nil, "id_estoque", st.ID, "quantidade", st.Quantity)
}

// DeleteStock removes a stock row.
func (s *CatalogService) DeleteStock(ctx context.Context, id string) error {
	slog.Info("DeleteStock request received", "id_estoque", id)
	return done("DeleteStock", s.store.DeleteStock(ctx, id), "id_estoque", id)
}

// LowStock lists the stock rows at or below their minimum level, with the
// quantity missing to reach it.
func (s *CatalogService) LowStock(ctx context.Context) ([]models.LowStock, error) {
	rows, err := s.store.ListLowStock(ctx)
	if err != nil {
		return nil, done("LowStock", err)
	}
	for i := range rows {
		rows[i].Shortfall = calculator.Shortfall(rows[i].Stock)
	}
	return rows, done("LowStock", nil, "count", len(rows))
}

func normalizeDish(d *models.Dish) {
	d.Name = strings.TrimSpace(d.Name)
	d.Description = strings.TrimSpace(d.Description)
}

// CreateDish adds a dish to the menu.
func (s *CatalogService) CreateDish(ctx context.Context, d *models.Dish) error {
	slog.Info("CreateDish request received", "id_prato", d.ID, "nome", d.Name)

	normalizeDish(d)
	if err := check(d); err != nil {
		return done("CreateDish", err)
	}
	ensureID(&d.ID)
	return done("CreateDish", s.store.CreateDish(ctx, d), "id_prato", d.ID)
}

// ListDishes returns the whole menu.
func (s *CatalogService) ListDishes(ctx context.Context) ([]models.Dish, error) {
	dishes, err := s.store.ListDishes(ctx)
	return dishes, done("ListDishes", err, "count", len(dishes))
}

// GetDish returns the dish with the given ID.
func (s *CatalogService) GetDish(ctx context.Context, id string) (*models.Dish, error) {
	d, err := s.store.GetDish(ctx, id)
	return d, done("GetDish", err, "id_prato", id)
}

// UpdateDish rewrites name, description, price and category of a dish.
func (s *CatalogService) UpdateDish(ctx context.Context, d *models.Dish) error {
	slog.Info("UpdateDish request received", "id_prato", d.ID)

	if err := requireID("id_prato", d.ID); err != nil {
		return done("UpdateDish", err)
	}
	normalizeDish(d)
	if err := check(d); err != nil {
		return done("UpdateDish", err)
	}
	return done("UpdateDish", s.store.UpdateDish(ctx, d), "id_prato", d.ID)
}

// DeleteDish removes a dish and its recipe. Order items of the dish block
// the delete.
func (s *CatalogService) DeleteDish(ctx context.Context, id string) error {
	slog.Info("DeleteDish request received", "id_prato", id)
	return done("DeleteDish", s.store.DeleteDish(ctx, id), "id_prato", id)
}

// CreateDishIngredient adds an ingredient to the recipe of a dish.
func (s *CatalogService) CreateDishIngredient(ctx context.Context, di *models.DishIngredient) error {
	slog.Info("CreateDishIngredient request received", "id_prato", di.DishID, "id_ingrediente", di.IngredientID)

	if err := check(di); err != nil {
		return done("CreateDishIngredient", err)
	}
	return done("CreateDishIngredient", s.store.CreateDishIngredient(ctx, di),
		"id_prato", di.DishID, "id_ingrediente", di.IngredientID)
}

// ListDishIngredients returns the recipes of every dish.
func (s *CatalogService) ListDishIngredients(ctx context.Context) ([]models.DishIngredient, error) {
	rows, err := s.store.ListDishIngredients(ctx)
	return rows, done("ListDishIngredients", err, "count", len(rows))
}

// Recipe returns the ingredients of one dish. An unknown dish is
// reported as storage.ErrNotFound.
func (s *CatalogService) Recipe(ctx context.Context, dishID string) ([]models.DishIngredient, error) {
	if _, err := s.store.GetDish(ctx, dishID); err != nil {
		return nil, done("Recipe", err, "id_prato", dishID)
	}
	rows, err := s.store.ListIngredientsOfDish(ctx, dishID)
	return rows, done("Recipe", err, "id_prato", dishID, "count", len(rows))
}

// GetDishIngredient returns one recipe line.
func (s *CatalogService) GetDishIngredient(ctx context.Context, dishID, ingredientID string) (*models.DishIngredient, error) {
	di, err := s.store.GetDishIngredient(ctx, dishID, ingredientID)
	return di, done("GetDishIngredient", err, "id_prato", dishID, "id_ingrediente", ingredientID)
}

// UpdateDishIngredient changes the quantity of an ingredient in a recipe.
func (s *CatalogService) UpdateDishIngredient(ctx context.Context, di *models.DishIngredient) error {
	slog.Info("UpdateDishIngredient request received", "id_prato", di.DishID, "id_ingrediente", di.IngredientID)

	if err := check(di); err != nil {
		return done("UpdateDishIngredient", err)
	}
	return done("UpdateDishIngredient", s.store.UpdateDishIngredient(ctx, di),
		"id_prato", di.DishID, "id_ingrediente", di.IngredientID)
}

// DeleteDishIngredient drops an ingredient from a recipe.
func (s *CatalogService) DeleteDishIngredient(ctx context.Context, dishID, ingredientID string) error {
	slog.Info("DeleteDishIngredient request received", "id_prato", dishID, "id_ingrediente", ingredientID)
	return done("DeleteDishIngredient", s.store.DeleteDishIngredient(ctx, dishID, ingredientID),
		"id_prato", dishID, "id_ingrediente", ingredientID)
}
