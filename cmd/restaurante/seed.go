package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/restaurante/backend/internal/auth"
	"github.com/restaurante/backend/internal/models"
	"github.com/restaurante/backend/internal/service"
	"github.com/restaurante/backend/internal/storage"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a sample menu and the admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := cmd.Context()
		if err := seedCatalog(ctx, service.NewCatalogService(store)); err != nil {
			return err
		}

		if cfg.Auth.AdminEmail != "" {
			authService := service.NewAuthService(
				auth.NewPasswordAuthenticator(store),
				auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
				slog.Default(),
			)
			if err := authService.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminName, cfg.Auth.AdminPassword); err != nil {
				return err
			}
		}

		fmt.Fprintln(cmd.OutOrStdout(), "seed complete")
		return nil
	},
}

// skipExisting treats rows seeded by an earlier run as success.
func skipExisting(err error) error {
	if errors.Is(err, storage.ErrDuplicate) {
		return nil
	}
	return err
}

func seedCatalog(ctx context.Context, catalog *service.CatalogService) error {
	qty := decimal.RequireFromString

	ingredients := []models.Ingredient{
		{ID: "arroz", Name: "Arroz", Unit: models.UnitKilogram},
		{ID: "feijao", Name: "Feijão preto", Unit: models.UnitKilogram},
		{ID: "carne-seca", Name: "Carne seca", Unit: models.UnitKilogram},
		{ID: "leite-coco", Name: "Leite de coco", Unit: models.UnitMilliliter},
		{ID: "peixe", Name: "Peixe branco", Unit: models.UnitKilogram},
		{ID: "tapioca", Name: "Goma de tapioca", Unit: models.UnitGram},
	}
	for i := range ingredients {
		if err := skipExisting(catalog.CreateIngredient(ctx, &ingredients[i])); err != nil {
			return fmt.Errorf("failed to seed ingredient %s: %w", ingredients[i].ID, err)
		}
	}

	stock := []models.Stock{
		{ID: "est-arroz", IngredientID: "arroz", Quantity: qty("25"), MinimumLevel: qty("5")},
		{ID: "est-feijao", IngredientID: "feijao", Quantity: qty("8"), MinimumLevel: qty("5")},
		{ID: "est-carne-seca", IngredientID: "carne-seca", Quantity: qty("2.5"), MinimumLevel: qty("3")},
		{ID: "est-leite-coco", IngredientID: "leite-coco", Quantity: qty("4000"), MinimumLevel: qty("1000")},
		{ID: "est-peixe", IngredientID: "peixe", Quantity: qty("6"), MinimumLevel: qty("2")},
		{ID: "est-tapioca", IngredientID: "tapioca", Quantity: qty("3000"), MinimumLevel: qty("500")},
	}
	for i := range stock {
		if err := skipExisting(catalog.CreateStock(ctx, &stock[i])); err != nil {
			return fmt.Errorf("failed to seed stock %s: %w", stock[i].ID, err)
		}
	}

	dishes := []models.Dish{
		{ID: "tapioca-coco", Name: "Tapioca de coco", Description: "Tapioca com coco ralado", PriceCents: 1490, Category: models.CategoryStarter},
		{ID: "feijoada", Name: "Feijoada", Description: "Feijão preto com carnes e arroz", PriceCents: 5990, Category: models.CategoryMain},
		{ID: "moqueca", Name: "Moqueca de peixe", Description: "Peixe no leite de coco", PriceCents: 7490, Category: models.CategoryMain},
		{ID: "cocada", Name: "Cocada", Description: "Doce de coco", PriceCents: 990, Category: models.CategoryDessert},
	}
	for i := range dishes {
		if err := skipExisting(catalog.CreateDish(ctx, &dishes[i])); err != nil {
			return fmt.Errorf("failed to seed dish %s: %w", dishes[i].ID, err)
		}
	}

	recipes := []models.DishIngredient{
		{DishID: "tapioca-coco", IngredientID: "tapioca", QuantityUsed: qty("120")},
		{DishID: "tapioca-coco", IngredientID: "leite-coco", QuantityUsed: qty("30")},
		{DishID: "feijoada", IngredientID: "feijao", QuantityUsed: qty("0.25")},
		{DishID: "feijoada", IngredientID: "carne-seca", QuantityUsed: qty("0.2")},
		{DishID: "feijoada", IngredientID: "arroz", QuantityUsed: qty("0.15")},
		{DishID: "moqueca", IngredientID: "peixe", QuantityUsed: qty("0.3")},
		{DishID: "moqueca", IngredientID: "leite-coco", QuantityUsed: qty("200")},
		{DishID: "moqueca", IngredientID: "arroz", QuantityUsed: qty("0.15")},
	}
	for i := range recipes {
		if err := skipExisting(catalog.CreateDishIngredient(ctx, &recipes[i])); err != nil {
			return fmt.Errorf("failed to seed recipe %s/%s: %w", recipes[i].DishID, recipes[i].IngredientID, err)
		}
	}

	slog.Info("Catalog seeded",
		"ingredientes", len(ingredients),
		"estoques", len(stock),
		"pratos", len(dishes),
	)
	return nil
}
