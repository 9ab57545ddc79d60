// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/restaurante/backend/internal/models"
)

var (
	// ErrNotFound is returned when no row matches the given key.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a key or unique column is already taken.
	ErrDuplicate = errors.New("already exists")
	// ErrReference is returned when a foreign key is missing or a row is
	// still referenced by another table.
	ErrReference = errors.New("referenced row missing or still in use")
)

// AddressStore persists Endereco rows.
type AddressStore interface {
	CreateAddress(ctx context.Context, a *models.Address) error
	ListAddresses(ctx context.Context) ([]models.Address, error)
	GetAddress(ctx context.Context, id string) (*models.Address, error)
	UpdateAddress(ctx context.Context, a *models.Address) error
	DeleteAddress(ctx context.Context, id string) error
}

// ClientStore persists Cliente rows.
type ClientStore interface {
	CreateClient(ctx context.Context, c *models.Client) error
	ListClients(ctx context.Context) ([]models.Client, error)
	GetClient(ctx context.Context, id string) (*models.Client, error)
	UpdateClient(ctx context.Context, c *models.Client) error
	DeleteClient(ctx context.Context, id string) error
}

// IngredientStore persists Ingrediente rows.
type IngredientStore interface {
	CreateIngredient(ctx context.Context, i *models.Ingredient) error
	ListIngredients(ctx context.Context) ([]models.Ingredient, error)
	GetIngredient(ctx context.Context, id string) (*models.Ingredient, error)
	UpdateIngredient(ctx context.Context, i *models.Ingredient) error
	DeleteIngredient(ctx context.Context, id string) error
}

// StockStore persists Estoque rows.
type StockStore interface {
	CreateStock(ctx context.Context, s *models.Stock) error
	ListStock(ctx context.Context) ([]models.Stock, error)
	GetStock(ctx context.Context, id string) (*models.Stock, error)
	// UpdateStock writes quantity, minimum level and date only.
	UpdateStock(ctx context.Context, s *models.Stock) error
	DeleteStock(ctx context.Context, id string) error
	// ListLowStock returns the rows whose quantity is at or below the
	// minimum level.
	ListLowStock(ctx context.Context) ([]models.LowStock, error)
}

// DishStore persists Prato and Prato_Ingrediente rows.
type DishStore interface {
	CreateDish(ctx context.Context, d *models.Dish) error
	ListDishes(ctx context.Context) ([]models.Dish, error)
	GetDish(ctx context.Context, id string) (*models.Dish, error)
	UpdateDish(ctx context.Context, d *models.Dish) error
	DeleteDish(ctx context.Context, id string) error

	CreateDishIngredient(ctx context.Context, di *models.DishIngredient) error
	ListDishIngredients(ctx context.Context) ([]models.DishIngredient, error)
	ListIngredientsOfDish(ctx context.Context, dishID string) ([]models.DishIngredient, error)
	GetDishIngredient(ctx context.Context, dishID, ingredientID string) (*models.DishIngredient, error)
	UpdateDishIngredient(ctx context.Context, di *models.DishIngredient) error
	DeleteDishIngredient(ctx context.Context, dishID, ingredientID string) error
}

// OrderStore persists Pedido and ItemPedido rows.
// Every item write recomputes the parent order total in the same
// transaction.
type OrderStore interface {
	CreateOrder(ctx context.Context, o *models.Order) error
	ListOrders(ctx context.Context) ([]models.Order, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	// UpdateOrder writes status and total only.
	UpdateOrder(ctx context.Context, o *models.Order) error
	DeleteOrder(ctx context.Context, id string) error

	CreateOrderItem(ctx context.Context, it *models.OrderItem) error
	ListOrderItems(ctx context.Context) ([]models.OrderItem, error)
	ListItemsOfOrder(ctx context.Context, orderID string) ([]models.OrderItem, error)
	GetOrderItem(ctx context.Context, id string) (*models.OrderItem, error)
	// UpdateOrderItem writes quantity and subtotal only.
	UpdateOrderItem(ctx context.Context, it *models.OrderItem) error
	DeleteOrderItem(ctx context.Context, id string) error
}

// PaymentStore persists Pagamento rows and their method-specific tables.
type PaymentStore interface {
	CreatePayment(ctx context.Context, p *models.Payment) error
	ListPayments(ctx context.Context) ([]models.Payment, error)
	ListPaymentsOfOrder(ctx context.Context, orderID string) ([]models.Payment, error)
	GetPayment(ctx context.Context, id string) (*models.Payment, error)
	// UpdatePayment writes status and amount only.
	UpdatePayment(ctx context.Context, p *models.Payment) error
	DeletePayment(ctx context.Context, id string) error

	CreateCardPayment(ctx context.Context, c *models.CardPayment) error
	ListCardPayments(ctx context.Context) ([]models.CardPayment, error)
	GetCardPayment(ctx context.Context, paymentID string) (*models.CardPayment, error)
	UpdateCardPayment(ctx context.Context, c *models.CardPayment) error
	DeleteCardPayment(ctx context.Context, paymentID string) error

	CreatePixPayment(ctx context.Context, p *models.PixPayment) error
	ListPixPayments(ctx context.Context) ([]models.PixPayment, error)
	GetPixPayment(ctx context.Context, paymentID string) (*models.PixPayment, error)
	UpdatePixPayment(ctx context.Context, p *models.PixPayment) error
	DeletePixPayment(ctx context.Context, paymentID string) error

	CreateCashPayment(ctx context.Context, c *models.CashPayment) error
	ListCashPayments(ctx context.Context) ([]models.CashPayment, error)
	GetCashPayment(ctx context.Context, paymentID string) (*models.CashPayment, error)
	UpdateCashPayment(ctx context.Context, c *models.CashPayment) error
	DeleteCashPayment(ctx context.Context, paymentID string) error
}

// UserStore persists staff accounts.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Store defines every storage operation of the restaurant.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	AddressStore
	ClientStore
	IngredientStore
	StockStore
	DishStore
	OrderStore
	PaymentStore
	UserStore

	// Ping checks that the database is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
