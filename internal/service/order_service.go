package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/restaurante/backend/internal/calculator"
	"github.com/restaurante/backend/internal/models"
	"github.com/restaurante/backend/internal/storage"
)

// OrderService manages orders and their items.
type OrderService struct {
	store storage.Store
}

// NewOrderService creates an OrderService with the given storage backend.
func NewOrderService(store storage.Store) *OrderService {
	return &OrderService{store: store}
}

// CreateOrder stores a new order. Status defaults to em_preparo and the
// order date to the current time.
func (s *OrderService) CreateOrder(ctx context.Context, o *models.Order) error {
	slog.Info("CreateOrder request received", "id_pedido", o.ID, "id_cliente", o.ClientID)

	if o.Status == "" {
		o.Status = models.OrderPreparing
	}
	if o.PlacedAt == "" {
		o.PlacedAt = now().UTC().Format(time.RFC3339)
	}
	if err := check(o); err != nil {
		return done("CreateOrder", err)
	}
	ensureID(&o.ID)
	return done("CreateOrder", s.store.CreateOrder(ctx, o), "id_pedido", o.ID)
}

// ListOrders returns every order.
func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	orders, err := s.store.ListOrders(ctx)
	return orders, done("ListOrders", err, "count", len(orders))
}

// GetOrder returns the order with the given ID.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	o, err := s.store.GetOrder(ctx, id)
	return o, done("GetOrder", err, "id_pedido", id)
}

// UpdateOrder applies the sent status and total to an order. Absent
// fields, client and date are kept, so a status change leaves the total
// derived from the items alone.
func (s *OrderService) UpdateOrder(ctx context.Context, ch *models.OrderChanges) error {
	slog.Info("UpdateOrder request received", "id_pedido", ch.ID)

	current, err := s.store.GetOrder(ctx, ch.ID)
	if err != nil {
		return done("UpdateOrder", err, "id_pedido", ch.ID)
	}
	if ch.Status != nil {
		current.Status = *ch.Status
	}
	if ch.TotalCents != nil {
		current.TotalCents = *ch.TotalCents
	}
	if err := check(current); err != nil {
		return done("UpdateOrder", err)
	}
	return done("UpdateOrder", s.store.UpdateOrder(ctx, current),
		"id_pedido", ch.ID, "status", current.Status, "total_centavos", current.TotalCents)
}

// DeleteOrder removes an order and its items.
func (s *OrderService) DeleteOrder(ctx context.Context, id string) error {
	slog.Info("DeleteOrder request received", "id_pedido", id)
	return done("DeleteOrder", s.store.DeleteOrder(ctx, id), "id_pedido", id)
}

// subtotal prices quantity units of a dish. An unknown dish is a broken
// reference.
func (s *OrderService) subtotal(ctx context.Context, dishID string, quantity int) (int64, error) {
	dish, err := s.store.GetDish(ctx, dishID)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, fmt.Errorf("dish %s: %w", dishID, storage.ErrReference)
	}
	if err != nil {
		return 0, err
	}
	amount, err := calculator.ItemSubtotal(dish.PriceCents, quantity)
	if err != nil {
		return 0, invalid(err.Error())
	}
	return amount, nil
}

// AddItem stores a new order item. When the subtotal is omitted it is the
// dish price times the quantity. The order total is refreshed.
func (s *OrderService) AddItem(ctx context.Context, it *models.OrderItem) error {
	slog.Info("AddItem request received", "id_pedido", it.OrderID, "id_prato", it.DishID, "quantidade", it.Quantity)

	if err := check(it); err != nil {
		return done("AddItem", err)
	}
	if it.SubtotalCents == 0 {
		amount, err := s.subtotal(ctx, it.DishID, it.Quantity)
		if err != nil {
			return done("AddItem", err, "id_prato", it.DishID)
		}
		it.SubtotalCents = amount
	}
	ensureID(&it.ID)
	return done("AddItem", s.store.CreateOrderItem(ctx, it),
		"id_item", it.ID, "id_pedido", it.OrderID, "subtotal_centavos", it.SubtotalCents)
}

// ListItems returns the items of every order.
func (s *OrderService) ListItems(ctx context.Context) ([]models.OrderItem, error) {
	items, err := s.store.ListOrderItems(ctx)
	return items, done("ListItems", err, "count", len(items))
}

// ItemsOf returns the items of one order. An unknown order is reported as
// storage.ErrNotFound.
func (s *OrderService) ItemsOf(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	if _, err := s.store.GetOrder(ctx, orderID); err != nil {
		return nil, done("ItemsOf", err, "id_pedido", orderID)
	}
	items, err := s.store.ListItemsOfOrder(ctx, orderID)
	return items, done("ItemsOf", err, "id_pedido", orderID, "count", len(items))
}

// GetItem returns the order item with the given ID.
func (s *OrderService) GetItem(ctx context.Context, id string) (*models.OrderItem, error) {
	it, err := s.store.GetOrderItem(ctx, id)
	return it, done("GetItem", err, "id_item", id)
}

// UpdateItem changes quantity and subtotal of an item. A zero subtotal is
// derived from the dish price. The order total is refreshed.
func (s *OrderService) UpdateItem(ctx context.Context, it *models.OrderItem) error {
	slog.Info("UpdateItem request received", "id_item", it.ID, "quantidade", it.Quantity)

	current, err := s.store.GetOrderItem(ctx, it.ID)
	if err != nil {
		return done("UpdateItem", err, "id_item", it.ID)
	}
	current.Quantity = it.Quantity
	current.SubtotalCents = it.SubtotalCents
	if err := check(current); err != nil {
		return done("UpdateItem", err)
	}
	if current.SubtotalCents == 0 {
		amount, err := s.subtotal(ctx, current.DishID, current.Quantity)
		if err != nil {
			return done("UpdateItem", err, "id_item", it.ID)
		}
		current.SubtotalCents = amount
	}
	if err := s.store.UpdateOrderItem(ctx, current); err != nil {
		return done("UpdateItem", err, "id_item", it.ID)
	}
	*it = *current
	return done("UpdateItem", nil, "id_item", it.ID, "subtotal_centavos", it.SubtotalCents)
}

// RemoveItem deletes an item and refreshes the order total.
func (s *OrderService) RemoveItem(ctx context.Context, id string) error {
	slog.Info("RemoveItem request received", "id_item", id)
	return done("RemoveItem", s.store.DeleteOrderItem(ctx, id), "id_item", id)
}

// Summary gathers an order with its items and payments and what is still
// owed.
func (s *OrderService) Summary(ctx context.Context, orderID string) (*models.OrderSummary, error) {
	slog.Info("Summary request received", "id_pedido", orderID)

	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, done("Summary", err, "id_pedido", orderID)
	}
	items, err := s.store.ListItemsOfOrder(ctx, orderID)
	if err != nil {
		return nil, done("Summary", err, "id_pedido", orderID)
	}
	payments, err := s.store.ListPaymentsOfOrder(ctx, orderID)
	if err != nil {
		return nil, done("Summary", err, "id_pedido", orderID)
	}

	summary := calculator.Summarize(*order, items, payments)
	if summary.ItemsTotalCents != order.TotalCents {
		slog.Warn("Order total differs from its items",
			"id_pedido", orderID,
			"total_centavos", order.TotalCents,
			"total_itens_centavos", summary.ItemsTotalCents,
		)
	}
	return &summary, done("Summary", nil, "id_pedido", orderID, "em_aberto_centavos", summary.OutstandingCents)
}
