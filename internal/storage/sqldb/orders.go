package sqldb

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/restaurante/backend/internal/models"
)

var (
	orderTable = table{
		name:    "Pedido",
		keys:    []string{"id_pedido"},
		columns: []string{"id_cliente", "data_pedido", "status", "total_centavos"},
		mutable: []string{"status", "total_centavos"},
	}
	orderItemTable = table{
		name:    "ItemPedido",
		keys:    []string{"id_item"},
		columns: []string{"id_pedido", "id_prato", "quantidade", "subtotal_centavos"},
		mutable: []string{"quantidade", "subtotal_centavos"},
	}
)

const refreshOrderTotalQuery = `
	UPDATE Pedido
	SET total_centavos = (
		SELECT COALESCE(SUM(subtotal_centavos), 0) FROM ItemPedido WHERE id_pedido = ?
	)
	WHERE id_pedido = ?
`

// CreateOrder inserts a new order.
func (s *Store) CreateOrder(ctx context.Context, o *models.Order) error {
	return insertRow(ctx, s.db, orderTable, o)
}

// ListOrders returns every order.
func (s *Store) ListOrders(ctx context.Context) ([]models.Order, error) {
	return listRows[models.Order](ctx, s.db, orderTable, "")
}

// GetOrder retrieves an order by ID.
func (s *Store) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return getRow[models.Order](ctx, s.db, orderTable, id)
}

// UpdateOrder writes the status and total of an order.
func (s *Store) UpdateOrder(ctx context.Context, o *models.Order) error {
	return updateRow(ctx, s.db, orderTable, o)
}

// DeleteOrder removes an order and its items. Orders with payments cannot
// be deleted.
func (s *Store) DeleteOrder(ctx context.Context, id string) error {
	return deleteRow(ctx, s.db, orderTable, id)
}

// CreateOrderItem inserts an item and refreshes the order total.
func (s *Store) CreateOrderItem(ctx context.Context, it *models.OrderItem) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := insertRow(ctx, tx, orderItemTable, it); err != nil {
			return err
		}
		return refreshOrderTotal(ctx, tx, it.OrderID)
	})
}

// ListOrderItems returns every order item.
func (s *Store) ListOrderItems(ctx context.Context) ([]models.OrderItem, error) {
	return listRows[models.OrderItem](ctx, s.db, orderItemTable, "")
}

// ListItemsOfOrder returns the items of one order.
func (s *Store) ListItemsOfOrder(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	return listRows[models.OrderItem](ctx, s.db, orderItemTable, "id_pedido = ?", orderID)
}

// GetOrderItem retrieves an item by ID.
func (s *Store) GetOrderItem(ctx context.Context, id string) (*models.OrderItem, error) {
	return getRow[models.OrderItem](ctx, s.db, orderItemTable, id)
}

// UpdateOrderItem writes quantity and subtotal and refreshes the total of
// the order the item belongs to. it.OrderID is ignored.
func (s *Store) UpdateOrderItem(ctx context.Context, it *models.OrderItem) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		current, err := getRow[models.OrderItem](ctx, tx, orderItemTable, it.ID)
		if err != nil {
			return err
		}
		if err := updateRow(ctx, tx, orderItemTable, it); err != nil {
			return err
		}
		return refreshOrderTotal(ctx, tx, current.OrderID)
	})
}

// DeleteOrderItem removes an item and refreshes the order total.
func (s *Store) DeleteOrderItem(ctx context.Context, id string) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		current, err := getRow[models.OrderItem](ctx, tx, orderItemTable, id)
		if err != nil {
			return err
		}
		if err := deleteRow(ctx, tx, orderItemTable, id); err != nil {
			return err
		}
		return refreshOrderTotal(ctx, tx, current.OrderID)
	})
}

func refreshOrderTotal(ctx context.Context, tx *sqlx.Tx, orderID string) error {
	if _, err := tx.ExecContext(ctx, tx.Rebind(refreshOrderTotalQuery), orderID, orderID); err != nil {
		return fmt.Errorf("failed to refresh total of order %s: %w", orderID, err)
	}
	return nil
}
