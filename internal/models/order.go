package models

// Order statuses.
const (
	OrderPreparing = "em_preparo"
	OrderReady     = "pronto"
	OrderCancelled = "cancelado"
)

// Order is a row of the Pedido table.
type Order struct {
	ID       string `json:"id_pedido" db:"id_pedido"`
	ClientID string `json:"id_cliente" db:"id_cliente" validate:"required"`
	// PlacedAt is an RFC 3339 timestamp or a plain date, as sent by the front-end.
	PlacedAt string `json:"data_pedido" db:"data_pedido"`
	Status   string `json:"status" db:"status" validate:"required,oneof=em_preparo pronto cancelado"`
	// TotalCents is the sum of the item subtotals. It is recomputed on every
	// item write.
	TotalCents int64 `json:"total_centavos" db:"total_centavos" validate:"gte=0"`
}

// OrderChanges is the body of an order update. Absent fields keep their
// stored value.
type OrderChanges struct {
	ID         string  `json:"-"`
	Status     *string `json:"status"`
	TotalCents *int64  `json:"total_centavos"`
}

// OrderItem is a row of the ItemPedido table.
type OrderItem struct {
	ID            string `json:"id_item" db:"id_item"`
	OrderID       string `json:"id_pedido" db:"id_pedido" validate:"required"`
	DishID        string `json:"id_prato" db:"id_prato" validate:"required"`
	Quantity      int    `json:"quantidade" db:"quantidade" validate:"gte=1"`
	SubtotalCents int64  `json:"subtotal_centavos" db:"subtotal_centavos" validate:"gte=0"`
}

// OrderSummary gathers an order with its items and payments.
type OrderSummary struct {
	Order    Order       `json:"pedido"`
	Items    []OrderItem `json:"itens"`
	Payments []Payment   `json:"pagamentos"`
	// ItemsTotalCents is recomputed from Items.
	ItemsTotalCents int64 `json:"total_itens_centavos"`
	// PaidCents sums the payments with status pago.
	PaidCents int64 `json:"pago_centavos"`
	// OutstandingCents is what is still owed, never negative.
	OutstandingCents int64 `json:"em_aberto_centavos"`
}
