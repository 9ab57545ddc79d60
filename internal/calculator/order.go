// Package calculator holds the money arithmetic of orders and payments.
// All amounts are integer cents.
package calculator

import (
	"errors"
	"fmt"
	"math"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/restaurante/backend/internal/models"
)

var (
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrNegativePrice    = errors.New("price cannot be negative")
	ErrOverflow         = errors.New("amount out of range")
	ErrInsufficientCash = errors.New("cash received is less than the amount due")
)

// ItemSubtotal computes price x quantity for one order line.
func ItemSubtotal(priceCents int64, quantity int) (int64, error) {
	if quantity < 1 {
		return 0, ErrInvalidQuantity
	}
	if priceCents < 0 {
		return 0, ErrNegativePrice
	}
	if priceCents > 0 && int64(quantity) > math.MaxInt64/priceCents {
		return 0, fmt.Errorf("%w: %d x %d", ErrOverflow, priceCents, quantity)
	}
	return priceCents * int64(quantity), nil
}

// OrderTotal sums the subtotals of an order's items.
func OrderTotal(items []models.OrderItem) int64 {
	return lo.SumBy(items, func(it models.OrderItem) int64 { return it.SubtotalCents })
}

// CashChange returns the change owed when receivedCents is handed over for
// an amount of dueCents.
func CashChange(dueCents, receivedCents int64) (int64, error) {
	if receivedCents < dueCents {
		return 0, fmt.Errorf("%w: received %d, due %d", ErrInsufficientCash, receivedCents, dueCents)
	}
	return receivedCents - dueCents, nil
}

// PaidTotal sums the payments that were settled (status pago).
func PaidTotal(payments []models.Payment) int64 {
	settled := lo.Filter(payments, func(p models.Payment, _ int) bool { return p.Status == models.PaymentPaid })
	return lo.SumBy(settled, func(p models.Payment) int64 { return p.AmountCents })
}

// Summarize builds the summary of an order from its items and payments.
func Summarize(order models.Order, items []models.OrderItem, payments []models.Payment) models.OrderSummary {
	total := OrderTotal(items)
	paid := PaidTotal(payments)
	return models.OrderSummary{
		Order:            order,
		Items:            lo.Ternary(items == nil, []models.OrderItem{}, items),
		Payments:         lo.Ternary(payments == nil, []models.Payment{}, payments),
		ItemsTotalCents:  total,
		PaidCents:        paid,
		OutstandingCents: max(total-paid, 0),
	}
}

// Shortfall is how much is missing to bring a stock row back to its
// minimum level. It is zero when the stock is above the minimum.
func Shortfall(s models.Stock) decimal.Decimal {
	if s.Quantity.GreaterThanOrEqual(s.MinimumLevel) {
		return decimal.Zero
	}
	return s.MinimumLevel.Sub(s.Quantity)
}
