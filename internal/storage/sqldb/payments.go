package sqldb

import (
	"context"

	"github.com/restaurante/backend/internal/models"
)

var (
	paymentTable = table{
		name:    "Pagamento",
		keys:    []string{"id_pagamento"},
		columns: []string{"id_pedido", "metodo_pagamento", "valor_centavos", "status"},
		mutable: []string{"status", "valor_centavos"},
	}
	cardPaymentTable = table{
		name:    "Pagamento_Cartao",
		keys:    []string{"id_pagamento"},
		columns: []string{"bandeira", "ultimos4", "parcelas", "autorizacao"},
	}
	pixPaymentTable = table{
		name:    "Pagamento_PIX",
		keys:    []string{"id_pagamento"},
		columns: []string{"chave_pix", "txid"},
	}
	cashPaymentTable = table{
		name:    "Pagamento_Dinheiro",
		keys:    []string{"id_pagamento"},
		columns: []string{"troco"},
	}
)

func (s *Store) CreatePayment(ctx context.Context, p *models.Payment) error {
	return insertRow(ctx, s.db, paymentTable, p)
}

func (s *Store) ListPayments(ctx context.Context) ([]models.Payment, error) {
	return listRows[models.Payment](ctx, s.db, paymentTable, "")
}

// ListPaymentsOfOrder returns the payments made for one order.
func (s *Store) ListPaymentsOfOrder(ctx context.Context, orderID string) ([]models.Payment, error) {
	return listRows[models.Payment](ctx, s.db, paymentTable, "id_pedido = ?", orderID)
}

func (s *Store) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	return getRow[models.Payment](ctx, s.db, paymentTable, id)
}

// UpdatePayment writes status and amount. Order and method are fixed once
// the payment exists.
func (s *Store) UpdatePayment(ctx context.Context, p *models.Payment) error {
	return updateRow(ctx, s.db, paymentTable, p)
}

// DeletePayment removes a payment together with its method-specific row.
func (s *Store) DeletePayment(ctx context.Context, id string) error {
	return deleteRow(ctx, s.db, paymentTable, id)
}

func (s *Store) CreateCardPayment(ctx context.Context, c *models.CardPayment) error {
	return insertRow(ctx, s.db, cardPaymentTable, c)
}

func (s *Store) ListCardPayments(ctx context.Context) ([]models.CardPayment, error) {
	return listRows[models.CardPayment](ctx, s.db, cardPaymentTable, "")
}

func (s *Store) GetCardPayment(ctx context.Context, paymentID string) (*models.CardPayment, error) {
	return getRow[models.CardPayment](ctx, s.db, cardPaymentTable, paymentID)
}

func (s *Store) UpdateCardPayment(ctx context.Context, c *models.CardPayment) error {
	return updateRow(ctx, s.db, cardPaymentTable, c)
}

func (s *Store) DeleteCardPayment(ctx context.Context, paymentID string) error {
	return deleteRow(ctx, s.db, cardPaymentTable, paymentID)
}

func (s *Store) CreatePixPayment(ctx context.Context, p *models.PixPayment) error {
	return insertRow(ctx, s.db, pixPaymentTable, p)
}

func (s *Store) ListPixPayments(ctx context.Context) ([]models.PixPayment, error) {
	return listRows[models.PixPayment](ctx, s.db, pixPaymentTable, "")
}

func (s *Store) GetPixPayment(ctx context.Context, paymentID string) (*models.PixPayment, error) {
	return getRow[models.PixPayment](ctx, s.db, pixPaymentTable, paymentID)
}

func (s *Store) UpdatePixPayment(ctx context.Context, p *models.PixPayment) error {
	return updateRow(ctx, s.db, pixPaymentTable, p)
}

func (s *Store) DeletePixPayment(ctx context.Context, paymentID string) error {
	return deleteRow(ctx, s.db, pixPaymentTable, paymentID)
}

func (s *Store) CreateCashPayment(ctx context.Context, c *models.CashPayment) error {
	return insertRow(ctx, s.db, cashPaymentTable, c)
}

func (s *Store) ListCashPayments(ctx context.Context) ([]models.CashPayment, error) {
	return listRows[models.CashPayment](ctx, s.db, cashPaymentTable, "")
}

func (s *Store) GetCashPayment(ctx context.Context, paymentID string) (*models.CashPayment, error) {
	return getRow[models.CashPayment](ctx, s.db, cashPaymentTable, paymentID)
}

func (s *Store) UpdateCashPayment(ctx context.Context, c *models.CashPayment) error {
	return updateRow(ctx, s.db, cashPaymentTable, c)
}

func (s *Store) DeleteCashPayment(ctx context.Context, paymentID string) error {
	return deleteRow(ctx, s.db, cashPaymentTable, paymentID)
}
