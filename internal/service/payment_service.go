package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/restaurante/backend/internal/calculator"
	"github.com/restaurante/backend/internal/models"
	"github.com/restaurante/backend/internal/storage"
)

// PaymentService manages payments and their card, PIX and cash rows.
type PaymentService struct {
	store storage.Store
}

// NewPaymentService creates a PaymentService with the given storage backend.
func NewPaymentService(store storage.Store) *PaymentService {
	return &PaymentService{store: store}
}

// CreatePayment stores a new payment. Status defaults to pendente.
func (s *PaymentService) CreatePayment(ctx context.Context, p *models.Payment) error {
	slog.Info("CreatePayment request received",
		"id_pagamento", p.ID,
		"id_pedido", p.OrderID,
		"metodo_pagamento", p.Method,
		"valor_centavos", p.AmountCents,
	)

	p.Method = strings.ToUpper(strings.TrimSpace(p.Method))
	if p.Status == "" {
		p.Status = models.PaymentPending
	}
	if err := check(p); err != nil {
		return done("CreatePayment", err)
	}
	ensureID(&p.ID)
	return done("CreatePayment", s.store.CreatePayment(ctx, p), "id_pagamento", p.ID)
}

// ListPayments returns every payment.
func (s *PaymentService) ListPayments(ctx context.Context) ([]models.Payment, error) {
	payments, err := s.store.ListPayments(ctx)
	return payments, done("ListPayments", err, "count", len(payments))
}

// GetPayment returns the payment with the given ID.
func (s *PaymentService) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	p, err := s.store.GetPayment(ctx, id)
	return p, done("GetPayment", err, "id_pagamento", id)
}

// UpdatePayment applies the sent status and amount. Absent fields, order
// and method are kept. The amount of a cash payment is fixed once its
// change is recorded; delete the cash row to change it.
func (s *PaymentService) UpdatePayment(ctx context.Context, ch *models.PaymentChanges) error {
	slog.Info("UpdatePayment request received", "id_pagamento", ch.ID)

	current, err := s.store.GetPayment(ctx, ch.ID)
	if err != nil {
		return done("UpdatePayment", err, "id_pagamento", ch.ID)
	}
	if ch.Status != nil {
		current.Status = *ch.Status
	}
	if ch.AmountCents != nil && *ch.AmountCents != current.AmountCents {
		if current.Method == models.MethodCash {
			switch _, err := s.store.GetCashPayment(ctx, current.ID); {
			case err == nil:
				return done("UpdatePayment", invalid("valor_centavos cannot change after troco is recorded"), "id_pagamento", ch.ID)
			case !errors.Is(err, storage.ErrNotFound):
				return done("UpdatePayment", err, "id_pagamento", ch.ID)
			}
		}
		current.AmountCents = *ch.AmountCents
	}
	if err := check(current); err != nil {
		return done("UpdatePayment", err)
	}
	return done("UpdatePayment", s.store.UpdatePayment(ctx, current),
		"id_pagamento", ch.ID, "status", current.Status, "valor_centavos", current.AmountCents)
}

// DeletePayment removes a payment and its method-specific row.
func (s *PaymentService) DeletePayment(ctx context.Context, id string) error {
	slog.Info("DeletePayment request received", "id_pagamento", id)
	return done("DeletePayment", s.store.DeletePayment(ctx, id), "id_pagamento", id)
}

// Details returns a payment with the row matching its method. The row is
// nil when it was never created.
func (s *PaymentService) Details(ctx context.Context, id string) (*models.PaymentDetails, error) {
	p, err := s.store.GetPayment(ctx, id)
	if err != nil {
		return nil, done("PaymentDetails", err, "id_pagamento", id)
	}

	details := &models.PaymentDetails{Payment: *p}
	switch p.Method {
	case models.MethodCard:
		details.Card, err = s.store.GetCardPayment(ctx, id)
	case models.MethodPix:
		details.Pix, err = s.store.GetPixPayment(ctx, id)
	case models.MethodCash:
		details.Cash, err = s.store.GetCashPayment(ctx, id)
	}
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, done("PaymentDetails", err, "id_pagamento", id)
	}
	return details, done("PaymentDetails", nil, "id_pagamento", id, "metodo_pagamento", p.Method)
}

// parent loads the payment a method row belongs to and checks its method.
func (s *PaymentService) parent(ctx context.Context, paymentID, method string) (*models.Payment, error) {
	p, err := s.store.GetPayment(ctx, paymentID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("payment %s: %w", paymentID, storage.ErrReference)
	}
	if err != nil {
		return nil, err
	}
	if p.Method != method {
		return nil, invalid(fmt.Sprintf("payment %s uses %s, not %s", paymentID, p.Method, method))
	}
	return p, nil
}

// CreateCardPayment stores the card row of a CARTAO payment.
func (s *PaymentService) CreateCardPayment(ctx context.Context, c *models.CardPayment) error {
	slog.Info("CreateCardPayment request received", "id_pagamento", c.PaymentID, "bandeira", c.Brand)

	if c.Installments == 0 {
		c.Installments = 1
	}
	if err := check(c); err != nil {
		return done("CreateCardPayment", err)
	}
	if _, err := s.parent(ctx, c.PaymentID, models.MethodCard); err != nil {
		return done("CreateCardPayment", err, "id_pagamento", c.PaymentID)
	}
	return done("CreateCardPayment", s.store.CreateCardPayment(ctx, c), "id_pagamento", c.PaymentID)
}

// ListCardPayments returns every card row.
func (s *PaymentService) ListCardPayments(ctx context.Context) ([]models.CardPayment, error) {
	rows, err := s.store.ListCardPayments(ctx)
	return rows, done("ListCardPayments", err, "count", len(rows))
}

// GetCardPayment returns the card row of a payment.
func (s *PaymentService) GetCardPayment(ctx context.Context, paymentID string) (*models.CardPayment, error) {
	c, err := s.store.GetCardPayment(ctx, paymentID)
	return c, done("GetCardPayment", err, "id_pagamento", paymentID)
}

// UpdateCardPayment rewrites the card row of a payment.
func (s *PaymentService) UpdateCardPayment(ctx context.Context, c *models.CardPayment) error {
	slog.Info("UpdateCardPayment request received", "id_pagamento", c.PaymentID)

	if c.Installments == 0 {
		c.Installments = 1
	}
	if err := check(c); err != nil {
		return done("UpdateCardPayment", err)
	}
	return done("UpdateCardPayment", s.store.UpdateCardPayment(ctx, c), "id_pagamento", c.PaymentID)
}

// DeleteCardPayment removes the card row of a payment.
func (s *PaymentService) DeleteCardPayment(ctx context.Context, paymentID string) error {
	slog.Info("DeleteCardPayment request received", "id_pagamento", paymentID)
	return done("DeleteCardPayment", s.store.DeleteCardPayment(ctx, paymentID), "id_pagamento", paymentID)
}

// CreatePixPayment stores the PIX row of a PIX payment.
func (s *PaymentService) CreatePixPayment(ctx context.Context, p *models.PixPayment) error {
	slog.Info("CreatePixPayment request received", "id_pagamento", p.PaymentID)

	p.Key = strings.TrimSpace(p.Key)
	if err := check(p); err != nil {
		return done("CreatePixPayment", err)
	}
	if _, err := s.parent(ctx, p.PaymentID, models.MethodPix); err != nil {
		return done("CreatePixPayment", err, "id_pagamento", p.PaymentID)
	}
	return done("CreatePixPayment", s.store.CreatePixPayment(ctx, p), "id_pagamento", p.PaymentID)
}

// ListPixPayments returns every PIX row.
func (s *PaymentService) ListPixPayments(ctx context.Context) ([]models.PixPayment, error) {
	rows, err := s.store.ListPixPayments(ctx)
	return rows, done("ListPixPayments", err, "count", len(rows))
}

// GetPixPayment returns the PIX row of a payment.
func (s *PaymentService) GetPixPayment(ctx context.Context, paymentID string) (*models.PixPayment, error) {
	p, err := s.store.GetPixPayment(ctx, paymentID)
	return p, done("GetPixPayment", err, "id_pagamento", paymentID)
}

// UpdatePixPayment rewrites the PIX row of a payment.
func (s *PaymentService) UpdatePixPayment(ctx context.Context, p *models.PixPayment) error {
	slog.Info("UpdatePixPayment request received", "id_pagamento", p.PaymentID)

	p.Key = strings.TrimSpace(p.Key)
	if err := check(p); err != nil {
		return done("UpdatePixPayment", err)
	}
	return done("UpdatePixPayment", s.store.UpdatePixPayment(ctx, p), "id_pagamento", p.PaymentID)
}

// DeletePixPayment removes the PIX row of a payment.
func (s *PaymentService) DeletePixPayment(ctx context.Context, paymentID string) error {
	slog.Info("DeletePixPayment request received", "id_pagamento", paymentID)
	return done("DeletePixPayment", s.store.DeletePixPayment(ctx, paymentID), "id_pagamento", paymentID)
}

// cashChange derives the change from the cash handed over, when sent.
func cashChange(p *models.Payment, c *models.CashPayment) error {
	if c.ReceivedCents == nil {
		return nil
	}
	change, err := calculator.CashChange(p.AmountCents, *c.ReceivedCents)
	if err != nil {
		return invalid(err.Error())
	}
	c.ChangeCents = change
	return nil
}

// CreateCashPayment stores the cash row of a payment. When the amount
// received is sent, the change is computed from it.
func (s *PaymentService) CreateCashPayment(ctx context.Context, c *models.CashPayment) error {
	slog.Info("CreateCashPayment request received", "id_pagamento", c.PaymentID)

	if err := check(c); err != nil {
		return done("CreateCashPayment", err)
	}
	p, err := s.parent(ctx, c.PaymentID, models.MethodCash)
	if err != nil {
		return done("CreateCashPayment", err, "id_pagamento", c.PaymentID)
	}
	if err := cashChange(p, c); err != nil {
		return done("CreateCashPayment", err, "id_pagamento", c.PaymentID)
	}
	return done("CreateCashPayment", s.store.CreateCashPayment(ctx, c),
		"id_pagamento", c.PaymentID, "troco", c.ChangeCents)
}

// ListCashPayments returns every cash row.
func (s *PaymentService) ListCashPayments(ctx context.Context) ([]models.CashPayment, error) {
	rows, err := s.store.ListCashPayments(ctx)
	return rows, done("ListCashPayments", err, "count", len(rows))
}

// GetCashPayment returns the cash row of a payment.
func (s *PaymentService) GetCashPayment(ctx context.Context, paymentID string) (*models.CashPayment, error) {
	c, err := s.store.GetCashPayment(ctx, paymentID)
	return c, done("GetCashPayment", err, "id_pagamento", paymentID)
}

// UpdateCashPayment rewrites the cash row of a payment. The change is
// recomputed when the amount received is sent.
func (s *PaymentService) UpdateCashPayment(ctx context.Context, c *models.CashPayment) error {
	slog.Info("UpdateCashPayment request received", "id_pagamento", c.PaymentID)

	if err := check(c); err != nil {
		return done("UpdateCashPayment", err)
	}
	if c.ReceivedCents != nil {
		p, err := s.store.GetPayment(ctx, c.PaymentID)
		if err != nil {
			return done("UpdateCashPayment", err, "id_pagamento", c.PaymentID)
		}
		if err := cashChange(p, c); err != nil {
			return done("UpdateCashPayment", err, "id_pagamento", c.PaymentID)
		}
	}
	return done("UpdateCashPayment", s.store.UpdateCashPayment(ctx, c),
		"id_pagamento", c.PaymentID, "troco", c.ChangeCents)
}

// DeleteCashPayment removes the cash row of a payment.
func (s *PaymentService) DeleteCashPayment(ctx context.Context, paymentID string) error {
	slog.Info("DeleteCashPayment request received", "id_pagamento", paymentID)
	return done("DeleteCashPayment", s.store.DeleteCashPayment(ctx, paymentID), "id_pagamento", paymentID)
}
