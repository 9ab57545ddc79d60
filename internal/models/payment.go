package models

// Payment methods.
const (
	MethodPix  = "PIX"
	MethodCard = "CARTAO"
	MethodCash = "DINHEIRO"
)

// Payment statuses.
const (
	PaymentPending  = "pendente"
	PaymentPaid     = "pago"
	PaymentRejected = "recusado"
)

// Payment is a row of the Pagamento table. The method-specific data lives
// in one of CardPayment, PixPayment or CashPayment under the same ID.
type Payment struct {
	ID          string `json:"id_pagamento" db:"id_pagamento"`
	OrderID     string `json:"id_pedido" db:"id_pedido" validate:"required"`
	Method      string `json:"metodo_pagamento" db:"metodo_pagamento" validate:"required,oneof=PIX CARTAO DINHEIRO"`
	AmountCents int64  `json:"valor_centavos" db:"valor_centavos" validate:"gte=0"`
	Status      string `json:"status" db:"status" validate:"required,oneof=pendente pago recusado"`
}

// PaymentChanges is the body of a payment update. Absent fields keep their
// stored value.
type PaymentChanges struct {
	ID          string  `json:"-"`
	Status      *string `json:"status"`
	AmountCents *int64  `json:"valor_centavos"`
}

// CardPayment is a row of the Pagamento_Cartao table.
type CardPayment struct {
	PaymentID     string `json:"id_pagamento" db:"id_pagamento" validate:"required"`
	Brand         string `json:"bandeira" db:"bandeira"`
	LastFour      string `json:"ultimos4" db:"ultimos4" validate:"omitempty,len=4,numeric"`
	Installments  int    `json:"parcelas" db:"parcelas" validate:"gte=1"`
	Authorization string `json:"autorizacao" db:"autorizacao"`
}

// PixPayment is a row of the Pagamento_PIX table.
type PixPayment struct {
	PaymentID string `json:"id_pagamento" db:"id_pagamento" validate:"required"`
	Key       string `json:"chave_pix" db:"chave_pix" validate:"required"`
	TxID      string `json:"txid" db:"txid"`
}

// CashPayment is a row of the Pagamento_Dinheiro table.
type CashPayment struct {
	PaymentID   string `json:"id_pagamento" db:"id_pagamento" validate:"required"`
	ChangeCents int64  `json:"troco" db:"troco" validate:"gte=0"`
	// ReceivedCents is the cash handed over. When set, ChangeCents is
	// derived from it. It is not stored.
	ReceivedCents *int64 `json:"valor_recebido_centavos,omitempty" db:"-"`
}

// PaymentDetails is a payment with its method-specific row.
type PaymentDetails struct {
	Payment
	Card *CardPayment `json:"cartao,omitempty"`
	Pix  *PixPayment  `json:"pix,omitempty"`
	Cash *CashPayment `json:"dinheiro,omitempty"`
}
