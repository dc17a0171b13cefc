package models

import "time"

// PaymentCodePrefix prefixes generated payment ids (TT001, TT002, ...).
const PaymentCodePrefix = "TT"

// PaymentStatusCompleted marks a settled payment.
const PaymentStatusCompleted = "Completed"

// Payment is a settlement against an invoice.
type Payment struct {
	ID        string    `db:"id" json:"id"`
	InvoiceID string    `db:"invoice_id" json:"invoice_id"`
	Amount    float64   `db:"amount" json:"amount"`
	Method    string    `db:"method" json:"method"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
