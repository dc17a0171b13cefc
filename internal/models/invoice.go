package models

import "time"

// Invoice settlement states.
const (
	InvoiceStatusUnpaid = "Unpaid"
	InvoiceStatusPaid   = "Paid"
)

// InvoiceCodePrefix prefixes generated invoice ids (HD001, HD002, ...).
const InvoiceCodePrefix = "HD"

// Invoice is the billing record finalized when a charging session completes.
// Amount is reproducible from the session timestamps, the port power rating
// and the unit price captured at completion time.
type Invoice struct {
	ID        string    `db:"id" json:"id"`
	SessionID int64     `db:"session_id" json:"session_id"`
	EnergyKWh float64   `db:"energy_kwh" json:"energy_kwh"`
	UnitPrice float64   `db:"unit_price" json:"unit_price"`
	Amount    float64   `db:"amount" json:"amount"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
