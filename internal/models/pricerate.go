package models

import "time"

// Price rate states. At most one Applying rate exists per port type;
// activating a new rate retires the previous one.
const (
	RateStatusApplying = "Applying"
	RateStatusInactive = "Inactive"
)

// PriceRate is a unit price per kWh for a port type, effective from a date.
type PriceRate struct {
	ID            int64     `db:"id" json:"id"`
	PortType      string    `db:"port_type" json:"port_type"`
	PricePerKWh   float64   `db:"price_per_kwh" json:"price_per_kwh"`
	EffectiveDate time.Time `db:"effective_date" json:"effective_date"`
	Status        string    `db:"status" json:"status"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
