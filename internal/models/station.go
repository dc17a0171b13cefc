package models

import "time"

// Station operational states. Status is derived from maintenance tickets,
// never set directly by a caller.
const (
	StationStatusActive      = "Active"
	StationStatusMaintenance = "Maintenance"
)

// Station is a physical charging site containing one or more ports.
type Station struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Address   string    `db:"address" json:"address"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
