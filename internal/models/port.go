package models

import "time"

// Port conditions. Occupied/Free follow the session lifecycle, Maintenance
// follows the ticket lifecycle.
const (
	PortConditionFree        = "Free"
	PortConditionOccupied    = "Occupied"
	PortConditionMaintenance = "Maintenance"
)

// Supported port current types.
const (
	PortTypeAC = "AC"
	PortTypeDC = "DC"
)

// Port is an individual charging connector at a station.
type Port struct {
	ID        string    `db:"id" json:"id"`
	StationID string    `db:"station_id" json:"station_id"`
	PowerKW   float64   `db:"power_kw" json:"power_kw"`
	PortType  string    `db:"port_type" json:"port_type"`
	Condition string    `db:"condition" json:"condition"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
