package models

import "time"

// Charging session states. A session with an end time is always Completed.
const (
	SessionStatusActive    = "Active"
	SessionStatusCompleted = "Completed"
)

// ChargingSession binds a vehicle to a port over a time interval.
type ChargingSession struct {
	ID        int64      `db:"id" json:"id"`
	PortID    string     `db:"port_id" json:"port_id"`
	VehicleID int64      `db:"vehicle_id" json:"vehicle_id"`
	Status    string     `db:"status" json:"status"`
	StartTime time.Time  `db:"start_time" json:"start_time"`
	EndTime   *time.Time `db:"end_time" json:"end_time,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}
