package models

import "time"

// Maintenance ticket states.
const (
	TicketStatusOpen      = "Open"
	TicketStatusCompleted = "Completed"
)

// MaintenanceTicket records service work against a port or, when PortID is
// nil, against the whole station.
type MaintenanceTicket struct {
	ID         int64     `db:"id" json:"id"`
	EmployeeID string    `db:"employee_id" json:"employee_id"`
	StationID  string    `db:"station_id" json:"station_id"`
	PortID     *string   `db:"port_id" json:"port_id,omitempty"`
	Status     string    `db:"status" json:"status"`
	OpenedAt   time.Time `db:"opened_at" json:"opened_at"`
	Notes      string    `db:"notes" json:"notes"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
