package repository

import (
	"context"
	"database/sql"
	"errors"

	"chargeadmin/internal/models"
)

// MaintenanceRepository handles CRUD for the maintenance_tickets table.
type MaintenanceRepository struct{}

// NewMaintenanceRepository returns repository.
func NewMaintenanceRepository() *MaintenanceRepository {
	return &MaintenanceRepository{}
}

const ticketColumns = "id, employee_id, station_id, port_id, status, opened_at, notes, created_at, updated_at"

func scanTicket(row interface{ Scan(...any) error }) (*models.MaintenanceTicket, error) {
	var t models.MaintenanceTicket
	if err := row.Scan(&t.ID, &t.EmployeeID, &t.StationID, &t.PortID, &t.Status, &t.OpenedAt, &t.Notes, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a new ticket.
func (r *MaintenanceRepository) Create(ctx context.Context, q Querier, t *models.MaintenanceTicket) error {
	const query = `
		INSERT INTO maintenance_tickets (employee_id, station_id, port_id, status, opened_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	return q.QueryRowContext(ctx, query,
		t.EmployeeID, t.StationID, t.PortID, t.Status, t.OpenedAt, t.Notes,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

// GetByID fetches a ticket.
func (r *MaintenanceRepository) GetByID(ctx context.Context, q Querier, id int64) (*models.MaintenanceTicket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM maintenance_tickets WHERE id = $1`
	t, err := scanTicket(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// List returns tickets newest first.
func (r *MaintenanceRepository) List(ctx context.Context, q Querier, limit int) ([]models.MaintenanceTicket, error) {
	if limit <= 0 {
		limit = 100
	}
	const query = `SELECT ` + ticketColumns + ` FROM maintenance_tickets ORDER BY opened_at DESC LIMIT $1`
	rows, err := q.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []models.MaintenanceTicket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *t)
	}
	return tickets, rows.Err()
}

// Update rewrites status and notes.
func (r *MaintenanceRepository) Update(ctx context.Context, q Querier, t *models.MaintenanceTicket) error {
	const query = `
		UPDATE maintenance_tickets
		SET status = $2, notes = $3, updated_at = NOW()
		WHERE id = $1
	`
	result, err := q.ExecContext(ctx, query, t.ID, t.Status, t.Notes)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// Delete removes a ticket.
func (r *MaintenanceRepository) Delete(ctx context.Context, q Querier, id int64) error {
	result, err := q.ExecContext(ctx, `DELETE FROM maintenance_tickets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}
