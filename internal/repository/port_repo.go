package repository

import (
	"context"
	"database/sql"
	"errors"

	"chargeadmin/internal/models"
)

// PortRepository handles CRUD for the ports table.
type PortRepository struct{}

// NewPortRepository returns repository.
func NewPortRepository() *PortRepository {
	return &PortRepository{}
}

const portColumns = "id, station_id, power_kw, port_type, condition, created_at, updated_at"

func scanPort(row interface{ Scan(...any) error }) (*models.Port, error) {
	var p models.Port
	if err := row.Scan(&p.ID, &p.StationID, &p.PowerKW, &p.PortType, &p.Condition, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new port.
func (r *PortRepository) Create(ctx context.Context, q Querier, p *models.Port) error {
	const query = `
		INSERT INTO ports (id, station_id, power_kw, port_type, condition)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	return q.QueryRowContext(ctx, query, p.ID, p.StationID, p.PowerKW, p.PortType, p.Condition).
		Scan(&p.CreatedAt, &p.UpdatedAt)
}

// GetByID fetches a port.
func (r *PortRepository) GetByID(ctx context.Context, q Querier, id string) (*models.Port, error) {
	const query = `SELECT ` + portColumns + ` FROM ports WHERE id = $1`
	p, err := scanPort(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// List returns all ports, optionally filtered by station.
func (r *PortRepository) List(ctx context.Context, q Querier, stationID string) ([]models.Port, error) {
	query := `SELECT ` + portColumns + ` FROM ports ORDER BY id`
	args := []any{}
	if stationID != "" {
		query = `SELECT ` + portColumns + ` FROM ports WHERE station_id = $1 ORDER BY id`
		args = append(args, stationID)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ports []models.Port
	for rows.Next() {
		p, err := scanPort(rows)
		if err != nil {
			return nil, err
		}
		ports = append(ports, *p)
	}
	return ports, rows.Err()
}

// Update rewrites power rating and port type. Condition is owned by the
// maintenance and session flows.
func (r *PortRepository) Update(ctx context.Context, q Querier, p *models.Port) error {
	const query = `
		UPDATE ports
		SET power_kw = $2, port_type = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING station_id, condition, updated_at
	`
	err := q.QueryRowContext(ctx, query, p.ID, p.PowerKW, p.PortType).
		Scan(&p.StationID, &p.Condition, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// SetCondition overwrites the condition (status propagation only).
func (r *PortRepository) SetCondition(ctx context.Context, q Querier, id, condition string) error {
	const query = `UPDATE ports SET condition = $2, updated_at = NOW() WHERE id = $1`
	result, err := q.ExecContext(ctx, query, id, condition)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// Delete removes a port.
func (r *PortRepository) Delete(ctx context.Context, q Querier, id string) error {
	result, err := q.ExecContext(ctx, `DELETE FROM ports WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// CountDependents returns how many sessions and tickets still reference the port.
func (r *PortRepository) CountDependents(ctx context.Context, q Querier, id string) (int, error) {
	const query = `
		SELECT (SELECT COUNT(*) FROM charging_sessions WHERE port_id = $1)
		     + (SELECT COUNT(*) FROM maintenance_tickets WHERE port_id = $1)
	`
	var count int
	if err := q.QueryRowContext(ctx, query, id).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
