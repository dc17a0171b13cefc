package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"chargeadmin/internal/models"
)

// SessionRepository handles persistence of charging sessions.
type SessionRepository struct{}

// NewSessionRepository returns repository.
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{}
}

const sessionColumns = "id, port_id, vehicle_id, status, start_time, end_time, created_at, updated_at"

func scanSession(row interface{ Scan(...any) error }) (*models.ChargingSession, error) {
	var s models.ChargingSession
	if err := row.Scan(&s.ID, &s.PortID, &s.VehicleID, &s.Status, &s.StartTime, &s.EndTime, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a new active session.
func (r *SessionRepository) Create(ctx context.Context, q Querier, s *models.ChargingSession) error {
	const query = `
		INSERT INTO charging_sessions (port_id, vehicle_id, status, start_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	return q.QueryRowContext(ctx, query, s.PortID, s.VehicleID, s.Status, s.StartTime).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

// GetByID fetches a session.
func (r *SessionRepository) GetByID(ctx context.Context, q Querier, id int64) (*models.ChargingSession, error) {
	const query = `SELECT ` + sessionColumns + ` FROM charging_sessions WHERE id = $1`
	s, err := scanSession(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// List returns sessions newest first.
func (r *SessionRepository) List(ctx context.Context, q Querier, limit int) ([]models.ChargingSession, error) {
	if limit <= 0 {
		limit = 100
	}
	const query = `SELECT ` + sessionColumns + ` FROM charging_sessions ORDER BY start_time DESC LIMIT $1`
	rows, err := q.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.ChargingSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

// Update rewrites the vehicle and start time of an active session.
func (r *SessionRepository) Update(ctx context.Context, q Querier, s *models.ChargingSession) error {
	const query = `
		UPDATE charging_sessions
		SET vehicle_id = $2, start_time = $3, updated_at = NOW()
		WHERE id = $1
	`
	result, err := q.ExecContext(ctx, query, s.ID, s.VehicleID, s.StartTime)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// Complete stamps the end time and flips status to Completed.
func (r *SessionRepository) Complete(ctx context.Context, q Querier, id int64, endTime time.Time) error {
	const query = `
		UPDATE charging_sessions
		SET end_time = $2, status = $3, updated_at = NOW()
		WHERE id = $1
	`
	result, err := q.ExecContext(ctx, query, id, endTime, models.SessionStatusCompleted)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// Delete removes a session.
func (r *SessionRepository) Delete(ctx context.Context, q Querier, id int64) error {
	result, err := q.ExecContext(ctx, `DELETE FROM charging_sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// HasInvoice reports whether the session already has a finalized invoice.
func (r *SessionRepository) HasInvoice(ctx context.Context, q Querier, id int64) (bool, error) {
	var count int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM invoices WHERE session_id = $1`, id).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
