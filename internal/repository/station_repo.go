package repository

import (
	"context"
	"database/sql"
	"errors"

	"chargeadmin/internal/models"
)

// ErrNotFound represents any missing row.
var ErrNotFound = errors.New("repository: row not found")

// StationRepository handles CRUD for the stations table. Methods take a
// Querier so they can join a caller's transaction.
type StationRepository struct{}

// NewStationRepository returns repository.
func NewStationRepository() *StationRepository {
	return &StationRepository{}
}

const stationColumns = "id, name, address, status, created_at, updated_at"

func scanStation(row interface{ Scan(...any) error }) (*models.Station, error) {
	var st models.Station
	if err := row.Scan(&st.ID, &st.Name, &st.Address, &st.Status, &st.CreatedAt, &st.UpdatedAt); err != nil {
		return nil, err
	}
	return &st, nil
}

// Create inserts a new station.
func (r *StationRepository) Create(ctx context.Context, q Querier, st *models.Station) error {
	const query = `
		INSERT INTO stations (id, name, address, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	return q.QueryRowContext(ctx, query, st.ID, st.Name, st.Address, st.Status).
		Scan(&st.CreatedAt, &st.UpdatedAt)
}

// GetByID fetches a station.
func (r *StationRepository) GetByID(ctx context.Context, q Querier, id string) (*models.Station, error) {
	const query = `SELECT ` + stationColumns + ` FROM stations WHERE id = $1`
	st, err := scanStation(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return st, nil
}

// List returns all stations ordered by id.
func (r *StationRepository) List(ctx context.Context, q Querier) ([]models.Station, error) {
	const query = `SELECT ` + stationColumns + ` FROM stations ORDER BY id`
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stations []models.Station
	for rows.Next() {
		st, err := scanStation(rows)
		if err != nil {
			return nil, err
		}
		stations = append(stations, *st)
	}
	return stations, rows.Err()
}

// Update rewrites name and address. Status is owned by the maintenance flow.
func (r *StationRepository) Update(ctx context.Context, q Querier, st *models.Station) error {
	const query = `
		UPDATE stations
		SET name = $2, address = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING status, updated_at
	`
	err := q.QueryRowContext(ctx, query, st.ID, st.Name, st.Address).
		Scan(&st.Status, &st.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// SetStatus overwrites the operational status (maintenance propagation only).
func (r *StationRepository) SetStatus(ctx context.Context, q Querier, id, status string) error {
	const query = `UPDATE stations SET status = $2, updated_at = NOW() WHERE id = $1`
	result, err := q.ExecContext(ctx, query, id, status)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// Delete removes a station.
func (r *StationRepository) Delete(ctx context.Context, q Querier, id string) error {
	result, err := q.ExecContext(ctx, `DELETE FROM stations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// CountDependents returns how many ports and employees still reference the station.
func (r *StationRepository) CountDependents(ctx context.Context, q Querier, id string) (int, error) {
	const query = `
		SELECT (SELECT COUNT(*) FROM ports WHERE station_id = $1)
		     + (SELECT COUNT(*) FROM employees WHERE station_id = $1)
	`
	var count int
	if err := q.QueryRowContext(ctx, query, id).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
