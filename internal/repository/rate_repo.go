package repository

import (
	"context"
	"database/sql"
	"errors"

	"chargeadmin/internal/models"
)

// RateRepository handles CRUD for the price_rates table.
type RateRepository struct{}

// NewRateRepository returns repository.
func NewRateRepository() *RateRepository {
	return &RateRepository{}
}

const rateColumns = "id, port_type, price_per_kwh, effective_date, status, created_at"

func scanRate(row interface{ Scan(...any) error }) (*models.PriceRate, error) {
	var rate models.PriceRate
	if err := row.Scan(&rate.ID, &rate.PortType, &rate.PricePerKWh, &rate.EffectiveDate, &rate.Status, &rate.CreatedAt); err != nil {
		return nil, err
	}
	return &rate, nil
}

// Create inserts a new rate row.
func (r *RateRepository) Create(ctx context.Context, q Querier, rate *models.PriceRate) error {
	const query = `
		INSERT INTO price_rates (port_type, price_per_kwh, effective_date, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	return q.QueryRowContext(ctx, query,
		rate.PortType, rate.PricePerKWh, rate.EffectiveDate, rate.Status,
	).Scan(&rate.ID, &rate.CreatedAt)
}

// GetByID fetches a rate.
func (r *RateRepository) GetByID(ctx context.Context, q Querier, id int64) (*models.PriceRate, error) {
	const query = `SELECT ` + rateColumns + ` FROM price_rates WHERE id = $1`
	rate, err := scanRate(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rate, nil
}

// GetActive returns the Applying rate with the most recent effective date for
// a port type.
func (r *RateRepository) GetActive(ctx context.Context, q Querier, portType string) (*models.PriceRate, error) {
	const query = `
		SELECT ` + rateColumns + `
		FROM price_rates
		WHERE port_type = $1 AND status = $2
		ORDER BY effective_date DESC
		LIMIT 1
	`
	rate, err := scanRate(q.QueryRowContext(ctx, query, portType, models.RateStatusApplying))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rate, nil
}

// List returns all rates, newest effective date first.
func (r *RateRepository) List(ctx context.Context, q Querier) ([]models.PriceRate, error) {
	const query = `SELECT ` + rateColumns + ` FROM price_rates ORDER BY effective_date DESC`
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rates []models.PriceRate
	for rows.Next() {
		rate, err := scanRate(rows)
		if err != nil {
			return nil, err
		}
		rates = append(rates, *rate)
	}
	return rates, rows.Err()
}

// DeactivateByType retires every Applying rate of a port type.
func (r *RateRepository) DeactivateByType(ctx context.Context, q Querier, portType string) error {
	const query = `UPDATE price_rates SET status = $2 WHERE port_type = $1 AND status = $3`
	_, err := q.ExecContext(ctx, query, portType, models.RateStatusInactive, models.RateStatusApplying)
	return err
}

// Update rewrites price and effective date of a rate.
func (r *RateRepository) Update(ctx context.Context, q Querier, rate *models.PriceRate) error {
	const query = `
		UPDATE price_rates
		SET price_per_kwh = $2, effective_date = $3, status = $4
		WHERE id = $1
	`
	result, err := q.ExecContext(ctx, query, rate.ID, rate.PricePerKWh, rate.EffectiveDate, rate.Status)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// Delete removes a rate.
func (r *RateRepository) Delete(ctx context.Context, q Querier, id int64) error {
	result, err := q.ExecContext(ctx, `DELETE FROM price_rates WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}
