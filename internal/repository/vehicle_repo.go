package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"chargeadmin/internal/models"
)

// VehicleRepository handles CRUD for the vehicles table.
type VehicleRepository struct{}

// NewVehicleRepository returns repository.
func NewVehicleRepository() *VehicleRepository {
	return &VehicleRepository{}
}

const vehicleColumns = "id, customer_id, plate, model, created_at"

func scanVehicle(row interface{ Scan(...any) error }) (*models.Vehicle, error) {
	var v models.Vehicle
	if err := row.Scan(&v.ID, &v.CustomerID, &v.Plate, &v.Model, &v.CreatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}

// Create inserts a new vehicle.
func (r *VehicleRepository) Create(ctx context.Context, q Querier, v *models.Vehicle) error {
	v.Plate = strings.ToUpper(strings.TrimSpace(v.Plate))
	const query = `
		INSERT INTO vehicles (customer_id, plate, model)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	return q.QueryRowContext(ctx, query, v.CustomerID, v.Plate, v.Model).Scan(&v.ID, &v.CreatedAt)
}

// GetByID fetches a vehicle.
func (r *VehicleRepository) GetByID(ctx context.Context, q Querier, id int64) (*models.Vehicle, error) {
	const query = `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`
	v, err := scanVehicle(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// ExistsByPlate reports whether another vehicle already uses the plate.
func (r *VehicleRepository) ExistsByPlate(ctx context.Context, q Querier, plate string, excludeID int64) (bool, error) {
	plate = strings.ToUpper(strings.TrimSpace(plate))
	var count int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM vehicles WHERE plate = $1 AND id <> $2`, plate, excludeID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns all vehicles, optionally filtered by customer.
func (r *VehicleRepository) List(ctx context.Context, q Querier, customerID int64) ([]models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles ORDER BY id`
	args := []any{}
	if customerID != 0 {
		query = `SELECT ` + vehicleColumns + ` FROM vehicles WHERE customer_id = $1 ORDER BY id`
		args = append(args, customerID)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []models.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, *v)
	}
	return vehicles, rows.Err()
}

// Update rewrites vehicle fields.
func (r *VehicleRepository) Update(ctx context.Context, q Querier, v *models.Vehicle) error {
	v.Plate = strings.ToUpper(strings.TrimSpace(v.Plate))
	const query = `
		UPDATE vehicles
		SET customer_id = $2, plate = $3, model = $4
		WHERE id = $1
	`
	result, err := q.ExecContext(ctx, query, v.ID, v.CustomerID, v.Plate, v.Model)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// Delete removes a vehicle.
func (r *VehicleRepository) Delete(ctx context.Context, q Querier, id int64) error {
	result, err := q.ExecContext(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// CountDependents returns how many sessions still reference the vehicle.
func (r *VehicleRepository) CountDependents(ctx context.Context, q Querier, id int64) (int, error) {
	var count int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM charging_sessions WHERE vehicle_id = $1`, id).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
