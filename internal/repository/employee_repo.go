package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"chargeadmin/internal/models"
)

// EmployeeRepository handles CRUD for the employees table.
type EmployeeRepository struct{}

// NewEmployeeRepository returns repository.
func NewEmployeeRepository() *EmployeeRepository {
	return &EmployeeRepository{}
}

const employeeColumns = "id, station_id, full_name, email, phone, password_hash, role, approved, first_login, created_at"

func scanEmployee(row interface{ Scan(...any) error }) (*models.Employee, error) {
	var e models.Employee
	if err := row.Scan(&e.ID, &e.StationID, &e.FullName, &e.Email, &e.Phone, &e.PasswordHash, &e.Role, &e.Approved, &e.FirstLogin, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts a new employee with a pre-generated NV code.
func (r *EmployeeRepository) Create(ctx context.Context, q Querier, e *models.Employee) error {
	e.Email = strings.ToLower(strings.TrimSpace(e.Email))
	const query = `
		INSERT INTO employees (id, station_id, full_name, email, phone, password_hash, role, approved, first_login)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`
	return q.QueryRowContext(ctx, query,
		e.ID, e.StationID, e.FullName, e.Email, e.Phone, e.PasswordHash, e.Role, e.Approved, e.FirstLogin,
	).Scan(&e.CreatedAt)
}

// GetByID fetches an employee.
func (r *EmployeeRepository) GetByID(ctx context.Context, q Querier, id string) (*models.Employee, error) {
	const query = `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`
	e, err := scanEmployee(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// GetByEmail fetches an employee by normalized email.
func (r *EmployeeRepository) GetByEmail(ctx context.Context, q Querier, email string) (*models.Employee, error) {
	const query = `SELECT ` + employeeColumns + ` FROM employees WHERE email = $1`
	e, err := scanEmployee(q.QueryRowContext(ctx, query, strings.ToLower(strings.TrimSpace(email))))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// List returns all employees ordered by code.
func (r *EmployeeRepository) List(ctx context.Context, q Querier) ([]models.Employee, error) {
	const query = `SELECT ` + employeeColumns + ` FROM employees ORDER BY id`
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []models.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, *e)
	}
	return employees, rows.Err()
}

// Update rewrites profile fields.
func (r *EmployeeRepository) Update(ctx context.Context, q Querier, e *models.Employee) error {
	e.Email = strings.ToLower(strings.TrimSpace(e.Email))
	const query = `
		UPDATE employees
		SET station_id = $2, full_name = $3, email = $4, phone = $5, role = $6
		WHERE id = $1
		RETURNING approved, first_login
	`
	err := q.QueryRowContext(ctx, query, e.ID, e.StationID, e.FullName, e.Email, e.Phone, e.Role).
		Scan(&e.Approved, &e.FirstLogin)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// SetApproved flips the approval flag.
func (r *EmployeeRepository) SetApproved(ctx context.Context, q Querier, id string, approved bool) error {
	result, err := q.ExecContext(ctx, `UPDATE employees SET approved = $2 WHERE id = $1`, id, approved)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// SetPassword stores a new hash and clears the first-login flag.
func (r *EmployeeRepository) SetPassword(ctx context.Context, q Querier, id, hash string) error {
	const query = `UPDATE employees SET password_hash = $2, first_login = FALSE WHERE id = $1`
	result, err := q.ExecContext(ctx, query, id, hash)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// Delete removes an employee.
func (r *EmployeeRepository) Delete(ctx context.Context, q Querier, id string) error {
	result, err := q.ExecContext(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// CountDependents returns how many maintenance tickets reference the employee.
func (r *EmployeeRepository) CountDependents(ctx context.Context, q Querier, id string) (int, error) {
	var count int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM maintenance_tickets WHERE employee_id = $1`, id).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
