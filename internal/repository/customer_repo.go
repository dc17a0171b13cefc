package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"chargeadmin/internal/models"
)

// CustomerRepository handles CRUD for the customers table.
type CustomerRepository struct{}

// NewCustomerRepository returns repository.
func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{}
}

const customerColumns = "id, full_name, email, phone, created_at"

func scanCustomer(row interface{ Scan(...any) error }) (*models.Customer, error) {
	var c models.Customer
	if err := row.Scan(&c.ID, &c.FullName, &c.Email, &c.Phone, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new customer.
func (r *CustomerRepository) Create(ctx context.Context, q Querier, c *models.Customer) error {
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	const query = `
		INSERT INTO customers (full_name, email, phone)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	return q.QueryRowContext(ctx, query, c.FullName, c.Email, c.Phone).Scan(&c.ID, &c.CreatedAt)
}

// GetByID fetches a customer.
func (r *CustomerRepository) GetByID(ctx context.Context, q Querier, id int64) (*models.Customer, error) {
	const query = `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	c, err := scanCustomer(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ExistsByContact reports whether another customer already uses the email or phone.
func (r *CustomerRepository) ExistsByContact(ctx context.Context, q Querier, email, phone string, excludeID int64) (bool, error) {
	const query = `
		SELECT COUNT(*) FROM customers
		WHERE (email = $1 OR phone = $2) AND id <> $3
	`
	var count int
	email = strings.ToLower(strings.TrimSpace(email))
	if err := q.QueryRowContext(ctx, query, email, phone, excludeID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns all customers.
func (r *CustomerRepository) List(ctx context.Context, q Querier) ([]models.Customer, error) {
	const query = `SELECT ` + customerColumns + ` FROM customers ORDER BY id`
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []models.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, *c)
	}
	return customers, rows.Err()
}

// Update rewrites customer fields.
func (r *CustomerRepository) Update(ctx context.Context, q Querier, c *models.Customer) error {
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	const query = `
		UPDATE customers
		SET full_name = $2, email = $3, phone = $4
		WHERE id = $1
	`
	result, err := q.ExecContext(ctx, query, c.ID, c.FullName, c.Email, c.Phone)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// Delete removes a customer.
func (r *CustomerRepository) Delete(ctx context.Context, q Querier, id int64) error {
	result, err := q.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// CountDependents returns how many vehicles still reference the customer.
func (r *CustomerRepository) CountDependents(ctx context.Context, q Querier, id int64) (int, error) {
	var count int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM vehicles WHERE customer_id = $1`, id).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
