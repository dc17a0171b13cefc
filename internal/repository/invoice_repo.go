package repository

import (
	"context"
	"database/sql"
	"errors"

	"chargeadmin/internal/models"
)

// InvoiceRepository handles CRUD for the invoices table.
type InvoiceRepository struct{}

// NewInvoiceRepository returns repository.
func NewInvoiceRepository() *InvoiceRepository {
	return &InvoiceRepository{}
}

const invoiceColumns = "id, session_id, energy_kwh, unit_price, amount, status, created_at"

func scanInvoice(row interface{ Scan(...any) error }) (*models.Invoice, error) {
	var inv models.Invoice
	if err := row.Scan(&inv.ID, &inv.SessionID, &inv.EnergyKWh, &inv.UnitPrice, &inv.Amount, &inv.Status, &inv.CreatedAt); err != nil {
		return nil, err
	}
	return &inv, nil
}

// Create inserts a new invoice with a pre-generated HD code.
func (r *InvoiceRepository) Create(ctx context.Context, q Querier, inv *models.Invoice) error {
	const query = `
		INSERT INTO invoices (id, session_id, energy_kwh, unit_price, amount, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	return q.QueryRowContext(ctx, query,
		inv.ID, inv.SessionID, inv.EnergyKWh, inv.UnitPrice, inv.Amount, inv.Status,
	).Scan(&inv.CreatedAt)
}

// GetByID fetches an invoice.
func (r *InvoiceRepository) GetByID(ctx context.Context, q Querier, id string) (*models.Invoice, error) {
	const query = `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	inv, err := scanInvoice(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// List returns invoices newest first.
func (r *InvoiceRepository) List(ctx context.Context, q Querier, limit int) ([]models.Invoice, error) {
	if limit <= 0 {
		limit = 100
	}
	const query = `SELECT ` + invoiceColumns + ` FROM invoices ORDER BY created_at DESC LIMIT $1`
	rows, err := q.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, *inv)
	}
	return invoices, rows.Err()
}

// SetStatus flips the settlement status.
func (r *InvoiceRepository) SetStatus(ctx context.Context, q Querier, id, status string) error {
	result, err := q.ExecContext(ctx, `UPDATE invoices SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// Delete removes an invoice.
func (r *InvoiceRepository) Delete(ctx context.Context, q Querier, id string) error {
	result, err := q.ExecContext(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// CountDependents returns how many payments still reference the invoice.
func (r *InvoiceRepository) CountDependents(ctx context.Context, q Querier, id string) (int, error) {
	var count int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM payments WHERE invoice_id = $1`, id).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
