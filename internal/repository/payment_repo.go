package repository

import (
	"context"
	"database/sql"
	"errors"

	"chargeadmin/internal/models"
)

// PaymentRepository handles CRUD for the payments table.
type PaymentRepository struct{}

// NewPaymentRepository returns repository.
func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{}
}

const paymentColumns = "id, invoice_id, amount, method, status, created_at"

func scanPayment(row interface{ Scan(...any) error }) (*models.Payment, error) {
	var p models.Payment
	if err := row.Scan(&p.ID, &p.InvoiceID, &p.Amount, &p.Method, &p.Status, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new payment with a pre-generated TT code.
func (r *PaymentRepository) Create(ctx context.Context, q Querier, p *models.Payment) error {
	const query = `
		INSERT INTO payments (id, invoice_id, amount, method, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	return q.QueryRowContext(ctx, query, p.ID, p.InvoiceID, p.Amount, p.Method, p.Status).
		Scan(&p.CreatedAt)
}

// GetByID fetches a payment.
func (r *PaymentRepository) GetByID(ctx context.Context, q Querier, id string) (*models.Payment, error) {
	const query = `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	p, err := scanPayment(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// List returns payments newest first, optionally filtered by invoice.
func (r *PaymentRepository) List(ctx context.Context, q Querier, invoiceID string, limit int) ([]models.Payment, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT ` + paymentColumns + ` FROM payments ORDER BY created_at DESC LIMIT $1`
	args := []any{limit}
	if invoiceID != "" {
		query = `SELECT ` + paymentColumns + ` FROM payments WHERE invoice_id = $2 ORDER BY created_at DESC LIMIT $1`
		args = append(args, invoiceID)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}

// PaidTotal sums all payments recorded against an invoice.
func (r *PaymentRepository) PaidTotal(ctx context.Context, q Querier, invoiceID string) (float64, error) {
	var total float64
	if err := q.QueryRowContext(ctx, `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE invoice_id = $1`, invoiceID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// Delete removes a payment.
func (r *PaymentRepository) Delete(ctx context.Context, q Querier, id string) error {
	result, err := q.ExecContext(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}
