package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"chargeadmin/internal/apperr"
	"chargeadmin/internal/models"
	"chargeadmin/internal/repository"
)

// PaymentService records settlements against invoices. Each payment insert
// recomputes the paid total and flips the invoice to Paid once covered, in
// the same transaction as the code reservation.
type PaymentService struct {
	store    txRunner
	payments paymentStore
	invoices invoiceStore
	nextCode codeGenerator
	logger   *zap.Logger
}

// NewPaymentService builds service.
func NewPaymentService(store txRunner, payments paymentStore, invoices invoiceStore, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		store:    store,
		payments: payments,
		invoices: invoices,
		nextCode: repository.NextCode,
		logger:   logger,
	}
}

// CreatePaymentInput carries a new settlement.
type CreatePaymentInput struct {
	InvoiceID string
	Amount    float64
	Method    string
}

// Create records a payment against an invoice.
func (s *PaymentService) Create(ctx context.Context, input CreatePaymentInput) (*models.Payment, error) {
	if strings.TrimSpace(input.InvoiceID) == "" {
		return nil, apperr.Validation("invoice_id", "required")
	}
	if input.Amount <= 0 {
		return nil, apperr.Validation("amount", "must be positive")
	}
	if strings.TrimSpace(input.Method) == "" {
		return nil, apperr.Validation("method", "required")
	}

	payment := &models.Payment{
		InvoiceID: input.InvoiceID,
		Amount:    input.Amount,
		Method:    input.Method,
		Status:    models.PaymentStatusCompleted,
	}

	err := s.store.WithinTx(ctx, func(q repository.Querier) error {
		invoice, err := s.invoices.GetByID(ctx, q, input.InvoiceID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.Validation("invoice_id", "invoice does not exist")
			}
			return apperr.Internal("failed to load invoice", err)
		}

		paid, err := s.payments.PaidTotal(ctx, q, invoice.ID)
		if err != nil {
			return apperr.Internal("failed to sum payments", err)
		}
		if paid+input.Amount > invoice.Amount {
			return apperr.Validationf("payment exceeds invoice balance (%.0f remaining)", invoice.Amount-paid)
		}

		code, err := s.nextCode(ctx, q, "payments", "id", models.PaymentCodePrefix)
		if err != nil {
			return apperr.Internal("failed to generate payment code", err)
		}
		payment.ID = code
		if err := s.payments.Create(ctx, q, payment); err != nil {
			return apperr.Internal("failed to create payment", err)
		}

		if paid+input.Amount >= invoice.Amount && invoice.Status != models.InvoiceStatusPaid {
			if err := s.invoices.SetStatus(ctx, q, invoice.ID, models.InvoiceStatusPaid); err != nil {
				return apperr.Internal("failed to mark invoice paid", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment recorded",
		zap.String("payment_id", payment.ID),
		zap.String("invoice_id", payment.InvoiceID),
		zap.Float64("amount", payment.Amount),
	)
	return payment, nil
}

// Get returns one payment.
func (s *PaymentService) Get(ctx context.Context, id string) (*models.Payment, error) {
	payment, err := s.payments.GetByID(ctx, s.store.DB(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFoundf("payment %s not found", id)
		}
		return nil, apperr.Internal("failed to load payment", err)
	}
	return payment, nil
}

// List returns payments, optionally for one invoice.
func (s *PaymentService) List(ctx context.Context, invoiceID string, limit int) ([]models.Payment, error) {
	payments, err := s.payments.List(ctx, s.store.DB(), invoiceID, limit)
	if err != nil {
		return nil, apperr.Internal("failed to list payments", err)
	}
	return payments, nil
}

// Delete removes a payment and reopens the invoice if it is no longer covered.
func (s *PaymentService) Delete(ctx context.Context, id string) error {
	return s.store.WithinTx(ctx, func(q repository.Querier) error {
		payment, err := s.payments.GetByID(ctx, q, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.NotFoundf("payment %s not found", id)
			}
			return apperr.Internal("failed to load payment", err)
		}

		if err := s.payments.Delete(ctx, q, id); err != nil {
			return apperr.Internal("failed to delete payment", err)
		}

		invoice, err := s.invoices.GetByID(ctx, q, payment.InvoiceID)
		if err != nil {
			return apperr.Internal("failed to load invoice", err)
		}
		paid, err := s.payments.PaidTotal(ctx, q, invoice.ID)
		if err != nil {
			return apperr.Internal("failed to sum payments", err)
		}
		if paid < invoice.Amount && invoice.Status == models.InvoiceStatusPaid {
			if err := s.invoices.SetStatus(ctx, q, invoice.ID, models.InvoiceStatusUnpaid); err != nil {
				return apperr.Internal("failed to reopen invoice", err)
			}
		}
		return nil
	})
}
