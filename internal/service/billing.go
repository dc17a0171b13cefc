package service

import (
	"context"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"

	"chargeadmin/internal/apperr"
	"chargeadmin/internal/models"
	"chargeadmin/internal/repository"
)

// ErrNoActiveRate is returned when no Applying rate exists for a port type.
// Billing must not proceed without one.
var ErrNoActiveRate = errors.New("billing: no active rate for port type")

// Cost is the deterministic billing breakdown for a completed session.
type Cost struct {
	Hours     float64 `json:"hours"`
	EnergyKWh float64 `json:"energy_kwh"`
	UnitPrice float64 `json:"unit_price"`
	Amount    float64 `json:"amount"`
}

// ComputeCost derives energy and amount from the recorded session interval,
// the port's static power rating, and the unit price. There is no telemetry
// feed; billing is reproducible from these inputs alone. Energy is rounded to
// 2 decimals, the amount to a whole currency unit.
func ComputeCost(start, end time.Time, powerKW, unitPrice float64) (Cost, error) {
	if !end.After(start) {
		return Cost{}, apperr.Validation("end_time", "must be after start time")
	}
	if powerKW <= 0 {
		return Cost{}, apperr.Validation("power_kw", "must be positive")
	}

	hours := end.Sub(start).Hours()
	energy := math.Round(hours*powerKW*100) / 100

	return Cost{
		Hours:     math.Round(hours*100) / 100,
		EnergyKWh: energy,
		UnitPrice: unitPrice,
		Amount:    math.Round(energy * unitPrice),
	}, nil
}

// BillingService finalizes invoices for completed sessions and serves
// invoice reads.
type BillingService struct {
	store    txRunner
	invoices invoiceStore
	rates    rateStore
	nextCode codeGenerator
	logger   *zap.Logger
}

// NewBillingService builds service.
func NewBillingService(store txRunner, invoices invoiceStore, rates rateStore, logger *zap.Logger) *BillingService {
	return &BillingService{
		store:    store,
		invoices: invoices,
		rates:    rates,
		nextCode: repository.NextCode,
		logger:   logger,
	}
}

// FinalizeInvoice computes the cost of a completed session and inserts the
// invoice, all against the caller's transaction. The session completion and
// its invoice must commit together.
func (s *BillingService) FinalizeInvoice(ctx context.Context, q repository.Querier, session *models.ChargingSession, port *models.Port) (*models.Invoice, error) {
	if session.EndTime == nil {
		return nil, apperr.Validation("end_time", "session has no end time")
	}

	rate, err := s.rates.GetActive(ctx, q, port.PortType)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Internal("no active rate for port type "+port.PortType, ErrNoActiveRate)
		}
		return nil, apperr.Internal("failed to load active rate", err)
	}

	cost, err := ComputeCost(session.StartTime, *session.EndTime, port.PowerKW, rate.PricePerKWh)
	if err != nil {
		return nil, err
	}

	code, err := s.nextCode(ctx, q, "invoices", "id", models.InvoiceCodePrefix)
	if err != nil {
		return nil, apperr.Internal("failed to generate invoice code", err)
	}

	invoice := &models.Invoice{
		ID:        code,
		SessionID: session.ID,
		EnergyKWh: cost.EnergyKWh,
		UnitPrice: cost.UnitPrice,
		Amount:    cost.Amount,
		Status:    models.InvoiceStatusUnpaid,
	}
	if err := s.invoices.Create(ctx, q, invoice); err != nil {
		return nil, apperr.Internal("failed to create invoice", err)
	}

	s.logger.Info("invoice finalized",
		zap.String("invoice_id", invoice.ID),
		zap.Int64("session_id", session.ID),
		zap.Float64("energy_kwh", invoice.EnergyKWh),
		zap.Float64("amount", invoice.Amount),
	)
	return invoice, nil
}

// ListInvoices returns invoices newest first.
func (s *BillingService) ListInvoices(ctx context.Context, limit int) ([]models.Invoice, error) {
	invoices, err := s.invoices.List(ctx, s.store.DB(), limit)
	if err != nil {
		return nil, apperr.Internal("failed to list invoices", err)
	}
	return invoices, nil
}

// GetInvoice returns one invoice.
func (s *BillingService) GetInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	invoice, err := s.invoices.GetByID(ctx, s.store.DB(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFoundf("invoice %s not found", id)
		}
		return nil, apperr.Internal("failed to load invoice", err)
	}
	return invoice, nil
}

// DeleteInvoice removes an invoice with no recorded payments.
func (s *BillingService) DeleteInvoice(ctx context.Context, id string) error {
	return s.store.WithinTx(ctx, func(q repository.Querier) error {
		dependents, err := s.invoices.CountDependents(ctx, q, id)
		if err != nil {
			return apperr.Internal("failed to check invoice payments", err)
		}
		if dependents > 0 {
			return apperr.Conflictf("invoice %s has recorded payments", id)
		}
		if err := s.invoices.Delete(ctx, q, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.NotFoundf("invoice %s not found", id)
			}
			return apperr.Internal("failed to delete invoice", err)
		}
		return nil
	})
}
