package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"chargeadmin/internal/apperr"
	"chargeadmin/internal/models"
	"chargeadmin/internal/repository"
)

// RateService manages price rates. At most one Applying rate exists per port
// type: activating a new one retires the previous in the same transaction.
type RateService struct {
	store  txRunner
	rates  rateStore
	logger *zap.Logger
}

// NewRateService builds service.
func NewRateService(store txRunner, rates rateStore, logger *zap.Logger) *RateService {
	return &RateService{
		store:  store,
		rates:  rates,
		logger: logger,
	}
}

// CreateRateInput carries a new rate row.
type CreateRateInput struct {
	PortType      string
	PricePerKWh   float64
	EffectiveDate time.Time
	Activate      bool
}

// Create inserts a rate. When Activate is set, the previous Applying rate of
// the same port type is retired atomically.
func (s *RateService) Create(ctx context.Context, input CreateRateInput) (*models.PriceRate, error) {
	if input.PortType != models.PortTypeAC && input.PortType != models.PortTypeDC {
		return nil, apperr.Validation("port_type", "must be AC or DC")
	}
	if input.PricePerKWh <= 0 {
		return nil, apperr.Validation("price_per_kwh", "must be positive")
	}
	if input.EffectiveDate.IsZero() {
		input.EffectiveDate = time.Now().UTC()
	}

	rate := &models.PriceRate{
		PortType:      input.PortType,
		PricePerKWh:   input.PricePerKWh,
		EffectiveDate: input.EffectiveDate,
		Status:        models.RateStatusInactive,
	}
	if input.Activate {
		rate.Status = models.RateStatusApplying
	}

	err := s.store.WithinTx(ctx, func(q repository.Querier) error {
		if input.Activate {
			if err := s.rates.DeactivateByType(ctx, q, input.PortType); err != nil {
				return apperr.Internal("failed to retire previous rate", err)
			}
		}
		if err := s.rates.Create(ctx, q, rate); err != nil {
			return apperr.Internal("failed to create rate", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("price rate created",
		zap.Int64("rate_id", rate.ID),
		zap.String("port_type", rate.PortType),
		zap.String("status", rate.Status),
	)
	return rate, nil
}

// Get returns one rate.
func (s *RateService) Get(ctx context.Context, id int64) (*models.PriceRate, error) {
	rate, err := s.rates.GetByID(ctx, s.store.DB(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFoundf("rate %d not found", id)
		}
		return nil, apperr.Internal("failed to load rate", err)
	}
	return rate, nil
}

// List returns all rates.
func (s *RateService) List(ctx context.Context) ([]models.PriceRate, error) {
	rates, err := s.rates.List(ctx, s.store.DB())
	if err != nil {
		return nil, apperr.Internal("failed to list rates", err)
	}
	return rates, nil
}

// UpdateRateInput carries a rate mutation.
type UpdateRateInput struct {
	ID            int64
	PricePerKWh   float64
	EffectiveDate time.Time
	Activate      bool
}

// Update rewrites a rate. Activating it retires any other Applying rate of
// the same port type atomically; deactivating simply marks it Inactive.
func (s *RateService) Update(ctx context.Context, input UpdateRateInput) (*models.PriceRate, error) {
	if input.PricePerKWh <= 0 {
		return nil, apperr.Validation("price_per_kwh", "must be positive")
	}

	var rate *models.PriceRate
	err := s.store.WithinTx(ctx, func(q repository.Querier) error {
		existing, err := s.rates.GetByID(ctx, q, input.ID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.NotFoundf("rate %d not found", input.ID)
			}
			return apperr.Internal("failed to load rate", err)
		}

		if input.Activate {
			if err := s.rates.DeactivateByType(ctx, q, existing.PortType); err != nil {
				return apperr.Internal("failed to retire previous rate", err)
			}
			existing.Status = models.RateStatusApplying
		} else {
			existing.Status = models.RateStatusInactive
		}

		existing.PricePerKWh = input.PricePerKWh
		if !input.EffectiveDate.IsZero() {
			existing.EffectiveDate = input.EffectiveDate
		}
		if err := s.rates.Update(ctx, q, existing); err != nil {
			return apperr.Internal("failed to update rate", err)
		}
		rate = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rate, nil
}

// Delete removes a rate row.
func (s *RateService) Delete(ctx context.Context, id int64) error {
	if err := s.rates.Delete(ctx, s.store.DB(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFoundf("rate %d not found", id)
		}
		return apperr.Internal("failed to delete rate", err)
	}
	return nil
}
