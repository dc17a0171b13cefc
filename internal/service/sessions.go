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

// SessionService runs the charging-session lifecycle. Starting a session
// occupies its port; completing it frees the port and finalizes the invoice,
// all in one transaction.
type SessionService struct {
	store    txRunner
	sessions sessionStore
	ports    portStore
	vehicles vehicleStore
	billing  *BillingService
	logger   *zap.Logger
}

// NewSessionService builds service.
func NewSessionService(store txRunner, sessions sessionStore, ports portStore, vehicles vehicleStore, billing *BillingService, logger *zap.Logger) *SessionService {
	return &SessionService{
		store:    store,
		sessions: sessions,
		ports:    ports,
		vehicles: vehicles,
		billing:  billing,
		logger:   logger,
	}
}

// StartInput carries a new session.
type StartInput struct {
	PortID    string
	VehicleID int64
	StartTime time.Time
}

// Start creates an active session on a free port.
func (s *SessionService) Start(ctx context.Context, input StartInput) (*models.ChargingSession, error) {
	if input.PortID == "" {
		return nil, apperr.Validation("port_id", "required")
	}
	if input.VehicleID == 0 {
		return nil, apperr.Validation("vehicle_id", "required")
	}
	if input.StartTime.IsZero() {
		input.StartTime = time.Now().UTC()
	}

	session := &models.ChargingSession{
		PortID:    input.PortID,
		VehicleID: input.VehicleID,
		Status:    models.SessionStatusActive,
		StartTime: input.StartTime.UTC(),
	}

	err := s.store.WithinTx(ctx, func(q repository.Querier) error {
		port, err := s.ports.GetByID(ctx, q, input.PortID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.Validation("port_id", "port does not exist")
			}
			return apperr.Internal("failed to load port", err)
		}
		if port.Condition != models.PortConditionFree {
			return apperr.Conflictf("port %s is %s", port.ID, port.Condition)
		}

		if _, err := s.vehicles.GetByID(ctx, q, input.VehicleID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.Validation("vehicle_id", "vehicle does not exist")
			}
			return apperr.Internal("failed to load vehicle", err)
		}

		if err := s.sessions.Create(ctx, q, session); err != nil {
			return apperr.Internal("failed to create session", err)
		}
		if err := s.ports.SetCondition(ctx, q, port.ID, models.PortConditionOccupied); err != nil {
			return apperr.Internal("failed to occupy port", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("charging session started",
		zap.Int64("session_id", session.ID),
		zap.String("port_id", session.PortID),
		zap.Int64("vehicle_id", session.VehicleID),
	)
	return session, nil
}

// Complete ends an active session: stamps the end time, frees the port, and
// finalizes the invoice against the active rate. One transaction covers all
// three writes.
func (s *SessionService) Complete(ctx context.Context, id int64, endTime time.Time) (*models.ChargingSession, *models.Invoice, error) {
	if endTime.IsZero() {
		endTime = time.Now().UTC()
	}
	endTime = endTime.UTC()

	var (
		session *models.ChargingSession
		invoice *models.Invoice
	)
	err := s.store.WithinTx(ctx, func(q repository.Querier) error {
		existing, err := s.sessions.GetByID(ctx, q, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.NotFoundf("session %d not found", id)
			}
			return apperr.Internal("failed to load session", err)
		}
		if existing.Status != models.SessionStatusActive {
			return apperr.Conflictf("session %d is already %s", id, existing.Status)
		}
		if !endTime.After(existing.StartTime) {
			return apperr.Validation("end_time", "must be after start time")
		}

		port, err := s.ports.GetByID(ctx, q, existing.PortID)
		if err != nil {
			return apperr.Internal("failed to load port", err)
		}

		if err := s.sessions.Complete(ctx, q, id, endTime); err != nil {
			return apperr.Internal("failed to complete session", err)
		}
		if err := s.ports.SetCondition(ctx, q, port.ID, models.PortConditionFree); err != nil {
			return apperr.Internal("failed to free port", err)
		}

		existing.Status = models.SessionStatusCompleted
		existing.EndTime = &endTime
		invoice, err = s.billing.FinalizeInvoice(ctx, q, existing, port)
		if err != nil {
			return err
		}
		session = existing
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("charging session completed",
		zap.Int64("session_id", session.ID),
		zap.String("invoice_id", invoice.ID),
	)
	return session, invoice, nil
}

// Get returns one session.
func (s *SessionService) Get(ctx context.Context, id int64) (*models.ChargingSession, error) {
	session, err := s.sessions.GetByID(ctx, s.store.DB(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFoundf("session %d not found", id)
		}
		return nil, apperr.Internal("failed to load session", err)
	}
	return session, nil
}

// List returns sessions newest first.
func (s *SessionService) List(ctx context.Context, limit int) ([]models.ChargingSession, error) {
	sessions, err := s.sessions.List(ctx, s.store.DB(), limit)
	if err != nil {
		return nil, apperr.Internal("failed to list sessions", err)
	}
	return sessions, nil
}

// Update rewrites the vehicle or start time of an active session.
func (s *SessionService) Update(ctx context.Context, id int64, vehicleID int64, startTime time.Time) (*models.ChargingSession, error) {
	var session *models.ChargingSession
	err := s.store.WithinTx(ctx, func(q repository.Querier) error {
		existing, err := s.sessions.GetByID(ctx, q, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.NotFoundf("session %d not found", id)
			}
			return apperr.Internal("failed to load session", err)
		}
		if existing.Status != models.SessionStatusActive {
			return apperr.Conflictf("session %d is already %s", id, existing.Status)
		}

		if vehicleID != 0 && vehicleID != existing.VehicleID {
			if _, err := s.vehicles.GetByID(ctx, q, vehicleID); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return apperr.Validation("vehicle_id", "vehicle does not exist")
				}
				return apperr.Internal("failed to load vehicle", err)
			}
			existing.VehicleID = vehicleID
		}
		if !startTime.IsZero() {
			existing.StartTime = startTime.UTC()
		}

		if err := s.sessions.Update(ctx, q, existing); err != nil {
			return apperr.Internal("failed to update session", err)
		}
		session = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Delete removes a session that never produced an invoice. An active
// session's port is freed in the same transaction.
func (s *SessionService) Delete(ctx context.Context, id int64) error {
	return s.store.WithinTx(ctx, func(q repository.Querier) error {
		existing, err := s.sessions.GetByID(ctx, q, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.NotFoundf("session %d not found", id)
			}
			return apperr.Internal("failed to load session", err)
		}

		invoiced, err := s.sessions.HasInvoice(ctx, q, id)
		if err != nil {
			return apperr.Internal("failed to check session invoice", err)
		}
		if invoiced {
			return apperr.Conflictf("session %d has a finalized invoice", id)
		}

		if err := s.sessions.Delete(ctx, q, id); err != nil {
			return apperr.Internal("failed to delete session", err)
		}
		if existing.Status == models.SessionStatusActive {
			if err := s.ports.SetCondition(ctx, q, existing.PortID, models.PortConditionFree); err != nil {
				return apperr.Internal("failed to free port", err)
			}
		}
		return nil
	})
}
