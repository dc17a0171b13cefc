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

// MaintenanceService owns the maintenance-ticket lifecycle and the status
// propagation it drives: a ticket against a port parks that port in
// Maintenance, a ticket against the whole station parks the station; closing
// or deleting the ticket releases the entity. Ticket write and status write
// always commit in one transaction.
type MaintenanceService struct {
	store    txRunner
	tickets  ticketStore
	ports    portStore
	stations stationStore
	logger   *zap.Logger
}

// NewMaintenanceService builds service.
func NewMaintenanceService(store txRunner, tickets ticketStore, ports portStore, stations stationStore, logger *zap.Logger) *MaintenanceService {
	return &MaintenanceService{
		store:    store,
		tickets:  tickets,
		ports:    ports,
		stations: stations,
		logger:   logger,
	}
}

// CreateTicketInput carries a new ticket. PortID nil means the whole station
// is under maintenance.
type CreateTicketInput struct {
	EmployeeID string
	StationID  string
	PortID     *string
	OpenedAt   time.Time
	Notes      string
}

// Create opens a ticket and marks the referenced port or station.
func (s *MaintenanceService) Create(ctx context.Context, input CreateTicketInput) (*models.MaintenanceTicket, error) {
	if input.EmployeeID == "" {
		return nil, apperr.Validation("employee_id", "required")
	}
	if input.StationID == "" {
		return nil, apperr.Validation("station_id", "required")
	}
	if input.OpenedAt.IsZero() {
		input.OpenedAt = time.Now().UTC()
	}

	ticket := &models.MaintenanceTicket{
		EmployeeID: input.EmployeeID,
		StationID:  input.StationID,
		PortID:     input.PortID,
		Status:     models.TicketStatusOpen,
		OpenedAt:   input.OpenedAt,
		Notes:      input.Notes,
	}

	err := s.store.WithinTx(ctx, func(q repository.Querier) error {
		if input.PortID != nil {
			port, err := s.ports.GetByID(ctx, q, *input.PortID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return apperr.Validation("port_id", "port does not exist")
				}
				return apperr.Internal("failed to load port", err)
			}
			if port.StationID != input.StationID {
				return apperr.Validation("port_id", "port does not belong to station")
			}
		} else {
			if _, err := s.stations.GetByID(ctx, q, input.StationID); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return apperr.Validation("station_id", "station does not exist")
				}
				return apperr.Internal("failed to load station", err)
			}
		}

		if err := s.tickets.Create(ctx, q, ticket); err != nil {
			return apperr.Internal("failed to create ticket", err)
		}
		return s.markUnderMaintenance(ctx, q, ticket)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("maintenance ticket opened",
		zap.Int64("ticket_id", ticket.ID),
		zap.String("station_id", ticket.StationID),
		zap.Stringp("port_id", ticket.PortID),
	)
	return ticket, nil
}

// UpdateTicketInput carries a ticket mutation.
type UpdateTicketInput struct {
	ID     int64
	Status string
	Notes  string
}

// Update rewrites status and notes. Moving to Completed releases the port or
// station in the same transaction; any other status leaves it parked.
func (s *MaintenanceService) Update(ctx context.Context, input UpdateTicketInput) (*models.MaintenanceTicket, error) {
	if input.Status != models.TicketStatusOpen && input.Status != models.TicketStatusCompleted {
		return nil, apperr.Validation("status", "must be Open or Completed")
	}

	var ticket *models.MaintenanceTicket
	err := s.store.WithinTx(ctx, func(q repository.Querier) error {
		existing, err := s.tickets.GetByID(ctx, q, input.ID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.NotFoundf("ticket %d not found", input.ID)
			}
			return apperr.Internal("failed to load ticket", err)
		}

		existing.Status = input.Status
		existing.Notes = input.Notes
		if err := s.tickets.Update(ctx, q, existing); err != nil {
			return apperr.Internal("failed to update ticket", err)
		}

		ticket = existing
		if input.Status == models.TicketStatusCompleted {
			return s.release(ctx, q, existing)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("maintenance ticket updated",
		zap.Int64("ticket_id", ticket.ID),
		zap.String("status", ticket.Status),
	)
	return ticket, nil
}

// Delete removes a ticket and releases whatever it parked, completed or not.
func (s *MaintenanceService) Delete(ctx context.Context, id int64) error {
	err := s.store.WithinTx(ctx, func(q repository.Querier) error {
		ticket, err := s.tickets.GetByID(ctx, q, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.NotFoundf("ticket %d not found", id)
			}
			return apperr.Internal("failed to load ticket", err)
		}

		if err := s.tickets.Delete(ctx, q, id); err != nil {
			return apperr.Internal("failed to delete ticket", err)
		}
		return s.release(ctx, q, ticket)
	})
	if err != nil {
		return err
	}

	s.logger.Info("maintenance ticket deleted", zap.Int64("ticket_id", id))
	return nil
}

// Get returns one ticket.
func (s *MaintenanceService) Get(ctx context.Context, id int64) (*models.MaintenanceTicket, error) {
	ticket, err := s.tickets.GetByID(ctx, s.store.DB(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFoundf("ticket %d not found", id)
		}
		return nil, apperr.Internal("failed to load ticket", err)
	}
	return ticket, nil
}

// List returns tickets newest first.
func (s *MaintenanceService) List(ctx context.Context, limit int) ([]models.MaintenanceTicket, error) {
	tickets, err := s.tickets.List(ctx, s.store.DB(), limit)
	if err != nil {
		return nil, apperr.Internal("failed to list tickets", err)
	}
	return tickets, nil
}

func (s *MaintenanceService) markUnderMaintenance(ctx context.Context, q repository.Querier, ticket *models.MaintenanceTicket) error {
	if ticket.PortID != nil {
		if err := s.ports.SetCondition(ctx, q, *ticket.PortID, models.PortConditionMaintenance); err != nil {
			return apperr.Internal("failed to mark port under maintenance", err)
		}
		return nil
	}
	if err := s.stations.SetStatus(ctx, q, ticket.StationID, models.StationStatusMaintenance); err != nil {
		return apperr.Internal("failed to mark station under maintenance", err)
	}
	return nil
}

func (s *MaintenanceService) release(ctx context.Context, q repository.Querier, ticket *models.MaintenanceTicket) error {
	if ticket.PortID != nil {
		if err := s.ports.SetCondition(ctx, q, *ticket.PortID, models.PortConditionFree); err != nil {
			return apperr.Internal("failed to release port", err)
		}
		return nil
	}
	if err := s.stations.SetStatus(ctx, q, ticket.StationID, models.StationStatusActive); err != nil {
		return apperr.Internal("failed to release station", err)
	}
	return nil
}
