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

// StationService handles station and port inventory.
type StationService struct {
	store    txRunner
	stations stationStore
	ports    portStore
	logger   *zap.Logger
}

// NewStationService builds service.
func NewStationService(store txRunner, stations stationStore, ports portStore, logger *zap.Logger) *StationService {
	return &StationService{
		store:    store,
		stations: stations,
		ports:    ports,
		logger:   logger,
	}
}

// CreateStation inserts a new station as Active.
func (s *StationService) CreateStation(ctx context.Context, id, name, address string) (*models.Station, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperr.Validation("id", "required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, apperr.Validation("name", "required")
	}

	if _, err := s.stations.GetByID(ctx, s.store.DB(), id); err == nil {
		return nil, apperr.Conflictf("station %s already exists", id)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Internal("failed to check station", err)
	}

	station := &models.Station{
		ID:      id,
		Name:    name,
		Address: address,
		Status:  models.StationStatusActive,
	}
	if err := s.stations.Create(ctx, s.store.DB(), station); err != nil {
		return nil, apperr.Internal("failed to create station", err)
	}

	s.logger.Info("station created", zap.String("station_id", station.ID))
	return station, nil
}

// GetStation returns one station.
func (s *StationService) GetStation(ctx context.Context, id string) (*models.Station, error) {
	station, err := s.stations.GetByID(ctx, s.store.DB(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFoundf("station %s not found", id)
		}
		return nil, apperr.Internal("failed to load station", err)
	}
	return station, nil
}

// ListStations returns all stations.
func (s *StationService) ListStations(ctx context.Context) ([]models.Station, error) {
	stations, err := s.stations.List(ctx, s.store.DB())
	if err != nil {
		return nil, apperr.Internal("failed to list stations", err)
	}
	return stations, nil
}

// UpdateStation rewrites name and address. Operational status stays owned by
// the maintenance flow.
func (s *StationService) UpdateStation(ctx context.Context, id, name, address string) (*models.Station, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperr.Validation("name", "required")
	}
	station := &models.Station{ID: id, Name: name, Address: address}
	if err := s.stations.Update(ctx, s.store.DB(), station); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFoundf("station %s not found", id)
		}
		return nil, apperr.Internal("failed to update station", err)
	}
	return station, nil
}

// DeleteStation removes a station without ports or employees.
func (s *StationService) DeleteStation(ctx context.Context, id string) error {
	return s.store.WithinTx(ctx, func(q repository.Querier) error {
		dependents, err := s.stations.CountDependents(ctx, q, id)
		if err != nil {
			return apperr.Internal("failed to check station dependents", err)
		}
		if dependents > 0 {
			return apperr.Conflictf("station %s has ports or employees", id)
		}
		if err := s.stations.Delete(ctx, q, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.NotFoundf("station %s not found", id)
			}
			return apperr.Internal("failed to delete station", err)
		}
		return nil
	})
}

// CreatePort inserts a new free port on an existing station.
func (s *StationService) CreatePort(ctx context.Context, id, stationID string, powerKW float64, portType string) (*models.Port, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperr.Validation("id", "required")
	}
	if powerKW <= 0 {
		return nil, apperr.Validation("power_kw", "must be positive")
	}
	if portType != models.PortTypeAC && portType != models.PortTypeDC {
		return nil, apperr.Validation("port_type", "must be AC or DC")
	}

	if _, err := s.stations.GetByID(ctx, s.store.DB(), stationID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Validation("station_id", "station does not exist")
		}
		return nil, apperr.Internal("failed to load station", err)
	}
	if _, err := s.ports.GetByID(ctx, s.store.DB(), id); err == nil {
		return nil, apperr.Conflictf("port %s already exists", id)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Internal("failed to check port", err)
	}

	port := &models.Port{
		ID:        id,
		StationID: stationID,
		PowerKW:   powerKW,
		PortType:  portType,
		Condition: models.PortConditionFree,
	}
	if err := s.ports.Create(ctx, s.store.DB(), port); err != nil {
		return nil, apperr.Internal("failed to create port", err)
	}

	s.logger.Info("port created", zap.String("port_id", port.ID), zap.String("station_id", stationID))
	return port, nil
}

// GetPort returns one port.
func (s *StationService) GetPort(ctx context.Context, id string) (*models.Port, error) {
	port, err := s.ports.GetByID(ctx, s.store.DB(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFoundf("port %s not found", id)
		}
		return nil, apperr.Internal("failed to load port", err)
	}
	return port, nil
}

// ListPorts returns ports, optionally for one station.
func (s *StationService) ListPorts(ctx context.Context, stationID string) ([]models.Port, error) {
	ports, err := s.ports.List(ctx, s.store.DB(), stationID)
	if err != nil {
		return nil, apperr.Internal("failed to list ports", err)
	}
	return ports, nil
}

// UpdatePort rewrites power rating and type. Condition stays owned by the
// session and maintenance flows.
func (s *StationService) UpdatePort(ctx context.Context, id string, powerKW float64, portType string) (*models.Port, error) {
	if powerKW <= 0 {
		return nil, apperr.Validation("power_kw", "must be positive")
	}
	if portType != models.PortTypeAC && portType != models.PortTypeDC {
		return nil, apperr.Validation("port_type", "must be AC or DC")
	}

	port := &models.Port{ID: id, PowerKW: powerKW, PortType: portType}
	if err := s.ports.Update(ctx, s.store.DB(), port); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFoundf("port %s not found", id)
		}
		return nil, apperr.Internal("failed to update port", err)
	}
	return port, nil
}

// DeletePort removes a port without sessions or tickets.
func (s *StationService) DeletePort(ctx context.Context, id string) error {
	return s.store.WithinTx(ctx, func(q repository.Querier) error {
		dependents, err := s.ports.CountDependents(ctx, q, id)
		if err != nil {
			return apperr.Internal("failed to check port dependents", err)
		}
		if dependents > 0 {
			return apperr.Conflictf("port %s has sessions or tickets", id)
		}
		if err := s.ports.Delete(ctx, q, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.NotFoundf("port %s not found", id)
			}
			return apperr.Internal("failed to delete port", err)
		}
		return nil
	})
}
