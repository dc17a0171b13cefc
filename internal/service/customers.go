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

// CustomerService manages customers and their vehicles.
type CustomerService struct {
	store     txRunner
	customers customerStore
	vehicles  vehicleStore
	logger    *zap.Logger
}

// NewCustomerService builds service.
func NewCustomerService(store txRunner, customers customerStore, vehicles vehicleStore, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		store:     store,
		customers: customers,
		vehicles:  vehicles,
		logger:    logger,
	}
}

// CreateCustomer inserts a new customer with unique email and phone.
func (s *CustomerService) CreateCustomer(ctx context.Context, fullName, email, phone string) (*models.Customer, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if strings.TrimSpace(fullName) == "" {
		return nil, apperr.Validation("full_name", "required")
	}
	if email == "" {
		return nil, apperr.Validation("email", "required")
	}
	if strings.TrimSpace(phone) == "" {
		return nil, apperr.Validation("phone", "required")
	}

	taken, err := s.customers.ExistsByContact(ctx, s.store.DB(), email, phone, 0)
	if err != nil {
		return nil, apperr.Internal("failed to check customer contact", err)
	}
	if taken {
		return nil, apperr.Conflictf("email or phone already registered")
	}

	customer := &models.Customer{FullName: fullName, Email: email, Phone: phone}
	if err := s.customers.Create(ctx, s.store.DB(), customer); err != nil {
		return nil, apperr.Internal("failed to create customer", err)
	}

	s.logger.Info("customer created", zap.Int64("customer_id", customer.ID))
	return customer, nil
}

// GetCustomer returns one customer.
func (s *CustomerService) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	customer, err := s.customers.GetByID(ctx, s.store.DB(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFoundf("customer %d not found", id)
		}
		return nil, apperr.Internal("failed to load customer", err)
	}
	return customer, nil
}

// ListCustomers returns all customers.
func (s *CustomerService) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	customers, err := s.customers.List(ctx, s.store.DB())
	if err != nil {
		return nil, apperr.Internal("failed to list customers", err)
	}
	return customers, nil
}

// UpdateCustomer rewrites customer fields.
func (s *CustomerService) UpdateCustomer(ctx context.Context, id int64, fullName, email, phone string) (*models.Customer, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if strings.TrimSpace(fullName) == "" {
		return nil, apperr.Validation("full_name", "required")
	}
	if email == "" {
		return nil, apperr.Validation("email", "required")
	}

	taken, err := s.customers.ExistsByContact(ctx, s.store.DB(), email, phone, id)
	if err != nil {
		return nil, apperr.Internal("failed to check customer contact", err)
	}
	if taken {
		return nil, apperr.Conflictf("email or phone already registered")
	}

	customer := &models.Customer{ID: id, FullName: fullName, Email: email, Phone: phone}
	if err := s.customers.Update(ctx, s.store.DB(), customer); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFoundf("customer %d not found", id)
		}
		return nil, apperr.Internal("failed to update customer", err)
	}
	return customer, nil
}

// DeleteCustomer removes a customer without vehicles.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id int64) error {
	return s.store.WithinTx(ctx, func(q repository.Querier) error {
		dependents, err := s.customers.CountDependents(ctx, q, id)
		if err != nil {
			return apperr.Internal("failed to check customer vehicles", err)
		}
		if dependents > 0 {
			return apperr.Conflictf("customer %d has registered vehicles", id)
		}
		if err := s.customers.Delete(ctx, q, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.NotFoundf("customer %d not found", id)
			}
			return apperr.Internal("failed to delete customer", err)
		}
		return nil
	})
}

// CreateVehicle inserts a vehicle for an existing customer.
func (s *CustomerService) CreateVehicle(ctx context.Context, customerID int64, plate, model string) (*models.Vehicle, error) {
	plate = strings.ToUpper(strings.TrimSpace(plate))
	if plate == "" {
		return nil, apperr.Validation("plate", "required")
	}
	if customerID == 0 {
		return nil, apperr.Validation("customer_id", "required")
	}

	if _, err := s.customers.GetByID(ctx, s.store.DB(), customerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Validation("customer_id", "customer does not exist")
		}
		return nil, apperr.Internal("failed to load customer", err)
	}

	taken, err := s.vehicles.ExistsByPlate(ctx, s.store.DB(), plate, 0)
	if err != nil {
		return nil, apperr.Internal("failed to check plate", err)
	}
	if taken {
		return nil, apperr.Conflictf("plate %s already registered", plate)
	}

	vehicle := &models.Vehicle{CustomerID: customerID, Plate: plate, Model: model}
	if err := s.vehicles.Create(ctx, s.store.DB(), vehicle); err != nil {
		return nil, apperr.Internal("failed to create vehicle", err)
	}

	s.logger.Info("vehicle created", zap.Int64("vehicle_id", vehicle.ID), zap.Int64("customer_id", customerID))
	return vehicle, nil
}

// GetVehicle returns one vehicle.
func (s *CustomerService) GetVehicle(ctx context.Context, id int64) (*models.Vehicle, error) {
	vehicle, err := s.vehicles.GetByID(ctx, s.store.DB(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFoundf("vehicle %d not found", id)
		}
		return nil, apperr.Internal("failed to load vehicle", err)
	}
	return vehicle, nil
}

// ListVehicles returns vehicles, optionally for one customer.
func (s *CustomerService) ListVehicles(ctx context.Context, customerID int64) ([]models.Vehicle, error) {
	vehicles, err := s.vehicles.List(ctx, s.store.DB(), customerID)
	if err != nil {
		return nil, apperr.Internal("failed to list vehicles", err)
	}
	return vehicles, nil
}

// UpdateVehicle rewrites vehicle fields.
func (s *CustomerService) UpdateVehicle(ctx context.Context, id, customerID int64, plate, model string) (*models.Vehicle, error) {
	plate = strings.ToUpper(strings.TrimSpace(plate))
	if plate == "" {
		return nil, apperr.Validation("plate", "required")
	}

	if _, err := s.customers.GetByID(ctx, s.store.DB(), customerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Validation("customer_id", "customer does not exist")
		}
		return nil, apperr.Internal("failed to load customer", err)
	}

	taken, err := s.vehicles.ExistsByPlate(ctx, s.store.DB(), plate, id)
	if err != nil {
		return nil, apperr.Internal("failed to check plate", err)
	}
	if taken {
		return nil, apperr.Conflictf("plate %s already registered", plate)
	}

	vehicle := &models.Vehicle{ID: id, CustomerID: customerID, Plate: plate, Model: model}
	if err := s.vehicles.Update(ctx, s.store.DB(), vehicle); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFoundf("vehicle %d not found", id)
		}
		return nil, apperr.Internal("failed to update vehicle", err)
	}
	return vehicle, nil
}

// DeleteVehicle removes a vehicle without charging sessions.
func (s *CustomerService) DeleteVehicle(ctx context.Context, id int64) error {
	return s.store.WithinTx(ctx, func(q repository.Querier) error {
		dependents, err := s.vehicles.CountDependents(ctx, q, id)
		if err != nil {
			return apperr.Internal("failed to check vehicle sessions", err)
		}
		if dependents > 0 {
			return apperr.Conflictf("vehicle %d has charging sessions", id)
		}
		if err := s.vehicles.Delete(ctx, q, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.NotFoundf("vehicle %d not found", id)
			}
			return apperr.Internal("failed to delete vehicle", err)
		}
		return nil
	})
}
