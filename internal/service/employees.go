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

type passwordHasher interface {
	Hash(password string) (string, error)
}

// EmployeeService manages staff accounts. New employees get a generated NV
// code and start unapproved; an admin approves them before they can log in.
type EmployeeService struct {
	store     txRunner
	employees employeeStore
	stations  stationStore
	hasher    passwordHasher
	nextCode  codeGenerator
	logger    *zap.Logger
}

// NewEmployeeService builds service.
func NewEmployeeService(store txRunner, employees employeeStore, stations stationStore, hasher passwordHasher, logger *zap.Logger) *EmployeeService {
	return &EmployeeService{
		store:     store,
		employees: employees,
		stations:  stations,
		hasher:    hasher,
		nextCode:  repository.NextCode,
		logger:    logger,
	}
}

// CreateEmployeeInput carries a new staff account.
type CreateEmployeeInput struct {
	StationID string
	FullName  string
	Email     string
	Phone     string
	Password  string
	Role      string
}

// Create inserts a new unapproved employee inside one transaction with its
// code reservation.
func (s *EmployeeService) Create(ctx context.Context, input CreateEmployeeInput) (*models.Employee, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if strings.TrimSpace(input.FullName) == "" {
		return nil, apperr.Validation("full_name", "required")
	}
	if input.Email == "" {
		return nil, apperr.Validation("email", "required")
	}
	if input.Password == "" {
		return nil, apperr.Validation("password", "required")
	}
	if input.Role == "" {
		input.Role = models.RoleStaff
	}
	if input.Role != models.RoleAdmin && input.Role != models.RoleStaff {
		return nil, apperr.Validation("role", "must be admin or staff")
	}

	if _, err := s.stations.GetByID(ctx, s.store.DB(), input.StationID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Validation("station_id", "station does not exist")
		}
		return nil, apperr.Internal("failed to load station", err)
	}
	if _, err := s.employees.GetByEmail(ctx, s.store.DB(), input.Email); err == nil {
		return nil, apperr.Conflictf("email %s already registered", input.Email)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Internal("failed to check email", err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}

	employee := &models.Employee{
		StationID:    input.StationID,
		FullName:     input.FullName,
		Email:        input.Email,
		Phone:        input.Phone,
		PasswordHash: hash,
		Role:         input.Role,
		Approved:     false,
		FirstLogin:   true,
	}

	err = s.store.WithinTx(ctx, func(q repository.Querier) error {
		code, err := s.nextCode(ctx, q, "employees", "id", models.EmployeeCodePrefix)
		if err != nil {
			return apperr.Internal("failed to generate employee code", err)
		}
		employee.ID = code
		if err := s.employees.Create(ctx, q, employee); err != nil {
			return apperr.Internal("failed to create employee", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("employee created", zap.String("employee_id", employee.ID), zap.String("role", employee.Role))
	return employee, nil
}

// Get returns one employee.
func (s *EmployeeService) Get(ctx context.Context, id string) (*models.Employee, error) {
	employee, err := s.employees.GetByID(ctx, s.store.DB(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFoundf("employee %s not found", id)
		}
		return nil, apperr.Internal("failed to load employee", err)
	}
	return employee, nil
}

// List returns all employees.
func (s *EmployeeService) List(ctx context.Context) ([]models.Employee, error) {
	employees, err := s.employees.List(ctx, s.store.DB())
	if err != nil {
		return nil, apperr.Internal("failed to list employees", err)
	}
	return employees, nil
}

// UpdateEmployeeInput carries profile changes.
type UpdateEmployeeInput struct {
	ID        string
	StationID string
	FullName  string
	Email     string
	Phone     string
	Role      string
}

// Update rewrites profile fields.
func (s *EmployeeService) Update(ctx context.Context, input UpdateEmployeeInput) (*models.Employee, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if strings.TrimSpace(input.FullName) == "" {
		return nil, apperr.Validation("full_name", "required")
	}
	if input.Email == "" {
		return nil, apperr.Validation("email", "required")
	}
	if input.Role != models.RoleAdmin && input.Role != models.RoleStaff {
		return nil, apperr.Validation("role", "must be admin or staff")
	}

	if _, err := s.stations.GetByID(ctx, s.store.DB(), input.StationID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Validation("station_id", "station does not exist")
		}
		return nil, apperr.Internal("failed to load station", err)
	}
	if existing, err := s.employees.GetByEmail(ctx, s.store.DB(), input.Email); err == nil && existing.ID != input.ID {
		return nil, apperr.Conflictf("email %s already registered", input.Email)
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Internal("failed to check email", err)
	}

	employee := &models.Employee{
		ID:        input.ID,
		StationID: input.StationID,
		FullName:  input.FullName,
		Email:     input.Email,
		Phone:     input.Phone,
		Role:      input.Role,
	}
	if err := s.employees.Update(ctx, s.store.DB(), employee); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFoundf("employee %s not found", input.ID)
		}
		return nil, apperr.Internal("failed to update employee", err)
	}
	return employee, nil
}

// Approve flips the approval flag so the account can authenticate.
func (s *EmployeeService) Approve(ctx context.Context, id string) error {
	if err := s.employees.SetApproved(ctx, s.store.DB(), id, true); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFoundf("employee %s not found", id)
		}
		return apperr.Internal("failed to approve employee", err)
	}
	s.logger.Info("employee approved", zap.String("employee_id", id))
	return nil
}

// Delete removes an employee. Callers can never delete their own account,
// and accounts referenced by maintenance tickets stay.
func (s *EmployeeService) Delete(ctx context.Context, callerID, id string) error {
	if callerID == id {
		return apperr.Forbidden("cannot delete own account")
	}
	return s.store.WithinTx(ctx, func(q repository.Querier) error {
		dependents, err := s.employees.CountDependents(ctx, q, id)
		if err != nil {
			return apperr.Internal("failed to check employee tickets", err)
		}
		if dependents > 0 {
			return apperr.Conflictf("employee %s has maintenance tickets", id)
		}
		if err := s.employees.Delete(ctx, q, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.NotFoundf("employee %s not found", id)
			}
			return apperr.Internal("failed to delete employee", err)
		}
		return nil
	})
}
