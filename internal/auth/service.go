package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"chargeadmin/internal/apperr"
	"chargeadmin/internal/models"
	"chargeadmin/internal/repository"
)

// Account lookup contract used by the service.
type employeeStore interface {
	GetByEmail(ctx context.Context, q repository.Querier, email string) (*models.Employee, error)
	GetByID(ctx context.Context, q repository.Querier, id string) (*models.Employee, error)
	SetPassword(ctx context.Context, q repository.Querier, id, hash string) error
}

type dbProvider interface {
	DB() repository.Querier
}

// Service authenticates employees and manages their sessions.
type Service struct {
	store     dbProvider
	employees employeeStore
	hasher    Hasher
	sessions  SessionStore
	logger    *zap.Logger
}

// NewService builds the auth service.
func NewService(store dbProvider, employees employeeStore, hasher Hasher, sessions SessionStore, logger *zap.Logger) *Service {
	return &Service{
		store:     store,
		employees: employees,
		hasher:    hasher,
		sessions:  sessions,
		logger:    logger,
	}
}

// Login verifies credentials, rejects unapproved accounts, and issues an
// opaque session token.
func (s *Service) Login(ctx context.Context, email, password string) (string, *models.Employee, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, apperr.Unauthorized("invalid credentials")
	}

	employee, err := s.employees.GetByEmail(ctx, s.store.DB(), email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, apperr.Unauthorized("invalid credentials")
		}
		return "", nil, apperr.Internal("failed to load account", err)
	}

	if err := s.hasher.Compare(employee.PasswordHash, password); err != nil {
		return "", nil, apperr.Unauthorized("invalid credentials")
	}
	if !employee.Approved {
		return "", nil, apperr.Forbidden("account pending approval")
	}

	token := uuid.NewString()
	if err := s.sessions.Save(ctx, token, Session{EmployeeID: employee.ID, Role: employee.Role, Approved: employee.Approved}); err != nil {
		return "", nil, apperr.Internal("failed to store session", err)
	}

	s.logger.Info("employee logged in", zap.String("employee_id", employee.ID), zap.String("role", employee.Role))
	return token, employee, nil
}

// Logout deletes the session behind the token.
func (s *Service) Logout(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return apperr.Unauthorized("missing session token")
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		return apperr.Internal("failed to delete session", err)
	}
	return nil
}

// CurrentUser resolves the session token into the caller's identity.
func (s *Service) CurrentUser(ctx context.Context, token string) (*Session, error) {
	if strings.TrimSpace(token) == "" {
		return nil, apperr.Unauthorized("missing session token")
	}
	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, apperr.Unauthorized("invalid or expired session")
		}
		return nil, apperr.Internal("failed to load session", err)
	}
	return session, nil
}

// ChangePassword verifies the current password, stores the new hash, and
// clears the first-login flag.
func (s *Service) ChangePassword(ctx context.Context, employeeID, current, next string) error {
	if strings.TrimSpace(next) == "" {
		return apperr.Validation("new_password", "required")
	}

	employee, err := s.employees.GetByID(ctx, s.store.DB(), employeeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFoundf("employee %s not found", employeeID)
		}
		return apperr.Internal("failed to load account", err)
	}

	if err := s.hasher.Compare(employee.PasswordHash, current); err != nil {
		return apperr.Unauthorized("invalid credentials")
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return apperr.Internal("failed to hash password", err)
	}
	if err := s.employees.SetPassword(ctx, s.store.DB(), employeeID, hash); err != nil {
		return apperr.Internal("failed to store password", err)
	}

	s.logger.Info("employee changed password", zap.String("employee_id", employeeID))
	return nil
}
