package service

import (
	"context"
	"time"

	"chargeadmin/internal/models"
	"chargeadmin/internal/repository"
)

// txRunner scopes repository calls to the pool or to one transaction. Every
// compound write (ticket + status, completion + invoice, code + insert) goes
// through WithinTx so partial application cannot occur.
type txRunner interface {
	DB() repository.Querier
	WithinTx(ctx context.Context, fn func(q repository.Querier) error) error
}

// codeGenerator reserves the next prefixed code inside the caller's
// transaction. Defaults to repository.NextCode.
type codeGenerator func(ctx context.Context, q repository.Querier, table, column, prefix string) (string, error)

type stationStore interface {
	Create(ctx context.Context, q repository.Querier, st *models.Station) error
	GetByID(ctx context.Context, q repository.Querier, id string) (*models.Station, error)
	List(ctx context.Context, q repository.Querier) ([]models.Station, error)
	Update(ctx context.Context, q repository.Querier, st *models.Station) error
	SetStatus(ctx context.Context, q repository.Querier, id, status string) error
	Delete(ctx context.Context, q repository.Querier, id string) error
	CountDependents(ctx context.Context, q repository.Querier, id string) (int, error)
}

type portStore interface {
	Create(ctx context.Context, q repository.Querier, p *models.Port) error
	GetByID(ctx context.Context, q repository.Querier, id string) (*models.Port, error)
	List(ctx context.Context, q repository.Querier, stationID string) ([]models.Port, error)
	Update(ctx context.Context, q repository.Querier, p *models.Port) error
	SetCondition(ctx context.Context, q repository.Querier, id, condition string) error
	Delete(ctx context.Context, q repository.Querier, id string) error
	CountDependents(ctx context.Context, q repository.Querier, id string) (int, error)
}

type employeeStore interface {
	Create(ctx context.Context, q repository.Querier, e *models.Employee) error
	GetByID(ctx context.Context, q repository.Querier, id string) (*models.Employee, error)
	GetByEmail(ctx context.Context, q repository.Querier, email string) (*models.Employee, error)
	List(ctx context.Context, q repository.Querier) ([]models.Employee, error)
	Update(ctx context.Context, q repository.Querier, e *models.Employee) error
	SetApproved(ctx context.Context, q repository.Querier, id string, approved bool) error
	Delete(ctx context.Context, q repository.Querier, id string) error
	CountDependents(ctx context.Context, q repository.Querier, id string) (int, error)
}

type customerStore interface {
	Create(ctx context.Context, q repository.Querier, c *models.Customer) error
	GetByID(ctx context.Context, q repository.Querier, id int64) (*models.Customer, error)
	ExistsByContact(ctx context.Context, q repository.Querier, email, phone string, excludeID int64) (bool, error)
	List(ctx context.Context, q repository.Querier) ([]models.Customer, error)
	Update(ctx context.Context, q repository.Querier, c *models.Customer) error
	Delete(ctx context.Context, q repository.Querier, id int64) error
	CountDependents(ctx context.Context, q repository.Querier, id int64) (int, error)
}

type vehicleStore interface {
	Create(ctx context.Context, q repository.Querier, v *models.Vehicle) error
	GetByID(ctx context.Context, q repository.Querier, id int64) (*models.Vehicle, error)
	ExistsByPlate(ctx context.Context, q repository.Querier, plate string, excludeID int64) (bool, error)
	List(ctx context.Context, q repository.Querier, customerID int64) ([]models.Vehicle, error)
	Update(ctx context.Context, q repository.Querier, v *models.Vehicle) error
	Delete(ctx context.Context, q repository.Querier, id int64) error
	CountDependents(ctx context.Context, q repository.Querier, id int64) (int, error)
}

type sessionStore interface {
	Create(ctx context.Context, q repository.Querier, s *models.ChargingSession) error
	GetByID(ctx context.Context, q repository.Querier, id int64) (*models.ChargingSession, error)
	List(ctx context.Context, q repository.Querier, limit int) ([]models.ChargingSession, error)
	Update(ctx context.Context, q repository.Querier, s *models.ChargingSession) error
	Complete(ctx context.Context, q repository.Querier, id int64, endTime time.Time) error
	Delete(ctx context.Context, q repository.Querier, id int64) error
	HasInvoice(ctx context.Context, q repository.Querier, id int64) (bool, error)
}

type invoiceStore interface {
	Create(ctx context.Context, q repository.Querier, inv *models.Invoice) error
	GetByID(ctx context.Context, q repository.Querier, id string) (*models.Invoice, error)
	List(ctx context.Context, q repository.Querier, limit int) ([]models.Invoice, error)
	SetStatus(ctx context.Context, q repository.Querier, id, status string) error
	Delete(ctx context.Context, q repository.Querier, id string) error
	CountDependents(ctx context.Context, q repository.Querier, id string) (int, error)
}

type paymentStore interface {
	Create(ctx context.Context, q repository.Querier, p *models.Payment) error
	GetByID(ctx context.Context, q repository.Querier, id string) (*models.Payment, error)
	List(ctx context.Context, q repository.Querier, invoiceID string, limit int) ([]models.Payment, error)
	PaidTotal(ctx context.Context, q repository.Querier, invoiceID string) (float64, error)
	Delete(ctx context.Context, q repository.Querier, id string) error
}

type ticketStore interface {
	Create(ctx context.Context, q repository.Querier, t *models.MaintenanceTicket) error
	GetByID(ctx context.Context, q repository.Querier, id int64) (*models.MaintenanceTicket, error)
	List(ctx context.Context, q repository.Querier, limit int) ([]models.MaintenanceTicket, error)
	Update(ctx context.Context, q repository.Querier, t *models.MaintenanceTicket) error
	Delete(ctx context.Context, q repository.Querier, id int64) error
}

type rateStore interface {
	Create(ctx context.Context, q repository.Querier, rate *models.PriceRate) error
	GetByID(ctx context.Context, q repository.Querier, id int64) (*models.PriceRate, error)
	GetActive(ctx context.Context, q repository.Querier, portType string) (*models.PriceRate, error)
	List(ctx context.Context, q repository.Querier) ([]models.PriceRate, error)
	DeactivateByType(ctx context.Context, q repository.Querier, portType string) error
	Update(ctx context.Context, q repository.Querier, rate *models.PriceRate) error
	Delete(ctx context.Context, q repository.Querier, id int64) error
}
