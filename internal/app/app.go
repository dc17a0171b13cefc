package app

import (
	"context"
	"database/sql"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"chargeadmin/internal/auth"
	"chargeadmin/internal/config"
	"chargeadmin/internal/db"
	httpserver "chargeadmin/internal/http"
	"chargeadmin/internal/http/handlers"
	"chargeadmin/internal/http/middleware"
	"chargeadmin/internal/repository"
	"chargeadmin/internal/service"
)

// App wires dependencies for the admin service.
type App struct {
	server *httpserver.Server
	db     *sql.DB
	redis  *redis.Client
	logger *zap.Logger
}

// New builds application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := db.NewPostgres(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	if cfg.Database.Migrate {
		if err := db.Migrate(sqlDB); err != nil {
			sqlDB.Close()
			return nil, err
		}
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
	})

	store := repository.NewStore(sqlDB)
	stationRepo := repository.NewStationRepository()
	portRepo := repository.NewPortRepository()
	employeeRepo := repository.NewEmployeeRepository()
	customerRepo := repository.NewCustomerRepository()
	vehicleRepo := repository.NewVehicleRepository()
	sessionRepo := repository.NewSessionRepository()
	invoiceRepo := repository.NewInvoiceRepository()
	paymentRepo := repository.NewPaymentRepository()
	ticketRepo := repository.NewMaintenanceRepository()
	rateRepo := repository.NewRateRepository()

	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	sessionStore := auth.NewRedisSessionStore(redisClient, cfg.SessionTTL())
	authSvc := auth.NewService(store, employeeRepo, hasher, sessionStore, logger)

	stationSvc := service.NewStationService(store, stationRepo, portRepo, logger)
	customerSvc := service.NewCustomerService(store, customerRepo, vehicleRepo, logger)
	employeeSvc := service.NewEmployeeService(store, employeeRepo, stationRepo, hasher, logger)
	billingSvc := service.NewBillingService(store, invoiceRepo, rateRepo, logger)
	chargingSvc := service.NewSessionService(store, sessionRepo, portRepo, vehicleRepo, billingSvc, logger)
	maintenanceSvc := service.NewMaintenanceService(store, ticketRepo, portRepo, stationRepo, logger)
	paymentSvc := service.NewPaymentService(store, paymentRepo, invoiceRepo, logger)
	rateSvc := service.NewRateService(store, rateRepo, logger)

	authn := middleware.NewAuthenticator(authSvc, cfg.Auth.CookieName)

	routes := httpserver.Routes{
		Login:           handlers.NewLoginHandler(authSvc, cfg.Auth.CookieName, cfg.SessionTTL(), logger),
		Logout:          handlers.NewLogoutHandler(authSvc, authn, cfg.Auth.CookieName, logger),
		ChangePassword:  handlers.NewChangePasswordHandler(authSvc, logger),
		Stations:        handlers.NewStationsHandler(stationSvc, logger),
		Ports:           handlers.NewPortsHandler(stationSvc, logger),
		Customers:       handlers.NewCustomersHandler(customerSvc, logger),
		Vehicles:        handlers.NewVehiclesHandler(customerSvc, logger),
		Employees:       handlers.NewEmployeesHandler(employeeSvc, logger),
		ApproveEmployee: handlers.NewApproveEmployeeHandler(employeeSvc, logger),
		Sessions:        handlers.NewChargingSessionsHandler(chargingSvc, logger),
		CompleteSession: handlers.NewCompleteSessionHandler(chargingSvc, logger),
		Invoices:        handlers.NewInvoicesHandler(billingSvc, logger),
		Payments:        handlers.NewPaymentsHandler(paymentSvc, logger),
		Maintenance:     handlers.NewMaintenanceHandler(maintenanceSvc, logger),
		Rates:           handlers.NewRatesHandler(rateSvc, logger),
		Health:          handlers.NewHealthHandler(),

		RequireAuth:  authn.RequireAuth,
		RequireAdmin: middleware.RequireAdmin,
	}

	router := httpserver.NewRouter(routes)
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server: server,
		db:     sqlDB,
		redis:  redisClient,
		logger: logger,
	}, nil
}

// Run starts serving HTTP traffic until context cancellation.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases acquired resources.
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
}
