// internal/app.go
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/jmoiron/sqlx"

	router "minibank/internal/api"
	"minibank/internal/api/handler"
	"minibank/internal/config"
	"minibank/internal/repository"
	"minibank/internal/repository/memory"
	"minibank/internal/repository/postgres"
	"minibank/internal/service"
	"minibank/internal/util"
	"minibank/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB // nil on the memory backend

	// LogOutput receives the JSON log stream. Defaults to os.Stdout.
	LogOutput io.Writer

	// Persistence
	Persistence repository.Persistence
	UnitOfWork  *repository.UnitOfWork

	// Services
	UserService    service.UserService
	AccountService service.AccountService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		util.InitLoggerTo(app.logOutput(), slog.LevelInfo)
		app.Logger = util.GetLogger()
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg

	// 2. Initialize Logger
	util.InitLoggerTo(app.logOutput(), cfg.LogLevel)
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.", "storage", cfg.StorageBackend)

	// 3. Initialize Persistence
	if err := app.initPersistence(ctx); err != nil {
		return err
	}
	app.UnitOfWork = repository.NewUnitOfWork(app.Persistence, cfg.UnitOfWork, app.Logger)

	// 4. Initialize Services
	app.AccountService = service.NewAccountService(app.UnitOfWork, cfg.Account)
	app.UserService = service.NewUserService(app.UnitOfWork, app.AccountService)
	app.Logger.Info("Services initialized.",
		"default_amount", cfg.Account.DefaultAmount,
		"transfer_commission", cfg.Account.TransferCommission.String())

	// 5. Initialize HTTP Handlers and Router
	userHandler := handler.NewUserHandler(app.UserService, app.Logger)
	accountHandler := handler.NewAccountHandler(app.AccountService, app.Logger)
	app.HTTPHandler = router.NewRouter(userHandler, accountHandler, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

func (app *Application) initPersistence(ctx context.Context) error {
	if app.Config.StorageBackend == config.StorageMemory {
		app.Persistence = memory.NewStore()
		app.Logger.Info("In-memory storage initialized.")
		return nil
	}

	database, err := db.NewPostgresDB(app.Config.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.", "driver", app.Config.DB.Driver)

	if app.Config.DB.Migrate {
		if err := postgres.Migrate(ctx, database); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		app.Logger.Info("Database schema migrated.")
	}

	app.Persistence = postgres.NewStore(database)
	return nil
}

func (app *Application) logOutput() io.Writer {
	if app.LogOutput == nil {
		return os.Stdout
	}
	return app.LogOutput
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
