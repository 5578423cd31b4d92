// internal/config/config.go
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"minibank/internal/domain"
	"minibank/internal/repository"
	"minibank/internal/util"
	"minibank/pkg/db" // Import db package for its Config struct
)

// Storage backends.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// AccountConfig holds the ledger business settings.
type AccountConfig struct {
	DefaultAmount      int64           // Opening balance of every new account
	TransferCommission decimal.Decimal // Fraction in [0,1) withheld on cross-owner transfers
}

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort     string
	StorageBackend string
	LogLevel       slog.Level
	DB             db.Config
	Account        AccountConfig
	UnitOfWork     repository.UnitOfWorkConfig
}

// LoadConfig loads configuration from environment variables.
// It returns an AppConfig instance or an error if any variable is invalid.
func LoadConfig() (*AppConfig, error) {
	serverPort := getEnv("SERVER_PORT", "8080")

	storage := strings.ToLower(getEnv("STORAGE_BACKEND", StoragePostgres))
	if storage != StorageMemory && storage != StoragePostgres {
		return nil, fmt.Errorf("invalid STORAGE_BACKEND %q: want %s or %s", storage, StorageMemory, StoragePostgres)
	}

	logLevel, err := util.ParseLogLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432")) // Default PostgreSQL port
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	dbDriver := getEnv("DB_DRIVER", db.DriverPQ)
	if dbDriver != db.DriverPQ && dbDriver != db.DriverPGX {
		return nil, fmt.Errorf("invalid DB_DRIVER %q: want %s or %s", dbDriver, db.DriverPQ, db.DriverPGX)
	}

	defaultAmount, err := strconv.ParseInt(getEnv("ACCOUNT_DEFAULT_AMOUNT", "100"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ACCOUNT_DEFAULT_AMOUNT: %w", err)
	}
	if defaultAmount < 0 {
		return nil, fmt.Errorf("invalid ACCOUNT_DEFAULT_AMOUNT: must be >= 0, got %d", defaultAmount)
	}

	commission, err := decimal.NewFromString(getEnv("ACCOUNT_TRANSFER_COMMISSION", "0.01"))
	if err != nil {
		return nil, fmt.Errorf("invalid ACCOUNT_TRANSFER_COMMISSION: %w", err)
	}
	if err := domain.ValidateCommissionRate(commission); err != nil {
		return nil, fmt.Errorf("invalid ACCOUNT_TRANSFER_COMMISSION: %w", err)
	}

	uow := repository.DefaultUnitOfWorkConfig()
	attempts, err := strconv.Atoi(getEnv("UOW_MAX_ATTEMPTS", strconv.Itoa(uow.MaxAttempts)))
	if err != nil || attempts <= 0 {
		return nil, fmt.Errorf("invalid UOW_MAX_ATTEMPTS: must be a positive integer")
	}
	uow.MaxAttempts = attempts

	return &AppConfig{
		ServerPort:     serverPort,
		StorageBackend: storage,
		LogLevel:       logLevel,
		DB: db.Config{
			Driver:   dbDriver,
			Host:     getEnv("DB_HOST", "localhost"), // Default to localhost for local development
			Port:     dbPort,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "bank"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			Migrate:  getEnv("DB_MIGRATE", "0") == "1",
		},
		Account: AccountConfig{
			DefaultAmount:      defaultAmount,
			TransferCommission: commission,
		},
		UnitOfWork: uow,
	}, nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
