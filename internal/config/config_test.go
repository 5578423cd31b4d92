// internal/config/config_test.go
package config

import (
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minibank/pkg/db"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"SERVER_PORT", "STORAGE_BACKEND", "LOG_LEVEL", "DB_DRIVER", "DB_PORT", "DB_MIGRATE",
		"ACCOUNT_DEFAULT_AMOUNT", "ACCOUNT_TRANSFER_COMMISSION", "UOW_MAX_ATTEMPTS",
	} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, StoragePostgres, cfg.StorageBackend)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, db.DriverPQ, cfg.DB.Driver)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.False(t, cfg.DB.Migrate)
	assert.Equal(t, int64(100), cfg.Account.DefaultAmount)
	assert.True(t, decimal.RequireFromString("0.01").Equal(cfg.Account.TransferCommission))
	assert.Equal(t, 3, cfg.UnitOfWork.MaxAttempts)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "MEMORY")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DB_DRIVER", "pgx")
	t.Setenv("DB_MIGRATE", "1")
	t.Setenv("ACCOUNT_DEFAULT_AMOUNT", "0")
	t.Setenv("ACCOUNT_TRANSFER_COMMISSION", "0.1")
	t.Setenv("UOW_MAX_ATTEMPTS", "5")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.StorageBackend)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, db.DriverPGX, cfg.DB.Driver)
	assert.True(t, cfg.DB.Migrate)
	assert.Equal(t, int64(0), cfg.Account.DefaultAmount)
	assert.True(t, decimal.RequireFromString("0.1").Equal(cfg.Account.TransferCommission))
	assert.Equal(t, 5, cfg.UnitOfWork.MaxAttempts)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key, value, wantMsg string
	}{
		{"STORAGE_BACKEND", "redis", "invalid STORAGE_BACKEND"},
		{"LOG_LEVEL", "loud", "invalid LOG_LEVEL"},
		{"DB_PORT", "abc", "invalid DB_PORT"},
		{"DB_DRIVER", "mysql", "invalid DB_DRIVER"},
		{"ACCOUNT_DEFAULT_AMOUNT", "-1", "invalid ACCOUNT_DEFAULT_AMOUNT"},
		{"ACCOUNT_TRANSFER_COMMISSION", "1", "invalid ACCOUNT_TRANSFER_COMMISSION"},
		{"ACCOUNT_TRANSFER_COMMISSION", "ten", "invalid ACCOUNT_TRANSFER_COMMISSION"},
		{"UOW_MAX_ATTEMPTS", "0", "invalid UOW_MAX_ATTEMPTS"},
	}

	for _, tc := range tests {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := LoadConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}
