package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pdv/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 3001, cfg.App.Port)
	assert.Equal(t, config.DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, 2, cfg.Stock.LowThreshold)
	assert.Equal(t, 2*time.Second, cfg.Stock.Debounce)
	assert.Empty(t, cfg.Auth.Secret)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_NAME", "loja")
	t.Setenv("LOW_STOCK_THRESHOLD", "5")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, 5, cfg.Stock.LowThreshold)
	assert.Equal(t, "postgres://postgres:@db.internal:5432/loja?sslmode=disable", cfg.ConnectionString())
}

func TestLoad_UnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "indexeddb")

	_, err := config.Load()
	assert.Error(t, err)
}
