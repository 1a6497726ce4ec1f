package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto")
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.Inventory.BatchMaxItems)
	assert.Equal(t, "PO", cfg.Purchase.NumberPrefix)
	assert.Equal(t, 30*time.Second, cfg.Purchase.ReceiveLockTTL)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto")
	t.Setenv("INVENTORY_BATCH_MAX_ITEMS", "25")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("PO_RECEIVE_LOCK_TTL_SECONDS", "5")
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.Inventory.BatchMaxItems)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 5*time.Second, cfg.Purchase.ReceiveLockTTL)
}

func TestLoad_SinSecretoJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSN(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss", DBName: "ledger", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/ledger?sslmode=disable", c.DSN())
	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
