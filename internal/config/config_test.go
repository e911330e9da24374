package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "orders", cfg.DB.Name)
	assert.Equal(t, 5*time.Minute, cfg.Cache.OrderTTL)
	assert.Equal(t, 5*time.Minute, cfg.Cache.ReportTTL)
	assert.Equal(t, 24*time.Hour, cfg.Cache.EventDedupTTL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_NAME", "orders_test")
	t.Setenv("CACHE_ORDER_TTL", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "orders_test", cfg.DB.Name)
	assert.Equal(t, 30*time.Second, cfg.Cache.OrderTTL)
}

func TestDSN(t *testing.T) {
	c := DBConfig{
		Host: "db", Port: 5432, User: "app", Password: "pw",
		Name: "orders", SSLMode: "disable",
	}
	assert.Equal(t, "postgres://app:pw@db:5432/orders?sslmode=disable", c.DSN())
}
