package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SLA_SCAN_INTERVAL_SECONDS", "")
	t.Setenv("APP_PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, time.Minute, cfg.SLA.ScanInterval())
	assert.Equal(t, time.Hour, cfg.Notification.AlertDedupeTTL)
	assert.True(t, cfg.SLA.ScanEnabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SLA_SCAN_INTERVAL_SECONDS", "15")
	t.Setenv("SLA_SCAN_ENABLED", "false")
	t.Setenv("NOTIFY_DISPATCH_PER_SECOND", "0.5")
	t.Setenv("POSTGRES_MAX_CONNS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Second, cfg.SLA.ScanInterval())
	assert.False(t, cfg.SLA.ScanEnabled)
	assert.Equal(t, 0.5, cfg.Notification.DispatchPerSec)
	assert.Equal(t, int32(10), cfg.Postgres.MaxConns)
	assert.Equal(t, "complaint-service", cfg.Postgres.ApplicationName)
	assert.Equal(t, 10000, cfg.Postgres.StatementTimeoutMS)
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "x")
	_, err := Load()
	assert.Error(t, err)
}
