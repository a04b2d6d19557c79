package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "INDEX", cfg.Engine.Segment)
	assert.Equal(t, 60*time.Second, cfg.Engine.NotifyWindow)
	assert.Equal(t, 100, cfg.Engine.CandleHistory)
	assert.Equal(t, "memory", cfg.Engine.DriverStoreType)
	assert.Equal(t, "signal_snapshots", cfg.Engine.SnapshotStream)
	assert.Equal(t, "signal_alerts", cfg.Engine.AlertStream)
	assert.Equal(t, "signal_alerts", cfg.Alert.StreamName)
	assert.Equal(t, 8090, cfg.API.Port)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ENGINE_SEGMENT", "EQUITY")
	t.Setenv("ENGINE_NOTIFY_WINDOW", "30s")
	t.Setenv("ENGINE_CANDLE_HISTORY", "50")
	t.Setenv("ENGINE_DRIVER_STORE_TYPE", "redis")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "EQUITY", cfg.Engine.Segment)
	assert.Equal(t, 30*time.Second, cfg.Engine.NotifyWindow)
	assert.Equal(t, 50, cfg.Engine.CandleHistory)
	assert.Equal(t, "redis", cfg.Engine.DriverStoreType)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("ENGINE_CANDLE_HISTORY", "not-a-number")
	t.Setenv("ENGINE_NOTIFY_WINDOW", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.Engine.CandleHistory)
	assert.Equal(t, 60*time.Second, cfg.Engine.NotifyWindow)
}

func TestValidate(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	cfg.Engine.DriverStoreType = "etcd"
	assert.Error(t, cfg.Validate())

	cfg.Engine.DriverStoreType = "memory"
	cfg.Engine.NotifyWindow = 0
	assert.Error(t, cfg.Validate())

	cfg.Engine.NotifyWindow = time.Minute
	cfg.Engine.Segment = ""
	assert.Error(t, cfg.Validate())
}
