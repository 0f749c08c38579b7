package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfig_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	cfg := InitConfig("does-not-exist.env")

	assert.Equal(t, "test", cfg.App.Environment)
	assert.Equal(t, 9990, cfg.Server.Port)
	assert.Equal(t, 50.0, cfg.Navigation.DeviationThresholdMeters)
	assert.Equal(t, 1.0, cfg.Navigation.MinMovingSpeedMps)
	assert.Equal(t, 60*time.Second, cfg.Navigation.SpeedWindow)
	assert.Equal(t, 5, cfg.Navigation.HistorySize)
	assert.Equal(t, 15*time.Second, cfg.Navigation.RecalcMinInterval)
	assert.False(t, cfg.Inspection.BlockOnPreTripIssue)
	assert.Equal(t, 3, cfg.Retry.MaxRetries)
	assert.Equal(t, "maintenance_requests", cfg.NSQ.Topic)
}

func TestInitConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("NAV_DEVIATION_THRESHOLD_M", "75")
	t.Setenv("NAV_RECALC_MIN_INTERVAL", "30s")
	t.Setenv("INSPECTION_BLOCK_ON_PRETRIP_ISSUE", "true")
	t.Setenv("ROUTING_AVOID_TOLLS", "true")

	cfg := InitConfig("")

	assert.Equal(t, 75.0, cfg.Navigation.DeviationThresholdMeters)
	assert.Equal(t, 30*time.Second, cfg.Navigation.RecalcMinInterval)
	assert.True(t, cfg.Inspection.BlockOnPreTripIssue)
	assert.True(t, cfg.Routing.AvoidTolls)
}

func TestInitConfig_LocalDotenv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trips.env")
	require.NoError(t, os.WriteFile(path, []byte("SERVER_PORT=8181\nNAV_HISTORY_SIZE=8\n"), 0o600))

	t.Setenv("APP_ENV", "local")
	// godotenv does not override variables that are already set, so make
	// sure the keys are absent and clean them up afterwards.
	t.Setenv("SERVER_PORT", "")
	t.Setenv("NAV_HISTORY_SIZE", "")
	os.Unsetenv("SERVER_PORT")
	os.Unsetenv("NAV_HISTORY_SIZE")

	cfg := InitConfig(path)

	assert.Equal(t, 8181, cfg.Server.Port)
	assert.Equal(t, 8, cfg.Navigation.HistorySize)
}
