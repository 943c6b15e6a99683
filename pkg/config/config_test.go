package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/marketlens_test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8087", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 8, cfg.Pipeline.Workers)
	assert.Equal(t, 252, cfg.Pipeline.FibLookback)
	assert.Equal(t, 30.0, cfg.Signals.RSIOversold)
	assert.Equal(t, 0.5, cfg.Signals.MajorityThreshold)
	assert.Equal(t, "0 30 22 * * 1-5", cfg.RefreshSchedule)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestLoadRejectsBadEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/marketlens_test")
	t.Setenv("ENV", "sandbox")

	_, err := Load()
	assert.ErrorContains(t, err, "ENV")
}

func TestLoadRejectsInvertedThresholds(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/marketlens_test")
	t.Setenv("SIGNAL_MINORITY_THRESHOLD", "0.8")
	t.Setenv("SIGNAL_MAJORITY_THRESHOLD", "0.5")

	_, err := Load()
	assert.ErrorContains(t, err, "SIGNAL_MINORITY_THRESHOLD")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/marketlens_test")
	t.Setenv("PIPELINE_WORKERS", "16")
	t.Setenv("SIGNAL_PER_BUY_BELOW", "15")
	t.Setenv("PROVIDER_RATE_PER_SEC", "2.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 16, cfg.Pipeline.Workers)
	assert.Equal(t, 15.0, cfg.Signals.PERBuyBelow)
	assert.Equal(t, 2.5, cfg.Provider.RatePerSec)
}
