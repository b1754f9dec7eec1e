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

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10*time.Minute, cfg.LeaseDuration)
	assert.Equal(t, time.Minute, cfg.ReaperInterval)
	assert.Equal(t, int64(0), cfg.SpinCostJP)
	assert.False(t, cfg.MultiplyXP)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SEAT_LEASE_DURATION", "15m")
	t.Setenv("WHEEL_SPIN_COST_JP", "100")
	t.Setenv("TIER_MULTIPLY_XP", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.LeaseDuration)
	assert.Equal(t, int64(100), cfg.SpinCostJP)
	assert.True(t, cfg.MultiplyXP)
}

func TestLoad_BadDurationFallsBack(t *testing.T) {
	t.Setenv("SEAT_LEASE_DURATION", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10*time.Minute, cfg.LeaseDuration)
}
