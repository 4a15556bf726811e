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

	assert.Equal(t, "development", cfg.AppEnv)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.UsesPostgres())
	assert.Equal(t, 30, cfg.ExtensionDays)
	assert.Equal(t, 7, cfg.LowWaterMarkDays)
	assert.Equal(t, 2, cfg.FreeThreshold)
	assert.Equal(t, 5*time.Minute, cfg.ScanTolerance)
	assert.Equal(t, 25*time.Hour, cfg.LookaheadHorizon)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://coursecast@localhost/coursecast")
	t.Setenv("EXTENSION_DAYS", "14")
	t.Setenv("SCAN_TOLERANCE", "2m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.UsesPostgres())
	assert.Equal(t, 14, cfg.ExtensionDays)
	assert.Equal(t, 2*time.Minute, cfg.ScanTolerance)
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("EXTENSION_DAYS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.ExtensionDays)
}

func TestParseSlotTime(t *testing.T) {
	hour, minute, err := ParseSlotTime("19:30")
	require.NoError(t, err)
	assert.Equal(t, 19, hour)
	assert.Equal(t, 30, minute)

	_, _, err = ParseSlotTime("25:99")
	assert.Error(t, err)
}

func TestLocation_FallsBackToUTC(t *testing.T) {
	cfg := &Config{Timezone: "Not/AZone"}
	assert.Equal(t, time.UTC, cfg.Location())

	cfg = &Config{Timezone: "UTC"}
	assert.Equal(t, time.UTC, cfg.Location())
}
