package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FLOQUET_DATA_DIR", dir)
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("DEV_MODE", "")
	t.Setenv("FLOQUET_CACHE_TTL_HOURS", "")
	t.Setenv("FLOQUET_SWEEP_WORKERS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.DevMode)
	assert.Zero(t, cfg.CacheTTLHours)
	assert.Zero(t, cfg.SweepWorkers)
	assert.Equal(t, filepath.Join(dir, "spectra.db"), cfg.SpectraDBPath())
}

func TestLoadReadsEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FLOQUET_DATA_DIR", dir)
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DEV_MODE", "true")
	t.Setenv("FLOQUET_CACHE_TTL_HOURS", "48")
	t.Setenv("FLOQUET_SWEEP_WORKERS", "4")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, 48, cfg.CacheTTLHours)
	assert.Equal(t, 4, cfg.SweepWorkers)
}

func TestLoadRejectsNegativeValues(t *testing.T) {
	t.Setenv("FLOQUET_DATA_DIR", t.TempDir())
	t.Setenv("FLOQUET_CACHE_TTL_HOURS", "-1")
	t.Setenv("FLOQUET_SWEEP_WORKERS", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache TTL")
}

func TestValidate(t *testing.T) {
	cfg := &Config{CacheTTLHours: 24, SweepWorkers: 2}
	assert.NoError(t, cfg.Validate())

	cfg.SweepWorkers = -3
	assert.Error(t, cfg.Validate())
}
