package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.flicker/pkg/env"
)

func TestApplyEnv(t *testing.T) {
	t.Setenv("FLICKER_RESULTS_DIR", "/tmp/flicker")
	t.Setenv("FLICKER_VERBOSE", "true")
	t.Setenv("FLICKER_MAX_CONCURRENCY", "8")
	t.Setenv("FLICKER_TIMEOUT", "30s")
	t.Setenv("FLICKER_LOG_LEVEL", "warn")

	cfg, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)
	require.NoError(t, cfg.ApplyEnv(env.NewLoader()))

	assert.Equal(t, "sysui-flicker", cfg.Name, "unset variables keep the YAML value")
	assert.Equal(t, "/tmp/flicker", cfg.ResultsDir)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, 8, cfg.MaxConcurrency)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Len(t, cfg.Scenarios, 1)
}

func TestApplyEnv_Invalid(t *testing.T) {
	t.Setenv("FLICKER_MAX_CONCURRENCY", "many")
	t.Setenv("FLICKER_TIMEOUT", "soon")

	err := Default().ApplyEnv(env.NewLoader())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FLICKER_MAX_CONCURRENCY")
	assert.Contains(t, err.Error(), "FLICKER_TIMEOUT")
}

func TestApplyEnv_ValidatesResult(t *testing.T) {
	t.Setenv("FLICKER_MAX_CONCURRENCY", "-2")

	err := Default().ApplyEnv(env.NewLoader())
	assert.ErrorContains(t, err, "max_concurrency must not be negative")
}

func TestApplyEnv_UnknownLogLevel(t *testing.T) {
	t.Setenv("FLICKER_LOG_LEVEL", "loud")

	err := Default().ApplyEnv(env.NewLoader())
	assert.ErrorContains(t, err, `unknown log_level "loud"`)
}
