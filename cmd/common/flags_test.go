package common

import (
	"bytes"
	"flag"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseCommon(t *testing.T, args ...string) *CommonFlags {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	c := RegisterCommonFlags(fs)
	require.NoError(t, fs.Parse(args))
	return c
}

func TestBootstrapLogger_DefaultLevelHidesDebug(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	var buf bytes.Buffer
	log := BootstrapLogger(&buf, parseCommon(t))

	missing := filepath.Join(t.TempDir(), "missing.env")
	require.NoError(t, LoadEnvFile(missing, log))
	assert.Empty(t, buf.String())

	log.Info().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestBootstrapLogger_HonoursLogLevel(t *testing.T) {
	t.Setenv(EnvLogLevel, "")

	var warn bytes.Buffer
	log := BootstrapLogger(&warn, parseCommon(t, "-log-level", "warn"))
	log.Info().Msg("hidden")
	assert.Empty(t, warn.String())

	var debug bytes.Buffer
	log = BootstrapLogger(&debug, parseCommon(t, "-log-level", "debug"))
	require.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "missing.env"), log))
	assert.Contains(t, debug.String(), "environment file not found")
}

func TestBootstrapLogger_UnknownLevelFallsBackToInfo(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	var buf bytes.Buffer
	log := BootstrapLogger(&buf, parseCommon(t, "-log-level", "chatty"))
	log.Debug().Msg("hidden")
	assert.Empty(t, buf.String())
	log.Info().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestFlagValidator(t *testing.T) {
	v := NewFlagValidator()
	v.ValidateFloat("budget", 5, 0, 10).ValidateInt("buy-day", 15, 1, 31)
	assert.False(t, v.HasErrors())
	assert.NoError(t, v.GetError())

	v.ValidateInt("buy-day", 40, 1, 31).ValidateFile("config", "", true)
	assert.Len(t, v.GetErrors(), 2)
	assert.Error(t, v.GetError())
}
