package config

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadReturnsDefaultsWithoutConfigFile(t *testing.T) {
	t.Setenv(PYM_CONFIG_DIR_ENV, t.TempDir())

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.Color)
}

func TestLoadBindsCLIFlagOverride(t *testing.T) {
	t.Setenv(PYM_CONFIG_DIR_ENV, t.TempDir())

	fs := pflag.NewFlagSet("pym", pflag.ContinueOnError)
	fs.String("log-level", "info", "")
	require.NoError(t, fs.Set("log-level", "debug"))

	cfg, err := Load(fs)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestConfigRoundTripsThroughContext(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "warn"

	ctx := cfg.Inject(t.Context())

	extracted, err := FromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "warn", extracted.LogLevel)
}

func TestFromContextFailsWithoutInjection(t *testing.T) {
	_, err := FromContext(t.Context())
	assert.Error(t, err)
}
