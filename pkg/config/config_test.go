package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "INFO", cfg.Logging.Level)
	assert.Equal(t, DefaultLineSizeBytes, cfg.Bridge.LineSizeBytes)
	assert.Equal(t, DefaultBeatSizeBytes, cfg.Bridge.BeatSizeBytes)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
logging:
  level: DEBUG
  format: json
metrics:
  enabled: true
  listen: ":9191"
bridge:
  line_size_bytes: 64
  beat_size_bytes: 16
  default_pcrd_type: 3
  latency_ticks: 5
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "DEBUG", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "stdout", cfg.Logging.Output, "unset fields fall back to defaults")
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, ":9191", cfg.Metrics.Listen)
	assert.Equal(t, 16, cfg.Bridge.BeatSizeBytes)
	assert.Equal(t, uint8(3), cfg.Bridge.DefaultPCrdType)
	assert.Equal(t, uint64(5), cfg.Bridge.LatencyTicks)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("CHITLM_LOGGING_LEVEL", "ERROR")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "ERROR", cfg.Logging.Level)
}

func TestValidate_RejectsBadGeometry(t *testing.T) {
	cases := []struct {
		name string
		edit func(*Config)
	}{
		{"non-power-of-two line", func(c *Config) { c.Bridge.LineSizeBytes = 48 }},
		{"beat does not divide line", func(c *Config) { c.Bridge.BeatSizeBytes = 24 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "TRACE" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := GetDefaultConfig()
			c.edit(cfg)
			assert.Error(t, Validate(cfg))
		})
	}
}

func TestMustLoad_MissingFileIsAnError(t *testing.T) {
	_, err := MustLoad("/nonexistent/chitlm.yaml")
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := GetDefaultConfig()
	cfg.Logging.Level = "WARN"
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "WARN", loaded.Logging.Level)
}
