// Package config loads the chitlm configuration from file, environment,
// and defaults.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the chitlm configuration.
//
// Configuration sources (in order of precedence):
//  1. Environment variables (CHITLM_*)
//  2. Configuration file (YAML)
//  3. Default values
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Metrics contains Prometheus metrics server configuration
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`

	// Bridge contains the coherence-geometry and protocol parameters
	Bridge BridgeConfig `mapstructure:"bridge" yaml:"bridge"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output.
	// Valid values: DEBUG, INFO, WARN, ERROR
	Level string `mapstructure:"level" yaml:"level"`

	// Format specifies the log output format.
	// Valid values: text, json
	Format string `mapstructure:"format" yaml:"format"`

	// Output specifies where logs are written.
	// Valid values: stdout, stderr, or a file path
	Output string `mapstructure:"output" yaml:"output"`
}

// MetricsConfig configures the Prometheus metrics HTTP server.
// When Enabled is false, no HTTP server is started.
type MetricsConfig struct {
	// Enabled controls whether the metrics/health HTTP server runs
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Listen is the address the HTTP server binds, e.g. ":9090"
	Listen string `mapstructure:"listen" yaml:"listen"`
}

// BridgeConfig carries the coherence geometry and protocol constants.
type BridgeConfig struct {
	// LineSizeBytes is the coherence granule. Must be a power of two.
	LineSizeBytes int `mapstructure:"line_size_bytes" yaml:"line_size_bytes"`

	// BeatSizeBytes is the width of one DAT-channel beat. Must divide
	// LineSizeBytes.
	BeatSizeBytes int `mapstructure:"beat_size_bytes" yaml:"beat_size_bytes"`

	// DefaultPCrdType is the credit class stamped on surfaced PCrdGrants
	// until a real retry-token allocator exists.
	DefaultPCrdType uint8 `mapstructure:"default_pcrd_type" yaml:"default_pcrd_type"`

	// Destination is the downstream machine identifier every address
	// maps to in the single-home testbench topology.
	Destination uint32 `mapstructure:"destination" yaml:"destination"`

	// LatencyTicks is the simulated delay between a downstream request
	// and its first reply in the built-in memory model.
	LatencyTicks uint64 `mapstructure:"latency_ticks" yaml:"latency_ticks"`
}

// Load loads configuration from file, environment, and defaults. An
// empty configPath skips the file layer and returns defaults overlaid
// with the logging.* and metrics.* environment variables only (see
// applyEnvOverrides).
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	fileFound, err := readConfigFile(v, configPath)
	if err != nil {
		return nil, err
	}
	if !fileFound {
		cfg := GetDefaultConfig()
		applyEnvOverrides(v, cfg)
		if err := Validate(cfg); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
		return cfg, nil
	}

	var cfg Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build config decoder: %w", err)
	}
	if err := dec.Decode(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// MustLoad is Load with a friendlier error when the named file is absent.
func MustLoad(configPath string) (*Config, error) {
	if configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration file not found: %s", configPath)
		}
	}
	return Load(configPath)
}

// Save writes cfg to path in YAML form.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// setupViper configures environment-variable and config-file handling.
// Environment variables use the CHITLM_ prefix with underscores, e.g.
// CHITLM_LOGGING_LEVEL=DEBUG.
func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix("CHITLM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	}
}

// readConfigFile reads the configuration file if one was named and
// exists. Returns whether a file was loaded.
func readConfigFile(v *viper.Viper, configPath string) (bool, error) {
	if configPath == "" {
		return false, nil
	}
	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		return false, fmt.Errorf("failed to read config file: %w", err)
	}
	return true, nil
}

// applyEnvOverrides copies the handful of env-only overrides onto a
// defaults-built config (viper only merges env into file-loaded keys).
func applyEnvOverrides(v *viper.Viper, cfg *Config) {
	if s := v.GetString("logging.level"); s != "" {
		cfg.Logging.Level = s
	}
	if s := v.GetString("logging.format"); s != "" {
		cfg.Logging.Format = s
	}
	if s := v.GetString("logging.output"); s != "" {
		cfg.Logging.Output = s
	}
	if v.IsSet("metrics.enabled") {
		cfg.Metrics.Enabled = v.GetBool("metrics.enabled")
	}
	if s := v.GetString("metrics.listen"); s != "" {
		cfg.Metrics.Listen = s
	}
}
