package config

import (
	"fmt"
	"strings"
)

// Default coherence geometry: a 64-byte line carried as two 32-byte
// beats, matching the testbench scenarios.
const (
	DefaultLineSizeBytes = 64
	DefaultBeatSizeBytes = 32
	DefaultLatencyTicks  = 10
	DefaultMetricsListen = ":9090"
)

// GetDefaultConfig returns a fully populated default configuration.
func GetDefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "INFO",
			Format: "text",
			Output: "stdout",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Listen:  DefaultMetricsListen,
		},
		Bridge: BridgeConfig{
			LineSizeBytes: DefaultLineSizeBytes,
			BeatSizeBytes: DefaultBeatSizeBytes,
			LatencyTicks:  DefaultLatencyTicks,
		},
	}
}

// ApplyDefaults fills any zero-valued field with its default.
func ApplyDefaults(cfg *Config) {
	def := GetDefaultConfig()

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = def.Logging.Format
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = def.Logging.Output
	}
	if cfg.Metrics.Listen == "" {
		cfg.Metrics.Listen = def.Metrics.Listen
	}
	if cfg.Bridge.LineSizeBytes == 0 {
		cfg.Bridge.LineSizeBytes = def.Bridge.LineSizeBytes
	}
	if cfg.Bridge.BeatSizeBytes == 0 {
		cfg.Bridge.BeatSizeBytes = def.Bridge.BeatSizeBytes
	}
	if cfg.Bridge.LatencyTicks == 0 {
		cfg.Bridge.LatencyTicks = def.Bridge.LatencyTicks
	}
}

// Validate checks cfg for values the bridge cannot run with.
func Validate(cfg *Config) error {
	switch strings.ToUpper(cfg.Logging.Level) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		return fmt.Errorf("logging.level: invalid level %q", cfg.Logging.Level)
	}
	switch strings.ToLower(cfg.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format: invalid format %q", cfg.Logging.Format)
	}

	b := cfg.Bridge
	if b.LineSizeBytes <= 0 || b.LineSizeBytes&(b.LineSizeBytes-1) != 0 {
		return fmt.Errorf("bridge.line_size_bytes: %d is not a positive power of two", b.LineSizeBytes)
	}
	if b.BeatSizeBytes <= 0 || b.LineSizeBytes%b.BeatSizeBytes != 0 {
		return fmt.Errorf("bridge.beat_size_bytes: %d does not divide the line size %d",
			b.BeatSizeBytes, b.LineSizeBytes)
	}
	return nil
}
