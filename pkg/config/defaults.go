package config

import "strings"

// ApplyDefaults fills any still-zero field of cfg with its default value.
// Called after Load's viper.Unmarshal so that a key absent from every
// layer (flags, env, file) still ends up with a sane value, and so that
// normalization (log level case) always runs regardless of which layer
// supplied the value.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyMetricsDefaults(&cfg.Metrics)
	applyRunDefaults(&cfg.Run)
	applyStoreDefaults(&cfg.Store)
}

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "localhost:4317"
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 1.0
	}
}

func applyMetricsDefaults(cfg *MetricsConfig) {
	if cfg.Enabled && cfg.Port == 0 {
		cfg.Port = 9090
	}
}

func applyRunDefaults(cfg *RunConfig) {
	if cfg.Workers == 0 {
		cfg.Workers = 1
	}
	// Timeout and MaxMemory default to zero (unbounded); Seed defaults to
	// zero, a perfectly valid seed value.
}

func applyStoreDefaults(cfg *StoreConfig) {
	if cfg.Backend == "" {
		cfg.Backend = "memory"
	}
	if cfg.Backend == "disk" || cfg.Backend == "hybrid" {
		if cfg.Path == "" {
			cfg.Path = "/tmp/cspx-store"
		}
	}
	if cfg.Backend == "hybrid" && cfg.HybridMaxStates == 0 {
		cfg.HybridMaxStates = 1_000_000
	}
}

// GetDefaultConfig returns a Config with every field set to its default
// value: an in-memory store backend, text logging at INFO, telemetry and
// metrics disabled, and a single-worker, unbounded run.
func GetDefaultConfig() *Config {
	cfg := &Config{
		Store: StoreConfig{Backend: "memory"},
	}
	ApplyDefaults(cfg)
	return cfg
}
