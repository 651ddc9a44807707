package config

import "fmt"

// Validate checks cfg against a small, closed set of field constraints,
// by hand rather than through struct-tag reflection (cspx does not import
// go-playground/validator; see DESIGN.md).
func Validate(cfg *Config) error {
	if err := validateLogging(cfg.Logging); err != nil {
		return err
	}
	if err := validateTelemetry(cfg.Telemetry); err != nil {
		return err
	}
	if err := validateMetrics(cfg.Metrics); err != nil {
		return err
	}
	if err := validateRun(cfg.Run); err != nil {
		return err
	}
	return validateStore(cfg.Store)
}

func validateLogging(cfg LoggingConfig) error {
	switch cfg.Level {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		return fmt.Errorf("config: logging.level must be one of DEBUG, INFO, WARN, ERROR, got %q", cfg.Level)
	}
	switch cfg.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: logging.format must be one of text, json, got %q", cfg.Format)
	}
	if cfg.Output == "" {
		return fmt.Errorf("config: logging.output is required")
	}
	return nil
}

func validateTelemetry(cfg TelemetryConfig) error {
	if cfg.SampleRate < 0 || cfg.SampleRate > 1 {
		return fmt.Errorf("config: telemetry.sample_rate must be in [0,1], got %v", cfg.SampleRate)
	}
	return nil
}

func validateMetrics(cfg MetricsConfig) error {
	if cfg.Enabled && (cfg.Port < 1 || cfg.Port > 65535) {
		return fmt.Errorf("config: metrics.port must be in [1,65535], got %d", cfg.Port)
	}
	return nil
}

func validateRun(cfg RunConfig) error {
	if cfg.Timeout < 0 {
		return fmt.Errorf("config: run.timeout must not be negative, got %v", cfg.Timeout)
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("config: run.workers must not be negative, got %d", cfg.Workers)
	}
	return nil
}

func validateStore(cfg StoreConfig) error {
	switch cfg.Backend {
	case "memory", "disk", "hybrid":
	default:
		return fmt.Errorf("config: store.backend must be one of memory, disk, hybrid, got %q", cfg.Backend)
	}
	if (cfg.Backend == "disk" || cfg.Backend == "hybrid") && cfg.Path == "" {
		return fmt.Errorf("config: store.path is required for backend %q", cfg.Backend)
	}
	if cfg.Backend == "hybrid" && cfg.HybridMaxStates < 0 {
		return fmt.Errorf("config: store.hybrid_max_states must not be negative, got %d", cfg.HybridMaxStates)
	}
	return nil
}
