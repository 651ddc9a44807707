package config

import (
	"time"

	"github.com/itdojp/cspx/internal/cspx/explorer"
	"github.com/itdojp/cspx/internal/logger"
	"github.com/itdojp/cspx/internal/telemetry"
)

// LoggerConfig converts the logging section to internal/logger.Config.
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:  c.Logging.Level,
		Format: c.Logging.Format,
		Output: c.Logging.Output,
	}
}

// TelemetryConfig converts the telemetry section to internal/telemetry.Config,
// tagged with the running tool's name and version.
func (c *Config) TelemetryConfig(version string) telemetry.Config {
	return telemetry.Config{
		Enabled:        c.Telemetry.Enabled,
		ServiceName:    "cspx",
		ServiceVersion: version,
		Endpoint:       c.Telemetry.Endpoint,
		Insecure:       c.Telemetry.Insecure,
		SampleRate:     c.Telemetry.SampleRate,
	}
}

// Limits converts the run section to explorer.Limits: a non-zero Timeout
// becomes a deadline relative to now, and a non-zero MaxMemory becomes the
// heap bound.
func (c *Config) Limits(now time.Time) explorer.Limits {
	var l explorer.Limits
	if c.Run.Timeout > 0 {
		l.Deadline = now.Add(c.Run.Timeout)
	}
	l.MaxHeapBytes = c.Run.MaxMemory.Uint64()
	return l
}
