// Package config loads cspx's run configuration: a viper-backed layering
// of CLI flags, CSPX_* environment variables, an optional YAML file, and
// compiled-in defaults, decoded into a typed struct via mapstructure with
// custom decode hooks for the non-primitive field types (time.Duration,
// bytesize.ByteSize).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/itdojp/cspx/internal/bytesize"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is cspx's run configuration.
//
// Configuration sources, highest precedence first:
//  1. CLI flags bound via Load's flags parameter
//  2. Environment variables (CSPX_*)
//  3. Configuration file (YAML)
//  4. Compiled-in defaults
type Config struct {
	// Logging controls structured log output.
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Telemetry controls OpenTelemetry tracing of a verification run.
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`

	// Metrics controls the Prometheus metrics registry.
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`

	// Run bounds a single check/refine invocation.
	Run RunConfig `mapstructure:"run" yaml:"run"`

	// Store selects and configures the state-store backend.
	Store StoreConfig `mapstructure:"store" yaml:"store"`
}

// LoggingConfig controls logging behavior, mirroring internal/logger.Config.
type LoggingConfig struct {
	// Level is the minimum log level: DEBUG, INFO, WARN, ERROR
	// (case-insensitive, normalized to uppercase).
	Level string `mapstructure:"level" yaml:"level"`

	// Format is the log output format: text or json.
	Format string `mapstructure:"format" yaml:"format"`

	// Output is stdout, stderr, or a file path.
	Output string `mapstructure:"output" yaml:"output"`
}

// TelemetryConfig controls OpenTelemetry tracing of a verification run,
// mirroring internal/telemetry.Config.
type TelemetryConfig struct {
	Enabled    bool    `mapstructure:"enabled" yaml:"enabled"`
	Endpoint   string  `mapstructure:"endpoint" yaml:"endpoint"`
	Insecure   bool    `mapstructure:"insecure" yaml:"insecure"`
	SampleRate float64 `mapstructure:"sample_rate" yaml:"sample_rate"`
}

// MetricsConfig controls the Prometheus metrics HTTP server. When Enabled
// is false, metrics.InitRegistry is never called and every store backend
// runs with store.NullMetrics.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	Port    int  `mapstructure:"port" yaml:"port"`
}

// RunConfig bounds a single check/refine invocation, feeding
// internal/cspx/engine.Config and explorer.Limits.
type RunConfig struct {
	// Timeout is the exploration deadline, relative to the run's start.
	// Zero means no deadline.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`

	// MaxMemory bounds process heap usage during exploration. Zero means
	// unbounded. Accepts human-readable sizes: "512Mi", "2GB".
	MaxMemory bytesize.ByteSize `mapstructure:"max_memory" yaml:"max_memory"`

	// Seed is reported on the result document's invocation record. The
	// present engine has no randomised component, but the field exists so
	// a future randomised exploration order stays reproducible.
	Seed int64 `mapstructure:"seed" yaml:"seed"`

	// Workers selects the explorer: 0 or 1 runs single-threaded, >1 runs
	// explorer.RunParallel with that worker count.
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// StoreConfig selects the visited-state store backend and its parameters.
type StoreConfig struct {
	// Backend is one of "memory", "disk", or "hybrid".
	Backend string `mapstructure:"backend" yaml:"backend"`

	// Path is the backing directory for "disk" and "hybrid" backends.
	Path string `mapstructure:"path" yaml:"path,omitempty"`

	// HybridMaxStates bounds the in-memory portion of a "hybrid" backend
	// before it spills to disk.
	HybridMaxStates int `mapstructure:"hybrid_max_states" yaml:"hybrid_max_states,omitempty"`
}

// Load builds a Config from file, environment, flags, and defaults. flags
// may be nil, in which case only environment variables and the config
// file (or compiled-in defaults) are consulted.
//
// configPath selects the config file explicitly; an empty string falls
// back to the default location ($XDG_CONFIG_HOME/cspx/config.yaml) if one
// exists there, and to compiled-in defaults otherwise.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	cfg := GetDefaultConfig()
	registerDefaults(v, cfg)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("config: binding flags: %w", err)
		}
	}

	if _, err := readConfigFile(v); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(cfg, viper.DecodeHook(configDecodeHooks())); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	ApplyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path in YAML, creating parent directories as
// needed, with 0600 permissions since a saved config can carry store
// paths an operator may consider sensitive.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: creating directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("config: write: %w", err)
	}
	return nil
}

// setupViper wires environment variable support (CSPX_ prefix, "." ->
// "_") and the config file search path/name.
func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix("CSPX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}
	v.AddConfigPath(getConfigDir())
	v.SetConfigName("config")
	v.SetConfigType("yaml")
}

// readConfigFile reads the configuration file if present. A missing file
// is not an error: the caller falls back to defaults/env/flags alone.
func readConfigFile(v *viper.Viper) (found bool, err error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("config: reading config file: %w", err)
	}
	return true, nil
}

// registerDefaults seeds every field of defaults into v via SetDefault.
// This is what lets viper.Unmarshal see CSPX_* environment overrides of a
// key even when no config file sets that key first; AutomaticEnv only
// intercepts lookups of keys viper already knows about.
func registerDefaults(v *viper.Viper, defaults *Config) {
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.output", defaults.Logging.Output)

	v.SetDefault("telemetry.enabled", defaults.Telemetry.Enabled)
	v.SetDefault("telemetry.endpoint", defaults.Telemetry.Endpoint)
	v.SetDefault("telemetry.insecure", defaults.Telemetry.Insecure)
	v.SetDefault("telemetry.sample_rate", defaults.Telemetry.SampleRate)

	v.SetDefault("metrics.enabled", defaults.Metrics.Enabled)
	v.SetDefault("metrics.port", defaults.Metrics.Port)

	v.SetDefault("run.timeout", defaults.Run.Timeout)
	v.SetDefault("run.max_memory", defaults.Run.MaxMemory.String())
	v.SetDefault("run.seed", defaults.Run.Seed)
	v.SetDefault("run.workers", defaults.Run.Workers)

	v.SetDefault("store.backend", defaults.Store.Backend)
	v.SetDefault("store.path", defaults.Store.Path)
	v.SetDefault("store.hybrid_max_states", defaults.Store.HybridMaxStates)
}

// configDecodeHooks composes the mapstructure decode hooks for every
// non-primitive field type Config carries.
func configDecodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		byteSizeDecodeHook(),
		mapstructure.StringToTimeDurationHookFunc(),
	)
}

// byteSizeDecodeHook converts strings and numbers to bytesize.ByteSize,
// letting config files and CSPX_RUN_MAX_MEMORY use "512Mi"-style sizes.
func byteSizeDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(bytesize.ByteSize(0)) {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return bytesize.Parse(v)
		case int:
			return bytesize.ByteSize(v), nil
		case int64:
			return bytesize.ByteSize(v), nil
		case uint64:
			return bytesize.ByteSize(v), nil
		case float64:
			return bytesize.ByteSize(v), nil
		default:
			return data, nil
		}
	}
}

// getConfigDir returns $XDG_CONFIG_HOME/cspx, falling back to
// ~/.config/cspx, or "." if the home directory cannot be determined.
func getConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "cspx")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "cspx")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// DefaultConfigExists reports whether a config file exists at the default
// location.
func DefaultConfigExists() bool {
	_, err := os.Stat(GetDefaultConfigPath())
	return err == nil
}
