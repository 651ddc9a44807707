package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	registry *prometheus.Registry
	enabled  bool
)

// InitRegistry creates a fresh Prometheus registry and enables metrics
// collection. Must be called before any NewStoreMetrics call that should
// return a live implementation; uncalled, the engine runs with metrics
// fully disabled.
func InitRegistry() *prometheus.Registry {
	registry = prometheus.NewRegistry()
	enabled = true
	return registry
}

// IsEnabled reports whether InitRegistry has run.
func IsEnabled() bool { return enabled }

// GetRegistry returns the active registry, creating one on first use if
// InitRegistry was never called explicitly.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	return registry
}
