package telemetry

// Config holds the OpenTelemetry tracing configuration for a verification
// run.
type Config struct {
	// Enabled turns tracing on. Disabled by default: the engine traces
	// nothing unless the caller opts in.
	Enabled bool

	// ServiceName is reported to the trace backend as the resource's
	// service.name attribute.
	ServiceName string

	// ServiceVersion is reported as service.version.
	ServiceVersion string

	// Endpoint is the OTLP gRPC endpoint, e.g. "localhost:4317".
	Endpoint string

	// Insecure disables TLS on the OTLP connection.
	Insecure bool

	// SampleRate is the trace sampling ratio in [0,1].
	SampleRate float64
}

// DefaultConfig returns tracing disabled, matching the rest of the config
// package's nil/zero-means-off convention.
func DefaultConfig() Config {
	return Config{
		Enabled:        false,
		ServiceName:    "cspx",
		ServiceVersion: "dev",
		Endpoint:       "localhost:4317",
		Insecure:       true,
		SampleRate:     1.0,
	}
}
