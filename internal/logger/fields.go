package logger

// Standard field keys for structured logging. Use these consistently across
// all log statements so aggregation/querying can rely on stable key names.
const (
	// Distributed tracing.
	KeyTraceID = "trace_id"
	KeySpanID  = "span_id"

	// Verification run identification.
	KeyRunID     = "run_id"
	KeyCheckName = "check"
	KeyModel     = "model"
	KeyTarget    = "target"

	// Exploration statistics.
	KeyStates      = "states"
	KeyTransitions = "transitions"
	KeyDurationMs  = "duration_ms"

	// Store / I/O.
	KeyStorePath = "store_path"
	KeyBackend   = "backend"
	KeyBytes     = "bytes"
)
