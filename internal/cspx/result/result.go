// Package result implements the result document: its schema, status
// aggregation precedence, exit code mapping, and the companion summary
// record written alongside it.
package result

import (
	"time"

	"github.com/itdojp/cspx/internal/cspx/check"
)

// Status is one of the six top-level outcomes a check or a whole document
// can carry.
type Status string

const (
	StatusPass        Status = "pass"
	StatusFail        Status = "fail"
	StatusError       Status = "error"
	StatusUnsupported Status = "unsupported"
	StatusTimeout     Status = "timeout"
	StatusOutOfMemory Status = "out_of_memory"
)

// precedence orders Status from least to most severe for aggregation,
// mirroring "error > out_of_memory > timeout > fail > unsupported >
// pass" (highest first); rank is that list reversed so a larger number
// always wins under max().
var precedence = map[Status]int{
	StatusPass:        0,
	StatusUnsupported: 1,
	StatusFail:        2,
	StatusTimeout:     3,
	StatusOutOfMemory: 4,
	StatusError:       5,
}

// ExitCode maps a Status to its process exit code.
func ExitCode(s Status) int {
	switch s {
	case StatusPass:
		return 0
	case StatusFail:
		return 1
	case StatusError:
		return 2
	case StatusUnsupported:
		return 3
	case StatusTimeout:
		return 4
	case StatusOutOfMemory:
		return 5
	default:
		return 2
	}
}

// ReasonKind enumerates the error categories.
type ReasonKind string

const (
	ReasonNotImplemented    ReasonKind = "not_implemented"
	ReasonUnsupportedSyntax ReasonKind = "unsupported_syntax"
	ReasonInvalidInput      ReasonKind = "invalid_input"
	ReasonInternalError     ReasonKind = "internal_error"
	ReasonTimeout           ReasonKind = "timeout"
	ReasonOutOfMemory       ReasonKind = "out_of_memory"
)

// Reason is the optional {kind,message} carried by a non-pass, non-fail
// check.
type Reason struct {
	Kind    ReasonKind `json:"kind"`
	Message string     `json:"message"`
}

// Stats mirrors the graph's statistics counters.
type Stats struct {
	States      int `json:"states"`
	Transitions int `json:"transitions"`
}

// SourceSpan is a 1-based inclusive source location.
type SourceSpan struct {
	Path      string `json:"path"`
	StartLine int    `json:"start_line"`
	StartCol  int    `json:"start_col"`
	EndLine   int    `json:"end_line"`
	EndCol    int    `json:"end_col"`
}

// Counterexample is the wire shape of a counterexample.
type Counterexample struct {
	Kind        string       `json:"kind"`
	Events      []string     `json:"events"`
	Tags        []string     `json:"tags"`
	SourceSpans []SourceSpan `json:"source_spans"`
	IsMinimized bool         `json:"is_minimized"`
}

// Check is one entry of the document's checks array. The JSON schema these
// types satisfy declares additionalProperties:false; this package
// only ever marshals through these named fields, so no extra property can
// appear on the wire.
type Check struct {
	Name           string          `json:"name"` // typecheck | check | refine
	Model          *string         `json:"model,omitempty"`
	Target         string          `json:"target"`
	Status         Status          `json:"status"`
	Reason         *Reason         `json:"reason,omitempty"`
	Counterexample *Counterexample `json:"counterexample,omitempty"`
	Stats          Stats           `json:"stats"`
}

// Tool identifies this binary.
type Tool struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	GitSHA  string `json:"git_sha"`
}

// Invocation records how this run was invoked.
type Invocation struct {
	Command   string   `json:"command"`
	Args      []string `json:"args"`
	Format    string   `json:"format"`
	TimeoutMs int64    `json:"timeout_ms"`
	MemoryMB  int64    `json:"memory_mb"`
	Seed      int64    `json:"seed"`
}

// Input is one verified input file.
type Input struct {
	Path   string `json:"path"`
	SHA256 string `json:"sha256"`
}

// Document is the full result document, schema_version 0.1.
type Document struct {
	SchemaVersion string     `json:"schema_version"`
	Tool          Tool       `json:"tool"`
	Invocation    Invocation `json:"invocation"`
	Inputs        []Input    `json:"inputs"`
	Status        Status     `json:"status"`
	ExitCode      int        `json:"exit_code"`
	StartedAt     time.Time  `json:"started_at"`
	FinishedAt    time.Time  `json:"finished_at"`
	DurationMs    int64      `json:"duration_ms"`
	Checks        []Check    `json:"checks"`
}

// Summary is the small, stable companion record.
type Summary struct {
	Tool         string `json:"tool"`
	Ran          bool   `json:"ran"`
	Backend      string `json:"backend"`
	Status       string `json:"status"` // ran|failed|unsupported|timeout|out_of_memory|error
	ResultStatus Status `json:"resultStatus"`
	ExitCode     int    `json:"exitCode"`
}

// Aggregate computes the document-level status from its checks under the
// status precedence, returning StatusPass for an empty check list.
func Aggregate(checks []Check) Status {
	worst := StatusPass
	for _, c := range checks {
		if precedence[c.Status] > precedence[worst] {
			worst = c.Status
		}
	}
	return worst
}

// StatusFromOutcome maps a check.Kind to the Status this package uses on
// the wire.
func StatusFromOutcome(k check.Kind) Status {
	switch k {
	case check.Pass:
		return StatusPass
	case check.Fail:
		return StatusFail
	case check.Unsupported:
		return StatusUnsupported
	case check.Timeout:
		return StatusTimeout
	case check.OutOfMemory:
		return StatusOutOfMemory
	default:
		return StatusError
	}
}

// summaryStatus maps a Status to the summary record's distinct string
// vocabulary: "ran" replaces "pass" and "failed" replaces "fail"; the
// remaining statuses keep their result-document spelling.
func summaryStatus(s Status) string {
	switch s {
	case StatusPass:
		return "ran"
	case StatusFail:
		return "failed"
	default:
		return string(s)
	}
}

// NewSummary builds the summary record for a finished document.
func NewSummary(backend string, status Status) Summary {
	return Summary{
		Tool:         "csp",
		Ran:          true,
		Backend:      backend,
		Status:       summaryStatus(status),
		ResultStatus: status,
		ExitCode:     ExitCode(status),
	}
}

// FromCounterexample converts an internal check.Counterexample to its wire
// shape.
func FromCounterexample(c *check.Counterexample) *Counterexample {
	if c == nil {
		return nil
	}
	events := make([]string, 0, len(c.Events))
	for _, e := range c.Events {
		events = append(events, e.String())
	}
	spans := make([]SourceSpan, 0, len(c.SourceSpans))
	for _, s := range c.SourceSpans {
		spans = append(spans, SourceSpan{
			Path: s.Path, StartLine: s.StartLine, StartCol: s.StartCol, EndLine: s.EndLine, EndCol: s.EndCol,
		})
	}
	return &Counterexample{
		Kind:        c.Kind,
		Events:      events,
		Tags:        c.Tags,
		SourceSpans: spans,
		IsMinimized: c.IsMinimized,
	}
}

// FromReason converts an internal check.Reason to its wire shape.
func FromReason(r *check.Reason) *Reason {
	if r == nil {
		return nil
	}
	return &Reason{Kind: ReasonKind(r.Kind), Message: r.Message}
}

// FromStats converts an internal check.Stats to its wire shape.
func FromStats(s check.Stats) Stats {
	return Stats{States: s.States, Transitions: s.Transitions}
}
