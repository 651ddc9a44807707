// Package output provides output formatting utilities for cspx's CLI
// commands: JSON/YAML document rendering plus an optional human-readable
// table for the result summary.
package output

import (
	"fmt"
	"strings"
)

// Format represents the output format type.
type Format string

const (
	// FormatJSON outputs the result document as JSON (the default: this
	// is what an external CI orchestrator consumes).
	FormatJSON Format = "json"
	// FormatTable outputs a compact human-readable summary table.
	FormatTable Format = "table"
)

// ParseFormat parses a string into a Format, returning an error if invalid.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json", "":
		return FormatJSON, nil
	case "table":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("invalid output format: %q (valid: json, table)", s)
	}
}

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}
