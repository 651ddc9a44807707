// Package minimize implements the counterexample minimizer: a
// one-pass greedy single-event deletion pass, followed by a verification
// re-pass that sets IsMinimized only when no further single deletion would
// preserve the failure.
package minimize

import (
	"github.com/itdojp/cspx/internal/cspx/check"
	"github.com/itdojp/cspx/internal/cspx/lts"
)

// Oracle reports whether the given event sequence still reproduces the
// failure that produced the original counterexample. Minimize is ignorant
// of which of the four checkers produced that failure; the caller closes
// over whatever re-run logic (rebuilding the relevant sub-graph, re-driving
// the joint BFS, etc.) answers that question.
type Oracle func(events []lts.Label) bool

// Minimize runs the greedy one-event-deletion pass over c.Events using
// oracle. Kind, Tags and SourceSpans are copied from c unchanged;
// only Events and IsMinimized can differ in the result.
func Minimize(c *check.Counterexample, oracle Oracle) *check.Counterexample {
	events := append([]lts.Label(nil), c.Events...)

	i := 0
	for i < len(events) {
		candidate := without(events, i)
		if oracle(candidate) {
			events = candidate
			continue // re-examine the same index against the shortened slice
		}
		i++
	}

	verified := oracle(events) && noSingleDeletionPreserves(events, oracle)

	return &check.Counterexample{
		Kind:        c.Kind,
		Events:      events,
		Tags:        append([]string(nil), c.Tags...),
		SourceSpans: append([]check.SourceSpan(nil), c.SourceSpans...),
		IsMinimized: verified,
	}
}

func noSingleDeletionPreserves(events []lts.Label, oracle Oracle) bool {
	for i := range events {
		if oracle(without(events, i)) {
			return false
		}
	}
	return true
}

func without(events []lts.Label, i int) []lts.Label {
	out := make([]lts.Label, 0, len(events)-1)
	out = append(out, events[:i]...)
	out = append(out, events[i+1:]...)
	return out
}
