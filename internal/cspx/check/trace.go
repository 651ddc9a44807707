package check

import (
	"github.com/itdojp/cspx/internal/cspx/explorer"
	"github.com/itdojp/cspx/internal/cspx/lts"
)

// spansAt resolves each node's term back to the span of the IR node it
// originated from (the innermost expression whose state is the failure's
// proximate cause), skipping terms built without one. The explainer keeps
// these when present and only falls back to the coarser process
// declaration span when a checker could not produce any.
func spansAt(g *explorer.Graph, nodes ...int) []SourceSpan {
	var out []SourceSpan
	for _, n := range nodes {
		sp := g.States[n].Term().Span()
		if sp.IsZero() {
			continue
		}
		out = append(out, SourceSpan{
			Path:      sp.Path,
			StartLine: sp.StartLine,
			StartCol:  sp.StartCol,
			EndLine:   sp.EndLine,
			EndCol:    sp.EndCol,
		})
	}
	return dedupSpans(out)
}

func dedupSpans(spans []SourceSpan) []SourceSpan {
	if len(spans) == 0 {
		return nil
	}
	seen := make(map[SourceSpan]bool, len(spans))
	out := make([]SourceSpan, 0, len(spans))
	for _, s := range spans {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// visibleTrace returns the visible-only projection of the path from the
// root to graph node index, the same shape used for deadlock
// counterexamples and every other checker reuses for its own. It is
// insensitive to whether g was built by the single-threaded or the
// parallel explorer: both populate g.Arena with a back-pointer for every
// node, keyed by the node's own state rather than by index.
func visibleTrace(g *explorer.Graph, node int) []lts.Label {
	id, ok := g.Arena.IDOf(g.States[node])
	if !ok {
		return nil
	}
	steps := g.Arena.TraceTo(id)
	out := make([]lts.Label, 0, len(steps))
	for _, s := range steps {
		if !s.Label.IsTau() {
			out = append(out, s.Label)
		}
	}
	return out
}
