package check

import (
	"github.com/itdojp/cspx/internal/cspx/explorer"
)

// Deadlock reports a state as deadlocked iff it has no
// outgoing transitions at all (no τ, no visible). g must have been built
// with an Arena so a witness can be traced back to the root.
func Deadlock(g *explorer.Graph, stats Stats) Outcome {
	for i, edges := range g.Edges {
		if len(edges) > 0 {
			continue
		}
		return Outcome{
			Kind:  Fail,
			Stats: stats,
			Counterexample: &Counterexample{
				Kind:        "trace",
				Events:      visibleTrace(g, i),
				Tags:        dedupStrings([]string{"deadlock", "kind:deadlock"}),
				SourceSpans: spansAt(g, i),
			},
		}
	}
	return Outcome{Kind: Pass, Stats: stats}
}
