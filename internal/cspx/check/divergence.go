package check

import (
	"github.com/itdojp/cspx/internal/cspx/explorer"
)

// Divergence reports a τ-cycle reachable from the initial
// state. firstDivergentNode already returns the smallest (hence
// BFS-earliest) offending node index, so the counterexample is
// deterministic across repeated runs.
func Divergence(g *explorer.Graph, stats Stats) Outcome {
	v, ok := firstDivergentNode(g)
	if !ok {
		return Outcome{Kind: Pass, Stats: stats}
	}
	return Outcome{
		Kind:  Fail,
		Stats: stats,
		Counterexample: &Counterexample{
			Kind:        "trace",
			Events:      visibleTrace(g, v),
			Tags:        dedupStrings([]string{"divergence", "kind:divergence"}),
			SourceSpans: spansAt(g, v),
		},
	}
}
