package check

import (
	"sort"

	"github.com/itdojp/cspx/internal/cspx/explorer"
	"github.com/itdojp/cspx/internal/cspx/lts"
)

// Determinism checks that, for every reachable τ-closure and every
// visible label a, the set of τ-closures reachable by exactly one a-step
// must have cardinality ≤ 1. Closures are visited in node-index order
// (BFS-discovery order) and, within a closure, labels in their declared
// total order, so the first violation found is always the same one for a
// fixed graph.
func Determinism(g *explorer.Graph, stats Stats) Outcome {
	t := buildClosureTable(g)
	seenClosure := make(map[int]bool)

	for v := 0; v < len(g.States); v++ {
		id := t.ClosureOf(v)
		if seenClosure[id] {
			continue
		}
		seenClosure[id] = true

		members := t.Members(id)
		succ := visibleSuccessors(g, t, members)

		labels := make([]lts.Label, 0, len(succ))
		for l := range succ {
			labels = append(labels, l)
		}
		sort.Slice(labels, func(i, j int) bool { return labels[i].Compare(labels[j]) < 0 })

		for _, l := range labels {
			dests := succ[l]
			if len(dests) <= 1 {
				continue
			}
			// Branch point reached: trace to the smallest member of this
			// closure (a deterministic, arbitrary-but-fixed representative).
			branchNode := members[0]
			events := visibleTrace(g, branchNode)
			events = append(events, l)
			return Outcome{
				Kind:  Fail,
				Stats: stats,
				Counterexample: &Counterexample{
					Kind:        "trace",
					Events:      events,
					Tags:        dedupStrings([]string{"nondeterminism"}),
					SourceSpans: spansAt(g, branchNode),
				},
			}
		}
	}
	return Outcome{Kind: Pass, Stats: stats}
}
