package check

import (
	"github.com/itdojp/cspx/internal/cspx/explorer"
	"github.com/itdojp/cspx/internal/cspx/ir"
	"github.com/itdojp/cspx/internal/cspx/lts"
)

// jointState is one node of the joint BFS over spec and impl: a concrete
// impl state paired with the set ("closure") of spec states reachable by
// the visible trace consumed so far. The impl side is a raw state (tau
// transitions are followed one at a time, each producing a new jointState
// with the spec closure unchanged) while the spec side is already closed
// under τ, since spec's internal choices never need to be resolved until
// a visible event picks one branch.
type jointState struct {
	implNode    int
	specClosure int
}

// Refinement implements the T, F and FD refinement models. specGraph
// and implGraph must already be fully explored (explorer.Run); implGraph
// must carry an Arena since the counterexample trace is always expressed
// in terms of impl's path.
func Refinement(specGraph, implGraph *explorer.Graph, model ir.Model) Outcome {
	specTable := buildClosureTable(specGraph)
	var specDivergent map[int]bool
	var implDivergent map[int]bool
	if model == ir.ModelFD {
		specDivergent = divergentNodes(specGraph)
		implDivergent = divergentNodes(implGraph)
	}

	initial := jointState{implNode: 0, specClosure: specTable.ClosureOf(0)}
	visited := map[jointState]bool{initial: true}
	queue := []jointState{initial}

	stats := Stats{}

	// succCache memoises visibleSuccessors per spec closure id: a closure
	// can be revisited from many different impl nodes, and recomputing its
	// outgoing labels every time would be wasted work on anything but a
	// toy model.
	succCache := make(map[int]map[lts.Label]map[int]bool)
	successorsOf := func(closureID int) map[lts.Label]map[int]bool {
		if m, ok := succCache[closureID]; ok {
			return m
		}
		m := visibleSuccessors(specGraph, specTable, specTable.Members(closureID))
		succCache[closureID] = m
		return m
	}

	for len(queue) > 0 {
		js := queue[0]
		queue = queue[1:]
		stats.States++

		if model == ir.ModelFD && implDivergent[js.implNode] {
			if specTable.IsChaotic(js.specClosure, specDivergent) {
				// Spec already accepts chaos after this trace: every
				// continuation is accepted, so no further trace/refusal
				// checks run from this joint state.
				continue
			}
			events := visibleTrace(implGraph, js.implNode)
			events = append(events, lts.Label{}) // trailing tau marks an FD divergence witness
			return Outcome{
				Kind:  Fail,
				Stats: stats,
				Counterexample: &Counterexample{
					Kind:        "trace",
					Events:      events,
					Tags:        dedupStrings([]string{"refinement", "model:FD", "divergence_mismatch"}),
					SourceSpans: jointSpans(specGraph, implGraph, specTable, js),
				},
			}
		}

		if (model == ir.ModelF || model == ir.ModelFD) && isStable(implGraph, js.implNode) {
			if outcome, failed := checkRefusal(specGraph, implGraph, specTable, js, model, stats); failed {
				return outcome
			}
		}

		for _, e := range implGraph.Edges[js.implNode] {
			stats.Transitions++
			if e.Label.IsTau() {
				next := jointState{implNode: e.To, specClosure: js.specClosure}
				if !visited[next] {
					visited[next] = true
					queue = append(queue, next)
				}
				continue
			}

			dests, offered := successorsOf(js.specClosure)[e.Label]
			if !offered || len(dests) == 0 {
				events := visibleTrace(implGraph, js.implNode)
				events = append(events, e.Label)
				return Outcome{
					Kind:  Fail,
					Stats: stats,
					Counterexample: &Counterexample{
						Kind:   "trace",
						Events: events,
						Tags: dedupStrings([]string{
							"refinement", "model:" + model.String(), "trace_mismatch", "label:" + e.Label.String(),
						}),
						SourceSpans: jointSpans(specGraph, implGraph, specTable, js),
					},
				}
			}

			nextClosure := specTable.InternMembers(unionMembers(specTable, dests))
			next := jointState{implNode: e.To, specClosure: nextClosure}
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}

	return Outcome{Kind: Pass, Stats: stats}
}

// checkRefusal checks that, at a stable impl state, its refusal set
// (complement of its ready set) must be realised by at least one stable
// spec state reachable in the current closure.
func checkRefusal(specGraph, implGraph *explorer.Graph, specTable *closureTable, js jointState, model ir.Model, stats Stats) (Outcome, bool) {
	implReady := readySet(implGraph, js.implNode)
	implReadySet := make(map[lts.Label]bool, len(implReady))
	for _, l := range implReady {
		implReadySet[l] = true
	}

	var stableMembers []int
	for _, m := range specTable.Members(js.specClosure) {
		if isStable(specGraph, m) {
			stableMembers = append(stableMembers, m)
		}
	}

	for _, m := range stableMembers {
		specReady := readySet(specGraph, m)
		if isSubset(specReady, implReadySet) {
			return Outcome{}, false
		}
	}

	// No stable spec state realises impl's refusal: pick the smallest
	// (first, deterministic) stable member as the representative witness,
	// or fall back to impl's own ready set when the closure has no stable
	// member at all to compare against.
	var refused []lts.Label
	if len(stableMembers) > 0 {
		specReady := readySet(specGraph, stableMembers[0])
		refused = setMinus(specReady, implReadySet)
	} else {
		refused = implReady
	}

	tags := []string{"refinement", "model:" + model.String(), "refusal_mismatch"}
	for _, l := range refused {
		tags = append(tags, "refuse:"+l.String())
	}

	return Outcome{
		Kind:  Fail,
		Stats: stats,
		Counterexample: &Counterexample{
			Kind:        "trace",
			Events:      visibleTrace(implGraph, js.implNode),
			Tags:        dedupStrings(tags),
			SourceSpans: jointSpans(specGraph, implGraph, specTable, js),
		},
	}, true
}

// jointSpans collects the impl-side span of the failing joint state plus a
// spec-side span from the current closure's representative member,
// deduplicated, so a refinement counterexample points at both processes.
func jointSpans(specGraph, implGraph *explorer.Graph, specTable *closureTable, js jointState) []SourceSpan {
	spans := spansAt(implGraph, js.implNode)
	if members := specTable.Members(js.specClosure); len(members) > 0 {
		spans = append(spans, spansAt(specGraph, members[0])...)
	}
	return dedupSpans(spans)
}

func isSubset(a []lts.Label, bSet map[lts.Label]bool) bool {
	for _, l := range a {
		if !bSet[l] {
			return false
		}
	}
	return true
}

func setMinus(a []lts.Label, bSet map[lts.Label]bool) []lts.Label {
	var out []lts.Label
	for _, l := range a {
		if !bSet[l] {
			out = append(out, l)
		}
	}
	return out
}
