package check

import (
	"sort"

	"github.com/itdojp/cspx/internal/cspx/explorer"
	"github.com/itdojp/cspx/internal/cspx/ir"
	"github.com/itdojp/cspx/internal/cspx/lts"
)

// This file builds the minimize.Oracle closures the minimizer needs:
// functions that decide whether a candidate event sequence still
// reproduces the failure a checker originally found, without re-running
// BFS exploration. Each oracle replays the candidate trace against the
// already-built graph(s), following every visible label across its
// τ-closure exactly as the checker that produced the original
// counterexample would, then re-tests that checker's own failure
// condition at the resulting frontier. Because deadlock, divergence,
// determinism and refinement are all properties of a set of reachable
// configurations rather than of one linear run, tracking a frontier (a
// set of nodes) rather than a single node is what makes replay faithful
// to the checker it mirrors, not an approximation of it.

// closureSet returns the τ-closure of the union of start, as a sorted,
// deduplicated slice of node indices.
func closureSet(g *explorer.Graph, start []int) []int {
	visited := make(map[int]bool, len(start))
	queue := append([]int(nil), start...)
	for _, v := range queue {
		visited[v] = true
	}
	for i := 0; i < len(queue); i++ {
		v := queue[i]
		for _, e := range g.Edges[v] {
			if e.Label.IsTau() && !visited[e.To] {
				visited[e.To] = true
				queue = append(queue, e.To)
			}
		}
	}
	out := make([]int, 0, len(visited))
	for v := range visited {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// walk advances frontier (already τ-closed) by one visible label: it
// collects every distinct destination reachable by that label from any
// member, then τ-closes the result. ok is false if no member offers
// label.
func walk(g *explorer.Graph, frontier []int, label lts.Label) (next []int, ok bool) {
	seen := make(map[int]bool)
	var dests []int
	for _, v := range frontier {
		for _, e := range g.Edges[v] {
			if e.Label == label && !seen[e.To] {
				seen[e.To] = true
				dests = append(dests, e.To)
			}
		}
	}
	if len(dests) == 0 {
		return nil, false
	}
	return closureSet(g, dests), true
}

// replayVisible walks frontier across every label in events in order,
// returning the final closed frontier, or ok=false if some label along
// the way is not offered.
func replayVisible(g *explorer.Graph, events []lts.Label) (frontier []int, ok bool) {
	frontier = closureSet(g, []int{0})
	for _, e := range events {
		frontier, ok = walk(g, frontier, e)
		if !ok {
			return nil, false
		}
	}
	return frontier, true
}

// DeadlockOracle returns a minimize.Oracle-shaped function for a deadlock
// counterexample against g: it holds iff replaying events from the root
// reaches a state with no outgoing transitions at all.
func DeadlockOracle(g *explorer.Graph) func(events []lts.Label) bool {
	return func(events []lts.Label) bool {
		frontier, ok := replayVisible(g, events)
		if !ok {
			return false
		}
		for _, v := range frontier {
			if len(g.Edges[v]) == 0 {
				return true
			}
		}
		return false
	}
}

// DivergenceOracle returns a minimize.Oracle-shaped function for a
// divergence counterexample: it holds iff replaying events reaches a
// frontier member belonging to a τ-cycle.
func DivergenceOracle(g *explorer.Graph) func(events []lts.Label) bool {
	divergent := divergentNodes(g)
	return func(events []lts.Label) bool {
		frontier, ok := replayVisible(g, events)
		if !ok {
			return false
		}
		for _, v := range frontier {
			if divergent[v] {
				return true
			}
		}
		return false
	}
}

// DeterminismOracle returns a minimize.Oracle-shaped function for a
// nondeterminism counterexample: events is the branch-point trace with the
// branching label as its final element;
// it holds iff, after replaying the trace proper, the branch label still
// reaches more than one distinct destination closure.
func DeterminismOracle(g *explorer.Graph) func(events []lts.Label) bool {
	t := buildClosureTable(g)
	return func(events []lts.Label) bool {
		if len(events) == 0 {
			return false
		}
		trace, branch := events[:len(events)-1], events[len(events)-1]
		frontier, ok := replayVisible(g, trace)
		if !ok {
			return false
		}
		succ := visibleSuccessors(g, t, frontier)
		return len(succ[branch]) > 1
	}
}

// RefinementOracle returns a minimize.Oracle-shaped function for a T/F/FD
// refinement counterexample between specGraph and implGraph. It mirrors
// Refinement's own joint walk: a single interned spec closure (which
// depends only on the trace consumed, never on which impl node produced
// it) paired with the full τ-closed set of impl nodes reachable by that
// same trace.
//
// A trailing Tau in events (trace plus one τ) signals an FD
// divergence-mismatch witness: the oracle holds iff some impl frontier
// member can diverge while the accumulated spec closure is not already
// chaotic.
func RefinementOracle(specGraph, implGraph *explorer.Graph, model ir.Model) func(events []lts.Label) bool {
	specTable := buildClosureTable(specGraph)
	var specDivergent, implDivergent map[int]bool
	if model == ir.ModelFD {
		specDivergent = divergentNodes(specGraph)
		implDivergent = divergentNodes(implGraph)
	}

	succCache := make(map[int]map[lts.Label]map[int]bool)
	successorsOf := func(id int) map[lts.Label]map[int]bool {
		if m, ok := succCache[id]; ok {
			return m
		}
		m := visibleSuccessors(specGraph, specTable, specTable.Members(id))
		succCache[id] = m
		return m
	}

	return func(events []lts.Label) bool {
		trailingTau := len(events) > 0 && events[len(events)-1].IsTau()
		trace := events
		if trailingTau {
			trace = events[:len(events)-1]
		}

		implFrontier := closureSet(implGraph, []int{0})
		specClosure := specTable.ClosureOf(0)

		for _, e := range trace {
			nextImpl, ok := walk(implGraph, implFrontier, e)
			if !ok {
				return false
			}
			implFrontier = nextImpl

			dests, offered := successorsOf(specClosure)[e]
			if !offered || len(dests) == 0 {
				// Spec cannot offer this event either: a trace_mismatch
				// still holds at this (possibly shortened) trace, which is
				// exactly the failure category T/F/FD all share.
				return !trailingTau
			}
			specClosure = specTable.InternMembers(unionMembers(specTable, dests))
		}

		if trailingTau {
			if specTable.IsChaotic(specClosure, specDivergent) {
				return false
			}
			for _, v := range implFrontier {
				if implDivergent[v] {
					return true
				}
			}
			return false
		}

		if model == ir.ModelF || model == ir.ModelFD {
			for _, v := range implFrontier {
				if !isStable(implGraph, v) {
					continue
				}
				if refusalMismatch(specGraph, specTable, specClosure, implGraph, v) {
					return true
				}
			}
		}
		return false
	}
}

// refusalMismatch reports whether implGraph node implNode's refusal set
// (at a stable state) is not realised by any stable member of specClosure,
// i.e. the refusal-mismatch condition.
func refusalMismatch(specGraph *explorer.Graph, specTable *closureTable, specClosure int, implGraph *explorer.Graph, implNode int) bool {
	implReady := readySet(implGraph, implNode)
	implReadySet := make(map[lts.Label]bool, len(implReady))
	for _, l := range implReady {
		implReadySet[l] = true
	}
	for _, m := range specTable.Members(specClosure) {
		if !isStable(specGraph, m) {
			continue
		}
		if isSubset(readySet(specGraph, m), implReadySet) {
			return false
		}
	}
	return true
}
