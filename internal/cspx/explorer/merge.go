package explorer

import (
	"sort"

	"github.com/itdojp/cspx/internal/cspx/arena"
	"github.com/itdojp/cspx/internal/cspx/lts"
	"github.com/itdojp/cspx/internal/cspx/store"
)

// pendingEdge is a transition discovered mid-level, before the next
// frontier's states have been assigned final graph indices.
type pendingEdge struct {
	label lts.Label
	next  lts.State
}

// mergeLevel folds one fully-expanded BFS level into the graph: it inserts
// every candidate next-state into the store in concatenation order (the
// level's own order, then each parent's transitions in the order
// Provider.Transitions returned them), assigns graph indices to the newly
// discovered states in ascending canonical-byte order, records the
// first-seen (parent, label) back-pointer for each, and finally resolves
// each parent's edge list against the now-complete index map.
//
// Both explorers run their levels through this single function, which is
// why a serial run and a parallel run at any worker count produce
// byte-identical graphs: the only inputs here are (level, edgesOf), and
// both explorers construct those identically for a given provider and
// initial state.
func mergeLevel(g *Graph, st store.Store, level []int, edgesOf [][]pendingEdge, keepArena bool) ([]int, error) {
	type origin struct {
		parent int
		label  lts.Label
	}
	originOf := make(map[string]origin)
	var newStates []lts.State
	for pos, parentIdx := range level {
		for _, e := range edgesOf[pos] {
			// The store is the persistence layer, not the per-run visited
			// set: a disk store reopened over an earlier run's log already
			// contains states this run has not explored yet, and those must
			// still be expanded. Newness within this run is the graph's
			// call; every reached state is recorded to the store either way.
			if _, err := st.Insert(e.next); err != nil {
				return nil, err
			}
			if g.NodeOf(e.next) != -1 {
				continue
			}
			key := string(e.next.Bytes())
			if _, seen := originOf[key]; seen {
				continue
			}
			originOf[key] = origin{parent: parentIdx, label: e.label}
			newStates = append(newStates, e.next)
		}
	}

	sort.Slice(newStates, func(i, j int) bool { return newStates[i].Less(newStates[j]) })
	next := make([]int, 0, len(newStates))
	for _, s := range newStates {
		idx := g.addState(s)
		if keepArena {
			o := originOf[string(s.Bytes())]
			g.Arena.Add(arena.ID(o.parent), o.label, s)
		}
		next = append(next, idx)
	}

	// Edge lists keep the provider's declared transition order (label,
	// then next-state bytes); only the To indices needed the merge above
	// to become resolvable.
	for pos, parentIdx := range level {
		edges := make([]Edge, len(edgesOf[pos]))
		for j, e := range edgesOf[pos] {
			edges[j] = Edge{Label: e.label, To: g.NodeOf(e.next)}
		}
		g.Edges[parentIdx] = edges
	}
	return next, nil
}
