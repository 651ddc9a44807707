package explorer

import (
	"github.com/itdojp/cspx/internal/cspx/arena"
	"github.com/itdojp/cspx/internal/cspx/lts"
	"github.com/itdojp/cspx/internal/cspx/queue"
	"github.com/itdojp/cspx/internal/cspx/store"
)

// Run performs a single-threaded breadth-first exploration of initial over
// provider, recording every visited state (deduplicated via st) and every
// outgoing transition into the returned Graph. keepArena controls whether
// back-pointers are recorded for counterexample reconstruction; checks
// that never need a trace (e.g. counting reachable states) can skip it.
//
// The search is level-synchronous: each drained queue level is expanded in
// full, then folded into the graph by the same mergeLevel step RunParallel
// uses, so newly discovered states always enter the graph (and the next
// level) in ascending canonical-byte order. The dequeue sequence is a
// function of the initial state and the provider alone: the same sequence
// RunParallel produces at any worker count, and independent of the store
// backend.
func Run(provider *lts.Provider, initial *lts.Term, st store.Store, limits Limits, keepArena bool) (*Graph, Outcome, error) {
	g := newGraph()
	if keepArena {
		g.Arena = arena.New()
	}

	initialState := lts.NewState(initial)
	if _, err := st.Insert(initialState); err != nil {
		return nil, Completed, err
	}
	g.addState(initialState)
	if keepArena {
		g.Arena.AddRoot(initialState)
	}

	q := queue.NewFIFO[int]() // node indices awaiting expansion
	q.Push(0)

	c := newChecker(limits)

	for !q.Empty() {
		level := q.DrainLevel()
		edgesOf := make([][]pendingEdge, len(level))
		for pos, idx := range level {
			if outcome := c.poll(); outcome != Completed {
				return g, outcome, nil
			}
			transitions, err := provider.Transitions(g.States[idx].Term())
			if err != nil {
				return nil, Completed, err
			}
			edges := make([]pendingEdge, len(transitions))
			for i, tr := range transitions {
				edges[i] = pendingEdge{label: tr.Label, next: lts.NewState(tr.Next)}
			}
			edgesOf[pos] = edges
		}

		next, err := mergeLevel(g, st, level, edgesOf, keepArena)
		if err != nil {
			return nil, Completed, err
		}
		for _, idx := range next {
			q.Push(idx)
		}
	}

	if outcome := c.sample(); outcome != Completed {
		return g, outcome, nil
	}
	return g, Completed, nil
}
