package explorer

import (
	"sync"

	"github.com/itdojp/cspx/internal/cspx/arena"
	"github.com/itdojp/cspx/internal/cspx/lts"
	"github.com/itdojp/cspx/internal/cspx/queue"
	"github.com/itdojp/cspx/internal/cspx/store"
)

// RunParallel performs a level-synchronous breadth-first exploration with a
// fixed pool of workers: every state in the current frontier is expanded
// concurrently, but the next frontier is only assembled once every worker
// has finished the current level, via the same mergeLevel step the serial
// explorer uses. The current level is always already in ascending
// canonical-byte order (mergeLevel emits it that way), so whichever worker
// happens to claim a given state, the level's expansion results land in
// edgesOf at that state's fixed level position; the merge never sees
// goroutine scheduling, only (level, edgesOf).
//
// Workers only compute transitions; they never touch the shared store or
// the graph. The single serial merge step after the level barrier is the
// only writer, so the graph, statistics and arena are byte-identical
// regardless of the worker count, including to a serial Run of the same
// initial state.
func RunParallel(provider *lts.Provider, initial *lts.Term, st store.Store, limits Limits, workers int) (*Graph, Outcome, error) {
	if workers < 1 {
		workers = 1
	}
	g := newGraph()
	g.Arena = arena.New()

	initialState := lts.NewState(initial)
	if _, err := st.Insert(initialState); err != nil {
		return nil, Completed, err
	}
	g.addState(initialState)
	g.Arena.AddRoot(initialState)

	c := newChecker(limits)
	level := []int{0}

	for len(level) > 0 {
		if outcome := c.poll(); outcome != Completed {
			return g, outcome, nil
		}

		edgesOf := make([][]pendingEdge, len(level))
		errs := make([]error, len(level))

		positions := make([]int, len(level))
		for i := range positions {
			positions[i] = i
		}
		frontier := queue.NewFrontier(positions)

		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for {
					pos, ok := frontier.Next()
					if !ok {
						return
					}
					idx := level[pos]
					transitions, err := provider.Transitions(g.States[idx].Term())
					if err != nil {
						errs[pos] = err
						return
					}
					edges := make([]pendingEdge, len(transitions))
					for i, tr := range transitions {
						edges[i] = pendingEdge{label: tr.Label, next: lts.NewState(tr.Next)}
					}
					edgesOf[pos] = edges
				}
			}()
		}
		wg.Wait()

		for _, err := range errs {
			if err != nil {
				return nil, Completed, err
			}
		}

		next, err := mergeLevel(g, st, level, edgesOf, true)
		if err != nil {
			return nil, Completed, err
		}
		level = next
	}

	if outcome := c.sample(); outcome != Completed {
		return g, outcome, nil
	}
	return g, Completed, nil
}
