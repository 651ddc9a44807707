package explorer_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itdojp/cspx/internal/cspx/explorer"
	"github.com/itdojp/cspx/internal/cspx/ir"
	"github.com/itdojp/cspx/internal/cspx/lts"
	"github.com/itdojp/cspx/internal/cspx/store"
)

func chanDecl(name string) ir.Channel { return ir.Channel{Name: name} }

func prefix(channel string, next ir.ProcExpr) ir.ProcExpr {
	return ir.ProcExpr{Kind: ir.KindPrefix, Event: &ir.EventPattern{Channel: channel}, Next: &next}
}

func ref(name string) ir.ProcExpr { return ir.ProcExpr{Kind: ir.KindRef, Name: name} }

// ringModule builds P = a -> b -> c -> P, a small cyclic LTS with a fixed
// reachable set (3 states, 3 transitions) useful for exercising both
// explorers without relying on a checker finding anything.
func ringModule() *ir.Module {
	return &ir.Module{
		Channels: []ir.Channel{chanDecl("a"), chanDecl("b"), chanDecl("c")},
		Processes: []ir.ProcessDecl{
			{Name: "P", Body: prefix("a", prefix("b", prefix("c", ref("P"))))},
		},
	}
}

func newProvider(t *testing.T, mod *ir.Module) (*lts.Provider, *lts.Term) {
	t.Helper()
	require.NoError(t, ir.Validate(mod))
	p := lts.NewProvider(mod)
	initial, err := p.Initial("P")
	require.NoError(t, err)
	return p, initial
}

func TestRunExploresRing(t *testing.T) {
	mod := ringModule()
	provider, initial := newProvider(t, mod)

	st := store.NewMemoryStore(nil)
	require.NoError(t, st.Open())
	defer st.Close()

	g, outcome, err := explorer.Run(provider, initial, st, explorer.Limits{}, true)
	require.NoError(t, err)
	assert.Equal(t, explorer.Completed, outcome)
	assert.Len(t, g.States, 3)

	total := 0
	for _, edges := range g.Edges {
		total += len(edges)
	}
	assert.Equal(t, 3, total)
}

func TestRunDeterministicAcrossRuns(t *testing.T) {
	mod := ringModule()

	var dequeueOrders [][]string
	for i := 0; i < 3; i++ {
		provider, initial := newProvider(t, mod)
		st := store.NewMemoryStore(nil)
		require.NoError(t, st.Open())

		g, _, err := explorer.Run(provider, initial, st, explorer.Limits{}, false)
		require.NoError(t, err)
		require.NoError(t, st.Close())

		order := make([]string, len(g.States))
		for i, s := range g.States {
			order[i] = string(s.Bytes())
		}
		dequeueOrders = append(dequeueOrders, order)
	}

	for i := 1; i < len(dequeueOrders); i++ {
		assert.Equal(t, dequeueOrders[0], dequeueOrders[i])
	}
}

func TestRunParallelMatchesSerialAcrossWorkerCounts(t *testing.T) {
	mod := ringModule()

	provider, initial := newProvider(t, mod)
	serialStore := store.NewMemoryStore(nil)
	require.NoError(t, serialStore.Open())
	defer serialStore.Close()
	serialGraph, outcome, err := explorer.Run(provider, initial, serialStore, explorer.Limits{}, true)
	require.NoError(t, err)
	require.Equal(t, explorer.Completed, outcome)

	for _, workers := range []int{1, 2, 4, 8} {
		provider, initial := newProvider(t, mod)
		st := store.NewMemoryStore(nil)
		require.NoError(t, st.Open())

		g, outcome, err := explorer.RunParallel(provider, initial, st, explorer.Limits{}, workers)
		require.NoError(t, err)
		require.Equal(t, explorer.Completed, outcome)
		require.NoError(t, st.Close())

		assert.Equalf(t, len(serialGraph.States), len(g.States), "workers=%d", workers)

		serialTotal, parallelTotal := 0, 0
		for _, e := range serialGraph.Edges {
			serialTotal += len(e)
		}
		for _, e := range g.Edges {
			parallelTotal += len(e)
		}
		assert.Equalf(t, serialTotal, parallelTotal, "workers=%d", workers)

		for i := range serialGraph.States {
			assert.Equalf(t, serialGraph.States[i].Bytes(), g.States[i].Bytes(), "workers=%d state=%d", workers, i)
		}
	}
}

// interleaveModule builds P = (a -> STOP) ||| (b -> STOP): a diamond whose
// middle BFS level holds two states, so node numbering actually depends on
// the level ordering discipline rather than collapsing to one state per
// level the way ringModule does.
func interleaveModule() *ir.Module {
	left := prefix("a", ir.ProcExpr{Kind: ir.KindStop})
	right := prefix("b", ir.ProcExpr{Kind: ir.KindStop})
	return &ir.Module{
		Channels: []ir.Channel{chanDecl("a"), chanDecl("b")},
		Processes: []ir.ProcessDecl{
			{Name: "P", Body: ir.ProcExpr{Kind: ir.KindInterleave, Left: &left, Right: &right}},
		},
	}
}

func TestRunParallelMatchesSerialOnBranchingModel(t *testing.T) {
	mod := interleaveModule()

	provider, initial := newProvider(t, mod)
	serialStore := store.NewMemoryStore(nil)
	require.NoError(t, serialStore.Open())
	defer serialStore.Close()
	serialGraph, outcome, err := explorer.Run(provider, initial, serialStore, explorer.Limits{}, true)
	require.NoError(t, err)
	require.Equal(t, explorer.Completed, outcome)
	require.Len(t, serialGraph.States, 4)

	for _, workers := range []int{1, 3} {
		provider, initial := newProvider(t, mod)
		st := store.NewMemoryStore(nil)
		require.NoError(t, st.Open())

		g, outcome, err := explorer.RunParallel(provider, initial, st, explorer.Limits{}, workers)
		require.NoError(t, err)
		require.Equal(t, explorer.Completed, outcome)
		require.NoError(t, st.Close())

		require.Lenf(t, g.States, len(serialGraph.States), "workers=%d", workers)
		for i := range serialGraph.States {
			assert.Equalf(t, serialGraph.States[i].Bytes(), g.States[i].Bytes(), "workers=%d state=%d", workers, i)
		}
		for i := range serialGraph.Edges {
			assert.Equalf(t, serialGraph.Edges[i], g.Edges[i], "workers=%d node=%d", workers, i)
		}
	}
}

func TestRunTimeoutOutcome(t *testing.T) {
	mod := ringModule()
	provider, initial := newProvider(t, mod)

	st := store.NewMemoryStore(nil)
	require.NoError(t, st.Open())
	defer st.Close()

	g, outcome, err := explorer.Run(provider, initial, st, explorer.Limits{Deadline: time.Now().Add(-time.Minute)}, true)
	require.NoError(t, err)
	assert.Equal(t, explorer.Timeout, outcome)
	assert.NotNil(t, g)
}
