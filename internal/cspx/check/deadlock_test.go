package check_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itdojp/cspx/internal/cspx/check"
	"github.com/itdojp/cspx/internal/cspx/lts"
)

// P = a -> STOP deadlocks after one event.
func TestDeadlockMinimal(t *testing.T) {
	b := newGraphBuilder("P")
	b.addNode(0, label("a"), "STOP")

	out := check.Deadlock(b.graph(), check.Stats{States: 2, Transitions: 1})

	require.Equal(t, check.Fail, out.Kind)
	require.NotNil(t, out.Counterexample)
	assert.Equal(t, []lts.Label{label("a")}, out.Counterexample.Events)
	assert.Contains(t, out.Counterexample.Tags, "deadlock")
	assert.Contains(t, out.Counterexample.Tags, "kind:deadlock")
}

// P = a -> P has no dead end.
func TestDeadlockFreeRendezvous(t *testing.T) {
	b := newGraphBuilder("P")
	b.addEdge(0, label("a"), 0)

	out := check.Deadlock(b.graph(), check.Stats{States: 1, Transitions: 1})

	assert.Equal(t, check.Pass, out.Kind)
	assert.Nil(t, out.Counterexample)
}
