package check_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itdojp/cspx/internal/cspx/check"
	"github.com/itdojp/cspx/internal/cspx/ir"
	"github.com/itdojp/cspx/internal/cspx/lts"
)

// TestRefinementTraceMismatch: spec = a -> STOP, impl = a -> b
// -> STOP, model T.
func TestRefinementTraceMismatch(t *testing.T) {
	spec := newGraphBuilder("Spec")
	spec.addNode(0, label("a"), "SpecSTOP")

	impl := newGraphBuilder("Impl")
	mid := impl.addNode(0, label("a"), "ImplMid")
	impl.addNode(mid, label("b"), "ImplSTOP")

	out := check.Refinement(spec.graph(), impl.graph(), ir.ModelT)

	require.Equal(t, check.Fail, out.Kind)
	require.NotNil(t, out.Counterexample)
	assert.Equal(t, []lts.Label{label("a"), label("b")}, out.Counterexample.Events)
	assert.Contains(t, out.Counterexample.Tags, "refinement")
	assert.Contains(t, out.Counterexample.Tags, "model:T")
	assert.Contains(t, out.Counterexample.Tags, "trace_mismatch")
	assert.Contains(t, out.Counterexample.Tags, "label:b")
}

// TestRefinementTracePasses: spec and impl offer the identical single
// trace.
func TestRefinementTracePasses(t *testing.T) {
	spec := newGraphBuilder("Spec")
	spec.addNode(0, label("a"), "SpecSTOP")

	impl := newGraphBuilder("Impl")
	impl.addNode(0, label("a"), "ImplSTOP")

	out := check.Refinement(spec.graph(), impl.graph(), ir.ModelT)

	assert.Equal(t, check.Pass, out.Kind)
}

// TestRefinementFDDivergenceMismatch: spec = STOP, impl = (a ->
// impl) \ {|a|}, model FD.
func TestRefinementFDDivergenceMismatch(t *testing.T) {
	spec := newGraphBuilder("Spec") // STOP: no outgoing edges at all.

	impl := newGraphBuilder("Impl")
	impl.addEdge(0, lts.Label{}, 0) // tau self-loop: diverges immediately.

	out := check.Refinement(spec.graph(), impl.graph(), ir.ModelFD)

	require.Equal(t, check.Fail, out.Kind)
	require.NotNil(t, out.Counterexample)
	assert.Equal(t, []lts.Label{{}}, out.Counterexample.Events) // trailing tau only
	assert.Contains(t, out.Counterexample.Tags, "model:FD")
	assert.Contains(t, out.Counterexample.Tags, "divergence_mismatch")
}

// TestRefinementRefusalMismatch mirrors the F-level refusal rule: impl
// refuses "b" in a stable state where spec requires it to be offered.
func TestRefinementRefusalMismatch(t *testing.T) {
	spec := newGraphBuilder("Spec")
	spec.addNode(0, label("b"), "SpecSTOP")

	impl := newGraphBuilder("Impl") // stable, offers nothing: refuses everything spec offers.

	out := check.Refinement(spec.graph(), impl.graph(), ir.ModelF)

	require.Equal(t, check.Fail, out.Kind)
	assert.Contains(t, out.Counterexample.Tags, "refusal_mismatch")
	assert.Contains(t, out.Counterexample.Tags, "refuse:b")
}
