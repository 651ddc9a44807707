package arena

import (
	"testing"

	"github.com/itdojp/cspx/internal/cspx/ir"
	"github.com/itdojp/cspx/internal/cspx/lts"
)

func term(kind ir.ProcKind, name string) lts.State {
	return lts.NewState(&lts.Term{Kind: kind, Name: name})
}

func TestTraceToReconstructsPathInOrder(t *testing.T) {
	a := New()
	root := a.AddRoot(term(ir.KindRef, "root"))
	mid := a.Add(root, lts.Label{Channel: "a"}, term(ir.KindRef, "mid"))
	leaf := a.Add(mid, lts.Label{Channel: "b"}, term(ir.KindRef, "leaf"))

	steps := a.TraceTo(leaf)
	if len(steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(steps))
	}
	if steps[0].Label.Channel != "a" || steps[1].Label.Channel != "b" {
		t.Fatalf("expected steps [a, b], got [%v, %v]", steps[0].Label, steps[1].Label)
	}
	if !steps[1].State.Equal(a.State(leaf)) {
		t.Fatal("expected last step's state to equal the leaf state")
	}
}

func TestTraceToRootIsEmpty(t *testing.T) {
	a := New()
	root := a.AddRoot(term(ir.KindRef, "root"))
	if steps := a.TraceTo(root); len(steps) != 0 {
		t.Fatalf("expected no steps from root to itself, got %d", len(steps))
	}
}
