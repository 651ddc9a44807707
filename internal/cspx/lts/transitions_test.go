package lts

import (
	"errors"
	"testing"

	"github.com/itdojp/cspx/internal/cspx/ir"
)

func moduleWith(procs ...ir.ProcessDecl) *ir.Module {
	return &ir.Module{Processes: procs}
}

func TestTransitionsStopIsDeadEnd(t *testing.T) {
	p := NewProvider(moduleWith())
	ts, err := p.Transitions(&Term{Kind: ir.KindStop})
	if err != nil {
		t.Fatal(err)
	}
	if len(ts) != 0 {
		t.Fatalf("expected no transitions from STOP, got %d", len(ts))
	}
}

func TestTransitionsPrefixOffersSingleEvent(t *testing.T) {
	p := NewProvider(moduleWith())
	term := &Term{Kind: ir.KindPrefix, Event: &ir.EventPattern{Channel: "a"}, Next: &Term{Kind: ir.KindStop}}
	ts, err := p.Transitions(term)
	if err != nil {
		t.Fatal(err)
	}
	if len(ts) != 1 || ts[0].Label.Channel != "a" {
		t.Fatalf("expected single a-labelled transition, got %+v", ts)
	}
}

func TestTransitionsInternalChoiceOffersTwoTaus(t *testing.T) {
	p := NewProvider(moduleWith())
	left := &Term{Kind: ir.KindPrefix, Event: &ir.EventPattern{Channel: "a"}, Next: &Term{Kind: ir.KindStop}}
	right := &Term{Kind: ir.KindPrefix, Event: &ir.EventPattern{Channel: "b"}, Next: &Term{Kind: ir.KindStop}}
	term := &Term{Kind: ir.KindInternalChoice, Left: left, Right: right}
	ts, err := p.Transitions(term)
	if err != nil {
		t.Fatal(err)
	}
	if len(ts) != 2 {
		t.Fatalf("expected exactly 2 tau transitions, got %d", len(ts))
	}
	for _, tr := range ts {
		if !tr.Label.IsTau() {
			t.Fatalf("expected tau label, got %v", tr.Label)
		}
	}
}

func TestTransitionsExternalChoiceOffersBothEvents(t *testing.T) {
	p := NewProvider(moduleWith())
	left := &Term{Kind: ir.KindPrefix, Event: &ir.EventPattern{Channel: "a"}, Next: &Term{Kind: ir.KindStop}}
	right := &Term{Kind: ir.KindPrefix, Event: &ir.EventPattern{Channel: "b"}, Next: &Term{Kind: ir.KindStop}}
	term := &Term{Kind: ir.KindExternalChoice, Left: left, Right: right}
	ts, err := p.Transitions(term)
	if err != nil {
		t.Fatal(err)
	}
	if len(ts) != 2 {
		t.Fatalf("expected 2 transitions, got %d", len(ts))
	}
	if ts[0].Label.Channel != "a" || ts[1].Label.Channel != "b" {
		t.Fatalf("expected sorted [a, b], got [%v, %v]", ts[0].Label, ts[1].Label)
	}
}

func TestTransitionsParallelSynchronisesSharedEvent(t *testing.T) {
	p := NewProvider(moduleWith())
	left := &Term{Kind: ir.KindPrefix, Event: &ir.EventPattern{Channel: "a"}, Next: &Term{Kind: ir.KindStop}}
	right := &Term{Kind: ir.KindPrefix, Event: &ir.EventPattern{Channel: "a"}, Next: &Term{Kind: ir.KindStop}}
	term := &Term{Kind: ir.KindParallel, Sync: []string{"a"}, Left: left, Right: right}
	ts, err := p.Transitions(term)
	if err != nil {
		t.Fatal(err)
	}
	if len(ts) != 1 {
		t.Fatalf("expected exactly 1 synchronised transition, got %d: %+v", len(ts), ts)
	}
	next := ts[0].Next
	if next.Left.Kind != ir.KindStop || next.Right.Kind != ir.KindStop {
		t.Fatalf("expected both sides to advance to STOP, got %+v", next)
	}
}

func TestTransitionsParallelInterleavesUnsharedEvent(t *testing.T) {
	p := NewProvider(moduleWith())
	left := &Term{Kind: ir.KindPrefix, Event: &ir.EventPattern{Channel: "a"}, Next: &Term{Kind: ir.KindStop}}
	right := &Term{Kind: ir.KindPrefix, Event: &ir.EventPattern{Channel: "b"}, Next: &Term{Kind: ir.KindStop}}
	term := &Term{Kind: ir.KindParallel, Sync: []string{"a"}, Left: left, Right: right}
	ts, err := p.Transitions(term)
	if err != nil {
		t.Fatal(err)
	}
	if len(ts) != 1 {
		t.Fatalf("expected exactly 1 transition (b is not in the sync set), got %d: %+v", len(ts), ts)
	}
	if ts[0].Label.Channel != "b" {
		t.Fatalf("expected b to proceed independently, got %v", ts[0].Label)
	}
}

func TestTransitionsHideConvertsToTau(t *testing.T) {
	p := NewProvider(moduleWith())
	inner := &Term{Kind: ir.KindPrefix, Event: &ir.EventPattern{Channel: "a"}, Next: &Term{Kind: ir.KindStop}}
	term := &Term{Kind: ir.KindHide, Channels: []string{"a"}, Inner: inner}
	ts, err := p.Transitions(term)
	if err != nil {
		t.Fatal(err)
	}
	if len(ts) != 1 || !ts[0].Label.IsTau() {
		t.Fatalf("expected hidden event to become tau, got %+v", ts)
	}
}

func TestTransitionsRefFollowsDeclaration(t *testing.T) {
	mod := moduleWith(
		ir.ProcessDecl{Name: "P", Body: ir.ProcExpr{
			Kind:  ir.KindPrefix,
			Event: &ir.EventPattern{Channel: "a"},
			Next:  &ir.ProcExpr{Kind: ir.KindRef, Name: "P"},
		}},
	)
	p := NewProvider(mod)
	term, err := p.Initial("P")
	if err != nil {
		t.Fatal(err)
	}
	ts, err := p.Transitions(term)
	if err != nil {
		t.Fatal(err)
	}
	if len(ts) != 1 || ts[0].Label.Channel != "a" {
		t.Fatalf("expected single a-labelled transition, got %+v", ts)
	}
	if ts[0].Next.Kind != ir.KindRef || ts[0].Next.Name != "P" {
		t.Fatalf("expected recursion back to P, got %+v", ts[0].Next)
	}
}

func TestTransitionsUnguardedRecursionIsUnsupported(t *testing.T) {
	mod := moduleWith(
		ir.ProcessDecl{Name: "P", Body: ir.ProcExpr{Kind: ir.KindRef, Name: "P"}},
	)
	p := NewProvider(mod)
	term, err := p.Initial("P")
	if err != nil {
		t.Fatal(err)
	}
	_, err = p.Transitions(term)
	if err == nil {
		t.Fatal("expected an error for unguarded recursion")
	}
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}
