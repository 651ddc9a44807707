package lts

import (
	"bytes"
	"testing"

	"github.com/itdojp/cspx/internal/cspx/ir"
)

func TestEncodeIsDeterministic(t *testing.T) {
	term := &Term{
		Kind:  ir.KindPrefix,
		Event: &ir.EventPattern{Channel: "a", Payload: ir.PayloadNone},
		Next:  &Term{Kind: ir.KindStop},
	}
	a := Encode(term)
	b := Encode(term)
	if !bytes.Equal(a, b) {
		t.Fatal("expected identical encodings for the same term")
	}
}

func TestEncodeIsInjectiveAcrossKinds(t *testing.T) {
	stop := &Term{Kind: ir.KindStop}
	ref := &Term{Kind: ir.KindRef, Name: "P"}
	prefix := &Term{Kind: ir.KindPrefix, Event: &ir.EventPattern{Channel: "a"}, Next: stop}

	terms := []*Term{stop, ref, prefix}
	seen := make(map[string]int)
	for i, tm := range terms {
		key := string(Encode(tm))
		if j, dup := seen[key]; dup {
			t.Fatalf("terms %d and %d encoded identically", i, j)
		}
		seen[key] = i
	}
}

func TestEncodeSyncSetIsOrderIndependent(t *testing.T) {
	left := &Term{Kind: ir.KindStop}
	right := &Term{Kind: ir.KindStop}
	p1 := FromProcExpr(&ir.ProcExpr{
		Kind: ir.KindParallel,
		Sync: []string{"b", "a"},
	})
	p2 := FromProcExpr(&ir.ProcExpr{
		Kind: ir.KindParallel,
		Sync: []string{"a", "b"},
	})
	p1.Left, p1.Right = left, right
	p2.Left, p2.Right = left, right
	if !bytes.Equal(Encode(p1), Encode(p2)) {
		t.Fatal("expected sync sets to encode identically regardless of declaration order")
	}
}

func TestEncodeDistinguishesPayloadValues(t *testing.T) {
	a := &Term{Kind: ir.KindPrefix, Event: &ir.EventPattern{Channel: "a", Payload: ir.PayloadConst, Value: 0}, Next: &Term{Kind: ir.KindStop}}
	b := &Term{Kind: ir.KindPrefix, Event: &ir.EventPattern{Channel: "a", Payload: ir.PayloadConst, Value: 1}, Next: &Term{Kind: ir.KindStop}}
	if bytes.Equal(Encode(a), Encode(b)) {
		t.Fatal("expected distinct payload values to encode differently")
	}
}

func TestStateLessIsAntisymmetric(t *testing.T) {
	s1 := NewState(&Term{Kind: ir.KindStop})
	s2 := NewState(&Term{Kind: ir.KindRef, Name: "P"})
	if s1.Equal(s2) {
		t.Fatal("expected distinct states to compare unequal")
	}
	if s1.Less(s2) == s2.Less(s1) {
		t.Fatal("expected exactly one ordering direction to hold")
	}
}
