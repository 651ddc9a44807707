package lts

import "github.com/itdojp/cspx/internal/cspx/ir"

// Term is a CSP configuration: a process term kept in terms of named
// process references rather than expanded bodies. A Ref node is resolved to
// its declared body only when the provider computes its transitions; the
// term itself never inlines the body. This keeps state identity finite for
// recursive processes and keeps Term structurally identical in shape to
// ir.ProcExpr.
type Term struct {
	Kind ir.ProcKind

	// Src points back at the IR node this term position originated from,
	// so a failing state can be mapped to the innermost source span that
	// produced it. It plays no role in state identity: the codec never
	// encodes it, and two terms that differ only in Src are the same
	// state. Terms rebuilt by the SOS rules (a choice resolving, a
	// parallel side stepping) inherit the combinator node's Src.
	Src *ir.ProcExpr

	// KindPrefix
	Event *ir.EventPattern
	Next  *Term

	// KindExternalChoice, KindInternalChoice, KindInterleave, KindParallel
	Left  *Term
	Right *Term

	// KindParallel only: sorted synchronisation alphabet.
	Sync []string

	// KindHide
	Inner    *Term
	Channels []string // sorted

	// KindRef
	Name string
}

// FromProcExpr lowers a validated ir.ProcExpr into a Term, sorting the
// Sync/Channels sets so that structurally equal terms always encode
// identically regardless of declaration order in the source IR.
func FromProcExpr(e *ir.ProcExpr) *Term {
	if e == nil {
		return nil
	}
	t := &Term{
		Kind:  e.Kind,
		Src:   e,
		Event: e.Event,
		Name:  e.Name,
	}
	t.Next = FromProcExpr(e.Next)
	t.Left = FromProcExpr(e.Left)
	t.Right = FromProcExpr(e.Right)
	t.Inner = FromProcExpr(e.Inner)
	if len(e.Sync) > 0 {
		t.Sync = sortedCopy(e.Sync)
	}
	if len(e.Channels) > 0 {
		t.Channels = sortedCopy(e.Channels)
	}
	return t
}

func sortedCopy(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	insertionSortStrings(out)
	return out
}

// insertionSortStrings sorts small alphabets in place. Sync/hide sets are
// small enough (process interfaces, not event volumes) that insertion sort
// avoids pulling in sort.Strings for a handful of comparisons at a time.
func insertionSortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// State is an explored configuration: a Term plus its canonical byte
// encoding, computed once and reused for every store/queue/arena operation
// that needs to hash, compare, or persist it.
type State struct {
	term  *Term
	bytes []byte
}

// NewState encodes term and returns the resulting State. The encoding is
// canonical and injective (see codec.go), so two States derived from
// structurally distinct terms never produce equal Bytes, and the same term
// always produces the same Bytes regardless of process or machine.
func NewState(term *Term) State {
	return State{term: term, bytes: Encode(term)}
}

// Term returns the underlying configuration.
func (s State) Term() *Term { return s.term }

// Span returns the source span of the IR node this term originated from,
// or the zero Span when the term was built without one (hand-assembled
// test terms, or IR nodes the front-end left unannotated).
func (t *Term) Span() ir.Span {
	if t == nil || t.Src == nil {
		return ir.Span{}
	}
	return t.Src.Span
}

// Bytes returns the canonical encoding. The returned slice must not be
// mutated; callers that need to retain it across a Put to a buffer pool
// should copy it first.
func (s State) Bytes() []byte { return s.bytes }

// Less orders states by their canonical encoding. Used to produce the
// byte-sorted frontier order the deterministic parallel explorer relies on.
func (s State) Less(o State) bool {
	return compareBytes(s.bytes, o.bytes) < 0
}

// Equal reports whether two states carry the same canonical encoding.
func (s State) Equal(o State) bool {
	return compareBytes(s.bytes, o.bytes) == 0
}

func compareBytes(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}
