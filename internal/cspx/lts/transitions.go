package lts

import (
	"fmt"

	"github.com/itdojp/cspx/internal/cspx/ir"
)

// maxUnfoldDepth bounds Ref-following recursion inside a single
// transitionsOf call. A validated module can still contain an unguarded
// process such as P = P, which would make transitionsOf recurse forever
// looking for a visible or tau step to offer. The depth guard turns that
// into an Unsupported error instead of hanging the explorer.
const maxUnfoldDepth = 10000

// Transition is one outgoing edge of a Term: consuming Label reaches Next.
type Transition struct {
	Label Label
	Next  *Term
}

// Provider resolves process references and computes the transitions of any
// Term over a fixed, validated Module.
type Provider struct {
	procs    map[string]*ir.ProcExpr
	channels map[string]ir.Channel
}

// NewProvider builds a Provider over mod. mod is assumed already validated
// by ir.Validate; NewProvider does not re-check it.
func NewProvider(mod *ir.Module) *Provider {
	p := &Provider{
		procs:    make(map[string]*ir.ProcExpr, len(mod.Processes)),
		channels: make(map[string]ir.Channel, len(mod.Channels)),
	}
	for i := range mod.Processes {
		p.procs[mod.Processes[i].Name] = &mod.Processes[i].Body
	}
	for _, c := range mod.Channels {
		p.channels[c.Name] = c
	}
	return p
}

// Initial returns the starting Term for the named process: a reference to
// the process rather than its inlined body, so that the start state and a
// later return to it through a recursive reference are the same state.
func (p *Provider) Initial(processName string) (*Term, error) {
	body, ok := p.procs[processName]
	if !ok {
		return nil, fmt.Errorf("lts: no such process %q", processName)
	}
	return &Term{Kind: ir.KindRef, Src: body, Name: processName}, nil
}

// Transitions returns the outgoing transitions of term, sorted by
// (Label, next-state bytes) so that the result is identical regardless of
// the order in which the recursive SOS rules below produced it. This
// decouples correctness from internal recursion/merge order: a rule may
// append its contributions in whatever order is convenient, and the final
// sort pass is the single source of determinism.
func (p *Provider) Transitions(term *Term) ([]Transition, error) {
	raw, err := p.transitionsOf(term, 0)
	if err != nil {
		return nil, err
	}
	sortTransitions(raw)
	return raw, nil
}

func (p *Provider) transitionsOf(t *Term, depth int) ([]Transition, error) {
	if depth > maxUnfoldDepth {
		return nil, fmt.Errorf("lts: unguarded recursion exceeds unfold depth %d: %w", maxUnfoldDepth, ErrUnsupported)
	}
	if t == nil {
		return nil, nil
	}

	switch t.Kind {
	case ir.KindStop:
		return nil, nil

	case ir.KindPrefix:
		return p.prefixTransitions(t)

	case ir.KindRef:
		body, ok := p.procs[t.Name]
		if !ok {
			return nil, fmt.Errorf("lts: no such process %q: %w", t.Name, ErrUnsupported)
		}
		return p.transitionsOf(FromProcExpr(body), depth+1)

	case ir.KindInternalChoice:
		// P |~| Q offers exactly two tau transitions, to P and to Q
		// unchanged; the operands' own transitions are irrelevant until
		// one of these tau steps is taken.
		return []Transition{
			{Label: Label{}, Next: t.Left},
			{Label: Label{}, Next: t.Right},
		}, nil

	case ir.KindExternalChoice:
		return p.externalChoice(t, depth)

	case ir.KindInterleave:
		return p.interleave(t, depth)

	case ir.KindParallel:
		return p.parallel(t, depth)

	case ir.KindHide:
		return p.hide(t, depth)

	default:
		return nil, fmt.Errorf("lts: unsupported process kind %d: %w", t.Kind, ErrUnsupported)
	}
}

// externalChoice: visible events from either side resolve the choice to
// that side's continuation; tau events from either side are internal
// rearrangements that leave the choice itself still pending.
func (p *Provider) externalChoice(t *Term, depth int) ([]Transition, error) {
	left, err := p.transitionsOf(t.Left, depth+1)
	if err != nil {
		return nil, err
	}
	right, err := p.transitionsOf(t.Right, depth+1)
	if err != nil {
		return nil, err
	}
	out := make([]Transition, 0, len(left)+len(right))
	for _, tr := range left {
		if tr.Label.IsTau() {
			out = append(out, Transition{Label: tr.Label, Next: &Term{Kind: ir.KindExternalChoice, Src: t.Src, Left: tr.Next, Right: t.Right}})
		} else {
			out = append(out, tr)
		}
	}
	for _, tr := range right {
		if tr.Label.IsTau() {
			out = append(out, Transition{Label: tr.Label, Next: &Term{Kind: ir.KindExternalChoice, Src: t.Src, Left: t.Left, Right: tr.Next}})
		} else {
			out = append(out, tr)
		}
	}
	return out, nil
}

// interleave: either side may step independently on any label, visible or
// tau, with the other side's term left unchanged.
func (p *Provider) interleave(t *Term, depth int) ([]Transition, error) {
	left, err := p.transitionsOf(t.Left, depth+1)
	if err != nil {
		return nil, err
	}
	right, err := p.transitionsOf(t.Right, depth+1)
	if err != nil {
		return nil, err
	}
	out := make([]Transition, 0, len(left)+len(right))
	for _, tr := range left {
		out = append(out, Transition{Label: tr.Label, Next: &Term{Kind: ir.KindInterleave, Src: t.Src, Left: tr.Next, Right: t.Right}})
	}
	for _, tr := range right {
		out = append(out, Transition{Label: tr.Label, Next: &Term{Kind: ir.KindInterleave, Src: t.Src, Left: t.Left, Right: tr.Next}})
	}
	return out, nil
}

// parallel: events on channels in Sync must be offered by both sides
// simultaneously; events outside Sync (and all tau events) proceed
// independently, exactly as interleave does for that side.
func (p *Provider) parallel(t *Term, depth int) ([]Transition, error) {
	left, err := p.transitionsOf(t.Left, depth+1)
	if err != nil {
		return nil, err
	}
	right, err := p.transitionsOf(t.Right, depth+1)
	if err != nil {
		return nil, err
	}
	sync := make(map[string]bool, len(t.Sync))
	for _, c := range t.Sync {
		sync[c] = true
	}
	out := make([]Transition, 0, len(left)+len(right))
	for _, tr := range left {
		if tr.Label.IsTau() || !sync[tr.Label.Channel] {
			out = append(out, Transition{Label: tr.Label, Next: &Term{Kind: ir.KindParallel, Src: t.Src, Sync: t.Sync, Left: tr.Next, Right: t.Right}})
		}
	}
	for _, tr := range right {
		if tr.Label.IsTau() || !sync[tr.Label.Channel] {
			out = append(out, Transition{Label: tr.Label, Next: &Term{Kind: ir.KindParallel, Src: t.Src, Sync: t.Sync, Left: t.Left, Right: tr.Next}})
		}
	}
	for _, lt := range left {
		if lt.Label.IsTau() || !sync[lt.Label.Channel] {
			continue
		}
		for _, rt := range right {
			if rt.Label != lt.Label {
				continue
			}
			out = append(out, Transition{Label: lt.Label, Next: &Term{Kind: ir.KindParallel, Src: t.Src, Sync: t.Sync, Left: lt.Next, Right: rt.Next}})
		}
	}
	return out, nil
}

// hide: events on a channel in Channels become tau; everything else passes
// through unchanged.
func (p *Provider) hide(t *Term, depth int) ([]Transition, error) {
	inner, err := p.transitionsOf(t.Inner, depth+1)
	if err != nil {
		return nil, err
	}
	hidden := make(map[string]bool, len(t.Channels))
	for _, c := range t.Channels {
		hidden[c] = true
	}
	covered := func(cs []string) bool {
		for _, c := range cs {
			if !hidden[c] {
				return false
			}
		}
		return true
	}
	out := make([]Transition, 0, len(inner))
	for _, tr := range inner {
		label := tr.Label
		if !label.IsTau() && hidden[label.Channel] {
			label = Label{}
		}
		// Hiding C over a term that already hides a subset of C is the same
		// process as hiding C once; dropping the inner layer keeps recursion
		// under hiding, (a -> P) \ {a}, a finite state space.
		next := tr.Next
		for next != nil && next.Kind == ir.KindHide && covered(next.Channels) {
			next = next.Inner
		}
		out = append(out, Transition{Label: label, Next: &Term{Kind: ir.KindHide, Src: t.Src, Channels: t.Channels, Inner: next}})
	}
	return out, nil
}

// prefixTransitions expands a single prefix node into its offered
// transitions. A fixed-value event (none/const/output) offers exactly one
// transition; an input binding (c?x -> P) offers one transition per value
// in the channel's declared payload range, each reaching the same
// continuation term. This subset has no value-dependent continuations, so
// the bound value only ever parameterises the label, never the next state.
func (p *Provider) prefixTransitions(t *Term) ([]Transition, error) {
	ev := t.Event
	if ev == nil {
		return []Transition{{Label: Label{}, Next: t.Next}}, nil
	}
	if ev.Payload != ir.PayloadInput {
		return []Transition{{Label: eventLabel(ev), Next: t.Next}}, nil
	}
	ch, ok := p.channels[ev.Channel]
	if !ok || ch.PayloadRange == nil {
		return nil, fmt.Errorf("lts: channel %q has no payload range for input binding: %w", ev.Channel, ErrUnsupported)
	}
	n := *ch.PayloadRange
	out := make([]Transition, 0, n+1)
	for v := 0; v <= n; v++ {
		out = append(out, Transition{Label: Label{Channel: ev.Channel, HasValue: true, Value: v}, Next: t.Next})
	}
	return out, nil
}

func eventLabel(ev *ir.EventPattern) Label {
	if ev == nil {
		return Label{}
	}
	switch ev.Payload {
	case ir.PayloadNone:
		return Label{Channel: ev.Channel}
	default:
		return Label{Channel: ev.Channel, HasValue: true, Value: ev.Value}
	}
}

func sortTransitions(ts []Transition) {
	for i := 1; i < len(ts); i++ {
		for j := i; j > 0 && transitionLess(ts[j], ts[j-1]); j-- {
			ts[j-1], ts[j] = ts[j], ts[j-1]
		}
	}
}

func transitionLess(a, b Transition) bool {
	if c := a.Label.Compare(b.Label); c != 0 {
		return c < 0
	}
	return compareBytes(Encode(a.Next), Encode(b.Next)) < 0
}

// ErrUnsupported marks a transitionsOf failure that should surface as an
// "unsupported" check outcome rather than an "error" outcome: unguarded
// recursion past maxUnfoldDepth, or a reference to a process absent from
// the module (which ir.Validate should already have rejected, but
// transitionsOf re-checks defensively since it can be called on terms
// built outside of Validate, e.g. in tests).
var ErrUnsupported = fmt.Errorf("unsupported construct")
