// Package lts implements the labelled transition system layer: the Term
// algebra of process configurations, their canonical byte encoding, and the
// structural operational semantics that expand a Term into its outgoing
// transitions.
package lts

import (
	"fmt"
	"strconv"
	"strings"
)

// Tau is the distinguished silent label. It never appears in a channel
// declaration and therefore never collides with a visible event name.
const Tau = ""

// Label is a single transition label: either Tau or a visible event
// rendered as "channel" or "channel.value".
type Label struct {
	Channel string
	HasValue bool
	Value    int
}

// IsTau reports whether l is the silent label.
func (l Label) IsTau() bool {
	return l.Channel == Tau
}

// String renders the label the way counterexample traces display it.
func (l Label) String() string {
	if l.IsTau() {
		return "tau"
	}
	if l.HasValue {
		return l.Channel + "." + strconv.Itoa(l.Value)
	}
	return l.Channel
}

// Compare orders labels: tau first, then lexicographic by channel name,
// then by value. This total order is what makes explorer frontiers and
// transition lists byte-reproducible across runs and worker counts.
func (l Label) Compare(o Label) int {
	if l.IsTau() != o.IsTau() {
		if l.IsTau() {
			return -1
		}
		return 1
	}
	if l.Channel != o.Channel {
		if l.Channel < o.Channel {
			return -1
		}
		return 1
	}
	if l.HasValue != o.HasValue {
		if !l.HasValue {
			return -1
		}
		return 1
	}
	switch {
	case l.Value < o.Value:
		return -1
	case l.Value > o.Value:
		return 1
	default:
		return 0
	}
}

// ParseLabel parses the "channel" or "channel.value" textual form produced
// by String, used when rendering/round-tripping counterexamples.
func ParseLabel(s string) (Label, error) {
	if s == "tau" {
		return Label{}, nil
	}
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		if v, err := strconv.Atoi(s[i+1:]); err == nil {
			return Label{Channel: s[:i], HasValue: true, Value: v}, nil
		}
	}
	if s == "" {
		return Label{}, fmt.Errorf("lts: empty label")
	}
	return Label{Channel: s}, nil
}
