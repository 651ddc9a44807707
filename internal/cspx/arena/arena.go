// Package arena provides back-pointer storage for trace reconstruction.
//
// The explorer never keeps a full path on every queued state: that would
// cost O(depth) memory per frontier entry instead of O(1). Instead each
// discovered state records only its parent's arena ID and the label
// consumed to reach it, from a single growable slice shared by the whole
// run. Reconstructing a counterexample trace walks parent pointers back to
// the root, an O(depth) operation performed once, only for the states that
// end up on a counterexample.
package arena

import "github.com/itdojp/cspx/internal/cspx/lts"

// ID addresses one entry in an Arena. The zero ID is reserved for the root
// state, which has no parent.
type ID int32

// NoParent marks the root entry.
const NoParent ID = -1

// entry is a back-pointer record: the label consumed from Parent to reach
// State.
type entry struct {
	state  lts.State
	parent ID
	label  lts.Label
}

// Arena stores every discovered state's back-pointer, keyed by the state's
// canonical encoding so that Add is idempotent: the first caller to record a
// given state wins, and later calls are no-ops that return the existing ID.
// That makes Add safe to call from a serial merge step fed by concurrent
// workers, as the parallel explorer does, as long as the merge step itself
// visits candidates in a deterministic order; Arena imposes no ordering of
// its own and is not safe for concurrent Add calls.
type Arena struct {
	entries []entry
	byState map[string]ID
}

// New returns an empty Arena.
func New() *Arena {
	return &Arena{byState: make(map[string]ID)}
}

// AddRoot records the initial state and returns its ID.
func (a *Arena) AddRoot(s lts.State) ID {
	if id, ok := a.byState[string(s.Bytes())]; ok {
		return id
	}
	id := ID(len(a.entries))
	a.entries = append(a.entries, entry{state: s, parent: NoParent})
	a.byState[string(s.Bytes())] = id
	return id
}

// Add records a state reached from parent by consuming label, and returns
// its ID. If s was already recorded, its existing ID is returned unchanged.
func (a *Arena) Add(parent ID, label lts.Label, s lts.State) ID {
	if id, ok := a.byState[string(s.Bytes())]; ok {
		return id
	}
	id := ID(len(a.entries))
	a.entries = append(a.entries, entry{state: s, parent: parent, label: label})
	a.byState[string(s.Bytes())] = id
	return id
}

// IDOf returns the ID under which s was recorded, if any.
func (a *Arena) IDOf(s lts.State) (ID, bool) {
	id, ok := a.byState[string(s.Bytes())]
	return id, ok
}

// State returns the state stored at id.
func (a *Arena) State(id ID) lts.State {
	return a.entries[id].state
}

// Step is one edge of a reconstructed trace: the label consumed to reach
// State.
type Step struct {
	Label lts.Label
	State lts.State
}

// TraceTo walks parent pointers from id back to the root and returns the
// path from root to id as a forward-ordered sequence of Steps. The root
// itself is not included as a Step (it carries no consumed label); callers
// that need it can call Arena.State on the first step's implicit
// predecessor, i.e. the root ID reachable by following Steps[0] backward,
// or simply keep the root ID returned by AddRoot.
func (a *Arena) TraceTo(id ID) []Step {
	var reversed []Step
	for cur := id; a.entries[cur].parent != NoParent; cur = a.entries[cur].parent {
		reversed = append(reversed, Step{Label: a.entries[cur].label, State: a.entries[cur].state})
	}
	steps := make([]Step, len(reversed))
	for i, s := range reversed {
		steps[len(reversed)-1-i] = s
	}
	return steps
}

// Len returns the number of entries recorded.
func (a *Arena) Len() int {
	return len(a.entries)
}
