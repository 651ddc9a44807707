package check

import (
	"sort"
	"strconv"
	"strings"

	"github.com/itdojp/cspx/internal/cspx/explorer"
	"github.com/itdojp/cspx/internal/cspx/lts"
)

// closureTable computes and interns the τ-closure of every node in g: the
// smallest set of node indices containing that node and closed under τ
// transitions. Closures are interned by their canonical key (sorted member
// indices) so structurally identical closures compare equal in O(1) and
// sort stably, treating closures as first-class comparable entities.
type closureTable struct {
	g *explorer.Graph

	// idOf[nodeIndex] is the interned closure id of that node's τ-closure.
	idOf []int

	// members[closureID] is the sorted, deduplicated list of node indices
	// in that closure.
	members [][]int

	intern map[string]int

	chaotic map[int]bool // memoised IsChaotic results
}

// buildClosureTable computes every node's τ-closure via a BFS over τ edges
// seeded from the node itself, then interns the resulting member sets.
// The table stays live after construction: refinement checking interns
// further closures (unions of already-interned ones reached by a visible
// step) via InternMembers.
func buildClosureTable(g *explorer.Graph) *closureTable {
	n := len(g.States)
	t := &closureTable{g: g, idOf: make([]int, n), intern: make(map[string]int), chaotic: make(map[int]bool)}

	for v := 0; v < n; v++ {
		members := closureOf(g, v)
		t.idOf[v] = t.InternMembers(members)
	}
	return t
}

// InternMembers returns the closure id for members (already expected to be
// τ-closed (a union of already-τ-closed sets is itself τ-closed), which is
// the only way refinement checking ever builds a member set that was not
// produced by closureOf directly), interning a new id if this exact member
// set has not been seen before.
func (t *closureTable) InternMembers(members []int) int {
	sorted := append([]int(nil), members...)
	sort.Ints(sorted)
	sorted = dedupInts(sorted)
	key := closureKey(sorted)
	if id, ok := t.intern[key]; ok {
		return id
	}
	id := len(t.members)
	t.intern[key] = id
	t.members = append(t.members, sorted)
	return id
}

func dedupInts(sorted []int) []int {
	out := sorted[:0:0]
	for i, v := range sorted {
		if i == 0 || v != sorted[i-1] {
			out = append(out, v)
		}
	}
	return out
}

// IsChaotic reports whether closure id contains at least one member node
// that belongs to divergent (as computed by divergentNodes over the same
// graph this table was built from). Used by FD refinement's "chaos
// closure after spec divergence" rule.
func (t *closureTable) IsChaotic(id int, divergent map[int]bool) bool {
	if v, ok := t.chaotic[id]; ok {
		return v
	}
	chaotic := false
	for _, m := range t.members[id] {
		if divergent[m] {
			chaotic = true
			break
		}
	}
	t.chaotic[id] = chaotic
	return chaotic
}

func closureOf(g *explorer.Graph, start int) []int {
	visited := map[int]bool{start: true}
	queue := []int{start}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, e := range g.Edges[v] {
			if !e.Label.IsTau() {
				continue
			}
			if !visited[e.To] {
				visited[e.To] = true
				queue = append(queue, e.To)
			}
		}
	}
	out := make([]int, 0, len(visited))
	for v := range visited {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

func closureKey(members []int) string {
	var b strings.Builder
	for i, v := range members {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(v))
	}
	return b.String()
}

// ClosureOf returns the interned closure id of node v's τ-closure.
func (t *closureTable) ClosureOf(v int) int { return t.idOf[v] }

// Members returns the sorted node indices belonging to closure id.
func (t *closureTable) Members(id int) []int { return t.members[id] }

// IsStable reports whether node v has no outgoing τ transition.
func isStable(g *explorer.Graph, v int) bool {
	for _, e := range g.Edges[v] {
		if e.Label.IsTau() {
			return false
		}
	}
	return true
}

// readySet returns the sorted, deduplicated set of visible labels offered
// directly by node v (not its closure).
func readySet(g *explorer.Graph, v int) []lts.Label {
	seen := make(map[lts.Label]bool)
	for _, e := range g.Edges[v] {
		if !e.Label.IsTau() {
			seen[e.Label] = true
		}
	}
	out := make([]lts.Label, 0, len(seen))
	for l := range seen {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Compare(out[j]) < 0 })
	return out
}

// unionMembers flattens the member sets of every closure id in ids into a
// single deduplicated, sorted slice, itself a valid closure, since a
// union of τ-closed sets is τ-closed.
func unionMembers(t *closureTable, ids map[int]bool) []int {
	seen := make(map[int]bool)
	var out []int
	for id := range ids {
		for _, m := range t.Members(id) {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	sort.Ints(out)
	return out
}

// visibleSuccessors returns, for every visible label offered by any member
// of closure members, the set of destination closure ids reached by
// exactly one step of that label. Used by both the determinism checker
// (branching per closure) and T/F/FD refinement (successor-closure
// computation).
func visibleSuccessors(g *explorer.Graph, t *closureTable, members []int) map[lts.Label]map[int]bool {
	out := make(map[lts.Label]map[int]bool)
	for _, v := range members {
		for _, e := range g.Edges[v] {
			if e.Label.IsTau() {
				continue
			}
			dest := out[e.Label]
			if dest == nil {
				dest = make(map[int]bool)
				out[e.Label] = dest
			}
			dest[t.ClosureOf(e.To)] = true
		}
	}
	return out
}
