package check_test

import (
	"github.com/itdojp/cspx/internal/cspx/arena"
	"github.com/itdojp/cspx/internal/cspx/explorer"
	"github.com/itdojp/cspx/internal/cspx/ir"
	"github.com/itdojp/cspx/internal/cspx/lts"
)

// refState returns a distinct, cheaply-constructible lts.State identified
// only by name, a stand-in for a real term when a test only cares about
// graph shape, not CSP semantics.
func refState(name string) lts.State {
	return lts.NewState(&lts.Term{Kind: ir.KindRef, Name: name})
}

func label(ch string) lts.Label { return lts.Label{Channel: ch} }

// graphBuilder assembles a small explorer.Graph + Arena by hand, mirroring
// the shape explorer.Run would have produced, without driving a real SOS
// transition provider.
type graphBuilder struct {
	g   *explorer.Graph
	ar  *arena.Arena
}

func newGraphBuilder(rootName string) *graphBuilder {
	ar := arena.New()
	g := &explorer.Graph{Arena: ar}
	root := refState(rootName)
	idx := addState(g, root)
	if idx != 0 {
		panic("root must be node 0")
	}
	ar.AddRoot(root)
	return &graphBuilder{g: g, ar: ar}
}

func addState(g *explorer.Graph, s lts.State) int {
	// explorer.Graph's addState is unexported; reimplement its two
	// invariants (States append, Edges grows in lockstep) directly since
	// tests live in a different package.
	idx := len(g.States)
	g.States = append(g.States, s)
	g.Edges = append(g.Edges, nil)
	return idx
}

// addNode adds a fresh node named name, wires an edge from `from` to it
// under label l, and records the matching Arena entry. Returns the new
// node's index.
func (b *graphBuilder) addNode(from int, l lts.Label, name string) int {
	s := refState(name)
	idx := addState(b.g, s)
	b.g.Edges[from] = append(b.g.Edges[from], explorer.Edge{Label: l, To: idx})
	gotID := b.ar.Add(arena.ID(from), l, s)
	if int(gotID) != idx {
		panic("arena/graph index drift")
	}
	return idx
}

// addEdge wires an edge between two already-existing nodes without
// allocating a new Arena entry (used for back-edges, e.g. τ self-loops).
func (b *graphBuilder) addEdge(from int, l lts.Label, to int) {
	b.g.Edges[from] = append(b.g.Edges[from], explorer.Edge{Label: l, To: to})
}

func (b *graphBuilder) graph() *explorer.Graph { return b.g }
