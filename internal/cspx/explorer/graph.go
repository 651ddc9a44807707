// Package explorer builds the reachable labelled transition system of a
// process term by breadth-first search, either single-threaded (explorer.go)
// or as a deterministic level-synchronous parallel search (parallel.go),
// bounded by wall-clock and memory limits (limits.go) polled at BFS
// iteration boundaries.
package explorer

import (
	"github.com/itdojp/cspx/internal/cspx/arena"
	"github.com/itdojp/cspx/internal/cspx/lts"
)

// Edge is one outgoing transition of a Graph node.
type Edge struct {
	Label lts.Label
	To    int
}

// Graph is the explored reachable fragment of an LTS: States[i] is the
// state at node index i, and Edges[i] lists its outgoing transitions in
// the order Provider.Transitions returned them (label, then next-state
// bytes). Index 0 is always the initial state.
type Graph struct {
	States  []lts.State
	Edges   [][]Edge
	Arena   *arena.Arena
	indexOf map[string]int
}

// newGraph returns an empty Graph ready to accept states via addState.
func newGraph() *Graph {
	return &Graph{indexOf: make(map[string]int)}
}

// addState appends s as a new node and returns its index. The caller is
// responsible for not calling addState twice for the same state.
func (g *Graph) addState(s lts.State) int {
	idx := len(g.States)
	g.States = append(g.States, s)
	g.Edges = append(g.Edges, nil)
	g.indexOf[string(s.Bytes())] = idx
	return idx
}

// NodeOf returns the node index of s, or -1 if s was never discovered.
func (g *Graph) NodeOf(s lts.State) int {
	if idx, ok := g.indexOf[string(s.Bytes())]; ok {
		return idx
	}
	return -1
}
