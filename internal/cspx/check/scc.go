package check

import "github.com/itdojp/cspx/internal/cspx/explorer"

// tauSCC computes the strongly connected components of the τ-sub-LTS of g
// (only τ-labelled edges) via Tarjan's algorithm, iterated in increasing
// node-index order so the result, in particular which SCC is reported
// first, depends only on g's (already-deterministic) edge order, never on
// map iteration or goroutine scheduling.
type tauSCC struct {
	g        *explorer.Graph
	index    []int
	lowlink  []int
	onStack  []bool
	stack    []int
	counter  int
	sccOf    []int // component id per node, -1 until assigned
	comps    [][]int
}

func computeTauSCC(g *explorer.Graph) (sccOf []int, comps [][]int) {
	n := len(g.States)
	t := &tauSCC{
		g:       g,
		index:   make([]int, n),
		lowlink: make([]int, n),
		onStack: make([]bool, n),
		sccOf:   make([]int, n),
	}
	for i := range t.index {
		t.index[i] = -1
		t.sccOf[i] = -1
	}
	for v := 0; v < n; v++ {
		if t.index[v] == -1 {
			t.strongconnect(v)
		}
	}
	return t.sccOf, t.comps
}

func (t *tauSCC) strongconnect(v int) {
	t.index[v] = t.counter
	t.lowlink[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, e := range t.g.Edges[v] {
		if !e.Label.IsTau() {
			continue
		}
		w := e.To
		if t.index[w] == -1 {
			t.strongconnect(w)
			if t.lowlink[w] < t.lowlink[v] {
				t.lowlink[v] = t.lowlink[w]
			}
		} else if t.onStack[w] {
			if t.index[w] < t.lowlink[v] {
				t.lowlink[v] = t.index[w]
			}
		}
	}

	if t.lowlink[v] == t.index[v] {
		var comp []int
		for {
			n := len(t.stack) - 1
			w := t.stack[n]
			t.stack = t.stack[:n]
			t.onStack[w] = false
			comp = append(comp, w)
			t.sccOf[w] = len(t.comps)
			if w == v {
				break
			}
		}
		t.comps = append(t.comps, comp)
	}
}

// hasTauSelfLoop reports whether node v has a τ edge to itself.
func hasTauSelfLoop(g *explorer.Graph, v int) bool {
	for _, e := range g.Edges[v] {
		if e.Label.IsTau() && e.To == v {
			return true
		}
	}
	return false
}

// divergentNodes returns the set of node indices that belong to a
// divergence: an SCC of the τ-sub-LTS with ≥2 states, or a
// singleton SCC with a τ self-loop.
func divergentNodes(g *explorer.Graph) map[int]bool {
	_, comps := computeTauSCC(g)
	divergent := make(map[int]bool)
	for _, comp := range comps {
		if len(comp) >= 2 {
			for _, v := range comp {
				divergent[v] = true
			}
			continue
		}
		v := comp[0]
		if hasTauSelfLoop(g, v) {
			divergent[v] = true
		}
	}
	return divergent
}

// firstDivergentNode returns the smallest node index belonging to a
// divergence, and ok=false if the graph has none. Node-index order is
// BFS-discovery order, so the reported witness is the same on every run
// and at every worker count.
func firstDivergentNode(g *explorer.Graph) (int, bool) {
	divergent := divergentNodes(g)
	best := -1
	for v := range divergent {
		if best == -1 || v < best {
			best = v
		}
	}
	return best, best != -1
}
