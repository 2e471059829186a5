package entangle

// Pair is a canonical unordered qubit pair, stored with the smaller
// index first so that (a, b) and (b, a) name the same link.
type Pair struct {
	A int
	B int
}

// NewPair canonicalizes two qubit indices into a Pair.
func NewPair(a, b int) Pair {
	if a > b {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// Link records a declared entanglement strength between two qubits.
// Indices follow the canonical order A < B.
type Link struct {
	A        int     `json:"a"`
	B        int     `json:"b"`
	Strength float64 `json:"strength"`
}

// Graph tracks declared pairwise entanglement strengths between qubit
// indices. It holds indices by value and owns no register, so one graph
// can describe correlations for any register sharing its index space.
// A graph is not safe for concurrent use.
type Graph struct {
	links map[Pair]*Link
}

// NewGraph creates an empty entanglement graph.
func NewGraph() *Graph {
	return &Graph{links: make(map[Pair]*Link)}
}

// Add declares an entanglement of the given strength between qubits a
// and b, overwriting any existing link for the pair. The strength is
// clamped to [0, 1]. Negative indices and a == b are silent no-ops.
func (g *Graph) Add(a, b int, strength float64) {
	if g == nil || a < 0 || b < 0 || a == b {
		return
	}
	if g.links == nil {
		g.links = make(map[Pair]*Link)
	}
	if strength < 0 {
		strength = 0
	} else if strength > 1 {
		strength = 1
	}
	p := NewPair(a, b)
	if l, ok := g.links[p]; ok {
		l.Strength = strength
		return
	}
	g.links[p] = &Link{A: p.A, B: p.B, Strength: strength}
}

// Remove deletes the link between qubits a and b if present.
func (g *Graph) Remove(a, b int) {
	if g == nil || g.links == nil {
		return
	}
	delete(g.links, NewPair(a, b))
}

// Find returns the link between qubits a and b, or nil when none
// exists. The graph keeps ownership of the returned link; writing its
// Strength through the pointer updates the graph directly.
func (g *Graph) Find(a, b int) *Link {
	if g == nil || g.links == nil {
		return nil
	}
	return g.links[NewPair(a, b)]
}

// Count returns the number of links in the graph.
func (g *Graph) Count() int {
	if g == nil {
		return 0
	}
	return len(g.links)
}

// Links returns the graph's links in unspecified order.
func (g *Graph) Links() []*Link {
	if g == nil {
		return nil
	}
	out := make([]*Link, 0, len(g.links))
	for _, l := range g.links {
		out = append(out, l)
	}
	return out
}

// Touching returns every link with q as one of its endpoints.
func (g *Graph) Touching(q int) []*Link {
	if g == nil {
		return nil
	}
	var out []*Link
	for _, l := range g.links {
		if l.A == q || l.B == q {
			out = append(out, l)
		}
	}
	return out
}

// Clear removes every link from the graph.
func (g *Graph) Clear() {
	if g == nil {
		return
	}
	clear(g.links)
}
