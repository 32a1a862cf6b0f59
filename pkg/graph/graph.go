// Package graph provides the colored graph representation the quotient
// machinery operates on. Vertices carry an index, a color, and an adjacency
// list; the graph tracks an ordering state so lookups can take the fast path
// when the vertex slice is index-aligned.
package graph

import (
	"math"
	"slices"
	"sort"

	"github.com/firefighterduck/dqg/pkg/errors"
)

// Colour identifies a vertex color class. Vertices that were never assigned a
// color stay at DefaultColour, which sorts after every explicit color.
type Colour = int

// DefaultColour marks vertices without an explicit color.
const DefaultColour Colour = math.MaxInt32

// State describes how the vertex slice is currently arranged. Most operations
// are cheapest in StateIndexOrdered, where vertex i sits at slice position i.
type State int

const (
	// StateIndexOrdered means vertex i is stored at position i.
	StateIndexOrdered State = iota
	// StateColourGrouped means vertices are sorted by color, indices arbitrary.
	StateColourGrouped
	// StateColourGroupedOrdered means vertices are sorted by color and were
	// index-ordered before grouping, so equal colors keep index order.
	StateColourGroupedOrdered
	// StateChaos means no arrangement is guaranteed.
	StateChaos
	// StateFixed pins an externally imposed vertex order that must not be
	// disturbed by later mutations.
	StateFixed
)

func (s State) String() string {
	switch s {
	case StateIndexOrdered:
		return "index-ordered"
	case StateColourGrouped:
		return "colour-grouped"
	case StateColourGroupedOrdered:
		return "colour-grouped-ordered"
	case StateChaos:
		return "chaos"
	case StateFixed:
		return "fixed"
	default:
		return "unknown"
	}
}

// Vertex is one node of the graph. EdgesTo is an out-adjacency list; for
// undirected graphs both directions are present.
type Vertex struct {
	Index   int
	EdgesTo []int
	Colour  Colour
}

// NewVertex returns a vertex with an empty adjacency list.
func NewVertex(index int, colour Colour) Vertex {
	return Vertex{Index: index, Colour: colour}
}

// Graph is a fixed-size colored graph.
type Graph struct {
	vertices  []Vertex
	size      int
	edgeCount int
	state     State
	minimized bool
}

// NewOrdered returns an index-ordered graph with n uncolored vertices.
func NewOrdered(n int) *Graph {
	vertices := make([]Vertex, n)
	for i := range vertices {
		vertices[i] = NewVertex(i, DefaultColour)
	}
	return &Graph{vertices: vertices, size: n, state: StateIndexOrdered}
}

// NewWithIndices returns a graph whose vertices carry the given indices in
// the given slice order. The arrangement is not index-aligned.
func NewWithIndices(indices []int) *Graph {
	vertices := make([]Vertex, len(indices))
	for i, idx := range indices {
		vertices[i] = NewVertex(idx, DefaultColour)
	}
	return &Graph{vertices: vertices, size: len(indices), state: StateChaos}
}

// FromColourList returns an index-ordered graph with one vertex per entry,
// colored accordingly.
func FromColourList(colours []Colour) *Graph {
	g := NewOrdered(len(colours))
	for i, c := range colours {
		g.vertices[i].Colour = c
	}
	return g
}

// Size returns the number of vertices.
func (g *Graph) Size() int { return g.size }

// EdgeCount returns the number of stored arcs. An undirected edge counts
// twice.
func (g *Graph) EdgeCount() int { return g.edgeCount }

// UndirectedEdgeCount returns the number of distinct vertex pairs joined by
// at least one arc. A pair stored in both directions counts once.
func (g *Graph) UndirectedEdgeCount() int {
	count := 0
	g.IterateEdges(func(start, end int) {
		if start <= end || !g.HasEdge(end, start) {
			count++
		}
	})
	return count
}

// State returns the current vertex arrangement.
func (g *Graph) State() State { return g.state }

// Vertices exposes the vertex slice in its current arrangement. Callers must
// not mutate it.
func (g *Graph) Vertices() []Vertex { return g.vertices }

// IsSparse reports whether the graph has fewer than half the edges a complete
// graph on the same vertices would have.
func (g *Graph) IsSparse() bool {
	return g.edgeCount < g.size*(g.size-1)/4
}

func (g *Graph) vertexAt(index int) (*Vertex, error) {
	if g.state == StateIndexOrdered {
		if index < 0 || index >= len(g.vertices) {
			return nil, errors.New(errors.ErrCodeOutOfRange, "vertex %d out of range [0, %d)", index, len(g.vertices))
		}
		return &g.vertices[index], nil
	}
	for i := range g.vertices {
		if g.vertices[i].Index == index {
			return &g.vertices[i], nil
		}
	}
	return nil, errors.New(errors.ErrCodeOutOfRange, "vertex %d not in graph", index)
}

// SetVertex replaces the vertex with the same index.
func (g *Graph) SetVertex(v Vertex) error {
	slot, err := g.vertexAt(v.Index)
	if err != nil {
		return err
	}
	*slot = v
	if g.state != StateIndexOrdered && g.state != StateFixed {
		g.state = StateChaos
	}
	return nil
}

// AddArc inserts the directed edge start→end.
func (g *Graph) AddArc(start, end int) error {
	v, err := g.vertexAt(start)
	if err != nil {
		return err
	}
	v.EdgesTo = append(v.EdgesTo, end)
	g.edgeCount++
	g.minimized = false
	return nil
}

// AddEdge inserts the undirected edge between start and end as two arcs.
func (g *Graph) AddEdge(start, end int) error {
	if err := g.AddArc(start, end); err != nil {
		return err
	}
	return g.AddArc(end, start)
}

// HasEdge reports whether the arc start→end exists. After Minimize the
// adjacency lists are sorted and the lookup is a binary search; the encoder
// depends on this being cheap.
func (g *Graph) HasEdge(start, end int) bool {
	v, err := g.vertexAt(start)
	if err != nil {
		return false
	}
	if g.minimized {
		_, found := slices.BinarySearch(v.EdgesTo, end)
		return found
	}
	return slices.Contains(v.EdgesTo, end)
}

// IterateEdges calls f once per stored arc, in vertex slice order.
func (g *Graph) IterateEdges(f func(start, end int)) {
	for i := range g.vertices {
		for _, end := range g.vertices[i].EdgesTo {
			f(g.vertices[i].Index, end)
		}
	}
}

// Minimize sorts all adjacency lists and drops duplicate arcs.
func (g *Graph) Minimize() {
	total := 0
	for i := range g.vertices {
		v := &g.vertices[i]
		slices.Sort(v.EdgesTo)
		v.EdgesTo = slices.Compact(v.EdgesTo)
		total += len(v.EdgesTo)
	}
	g.edgeCount = total
	g.minimized = true
}

// SetColours assigns colours[i] to vertex i. The slice may be shorter than
// the graph; remaining vertices keep their color.
func (g *Graph) SetColours(colours []Colour) error {
	for i, c := range colours {
		v, err := g.vertexAt(i)
		if err != nil {
			return err
		}
		v.Colour = c
	}
	return nil
}

// SetColour recolors a single vertex.
func (g *Graph) SetColour(index int, colour Colour) error {
	v, err := g.vertexAt(index)
	if err != nil {
		return err
	}
	v.Colour = colour
	return nil
}

// Colours returns the color of each vertex, indexed by vertex id.
func (g *Graph) Colours() []Colour {
	colours := make([]Colour, g.size)
	for i := range g.vertices {
		colours[g.vertices[i].Index] = g.vertices[i].Colour
	}
	return colours
}

// MaxColour returns the largest explicitly assigned color, or 0 when every
// vertex still has DefaultColour.
func (g *Graph) MaxColour() Colour {
	max := 0
	for i := range g.vertices {
		if c := g.vertices[i].Colour; c != DefaultColour && c > max {
			max = c
		}
	}
	return max
}

// Order rearranges the vertex slice into the given index order and pins it.
func (g *Graph) Order(order []int) error {
	ordered := make([]Vertex, 0, len(order))
	for _, idx := range order {
		v, err := g.vertexAt(idx)
		if err != nil {
			return err
		}
		ordered = append(ordered, *v)
	}
	g.vertices = ordered
	g.state = StateFixed
	return nil
}

// GroupColours stably arranges vertices into color classes. A no-op unless
// the graph is index-ordered or in chaos.
func (g *Graph) GroupColours() {
	switch g.state {
	case StateIndexOrdered:
		sort.SliceStable(g.vertices, func(i, j int) bool {
			return g.vertices[i].Colour < g.vertices[j].Colour
		})
		g.state = StateColourGroupedOrdered
	case StateChaos:
		sort.Slice(g.vertices, func(i, j int) bool {
			return g.vertices[i].Colour < g.vertices[j].Colour
		})
		g.state = StateColourGrouped
	}
}

// Sort restores index order unless already there.
func (g *Graph) Sort() {
	if g.state == StateIndexOrdered {
		return
	}
	sort.Slice(g.vertices, func(i, j int) bool {
		return g.vertices[i].Index < g.vertices[j].Index
	})
	g.state = StateIndexOrdered
}

// OrderPartition produces the vertex-order and color-partition arrays the
// automorphism engine consumes: vertices arranged into color classes, and a
// partition array holding 1 for every vertex except the last of its class,
// which holds 0.
func (g *Graph) OrderPartition() (order []int, partition []int) {
	if g.state != StateFixed {
		g.Sort()
		g.GroupColours()
	}

	order = make([]int, 0, len(g.vertices))
	partition = make([]int, len(g.vertices))
	for i := range g.vertices {
		order = append(order, g.vertices[i].Index)
		partition[i] = g.vertices[i].Colour
	}

	last := Colour(-1)
	for i := len(partition) - 1; i >= 0; i-- {
		if partition[i] != last {
			last = partition[i]
			partition[i] = 0
		} else {
			partition[i] = 1
		}
	}
	return order, partition
}
