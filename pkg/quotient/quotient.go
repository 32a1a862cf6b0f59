package quotient

import (
	"sort"

	"github.com/firefighterduck/dqg/pkg/errors"
	"github.com/firefighterduck/dqg/pkg/graph"
)

// Edge is one quotient-graph edge between two orbit ids.
type Edge struct {
	Start int
	End   int
}

// QuotientGraph is the graph over orbits: each orbit collapses to the vertex
// carrying its id, and two orbits are adjacent when any of their members are
// adjacent in the original graph. It keeps the underlying partition so orbit
// membership stays available to the encoder.
type QuotientGraph struct {
	Graph  *graph.Graph
	Orbits Orbits
}

// FromGraphOrbits builds the quotient of the given graph under the given
// partition. Intra-orbit edges are dropped and duplicate cross-orbit edges
// deduplicated. An empty partition yields a single isolated vertex.
func FromGraphOrbits(g *graph.Graph, orbits Orbits) *QuotientGraph {
	groups := orbits.Group()
	if len(groups) == 0 {
		return &QuotientGraph{Graph: graph.NewWithIndices([]int{0}), Orbits: orbits}
	}

	ids := make([]int, 0, len(groups))
	position := make(map[int]int, len(groups))
	for i, group := range groups {
		ids = append(ids, group.ID)
		position[group.ID] = i
	}
	qg := graph.NewWithIndices(ids)

	g.IterateEdges(func(start, end int) {
		startOrbit, endOrbit := orbits[start], orbits[end]
		if startOrbit < 0 || endOrbit < 0 || startOrbit == endOrbit {
			return
		}
		// Arcs go to the slice positions directly so the builder does not
		// pay a vertex lookup per original edge.
		v := &qg.Vertices()[position[startOrbit]]
		v.EdgesTo = append(v.EdgesTo, endOrbit)
	})
	qg.Minimize()

	return &QuotientGraph{Graph: qg, Orbits: orbits}
}

// Edges lists the quotient edges in vertex slice order.
func (q *QuotientGraph) Edges() []Edge {
	var edges []Edge
	q.Graph.IterateEdges(func(start, end int) {
		edges = append(edges, Edge{Start: start, End: end})
	})
	return edges
}

// OrbitSizes returns the smallest and largest orbit cardinality.
func (q *QuotientGraph) OrbitSizes() (min, max int) {
	groups := q.Orbits.Group()
	if len(groups) == 0 {
		return 0, 0
	}
	min, max = len(groups[0].Members), len(groups[0].Members)
	for _, group := range groups[1:] {
		if n := len(group.Members); n < min {
			min = n
		} else if n > max {
			max = n
		}
	}
	return min, max
}

// InducedSubquotient restricts the quotient to the given orbit ids. Vertices
// outside the subset are marked Excluded in the partition rather than
// removed, so indices stay aligned for re-encoding against the original
// graph.
func (q *QuotientGraph) InducedSubquotient(orbitSubset []int) (*QuotientGraph, error) {
	subset := make([]int, len(orbitSubset))
	copy(subset, orbitSubset)
	sort.Ints(subset)

	included := make(map[int]bool, len(subset))
	for _, id := range subset {
		if id < 0 || id >= len(q.Orbits) {
			return nil, errors.New(errors.ErrCodeUnknownOrbit, "orbit %d not part of the quotient", id)
		}
		included[id] = true
	}

	orbits := make(Orbits, len(q.Orbits))
	for vertex, orbit := range q.Orbits {
		if included[orbit] {
			orbits[vertex] = orbit
		} else {
			orbits[vertex] = Excluded
		}
	}

	qg := graph.NewWithIndices(subset)
	position := make(map[int]int, len(subset))
	for i, id := range subset {
		position[id] = i
	}
	q.Graph.IterateEdges(func(start, end int) {
		if included[start] && included[end] {
			v := &qg.Vertices()[position[start]]
			v.EdgesTo = append(v.EdgesTo, end)
		}
	})
	qg.Minimize()

	return &QuotientGraph{Graph: qg, Orbits: orbits}, nil
}
