package encoding

import (
	"sort"

	"github.com/firefighterduck/dqg/pkg/errors"
	"github.com/firefighterduck/dqg/pkg/graph"
	"github.com/firefighterduck/dqg/pkg/quotient"
)

// Transversal is one chosen vertex per orbit, sorted by orbit id.
type Transversal []OrbitVertex

// DecodeTransversal recovers the transversal from a satisfying assignment:
// keep the true literals and invert the dictionary. The problem's dictionary
// is destroyed in the process.
func DecodeTransversal(p *Problem, value func(lit int) bool) Transversal {
	inverse := p.Dict.Destroy()

	var transversal Transversal
	for lit := 1; lit <= len(inverse); lit++ {
		if value(lit) {
			transversal = append(transversal, inverse[lit])
		}
	}
	sort.Slice(transversal, func(i, j int) bool {
		return transversal[i].Orbit < transversal[j].Orbit
	})
	return transversal
}

// Vertex returns the chosen representative of the given orbit.
func (t Transversal) Vertex(orbit int) (int, error) {
	idx := sort.Search(len(t), func(i int) bool { return t[i].Orbit >= orbit })
	if idx == len(t) || t[idx].Orbit != orbit {
		return 0, errors.New(errors.ErrCodeUnknownOrbit, "transversal holds no vertex for orbit %d", orbit)
	}
	return t[idx].Vertex, nil
}

// Consistent checks the transversal against the original graph: every
// quotient edge must connect the two chosen representatives. This validates a
// solver model independently of the encoding.
func (t Transversal) Consistent(g *graph.Graph, q *quotient.QuotientGraph) (bool, error) {
	for _, edge := range q.Edges() {
		start, err := t.Vertex(edge.Start)
		if err != nil {
			return false, err
		}
		end, err := t.Vertex(edge.End)
		if err != nil {
			return false, err
		}
		if !g.HasEdge(start, end) {
			return false, nil
		}
	}
	return true, nil
}
