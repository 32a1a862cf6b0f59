package encoding

import (
	"fmt"
	"io"
	"strconv"

	"github.com/firefighterduck/dqg/pkg/errors"
	"github.com/firefighterduck/dqg/pkg/graph"
	"github.com/firefighterduck/dqg/pkg/quotient"
)

// Clause is a disjunction of signed literals.
type Clause []int

// Formula is a conjunction of clauses in construction order.
type Formula []Clause

// Problem is one encoded descriptiveness decision problem. The dictionary is
// kept so a satisfying assignment can be decoded and a clause core translated
// back to orbits.
type Problem struct {
	Formula Formula
	Dict    *Dictionary
	// ConstraintOffset is the index of the first descriptive-constraint
	// clause; everything before it is transversal structure.
	ConstraintOffset int
}

// encodeTransversal emits the exactly-one clauses for a single orbit:
// pairwise at-most-one over all members, then the at-least-one disjunction.
// A singleton orbit collapses to one unit clause.
func encodeTransversal(orbit quotient.OrbitSet, dict *Dictionary) (Formula, error) {
	lits := make([]int, 0, len(orbit.Members))
	for _, member := range orbit.Members {
		lit, err := dict.Literal(orbit.ID, member)
		if err != nil {
			return nil, err
		}
		lits = append(lits, lit)
	}

	var formula Formula
	for i := 0; i < len(lits); i++ {
		for j := i + 1; j < len(lits); j++ {
			formula = append(formula, Clause{-lits[i], -lits[j]})
		}
	}
	formula = append(formula, Clause(lits))
	return formula, nil
}

// encodeConstraints emits one negative binary clause per quotient edge and
// member pair that is NOT adjacent in the original graph. Adjacent pairs need
// no clause: picking them already realizes the quotient edge. This skip keeps
// the formula proportional to the missing-edge density.
func encodeConstraints(q *quotient.QuotientGraph, g *graph.Graph, dict *Dictionary) (Formula, error) {
	groups := q.Orbits.Group()
	members := make(map[int][]int, len(groups))
	for _, group := range groups {
		members[group.ID] = group.Members
	}

	var formula Formula
	for _, edge := range q.Edges() {
		startMembers, ok := members[edge.Start]
		if !ok {
			return nil, errors.New(errors.ErrCodeUnknownOrbit, "quotient edge references unknown orbit %d", edge.Start)
		}
		endMembers, ok := members[edge.End]
		if !ok {
			return nil, errors.New(errors.ErrCodeUnknownOrbit, "quotient edge references unknown orbit %d", edge.End)
		}

		for _, v1 := range startMembers {
			for _, v2 := range endMembers {
				if g.HasEdge(v1, v2) {
					continue
				}
				l1, err := dict.Literal(edge.Start, v1)
				if err != nil {
					return nil, err
				}
				l2, err := dict.Literal(edge.End, v2)
				if err != nil {
					return nil, err
				}
				formula = append(formula, Clause{-l1, -l2})
			}
		}
	}
	return formula, nil
}

// EncodeProblem builds the CNF for the quotient's descriptiveness. A nil
// problem means the quotient is trivially descriptive: no constraint clause
// was needed, so the oracle must not run at all.
func EncodeProblem(q *quotient.QuotientGraph, g *graph.Graph) (*Problem, error) {
	dict := NewDictionary()

	var transversal Formula
	for _, orbit := range q.Orbits.Group() {
		clauses, err := encodeTransversal(orbit, dict)
		if err != nil {
			return nil, err
		}
		transversal = append(transversal, clauses...)
	}

	constraints, err := encodeConstraints(q, g, dict)
	if err != nil {
		return nil, err
	}
	if len(constraints) == 0 {
		return nil, nil
	}

	return &Problem{
		Formula:          append(transversal, constraints...),
		Dict:             dict,
		ConstraintOffset: len(transversal),
	}, nil
}

// WriteDIMACS serializes the formula in DIMACS CNF: a "p cnf" header, then
// one zero-terminated clause per line. This is the input format of the
// external minimal-unsatisfiable-subset tool.
func WriteDIMACS(w io.Writer, formula Formula, variables int) error {
	if _, err := fmt.Fprintf(w, "p cnf %d %d\n", variables, len(formula)); err != nil {
		return errors.Wrap(errors.ErrCodeSubprocess, err, "writing DIMACS header")
	}
	buf := make([]byte, 0, 64)
	for _, clause := range formula {
		buf = buf[:0]
		for _, lit := range clause {
			buf = strconv.AppendInt(buf, int64(lit), 10)
			buf = append(buf, ' ')
		}
		buf = append(buf, '0', '\n')
		if _, err := w.Write(buf); err != nil {
			return errors.Wrap(errors.ErrCodeSubprocess, err, "writing DIMACS clause")
		}
	}
	return nil
}
