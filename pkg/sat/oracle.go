// Package sat wraps the satisfiability oracle and the external
// minimal-unsatisfiable-subset tool behind small interfaces so the search
// loop never touches solver internals.
package sat

import (
	"github.com/go-air/gini"
	"github.com/go-air/gini/z"

	"github.com/firefighterduck/dqg/pkg/encoding"
)

// Model exposes the truth value of each positive literal of a satisfying
// assignment.
type Model interface {
	Value(lit int) bool
}

// Oracle decides satisfiability of a CNF formula. A nil model with a nil
// error means unsatisfiable.
type Oracle interface {
	Solve(formula encoding.Formula) (Model, error)
}

// GiniOracle runs the in-process gini solver. A fresh solver instance is
// built per call, matching the per-iteration lifecycle of formulas.
type GiniOracle struct{}

type giniModel struct {
	g *gini.Gini
}

func (m giniModel) Value(lit int) bool {
	return m.g.Value(z.Dimacs2Lit(lit))
}

// Solve feeds the clauses into gini and runs the solver to completion.
func (GiniOracle) Solve(formula encoding.Formula) (Model, error) {
	g := gini.New()
	for _, clause := range formula {
		for _, lit := range clause {
			g.Add(z.Dimacs2Lit(lit))
		}
		g.Add(z.LitNull)
	}

	if g.Solve() != 1 {
		return nil, nil
	}
	return giniModel{g: g}, nil
}
