package search

import (
	"context"

	"github.com/firefighterduck/dqg/pkg/encoding"
	"github.com/firefighterduck/dqg/pkg/graph"
	"github.com/firefighterduck/dqg/pkg/perm"
	"github.com/firefighterduck/dqg/pkg/quotient"
	"github.com/firefighterduck/dqg/pkg/sat"
)

// DescriptiveClass builds the quotient of one generator list and reports
// whether it is descriptive.
func DescriptiveClass(g *graph.Graph, generators []*perm.Permutation, oracle sat.Oracle) (quotient.Orbits, bool, error) {
	orbits, err := quotient.Generate(generators)
	if err != nil {
		return nil, false, err
	}
	q := quotient.FromGraphOrbits(g, orbits)
	problem, err := encoding.EncodeProblem(q, g)
	if err != nil {
		return nil, false, err
	}
	if problem == nil {
		return orbits, true, nil
	}
	model, err := oracle.Solve(problem.Formula)
	if err != nil {
		return nil, false, err
	}
	return orbits, model != nil, nil
}

// FindDescriptiveClass walks conjugacy-class representatives in order and
// returns the orbit partition of the first one whose quotient is
// descriptive. A nil partition with nil error means no class qualified.
func FindDescriptiveClass(ctx context.Context, g *graph.Graph, representatives [][]*perm.Permutation, oracle sat.Oracle) (quotient.Orbits, error) {
	for _, generators := range representatives {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		orbits, descriptive, err := DescriptiveClass(g, generators, oracle)
		if err != nil {
			return nil, err
		}
		if descriptive {
			return orbits, nil
		}
	}
	return nil, nil
}
