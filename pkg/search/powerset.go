package search

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/firefighterduck/dqg/pkg/encoding"
	"github.com/firefighterduck/dqg/pkg/errors"
	"github.com/firefighterduck/dqg/pkg/graph"
	"github.com/firefighterduck/dqg/pkg/perm"
	"github.com/firefighterduck/dqg/pkg/quotient"
	"github.com/firefighterduck/dqg/pkg/sat"
)

// maxPowersetGenerators bounds the bitmask subset counter.
const maxPowersetGenerators = 63

// subsetOf picks the generators whose bit is set in mask.
func subsetOf(generators []*perm.Permutation, mask uint64) []*perm.Permutation {
	var subset []*perm.Permutation
	for i := range generators {
		if mask&(1<<uint(i)) != 0 {
			subset = append(subset, generators[i])
		}
	}
	return subset
}

// EachSubset calls f with every non-empty generator subset.
func EachSubset(generators []*perm.Permutation, f func([]*perm.Permutation) error) error {
	if len(generators) > maxPowersetGenerators {
		return errors.New(errors.ErrCodeInvalidConfig, "powerset search supports at most %d generators, got %d",
			maxPowersetGenerators, len(generators))
	}
	for mask := uint64(1); mask < uint64(1)<<uint(len(generators)); mask++ {
		if err := f(subsetOf(generators, mask)); err != nil {
			return err
		}
	}
	return nil
}

// descriptiveSubset checks whether the subset induces a descriptive quotient.
func descriptiveSubset(g *graph.Graph, subset []*perm.Permutation, oracle sat.Oracle) (bool, error) {
	orbits, err := quotient.Generate(subset)
	if err != nil {
		return false, err
	}
	q := quotient.FromGraphOrbits(g, orbits)
	problem, err := encoding.EncodeProblem(q, g)
	if err != nil {
		return false, err
	}
	if problem == nil {
		return true, nil
	}
	model, err := oracle.Solve(problem.Formula)
	if err != nil {
		return false, err
	}
	return model != nil, nil
}

// FindDescriptiveSubset fans out over the generator powerset looking for any
// subset whose quotient is descriptive. Subsets are solved in parallel with
// first-match-wins semantics; a nil result with nil error means no subset
// qualifies.
func FindDescriptiveSubset(ctx context.Context, g *graph.Graph, generators []*perm.Permutation, oracle sat.Oracle) ([]*perm.Permutation, error) {
	if len(generators) > maxPowersetGenerators {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "powerset search supports at most %d generators, got %d",
			maxPowersetGenerators, len(generators))
	}

	grp, grpCtx := errgroup.WithContext(ctx)
	jobs := make(chan []*perm.Permutation)
	hits := make(chan []*perm.Permutation, 1)

	grp.Go(func() error {
		defer close(jobs)
		for mask := uint64(1); mask < uint64(1)<<uint(len(generators)); mask++ {
			select {
			case jobs <- subsetOf(generators, mask):
			case <-grpCtx.Done():
				return grpCtx.Err()
			}
		}
		return nil
	})

	for i := 0; i < runtime.NumCPU(); i++ {
		grp.Go(func() error {
			for subset := range jobs {
				descriptive, err := descriptiveSubset(g, subset, oracle)
				if err != nil {
					return err
				}
				if descriptive {
					select {
					case hits <- subset:
					default:
					}
					return errFoundSubset
				}
			}
			return nil
		})
	}

	err := grp.Wait()
	select {
	case subset := <-hits:
		return subset, nil
	default:
	}
	if err != nil && err != errFoundSubset {
		return nil, err
	}
	return nil, nil
}

var errFoundSubset = errors.New(errors.ErrCodeInternal, "descriptive subset found")

// BestQuotient builds the quotient of every generator subset and keeps the
// one the metric ranks highest. Walks the powerset sequentially since every
// candidate has to be compared anyway.
func BestQuotient(g *graph.Graph, generators []*perm.Permutation, metric Metric) (*quotient.QuotientGraph, error) {
	var best *quotient.QuotientGraph
	err := EachSubset(generators, func(subset []*perm.Permutation) error {
		orbits, err := quotient.Generate(subset)
		if err != nil {
			return err
		}
		q := quotient.FromGraphOrbits(g, orbits)
		if best == nil || metric.Compare(q, best) < 0 {
			best = q
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if best == nil {
		return nil, errors.New(errors.ErrCodeEmptyInput, "no generators to build quotients from")
	}
	return best, nil
}
