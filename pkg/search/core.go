package search

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/firefighterduck/dqg/pkg/encoding"
	"github.com/firefighterduck/dqg/pkg/errors"
	"github.com/firefighterduck/dqg/pkg/graph"
	"github.com/firefighterduck/dqg/pkg/quotient"
	"github.com/firefighterduck/dqg/pkg/sat"
)

// DefaultCoreSize is the orbit-subset size the brute-force search tries.
// Size four has been enough to hit a core in every input seen so far.
const DefaultCoreSize = 4

// coreFromIDs collects the orbit groups named by ids, which must exist in
// the partition.
func coreFromIDs(orbits quotient.Orbits, ids []int) (Core, error) {
	wanted := make(map[int]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var core Core
	for _, orbit := range orbits.Group() {
		if wanted[orbit.ID] {
			core = append(core, orbit)
			delete(wanted, orbit.ID)
		}
	}
	if len(wanted) > 0 {
		return nil, errors.New(errors.ErrCodeUnknownOrbit, "%d core orbits missing from partition", len(wanted))
	}
	return core, nil
}

// verifyNonDescriptive encodes the induced sub-quotient of the given orbit
// ids and reports whether it is still non-descriptive.
func verifyNonDescriptive(ctx context.Context, g *graph.Graph, q *quotient.QuotientGraph, oracle sat.Oracle, ids []int) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	induced, err := q.InducedSubquotient(ids)
	if err != nil {
		return false, err
	}
	problem, err := encoding.EncodeProblem(induced, g)
	if err != nil {
		return false, err
	}
	if problem == nil {
		// Trivially descriptive.
		return false, nil
	}
	model, err := oracle.Solve(problem.Formula)
	if err != nil {
		return false, err
	}
	return model == nil, nil
}

// BruteForceCore looks for an orbit subset of the given size whose induced
// sub-quotient is non-descriptive. Subsets are checked in parallel with
// first-match-wins semantics; which core wins when several exist is not
// deterministic. A nil core with a nil error means no subset of that size is
// a core.
func BruteForceCore(ctx context.Context, g *graph.Graph, q *quotient.QuotientGraph, oracle sat.Oracle, size int) (Core, error) {
	groups := q.Orbits.Group()
	if size <= 0 || size > len(groups) {
		return nil, nil
	}

	grp, grpCtx := errgroup.WithContext(ctx)
	jobs := make(chan []int)
	hits := make(chan []int, 1)

	grp.Go(func() error {
		defer close(jobs)
		return eachCombination(len(groups), size, func(subset []int) error {
			ids := make([]int, size)
			for i, pos := range subset {
				ids[i] = groups[pos].ID
			}
			select {
			case jobs <- ids:
				return nil
			case <-grpCtx.Done():
				return grpCtx.Err()
			}
		})
	})

	for i := 0; i < runtime.NumCPU(); i++ {
		grp.Go(func() error {
			for ids := range jobs {
				nonDescriptive, err := verifyNonDescriptive(grpCtx, g, q, oracle, ids)
				if err != nil {
					return err
				}
				if nonDescriptive {
					select {
					case hits <- ids:
					default:
					}
					// Cancels the group so the remaining subsets stop.
					return errFoundCore
				}
			}
			return nil
		})
	}

	err := grp.Wait()
	select {
	case ids := <-hits:
		return coreFromIDs(q.Orbits, ids)
	default:
	}
	if err != nil && err != errFoundCore {
		return nil, err
	}
	return nil, nil
}

var errFoundCore = errors.New(errors.ErrCodeInternal, "core found")

// eachCombination calls f with every size-k index combination of [0, n) in
// lexicographic order. The slice passed to f is reused between calls.
func eachCombination(n, k int, f func([]int) error) error {
	indices := make([]int, k)
	for i := range indices {
		indices[i] = i
	}
	for {
		if err := f(indices); err != nil {
			return err
		}
		i := k - 1
		for i >= 0 && indices[i] == n-k+i {
			i--
		}
		if i < 0 {
			return nil
		}
		indices[i]++
		for j := i + 1; j < k; j++ {
			indices[j] = indices[j-1] + 1
		}
	}
}

// MUSCore asks the external minimal-unsatisfiable-subset tool for a clause
// core and maps the surviving clauses back to orbit ids through the inverted
// dictionary. The result is re-verified against the oracle before it is
// trusted.
func MUSCore(ctx context.Context, g *graph.Graph, q *quotient.QuotientGraph, problem *encoding.Problem, tool *sat.MUSTool, oracle sat.Oracle) (Core, error) {
	indices, err := tool.MinimalCore(ctx, problem.Formula, problem.Dict.VariableCount())
	if err != nil {
		return nil, err
	}

	inverse := problem.Dict.Destroy()
	seen := make(map[int]bool)
	var ids []int
	for _, index := range indices {
		if index < 1 || index > len(problem.Formula) {
			return nil, errors.New(errors.ErrCodeParse, "clause index %d outside formula", index)
		}
		for _, literal := range problem.Formula[index-1] {
			variable := literal
			if variable < 0 {
				variable = -variable
			}
			pair, ok := inverse[variable]
			if !ok {
				return nil, errors.New(errors.ErrCodeUnknownOrbit, "literal %d missing from dictionary", variable)
			}
			if !seen[pair.Orbit] {
				seen[pair.Orbit] = true
				ids = append(ids, pair.Orbit)
			}
		}
	}
	sort.Ints(ids)

	nonDescriptive, err := verifyNonDescriptive(ctx, g, q, oracle, ids)
	if err != nil {
		return nil, err
	}
	if !nonDescriptive {
		return nil, errors.New(errors.ErrCodeSolver, "clause core maps to a descriptive orbit subset")
	}
	return coreFromIDs(q.Orbits, ids)
}
