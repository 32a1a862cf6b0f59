package search

import (
	"github.com/firefighterduck/dqg/pkg/errors"
	"github.com/firefighterduck/dqg/pkg/graph"
	"github.com/firefighterduck/dqg/pkg/perm"
	"github.com/firefighterduck/dqg/pkg/quotient"
)

// Core is the offending orbit subset whose induced sub-quotient is
// non-descriptive.
type Core []quotient.OrbitSet

// OrbitIDs returns the core's orbit ids in group order.
func (c Core) OrbitIDs() []int {
	ids := make([]int, 0, len(c))
	for _, orbit := range c {
		ids = append(ids, orbit.ID)
	}
	return ids
}

// Policy selects how a non-descriptive core is broken between iterations.
type Policy int

const (
	// PolicyNone reports the non-descriptive result without repairing.
	PolicyNone Policy = iota
	// PolicyRecolor splits core orbits by assigning fresh colors, which
	// invalidates the generators and forces recomputation.
	PolicyRecolor
	// PolicyPowerGenerators replaces implicated generators by rising powers
	// of themselves.
	PolicyPowerGenerators
	// PolicyMergeGenerators folds all implicated generators into one.
	PolicyMergeGenerators
)

func (p Policy) String() string {
	switch p {
	case PolicyNone:
		return "none"
	case PolicyRecolor:
		return "recolor"
	case PolicyPowerGenerators:
		return "pow_gen"
	case PolicyMergeGenerators:
		return "merge_gen"
	default:
		return "unknown"
	}
}

// ParsePolicy maps a CLI/config name to a policy.
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case "none", "":
		return PolicyNone, nil
	case "recolor":
		return PolicyRecolor, nil
	case "pow_gen":
		return PolicyPowerGenerators, nil
	case "merge_gen":
		return PolicyMergeGenerators, nil
	default:
		return PolicyNone, errors.New(errors.ErrCodeInvalidConfig, "unknown core policy %q", name)
	}
}

// Recolor gives every core orbit of size greater than one a fresh color,
// assigned to all members but the first. Returns whether anything changed;
// an unchanged graph means there is nothing left to break.
func Recolor(g *graph.Graph, core Core) (bool, error) {
	recoloured := false
	next := g.MaxColour()
	for _, orbit := range core {
		if len(orbit.Members) <= 1 {
			continue
		}
		next++
		for _, vertex := range orbit.Members[1:] {
			if err := g.SetColour(vertex, next); err != nil {
				return false, err
			}
			recoloured = true
		}
	}
	return recoloured, nil
}

// implicated reports whether the generator maps some core vertex to a
// different vertex of the same orbit.
func implicated(gen *perm.Permutation, core Core, orbits quotient.Orbits) (bool, error) {
	for _, orbit := range core {
		for _, vertex := range orbit.Members {
			image, ok := gen.Evaluate(vertex)
			if !ok {
				return false, errors.New(errors.ErrCodeSizeMismatch, "core vertex %d outside generator domain", vertex)
			}
			if image == vertex {
				continue
			}
			imageOrbit, err := orbits.Of(image)
			if err != nil {
				return false, err
			}
			if imageOrbit == orbit.ID {
				return true, nil
			}
		}
	}
	return false, nil
}

// PowerState carries the per-generator exponents across iterations. The
// exponents deliberately never reset.
type PowerState struct {
	base      []*perm.Permutation
	exponents []int
}

// NewPowerState starts tracking the given generators with exponent one each.
func NewPowerState(generators []*perm.Permutation) *PowerState {
	exponents := make([]int, len(generators))
	for i := range exponents {
		exponents[i] = 1
	}
	return &PowerState{base: generators, exponents: exponents}
}

// Exponents returns a copy of the current per-generator exponents.
func (s *PowerState) Exponents() []int {
	out := make([]int, len(s.exponents))
	copy(out, s.exponents)
	return out
}

// PowerGenerators raises the exponent of every generator implicated in the
// core and returns each surviving base generator taken to its exponent.
// Generators whose power degenerates to the identity are dropped for good.
func (s *PowerState) PowerGenerators(core Core, orbits quotient.Orbits) ([]*perm.Permutation, error) {
	var (
		survivorsBase []*perm.Permutation
		survivorsExp  []int
		next          []*perm.Permutation
	)
	for i, gen := range s.base {
		hit, err := implicated(gen, core, orbits)
		if err != nil {
			return nil, err
		}
		if hit {
			s.exponents[i]++
		}

		powered := gen.Power(s.exponents[i])
		if powered.IsIdentity() {
			continue
		}
		survivorsBase = append(survivorsBase, gen)
		survivorsExp = append(survivorsExp, s.exponents[i])
		next = append(next, powered)
	}
	s.base = survivorsBase
	s.exponents = survivorsExp
	return next, nil
}

// MergeGenerators folds all generators implicated in the core into a single
// one by sequential composition, left to right. Generators outside the core
// pass through unchanged, and a lone implicated generator stays as it is.
func MergeGenerators(generators []*perm.Permutation, core Core, orbits quotient.Orbits) ([]*perm.Permutation, error) {
	var merged, rest []*perm.Permutation
	var folded *perm.Permutation
	for _, gen := range generators {
		hit, err := implicated(gen, core, orbits)
		if err != nil {
			return nil, err
		}
		if !hit {
			rest = append(rest, gen)
			continue
		}
		if folded == nil {
			folded = gen
			continue
		}
		folded, err = perm.Merge(folded, gen)
		if err != nil {
			return nil, err
		}
	}
	if folded != nil {
		merged = append(merged, folded)
	}
	return append(merged, rest...), nil
}
