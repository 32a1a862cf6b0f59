// Package perm implements the permutation algebra underlying automorphism
// generators: evaluation, composition, powers, merging, and canonical cycle
// decomposition.
//
// A Permutation is a bijection on the index range [0, n). Values are
// effectively immutable once built: every algebraic operation returns a new
// Permutation and never mutates its operands. The cycle decomposition is
// computed lazily on first use and cached.
package perm

import (
	"slices"

	"github.com/firefighterduck/dqg/pkg/errors"
)

// Permutation maps each index in [0, n) to its image.
// The zero value is not usable - use New, Identity, or FromCycles.
type Permutation struct {
	images []int
	cycles [][]int // non-trivial cycles, nil until computed
	solved bool    // whether cycles has been computed (it may legitimately be empty)
}

// New creates a permutation from an image array. The slice is cloned, so the
// caller may reuse its argument. New does not verify the bijection property -
// use Validate when the images come from an external source.
func New(images []int) *Permutation {
	return &Permutation{images: slices.Clone(images)}
}

// Identity returns the identity permutation on [0, n).
func Identity(n int) *Permutation {
	images := make([]int, n)
	for i := range images {
		images[i] = i
	}
	return &Permutation{images: images}
}

// FromCycles builds a permutation of the given size from cycle notation.
// Indices absent from every cycle are fixed points. Single-element cycles are
// permitted and act as fixed points.
func FromCycles(cycles [][]int, size int) *Permutation {
	images := make([]int, size)
	for i := range images {
		images[i] = i
	}
	for _, cycle := range cycles {
		if len(cycle) == 0 {
			continue
		}
		last := cycle[0]
		for _, cur := range cycle[1:] {
			images[last] = cur
			last = cur
		}
		images[last] = cycle[0]
	}
	return &Permutation{images: images}
}

// Size returns the size of the permutation's domain.
func (p *Permutation) Size() int { return len(p.images) }

// Images returns a copy of the raw image array.
func (p *Permutation) Images() []int { return slices.Clone(p.images) }

// Evaluate returns the image of v, or false if v is outside the domain.
func (p *Permutation) Evaluate(v int) (int, bool) {
	if v < 0 || v >= len(p.images) {
		return 0, false
	}
	return p.images[v], true
}

// IsIdentity reports whether the permutation fixes every point.
func (p *Permutation) IsIdentity() bool {
	for i, img := range p.images {
		if i != img {
			return false
		}
	}
	return true
}

// Validate checks the bijection invariant and returns a domain error if any
// image is out of range or duplicated.
func (p *Permutation) Validate() error {
	seen := make([]bool, len(p.images))
	for i, img := range p.images {
		if img < 0 || img >= len(p.images) {
			return errors.New(errors.ErrCodeOutOfRange, "image %d of %d out of range [0,%d)", img, i, len(p.images))
		}
		if seen[img] {
			return errors.New(errors.ErrCodeInvalidGraph, "image %d appears twice", img)
		}
		seen[img] = true
	}
	return nil
}

// Compose returns the standard composition f.g where g is applied first:
// (f.g)(v) = f(g(v)). Returns a domain error on size mismatch.
func Compose(f, g *Permutation) (*Permutation, error) {
	if f.Size() != g.Size() {
		return nil, errors.New(errors.ErrCodeSizeMismatch, "cannot compose permutations of sizes %d and %d", f.Size(), g.Size())
	}
	images := make([]int, len(g.images))
	for v, img := range g.images {
		images[v] = f.images[img]
	}
	return &Permutation{images: images}, nil
}

// Merge folds q onto p for generator merging: the result applies p first and
// q afterwards, i.e. Merge(p, q)(v) = q(p(v)). The argument order matches the
// sequential left-to-right fold used by the merge-generators repair policy.
func Merge(p, q *Permutation) (*Permutation, error) {
	return Compose(q, p)
}

// Power returns p composed with itself until it has been applied n times.
// Exponents of one or less return a copy of p, matching the repeated
// composition loop this mirrors.
func (p *Permutation) Power(n int) *Permutation {
	result := &Permutation{images: slices.Clone(p.images)}
	for i := 1; i < n; i++ {
		for v, img := range result.images {
			result.images[v] = p.images[img]
		}
	}
	return result
}

// PowerMod is Power with the exponent reduced modulo the permutation's order,
// avoiding useless full walks around each cycle.
func (p *Permutation) PowerMod(n int) *Permutation {
	if order := p.Order(); order > 0 {
		n %= order
	}
	return p.Power(n)
}

// Order returns the size of the cyclic subgroup generated by the permutation:
// the least common multiple of all cycle lengths. The identity has order 1.
func (p *Permutation) Order() int {
	order := 1
	for _, cycle := range p.Cycles() {
		order = lcm(order, len(cycle))
	}
	return order
}

// Cycles returns the non-trivial cycles (length > 1) of the permutation in
// canonical order: cycles appear by increasing minimal element and each cycle
// starts at its minimum. The decomposition is computed once and cached; the
// returned slices must not be modified.
func (p *Permutation) Cycles() [][]int {
	if !p.solved {
		p.cycles = p.computeCycles()
		p.solved = true
	}
	return p.cycles
}

func (p *Permutation) computeCycles() [][]int {
	var cycles [][]int
	visited := make([]bool, len(p.images))

	// Walking from the smallest unvisited moved vertex yields each cycle
	// already rotated to its minimal element.
	for v, img := range p.images {
		if visited[v] || img == v {
			continue
		}
		cycle := []int{v}
		visited[v] = true
		for cur := img; cur != v; cur = p.images[cur] {
			cycle = append(cycle, cur)
			visited[cur] = true
		}
		cycles = append(cycles, cycle)
	}
	return cycles
}

func lcm(a, b int) int {
	return a / gcd(a, b) * b
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
