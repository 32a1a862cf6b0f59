// Package quotient folds automorphism generators into vertex orbits and
// builds the orbit-level quotient graph the SAT encoder works on.
package quotient

import (
	"fmt"
	"sort"
	"strings"

	"github.com/firefighterduck/dqg/pkg/errors"
	"github.com/firefighterduck/dqg/pkg/perm"
)

// Excluded marks orbit entries masked out by an induced sub-quotient. The
// partition keeps its full length so vertex indices stay aligned.
const Excluded = -1

// Orbits maps each vertex to its orbit id. The id is always the smallest
// vertex index in the orbit, so ids key directly into vertex space.
type Orbits []int

// Identity returns the partition where every vertex is its own orbit.
func Identity(n int) Orbits {
	orbits := make(Orbits, n)
	for i := range orbits {
		orbits[i] = i
	}
	return orbits
}

// Of returns the orbit id of the given vertex.
func (o Orbits) Of(vertex int) (int, error) {
	if vertex < 0 || vertex >= len(o) {
		return 0, errors.New(errors.ErrCodeUnknownOrbit, "vertex %d not part of the orbit partition", vertex)
	}
	return o[vertex], nil
}

// applyGenerator unions the orbits of every vertex with those of its image,
// keeping the smaller id. The partition stays resolved to minimal members.
func applyGenerator(gen *perm.Permutation, orbits Orbits) error {
	if gen.Size() != len(orbits) {
		return errors.New(errors.ErrCodeSizeMismatch,
			"generator acts on %d vertices, orbit partition has %d", gen.Size(), len(orbits))
	}

	find := func(v int) int {
		for orbits[v] != v {
			v = orbits[v]
		}
		return v
	}

	for v, image := range gen.Images() {
		if image == v {
			continue
		}
		r1, r2 := find(v), find(image)
		if r1 < r2 {
			orbits[r2] = r1
		} else if r2 < r1 {
			orbits[r1] = r2
		}
	}
	for v := range orbits {
		orbits[v] = find(v)
	}
	return nil
}

// Generate folds a generator list into the orbit partition of their common
// action. The result is independent of generator order.
func Generate(generators []*perm.Permutation) (Orbits, error) {
	if len(generators) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyInput, "cannot generate orbits from an empty generator set")
	}

	orbits := Identity(generators[0].Size())
	for _, gen := range generators {
		if err := applyGenerator(gen, orbits); err != nil {
			return nil, err
		}
	}
	return orbits, nil
}

// OrbitSet is one orbit with its full membership, ordered by vertex index.
type OrbitSet struct {
	ID      int
	Members []int
}

// Group collects the partition into per-orbit member lists sorted by orbit
// id. Excluded entries are skipped.
func (o Orbits) Group() []OrbitSet {
	byID := make(map[int][]int)
	for vertex, orbit := range o {
		if orbit < 0 {
			continue
		}
		byID[orbit] = append(byID[orbit], vertex)
	}

	ids := make([]int, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	groups := make([]OrbitSet, 0, len(ids))
	for _, id := range ids {
		groups = append(groups, OrbitSet{ID: id, Members: byID[id]})
	}
	return groups
}

// NautyString renders the partition the way nauty prints orbits: singleton
// orbits as a bare id, larger orbits as their members followed by the orbit
// size in parentheses.
func (o Orbits) NautyString() string {
	groups := o.Group()
	parts := make([]string, 0, len(groups))
	for _, group := range groups {
		if len(group.Members) == 1 {
			parts = append(parts, fmt.Sprintf("%d", group.ID))
			continue
		}
		members := make([]string, 0, len(group.Members))
		for _, m := range group.Members {
			members = append(members, fmt.Sprintf("%d", m))
		}
		parts = append(parts, fmt.Sprintf("%s (%d)", strings.Join(members, " "), len(group.Members)))
	}
	return strings.Join(parts, "; ")
}
