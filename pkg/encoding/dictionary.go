// Package encoding turns a quotient graph into a CNF formula that is
// satisfiable exactly when the quotient is descriptive: some choice of one
// vertex per orbit induces every quotient edge as a real edge.
package encoding

import (
	"github.com/firefighterduck/dqg/pkg/errors"
)

// MaxLiteral is the largest variable id the solver accepts. Allocating past
// it is a configuration error, not a recoverable condition.
const MaxLiteral = 1<<28 - 1

// OrbitVertex is one (orbit, vertex) pair a literal stands for.
type OrbitVertex struct {
	Orbit  int
	Vertex int
}

// Dictionary lazily maps (orbit, vertex) pairs to positive literals. It is
// scoped to one encoding call; packing orbit and vertex into one int64 key
// keeps lookups collision free.
type Dictionary struct {
	counter    int
	literalMap map[int64]int
}

// NewDictionary returns an empty dictionary. Literal ids start at 1.
func NewDictionary() *Dictionary {
	return &Dictionary{counter: 1, literalMap: make(map[int64]int)}
}

func pairing(orbit, vertex int) int64 {
	return int64(orbit)<<32 | int64(vertex)
}

// Literal returns the literal for the pair, allocating a fresh one on first
// use.
func (d *Dictionary) Literal(orbit, vertex int) (int, error) {
	key := pairing(orbit, vertex)
	if lit, ok := d.literalMap[key]; ok {
		return lit, nil
	}
	if d.counter >= MaxLiteral {
		return 0, errors.New(errors.ErrCodeLiteralOverflow,
			"encoding needs more than %d variables", MaxLiteral)
	}
	lit := d.counter
	d.counter++
	d.literalMap[key] = lit
	return lit, nil
}

// VariableCount returns how many literals have been allocated.
func (d *Dictionary) VariableCount() int {
	return d.counter - 1
}

// Destroy consumes the dictionary into its inverse: literal to (orbit,
// vertex). The dictionary must not be used afterwards. The core translation
// of a minimal unsatisfiable subset needs this direction.
func (d *Dictionary) Destroy() map[int]OrbitVertex {
	inverse := make(map[int]OrbitVertex, len(d.literalMap))
	for key, lit := range d.literalMap {
		inverse[lit] = OrbitVertex{Orbit: int(key >> 32), Vertex: int(key & 0xffffffff)}
	}
	d.literalMap = nil
	return inverse
}
