package search

import (
	"github.com/firefighterduck/dqg/pkg/errors"
	"github.com/firefighterduck/dqg/pkg/quotient"
)

// Metric ranks quotient graphs; Compare returns a negative value when left
// should be preferred over right.
type Metric interface {
	Compare(left, right *quotient.QuotientGraph) int
	String() string
}

// ParseMetric maps a CLI/config name to a metric. "standard" selects no
// ranking at all and keeps the first quotient seen.
func ParseMetric(name string) (Metric, error) {
	switch name {
	case "least_orbits":
		return LeastOrbits{}, nil
	case "biggest_orbit":
		return BiggestOrbits{}, nil
	case "sparsity":
		return Sparsity{}, nil
	case "standard":
		return Standard{}, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown metric %q", name)
	}
}

// LeastOrbits prefers the quotient with the fewest orbit vertices.
type LeastOrbits struct{}

func (LeastOrbits) Compare(left, right *quotient.QuotientGraph) int {
	return left.Graph.Size() - right.Graph.Size()
}

func (LeastOrbits) String() string { return "least_orbits" }

// BiggestOrbits prefers the quotient whose largest orbit is biggest.
type BiggestOrbits struct{}

func (BiggestOrbits) Compare(left, right *quotient.QuotientGraph) int {
	_, leftBiggest := left.OrbitSizes()
	_, rightBiggest := right.OrbitSizes()
	return rightBiggest - leftBiggest
}

func (BiggestOrbits) String() string { return "biggest_orbit" }

// Sparsity prefers the quotient with the lowest edge-per-vertex ratio.
type Sparsity struct{}

func (Sparsity) Compare(left, right *quotient.QuotientGraph) int {
	// Cross-multiplied to stay in integers; sizes are never zero since an
	// empty partition still yields one quotient vertex.
	leftRatio := left.Graph.EdgeCount() * right.Graph.Size()
	rightRatio := right.Graph.EdgeCount() * left.Graph.Size()
	return leftRatio - rightRatio
}

func (Sparsity) String() string { return "sparsity" }

// Standard performs no real ranking; the incumbent always wins, so the
// first quotient seen is kept.
type Standard struct{}

func (Standard) Compare(_, _ *quotient.QuotientGraph) int { return 1 }

func (Standard) String() string { return "standard" }
