package search

import (
	"testing"

	"github.com/firefighterduck/dqg/pkg/graph"
	"github.com/firefighterduck/dqg/pkg/quotient"
)

// quotientFixture builds a quotient over a path graph with the given orbit
// partition.
func quotientFixture(t *testing.T, size int, orbits quotient.Orbits) *quotient.QuotientGraph {
	t.Helper()
	g := graph.NewOrdered(size)
	for v := 0; v < size-1; v++ {
		if err := g.AddEdge(v, v+1); err != nil {
			t.Fatalf("AddEdge failed: %v", err)
		}
	}
	return quotient.FromGraphOrbits(g, orbits)
}

func TestParseMetric(t *testing.T) {
	cases := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "least_orbits", want: "least_orbits"},
		{input: "biggest_orbit", want: "biggest_orbit"},
		{input: "sparsity", want: "sparsity"},
		{input: "standard", want: "standard"},
		{input: "best", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			metric, err := ParseMetric(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMetric failed: %v", err)
			}
			if metric.String() != tc.want {
				t.Fatalf("got %s, want %s", metric, tc.want)
			}
		})
	}
}

func TestLeastOrbits(t *testing.T) {
	small := quotientFixture(t, 4, quotient.Orbits{0, 0, 2, 2})
	large := quotientFixture(t, 4, quotient.Orbits{0, 1, 1, 3})

	if (LeastOrbits{}).Compare(small, large) >= 0 {
		t.Error("fewer orbits must rank first")
	}
	if (LeastOrbits{}).Compare(large, small) <= 0 {
		t.Error("more orbits must rank last")
	}
}

func TestBiggestOrbits(t *testing.T) {
	big := quotientFixture(t, 5, quotient.Orbits{0, 0, 0, 0, 4})
	flat := quotientFixture(t, 5, quotient.Orbits{0, 0, 2, 2, 4})

	if (BiggestOrbits{}).Compare(big, flat) >= 0 {
		t.Error("the bigger maximum orbit must rank first")
	}
}

func TestSparsity(t *testing.T) {
	sparse := quotientFixture(t, 4, quotient.Orbits{0, 1, 1, 0})
	dense := quotientFixture(t, 4, quotient.Orbits{0, 1, 2, 3})

	if (Sparsity{}).Compare(sparse, dense) >= 0 {
		t.Error("the lower edge ratio must rank first")
	}
}

func TestStandardKeepsIncumbent(t *testing.T) {
	q := quotientFixture(t, 3, quotient.Orbits{0, 1, 0})
	if (Standard{}).Compare(q, q) <= 0 {
		t.Error("the standard metric must keep the first quotient seen")
	}
}
