package search

import (
	"testing"

	"github.com/firefighterduck/dqg/pkg/graph"
	"github.com/firefighterduck/dqg/pkg/perm"
	"github.com/firefighterduck/dqg/pkg/quotient"
)

func TestParsePolicy(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    Policy
		wantErr bool
	}{
		{name: "Empty", input: "", want: PolicyNone},
		{name: "None", input: "none", want: PolicyNone},
		{name: "Recolor", input: "recolor", want: PolicyRecolor},
		{name: "Power", input: "pow_gen", want: PolicyPowerGenerators},
		{name: "Merge", input: "merge_gen", want: PolicyMergeGenerators},
		{name: "Unknown", input: "explode", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParsePolicy(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePolicy failed: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestRecolor(t *testing.T) {
	g := graph.NewOrdered(5)
	if err := g.SetColours([]graph.Colour{1, 2, 2, 3, 3}); err != nil {
		t.Fatalf("SetColours failed: %v", err)
	}

	core := Core{
		{ID: 1, Members: []int{1, 2}},
		{ID: 3, Members: []int{3, 4}},
	}
	recoloured, err := Recolor(g, core)
	if err != nil {
		t.Fatalf("Recolor failed: %v", err)
	}
	if !recoloured {
		t.Fatal("expected a changed graph")
	}

	want := []graph.Colour{1, 2, 4, 3, 5}
	got := g.Colours()
	for v := range want {
		if got[v] != want[v] {
			t.Errorf("vertex %d colour = %d, want %d", v, got[v], want[v])
		}
	}
}

func TestRecolorSingletonsOnly(t *testing.T) {
	g := graph.NewOrdered(3)
	core := Core{
		{ID: 0, Members: []int{0}},
		{ID: 2, Members: []int{2}},
	}
	recoloured, err := Recolor(g, core)
	if err != nil {
		t.Fatalf("Recolor failed: %v", err)
	}
	if recoloured {
		t.Fatal("singleton orbits must not change the graph")
	}
}

// mergeFixture is the four-generator setup with offending orbit {3,4}: two
// generators exchange 3 and 4 and must fold into one, the others stay.
func mergeFixture(t *testing.T) (generators []*perm.Permutation, core Core, orbits quotient.Orbits) {
	t.Helper()
	generators = []*perm.Permutation{
		perm.FromCycles([][]int{{3, 4}}, 5),
		perm.FromCycles([][]int{{3, 4}, {0, 1}}, 5),
		perm.FromCycles([][]int{{0, 1}}, 5),
		perm.FromCycles([][]int{{0, 2}}, 5),
	}
	var err error
	orbits, err = quotient.Generate(generators)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	core = Core{{ID: 3, Members: []int{3, 4}}}
	return generators, core, orbits
}

func TestMergeGenerators(t *testing.T) {
	generators, core, orbits := mergeFixture(t)

	merged, err := MergeGenerators(generators, core, orbits)
	if err != nil {
		t.Fatalf("MergeGenerators failed: %v", err)
	}
	if len(merged) != 3 {
		t.Fatalf("got %d generators, want 3", len(merged))
	}

	// The fold of (3,4) and (3,4)(0,1) cancels on {3,4} and keeps (0,1).
	wantFolded := []int{1, 0, 2, 3, 4}
	folded := merged[0].Images()
	for v, want := range wantFolded {
		if folded[v] != want {
			t.Errorf("folded generator maps %d to %d, want %d", v, folded[v], want)
		}
	}

	if merged[1] != generators[2] || merged[2] != generators[3] {
		t.Error("unimplicated generators must pass through unchanged")
	}
}

func TestMergeGeneratorsLoneImplicated(t *testing.T) {
	generators, core, orbits := mergeFixture(t)
	lone := []*perm.Permutation{generators[0], generators[2]}

	merged, err := MergeGenerators(lone, core, orbits)
	if err != nil {
		t.Fatalf("MergeGenerators failed: %v", err)
	}
	if len(merged) != 2 {
		t.Fatalf("got %d generators, want 2", len(merged))
	}
	if merged[0] != generators[0] {
		t.Error("a lone implicated generator must stay untouched")
	}
	if merged[1] != generators[2] {
		t.Error("the unimplicated generator must pass through")
	}
}

func TestPowerGenerators(t *testing.T) {
	rotate := perm.FromCycles([][]int{{0, 1, 2}}, 4)
	generators := []*perm.Permutation{rotate}
	orbits, err := quotient.Generate(generators)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	core := Core{{ID: 0, Members: []int{0, 1, 2}}}

	powers := NewPowerState(generators)

	first, err := powers.PowerGenerators(core, orbits)
	if err != nil {
		t.Fatalf("PowerGenerators failed: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("got %d generators, want 1", len(first))
	}
	wantSquared := []int{2, 0, 1, 3}
	images := first[0].Images()
	for v, want := range wantSquared {
		if images[v] != want {
			t.Errorf("squared generator maps %d to %d, want %d", v, images[v], want)
		}
	}
	if exps := powers.Exponents(); len(exps) != 1 || exps[0] != 2 {
		t.Fatalf("exponents = %v, want [2]", powers.Exponents())
	}

	// The cube of a 3-cycle is the identity, so the generator drops out.
	second, err := powers.PowerGenerators(core, orbits)
	if err != nil {
		t.Fatalf("PowerGenerators failed: %v", err)
	}
	if len(second) != 0 {
		t.Fatalf("got %d generators, want none", len(second))
	}
	if exps := powers.Exponents(); len(exps) != 0 {
		t.Fatalf("exponents = %v, want empty", exps)
	}
}

func TestPowerGeneratorsUnimplicated(t *testing.T) {
	swap := perm.FromCycles([][]int{{0, 1}}, 4)
	generators := []*perm.Permutation{swap}
	orbits, err := quotient.Generate(generators)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	core := Core{{ID: 2, Members: []int{2}}, {ID: 3, Members: []int{3}}}

	powers := NewPowerState(generators)
	next, err := powers.PowerGenerators(core, orbits)
	if err != nil {
		t.Fatalf("PowerGenerators failed: %v", err)
	}
	if len(next) != 1 {
		t.Fatalf("got %d generators, want 1", len(next))
	}
	if exps := powers.Exponents(); exps[0] != 1 {
		t.Fatalf("exponent = %d, want 1", exps[0])
	}
	if !equalImages(next[0], swap) {
		t.Error("unimplicated generator must keep its images")
	}
}

func equalImages(p, q *perm.Permutation) bool {
	pi, qi := p.Images(), q.Images()
	if len(pi) != len(qi) {
		return false
	}
	for i := range pi {
		if pi[i] != qi[i] {
			return false
		}
	}
	return true
}
