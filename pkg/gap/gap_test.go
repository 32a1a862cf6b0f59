package gap

import (
	"strings"
	"testing"

	"github.com/firefighterduck/dqg/pkg/perm"
)

func TestWriteScript(t *testing.T) {
	swap := perm.FromCycles([][]int{{0, 1}}, 4)
	rotate := perm.FromCycles([][]int{{0, 1, 2, 3}}, 4)

	var sb strings.Builder
	if err := WriteScript(&sb, []*perm.Permutation{swap, rotate}); err != nil {
		t.Fatalf("WriteScript failed: %v", err)
	}

	script := sb.String()
	wantPrefix := "g:=Group([(1,2),\n(1,2,3,4),\n]);;\n"
	if !strings.HasPrefix(script, wantPrefix) {
		t.Fatalf("script prefix = %q, want %q", script[:min(len(script), len(wantPrefix))], wantPrefix)
	}
	for _, fragment := range []string{
		"c:=ConjugacyClassesSubgroups(g);;",
		"for i in [2..c_length] do",
		"Print(GeneratorsOfGroup(Representative(c[i])));",
		"od;;",
	} {
		if !strings.Contains(script, fragment) {
			t.Errorf("script missing %q", fragment)
		}
	}
}

func TestParseRepresentatives(t *testing.T) {
	output := `[ (1,2) ]
[ (1,2,3), (4,5) ]
[ (1,
  2, 3, 4, 5) ]
`
	representatives, err := ParseRepresentatives(strings.NewReader(output), 5)
	if err != nil {
		t.Fatalf("ParseRepresentatives failed: %v", err)
	}
	if len(representatives) != 3 {
		t.Fatalf("got %d representatives, want 3", len(representatives))
	}
	if len(representatives[0]) != 1 || len(representatives[1]) != 2 || len(representatives[2]) != 1 {
		t.Fatalf("generator counts = %d %d %d, want 1 2 1",
			len(representatives[0]), len(representatives[1]), len(representatives[2]))
	}
	if got := representatives[1][1].String(); got != "(4,5)" {
		t.Errorf("second list second generator = %q, want (4,5)", got)
	}
	if got := representatives[2][0].String(); got != "(1,2,3,4,5)" {
		t.Errorf("wrapped list generator = %q, want (1,2,3,4,5)", got)
	}
}

func TestParseRepresentativesErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{name: "Empty", input: ""},
		{name: "Unterminated", input: "[ (1,2),\n"},
		{name: "OutOfDomain", input: "[ (1,9) ]\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseRepresentatives(strings.NewReader(tc.input), 5); err == nil {
				t.Fatal("expected parse error")
			}
		})
	}
}
