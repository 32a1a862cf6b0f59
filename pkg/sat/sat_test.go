package sat

import (
	"slices"
	"strings"
	"testing"

	"github.com/firefighterduck/dqg/pkg/encoding"
)

func TestGiniOracleSatisfiable(t *testing.T) {
	formula := encoding.Formula{
		{1, 2},
		{-1, -2},
		{1},
	}

	model, err := GiniOracle{}.Solve(formula)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if model == nil {
		t.Fatal("expected a model")
	}
	if !model.Value(1) {
		t.Error("literal 1 should be true")
	}
	if model.Value(2) {
		t.Error("literal 2 should be false")
	}
}

func TestGiniOracleUnsatisfiable(t *testing.T) {
	formula := encoding.Formula{
		{1},
		{-1},
	}

	model, err := GiniOracle{}.Solve(formula)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if model != nil {
		t.Error("contradiction should have no model")
	}
}

func TestGiniOracleScenario(t *testing.T) {
	// The 4-path fake-orbit encoding: known unsatisfiable.
	formula := encoding.Formula{
		{1},
		{-2, -3},
		{2, 3},
		{4},
		{-1, -3},
		{-3, -1},
		{-2, -4},
		{-4, -2},
	}

	model, err := GiniOracle{}.Solve(formula)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if model != nil {
		t.Error("formula should be unsatisfiable")
	}
}

func TestParseCore(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []int
		wantErr bool
	}{
		{
			name:  "Plain",
			input: "s UNSATISFIABLE\nv 1\nv 3\nv 7\nv 0\n",
			want:  []int{1, 3, 7},
		},
		{
			name:  "WithComments",
			input: "c parsing\nc done\ns UNSATISFIABLE\nv 2\nv 0\n",
			want:  []int{2},
		},
		{
			name:  "TrailingNoise",
			input: "v 4\nv 0\nignored garbage after terminator\n",
			want:  []int{4},
		},
		{name: "Unterminated", input: "s UNSATISFIABLE\nv 1\nv 3\n", wantErr: true},
		{name: "Garbage", input: "s UNSATISFIABLE\nw 1\n", wantErr: true},
		{name: "BadIndex", input: "v abc\nv 0\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCore(strings.NewReader(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCore() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && !slices.Equal(got, tt.want) {
				t.Errorf("ParseCore() = %v, want %v", got, tt.want)
			}
		})
	}
}
