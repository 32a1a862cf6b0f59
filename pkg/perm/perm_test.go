package perm

import (
	"slices"
	"testing"
)

func TestEvaluate(t *testing.T) {
	p := New([]int{0, 2, 1})

	tests := []struct {
		name   string
		in     int
		want   int
		wantOK bool
	}{
		{name: "Fixed", in: 0, want: 0, wantOK: true},
		{name: "Moved", in: 1, want: 2, wantOK: true},
		{name: "MovedBack", in: 2, want: 1, wantOK: true},
		{name: "OutOfDomain", in: 3, wantOK: false},
		{name: "Negative", in: -1, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := p.Evaluate(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("Evaluate(%d) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Evaluate(%d) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestCompose(t *testing.T) {
	p1 := New([]int{1, 2, 0})
	p2 := New([]int{2, 1, 0})

	got, err := Compose(p1, p2)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if want := []int{0, 2, 1}; !slices.Equal(got.Images(), want) {
		t.Errorf("Compose = %v, want %v", got.Images(), want)
	}

	if _, err := Compose(p1, New([]int{0, 1, 2, 3})); err == nil {
		t.Error("Compose with mismatched sizes should fail")
	}
}

func TestComposeLeavesOperandsUntouched(t *testing.T) {
	p1 := New([]int{1, 2, 0})
	p2 := New([]int{2, 1, 0})
	if _, err := Compose(p1, p2); err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if !slices.Equal(p1.Images(), []int{1, 2, 0}) || !slices.Equal(p2.Images(), []int{2, 1, 0}) {
		t.Error("Compose mutated an operand")
	}
}

func TestCycles(t *testing.T) {
	tests := []struct {
		name   string
		images []int
		want   [][]int
	}{
		{name: "Identity", images: []int{0, 1, 2}, want: nil},
		{name: "SingleSwap", images: []int{0, 1, 3, 2}, want: [][]int{{2, 3}}},
		{
			name:   "TwoCycles",
			images: []int{1, 2, 0, 4, 3},
			want:   [][]int{{0, 1, 2}, {3, 4}},
		},
		{
			name:   "RotatedToMinimum",
			images: []int{4, 0, 1, 5, 7, 3, 2, 6},
			want:   [][]int{{0, 4, 7, 6, 2, 1}, {3, 5}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(tt.images).Cycles()
			if len(got) != len(tt.want) {
				t.Fatalf("Cycles() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if !slices.Equal(got[i], tt.want[i]) {
					t.Errorf("cycle %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestOrder(t *testing.T) {
	tests := []struct {
		name   string
		images []int
		want   int
	}{
		{name: "Identity", images: []int{0, 1, 2}, want: 1},
		{name: "SixFromTwoCycles", images: []int{4, 0, 1, 5, 7, 3, 2, 6}, want: 6},
		{name: "SixFromThreeTwo", images: []int{1, 2, 0, 4, 3}, want: 6},
		{name: "TwelveFromThreeTwoFour", images: []int{1, 2, 0, 4, 3, 8, 5, 6, 7}, want: 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := New(tt.images).Order(); got != tt.want {
				t.Errorf("Order() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPower(t *testing.T) {
	p := New([]int{1, 2, 0}) // 3-cycle

	tests := []struct {
		name string
		n    int
		want []int
	}{
		{name: "Zero", n: 0, want: []int{1, 2, 0}},
		{name: "One", n: 1, want: []int{1, 2, 0}},
		{name: "Two", n: 2, want: []int{2, 0, 1}},
		{name: "FullCycle", n: 3, want: []int{0, 1, 2}},
		{name: "WrapsAround", n: 4, want: []int{1, 2, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Power(tt.n); !slices.Equal(got.Images(), tt.want) {
				t.Errorf("Power(%d) = %v, want %v", tt.n, got.Images(), tt.want)
			}
		})
	}
}

func TestPowerMod(t *testing.T) {
	p := New([]int{1, 2, 0, 4, 3}) // order 6
	got := p.PowerMod(7)
	want := p.Power(1)
	if !slices.Equal(got.Images(), want.Images()) {
		t.Errorf("PowerMod(7) = %v, want %v", got.Images(), want.Images())
	}
}

func TestMerge(t *testing.T) {
	p := New([]int{1, 0, 2})
	q := New([]int{0, 2, 1})

	// Merge applies p first, then q: v -> q(p(v)).
	got, err := Merge(p, q)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if want := []int{2, 0, 1}; !slices.Equal(got.Images(), want) {
		t.Errorf("Merge = %v, want %v", got.Images(), want)
	}

	if _, err := Merge(p, New([]int{0, 1})); err == nil {
		t.Error("Merge with mismatched sizes should fail")
	}
}

func TestFromCycles(t *testing.T) {
	cycles := [][]int{{1, 2, 3}, {0}, {5, 6}, {4}}
	got := FromCycles(cycles, 7)
	want := []int{0, 2, 3, 1, 4, 6, 5}
	if !slices.Equal(got.Images(), want) {
		t.Errorf("FromCycles = %v, want %v", got.Images(), want)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		images  []int
		wantErr bool
	}{
		{name: "Valid", images: []int{2, 0, 1}},
		{name: "OutOfRange", images: []int{0, 3, 1}, wantErr: true},
		{name: "Duplicate", images: []int{0, 1, 1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.images).Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		name   string
		images []int
		want   string
	}{
		{name: "Identity", images: []int{0, 1, 2}, want: "()"},
		{name: "Swap", images: []int{1, 0, 2}, want: "(1,2)"},
		{name: "TwoCycles", images: []int{1, 2, 0, 4, 3}, want: "(1,2,3)(4,5)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := New(tt.images).String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseCycles(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		size    int
		want    []int
		wantErr bool
	}{
		{
			name:  "SingleCycle",
			input: "(1, 11,        13)",
			size:  13,
			want:  cycleImages(13, [][]int{{0, 10, 12}}),
		},
		{
			name:  "MultiCycle",
			input: "(1,2,3,4)(23,34,5)",
			size:  48,
			want:  cycleImages(48, [][]int{{0, 1, 2, 3}, {22, 33, 4}}),
		},
		{
			name:  "EmptyCycleIsIdentity",
			input: "()",
			size:  4,
			want:  []int{0, 1, 2, 3},
		},
		{name: "OutsideDomain", input: "(1,9)", size: 4, wantErr: true},
		{name: "Garbage", input: "(1,x)", size: 4, wantErr: true},
		{name: "Unterminated", input: "(1,2", size: 4, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCycles(tt.input, tt.size)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCycles() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && !slices.Equal(got.Images(), tt.want) {
				t.Errorf("ParseCycles() = %v, want %v", got.Images(), tt.want)
			}
		})
	}
}

func TestParseGeneratorList(t *testing.T) {
	input := "[ (   66,   46, 54,2)(12,23), (67,21,567, 65) ]"
	perms, err := ParseGeneratorList(input, 1000)
	if err != nil {
		t.Fatalf("ParseGeneratorList: %v", err)
	}
	if len(perms) != 2 {
		t.Fatalf("got %d permutations, want 2", len(perms))
	}

	want0 := cycleImages(1000, [][]int{{65, 45, 53, 1}, {11, 22}})
	want1 := cycleImages(1000, [][]int{{66, 20, 566, 64}})
	if !slices.Equal(perms[0].Images(), want0) {
		t.Error("first permutation mismatch")
	}
	if !slices.Equal(perms[1].Images(), want1) {
		t.Error("second permutation mismatch")
	}

	if _, err := ParseGeneratorList("(1,2)", 4); err == nil {
		t.Error("unbracketed list should fail")
	}
}

// cycleImages is a test helper building a raw image array from 0-based cycles.
func cycleImages(size int, cycles [][]int) []int {
	return FromCycles(cycles, size).Images()
}
