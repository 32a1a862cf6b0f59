package graph

import (
	"slices"
	"strings"
	"testing"
)

func TestParseDreadnaut(t *testing.T) {
	input := "At\n\n-a\n-m\nn=4 g\n0:1 2 ;\n2:3;\n3:0.\nf=[0|1, 2] x o\n\n"

	got, err := ParseDreadnaut(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseDreadnaut: %v", err)
	}

	want := NewOrdered(4)
	mustAddEdge(t, want, 0, 1)
	mustAddEdge(t, want, 0, 2)
	mustAddEdge(t, want, 2, 3)
	mustAddEdge(t, want, 3, 0)
	if err := want.SetColours([]Colour{1, 2, 2, DefaultColour}); err != nil {
		t.Fatalf("SetColours: %v", err)
	}

	assertSameGraph(t, got, want)
}

func TestParseDreadnautErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "MissingHeader", input: "n=4 g\n0:1.\nf=[] x o\n"},
		{name: "BadSize", input: "At\n\n-a\n-m\nn=0xfa g\n"},
		{name: "SelfLoop", input: "At\n\n-a\n-m\nn=4 g\n0:0.\nf=[] x o\n"},
		{name: "EdgeOutOfBounds", input: "At\n\n-a\n-m\nn=4 g\n0:7.\nf=[] x o\n"},
		{name: "MissingColouring", input: "At\n\n-a\n-m\nn=2 g\n0:1.\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseDreadnaut(strings.NewReader(tt.input)); err == nil {
				t.Error("expected parse error")
			}
		})
	}
}

func TestParseColouring(t *testing.T) {
	colours, err := parseColouring("f=[1|  0  ,  3 | 2] x o\n\n", 5)
	if err != nil {
		t.Fatalf("parseColouring: %v", err)
	}
	want := []Colour{2, 1, 3, 2, DefaultColour}
	if !slices.Equal(colours, want) {
		t.Errorf("colours = %v, want %v", colours, want)
	}
}

func TestParseEdgeListTxt(t *testing.T) {
	input := `# Directed graph (each unordered pair of nodes is saved once): CA-AstroPh.txt
# Collaboration network of Arxiv Astro Physics category
# Nodes: 6 Edges: 4
# FromNodeId	ToNodeId
0	1
2	3
1	4
2	5
`
	got, err := ParseEdgeListTxt(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseEdgeListTxt: %v", err)
	}

	want := NewOrdered(6)
	mustAddEdge(t, want, 0, 1)
	mustAddEdge(t, want, 2, 3)
	mustAddEdge(t, want, 1, 4)
	mustAddEdge(t, want, 2, 5)
	assertSameGraph(t, got, want)
}

func TestParseEdgeListCSV(t *testing.T) {
	input := "node_1,node_2\n0,3\n0,1\n0,6\n1,10\n1,3\n"

	got, err := ParseEdgeListCSV(11, strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseEdgeListCSV: %v", err)
	}

	want := NewOrdered(11)
	mustAddEdge(t, want, 0, 3)
	mustAddEdge(t, want, 0, 1)
	mustAddEdge(t, want, 0, 6)
	mustAddEdge(t, want, 1, 10)
	mustAddEdge(t, want, 1, 3)
	assertSameGraph(t, got, want)

	if _, err := ParseEdgeListCSV(4, strings.NewReader(input)); err == nil {
		t.Error("edges beyond graph size should fail")
	}
}

func assertSameGraph(t *testing.T, got, want *Graph) {
	t.Helper()
	if got.Size() != want.Size() {
		t.Fatalf("size = %d, want %d", got.Size(), want.Size())
	}
	gv, wv := got.Vertices(), want.Vertices()
	for i := range wv {
		if gv[i].Index != wv[i].Index || gv[i].Colour != wv[i].Colour {
			t.Errorf("vertex %d = (%d, colour %d), want (%d, colour %d)",
				i, gv[i].Index, gv[i].Colour, wv[i].Index, wv[i].Colour)
		}
		if !slices.Equal(gv[i].EdgesTo, wv[i].EdgesTo) {
			t.Errorf("vertex %d edges = %v, want %v", i, gv[i].EdgesTo, wv[i].EdgesTo)
		}
	}
}
