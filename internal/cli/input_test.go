package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/firefighterduck/dqg/pkg/errors"
)

const pathGraphDre = `At

-a
-m
n=4 g
0:1 ;
1:2 ;
2:3 .
f=[0|1, 2|3] x o
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadGraphDreadnaut(t *testing.T) {
	path := writeTemp(t, "path.dre", pathGraphDre)

	g, err := loadGraph(path, 0)
	if err != nil {
		t.Fatalf("loadGraph() error = %v", err)
	}
	if g.Size() != 4 {
		t.Errorf("Size() = %d, want 4", g.Size())
	}
	if g.UndirectedEdgeCount() != 3 {
		t.Errorf("UndirectedEdgeCount() = %d, want 3", g.UndirectedEdgeCount())
	}
}

func TestLoadGraphCSV(t *testing.T) {
	path := writeTemp(t, "edges.csv", "0,1\n1,2\n")

	g, err := loadGraph(path, 3)
	if err != nil {
		t.Fatalf("loadGraph() error = %v", err)
	}
	if g.Size() != 3 {
		t.Errorf("Size() = %d, want 3", g.Size())
	}

	if _, err := loadGraph(path, 0); err == nil {
		t.Error("loadGraph() without --size accepted a csv file")
	}
}

func TestLoadGraphUnsupportedFormat(t *testing.T) {
	path := writeTemp(t, "graph.json", "{}")

	_, err := loadGraph(path, 0)
	if err == nil {
		t.Fatal("loadGraph() accepted an unsupported extension")
	}
	if !errors.Is(err, errors.ErrCodeInvalidGraph) {
		t.Errorf("error code = %v, want ErrCodeInvalidGraph", errors.GetCode(err))
	}
}

func TestParseGenerators(t *testing.T) {
	input := `# generators of the square
(2,3)

[(1,2), (3,4)]
`
	generators, err := parseGenerators(strings.NewReader(input), 4)
	if err != nil {
		t.Fatalf("parseGenerators() error = %v", err)
	}
	if len(generators) != 3 {
		t.Fatalf("parsed %d generators, want 3", len(generators))
	}
	if got, _ := generators[0].Evaluate(1); got != 2 {
		t.Errorf("first generator maps 1 to %d, want 2", got)
	}
	if got, _ := generators[2].Evaluate(2); got != 3 {
		t.Errorf("third generator maps 2 to %d, want 3", got)
	}
}

func TestParseGeneratorsEmpty(t *testing.T) {
	_, err := parseGenerators(strings.NewReader("# only a comment\n"), 4)
	if err == nil {
		t.Fatal("parseGenerators() accepted an empty file")
	}
	if !errors.Is(err, errors.ErrCodeEmptyInput) {
		t.Errorf("error code = %v, want ErrCodeEmptyInput", errors.GetCode(err))
	}
}

func TestStatsPath(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "dre extension", input: "graphs/path.dre", want: "graphs/path.dqg"},
		{name: "no extension", input: "path", want: "path.dqg"},
		{name: "csv extension", input: "edges.csv", want: "edges.dqg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statsPath(tt.input); got != tt.want {
				t.Errorf("statsPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
