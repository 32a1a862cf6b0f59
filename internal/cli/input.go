package cli

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/firefighterduck/dqg/pkg/errors"
	"github.com/firefighterduck/dqg/pkg/graph"
	"github.com/firefighterduck/dqg/pkg/perm"
)

// loadGraph reads a graph file, dispatching on the extension: .dre for
// dreadnaut input, .txt for plain edge lists, .csv for comma-separated
// edge lists. CSV files carry no vertex count, so size must be given.
func loadGraph(path string, size int) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "cannot open graph file %s", path)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".dre":
		return graph.ParseDreadnaut(f)
	case ".txt":
		return graph.ParseEdgeListTxt(f)
	case ".csv":
		if size <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidConfig,
				"csv edge lists carry no vertex count, pass --size")
		}
		return graph.ParseEdgeListCSV(size, f)
	default:
		return nil, errors.New(errors.ErrCodeInvalidGraph,
			"unsupported graph format %q (want .dre, .txt or .csv)", ext)
	}
}

// loadGenerators reads automorphism generators in cycle notation, one per
// line. A line wrapped in brackets is parsed as a full generator list.
func loadGenerators(path string, size int) ([]*perm.Permutation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "cannot open generator file %s", path)
	}
	defer f.Close()

	return parseGenerators(f, size)
}

func parseGenerators(r io.Reader, size int) ([]*perm.Permutation, error) {
	var generators []*perm.Permutation

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			list, err := perm.ParseGeneratorList(line, size)
			if err != nil {
				return nil, err
			}
			generators = append(generators, list...)
			continue
		}
		p, err := perm.ParseCycles(line, size)
		if err != nil {
			return nil, err
		}
		generators = append(generators, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "reading generators")
	}
	if len(generators) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyInput, "generator file holds no generators")
	}
	return generators, nil
}

// statsPath derives the statistics report path from the input file by
// swapping its extension for .dqg.
func statsPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + ".dqg"
}

// nopCloser wraps an io.Writer with a no-op Close method.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path. An empty path means
// stdout.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
