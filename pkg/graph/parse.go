package graph

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/firefighterduck/dqg/pkg/errors"
)

// ParseDreadnaut reads a graph in dreadnaut syntax as produced by planning
// front ends:
//
//	At
//
//	-a
//	-m
//	n=4 g
//	0:1 2 ;
//	2:3;
//	3:0.
//	f=[0|1, 2] x o
//
// Edge lines end in ";" (more follow) or "." (list done). The f=[...] block
// partitions vertices into color classes numbered from 1; vertices not listed
// keep DefaultColour.
func ParseDreadnaut(r io.Reader) (*Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "reading dreadnaut input")
	}
	input := string(data)

	input, err = expectPrefix(input, "At\n\n-a\n-m\n")
	if err != nil {
		return nil, err
	}
	input, err = expectPrefix(input, "n=")
	if err != nil {
		return nil, err
	}

	sizeEnd := strings.IndexByte(input, ' ')
	if sizeEnd < 0 {
		return nil, errors.New(errors.ErrCodeParse, "missing graph size terminator")
	}
	size, err := strconv.Atoi(input[:sizeEnd])
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "invalid graph size %q", input[:sizeEnd])
	}
	input, err = expectPrefix(input[sizeEnd:], " g\n")
	if err != nil {
		return nil, err
	}

	g := NewOrdered(size)
	for {
		lineEnd := strings.IndexByte(input, '\n')
		if lineEnd < 0 {
			return nil, errors.New(errors.ErrCodeParse, "unterminated edge line")
		}
		line := input[:lineEnd]
		input = input[lineEnd+1:]

		vertex, cont, err := parseEdgeLine(g, line, size)
		if err != nil {
			return nil, err
		}
		if !cont || vertex >= size-1 {
			break
		}
	}

	colours, err := parseColouring(input, size)
	if err != nil {
		return nil, err
	}
	if err := g.SetColours(colours); err != nil {
		return nil, err
	}
	return g, nil
}

// parseEdgeLine handles one "v:e1 e2 ... ;" line, returning the source vertex
// and whether more edge lines follow.
func parseEdgeLine(g *Graph, line string, size int) (vertex int, cont bool, err error) {
	line = strings.TrimSpace(line)
	switch {
	case strings.HasSuffix(line, ";"):
		cont = true
	case strings.HasSuffix(line, "."):
		cont = false
	default:
		return 0, false, errors.New(errors.ErrCodeParse, "edge line %q must end in ';' or '.'", line)
	}
	line = strings.TrimSpace(line[:len(line)-1])

	colon := strings.IndexByte(line, ':')
	if colon < 0 {
		return 0, false, errors.New(errors.ErrCodeParse, "edge line %q missing ':'", line)
	}
	vertex, err = strconv.Atoi(strings.TrimSpace(line[:colon]))
	if err != nil {
		return 0, false, errors.Wrap(errors.ErrCodeParse, err, "invalid source vertex in %q", line)
	}

	for _, field := range strings.Fields(line[colon+1:]) {
		end, err := strconv.Atoi(field)
		if err != nil {
			return 0, false, errors.Wrap(errors.ErrCodeParse, err, "invalid edge target %q", field)
		}
		if end >= size || end == vertex {
			return 0, false, errors.New(errors.ErrCodeParse, "edge %d-%d out of bounds or self loop", vertex, end)
		}
		if err := g.AddEdge(vertex, end); err != nil {
			return 0, false, err
		}
	}
	return vertex, cont, nil
}

// parseColouring handles the trailing "f=[c11,c12|c21,...] x o" block.
func parseColouring(input string, size int) ([]Colour, error) {
	input = strings.TrimSpace(input)
	rest, err := expectPrefix(input, "f=[")
	if err != nil {
		return nil, err
	}
	end := strings.Index(rest, "] x o")
	if end < 0 {
		return nil, errors.New(errors.ErrCodeParse, "colouring block missing '] x o' terminator")
	}

	colours := make([]Colour, size)
	for i := range colours {
		colours[i] = DefaultColour
	}

	body := strings.TrimSpace(rest[:end])
	if body == "" {
		return colours, nil
	}
	for i, class := range strings.Split(body, "|") {
		for _, member := range strings.Split(class, ",") {
			v, err := strconv.Atoi(strings.TrimSpace(member))
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeParse, err, "invalid colour class member %q", member)
			}
			if v < 0 || v >= size {
				return nil, errors.New(errors.ErrCodeParse, "colour class member %d outside graph", v)
			}
			colours[v] = i + 1
		}
	}
	return colours, nil
}

func expectPrefix(input, prefix string) (string, error) {
	if !strings.HasPrefix(input, prefix) {
		return "", errors.New(errors.ErrCodeParse, "expected %q at %q", prefix, truncate(input, 20))
	}
	return input[len(prefix):], nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// ParseEdgeListTxt reads a whitespace-separated edge-list file with the
// SNAP-style comment preamble: two comment lines, a "# Nodes: N Edges: M"
// line, one more comment line, then one "from to" pair per line.
func ParseEdgeListTxt(r io.Reader) (*Graph, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	size := -1
	for i := 0; i < 3; i++ {
		if !scanner.Scan() {
			return nil, errors.New(errors.ErrCodeParse, "truncated edge list preamble")
		}
		line := scanner.Text()
		if !strings.HasPrefix(line, "#") {
			return nil, errors.New(errors.ErrCodeParse, "expected comment line, got %q", line)
		}
		if i == 2 {
			var nodes, edges int
			if _, err := fmt.Sscanf(line, "# Nodes: %d Edges: %d", &nodes, &edges); err != nil {
				return nil, errors.Wrap(errors.ErrCodeParse, err, "size comment %q", line)
			}
			size = nodes
		}
	}
	if !scanner.Scan() || !strings.HasPrefix(scanner.Text(), "#") {
		return nil, errors.New(errors.ErrCodeParse, "expected column header comment")
	}

	g := NewOrdered(size)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, errors.New(errors.ErrCodeParse, "edge line %q must hold two vertices", line)
		}
		start, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeParse, err, "edge source %q", fields[0])
		}
		end, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeParse, err, "edge target %q", fields[1])
		}
		if err := g.AddEdge(start, end); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "reading edge list")
	}
	return g, nil
}

// ParseEdgeListCSV reads a comma-separated edge list with a single header
// line. The vertex count is not part of the format and must be supplied.
func ParseEdgeListCSV(size int, r io.Reader) (*Graph, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return nil, errors.New(errors.ErrCodeParse, "missing csv header")
	}

	g := NewOrdered(size)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		left, right, found := strings.Cut(line, ",")
		if !found {
			return nil, errors.New(errors.ErrCodeParse, "csv edge line %q missing comma", line)
		}
		start, err := strconv.Atoi(strings.TrimSpace(left))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeParse, err, "edge source %q", left)
		}
		end, err := strconv.Atoi(strings.TrimSpace(right))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeParse, err, "edge target %q", right)
		}
		if err := g.AddEdge(start, end); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "reading csv edge list")
	}
	return g, nil
}
