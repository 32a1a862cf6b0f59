package graph

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/firefighterduck/dqg/pkg/errors"
)

// WriteDreadnaut emits the graph in the dreadnaut syntax ParseDreadnaut
// accepts.
func WriteDreadnaut(w io.Writer, g *Graph) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("At\n\n-a\n-m\n")
	if err := WriteDreadnautBody(bw, g); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "writing dreadnaut output")
	}
	return nil
}

// WriteDreadnautBody emits the size, edge and colouring blocks without any
// header. Each undirected edge is written once, from its smaller endpoint.
// Vertices with DefaultColour stay out of the colouring block.
func WriteDreadnautBody(w io.Writer, g *Graph) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "n=%d g\n", g.Size())

	adjacency := make(map[int][]int)
	g.IterateEdges(func(start, end int) {
		if start < end {
			adjacency[start] = append(adjacency[start], end)
		}
	})
	sources := make([]int, 0, len(adjacency))
	for v := range adjacency {
		sources = append(sources, v)
	}
	sort.Ints(sources)

	for i, v := range sources {
		ends := adjacency[v]
		sort.Ints(ends)
		fmt.Fprintf(bw, "%d:", v)
		for _, end := range ends {
			fmt.Fprintf(bw, "%d ", end)
		}
		if i == len(sources)-1 {
			bw.WriteString(".\n")
		} else {
			bw.WriteString(";\n")
		}
	}
	if len(sources) == 0 {
		bw.WriteString("0:.\n")
	}

	bw.WriteString("f=[")
	bw.WriteString(colourClasses(g))
	bw.WriteString("] x o\n\n")

	if err := bw.Flush(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "writing dreadnaut body")
	}
	return nil
}

// colourClasses renders the colour classes 1..MaxColour as "|"-separated
// comma lists, matching the class numbering parseColouring assigns.
func colourClasses(g *Graph) string {
	colours := g.Colours()
	classes := make(map[Colour][]int)
	for v, c := range colours {
		if c != DefaultColour {
			classes[c] = append(classes[c], v)
		}
	}

	var out []byte
	for c := Colour(1); c <= g.MaxColour(); c++ {
		members, ok := classes[c]
		if !ok {
			continue
		}
		if len(out) > 0 {
			out = append(out, '|')
		}
		sort.Ints(members)
		for i, v := range members {
			if i > 0 {
				out = append(out, ',')
			}
			out = strconv.AppendInt(out, int64(v), 10)
		}
	}
	return string(out)
}
