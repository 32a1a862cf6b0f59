// Package render draws quotient graphs as Graphviz diagrams, one node per
// orbit.
package render

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/firefighterduck/dqg/pkg/errors"
	"github.com/firefighterduck/dqg/pkg/quotient"
)

// Options configures diagram generation.
type Options struct {
	// Detailed labels every node with its orbit members and size. When
	// false, only the orbit id is shown.
	Detailed bool
	// Core lists orbit ids to highlight, typically a non-descriptive core.
	Core []int
	// Transversal maps orbit id to its picked vertex; picked vertices are
	// marked in detailed labels.
	Transversal map[int]int
}

// ToDOT converts a quotient graph to Graphviz DOT. Orbits in the core are
// drawn filled and dashed so an offending core stands out.
func ToDOT(q *quotient.QuotientGraph, opts Options) string {
	core := make(map[int]bool, len(opts.Core))
	for _, id := range opts.Core {
		core[id] = true
	}

	var buf bytes.Buffer
	buf.WriteString("graph quotient {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  node [shape=ellipse, style=filled, fillcolor=white, fontsize=12];\n")
	buf.WriteString("\n")

	for _, orbit := range q.Orbits.Group() {
		label := fmtLabel(orbit, opts)
		attrs := []string{fmt.Sprintf("label=%q", label)}
		if core[orbit.ID] {
			attrs = append(attrs, "style=\"filled,dashed\"", "fillcolor=lightgrey")
		}
		fmt.Fprintf(&buf, "  %d [%s];\n", orbit.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, edge := range q.Edges() {
		if edge.Start < edge.End {
			fmt.Fprintf(&buf, "  %d -- %d;\n", edge.Start, edge.End)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(orbit quotient.OrbitSet, opts Options) string {
	if !opts.Detailed {
		return strconv.Itoa(orbit.ID)
	}

	picked := -1
	if opts.Transversal != nil {
		if v, ok := opts.Transversal[orbit.ID]; ok {
			picked = v
		}
	}

	members := make([]string, 0, len(orbit.Members))
	for _, m := range orbit.Members {
		if m == picked {
			members = append(members, fmt.Sprintf("[%d]", m))
			continue
		}
		members = append(members, strconv.Itoa(m))
	}
	if len(orbit.Members) == 1 {
		return members[0]
	}
	return fmt.Sprintf("%s (%d)", strings.Join(members, " "), len(orbit.Members))
}

// RenderSVG renders a DOT graph to SVG in process.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render SVG")
	}
	return buf.Bytes(), nil
}
