package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/firefighterduck/dqg/pkg/autom"
	"github.com/firefighterduck/dqg/pkg/errors"
	"github.com/firefighterduck/dqg/pkg/graph"
	"github.com/firefighterduck/dqg/pkg/perm"
	"github.com/firefighterduck/dqg/pkg/quotient"
	"github.com/firefighterduck/dqg/pkg/render"
	"github.com/firefighterduck/dqg/pkg/sat"
	"github.com/firefighterduck/dqg/pkg/search"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	size       int
	generators string
	engine     string
	traces     bool
	output     string
	detailed   bool
	annotate   bool
}

// newRenderCmd creates the render command: build the orbit quotient and
// write it as DOT or SVG, dispatching on the output extension.
func newRenderCmd(cfg *Config) *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <graph-file>",
		Short: "Write the quotient graph as DOT or SVG",
		Long: `Build the orbit quotient of a colored graph and write it as a DOT file
or an SVG image, depending on the output extension.

With --annotate the quotient is first solved: a descriptive quotient gets
its transversal picks marked in the labels, a non-descriptive one gets the
offending orbit core highlighted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runRender(c.Context(), cfg, &opts, args[0])
		},
	}

	cmd.Flags().IntVarP(&opts.size, "size", "n", 0, "vertex count (required for csv edge lists)")
	cmd.Flags().StringVarP(&opts.generators, "generators", "g", "", "generator file (cycle notation, one per line)")
	cmd.Flags().StringVar(&opts.engine, "engine", "", "automorphism tool binary")
	cmd.Flags().BoolVarP(&opts.traces, "traces", "t", false, "use the Traces backend (sparse graphs only)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "quotient.dot", "output file (.dot or .svg)")
	cmd.Flags().BoolVarP(&opts.detailed, "detailed", "d", false, "label orbits with their full membership")
	cmd.Flags().BoolVar(&opts.annotate, "annotate", false, "solve the quotient and mark transversal or core")

	return cmd
}

func runRender(ctx context.Context, cfg *Config, opts *renderOpts, input string) error {
	g, err := loadGraph(input, opts.size)
	if err != nil {
		return err
	}

	solveFlags := solveOpts{
		size:       opts.size,
		generators: opts.generators,
		engine:     opts.engine,
		traces:     opts.traces,
	}
	merged := solveFlags.merged(cfg)

	engine, err := automEngine(&merged, g)
	if err != nil {
		return err
	}
	generators, err := autom.Collect(ctx, engine, g)
	if err != nil {
		return err
	}

	var orbits quotient.Orbits
	if len(generators) == 0 {
		orbits = quotient.Identity(g.Size())
	} else {
		orbits, err = quotient.Generate(generators)
		if err != nil {
			return err
		}
	}
	q := quotient.FromGraphOrbits(g, orbits)

	renderOptions := render.Options{Detailed: opts.detailed}
	if opts.annotate {
		if err := annotateQuotient(ctx, g, generators, &renderOptions); err != nil {
			return err
		}
	}

	dot := render.ToDOT(q, renderOptions)

	switch ext := strings.ToLower(filepath.Ext(opts.output)); ext {
	case ".dot", "":
		if err := os.WriteFile(opts.output, []byte(dot), 0o644); err != nil {
			return err
		}
	case ".svg":
		svg, err := render.RenderSVG(dot)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.output, svg, 0o644); err != nil {
			return err
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"unsupported render format %q (want .dot or .svg)", ext)
	}

	printSuccess("Rendered quotient with %d orbits", len(orbits.Group()))
	printFile(opts.output)
	return nil
}

// annotateQuotient runs a single solve on the quotient and fills the render
// options with either the transversal picks or the offending core.
func annotateQuotient(ctx context.Context, g *graph.Graph, generators []*perm.Permutation, renderOptions *render.Options) error {
	solver := &search.Engine{
		Graph:  g,
		Autom:  autom.Static(generators),
		Oracle: sat.GiniOracle{},
		Logger: loggerFromContext(ctx),
	}
	result, err := solver.Run(ctx)
	if err != nil {
		return err
	}

	switch result.Outcome {
	case search.OutcomeDescriptive:
		picks := make(map[int]int, len(result.Transversal))
		for _, ov := range result.Transversal {
			picks[ov.Orbit] = ov.Vertex
		}
		renderOptions.Transversal = picks
	case search.OutcomeNonDescriptive:
		renderOptions.Core = result.Core.OrbitIDs()
	}
	return nil
}
