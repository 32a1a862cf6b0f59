package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firefighterduck/dqg/pkg/autom"
	"github.com/firefighterduck/dqg/pkg/quotient"
)

// orbitsOpts holds the command-line flags for the orbits command.
type orbitsOpts struct {
	size       int
	generators string
	engine     string
	traces     bool
	output     string
}

// newOrbitsCmd creates the orbits command: fold the automorphism generators
// into an orbit partition and print it nauty style.
func newOrbitsCmd(cfg *Config) *cobra.Command {
	var opts orbitsOpts

	cmd := &cobra.Command{
		Use:   "orbits <graph-file>",
		Short: "Print the orbit partition of the graph's automorphism group",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runOrbits(c.Context(), cfg, &opts, args[0])
		},
	}

	cmd.Flags().IntVarP(&opts.size, "size", "n", 0, "vertex count (required for csv edge lists)")
	cmd.Flags().StringVarP(&opts.generators, "generators", "g", "", "generator file (cycle notation, one per line)")
	cmd.Flags().StringVar(&opts.engine, "engine", "", "automorphism tool binary")
	cmd.Flags().BoolVarP(&opts.traces, "traces", "t", false, "use the Traces backend (sparse graphs only)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}

func runOrbits(ctx context.Context, cfg *Config, opts *orbitsOpts, input string) error {
	logger := loggerFromContext(ctx)

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

	prog := newProgress(logger)
	generators, err := autom.Collect(ctx, engine, g)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Collected %d generators", len(generators)))

	var orbits quotient.Orbits
	if len(generators) == 0 {
		orbits = quotient.Identity(g.Size())
	} else {
		orbits, err = quotient.Generate(generators)
		if err != nil {
			return err
		}
	}
	printGraphStats(g.Size(), g.UndirectedEdgeCount(), len(orbits.Group()))

	out, err := openOutput(opts.output)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := fmt.Fprintln(out, orbits.NautyString()); err != nil {
		return err
	}
	if opts.output != "" {
		printFile(opts.output)
	}
	return nil
}
