package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firefighterduck/dqg/pkg/autom"
	"github.com/firefighterduck/dqg/pkg/gap"
	"github.com/firefighterduck/dqg/pkg/sat"
	"github.com/firefighterduck/dqg/pkg/search"
)

// groupOpts holds the command-line flags for the group command.
type groupOpts struct {
	size       int
	generators string
	engine     string
	traces     bool
	gapBinary  string
	memory     string
}

// newGroupCmd creates the group command: when the full orbit quotient is
// not descriptive, enumerate conjugacy-class subgroups with a computer
// algebra system and look for a subgroup whose quotient is.
func newGroupCmd(cfg *Config) *cobra.Command {
	var opts groupOpts

	cmd := &cobra.Command{
		Use:   "group <graph-file>",
		Short: "Search conjugacy-class subgroups for a descriptive quotient",
		Long: `Check the full orbit quotient first and stop if it is descriptive.
Otherwise enumerate conjugacy-class subgroup representatives with GAP and
check their quotients in order; the first descriptive one wins.

Requires the gap binary on the path (or --gap-binary).`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runGroup(c.Context(), cfg, &opts, args[0])
		},
	}

	cmd.Flags().IntVarP(&opts.size, "size", "n", 0, "vertex count (required for csv edge lists)")
	cmd.Flags().StringVarP(&opts.generators, "generators", "g", "", "generator file (cycle notation, one per line)")
	cmd.Flags().StringVar(&opts.engine, "engine", "", "automorphism tool binary")
	cmd.Flags().BoolVarP(&opts.traces, "traces", "t", false, "use the Traces backend (sparse graphs only)")
	cmd.Flags().StringVar(&opts.gapBinary, "gap-binary", "", "GAP binary (gap if empty)")
	cmd.Flags().StringVar(&opts.memory, "memory", "", "GAP memory limit (16G if empty)")

	return cmd
}

func runGroup(ctx context.Context, cfg *Config, opts *groupOpts, input string) error {
	logger := loggerFromContext(ctx)

	g, err := loadGraph(input, opts.size)
	if err != nil {
		return err
	}
	g.Sort()

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
	if len(generators) == 0 {
		printSuccess("Automorphism group is trivial, quotient is the graph itself")
		return nil
	}

	oracle := sat.GiniOracle{}
	orbits, descriptive, err := search.DescriptiveClass(g, generators, oracle)
	if err != nil {
		return err
	}
	if descriptive {
		printSuccess("Full orbit quotient is descriptive")
		printKeyValue("orbits", orbits.NautyString())
		return nil
	}
	logger.Info("Full orbit quotient is non-descriptive, enumerating subgroups")

	runner := gap.NewRunner()
	if opts.gapBinary != "" {
		runner.Binary = opts.gapBinary
	}
	if opts.memory != "" {
		runner.MemoryLimit = opts.memory
	}

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, "Enumerating conjugacy-class subgroups")
	spinner.Start()
	representatives, err := runner.EnumerateClasses(ctx, generators, g.Size())
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Enumerated %d subgroup representatives", len(representatives)))

	found, err := search.FindDescriptiveClass(ctx, g, representatives, oracle)
	if err != nil {
		return err
	}
	if found == nil {
		printError("No conjugacy-class subgroup yields a descriptive quotient")
		return nil
	}
	printSuccess("Found a subgroup with a descriptive quotient")
	printKeyValue("orbits", found.NautyString())
	return nil
}
