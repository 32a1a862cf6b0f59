package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/firefighterduck/dqg/pkg/autom"
	"github.com/firefighterduck/dqg/pkg/encoding"
	"github.com/firefighterduck/dqg/pkg/graph"
	"github.com/firefighterduck/dqg/pkg/perm"
	"github.com/firefighterduck/dqg/pkg/quotient"
	"github.com/firefighterduck/dqg/pkg/sat"
	"github.com/firefighterduck/dqg/pkg/search"
	"github.com/firefighterduck/dqg/pkg/stats"
)

// solveOpts holds the command-line flags for the solve command. Zero values
// defer to the loaded config.
type solveOpts struct {
	size       int    // vertex count, required for csv edge lists
	generators string // generator file instead of the automorphism tool
	engine     string // automorphism tool binary
	traces     bool   // use the Traces backend (sparse graphs only)

	policy        string // repair policy name
	coreSize      int    // orbit subset size for brute-force core search
	maxIterations int    // repair loop cap
	mus           bool   // external minimal-core tool instead of brute force
	validate      bool   // re-check decoded transversals

	powerset bool   // search generator subsets instead of repairing
	metric   string // quotient ranking for powerset search

	logOrbits    bool   // print the orbit partition of every iteration
	printFormula bool   // dump the CNF in DIMACS form
	statsCount   int    // -s occurrences select the statistics level
	statsOut     string // statistics report path
}

// newSolveCmd creates the solve command, the main entry point: decide
// whether the orbit quotient is descriptive and, depending on flags, repair
// it or extract a non-descriptive core.
func newSolveCmd(cfg *Config) *cobra.Command {
	var opts solveOpts

	cmd := &cobra.Command{
		Use:   "solve <graph-file>",
		Short: "Decide whether the orbit quotient is descriptive",
		Long: `Decide whether the orbit quotient of a colored graph is descriptive.

The graph format follows the file extension: .dre (dreadnaut), .txt (edge
list) or .csv (edge list, needs --size). Generators come from a file
(--generators) or from the automorphism tool.

Examples:
  dqg solve graph.dre
  dqg solve graph.csv --size 12 --generators gens.txt
  dqg solve graph.dre --policy recolor --mus -s -s`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runSolve(c.Context(), cfg, &opts, args[0])
		},
	}

	cmd.Flags().IntVarP(&opts.size, "size", "n", 0, "vertex count (required for csv edge lists)")
	cmd.Flags().StringVarP(&opts.generators, "generators", "g", "", "generator file (cycle notation, one per line)")
	cmd.Flags().StringVar(&opts.engine, "engine", "", "automorphism tool binary")
	cmd.Flags().BoolVarP(&opts.traces, "traces", "t", false, "use the Traces backend (sparse graphs only)")
	cmd.Flags().StringVar(&opts.policy, "policy", "", "repair policy: none, recolor, pow_gen, merge_gen")
	cmd.Flags().IntVarP(&opts.coreSize, "core-size", "q", 0, "orbit subset size for brute-force core search")
	cmd.Flags().IntVar(&opts.maxIterations, "max-iterations", 0, "repair loop cap")
	cmd.Flags().BoolVar(&opts.mus, "mus", false, "extract cores with the external minimal-core tool")
	cmd.Flags().BoolVar(&opts.validate, "validate", false, "re-check decoded transversals against the graph")
	cmd.Flags().BoolVarP(&opts.powerset, "powerset", "p", false, "search generator subsets for a descriptive quotient")
	cmd.Flags().StringVar(&opts.metric, "metric", "", "quotient ranking for powerset search: standard, least_orbits, biggest_orbit, sparsity")
	cmd.Flags().BoolVarP(&opts.logOrbits, "log-orbits", "l", false, "print the orbit partition")
	cmd.Flags().BoolVarP(&opts.printFormula, "print-formula", "f", false, "dump the CNF in DIMACS form")
	cmd.Flags().CountVarP(&opts.statsCount, "stats", "s", "statistics level (repeat for full per-quotient records)")
	cmd.Flags().StringVar(&opts.statsOut, "stats-out", "", "statistics report path (input file with .dqg extension if empty)")

	return cmd
}

// merged applies config defaults underneath the flags the user left unset.
func (o *solveOpts) merged(cfg *Config) solveOpts {
	out := *o
	if out.policy == "" {
		out.policy = cfg.Policy
	}
	if out.metric == "" {
		out.metric = cfg.Metric
	}
	if out.coreSize == 0 {
		out.coreSize = cfg.CoreSize
	}
	if out.maxIterations == 0 {
		out.maxIterations = cfg.MaxIterations
	}
	out.mus = out.mus || cfg.MUS
	out.validate = out.validate || cfg.Validate
	out.traces = out.traces || cfg.Traces
	if out.engine == "" {
		out.engine = cfg.Engine
	}
	return out
}

// automEngine picks the generator source: a static file when --generators
// is set, the automorphism tool otherwise.
func automEngine(opts *solveOpts, g *graph.Graph) (autom.Engine, error) {
	if opts.generators != "" {
		generators, err := loadGenerators(opts.generators, g.Size())
		if err != nil {
			return nil, err
		}
		return autom.Static(generators), nil
	}

	d := autom.NewDreadnaut()
	if opts.engine != "" {
		d.Binary = opts.engine
	}
	switch {
	case opts.traces:
		d.Mode = autom.ModeTraces
	case g.IsSparse():
		d.Mode = autom.ModeSparseNauty
	default:
		d.Mode = autom.ModeNauty
	}
	return d, nil
}

func runSolve(ctx context.Context, cfg *Config, flags *solveOpts, input string) error {
	logger := loggerFromContext(ctx)
	opts := flags.merged(cfg)

	g, err := loadGraph(input, opts.size)
	if err != nil {
		return err
	}
	printGraphStats(g.Size(), g.UndirectedEdgeCount(), 0)

	run := stats.NewRun(stats.LevelFromCount(opts.statsCount), g.Size())

	sortStart := time.Now()
	g.Sort()
	run.LogGraphSorted(time.Since(sortStart))

	engine, err := automEngine(&opts, g)
	if err != nil {
		return err
	}

	if opts.powerset {
		return runPowerset(ctx, g, engine, &opts)
	}

	policy, err := search.ParsePolicy(opts.policy)
	if err != nil {
		return err
	}

	var mus *sat.MUSTool
	if opts.mus {
		mus = sat.NewMUSTool()
	}

	solver := &search.Engine{
		Graph:         g,
		Autom:         engine,
		Oracle:        sat.GiniOracle{},
		MUS:           mus,
		Policy:        policy,
		CoreSize:      opts.coreSize,
		MaxIterations: opts.maxIterations,
		Validate:      opts.validate,
		Logger:        logger,
		Stats:         run,
	}

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, "Solving")
	spinner.Start()
	result, err := solver.Run(ctx)
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Finished after %d repair iterations", result.Iterations))

	// Without a repair policy the engine stops before core extraction; an
	// explicit core request still gets one for reporting.
	if result.Outcome == search.OutcomeNonDescriptive && result.Core == nil &&
		(opts.coreSize > 0 || opts.mus) {
		core, err := extractReportCore(ctx, solver, result)
		if err != nil {
			return err
		}
		result.Core = core
	}

	reportResult(g, result, &opts)
	run.LogEnd()
	return saveStats(run, input, &opts)
}

// extractReportCore re-runs core extraction on the final quotient so a
// policy-free solve can still report the offending orbits.
func extractReportCore(ctx context.Context, solver *search.Engine, result *search.Result) (search.Core, error) {
	if result.Quotient == nil {
		return nil, nil
	}
	if solver.MUS != nil {
		problem, err := encoding.EncodeProblem(result.Quotient, solver.Graph)
		if err != nil || problem == nil {
			return nil, err
		}
		return search.MUSCore(ctx, solver.Graph, result.Quotient, problem, solver.MUS, solver.Oracle)
	}
	size := solver.CoreSize
	if size <= 0 {
		size = search.DefaultCoreSize
	}
	return search.BruteForceCore(ctx, solver.Graph, result.Quotient, solver.Oracle, size)
}

// reportResult prints the outcome and the per-flag extras.
func reportResult(g *graph.Graph, result *search.Result, opts *solveOpts) {
	switch result.Outcome {
	case search.OutcomeDescriptive, search.OutcomeTriviallyDescriptive:
		printSuccess("Quotient is %s", result.Outcome)
		if len(result.Transversal) > 0 {
			printDetail("transversal: %v", []encoding.OrbitVertex(result.Transversal))
		}
	case search.OutcomeNonDescriptive:
		printError("Quotient is non-descriptive")
		if len(result.Core) > 0 {
			printDetail("offending orbit core: %v", result.Core.OrbitIDs())
		}
	case search.OutcomeExhausted:
		printWarning("Repairs exhausted the generator set, quotient degenerated to singletons")
	case search.OutcomeGaveUp:
		printWarning("Gave up after %d repair iterations", result.Iterations)
	}

	if opts.logOrbits && result.Orbits != nil {
		printKeyValue("orbits", result.Orbits.NautyString())
	}
	if opts.printFormula && result.Quotient != nil {
		problem, err := encoding.EncodeProblem(result.Quotient, g)
		if err == nil && problem != nil {
			_ = encoding.WriteDIMACS(os.Stdout, problem.Formula, problem.Dict.VariableCount())
		}
	}
}

// runPowerset searches generator subsets instead of running the repair
// loop. With the standard metric the first descriptive subset wins;
// otherwise all subsets are ranked and the best quotient is reported.
func runPowerset(ctx context.Context, g *graph.Graph, engine autom.Engine, opts *solveOpts) error {
	generators, err := autom.Collect(ctx, engine, g)
	if err != nil {
		return err
	}

	metric, err := search.ParseMetric(opts.metric)
	if err != nil {
		return err
	}

	if _, standard := metric.(search.Standard); standard {
		subset, err := search.FindDescriptiveSubset(ctx, g, generators, sat.GiniOracle{})
		if err != nil {
			return err
		}
		if subset == nil {
			printError("No generator subset yields a descriptive quotient")
			return nil
		}
		printSuccess("Found a descriptive generator subset (%d of %d generators)", len(subset), len(generators))
		printSubsetOrbits(g, subset, opts)
		return nil
	}

	best, err := search.BestQuotient(g, generators, metric)
	if err != nil {
		return err
	}
	printSuccess("Best quotient by %s has %d orbits", metric, len(best.Orbits.Group()))
	if opts.logOrbits {
		printKeyValue("orbits", best.Orbits.NautyString())
	}
	return nil
}

func printSubsetOrbits(g *graph.Graph, subset []*perm.Permutation, opts *solveOpts) {
	if !opts.logOrbits {
		return
	}
	orbits, err := quotient.Generate(subset)
	if err != nil {
		return
	}
	printKeyValue("orbits", orbits.NautyString())
}

// saveStats writes the statistics report when a level was requested.
func saveStats(run *stats.Run, input string, opts *solveOpts) error {
	if !run.Enabled() {
		return nil
	}
	path := opts.statsOut
	if path == "" {
		path = statsPath(input)
	}
	if err := run.Save(path); err != nil {
		return err
	}
	printFile(path)
	return nil
}
