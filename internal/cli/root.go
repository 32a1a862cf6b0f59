package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version.
// This is typically called by the main package during initialization with
// values injected via ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the dqg CLI with a background context.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the dqg CLI and returns an error if any command fails.
//
// The function sets up the root command with all subcommands (solve, orbits,
// render, group), configures logging based on the --verbose flag, and
// executes the command tree.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose: debug level
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext.
func ExecuteContext(ctx context.Context) error {
	var (
		verbose    bool
		configPath string
	)
	cfg := DefaultConfig()

	root := &cobra.Command{
		Use:          "dqg",
		Short:        "dqg decides whether orbit quotients of colored graphs are descriptive",
		Long:         `dqg reads a colored graph and the generators of an automorphism group, folds the group action into vertex orbits, and checks via SAT whether the quotient graph is descriptive: whether a transversal exists whose induced edges match the quotient. Non-descriptive quotients can be repaired by recoloring, generator powers or generator merging, or reduced to a minimal offending orbit core.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)

			loaded, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("dqg %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", configFile, "config file with default search settings")

	root.AddCommand(newSolveCmd(&cfg))
	root.AddCommand(newOrbitsCmd(&cfg))
	root.AddCommand(newRenderCmd(&cfg))
	root.AddCommand(newGroupCmd(&cfg))

	return root.ExecuteContext(ctx)
}
