// Package cli provides the command-line interface for Glassboard.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/glassboard-labs/glassboard/internal/cli/commands"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "glassboard",
		Short: "Glassboard - Scientific Data Dashboard Builder",
		Long: `Glassboard serves interactive dashboards over tabular data sources.

Dashboards are grids of charts, tables, cards, and filter widgets. Components
are placed collision-free, can be duplicated with independent identity, and
filter interactions propagate live to exactly the dependent components.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			cmd.SetContext(commands.WithLogger(cmd.Context(), logger))
		},
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(
		commands.NewServeCommand(),
		commands.NewInitCommand(),
		commands.NewListCommand(),
		commands.NewVersionCommand(Version, BuildDate, GitCommit),
	)

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
