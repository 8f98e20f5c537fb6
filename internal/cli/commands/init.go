package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/glassboard-labs/glassboard/internal/config"
)

const configTemplate = `# Glassboard project configuration
server:
  port: %d
  watch: true
  local_mode: true

store:
  path: %s
  boards_dir: %s

query:
  # Path to the DuckDB database holding your tabular data sources.
  duckdb_path: ""

grid:
  columns: %d
`

const exampleBoard = `id: example
title: Example Board
components:
  - type: chart
    chart_kind: scatter
    data_source_ref: samples
    dimension: group
    filter_dependencies:
      - data_source_ref: samples
  - type: card
    data_source_ref: samples
    filter_dependencies:
      - data_source_ref: samples
        columns: [group]
  - type: filter
    data_source_ref: samples
    dimension: group
`

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init [dir]",
		Short: "Scaffold a Glassboard project",
		Long: `Create glassboard.yaml and a boards directory with an example board
definition in the given directory (default: current directory).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runInit(cmd, dir)
		},
	}
}

func runInit(cmd *cobra.Command, dir string) error {
	cfgPath := filepath.Join(dir, config.ConfigFileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	boardsDir := filepath.Join(dir, config.DefaultBoardsDir)
	if err := os.MkdirAll(boardsDir, 0o755); err != nil {
		return fmt.Errorf("create boards directory: %w", err)
	}

	content := fmt.Sprintf(configTemplate,
		config.DefaultPort, config.DefaultStatePath, config.DefaultBoardsDir, config.DefaultColumns)
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	examplePath := filepath.Join(boardsDir, "example.yaml")
	if err := os.WriteFile(examplePath, []byte(exampleBoard), 0o644); err != nil {
		return fmt.Errorf("write example board: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized Glassboard project in %s\n", dir)
	fmt.Fprintf(cmd.OutOrStdout(), "  %s\n  %s\n", cfgPath, examplePath)
	return nil
}
