package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/glassboard-labs/glassboard/internal/config"
	"github.com/glassboard-labs/glassboard/internal/state"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List dashboards in the state database",
		RunE:  runList,
	}
}

func runList(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(".", nil)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store := state.NewSQLiteStore()
	if err := store.Open(cfg.Store.Path); err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	if err := store.Migrate(); err != nil {
		return err
	}

	boards, err := store.ListDashboards(cmd.Context())
	if err != nil {
		return err
	}

	if len(boards) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No dashboards found.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Title", "Project", "Components"})
	for _, b := range boards {
		full, err := store.GetDashboard(cmd.Context(), b.ID)
		count := 0
		if err == nil {
			count = len(full.Metadata)
		}
		t.AppendRow(table.Row{b.ID, b.Title, b.ProjectRef, count})
	}
	t.Render()
	return nil
}
