package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/glassboard-labs/glassboard/internal/board"
	"github.com/glassboard-labs/glassboard/internal/config"
	"github.com/glassboard-labs/glassboard/internal/perm"
	"github.com/glassboard-labs/glassboard/internal/query"
	"github.com/glassboard-labs/glassboard/internal/state"
	"github.com/glassboard-labs/glassboard/internal/ui"
	"github.com/glassboard-labs/glassboard/pkg/core"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Glassboard dashboard server",
		Long: `Start a local web server hosting the interactive dashboards.

Boards are seeded from YAML definition files in the boards directory and
served live: drag, resize, duplicate, remove, and filter interactions patch
the page in place.`,
		Example: `  # Serve with defaults
  glassboard serve

  # Serve on a custom port without watching the boards directory
  glassboard serve --port 3000 --watch=false`,
		RunE: runServe,
	}

	cmd.Flags().Int("server.port", 0, "Port to serve on")
	cmd.Flags().Bool("server.watch", true, "Re-import board definitions on change")
	cmd.Flags().String("store.path", "", "State database path")
	cmd.Flags().String("store.boards_dir", "", "Board definitions directory")
	cmd.Flags().String("query.duckdb_path", "", "DuckDB database with the data sources")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := GetLogger(ctx)

	cfg, err := config.Load(".", cmd.Flags())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store := state.NewSQLiteStore()
	if cfg.Store.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0o755); err != nil {
			return fmt.Errorf("create state directory: %w", err)
		}
	}
	if err := store.Open(cfg.Store.Path); err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	if err := store.Migrate(); err != nil {
		return err
	}

	var checker core.PermissionChecker = perm.ContextChecker{}
	if cfg.Server.LocalMode {
		checker = perm.AllowAll{}
	}
	manager := board.NewManager(store, checker, cfg.Grid.Columns, logger)

	if err := seedBoards(ctx, cfg, store, manager, logger); err != nil {
		return err
	}

	var querier core.Querier
	if cfg.Query.DuckDBPath != "" {
		duck := query.NewDuckDB()
		if err := duck.Connect(ctx, cfg.Query.DuckDBPath); err != nil {
			return err
		}
		defer func() { _ = duck.Close() }()
		querier = duck
	}

	server := ui.NewServer(ui.Config{
		Manager:       manager,
		Store:         store,
		Querier:       querier,
		Port:          cfg.Server.Port,
		Watch:         cfg.Server.Watch,
		BoardsDir:     cfg.Store.BoardsDir,
		SessionSecret: cfg.Server.SessionSecret,
		Logger:        logger,
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.Serve(ctx)
}

// seedBoards imports every definition file so the first load already has
// reconciled dashboards.
func seedBoards(ctx context.Context, cfg *config.Config, store core.Store, manager *board.Manager, logger *slog.Logger) error {
	defs, err := state.LoadDefinitionsDir(cfg.Store.BoardsDir)
	if err != nil {
		return fmt.Errorf("load board definitions: %w", err)
	}
	for _, def := range defs {
		if _, err := state.Import(ctx, store, manager.Allocator(), manager.Grid(), def); err != nil {
			logger.Warn("board definition skipped", "board", def.ID, "error", err)
			continue
		}
		logger.Info("board seeded", "board", def.ID)
	}
	return nil
}
