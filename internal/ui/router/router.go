// Package router sets up HTTP routes for the UI server.
package router

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/glassboard-labs/glassboard/internal/board"
	boardsFeature "github.com/glassboard-labs/glassboard/internal/ui/features/boards"
	homeFeature "github.com/glassboard-labs/glassboard/internal/ui/features/home"
	"github.com/glassboard-labs/glassboard/internal/ui/notifier"
	"github.com/glassboard-labs/glassboard/pkg/core"
)

// SetupRoutes configures all routes for the UI server.
func SetupRoutes(
	router chi.Router,
	manager *board.Manager,
	store core.Store,
	querier core.Querier,
	sessionStore *sessions.CookieStore,
	notify *notifier.Notifier,
	logger *slog.Logger,
) error {
	if err := homeFeature.SetupRoutes(router, store, logger); err != nil {
		return err
	}

	if err := boardsFeature.SetupRoutes(router, manager, querier, sessionStore, notify, logger); err != nil {
		return err
	}

	return nil
}
