package boards

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/glassboard-labs/glassboard/internal/board"
	"github.com/glassboard-labs/glassboard/internal/ui/notifier"
	"github.com/glassboard-labs/glassboard/pkg/core"
)

// SetupRoutes registers the boards feature routes.
func SetupRoutes(
	router chi.Router,
	manager *board.Manager,
	querier core.Querier,
	sessionStore sessions.Store,
	notify *notifier.Notifier,
	logger *slog.Logger,
) error {
	handlers := NewHandlers(manager, querier, sessionStore, notify, logger)

	// Page routes
	router.Get("/boards/{id}", handlers.BoardPage)
	router.Get("/boards/{id}/sse", handlers.BoardSSE)

	// Interaction routes: each returns a minimal patch over SSE.
	router.Route("/api/boards/{id}", func(r chi.Router) {
		r.Patch("/layout", handlers.Layout)
		r.Post("/components/{cid}/duplicate", handlers.Duplicate)
		r.Delete("/components/{cid}", handlers.Remove)
		r.Post("/components/{cid}/filter", handlers.FilterInput)
		r.Post("/components/{cid}/click", handlers.ChartClick)
		r.Post("/components/{cid}/select", handlers.ChartSelect)
		r.Post("/filters/clear", handlers.ClearFilters)
	})

	return nil
}
