package home

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/glassboard-labs/glassboard/pkg/core"
)

// SetupRoutes registers the home feature routes.
func SetupRoutes(router chi.Router, store core.Store, logger *slog.Logger) error {
	handlers := NewHandlers(store, logger)
	router.Get("/", handlers.HomePage)
	return nil
}
