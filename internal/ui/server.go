// Package ui provides the Glassboard web server.
package ui

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/glassboard-labs/glassboard/internal/board"
	"github.com/glassboard-labs/glassboard/internal/state"
	"github.com/glassboard-labs/glassboard/internal/ui/notifier"
	"github.com/glassboard-labs/glassboard/internal/ui/router"
	"github.com/glassboard-labs/glassboard/pkg/core"
)

// Server is the main UI server.
type Server struct {
	manager      *board.Manager
	store        core.Store
	querier      core.Querier
	sessionStore *sessions.CookieStore
	port         int
	watch        bool
	boardsDir    string
	logger       *slog.Logger
	notifier     *notifier.Notifier
}

// Config holds configuration for the UI server.
type Config struct {
	Manager       *board.Manager
	Store         core.Store
	Querier       core.Querier
	Port          int
	Watch         bool
	BoardsDir     string
	SessionSecret string
	Logger        *slog.Logger
}

// NewServer creates a new UI server instance.
func NewServer(cfg Config) *Server {
	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	return &Server{
		manager:      cfg.Manager,
		store:        cfg.Store,
		querier:      cfg.Querier,
		sessionStore: sessionStore,
		port:         cfg.Port,
		watch:        cfg.Watch,
		boardsDir:    cfg.BoardsDir,
		logger:       cfg.Logger,
		notifier:     notifier.New(),
	}
}

// Serve starts the UI server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting UI server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	if err := router.SetupRoutes(r, s.manager, s.store, s.querier, s.sessionStore, s.notifier, s.logger); err != nil {
		return fmt.Errorf("failed to setup routes: %w", err)
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Re-import board definitions on change if enabled
	if s.watch && s.boardsDir != "" {
		eg.Go(func() error {
			return s.watchDefinitions(egctx)
		})
	}

	// Start HTTP server
	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// Notifier returns the server's notifier for SSE updates.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// watchDefinitions watches the boards directory and re-imports a definition
// file when it changes, then pings the dashboard's SSE listeners.
func (s *Server) watchDefinitions(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(s.boardsDir); err != nil {
		s.logger.Error("failed to watch boards directory", "dir", s.boardsDir, "error", err)
		// Don't fail - continue without watching
		<-ctx.Done()
		return nil
	}

	// Debounce timer per changed file
	timers := make(map[string]*time.Timer)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event := <-watcher.Events:
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			ext := filepath.Ext(event.Name)
			if ext != ".yaml" && ext != ".yml" {
				continue
			}

			name := event.Name
			if t, ok := timers[name]; ok {
				t.Stop()
			}
			timers[name] = time.AfterFunc(100*time.Millisecond, func() {
				s.reimport(ctx, name)
			})

		case err := <-watcher.Errors:
			s.logger.Error("watcher error", "error", err)
		}
	}
}

// reimport replaces the persisted dashboard with the definition file's
// content, drops the cached session, and notifies connected clients.
func (s *Server) reimport(ctx context.Context, path string) {
	def, err := state.LoadDefinition(path)
	if err != nil {
		s.logger.Error("definition reload failed", "file", path, "error", err)
		return
	}
	d, err := state.Import(ctx, s.store, s.manager.Allocator(), s.manager.Grid(), def)
	if err != nil {
		s.logger.Error("definition import failed", "file", path, "error", err)
		return
	}
	s.manager.Evict(d.ID)
	s.notifier.Broadcast(d.ID)
	s.logger.Info("board definition reloaded", "dashboard", d.ID, "file", path)
}
