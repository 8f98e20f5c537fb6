package board

import (
	"context"
	"log/slog"
	"sync"

	"github.com/glassboard-labs/glassboard/internal/grid"
	"github.com/glassboard-labs/glassboard/internal/identity"
	"github.com/glassboard-labs/glassboard/pkg/core"
)

// Manager hands out one Session per dashboard, reconciling on first access.
// Sessions are cached for the life of the server process; the session
// itself serializes events, the manager only guards the cache.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	store      core.Store
	perms      core.PermissionChecker
	alloc      *identity.Allocator
	model      *grid.Model
	reconciler *Reconciler
	logger     *slog.Logger
}

// NewManager creates a session manager over the given collaborators.
// columns is the grid width; zero or negative falls back to the default.
func NewManager(store core.Store, perms core.PermissionChecker, columns int, logger *slog.Logger) *Manager {
	model := grid.NewModel(columns)
	return &Manager{
		sessions:   make(map[string]*Session),
		store:      store,
		perms:      perms,
		alloc:      identity.NewAllocator(),
		model:      model,
		reconciler: NewReconciler(store, model, logger),
		logger:     logger,
	}
}

// Session returns the live session for the dashboard, loading and
// reconciling it on first access.
func (m *Manager) Session(ctx context.Context, dashboardID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[dashboardID]; ok {
		return s, nil
	}

	d, trees, err := m.reconciler.Load(ctx, dashboardID)
	if err != nil {
		return nil, err
	}
	s := NewSession(d, trees, m.store, m.perms, m.alloc, m.model, m.logger)
	m.sessions[dashboardID] = s
	return s, nil
}

// Evict drops a cached session, e.g. after a definition re-import replaced
// the persisted dashboard.
func (m *Manager) Evict(dashboardID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, dashboardID)
}

// Grid returns the manager's layout model.
func (m *Manager) Grid() *grid.Model {
	return m.model
}

// Allocator returns the manager's identity allocator.
func (m *Manager) Allocator() *identity.Allocator {
	return m.alloc
}
