// Package features provides shared fixtures for UI feature handler tests.
package features

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"

	"github.com/glassboard-labs/glassboard/internal/board"
	"github.com/glassboard-labs/glassboard/internal/perm"
	"github.com/glassboard-labs/glassboard/internal/state"
	"github.com/glassboard-labs/glassboard/internal/testutil"
	"github.com/glassboard-labs/glassboard/internal/ui/notifier"
	"github.com/glassboard-labs/glassboard/pkg/core"
)

// TestFixture holds the collaborators a feature handler test needs.
type TestFixture struct {
	Store        *state.SQLiteStore
	Manager      *board.Manager
	Notifier     *notifier.Notifier
	SessionStore *sessions.CookieStore
}

// SetupTestFixture creates an in-memory fixture seeded with the given
// dashboards. Permissions default to allow-all, like local mode.
func SetupTestFixture(t *testing.T, dashboards ...*core.Dashboard) *TestFixture {
	t.Helper()

	store := state.NewSQLiteStore()
	require.NoError(t, store.Open(":memory:"))
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate())

	for _, d := range dashboards {
		require.NoError(t, store.PutDashboard(context.Background(), d))
	}

	return &TestFixture{
		Store:        store,
		Manager:      board.NewManager(store, perm.AllowAll{}, core.GridColumns, testutil.NewTestLogger(t)),
		Notifier:     notifier.New(),
		SessionStore: NewTestSessionStore(),
	}
}

// NewTestSessionStore creates a cookie session store with a fixed test key.
func NewTestSessionStore() *sessions.CookieStore {
	return sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!"))
}

// RequestWithPathParam attaches a chi URL parameter to a request so a handler
// can be called without mounting the full router.
func RequestWithPathParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
