package perm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic(t *testing.T) {
	checker := Static{Grants: map[string]map[string]bool{
		"alice": {"proj-1": true},
	}}
	ctx := context.Background()

	assert.True(t, checker.HasEditorPermission(ctx, "proj-1", "alice"))
	assert.False(t, checker.HasEditorPermission(ctx, "proj-2", "alice"))
	assert.False(t, checker.HasEditorPermission(ctx, "proj-1", "bob"))
}

func TestAllowAll(t *testing.T) {
	assert.True(t, AllowAll{}.HasEditorPermission(context.Background(), "any", "anyone"))
}

func TestContextChecker(t *testing.T) {
	checker := ContextChecker{}

	assert.False(t, checker.HasEditorPermission(context.Background(), "proj-1", "alice"),
		"no grants in context means no permission anywhere")

	ctx := WithGrants(context.Background(), map[string]bool{"proj-1": true})
	assert.True(t, checker.HasEditorPermission(ctx, "proj-1", "alice"))
	assert.False(t, checker.HasEditorPermission(ctx, "proj-2", "alice"))
}

func TestSessionChecker(t *testing.T) {
	store := sessions.NewCookieStore([]byte("test-secret"))
	checker := NewSessionChecker(store)

	// Grant writes the project set into the cookie session.
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, checker.Grant(w, r, "proj-1"))

	// A follow-up request carrying the cookie resolves the grant.
	r2 := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		r2.AddCookie(c)
	}
	grants := checker.FromRequest(r2)
	assert.True(t, grants["proj-1"])
	assert.False(t, grants["proj-2"])

	// A bare request has no grants.
	r3 := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, checker.FromRequest(r3))
}
