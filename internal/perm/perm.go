// Package perm gates mutating dashboard operations on editor permission.
// Denial is a silent no-op from the user's point of view: the operation is
// aborted before any mutation and a log line is the only trace.
package perm

import (
	"context"
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/glassboard-labs/glassboard/pkg/core"
)

func init() {
	// The grant set is stored inside the gob-encoded cookie session.
	gob.Register(map[string]bool{})
}

// SessionKey is the session value holding the set of project refs the user
// may edit.
const SessionKey = "editor_projects"

// sessionName is the cookie session bucket used by the UI server.
const sessionName = "glassboard"

// SessionChecker reads editor permission from the gorilla session attached
// to the request. The authn layer that populates the session is an external
// collaborator.
type SessionChecker struct {
	store sessions.Store
}

// NewSessionChecker creates a checker over the given session store.
func NewSessionChecker(store sessions.Store) *SessionChecker {
	return &SessionChecker{store: store}
}

// FromRequest resolves the user's editable project set out of the request
// session. Missing or malformed sessions yield an empty set.
func (c *SessionChecker) FromRequest(r *http.Request) map[string]bool {
	session, err := c.store.Get(r, sessionName)
	if err != nil {
		return nil
	}
	projects, _ := session.Values[SessionKey].(map[string]bool)
	return projects
}

// Grant marks the project as editable in the session.
func (c *SessionChecker) Grant(w http.ResponseWriter, r *http.Request, projectRef string) error {
	session, err := c.store.Get(r, sessionName)
	if err != nil {
		return err
	}
	projects, _ := session.Values[SessionKey].(map[string]bool)
	if projects == nil {
		projects = make(map[string]bool)
	}
	projects[projectRef] = true
	session.Values[SessionKey] = projects
	return session.Save(r, w)
}

// Static is a core.PermissionChecker over a fixed grant table, used by the
// engine once the request-scoped session has been resolved, and directly in
// tests.
type Static struct {
	// Grants maps user -> project ref -> editor.
	Grants map[string]map[string]bool
}

// HasEditorPermission implements core.PermissionChecker.
func (s Static) HasEditorPermission(_ context.Context, projectRef, user string) bool {
	return s.Grants[user][projectRef]
}

// AllowAll grants every user editor permission on every project. Local
// single-user mode runs with this checker.
type AllowAll struct{}

// HasEditorPermission implements core.PermissionChecker.
func (AllowAll) HasEditorPermission(context.Context, string, string) bool {
	return true
}

type ctxKey struct{}

// WithGrants attaches the request user's editable project set to the
// context, for checks that happen below the HTTP layer.
func WithGrants(ctx context.Context, projects map[string]bool) context.Context {
	return context.WithValue(ctx, ctxKey{}, projects)
}

// ContextChecker reads the grant set placed in the context by the HTTP
// layer. Requests without grants have no editor permission anywhere.
type ContextChecker struct{}

// HasEditorPermission implements core.PermissionChecker.
func (ContextChecker) HasEditorPermission(ctx context.Context, projectRef, _ string) bool {
	projects, _ := ctx.Value(ctxKey{}).(map[string]bool)
	return projects[projectRef]
}

var (
	_ core.PermissionChecker = Static{}
	_ core.PermissionChecker = AllowAll{}
	_ core.PermissionChecker = ContextChecker{}
)
