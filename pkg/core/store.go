package core

import "context"

// Store defines the persistence interface for dashboards, layouts, and
// metadata. Implementations are simple CRUD and assumed reliable; layout and
// metadata saves are not assumed mutually transactional.
type Store interface {
	Open(path string) error
	Close() error
	Migrate() error

	// Dashboard operations
	PutDashboard(ctx context.Context, d *Dashboard) error
	GetDashboard(ctx context.Context, id string) (*Dashboard, error)
	ListDashboards(ctx context.Context) ([]*Dashboard, error)
	DeleteDashboard(ctx context.Context, id string) error

	// Layout operations. LoadRawLayouts returns the persisted bytes so the
	// caller can normalize legacy formats before decoding.
	SaveLayouts(ctx context.Context, dashboardID string, layouts []LayoutEntry) error
	LoadLayouts(ctx context.Context, dashboardID string) ([]LayoutEntry, error)
	LoadRawLayouts(ctx context.Context, dashboardID string) ([]byte, error)

	// Metadata operations
	SaveMetadata(ctx context.Context, dashboardID string, meta map[ComponentIndex]ComponentMetadata) error
	LoadMetadata(ctx context.Context, dashboardID string) (map[ComponentIndex]ComponentMetadata, error)

	// Render tree operations. Trees are opaque bytes at this boundary;
	// encoding and identifier remapping live above the store.
	SaveRenderTree(ctx context.Context, dashboardID string, id ComponentIndex, tree []byte) error
	LoadRenderTree(ctx context.Context, dashboardID string, id ComponentIndex) ([]byte, error)
	DeleteRenderTree(ctx context.Context, dashboardID string, id ComponentIndex) error
}

// QueryResult is the renderable payload returned by the data query service.
type QueryResult struct {
	Columns []string
	Rows    [][]any
}

// Querier is the external data query service: it turns a data source
// reference plus a filter set into a renderable payload. Fetch may be slow;
// callers must not invoke it inside a propagation pass.
type Querier interface {
	Fetch(ctx context.Context, dataSourceRef string, filters FilterSet) (*QueryResult, error)
}

// PermissionChecker is the external permission service. Denial aborts
// duplicate/remove/move as a silent no-op (logged).
type PermissionChecker interface {
	HasEditorPermission(ctx context.Context, projectRef, user string) bool
}
