// Package state persists dashboards, layouts, metadata, and render trees in
// SQLite. Layouts and metadata are stored as JSON documents per dashboard;
// saves are independent CRUD operations, not mutually transactional.
package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	_ "modernc.org/sqlite" // sqlite driver (pure Go)

	"github.com/glassboard-labs/glassboard/pkg/core"
)

// SQLiteStore implements core.Store using SQLite.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore creates a new SQLite store instance.
func NewSQLiteStore() *SQLiteStore {
	return &SQLiteStore{}
}

// Open opens a connection to the SQLite database.
// Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	dsn := path
	if path != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", path)
	} else {
		dsn = ":memory:?_pragma=foreign_keys(1)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if path == ":memory:" {
		// An in-memory database exists per connection; pin the pool to one so
		// every statement sees the same database.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// DB returns the underlying connection, e.g. for migrations in tests.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// --- Dashboard operations ---

// PutDashboard inserts or updates a dashboard row and its layout/metadata
// documents.
func (s *SQLiteStore) PutDashboard(ctx context.Context, d *core.Dashboard) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO dashboards (id, title, project_ref, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title = excluded.title,
			project_ref = excluded.project_ref, updated_at = excluded.updated_at`,
		d.ID, d.Title, d.ProjectRef, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to put dashboard: %w", err)
	}

	if err := s.SaveLayouts(ctx, d.ID, d.Layouts); err != nil {
		return err
	}
	return s.SaveMetadata(ctx, d.ID, d.Metadata)
}

// GetDashboard loads a dashboard with its layouts and metadata.
// Returns core.ErrNotFound if the id is unknown.
func (s *SQLiteStore) GetDashboard(ctx context.Context, id string) (*core.Dashboard, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	d := &core.Dashboard{ID: id}
	err := s.db.QueryRowContext(ctx,
		`SELECT title, project_ref FROM dashboards WHERE id = ?`, id,
	).Scan(&d.Title, &d.ProjectRef)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("dashboard %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get dashboard: %w", err)
	}

	if d.Layouts, err = s.LoadLayouts(ctx, id); err != nil && !errors.Is(err, core.ErrCorruptState) {
		return nil, err
	}
	if d.Metadata, err = s.LoadMetadata(ctx, id); err != nil {
		return nil, err
	}

	d.Components = make(map[core.ComponentIndex]struct{}, len(d.Metadata))
	for idx := range d.Metadata {
		d.Components[idx] = struct{}{}
	}
	return d, nil
}

// ListDashboards returns all dashboards ordered by title, without their
// layout/metadata documents.
func (s *SQLiteStore) ListDashboards(ctx context.Context) ([]*core.Dashboard, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, project_ref FROM dashboards ORDER BY title, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list dashboards: %w", err)
	}
	defer rows.Close()

	var out []*core.Dashboard
	for rows.Next() {
		d := &core.Dashboard{}
		if err := rows.Scan(&d.ID, &d.Title, &d.ProjectRef); err != nil {
			return nil, fmt.Errorf("failed to scan dashboard: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// DeleteDashboard removes a dashboard; layouts, metadata, and render trees
// follow via foreign keys.
func (s *SQLiteStore) DeleteDashboard(ctx context.Context, id string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM dashboards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete dashboard: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("dashboard %s: %w", id, core.ErrNotFound)
	}
	return nil
}

// --- Layout operations ---

// SaveLayouts stores the flat layout list as one JSON document.
func (s *SQLiteStore) SaveLayouts(ctx context.Context, dashboardID string, layouts []core.LayoutEntry) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	if layouts == nil {
		layouts = []core.LayoutEntry{}
	}
	data, err := json.Marshal(layouts)
	if err != nil {
		return fmt.Errorf("failed to encode layouts: %w", err)
	}
	return s.upsertDoc(ctx, "layouts", dashboardID, data)
}

// LoadLayouts decodes the stored layout document. Malformed documents are
// reported as core.ErrCorruptState; callers regenerate rather than fail.
func (s *SQLiteStore) LoadLayouts(ctx context.Context, dashboardID string) ([]core.LayoutEntry, error) {
	raw, err := s.LoadRawLayouts(ctx, dashboardID)
	if err != nil || raw == nil {
		return nil, err
	}
	var layouts []core.LayoutEntry
	if err := json.Unmarshal(raw, &layouts); err != nil {
		return nil, fmt.Errorf("decode layouts for %s: %w", dashboardID, core.ErrCorruptState)
	}
	return layouts, nil
}

// LoadRawLayouts returns the persisted layout bytes unparsed, so the caller
// can normalize legacy per-breakpoint formats first. A missing document
// yields nil, nil.
func (s *SQLiteStore) LoadRawLayouts(ctx context.Context, dashboardID string) ([]byte, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM layouts WHERE dashboard_id = ?`, dashboardID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load layouts: %w", err)
	}
	return data, nil
}

// --- Metadata operations ---

// SaveMetadata stores the metadata map as one JSON document.
func (s *SQLiteStore) SaveMetadata(ctx context.Context, dashboardID string, meta map[core.ComponentIndex]core.ComponentMetadata) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	if meta == nil {
		meta = map[core.ComponentIndex]core.ComponentMetadata{}
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	return s.upsertDoc(ctx, "metadata", dashboardID, data)
}

// LoadMetadata decodes the stored metadata document. A missing document
// yields an empty map; malformed documents are core.ErrCorruptState.
func (s *SQLiteStore) LoadMetadata(ctx context.Context, dashboardID string) (map[core.ComponentIndex]core.ComponentMetadata, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM metadata WHERE dashboard_id = ?`, dashboardID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return map[core.ComponentIndex]core.ComponentMetadata{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load metadata: %w", err)
	}
	var meta map[core.ComponentIndex]core.ComponentMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode metadata for %s: %w", dashboardID, core.ErrCorruptState)
	}
	return meta, nil
}

// --- Render tree operations ---

// SaveRenderTree stores one component's render tree bytes.
func (s *SQLiteStore) SaveRenderTree(ctx context.Context, dashboardID string, id core.ComponentIndex, tree []byte) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO render_trees (dashboard_id, component_id, data, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(dashboard_id, component_id) DO UPDATE SET
			data = excluded.data, updated_at = excluded.updated_at`,
		dashboardID, string(id), tree, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save render tree: %w", err)
	}
	return nil
}

// LoadRenderTree returns one component's render tree bytes, or
// core.ErrNotFound.
func (s *SQLiteStore) LoadRenderTree(ctx context.Context, dashboardID string, id core.ComponentIndex) ([]byte, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM render_trees WHERE dashboard_id = ? AND component_id = ?`,
		dashboardID, string(id)).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("render tree %s/%s: %w", dashboardID, id, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load render tree: %w", err)
	}
	return data, nil
}

// DeleteRenderTree removes one component's render tree. Deleting a missing
// tree is a no-op.
func (s *SQLiteStore) DeleteRenderTree(ctx context.Context, dashboardID string, id core.ComponentIndex) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM render_trees WHERE dashboard_id = ? AND component_id = ?`,
		dashboardID, string(id))
	if err != nil {
		return fmt.Errorf("failed to delete render tree: %w", err)
	}
	return nil
}

func (s *SQLiteStore) upsertDoc(ctx context.Context, table, dashboardID string, data []byte) error {
	//nolint:gosec // table is a compile-time constant, never user input
	stmt := fmt.Sprintf(`
		INSERT INTO %s (dashboard_id, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(dashboard_id) DO UPDATE SET
			data = excluded.data, updated_at = excluded.updated_at`, table)
	if _, err := s.db.ExecContext(ctx, stmt, dashboardID, data, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save %s: %w", table, err)
	}
	return nil
}
