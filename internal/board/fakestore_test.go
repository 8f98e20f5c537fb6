package board

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/glassboard-labs/glassboard/pkg/core"
)

// fakeStore is an in-memory core.Store with injectable save failures, used to
// exercise the session's all-or-nothing persistence behavior.
type fakeStore struct {
	dashboards map[string]*core.Dashboard
	layouts    map[string][]core.LayoutEntry
	raw        map[string][]byte
	metadata   map[string]map[core.ComponentIndex]core.ComponentMetadata
	trees      map[string]map[core.ComponentIndex][]byte

	failSaveLayouts  error
	failSaveMetadata error
	failSaveTree     error
	failDeleteTree   error

	saveLayoutCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		dashboards: make(map[string]*core.Dashboard),
		layouts:    make(map[string][]core.LayoutEntry),
		raw:        make(map[string][]byte),
		metadata:   make(map[string]map[core.ComponentIndex]core.ComponentMetadata),
		trees:      make(map[string]map[core.ComponentIndex][]byte),
	}
}

func (f *fakeStore) Open(string) error { return nil }
func (f *fakeStore) Close() error      { return nil }
func (f *fakeStore) Migrate() error    { return nil }

func (f *fakeStore) PutDashboard(_ context.Context, d *core.Dashboard) error {
	f.dashboards[d.ID] = d
	f.metadata[d.ID] = d.Metadata
	return nil
}

func (f *fakeStore) GetDashboard(_ context.Context, id string) (*core.Dashboard, error) {
	d, ok := f.dashboards[id]
	if !ok {
		return nil, fmt.Errorf("dashboard %s: %w", id, core.ErrNotFound)
	}
	meta := make(map[core.ComponentIndex]core.ComponentMetadata, len(f.metadata[id]))
	components := make(map[core.ComponentIndex]struct{}, len(f.metadata[id]))
	for idx, m := range f.metadata[id] {
		meta[idx] = m
		components[idx] = struct{}{}
	}
	return &core.Dashboard{
		ID:         d.ID,
		Title:      d.Title,
		ProjectRef: d.ProjectRef,
		Components: components,
		Metadata:   meta,
	}, nil
}

func (f *fakeStore) ListDashboards(_ context.Context) ([]*core.Dashboard, error) {
	out := make([]*core.Dashboard, 0, len(f.dashboards))
	for _, d := range f.dashboards {
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeStore) DeleteDashboard(_ context.Context, id string) error {
	delete(f.dashboards, id)
	delete(f.layouts, id)
	delete(f.raw, id)
	delete(f.metadata, id)
	delete(f.trees, id)
	return nil
}

func (f *fakeStore) SaveLayouts(_ context.Context, dashboardID string, layouts []core.LayoutEntry) error {
	f.saveLayoutCalls++
	if f.failSaveLayouts != nil {
		return f.failSaveLayouts
	}
	f.layouts[dashboardID] = append([]core.LayoutEntry(nil), layouts...)
	raw, err := json.Marshal(layouts)
	if err != nil {
		return err
	}
	f.raw[dashboardID] = raw
	return nil
}

func (f *fakeStore) LoadLayouts(_ context.Context, dashboardID string) ([]core.LayoutEntry, error) {
	return f.layouts[dashboardID], nil
}

func (f *fakeStore) LoadRawLayouts(_ context.Context, dashboardID string) ([]byte, error) {
	return f.raw[dashboardID], nil
}

func (f *fakeStore) SaveMetadata(_ context.Context, dashboardID string, meta map[core.ComponentIndex]core.ComponentMetadata) error {
	if f.failSaveMetadata != nil {
		return f.failSaveMetadata
	}
	copied := make(map[core.ComponentIndex]core.ComponentMetadata, len(meta))
	for k, v := range meta {
		copied[k] = v
	}
	f.metadata[dashboardID] = copied
	return nil
}

func (f *fakeStore) LoadMetadata(_ context.Context, dashboardID string) (map[core.ComponentIndex]core.ComponentMetadata, error) {
	return f.metadata[dashboardID], nil
}

func (f *fakeStore) SaveRenderTree(_ context.Context, dashboardID string, id core.ComponentIndex, tree []byte) error {
	if f.failSaveTree != nil {
		return f.failSaveTree
	}
	if f.trees[dashboardID] == nil {
		f.trees[dashboardID] = make(map[core.ComponentIndex][]byte)
	}
	f.trees[dashboardID][id] = append([]byte(nil), tree...)
	return nil
}

func (f *fakeStore) LoadRenderTree(_ context.Context, dashboardID string, id core.ComponentIndex) ([]byte, error) {
	raw, ok := f.trees[dashboardID][id]
	if !ok {
		return nil, fmt.Errorf("render tree %s/%s: %w", dashboardID, id, core.ErrNotFound)
	}
	return raw, nil
}

func (f *fakeStore) DeleteRenderTree(_ context.Context, dashboardID string, id core.ComponentIndex) error {
	if f.failDeleteTree != nil {
		return f.failDeleteTree
	}
	delete(f.trees[dashboardID], id)
	return nil
}

var _ core.Store = (*fakeStore)(nil)
