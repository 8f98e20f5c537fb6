// Package board owns the mutable state of one dashboard session: grid
// layout, component metadata, render trees, and the interactive filter
// store. Every user-originated event is serialized through one reactive
// cycle; a propagation pass runs to completion before the next event is
// accepted for the dashboard.
package board

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/glassboard-labs/glassboard/internal/filter"
	"github.com/glassboard-labs/glassboard/internal/grid"
	"github.com/glassboard-labs/glassboard/internal/identity"
	"github.com/glassboard-labs/glassboard/internal/interaction"
	"github.com/glassboard-labs/glassboard/internal/rendertree"
	"github.com/glassboard-labs/glassboard/pkg/core"
)

// Session is the single logical owner of one dashboard's state. All
// mutations go through its mutex; there are no concurrent writers within a
// session. Cross-session concurrency is resolved at the persistence
// boundary (last-write-wins) and is not this type's concern.
type Session struct {
	mu sync.Mutex

	dashboard *core.Dashboard
	trees     map[core.ComponentIndex]rendertree.Node

	store  core.Store
	perms  core.PermissionChecker
	alloc  *identity.Allocator
	model  *grid.Model
	engine *filter.Engine
	logger *slog.Logger
}

// NewSession wraps a reconciled dashboard. The filter store starts empty:
// interactive filter state is session-scoped, never persisted.
func NewSession(d *core.Dashboard, trees map[core.ComponentIndex]rendertree.Node,
	store core.Store, perms core.PermissionChecker, alloc *identity.Allocator,
	model *grid.Model, logger *slog.Logger) *Session {

	if trees == nil {
		trees = make(map[core.ComponentIndex]rendertree.Node)
	}
	fstore := filter.NewStore()
	deps := filter.BuildDependencyIndex(d.Metadata)
	return &Session{
		dashboard: d,
		trees:     trees,
		store:     store,
		perms:     perms,
		alloc:     alloc,
		model:     model,
		engine:    filter.NewEngine(fstore, deps, logger),
		logger:    logger,
	}
}

// Dashboard returns a snapshot copy of the dashboard record.
func (s *Session) Dashboard() *core.Dashboard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Filters returns the current combined filter set.
func (s *Session) Filters() core.FilterSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Store().Snapshot()
}

// Tree returns a component's render tree. The returned node shares no state
// with the session copy.
func (s *Session) Tree(id core.ComponentIndex) (rendertree.Node, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trees[id]
	if !ok {
		return rendertree.Node{}, false
	}
	return rendertree.Clone(t, "", ""), true
}

// MoveOrResize overwrites a component's rectangle from a manual drag or
// resize. Overlaps are not rejected here; the client enforces collisions
// interactively. The updated layout is persisted before the patch returns.
func (s *Session) MoveOrResize(ctx context.Context, user string, id core.ComponentIndex, rect core.Rect) (core.Patch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkEditorLocked(ctx, user, "move"); err != nil {
		return core.Patch{}, err
	}

	layouts := append([]core.LayoutEntry(nil), s.dashboard.Layouts...)
	updated, err := grid.MoveOrResize(layouts, id, rect)
	if err != nil {
		s.logger.Warn("move: component not found", "dashboard", s.dashboard.ID, "component", id)
		return core.Patch{}, err
	}

	if err := s.store.SaveLayouts(ctx, s.dashboard.ID, layouts); err != nil {
		return core.Patch{}, fmt.Errorf("persist layout: %w", err)
	}
	s.dashboard.Layouts = layouts

	return core.Patch{UpdatedLayouts: []core.LayoutEntry{updated}}, nil
}

// Duplicate clones the component under a fresh index: collision-free
// placement against the latest layout snapshot, deep-copied render tree
// with every embedded reference remapped, and cloned metadata. The triple
// is created atomically from the caller's point of view; any failure leaves
// prior state unchanged.
func (s *Session) Duplicate(ctx context.Context, user string, id core.ComponentIndex) (core.Patch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkEditorLocked(ctx, user, "duplicate"); err != nil {
		return core.Patch{}, err
	}

	meta, ok := s.dashboard.Metadata[id]
	if !ok {
		s.logger.Warn("duplicate: component not found", "dashboard", s.dashboard.ID, "component", id)
		return core.Patch{}, fmt.Errorf("component %s: %w", id, core.ErrNotFound)
	}

	newIndex := s.alloc.ForDuplicate(id)

	rect, err := s.model.Place(meta.Type, s.dashboard.Layouts)
	if err != nil {
		return core.Patch{}, fmt.Errorf("place duplicate: %w", err)
	}
	entry := core.LayoutEntry{ComponentID: newIndex}.WithRect(rect)
	newMeta := meta.CloneFor(newIndex)

	srcTree, hasTree := s.trees[id]
	var newTree rendertree.Node
	if hasTree {
		newTree = rendertree.Clone(srcTree, id, newIndex)
	} else {
		newTree = DefaultTree(newMeta)
	}

	// Build the post-state on copies, persist, and only then swap it in.
	layouts := append(append([]core.LayoutEntry(nil), s.dashboard.Layouts...), entry)
	metadata := copyMetadata(s.dashboard.Metadata)
	metadata[newIndex] = newMeta

	if err := s.persistLocked(ctx, layouts, metadata); err != nil {
		return core.Patch{}, err
	}
	if raw, merr := rendertree.Marshal(newTree); merr == nil {
		if err := s.store.SaveRenderTree(ctx, s.dashboard.ID, newIndex, raw); err != nil {
			// Roll the documents back so the persisted triple stays whole.
			s.rollbackLocked(ctx)
			return core.Patch{}, fmt.Errorf("persist render tree: %w", err)
		}
	} else {
		// Reconciliation regenerates a default tree for the copy on next load.
		s.logger.Warn("duplicate: render tree encode failed, copy persists without one",
			"dashboard", s.dashboard.ID, "component", newIndex, "error", merr)
	}

	s.dashboard.Layouts = layouts
	s.dashboard.Metadata = metadata
	s.dashboard.Components[newIndex] = struct{}{}
	s.trees[newIndex] = newTree
	s.engine.SetDependencies(filter.BuildDependencyIndex(metadata))

	s.logger.Info("component duplicated",
		"dashboard", s.dashboard.ID, "source", id, "new", newIndex)

	return core.Patch{Added: []core.AddedComponent{{
		Index:    newIndex,
		Layout:   entry,
		Metadata: newMeta,
	}}}, nil
}

// Remove deletes the component's layout, metadata, render tree, and filter
// slot together. All-or-nothing: a persistence failure restores the prior
// documents and reports the error with no mutation.
func (s *Session) Remove(ctx context.Context, user string, id core.ComponentIndex) (core.Patch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkEditorLocked(ctx, user, "remove"); err != nil {
		return core.Patch{}, err
	}

	if _, ok := s.dashboard.Metadata[id]; !ok {
		s.logger.Warn("remove: component not found", "dashboard", s.dashboard.ID, "component", id)
		return core.Patch{}, fmt.Errorf("component %s: %w", id, core.ErrNotFound)
	}

	layouts := make([]core.LayoutEntry, 0, len(s.dashboard.Layouts))
	for _, e := range s.dashboard.Layouts {
		if e.ComponentID != id {
			layouts = append(layouts, e)
		}
	}
	metadata := copyMetadata(s.dashboard.Metadata)
	delete(metadata, id)

	if err := s.persistLocked(ctx, layouts, metadata); err != nil {
		return core.Patch{}, err
	}
	if err := s.store.DeleteRenderTree(ctx, s.dashboard.ID, id); err != nil {
		s.logger.Warn("remove: render tree delete failed, reconciliation will drop it",
			"dashboard", s.dashboard.ID, "component", id, "error", err)
	}

	s.dashboard.Layouts = layouts
	s.dashboard.Metadata = metadata
	delete(s.dashboard.Components, id)
	delete(s.trees, id)

	// The removed component may have been an active producer; dropping its
	// slot is part of the same reactive cycle.
	refreshes := s.engine.Drop(id)
	s.engine.SetDependencies(filter.BuildDependencyIndex(metadata))

	s.logger.Info("component removed", "dashboard", s.dashboard.ID, "component", id)

	return core.Patch{Removed: []core.ComponentIndex{id}, Refreshes: refreshes}, nil
}

// FilterInput feeds a raw value from a filter widget into the propagation
// engine. A nil raw value clears the producer's slot; a slice becomes a
// set-membership predicate, anything else an equality predicate. Filter
// interaction never touches layout or metadata.
func (s *Session) FilterInput(ctx context.Context, id core.ComponentIndex, raw any) (core.Patch, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	meta, ok := s.dashboard.Metadata[id]
	if !ok {
		s.logger.Warn("filter input: component not found", "dashboard", s.dashboard.ID, "component", id)
		return core.Patch{}, fmt.Errorf("component %s: %w", id, core.ErrNotFound)
	}

	if raw == nil {
		return core.Patch{Refreshes: s.engine.Drop(id)}, nil
	}

	pred := core.FilterPredicate{
		Producer:      id,
		DataSourceRef: meta.DataSourceRef,
		Column:        meta.Dimension,
	}
	switch v := raw.(type) {
	case []any:
		if len(v) == 0 {
			return core.Patch{Refreshes: s.engine.Drop(id)}, nil
		}
		pred.Op = core.OpIn
		pred.Values = v
	default:
		pred.Op = core.OpEq
		pred.Value = v
	}

	return core.Patch{Refreshes: s.engine.Apply(pred)}, nil
}

// ChartClick turns a point click on a chart into an equality predicate and
// runs one propagation pass.
func (s *Session) ChartClick(ctx context.Context, id core.ComponentIndex, point interaction.Point) (core.Patch, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	meta, ok := s.dashboard.Metadata[id]
	if !ok {
		s.logger.Warn("chart click: component not found", "dashboard", s.dashboard.ID, "component", id)
		return core.Patch{}, fmt.Errorf("component %s: %w", id, core.ErrNotFound)
	}

	pred, err := interaction.PointClick(meta, point)
	if err != nil {
		s.logger.Warn("chart click ignored", "dashboard", s.dashboard.ID, "component", id, "error", err)
		return core.Patch{}, err
	}
	return core.Patch{Refreshes: s.engine.Apply(pred)}, nil
}

// ChartSelect turns a region/lasso selection into a set-membership
// predicate and runs one propagation pass.
func (s *Session) ChartSelect(ctx context.Context, id core.ComponentIndex, points []interaction.Point) (core.Patch, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	meta, ok := s.dashboard.Metadata[id]
	if !ok {
		s.logger.Warn("chart select: component not found", "dashboard", s.dashboard.ID, "component", id)
		return core.Patch{}, fmt.Errorf("component %s: %w", id, core.ErrNotFound)
	}

	pred, err := interaction.RegionSelect(meta, points)
	if err != nil {
		s.logger.Warn("chart select ignored", "dashboard", s.dashboard.ID, "component", id, "error", err)
		return core.Patch{}, err
	}
	return core.Patch{Refreshes: s.engine.Apply(pred)}, nil
}

// ClearFilters empties every producer slot and triggers exactly one
// unfiltered refresh per consumer.
func (s *Session) ClearFilters(ctx context.Context) (core.Patch, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.Patch{Refreshes: s.engine.Reset()}, nil
}

// --- internal helpers (callers hold s.mu) ---

func (s *Session) checkEditorLocked(ctx context.Context, user, op string) error {
	if s.perms.HasEditorPermission(ctx, s.dashboard.ProjectRef, user) {
		return nil
	}
	s.logger.Warn("permission denied",
		"dashboard", s.dashboard.ID, "project", s.dashboard.ProjectRef,
		"user", user, "op", op)
	return fmt.Errorf("%s on %s: %w", op, s.dashboard.ID, core.ErrPermissionDenied)
}

// persistLocked writes both documents, restoring the originals if the
// second write fails so the persisted pair never splits.
func (s *Session) persistLocked(ctx context.Context, layouts []core.LayoutEntry, metadata map[core.ComponentIndex]core.ComponentMetadata) error {
	if err := s.store.SaveLayouts(ctx, s.dashboard.ID, layouts); err != nil {
		return fmt.Errorf("persist layouts: %w", err)
	}
	if err := s.store.SaveMetadata(ctx, s.dashboard.ID, metadata); err != nil {
		s.rollbackLocked(ctx)
		return fmt.Errorf("persist metadata: %w", err)
	}
	return nil
}

// rollbackLocked re-saves the in-memory (pre-operation) documents after a
// partial persist failure. The store is assumed reliable, so this is best
// effort with a log on the rare double fault.
func (s *Session) rollbackLocked(ctx context.Context) {
	if err := s.store.SaveLayouts(ctx, s.dashboard.ID, s.dashboard.Layouts); err != nil {
		s.logger.Error("rollback of layouts failed", "dashboard", s.dashboard.ID, "error", err)
	}
	if err := s.store.SaveMetadata(ctx, s.dashboard.ID, s.dashboard.Metadata); err != nil {
		s.logger.Error("rollback of metadata failed", "dashboard", s.dashboard.ID, "error", err)
	}
}

func (s *Session) snapshotLocked() *core.Dashboard {
	d := &core.Dashboard{
		ID:         s.dashboard.ID,
		Title:      s.dashboard.Title,
		ProjectRef: s.dashboard.ProjectRef,
		Layouts:    append([]core.LayoutEntry(nil), s.dashboard.Layouts...),
		Metadata:   copyMetadata(s.dashboard.Metadata),
		Components: make(map[core.ComponentIndex]struct{}, len(s.dashboard.Components)),
	}
	for idx := range s.dashboard.Components {
		d.Components[idx] = struct{}{}
	}
	return d
}

func copyMetadata(in map[core.ComponentIndex]core.ComponentMetadata) map[core.ComponentIndex]core.ComponentMetadata {
	out := make(map[core.ComponentIndex]core.ComponentMetadata, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// DefaultTree builds the minimal render tree for a component that has none
// persisted: a keyed root carrying the component's own reference, so
// controls embedded later resolve against the right identity.
func DefaultTree(meta core.ComponentMetadata) rendertree.Node {
	return rendertree.Fields(map[string]rendertree.Node{
		"component": rendertree.Ref(meta.Index),
		"type":      rendertree.Leaf(string(meta.Type)),
	})
}
