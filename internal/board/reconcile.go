package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/glassboard-labs/glassboard/internal/grid"
	"github.com/glassboard-labs/glassboard/internal/rendertree"
	"github.com/glassboard-labs/glassboard/pkg/core"
)

// Reconciler aligns persisted layout and metadata with the live component
// set on dashboard load: legacy layout formats are normalized, orphaned
// layout entries dropped, missing layouts synthesized, and the result
// persisted immediately so subsequent loads are a fixed point.
type Reconciler struct {
	store  core.Store
	model  *grid.Model
	logger *slog.Logger
}

// NewReconciler creates a Reconciler.
func NewReconciler(store core.Store, model *grid.Model, logger *slog.Logger) *Reconciler {
	return &Reconciler{store: store, model: model, logger: logger}
}

// Load reconciles and returns the dashboard plus its render trees. A
// component with corrupt or unparsable layout is treated as "missing
// layout" and regenerated, never as fatal.
func (r *Reconciler) Load(ctx context.Context, dashboardID string) (*core.Dashboard, map[core.ComponentIndex]rendertree.Node, error) {
	d, err := r.store.GetDashboard(ctx, dashboardID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("load dashboard %s: %w", dashboardID, err)
	}

	// Normalize from the raw persisted bytes so legacy per-breakpoint maps
	// survive the trip. Corrupt bytes degrade to an empty layout and full
	// regeneration below.
	raw, err := r.store.LoadRawLayouts(ctx, dashboardID)
	if err != nil {
		return nil, nil, fmt.Errorf("load layouts %s: %w", dashboardID, err)
	}
	layouts, err := grid.Normalize(raw)
	if err != nil {
		r.logger.Warn("corrupt persisted layout, regenerating",
			"dashboard", dashboardID, "error", err)
		layouts = nil
	}

	known := d.KnownComponents()
	reconciled, changed := r.model.Reconcile(layouts, known)
	d.Layouts = reconciled

	if changed {
		if err := r.store.SaveLayouts(ctx, dashboardID, reconciled); err != nil {
			return nil, nil, fmt.Errorf("persist reconciled layout %s: %w", dashboardID, err)
		}
		r.logger.Info("layout reconciled",
			"dashboard", dashboardID, "components", len(known), "entries", len(reconciled))
	}

	trees := r.loadTrees(ctx, d)
	return d, trees, nil
}

// loadTrees fetches each live component's render tree; missing or corrupt
// trees are regenerated from metadata.
func (r *Reconciler) loadTrees(ctx context.Context, d *core.Dashboard) map[core.ComponentIndex]rendertree.Node {
	trees := make(map[core.ComponentIndex]rendertree.Node, len(d.Metadata))
	for idx, meta := range d.Metadata {
		raw, err := r.store.LoadRenderTree(ctx, d.ID, idx)
		if err == nil {
			if tree, derr := rendertree.Unmarshal(raw); derr == nil {
				trees[idx] = tree
				continue
			}
			r.logger.Warn("corrupt render tree, regenerating",
				"dashboard", d.ID, "component", idx)
		}
		trees[idx] = DefaultTree(meta)
	}
	return trees
}
