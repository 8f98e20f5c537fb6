// Package grid implements the collision-aware layout model: default-size
// placement via greedy first-fit, manual move/resize, and reconciliation of
// persisted layouts against the live component set.
package grid

import (
	"fmt"
	"sort"

	"github.com/glassboard-labs/glassboard/pkg/core"
)

// defaultSizes maps component types to their default width/height in grid
// units. Unknown types fall back to 4x4.
var defaultSizes = map[core.ComponentType]core.Rect{
	core.ComponentChart:  {W: 6, H: 5},
	core.ComponentTable:  {W: 6, H: 6},
	core.ComponentCard:   {W: 3, H: 2},
	core.ComponentFilter: {W: 3, H: 1},
	core.ComponentText:   {W: 4, H: 2},
}

const fallbackW, fallbackH = 4, 4

// DefaultSize returns the default rectangle size for a component type.
func DefaultSize(t core.ComponentType) (w, h int) {
	if r, ok := defaultSizes[t]; ok {
		return r.W, r.H
	}
	return fallbackW, fallbackH
}

// Model computes placements on a fixed-column grid.
type Model struct {
	columns int
}

// NewModel creates a layout model. columns <= 0 selects core.GridColumns.
func NewModel(columns int) *Model {
	if columns <= 0 {
		columns = core.GridColumns
	}
	return &Model{columns: columns}
}

// Columns returns the grid width in grid units.
func (m *Model) Columns() int {
	return m.columns
}

// Place returns a collision-free rectangle for a new component of the given
// type. The scan is greedy first-fit, rows top-to-bottom then columns left
// to right; only zero-overlap against unlocked entries is guaranteed, not
// optimality. Locked entries are ignored for collision purposes.
func (m *Model) Place(t core.ComponentType, existing []core.LayoutEntry) (core.Rect, error) {
	w, h := DefaultSize(t)
	if w > m.columns {
		w = m.columns
	}

	obstacles := make([]core.Rect, 0, len(existing))
	maxY := 0
	for _, e := range existing {
		if e.Locked {
			continue
		}
		obstacles = append(obstacles, e.Rect())
		if bottom := e.Y + e.H; bottom > maxY {
			maxY = bottom
		}
	}

	// Worst case the new rectangle sits below everything, so the scan is
	// bounded by maxY inclusive.
	for y := 0; y <= maxY; y++ {
		for x := 0; x+w <= m.columns; x++ {
			cand := core.Rect{X: x, Y: y, W: w, H: h}
			if !overlapsAny(cand, obstacles) {
				return cand, nil
			}
		}
	}
	return core.Rect{X: 0, Y: maxY, W: w, H: h}, nil
}

func overlapsAny(r core.Rect, obstacles []core.Rect) bool {
	for _, o := range obstacles {
		if r.Overlaps(o) {
			return true
		}
	}
	return false
}

// MoveOrResize overwrites the rectangle of the entry with the given id and
// returns the updated entry. Overlaps from manual drags are accepted; the
// client enforces collisions interactively. Unknown ids return
// core.ErrNotFound.
func MoveOrResize(layouts []core.LayoutEntry, id core.ComponentIndex, rect core.Rect) (core.LayoutEntry, error) {
	for i := range layouts {
		if layouts[i].ComponentID == id {
			layouts[i] = layouts[i].WithRect(rect)
			return layouts[i], nil
		}
	}
	return core.LayoutEntry{}, fmt.Errorf("layout entry %s: %w", id, core.ErrNotFound)
}

// Reconcile aligns persisted layout entries with the live component set:
// entries whose id has no known component are dropped, and every known
// component missing an entry gets one synthesized via Place using its
// declared type. The second return reports whether anything changed, so
// callers can skip the persist when the layout is already a fixed point.
func (m *Model) Reconcile(layouts []core.LayoutEntry, known map[core.ComponentIndex]core.ComponentType) ([]core.LayoutEntry, bool) {
	out := make([]core.LayoutEntry, 0, len(known))
	seen := make(map[core.ComponentIndex]struct{}, len(known))
	changed := false

	for _, e := range layouts {
		if _, ok := known[e.ComponentID]; !ok {
			changed = true // orphan dropped
			continue
		}
		if _, dup := seen[e.ComponentID]; dup {
			changed = true // duplicate entry for one component
			continue
		}
		seen[e.ComponentID] = struct{}{}
		out = append(out, e)
	}

	// Deterministic synthesis order keeps reconciliation stable across runs.
	missing := make([]core.ComponentIndex, 0)
	for id := range known {
		if _, ok := seen[id]; !ok {
			missing = append(missing, id)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })

	for _, id := range missing {
		rect, err := m.Place(known[id], out)
		if err != nil {
			continue
		}
		out = append(out, core.LayoutEntry{ComponentID: id}.WithRect(rect))
		changed = true
	}

	return out, changed
}
