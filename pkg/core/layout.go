package core

// GridColumns is the width of the layout grid in grid units. All dashboards
// use the same fixed column count; breakpoint-specific layouts from legacy
// persisted formats are normalized against one reference breakpoint.
const GridColumns = 12

// Rect is a rectangle in grid units.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Overlaps reports whether two rectangles share any grid cell.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// LayoutEntry places one component on the grid. Invariant: no two entries
// with Locked=false may overlap.
type LayoutEntry struct {
	ComponentID ComponentIndex `json:"component_id"`
	X           int            `json:"x"`
	Y           int            `json:"y"`
	W           int            `json:"w"`
	H           int            `json:"h"`
	Locked      bool           `json:"locked,omitempty"`
}

// Rect returns the entry's rectangle.
func (e LayoutEntry) Rect() Rect {
	return Rect{X: e.X, Y: e.Y, W: e.W, H: e.H}
}

// WithRect returns a copy of the entry with the rectangle replaced.
func (e LayoutEntry) WithRect(r Rect) LayoutEntry {
	e.X, e.Y, e.W, e.H = r.X, r.Y, r.W, r.H
	return e
}
