// Package boards provides the dashboard grid feature: live board rendering
// and the interaction endpoints for drag/resize, duplicate, remove, and
// filter propagation.
package boards

import "github.com/glassboard-labs/glassboard/internal/interaction"

// LayoutSignals carries a manual drag/resize from the client.
type LayoutSignals struct {
	ComponentID string `json:"componentId"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	W           int    `json:"w"`
	H           int    `json:"h"`
}

// FilterSignals carries a raw filter widget value. Value takes precedence;
// Values is used by multi-select widgets.
type FilterSignals struct {
	Value  any   `json:"value"`
	Values []any `json:"values"`
	// Clear empties this producer's predicate slot.
	Clear bool `json:"clear"`
}

// ClickSignals carries a chart point click.
type ClickSignals struct {
	Point interaction.Point `json:"point"`
}

// SelectSignals carries a chart region/lasso selection.
type SelectSignals struct {
	Points []interaction.Point `json:"points"`
}

// ComponentView is the render model of one grid cell.
type ComponentView struct {
	Index     string
	Type      string
	ChartKind string
	Title     string
	X, Y, W, H int
	Locked    bool
	// Unit decorates a card's value; Body is a text cell's content;
	// XLabel/YLabel annotate chart axes. All come from render params.
	Unit   string
	Body   string
	XLabel string
	YLabel string
	// Columns/Rows hold the fetched payload for data-backed components.
	Columns []string
	Rows    [][]string
	// FetchErr is shown in place of the payload when the fetch failed.
	FetchErr string
}

// BoardView is the render model of the full board grid.
type BoardView struct {
	ID         string
	Title      string
	Columns    int
	Components []ComponentView
	// ActiveFilters counts live predicates, shown in the toolbar.
	ActiveFilters int
}
