package core

// Refresh instructs the UI layer to re-render one consumer with a fresh
// filter set. The actual data fetch is delegated to the query service and
// must not block the propagation pass.
type Refresh struct {
	Consumer ComponentIndex `json:"consumer"`
	Filters  FilterSet      `json:"-"`
}

// AddedComponent is the full record of a component created by duplicate.
type AddedComponent struct {
	Index    ComponentIndex    `json:"index"`
	Layout   LayoutEntry       `json:"layout"`
	Metadata ComponentMetadata `json:"metadata"`
}

// Patch is the minimal update produced by one dashboard operation: what was
// added, which layout entries changed, which indexes were removed, and which
// consumers must refresh. Operations never return a full tree re-send; an
// empty Patch is the explicit "no update" signal for expected failures.
type Patch struct {
	Added          []AddedComponent `json:"added,omitempty"`
	UpdatedLayouts []LayoutEntry    `json:"updated_layouts,omitempty"`
	Removed        []ComponentIndex `json:"removed,omitempty"`
	Refreshes      []Refresh        `json:"refreshes,omitempty"`
}

// Empty reports whether the patch carries no update.
func (p Patch) Empty() bool {
	return len(p.Added) == 0 && len(p.UpdatedLayouts) == 0 &&
		len(p.Removed) == 0 && len(p.Refreshes) == 0
}
