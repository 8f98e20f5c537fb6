package core

// Dashboard aggregates one board's components, layouts, and metadata.
// Components, Layouts, and Metadata are kept consistent by the board
// session: every live index has exactly one layout entry and one metadata
// record, and reconciliation drops anything else as an orphan.
type Dashboard struct {
	ID         string                             `json:"id"`
	Title      string                             `json:"title"`
	ProjectRef string                             `json:"project_ref,omitempty"`
	Components map[ComponentIndex]struct{}        `json:"-"`
	Layouts    []LayoutEntry                      `json:"layouts"`
	Metadata   map[ComponentIndex]ComponentMetadata `json:"metadata"`
}

// KnownComponents derives the live component set from metadata. Layout
// entries whose id is not in this set are orphans.
func (d *Dashboard) KnownComponents() map[ComponentIndex]ComponentType {
	known := make(map[ComponentIndex]ComponentType, len(d.Metadata))
	for idx, meta := range d.Metadata {
		known[idx] = meta.Type
	}
	return known
}

// Layout returns the layout entry for the given component, if present.
func (d *Dashboard) Layout(id ComponentIndex) (LayoutEntry, bool) {
	for _, e := range d.Layouts {
		if e.ComponentID == id {
			return e, true
		}
	}
	return LayoutEntry{}, false
}
