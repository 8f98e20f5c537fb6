package core

// ComponentIndex is the opaque, globally unique identifier of one dashboard
// component. It is stable for the component's lifetime, never reused, and
// never derived from another index.
type ComponentIndex string

// ComponentType represents the kind of visual component on the grid.
type ComponentType string

// Component type constants.
const (
	ComponentChart  ComponentType = "chart"
	ComponentTable  ComponentType = "table"
	ComponentCard   ComponentType = "card"
	ComponentFilter ComponentType = "filter"
	ComponentText   ComponentType = "text"
)

// ChartKind distinguishes chart visualizations. Only some kinds support
// point-level selection (see SupportsSelection).
type ChartKind string

// Chart kind constants.
const (
	ChartScatter ChartKind = "scatter"
	ChartBar     ChartKind = "bar"
	ChartLine    ChartKind = "line"
	ChartHeatmap ChartKind = "heatmap"
)

// SupportsSelection reports whether the chart kind supports point-level
// click and region selection interactions.
func (k ChartKind) SupportsSelection() bool {
	switch k {
	case ChartScatter, ChartBar, ChartLine:
		return true
	default:
		return false
	}
}

// FilterDependency declares that a consumer component re-renders when an
// interactive filter touching the given data source (and optionally one of
// the listed columns) changes. Dependencies are declared at creation time;
// the propagation engine performs a direct lookup, never runtime inference.
type FilterDependency struct {
	DataSourceRef string   `json:"data_source_ref"`
	Columns       []string `json:"columns,omitempty"`
}

// Matches reports whether a predicate on the given source and column falls
// under this dependency. An empty Columns list matches every column of the
// data source.
func (d FilterDependency) Matches(dataSourceRef, column string) bool {
	if d.DataSourceRef != dataSourceRef {
		return false
	}
	if len(d.Columns) == 0 {
		return true
	}
	for _, c := range d.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// ComponentMetadata is the per-component configuration record. Index must
// match exactly one LayoutEntry's ComponentID, otherwise the pair is
// orphaned and dropped at reconciliation.
type ComponentMetadata struct {
	Index ComponentIndex `json:"index"`
	Type  ComponentType  `json:"component_type"`
	// ChartKind is set only for chart components.
	ChartKind ChartKind `json:"chart_kind,omitempty"`
	// DataSourceRef names the backing tabular data source.
	DataSourceRef string `json:"data_source_ref"`
	// Dimension is the column used for point-level interactions (charts).
	Dimension string `json:"dimension,omitempty"`
	// RenderParams holds type-specific render configuration. Values must be
	// JSON-representable; nested maps/slices are deep-copied on duplicate.
	RenderParams map[string]any `json:"render_params,omitempty"`
	// FilterDependencies declares which filter changes re-render this
	// component.
	FilterDependencies []FilterDependency `json:"filter_dependencies,omitempty"`
}

// CloneFor returns a copy of the metadata owned by newIndex. The record is
// shallow-copied, the Index overridden, and RenderParams plus
// FilterDependencies deep-copied so editing the duplicate never mutates the
// original.
func (m ComponentMetadata) CloneFor(newIndex ComponentIndex) ComponentMetadata {
	out := m
	out.Index = newIndex
	out.RenderParams = deepCopyMap(m.RenderParams)
	if m.FilterDependencies != nil {
		out.FilterDependencies = make([]FilterDependency, len(m.FilterDependencies))
		for i, d := range m.FilterDependencies {
			out.FilterDependencies[i] = d
			if d.Columns != nil {
				out.FilterDependencies[i].Columns = append([]string(nil), d.Columns...)
			}
		}
	}
	return out
}

func deepCopyMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return deepCopyMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = deepCopyValue(e)
		}
		return out
	default:
		// Scalars (and anything else JSON-representable) are immutable
		// from the metadata's point of view.
		return v
	}
}
