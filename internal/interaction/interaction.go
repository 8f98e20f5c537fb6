// Package interaction turns chart click and selection events into filter
// predicates keyed to the chart's own index as producer.
package interaction

import (
	"fmt"

	"github.com/glassboard-labs/glassboard/pkg/core"
)

// ErrUnsupported marks an interaction on a component whose visualization
// kind does not support point-level selection. Viewport zoom/pan is in this
// bucket as well: it produces no predicate.
var ErrUnsupported = fmt.Errorf("interaction not supported")

// Point is one selected data point of a chart: the dimension values the
// renderer attached to it, keyed by column name.
type Point struct {
	Values map[string]any `json:"values"`
}

// PointClick builds a single-value equality predicate from a clicked point.
// The chart's configured dimension selects which of the point's values
// becomes the filter value.
func PointClick(meta core.ComponentMetadata, p Point) (core.FilterPredicate, error) {
	if err := selectable(meta); err != nil {
		return core.FilterPredicate{}, err
	}
	v, ok := p.Values[meta.Dimension]
	if !ok {
		return core.FilterPredicate{}, fmt.Errorf("point has no value for dimension %q: %w", meta.Dimension, ErrUnsupported)
	}
	if !scalar(v) {
		return core.FilterPredicate{}, fmt.Errorf("non-scalar value for dimension %q: %w", meta.Dimension, ErrUnsupported)
	}
	return core.FilterPredicate{
		Producer:      meta.Index,
		DataSourceRef: meta.DataSourceRef,
		Column:        meta.Dimension,
		Op:            core.OpEq,
		Value:         v,
	}, nil
}

// RegionSelect builds a set-membership predicate from the union of the
// selected points' dimension values. Duplicate values collapse; an empty
// selection carries no information and is rejected.
func RegionSelect(meta core.ComponentMetadata, points []Point) (core.FilterPredicate, error) {
	if err := selectable(meta); err != nil {
		return core.FilterPredicate{}, err
	}
	if len(points) == 0 {
		return core.FilterPredicate{}, fmt.Errorf("empty selection: %w", ErrUnsupported)
	}

	var values []any
	seen := make(map[any]struct{})
	for _, p := range points {
		v, ok := p.Values[meta.Dimension]
		if !ok || !scalar(v) {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	if len(values) == 0 {
		return core.FilterPredicate{}, fmt.Errorf("selection has no values for dimension %q: %w", meta.Dimension, ErrUnsupported)
	}

	return core.FilterPredicate{
		Producer:      meta.Index,
		DataSourceRef: meta.DataSourceRef,
		Column:        meta.Dimension,
		Op:            core.OpIn,
		Values:        values,
	}, nil
}

// scalar reports whether a decoded point value can act as a filter value.
// Dimension values are scalar by construction; JSON containers must not
// reach the dedup map (unhashable) or a predicate.
func scalar(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return false
	}
	return true
}

func selectable(meta core.ComponentMetadata) error {
	if meta.Type != core.ComponentChart {
		return fmt.Errorf("component %s is not a chart: %w", meta.Index, ErrUnsupported)
	}
	if !meta.ChartKind.SupportsSelection() {
		return fmt.Errorf("chart kind %q has no point selection: %w", meta.ChartKind, ErrUnsupported)
	}
	if meta.Dimension == "" {
		return fmt.Errorf("chart %s declares no interaction dimension: %w", meta.Index, ErrUnsupported)
	}
	return nil
}
