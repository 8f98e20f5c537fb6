package interaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glassboard-labs/glassboard/pkg/core"
)

func scatterMeta() core.ComponentMetadata {
	return core.ComponentMetadata{
		Index:         "chart-1",
		Type:          core.ComponentChart,
		ChartKind:     core.ChartScatter,
		DataSourceRef: "sales",
		Dimension:     "region",
	}
}

func TestPointClick(t *testing.T) {
	p, err := PointClick(scatterMeta(), Point{Values: map[string]any{
		"region": "west",
		"total":  1200,
	}})
	require.NoError(t, err)

	assert.Equal(t, core.ComponentIndex("chart-1"), p.Producer)
	assert.Equal(t, "sales", p.DataSourceRef)
	assert.Equal(t, "region", p.Column)
	assert.Equal(t, core.OpEq, p.Op)
	assert.Equal(t, "west", p.Value)
	assert.Nil(t, p.Values)
}

func TestPointClick_MissingDimension(t *testing.T) {
	_, err := PointClick(scatterMeta(), Point{Values: map[string]any{"total": 1200}})
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestPointClick_NonScalarValue(t *testing.T) {
	// Decoded JSON can carry containers where a scalar is expected.
	tests := []struct {
		name  string
		value any
	}{
		{name: "array", value: []any{"west"}},
		{name: "object", value: map[string]any{"name": "west"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PointClick(scatterMeta(), Point{Values: map[string]any{"region": tt.value}})
			assert.ErrorIs(t, err, ErrUnsupported)
		})
	}
}

func TestRegionSelect(t *testing.T) {
	points := []Point{
		{Values: map[string]any{"region": "west"}},
		{Values: map[string]any{"region": "east"}},
		{Values: map[string]any{"region": "west"}}, // duplicate collapses
		{Values: map[string]any{"total": 5}},       // no dimension value, skipped
		{Values: map[string]any{"region": []any{"north"}}}, // container value, skipped
	}

	p, err := RegionSelect(scatterMeta(), points)
	require.NoError(t, err)

	assert.Equal(t, core.OpIn, p.Op)
	assert.Equal(t, []any{"west", "east"}, p.Values)
	assert.Nil(t, p.Value)
}

func TestRegionSelect_Empty(t *testing.T) {
	_, err := RegionSelect(scatterMeta(), nil)
	assert.ErrorIs(t, err, ErrUnsupported)

	// Points without the dimension carry no information either.
	_, err = RegionSelect(scatterMeta(), []Point{{Values: map[string]any{"total": 1}}})
	assert.ErrorIs(t, err, ErrUnsupported)

	// A selection made entirely of container values must fail cleanly,
	// not crash on the dedup map.
	_, err = RegionSelect(scatterMeta(), []Point{
		{Values: map[string]any{"region": []any{"west"}}},
		{Values: map[string]any{"region": map[string]any{"name": "east"}}},
	})
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestSelectable(t *testing.T) {
	tests := []struct {
		name string
		meta core.ComponentMetadata
	}{
		{
			name: "table has no point selection",
			meta: core.ComponentMetadata{Index: "t", Type: core.ComponentTable, Dimension: "region"},
		},
		{
			name: "heatmap has no point selection",
			meta: core.ComponentMetadata{Index: "h", Type: core.ComponentChart, ChartKind: core.ChartHeatmap, Dimension: "region"},
		},
		{
			name: "chart without a dimension",
			meta: core.ComponentMetadata{Index: "c", Type: core.ComponentChart, ChartKind: core.ChartBar},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PointClick(tt.meta, Point{Values: map[string]any{"region": "west"}})
			assert.ErrorIs(t, err, ErrUnsupported)

			_, err = RegionSelect(tt.meta, []Point{{Values: map[string]any{"region": "west"}}})
			assert.ErrorIs(t, err, ErrUnsupported)
		})
	}
}
