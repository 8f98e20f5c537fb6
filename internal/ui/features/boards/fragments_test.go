package boards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderComponent(t *testing.T) {
	html, err := renderComponent(ComponentView{
		Index: "idx-1",
		Type:  "chart",
		Title: "Sales by region",
		X:     3, Y: 2, W: 6, H: 5,
		Columns: []string{"region", "total"},
		Rows:    [][]string{{"west", "1200"}},
	})
	require.NoError(t, err)

	assert.Contains(t, html, `id="component-idx-1"`)
	assert.Contains(t, html, "Sales by region")
	// 0-based grid units become 1-based CSS grid lines.
	assert.Contains(t, html, "grid-column: 4 / span 6")
	assert.Contains(t, html, "grid-row: 3 / span 5")
	assert.Contains(t, html, "<th>region</th>")
	assert.Contains(t, html, "<td>west</td>")
}

func TestRenderComponent_FetchError(t *testing.T) {
	html, err := renderComponent(ComponentView{
		Index:    "idx-1",
		Type:     "chart",
		W:        4, H: 4,
		FetchErr: "data unavailable",
	})
	require.NoError(t, err)

	assert.Contains(t, html, "data unavailable")
	assert.NotContains(t, html, "<table")
}

func TestRenderComponent_Placeholder(t *testing.T) {
	html, err := renderComponent(ComponentView{
		Index: "idx-1", Type: "chart", ChartKind: "scatter", W: 4, H: 4,
	})
	require.NoError(t, err)
	assert.Contains(t, html, "chart (scatter)")
}

func TestRenderComponent_ParamDecorations(t *testing.T) {
	html, err := renderComponent(ComponentView{
		Index: "idx-1", Type: "card", Title: "Revenue", Unit: "EUR", W: 3, H: 2,
	})
	require.NoError(t, err)
	assert.Contains(t, html, "(EUR)")

	html, err = renderComponent(ComponentView{
		Index: "idx-2", Type: "text", Title: "Intro", Body: "Welcome aboard", W: 4, H: 2,
	})
	require.NoError(t, err)
	assert.Contains(t, html, "Welcome aboard")

	html, err = renderComponent(ComponentView{
		Index: "idx-3", Type: "chart", ChartKind: "scatter", W: 6, H: 5,
		XLabel: "Region", YLabel: "Total",
	})
	require.NoError(t, err)
	assert.Contains(t, html, "Region vs Total")
}

func TestRenderComponent_EscapesValues(t *testing.T) {
	html, err := renderComponent(ComponentView{
		Index: "idx-1", Type: "table", W: 4, H: 4,
		Columns: []string{"name"},
		Rows:    [][]string{{`<script>alert(1)</script>`}},
	})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>alert(1)</script>")
}

func TestRenderBoard(t *testing.T) {
	html, err := renderBoard(BoardView{
		ID:            "d1",
		Title:         "Sales overview",
		Columns:       12,
		ActiveFilters: 2,
		Components: []ComponentView{
			{Index: "a", Type: "chart", W: 6, H: 5},
			{Index: "b", Type: "card", X: 6, W: 3, H: 2},
		},
	})
	require.NoError(t, err)

	assert.Contains(t, html, `id="board-d1"`)
	assert.Contains(t, html, "Sales overview")
	assert.Contains(t, html, "2 active filters")
	assert.Contains(t, html, `id="component-a"`)
	assert.Contains(t, html, `id="component-b"`)
}
