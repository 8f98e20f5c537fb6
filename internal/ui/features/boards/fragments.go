package boards

import (
	"fmt"
	"html/template"
	"strings"
)

// Fragments are rendered server-side and patched into the page by id, so an
// interaction only re-sends the affected cells, never the whole tree.

var fragmentTmpl = template.Must(template.New("fragments").Funcs(template.FuncMap{
	// CSS grid lines are 1-based; layout entries are 0-based grid units.
	"inc": func(n int) int { return n + 1 },
}).Parse(`
{{define "board"}}
<div id="board-{{.ID}}" class="board-grid" style="--grid-columns: {{.Columns}}">
  <div id="board-toolbar-{{.ID}}" class="board-toolbar">
    <span class="board-title">{{.Title}}</span>
    <span class="filter-count">{{.ActiveFilters}} active filters</span>
    <button data-on-click="@post('/api/boards/{{.ID}}/filters/clear')">Clear filters</button>
  </div>
  {{range .Components}}{{template "component" .}}{{end}}
</div>
{{end}}

{{define "component"}}
<div id="component-{{.Index}}" class="board-cell cell-{{.Type}}"
     style="grid-column: {{inc .X}} / span {{.W}}; grid-row: {{inc .Y}} / span {{.H}};">
  <header class="cell-header">
    <span class="cell-title">{{.Title}}{{if .Unit}} <span class="cell-unit">({{.Unit}})</span>{{end}}</span>
    <span class="cell-actions">
      <button data-on-click="@post('/api/boards/' + $boardId + '/components/{{.Index}}/duplicate')">⧉</button>
      <button data-on-click="@delete('/api/boards/' + $boardId + '/components/{{.Index}}')">✕</button>
    </span>
  </header>
  <div id="component-body-{{.Index}}" class="cell-body">
    {{if .FetchErr}}<p class="cell-error">{{.FetchErr}}</p>
    {{else if .Body}}<p class="cell-text">{{.Body}}</p>
    {{else if .Columns}}{{template "payload" .}}
    {{else}}<p class="cell-placeholder">{{.Type}}{{if .ChartKind}} ({{.ChartKind}}){{end}}</p>
    {{end}}
    {{if .XLabel}}<footer class="cell-axes">{{.XLabel}} vs {{.YLabel}}</footer>{{end}}
  </div>
</div>
{{end}}

{{define "payload"}}
<table class="cell-data">
  <thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
  <tbody>
    {{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>{{end}}
  </tbody>
</table>
{{end}}
`))

// renderBoard renders the full board grid fragment.
func renderBoard(v BoardView) (string, error) {
	return render("board", v)
}

// renderComponent renders one grid cell fragment.
func renderComponent(v ComponentView) (string, error) {
	return render("component", v)
}

func render(name string, data any) (string, error) {
	var sb strings.Builder
	if err := fragmentTmpl.ExecuteTemplate(&sb, name, data); err != nil {
		return "", fmt.Errorf("render %s fragment: %w", name, err)
	}
	return sb.String(), nil
}
