// Package home provides the landing page listing all dashboards.
package home

import (
	"html/template"
	"net/http"

	"log/slog"

	"github.com/glassboard-labs/glassboard/pkg/core"
)

var homeTmpl = template.Must(template.New("home").Parse(`<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Glassboard</title>
</head>
<body>
  <main>
    <h1>Dashboards</h1>
    {{if .Boards}}
    <ul>
      {{range .Boards}}
      <li><a href="/boards/{{.ID}}">{{.Title}}</a></li>
      {{end}}
    </ul>
    {{else}}
    <p>No dashboards yet. Drop a board definition into the boards directory.</p>
    {{end}}
  </main>
</body>
</html>
`))

// Handlers provides HTTP handlers for the home feature.
type Handlers struct {
	store  core.Store
	logger *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(store core.Store, logger *slog.Logger) *Handlers {
	return &Handlers{store: store, logger: logger}
}

type homeData struct {
	Boards []*core.Dashboard
}

// HomePage lists every dashboard.
func (h *Handlers) HomePage(w http.ResponseWriter, r *http.Request) {
	boards, err := h.store.ListDashboards(r.Context())
	if err != nil {
		h.logger.Error("list dashboards failed", "error", err)
		http.Error(w, "failed to list dashboards", http.StatusInternalServerError)
		return
	}
	if err := homeTmpl.Execute(w, homeData{Boards: boards}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
