package boards

import (
	"html/template"
	"io"
)

// pageTmpl is the board page shell. The grid itself arrives over SSE so the
// shell stays static and cacheable; datastar drives all further patching.
var pageTmpl = template.Must(template.New("page").Parse(`<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{.Title}} · Glassboard</title>
  <script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"></script>
</head>
<body data-signals="{boardId: '{{.ID}}'}" data-on-load="@get('/boards/{{.ID}}/sse')">
  <main>
    <div id="board-{{.ID}}" class="board-grid"><p>Loading board…</p></div>
  </main>
</body>
</html>
`))

type pageData struct {
	ID    string
	Title string
}

func renderPage(w io.Writer, id, title string) error {
	return pageTmpl.Execute(w, pageData{ID: id, Title: title})
}
