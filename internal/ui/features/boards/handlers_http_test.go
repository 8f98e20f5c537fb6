package boards

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glassboard-labs/glassboard/internal/testutil"
	"github.com/glassboard-labs/glassboard/internal/ui/features"
	"github.com/glassboard-labs/glassboard/pkg/core"
)

func testBoard() *core.Dashboard {
	return &core.Dashboard{
		ID:    "d1",
		Title: "Sales overview",
		Components: map[core.ComponentIndex]struct{}{
			"chart-1": {}, "widget-1": {}, "card-1": {},
		},
		Layouts: []core.LayoutEntry{
			{ComponentID: "chart-1", X: 0, Y: 0, W: 6, H: 5},
			{ComponentID: "widget-1", X: 6, Y: 0, W: 3, H: 1},
			{ComponentID: "card-1", X: 6, Y: 2, W: 3, H: 2},
		},
		Metadata: map[core.ComponentIndex]core.ComponentMetadata{
			"chart-1": {
				Index: "chart-1", Type: core.ComponentChart, ChartKind: core.ChartScatter,
				DataSourceRef: "sales", Dimension: "region",
				FilterDependencies: []core.FilterDependency{{DataSourceRef: "sales"}},
			},
			"widget-1": {
				Index: "widget-1", Type: core.ComponentFilter,
				DataSourceRef: "sales", Dimension: "region",
			},
			"card-1": {
				Index: "card-1", Type: core.ComponentCard, DataSourceRef: "sales",
				RenderParams:       map[string]any{"title": "Revenue", "unit": "EUR"},
				FilterDependencies: []core.FilterDependency{{DataSourceRef: "sales"}},
			},
		},
	}
}

// setupBoardsRouter mounts the feature routes without recovery middleware so
// a handler panic fails the test instead of turning into a 500.
func setupBoardsRouter(t *testing.T) (*chi.Mux, *features.TestFixture) {
	t.Helper()
	fixture := features.SetupTestFixture(t, testBoard())
	r := chi.NewRouter()
	require.NoError(t, SetupRoutes(r, fixture.Manager, nil, fixture.SessionStore, fixture.Notifier, testutil.NewTestLogger(t)))
	return r, fixture
}

func doRequest(t *testing.T, router *chi.Mux, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func componentCount(t *testing.T, fixture *features.TestFixture) int {
	t.Helper()
	sess, err := fixture.Manager.Session(context.Background(), "d1")
	require.NoError(t, err)
	return len(sess.Dashboard().Components)
}

func TestBoardPage(t *testing.T) {
	router, _ := setupBoardsRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/boards/d1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sales overview")
	assert.Contains(t, rec.Body.String(), `id="board-d1"`)
}

func TestBoardPage_NotFound(t *testing.T) {
	router, _ := setupBoardsRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/boards/ghost", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDuplicateHandler(t *testing.T) {
	router, fixture := setupBoardsRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/boards/d1/components/chart-1/duplicate", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "datastar-patch-elements")
	assert.Contains(t, body, "board-d1", "new cell is appended to the grid container")
	assert.Equal(t, 4, componentCount(t, fixture))
}

func TestDuplicateHandler_UnknownComponent(t *testing.T) {
	router, fixture := setupBoardsRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/boards/d1/components/ghost/duplicate", "")
	assert.Equal(t, http.StatusOK, rec.Code, "expected failures answer with a console log, not an HTTP error")
	assert.Equal(t, 3, componentCount(t, fixture))
}

func TestRemoveHandler(t *testing.T) {
	router, fixture := setupBoardsRouter(t)

	rec := doRequest(t, router, http.MethodDelete, "/api/boards/d1/components/card-1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "#component-card-1")
	assert.Equal(t, 2, componentCount(t, fixture))
}

func TestFilterInputHandler(t *testing.T) {
	router, fixture := setupBoardsRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/boards/d1/components/widget-1/filter", `{"value":"west"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Exactly the dependent consumers are re-patched.
	body := rec.Body.String()
	assert.Contains(t, body, "component-chart-1")
	assert.Contains(t, body, "component-card-1")
	assert.NotContains(t, body, "component-widget-1", "the producer never refreshes itself")

	sess, err := fixture.Manager.Session(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, 1, sess.Filters().Len())

	rec = doRequest(t, router, http.MethodPost, "/api/boards/d1/components/widget-1/filter", `{"clear":true}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, sess.Filters().Len())
}

func TestChartClickHandler(t *testing.T) {
	router, fixture := setupBoardsRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/boards/d1/components/chart-1/click",
		`{"point":{"values":{"region":"west"}}}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "component-card-1")

	sess, err := fixture.Manager.Session(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, 1, sess.Filters().Len())
}

func TestChartSelectHandler(t *testing.T) {
	router, fixture := setupBoardsRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/boards/d1/components/chart-1/select",
		`{"points":[{"values":{"region":"west"}},{"values":{"region":"east"}}]}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	sess, err := fixture.Manager.Session(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, 1, sess.Filters().Len())
}

func TestChartSelectHandler_ContainerValues(t *testing.T) {
	router, fixture := setupBoardsRouter(t)

	// A client can send arrays where scalars belong; the handler must answer
	// with a console log, not crash.
	rec := doRequest(t, router, http.MethodPost, "/api/boards/d1/components/chart-1/select",
		`{"points":[{"values":{"region":["west"]}}]}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	sess, err := fixture.Manager.Session(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, 0, sess.Filters().Len())
}

func TestClearFiltersHandler(t *testing.T) {
	router, fixture := setupBoardsRouter(t)

	doRequest(t, router, http.MethodPost, "/api/boards/d1/components/widget-1/filter", `{"value":"west"}`)

	rec := doRequest(t, router, http.MethodPost, "/api/boards/d1/filters/clear", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	sess, err := fixture.Manager.Session(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, 0, sess.Filters().Len())
}
