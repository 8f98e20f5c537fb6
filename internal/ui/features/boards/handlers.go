package boards

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/glassboard-labs/glassboard/internal/board"
	"github.com/glassboard-labs/glassboard/internal/perm"
	"github.com/glassboard-labs/glassboard/internal/query"
	"github.com/glassboard-labs/glassboard/internal/ui/notifier"
	"github.com/glassboard-labs/glassboard/pkg/core"
)

const (
	// maxCellRows caps how many payload rows one cell renders.
	maxCellRows = 100
	// fetchTimeout bounds one consumer's data fetch during a refresh.
	fetchTimeout = 30 * time.Second
)

// Handlers provides HTTP handlers for the boards feature.
type Handlers struct {
	manager      *board.Manager
	querier      core.Querier
	sessionStore sessions.Store
	checker      *perm.SessionChecker
	notifier     *notifier.Notifier
	logger       *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(manager *board.Manager, querier core.Querier, sessionStore sessions.Store,
	notify *notifier.Notifier, logger *slog.Logger) *Handlers {
	return &Handlers{
		manager:      manager,
		querier:      querier,
		sessionStore: sessionStore,
		checker:      perm.NewSessionChecker(sessionStore),
		notifier:     notify,
		logger:       logger,
	}
}

// BoardPage renders the board page shell; the grid arrives over SSE.
func (h *Handlers) BoardPage(w http.ResponseWriter, r *http.Request) {
	boardID := chi.URLParam(r, "id")
	sess, err := h.manager.Session(r.Context(), boardID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := renderPage(w, boardID, sess.Dashboard().Title); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// BoardSSE streams the board grid and keeps patching it while the
// connection lives: once immediately, then on every dashboard-level ping.
func (h *Handlers) BoardSSE(w http.ResponseWriter, r *http.Request) {
	boardID := chi.URLParam(r, "id")
	sse := datastar.NewSSE(w, r)

	if err := h.patchBoard(r.Context(), sse, boardID); err != nil {
		_ = sse.ConsoleError(err)
		return
	}

	updates := h.notifier.Subscribe(boardID)
	defer h.notifier.Unsubscribe(boardID, updates)

	for {
		select {
		case <-r.Context().Done():
			return
		case <-updates:
			if err := h.patchBoard(r.Context(), sse, boardID); err != nil {
				_ = sse.ConsoleError(err)
				return
			}
		}
	}
}

// Layout handles a manual drag or resize.
func (h *Handlers) Layout(w http.ResponseWriter, r *http.Request) {
	var signals LayoutSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.ConsoleError(fmt.Errorf("read layout signals: %w", err))
		return
	}
	sse := datastar.NewSSE(w, r)

	ctx, sess, user, ok := h.resolve(sse, r)
	if !ok {
		return
	}

	patch, err := sess.MoveOrResize(ctx, user, core.ComponentIndex(signals.ComponentID),
		core.Rect{X: signals.X, Y: signals.Y, W: signals.W, H: signals.H})
	if err != nil {
		h.noUpdate(sse, err)
		return
	}
	h.patchLayouts(ctx, sse, sess, patch.UpdatedLayouts)
}

// Duplicate clones a component into a collision-free slot.
func (h *Handlers) Duplicate(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)
	boardID := chi.URLParam(r, "id")
	componentID := core.ComponentIndex(chi.URLParam(r, "cid"))

	ctx, sess, user, ok := h.resolve(sse, r)
	if !ok {
		return
	}

	patch, err := sess.Duplicate(ctx, user, componentID)
	if err != nil {
		h.noUpdate(sse, err)
		return
	}

	for _, added := range patch.Added {
		view := h.componentView(ctx, sess, added.Metadata, added.Layout, sess.Filters())
		html, rerr := renderComponent(view)
		if rerr != nil {
			_ = sse.ConsoleError(rerr)
			return
		}
		if err := sse.PatchElements(html,
			datastar.WithSelectorID("board-"+boardID),
			datastar.WithModeAppend()); err != nil {
			_ = sse.ConsoleError(err)
			return
		}
	}
}

// Remove deletes a component and patches out its cell.
func (h *Handlers) Remove(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)
	componentID := core.ComponentIndex(chi.URLParam(r, "cid"))

	ctx, sess, user, ok := h.resolve(sse, r)
	if !ok {
		return
	}

	patch, err := sess.Remove(ctx, user, componentID)
	if err != nil {
		h.noUpdate(sse, err)
		return
	}

	for _, removed := range patch.Removed {
		if err := sse.RemoveElement("#component-" + string(removed)); err != nil {
			_ = sse.ConsoleError(err)
			return
		}
	}
	h.patchRefreshes(ctx, sse, sess, patch.Refreshes)
}

// FilterInput feeds a raw filter widget value into the propagation engine
// and patches exactly the dependent consumers.
func (h *Handlers) FilterInput(w http.ResponseWriter, r *http.Request) {
	var signals FilterSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.ConsoleError(fmt.Errorf("read filter signals: %w", err))
		return
	}
	sse := datastar.NewSSE(w, r)
	componentID := core.ComponentIndex(chi.URLParam(r, "cid"))

	ctx, sess, _, ok := h.resolve(sse, r)
	if !ok {
		return
	}

	var raw any
	switch {
	case signals.Clear:
		raw = nil
	case len(signals.Values) > 0:
		raw = signals.Values
	default:
		raw = signals.Value
	}

	patch, err := sess.FilterInput(ctx, componentID, raw)
	if err != nil {
		h.noUpdate(sse, err)
		return
	}
	h.patchRefreshes(ctx, sse, sess, patch.Refreshes)
}

// ChartClick turns a point click into an equality predicate.
func (h *Handlers) ChartClick(w http.ResponseWriter, r *http.Request) {
	var signals ClickSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.ConsoleError(fmt.Errorf("read click signals: %w", err))
		return
	}
	sse := datastar.NewSSE(w, r)
	componentID := core.ComponentIndex(chi.URLParam(r, "cid"))

	ctx, sess, _, ok := h.resolve(sse, r)
	if !ok {
		return
	}

	patch, err := sess.ChartClick(ctx, componentID, signals.Point)
	if err != nil {
		h.noUpdate(sse, err)
		return
	}
	h.patchRefreshes(ctx, sse, sess, patch.Refreshes)
}

// ChartSelect turns a region/lasso selection into a set-membership
// predicate.
func (h *Handlers) ChartSelect(w http.ResponseWriter, r *http.Request) {
	var signals SelectSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.ConsoleError(fmt.Errorf("read select signals: %w", err))
		return
	}
	sse := datastar.NewSSE(w, r)
	componentID := core.ComponentIndex(chi.URLParam(r, "cid"))

	ctx, sess, _, ok := h.resolve(sse, r)
	if !ok {
		return
	}

	patch, err := sess.ChartSelect(ctx, componentID, signals.Points)
	if err != nil {
		h.noUpdate(sse, err)
		return
	}
	h.patchRefreshes(ctx, sse, sess, patch.Refreshes)
}

// ClearFilters empties every producer slot and refreshes all consumers
// unfiltered.
func (h *Handlers) ClearFilters(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	ctx, sess, _, ok := h.resolve(sse, r)
	if !ok {
		return
	}

	patch, err := sess.ClearFilters(ctx)
	if err != nil {
		h.noUpdate(sse, err)
		return
	}
	h.patchRefreshes(ctx, sse, sess, patch.Refreshes)
}

// --- helpers ---

// resolve loads the board session named in the URL and attaches the request
// user's permission grants to the context.
func (h *Handlers) resolve(sse *datastar.ServerSentEventGenerator, r *http.Request) (context.Context, *board.Session, string, bool) {
	boardID := chi.URLParam(r, "id")
	sess, err := h.manager.Session(r.Context(), boardID)
	if err != nil {
		h.noUpdate(sse, err)
		return nil, nil, "", false
	}
	ctx := perm.WithGrants(r.Context(), h.checker.FromRequest(r))
	return ctx, sess, h.userFor(r), true
}

// userFor resolves the acting user from the cookie session; local mode runs
// as "local".
func (h *Handlers) userFor(r *http.Request) string {
	session, err := h.sessionStore.Get(r, "glassboard")
	if err != nil {
		return "local"
	}
	if user, ok := session.Values["user"].(string); ok && user != "" {
		return user
	}
	return "local"
}

// noUpdate is the explicit "no update" answer for expected failures: a
// console log, no patch. Unexpected errors surface the same way to the
// client but are logged at error level.
func (h *Handlers) noUpdate(sse *datastar.ServerSentEventGenerator, err error) {
	if core.IsExpected(err) {
		h.logger.Warn("operation aborted", "error", err)
	} else {
		h.logger.Error("operation failed", "error", err)
	}
	_ = sse.ConsoleError(err)
}

// patchBoard renders and patches the whole grid container. Used only for
// initial render and dashboard-level reload pings, never for interactions.
func (h *Handlers) patchBoard(ctx context.Context, sse *datastar.ServerSentEventGenerator, boardID string) error {
	sess, err := h.manager.Session(ctx, boardID)
	if err != nil {
		return err
	}
	view := h.boardView(ctx, sess)
	html, err := renderBoard(view)
	if err != nil {
		return err
	}
	return sse.PatchElements(html)
}

// patchLayouts re-renders the cells whose rectangles changed.
func (h *Handlers) patchLayouts(ctx context.Context, sse *datastar.ServerSentEventGenerator, sess *board.Session, entries []core.LayoutEntry) {
	d := sess.Dashboard()
	filters := sess.Filters()
	for _, e := range entries {
		meta, ok := d.Metadata[e.ComponentID]
		if !ok {
			continue
		}
		view := h.componentView(ctx, sess, meta, e, filters)
		html, err := renderComponent(view)
		if err != nil {
			_ = sse.ConsoleError(err)
			return
		}
		if err := sse.PatchElements(html); err != nil {
			_ = sse.ConsoleError(err)
			return
		}
	}
}

// patchRefreshes fetches fresh payloads for the refresh targets and patches
// each consumer cell. The fetches were delegated out of the propagation
// pass; here, at the UI edge, is where they land.
func (h *Handlers) patchRefreshes(ctx context.Context, sse *datastar.ServerSentEventGenerator, sess *board.Session, refreshes []core.Refresh) {
	if sess == nil || len(refreshes) == 0 {
		return
	}
	d := sess.Dashboard()
	for _, refresh := range refreshes {
		meta, ok := d.Metadata[refresh.Consumer]
		if !ok {
			continue
		}
		entry, ok := d.Layout(refresh.Consumer)
		if !ok {
			continue
		}
		view := h.componentView(ctx, sess, meta, entry, refresh.Filters)
		html, err := renderComponent(view)
		if err != nil {
			_ = sse.ConsoleError(err)
			return
		}
		if err := sse.PatchElements(html); err != nil {
			_ = sse.ConsoleError(err)
			return
		}
	}
}

func (h *Handlers) boardView(ctx context.Context, sess *board.Session) BoardView {
	d := sess.Dashboard()
	filters := sess.Filters()

	view := BoardView{
		ID:            d.ID,
		Title:         d.Title,
		Columns:       h.manager.Grid().Columns(),
		ActiveFilters: filters.Len(),
	}
	for _, e := range d.Layouts {
		meta, ok := d.Metadata[e.ComponentID]
		if !ok {
			continue
		}
		view.Components = append(view.Components, h.componentView(ctx, sess, meta, e, filters))
	}
	sort.Slice(view.Components, func(i, j int) bool {
		a, b := view.Components[i], view.Components[j]
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
	return view
}

// componentView assembles one cell's render model, fetching its payload
// when the component is data-backed.
func (h *Handlers) componentView(ctx context.Context, sess *board.Session, meta core.ComponentMetadata, entry core.LayoutEntry, filters core.FilterSet) ComponentView {
	_ = sess
	view := ComponentView{
		Index:     string(meta.Index),
		Type:      string(meta.Type),
		ChartKind: string(meta.ChartKind),
		Title:     componentTitle(meta),
		X:         entry.X, Y: entry.Y, W: entry.W, H: entry.H,
		Locked: entry.Locked,
	}

	switch meta.Type {
	case core.ComponentChart:
		var p ChartParams
		if err := decodeParams(meta.RenderParams, &p); err != nil {
			h.logger.Warn("bad render params", "component", meta.Index, "error", err)
		}
		view.XLabel, view.YLabel = p.XLabel, p.YLabel
	case core.ComponentCard:
		var p CardParams
		if err := decodeParams(meta.RenderParams, &p); err != nil {
			h.logger.Warn("bad render params", "component", meta.Index, "error", err)
		}
		view.Unit = p.Unit
	case core.ComponentText:
		var p TextParams
		if err := decodeParams(meta.RenderParams, &p); err != nil {
			h.logger.Warn("bad render params", "component", meta.Index, "error", err)
		}
		view.Body = p.Body
	}

	if h.querier == nil || meta.DataSourceRef == "" || meta.Type == core.ComponentText {
		return view
	}

	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()
	result := <-query.FetchAsync(fetchCtx, h.querier, meta.DataSourceRef, filters)
	if result.Err != nil {
		h.logger.Warn("data fetch failed",
			"component", meta.Index, "source", meta.DataSourceRef, "error", result.Err)
		view.FetchErr = "data unavailable"
		return view
	}

	view.Columns = result.Payload.Columns
	limit := rowLimit(meta)
	for i, row := range result.Payload.Rows {
		if i == limit {
			break
		}
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = formatValue(v)
		}
		view.Rows = append(view.Rows, cells)
	}
	return view
}

func componentTitle(meta core.ComponentMetadata) string {
	if t := titleParam(meta); t != "" {
		return t
	}
	name := string(meta.Type)
	if meta.DataSourceRef != "" {
		name += " · " + meta.DataSourceRef
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return fmt.Sprintf("%v", v)
}
