package filter

import (
	"log/slog"

	"github.com/glassboard-labs/glassboard/pkg/core"
)

// Engine runs propagation passes over one dashboard's filter store. One user
// interaction causes at most one store mutation and one pass; passes never
// cascade, and the engine never performs data fetches itself. It only
// decides which consumers refresh and with what filter set.
type Engine struct {
	store  *Store
	deps   *DependencyIndex
	logger *slog.Logger
}

// NewEngine creates a propagation engine over the given store and
// dependency index.
func NewEngine(store *Store, deps *DependencyIndex, logger *slog.Logger) *Engine {
	return &Engine{store: store, deps: deps, logger: logger}
}

// SetDependencies swaps the dependency index, e.g. after a component is
// added or removed.
func (e *Engine) SetDependencies(deps *DependencyIndex) {
	e.deps = deps
}

// Store returns the engine's filter store.
func (e *Engine) Store() *Store {
	return e.store
}

// Apply replaces the producer's predicate slot and runs one propagation
// pass. The returned refreshes cover exactly the consumers whose declared
// dependencies intersect the changed predicate's source/column; the producer
// itself and non-dependents are untouched.
func (e *Engine) Apply(p core.FilterPredicate) []core.Refresh {
	e.store.Set(p)
	snapshot := e.store.Snapshot()

	consumers := e.deps.Consumers(p.Producer, p.DataSourceRef, p.Column)
	e.logger.Debug("filter propagation",
		"producer", p.Producer, "source", p.DataSourceRef,
		"column", p.Column, "consumers", len(consumers))

	return refreshes(consumers, snapshot)
}

// Drop clears one producer's slot and runs one pass over the consumers that
// depended on the cleared predicate.
func (e *Engine) Drop(producer core.ComponentIndex) []core.Refresh {
	p, active := e.store.Get(producer)
	if !active {
		return nil
	}
	e.store.Clear(producer)
	snapshot := e.store.Snapshot()
	consumers := e.deps.Consumers(producer, p.DataSourceRef, p.Column)
	return refreshes(consumers, snapshot)
}

// Reset empties the store and refreshes every consumer exactly once with an
// unfiltered set.
func (e *Engine) Reset() []core.Refresh {
	e.store.ClearAll()
	consumers := e.deps.AllConsumers()
	e.logger.Debug("filter reset", "consumers", len(consumers))
	return refreshes(consumers, core.FilterSet{})
}

func refreshes(consumers []core.ComponentIndex, filters core.FilterSet) []core.Refresh {
	if len(consumers) == 0 {
		return nil
	}
	out := make([]core.Refresh, len(consumers))
	for i, c := range consumers {
		out[i] = core.Refresh{Consumer: c, Filters: filters}
	}
	return out
}
