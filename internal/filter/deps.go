package filter

import (
	"sort"

	"github.com/glassboard-labs/glassboard/pkg/core"
)

// DependencyIndex answers "which consumers re-render when a predicate on
// this source/column changes". It is built from the filter dependencies each
// consumer declares in its metadata, so the lookup is direct and never
// inferred at runtime.
type DependencyIndex struct {
	// bySource maps data source ref -> consumer -> declared dependencies.
	bySource map[string]map[core.ComponentIndex][]core.FilterDependency
}

// BuildDependencyIndex indexes the declared dependencies of every component.
func BuildDependencyIndex(metadata map[core.ComponentIndex]core.ComponentMetadata) *DependencyIndex {
	idx := &DependencyIndex{
		bySource: make(map[string]map[core.ComponentIndex][]core.FilterDependency),
	}
	for consumer, meta := range metadata {
		for _, dep := range meta.FilterDependencies {
			consumers, ok := idx.bySource[dep.DataSourceRef]
			if !ok {
				consumers = make(map[core.ComponentIndex][]core.FilterDependency)
				idx.bySource[dep.DataSourceRef] = consumers
			}
			consumers[consumer] = append(consumers[consumer], dep)
		}
	}
	return idx
}

// Consumers returns the components whose declared dependencies intersect a
// predicate on the given source and column, excluding the producer itself.
// The result is sorted for deterministic refresh order.
func (idx *DependencyIndex) Consumers(producer core.ComponentIndex, dataSourceRef, column string) []core.ComponentIndex {
	consumers, ok := idx.bySource[dataSourceRef]
	if !ok {
		return nil
	}
	out := make([]core.ComponentIndex, 0, len(consumers))
	for consumer, deps := range consumers {
		if consumer == producer {
			continue
		}
		for _, dep := range deps {
			if dep.Matches(dataSourceRef, column) {
				out = append(out, consumer)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// AllConsumers returns every component with at least one declared
// dependency, sorted. Used by the clear-all pass, which refreshes all
// consumers unfiltered.
func (idx *DependencyIndex) AllConsumers() []core.ComponentIndex {
	seen := make(map[core.ComponentIndex]struct{})
	for _, consumers := range idx.bySource {
		for consumer := range consumers {
			seen[consumer] = struct{}{}
		}
	}
	out := make([]core.ComponentIndex, 0, len(seen))
	for consumer := range seen {
		out = append(out, consumer)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
