// Package filter implements the dashboard-scoped interactive filter store
// and the propagation engine that turns one producer change into targeted
// consumer refreshes.
package filter

import (
	"sort"

	"github.com/glassboard-labs/glassboard/pkg/core"
)

// Store holds at most one live predicate per producer. A producer cycles
// Idle -> Active(predicate) -> Idle; setting a slot replaces it wholesale
// (last-write-wins, no partial merging within a slot).
//
// The store is dashboard-scoped and passed explicitly into the engine; it is
// never an ambient global. Callers serialize access through the board
// session, so the store itself needs no locking.
type Store struct {
	slots map[core.ComponentIndex]core.FilterPredicate
	// order preserves first-activation order so snapshots are stable.
	order []core.ComponentIndex
}

// NewStore creates an empty filter store.
func NewStore() *Store {
	return &Store{slots: make(map[core.ComponentIndex]core.FilterPredicate)}
}

// Set replaces the producer's predicate slot.
func (s *Store) Set(p core.FilterPredicate) {
	if _, active := s.slots[p.Producer]; !active {
		s.order = append(s.order, p.Producer)
	}
	s.slots[p.Producer] = p
}

// Clear empties one producer's slot. Clearing an idle producer is a no-op.
func (s *Store) Clear(producer core.ComponentIndex) {
	if _, active := s.slots[producer]; !active {
		return
	}
	delete(s.slots, producer)
	for i, idx := range s.order {
		if idx == producer {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// ClearAll empties every slot.
func (s *Store) ClearAll() {
	s.slots = make(map[core.ComponentIndex]core.FilterPredicate)
	s.order = nil
}

// Get returns the producer's live predicate, if any.
func (s *Store) Get(producer core.ComponentIndex) (core.FilterPredicate, bool) {
	p, ok := s.slots[producer]
	return p, ok
}

// Len returns the number of active producers.
func (s *Store) Len() int {
	return len(s.slots)
}

// Snapshot rebuilds the combined filter set atomically: the conjunction of
// every active predicate, in first-activation order. Consumers only ever see
// complete snapshots.
func (s *Store) Snapshot() core.FilterSet {
	if len(s.slots) == 0 {
		return core.FilterSet{}
	}
	preds := make([]core.FilterPredicate, 0, len(s.slots))
	for _, idx := range s.order {
		if p, ok := s.slots[idx]; ok {
			preds = append(preds, p)
		}
	}
	return core.NewFilterSet(preds)
}

// Producers returns the active producer indexes, sorted for determinism.
func (s *Store) Producers() []core.ComponentIndex {
	out := make([]core.ComponentIndex, 0, len(s.slots))
	for idx := range s.slots {
		out = append(out, idx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
