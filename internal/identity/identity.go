// Package identity issues globally unique component identifiers.
//
// Indexes are random UUIDv4 strings: collision probability is negligible and
// not actively guarded. A duplicate's index carries no structural link back
// to its source, so duplicates can be edited, removed, or duplicated again
// without affecting the original.
package identity

import (
	"github.com/google/uuid"

	"github.com/glassboard-labs/glassboard/pkg/core"
)

// Allocator issues component indexes.
type Allocator struct{}

// NewAllocator creates an Allocator.
func NewAllocator() *Allocator {
	return &Allocator{}
}

// NewIndex returns a fresh component index.
func (a *Allocator) NewIndex() core.ComponentIndex {
	return core.ComponentIndex(uuid.New().String())
}

// ForDuplicate returns the index for a duplicate of original. It behaves
// identically to NewIndex: the result is fully independent of the source.
func (a *Allocator) ForDuplicate(original core.ComponentIndex) core.ComponentIndex {
	_ = original
	return a.NewIndex()
}
