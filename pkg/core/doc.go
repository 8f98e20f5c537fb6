// Package core defines the shared language of the Glassboard system.
//
// This package contains:
//   - Domain entities (Dashboard, LayoutEntry, ComponentMetadata, FilterPredicate)
//   - Service interfaces (Store, Querier, PermissionChecker)
//   - The Patch type returned by every dashboard operation
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
