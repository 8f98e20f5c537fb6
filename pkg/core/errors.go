package core

import "errors"

// Error taxonomy for dashboard operations. Expected failures abort with no
// mutation and surface to the caller as an empty patch plus a log entry;
// none of them is fatal to the session.
var (
	// ErrNotFound marks a referenced component or dashboard as absent.
	ErrNotFound = errors.New("not found")

	// ErrPermissionDenied aborts an operation before any mutation.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrCorruptState marks malformed persisted layout or metadata. It is
	// recovered by regeneration during reconciliation, never fatal.
	ErrCorruptState = errors.New("corrupt persisted state")
)

// IsExpected reports whether err belongs to the expected-failure taxonomy,
// i.e. it should be logged and answered with "no update" rather than
// propagated.
func IsExpected(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrCorruptState)
}
