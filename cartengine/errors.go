package cartengine

import "fmt"

// Error taxonomy for cart editing. Local validation failures never reach the
// network; conflict and transient failures always roll the optimistic state
// back; a line mutation has no partial-success outcome.

// ValidationError rejects an edit before any mutation is attempted. Surfaced
// inline to the caller.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConflictError means the authoritative backend rejected an optimistic
// assumption (for example the variant went inactive between edit and submit).
// The reconciler discards the optimistic line and re-syncs from the
// authoritative cart.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return "conflict: " + e.Reason
}

// TransientError wraps a network or timeout failure. The edit is rolled back
// and may be retried by the user; the engine never retries on its own.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return "transient cart mutation failure: " + e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// QuotaExceededError blocks checkout only. It is never raised while editing
// quantities and is always recoverable by reducing them.
type QuotaExceededError struct {
	Requested int
	Remaining int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("quota exceeded: cart requests %d units but only %d remain in the current period", e.Requested, e.Remaining)
}
