package cartengine

import (
	"github.com/google/uuid"

	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/models"
)

// Listener receives engine callbacks. It is passed in explicitly so the
// engine carries no process-wide notification state; the caller decides how
// confirmations and failure notices reach the user.
type Listener interface {
	// ConfirmRemoval is asked before the last positive line of a product is
	// deleted. Returning false restores the line to its confirmed quantity.
	ConfirmRemoval(productID uuid.UUID) bool

	// MutationFailed reports a rolled-back edit. retryable is true for
	// transient failures; the user's next edit re-triggers the mutation.
	MutationFailed(key LineKey, err error, retryable bool)

	// CartReplaced fires after an authoritative cart has replaced local
	// state, on success and on conflict re-sync alike.
	CartReplaced(cart models.Cart)
}

// NopListener accepts every removal and drops every notification. Embed it
// when only some callbacks matter.
type NopListener struct{}

func (NopListener) ConfirmRemoval(uuid.UUID) bool { return true }

func (NopListener) MutationFailed(LineKey, error, bool) {}

func (NopListener) CartReplaced(models.Cart) {}
