package cartengine

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/models"
	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/pricing"
)

// Reconciler owns the two cart snapshots of an editing session: the
// authoritative cart last confirmed by the backend, and the display cart
// carrying optimistic edits on top of it. All Unbound/Pending*/Bound
// transitions happen here. Call sites never inspect "is this a new line"
// on their own.
//
// Per key, mutations are serialized: one outstanding backend call at most,
// with a latest-wins follow-up issued once the in-flight call settles.
// Different keys are fully independent.
type Reconciler struct {
	mu      sync.Mutex
	cond    *sync.Cond
	backend CartBackend

	profiles ProfileSource
	listener Listener
	userID   uuid.UUID

	authoritative models.Cart
	display       models.Cart

	states   map[LineKey]LineState
	inflight map[LineKey]int // key -> desired quantity of the outstanding call
	queued   map[LineKey]int // latest intent arrived while in flight

	// onConfirmed reports authoritative quantities back to the coalescer's
	// no-op suppression. Optional.
	onConfirmed func(key LineKey, quantity int)
}

// NewReconciler builds a reconciler for one user's session. listener must
// not be nil; use NopListener when callbacks are not needed.
func NewReconciler(backend CartBackend, profiles ProfileSource, listener Listener, userID uuid.UUID) *Reconciler {
	r := &Reconciler{
		backend:  backend,
		profiles: profiles,
		listener: listener,
		userID:   userID,
		states:   map[LineKey]LineState{},
		inflight: map[LineKey]int{},
		queued:   map[LineKey]int{},
	}
	r.cond = sync.NewCond(&r.mu)
	return r
}

// SetConfirmedHook registers the authoritative-quantity callback.
func (r *Reconciler) SetConfirmedHook(hook func(key LineKey, quantity int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onConfirmed = hook
}

// Load fetches the authoritative cart and resets both snapshots to it.
func (r *Reconciler) Load(ctx context.Context) error {
	cart, err := r.backend.GetCart(ctx, r.userID)
	if err != nil {
		return &TransientError{Err: err}
	}
	r.adopt(*cart, nil)
	return nil
}

// Cart returns a copy of the display cart (optimistic view).
func (r *Reconciler) Cart() models.Cart {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.display.Clone()
}

// Authoritative returns a copy of the last server-confirmed cart.
func (r *Reconciler) Authoritative() models.Cart {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.authoritative.Clone()
}

// State returns the key's lifecycle position.
func (r *Reconciler) State(key LineKey) LineState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.states[key]
}

// ConfirmedQuantity is the quantity last confirmed by the backend for the
// key; zero when no persisted line exists.
func (r *Reconciler) ConfirmedQuantity(key LineKey) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.confirmedQuantityLocked(key)
}

// Apply reflects the desired quantity optimistically and drives the backend
// toward it. If a call for the key is already in flight, the intent is
// queued (latest wins) and issued as a follow-up once the in-flight call
// settles; Apply then returns immediately.
func (r *Reconciler) Apply(ctx context.Context, key LineKey, quantity int) error {
	if quantity < 0 {
		return &ValidationError{Field: "quantity", Reason: "must not be negative"}
	}

	r.mu.Lock()
	r.applyOptimisticLocked(key, quantity)
	if _, busy := r.inflight[key]; busy {
		r.queued[key] = quantity
		r.mu.Unlock()
		return nil
	}
	r.inflight[key] = quantity
	r.mu.Unlock()

	desired := quantity
	var firstErr error
	for {
		if err := r.mutate(ctx, key, desired); err != nil && firstErr == nil {
			firstErr = err
		}

		r.mu.Lock()
		if n, ok := r.queued[key]; ok {
			delete(r.queued, key)
			if n != r.confirmedQuantityLocked(key) {
				desired = n
				r.inflight[key] = n
				r.mu.Unlock()
				continue
			}
		}
		delete(r.inflight, key)
		r.rebuildDisplayLocked(nil)
		r.cond.Broadcast()
		r.mu.Unlock()
		return firstErr
	}
}

// RestoreLine discards the key's optimistic edit and shows the last
// authoritative value again. Used when a removal confirmation is declined.
func (r *Reconciler) RestoreLine(key LineKey) {
	r.mu.Lock()
	delete(r.queued, key)
	r.rebuildDisplayLocked(nil)
	r.mu.Unlock()
}

// Settled reports whether no mutation is outstanding or queued for any key.
func (r *Reconciler) Settled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.inflight) == 0 && len(r.queued) == 0
}

// WaitSettled blocks until every per-key mutation has resolved, or the
// context ends. It is the checkout barrier: orders must be built from
// settled state, not optimistic guesses.
func (r *Reconciler) WaitSettled(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		r.mu.Lock()
		r.cond.Broadcast()
		r.mu.Unlock()
	})
	defer stop()

	r.mu.Lock()
	defer r.mu.Unlock()
	for len(r.inflight) > 0 || len(r.queued) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.cond.Wait()
	}
	return nil
}

// ─────────────────────────────────────────────────────────────
// Internals
// ─────────────────────────────────────────────────────────────

// mutate issues exactly one backend call for the desired quantity, chosen
// from the authoritative line's current binding.
func (r *Reconciler) mutate(ctx context.Context, key LineKey, desired int) error {
	r.mu.Lock()
	var lineID *uuid.UUID
	if line := r.authoritative.Line(key.ProductID, key.variantPtr()); line != nil && line.LineID != nil {
		id := *line.LineID
		lineID = &id
	}

	var state LineState
	switch {
	case lineID == nil && desired <= 0:
		// nothing persisted, nothing wanted
		r.states[key] = StateUnbound
		r.mu.Unlock()
		r.notifyConfirmed(key, 0)
		return nil
	case lineID == nil:
		state = StatePendingCreate
	case desired <= 0:
		state = StatePendingDelete
	default:
		state = StatePendingUpdate
	}
	r.states[key] = state
	r.mu.Unlock()

	var (
		cart *models.Cart
		err  error
	)
	switch state {
	case StatePendingCreate:
		cart, err = r.backend.AddLine(ctx, r.userID, key.ProductID, key.variantPtr(), desired)
	case StatePendingDelete:
		cart, err = r.backend.RemoveLine(ctx, r.userID, *lineID)
	case StatePendingUpdate:
		cart, err = r.backend.UpdateLine(ctx, r.userID, *lineID, desired)
	}
	if err != nil {
		return r.recover(ctx, key, err)
	}

	r.adopt(*cart, &key)
	return nil
}

// adopt replaces both snapshots with an authoritative cart in full (never
// merged field by field), then re-applies the optimistic quantities of keys
// that are still in flight or queued.
func (r *Reconciler) adopt(cart models.Cart, resolved *LineKey) {
	r.mu.Lock()
	r.authoritative = cart.Clone()
	r.rebuildDisplayLocked(resolved)

	var confirmed int
	if resolved != nil {
		if line := r.authoritative.Line(resolved.ProductID, resolved.variantPtr()); line != nil && line.LineID != nil {
			r.states[*resolved] = StateBound
			confirmed = line.Quantity
		} else {
			r.states[*resolved] = StateUnbound
			confirmed = 0
		}
	}
	display := r.display.Clone()
	r.mu.Unlock()

	if resolved != nil {
		r.notifyConfirmed(*resolved, confirmed)
	}
	r.listener.CartReplaced(display)
}

// recover rolls back the optimistic edit. Conflicts re-sync from the
// authoritative cart; everything else restores the last known snapshot.
func (r *Reconciler) recover(ctx context.Context, key LineKey, cause error) error {
	var conflict *ConflictError
	if errors.As(cause, &conflict) {
		if cart, err := r.backend.GetCart(ctx, r.userID); err == nil {
			r.mu.Lock()
			delete(r.queued, key) // the optimistic intent is discarded, not replayed
			r.mu.Unlock()
			r.adopt(*cart, &key)
		} else {
			r.rollback(key)
		}
		r.listener.MutationFailed(key, cause, false)
		return cause
	}

	transient := &TransientError{Err: cause}
	r.rollback(key)
	r.listener.MutationFailed(key, transient, true)
	return transient
}

// rollback restores the key to its prior stable state from the authoritative
// snapshot, leaving no partially applied edit behind.
func (r *Reconciler) rollback(key LineKey) {
	r.mu.Lock()
	delete(r.queued, key)
	if line := r.authoritative.Line(key.ProductID, key.variantPtr()); line != nil && line.LineID != nil {
		r.states[key] = StateBound
	} else {
		r.states[key] = StateUnbound
	}
	r.rebuildDisplayLocked(&key)
	r.mu.Unlock()
}

// rebuildDisplayLocked recomputes the display cart: authoritative base plus
// the optimistic quantity of every unsettled key. The settling key's in-flight
// quantity is excluded: its mutation just resolved (or failed), so the
// authoritative snapshot is the truth for it. A queued follow-up intent for
// the same key is newer and still overlays.
func (r *Reconciler) rebuildDisplayLocked(settling *LineKey) {
	r.display = r.authoritative.Clone()
	for key, desired := range r.inflight {
		if settling != nil && key == *settling {
			continue
		}
		r.applyOptimisticLocked(key, desired)
	}
	for key, desired := range r.queued {
		r.applyOptimisticLocked(key, desired)
	}
}

// applyOptimisticLocked reflects a desired quantity in the display cart and
// invalidates the authoritative total, which is stale until the backend
// confirms.
func (r *Reconciler) applyOptimisticLocked(key LineKey, quantity int) {
	line := r.display.Line(key.ProductID, key.variantPtr())
	if line == nil {
		if quantity <= 0 {
			return
		}
		newLine := models.CartLine{
			ProductID: key.ProductID,
			VariantID: key.variantPtr(),
			Quantity:  quantity,
		}
		r.fillDerivedLocked(key, &newLine)
		r.display.Lines = append(r.display.Lines, newLine)
	} else {
		line.Quantity = quantity
		r.fillDerivedLocked(key, line)
	}
	r.display.TotalPrice = nil
}

// fillDerivedLocked refreshes a line's local price snapshot from the profile
// source. A zero-quantity line carries no price.
func (r *Reconciler) fillDerivedLocked(key LineKey, line *models.CartLine) {
	if line.Quantity < 1 {
		line.UnitPrice = decimal.Zero
		line.Subtotal = decimal.Zero
		return
	}
	if r.profiles == nil {
		return
	}
	profile, ok := r.profiles.Profile(key)
	if !ok {
		return
	}
	line.UnitPrice = pricing.ResolveUnitPrice(profile, line.Quantity)
	line.Subtotal = pricing.LineSubtotal(profile, line.Quantity)
}

func (r *Reconciler) confirmedQuantityLocked(key LineKey) int {
	if line := r.authoritative.Line(key.ProductID, key.variantPtr()); line != nil {
		return line.Quantity
	}
	return 0
}

func (r *Reconciler) notifyConfirmed(key LineKey, quantity int) {
	r.mu.Lock()
	hook := r.onConfirmed
	r.mu.Unlock()
	if hook != nil {
		hook(key, quantity)
	}
}
