package cartengine

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/models"
)

// DefaultMutationTimeout bounds each backend call when the caller supplies
// no timeout of its own. A timeout is treated as a transient mutation
// failure.
const DefaultMutationTimeout = 10 * time.Second

// Config wires a Session. Backend and UserID are required; everything else
// has a working default.
type Config struct {
	UserID   uuid.UUID
	Backend  CartBackend
	Profiles ProfileSource
	Listener Listener
	Clock    Clock

	// Quiescence is the coalescing window; DefaultQuiescence when zero.
	Quiescence time.Duration
	// MutationTimeout bounds each backend call; DefaultMutationTimeout when zero.
	MutationTimeout time.Duration
}

// Session is one user's cart editing session: coalesced quantity intents in,
// reconciled authoritative state out. It is the single owner of optimistic
// truth. Callers read carts and totals from it, never from the backend
// directly while editing.
type Session struct {
	cfg        Config
	coalescer  *Coalescer
	reconciler *Reconciler

	mu       sync.Mutex
	fallback bool // authoritative-total fallback already logged
}

// NewSession builds a session. Call Start before editing.
func NewSession(cfg Config) *Session {
	if cfg.Listener == nil {
		cfg.Listener = NopListener{}
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock()
	}
	if cfg.MutationTimeout <= 0 {
		cfg.MutationTimeout = DefaultMutationTimeout
	}

	s := &Session{cfg: cfg}
	s.reconciler = NewReconciler(cfg.Backend, cfg.Profiles, cfg.Listener, cfg.UserID)
	s.coalescer = NewCoalescer(cfg.Clock, cfg.Quiescence, s.dispatch)
	s.reconciler.SetConfirmedHook(s.coalescer.Confirm)
	return s
}

// Start loads the authoritative cart and primes no-op suppression with its
// confirmed quantities.
func (s *Session) Start(ctx context.Context) error {
	if err := s.reconciler.Load(ctx); err != nil {
		return err
	}
	for _, line := range s.reconciler.Authoritative().Lines {
		s.coalescer.Confirm(KeyForLine(line), line.Quantity)
	}
	return nil
}

// SetQuantity records a quantity intent for the key. Validation failures are
// returned inline and nothing reaches the network. A zero quantity runs the
// removal guard: when the edit would zero the product's last positive line,
// the listener is asked first. Declined means the line snaps back to its
// confirmed quantity; accepted means the deletion is committed immediately.
func (s *Session) SetQuantity(key LineKey, quantity int) error {
	if quantity < 0 {
		return &ValidationError{Field: "quantity", Reason: "must not be negative"}
	}
	if quantity > 0 && s.cfg.Profiles != nil {
		if profile, ok := s.cfg.Profiles.Profile(key); ok && !profile.Active {
			return &ValidationError{Field: "variant_id", Reason: "variant is not orderable"}
		}
	}

	if quantity == 0 && ShouldConfirmRemoval(s.guardCart(), key, quantity) {
		s.coalescer.Cancel(key)
		if !s.cfg.Listener.ConfirmRemoval(key.ProductID) {
			s.reconciler.RestoreLine(key)
			return nil
		}
		// confirmed: delete this line now, siblings untouched
		s.dispatch(key, 0)
		return nil
	}

	s.coalescer.Submit(key, quantity)
	return nil
}

// CommitNow flushes the key's pending intent immediately (loss of focus,
// explicit confirm), bypassing the quiescence window.
func (s *Session) CommitNow(key LineKey) {
	s.coalescer.CommitNow(key)
}

// Cart returns the optimistic display cart.
func (s *Session) Cart() models.Cart {
	return s.reconciler.Cart()
}

// DisplayTotal returns the grand total to show. The locally computed
// fallback is logged once per degraded stretch; the next authoritative
// total silently replaces it.
func (s *Session) DisplayTotal() decimal.Decimal {
	total, authoritative := ComputeDisplayTotal(s.reconciler.Cart(), s.cfg.Profiles)

	s.mu.Lock()
	if !authoritative && !s.fallback {
		s.fallback = true
		log.Printf("⚠️ Cart %s: authoritative total missing, showing locally computed fallback", s.cfg.UserID)
	}
	if authoritative {
		s.fallback = false
	}
	s.mu.Unlock()

	return total
}

// CheckoutAllowed gates the checkout action against the quota snapshot from
// the last authoritative response.
func (s *Session) CheckoutAllowed() (bool, error) {
	cart := s.reconciler.Cart()
	return CheckoutAllowed(cart, cart.Quota)
}

// Flush is the checkout barrier: it commits every pending coalesced intent
// and waits until all per-line mutations have settled, so the order is built
// from authoritative state.
func (s *Session) Flush(ctx context.Context) error {
	for _, key := range s.coalescer.PendingKeys() {
		s.coalescer.CommitNow(key)
	}
	s.coalescer.Wait()
	return s.reconciler.WaitSettled(ctx)
}

// guardCart is the cart the removal guard evaluates: the display cart with
// every coalesced-but-unemitted intent overlaid. A sibling line zeroed
// moments ago must count as zero even while its quiescence window is still
// open.
func (s *Session) guardCart() models.Cart {
	cart := s.reconciler.Cart()
	for key, quantity := range s.coalescer.PendingIntents() {
		if line := cart.Line(key.ProductID, key.variantPtr()); line != nil {
			line.Quantity = quantity
		} else if quantity > 0 {
			cart.Lines = append(cart.Lines, models.CartLine{
				ProductID: key.ProductID,
				VariantID: key.variantPtr(),
				Quantity:  quantity,
			})
		}
	}
	return cart
}

// dispatch is the coalescer's emit target: it runs the reconciliation for
// one settled intent. Errors are already surfaced through the listener.
func (s *Session) dispatch(key LineKey, quantity int) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.MutationTimeout)
	defer cancel()
	_ = s.reconciler.Apply(ctx, key, quantity)
}
