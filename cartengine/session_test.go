package cartengine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type sessionFixture struct {
	session  *Session
	backend  *fakeBackend
	clock    *fakeClock
	listener *recordingListener
	profiles *CatalogSnapshot
	userID   uuid.UUID
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	userID := uuid.New()
	f := &sessionFixture{
		backend:  newFakeBackend(userID),
		clock:    newFakeClock(),
		listener: &recordingListener{},
		profiles: NewCatalogSnapshot(),
		userID:   userID,
	}
	f.session = NewSession(Config{
		UserID:   userID,
		Backend:  f.backend,
		Profiles: f.profiles,
		Listener: f.listener,
		Clock:    f.clock,
	})
	return f
}

func (f *sessionFixture) start(t *testing.T) {
	t.Helper()
	if err := f.session.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
}

func TestSessionBurstBecomesOneMutation(t *testing.T) {
	f := newSessionFixture(t)
	productID := uuid.New()
	variantID := uuid.New()
	key := KeyFor(productID, &variantID)
	f.backend.seedLine(productID, &variantID, 2)
	f.profiles.Put(key, testProfile(variantID, 139000, true))
	f.start(t)

	for _, q := range []int{3, 4, 5} {
		if err := f.session.SetQuantity(key, q); err != nil {
			t.Fatalf("SetQuantity(%d) error = %v", q, err)
		}
	}

	if f.backend.updates != 0 {
		t.Fatal("mutation reached the backend before the quiescence window elapsed")
	}

	f.clock.Advance(DefaultQuiescence)

	if f.backend.updates != 1 {
		t.Fatalf("backend updates = %d, want the burst folded into 1", f.backend.updates)
	}
	if line := f.session.Cart().Line(productID, &variantID); line == nil || line.Quantity != 5 {
		t.Fatalf("cart line = %+v, want the last value 5", line)
	}

	// editing back to the confirmed value is a no-op
	if err := f.session.SetQuantity(key, 5); err != nil {
		t.Fatalf("SetQuantity(5) error = %v", err)
	}
	f.clock.Advance(DefaultQuiescence)
	if f.backend.updates != 1 {
		t.Fatalf("backend updates = %d after a no-op edit, want still 1", f.backend.updates)
	}
}

func TestSessionStartPrimesNoopSuppression(t *testing.T) {
	f := newSessionFixture(t)
	productID := uuid.New()
	variantID := uuid.New()
	key := KeyFor(productID, &variantID)
	f.backend.seedLine(productID, &variantID, 4)
	f.profiles.Put(key, testProfile(variantID, 139000, true))
	f.start(t)

	// re-entering the quantity the cart already holds must not mutate
	if err := f.session.SetQuantity(key, 4); err != nil {
		t.Fatalf("SetQuantity(4) error = %v", err)
	}
	f.clock.Advance(DefaultQuiescence)

	if f.backend.updates != 0 {
		t.Fatalf("backend updates = %d for a no-op edit right after load, want 0", f.backend.updates)
	}
}

func TestSessionRejectsInvalidEditsLocally(t *testing.T) {
	f := newSessionFixture(t)
	productID := uuid.New()
	variantID := uuid.New()
	key := KeyFor(productID, &variantID)
	f.profiles.Put(key, testProfile(variantID, 139000, false)) // inactive
	f.start(t)

	var verr *ValidationError

	if err := f.session.SetQuantity(key, -2); !errors.As(err, &verr) {
		t.Errorf("SetQuantity(-2) error = %v, want ValidationError", err)
	}
	if err := f.session.SetQuantity(key, 3); !errors.As(err, &verr) {
		t.Errorf("SetQuantity() on inactive variant error = %v, want ValidationError", err)
	}

	f.clock.Advance(DefaultQuiescence)
	if f.backend.adds+f.backend.updates+f.backend.removes != 0 {
		t.Error("rejected edit reached the backend")
	}
}

func TestSessionRemovalDeclinedRestoresLine(t *testing.T) {
	f := newSessionFixture(t)
	giftSetID := uuid.New()
	key := KeyFor(giftSetID, nil)
	f.backend.seedLine(giftSetID, nil, 2)
	f.listener.confirmAnswer = false
	f.start(t)

	if err := f.session.SetQuantity(key, 0); err != nil {
		t.Fatalf("SetQuantity(0) error = %v", err)
	}

	if f.listener.promptCount() != 1 {
		t.Fatalf("removal prompts = %d, want 1", f.listener.promptCount())
	}
	f.clock.Advance(DefaultQuiescence)
	if f.backend.removes != 0 {
		t.Fatal("declined removal still reached the backend")
	}
	if line := f.session.Cart().Line(giftSetID, nil); line == nil || line.Quantity != 2 {
		t.Fatalf("cart line = %+v, want the confirmed quantity 2 restored", line)
	}
}

func TestSessionRemovalAcceptedDeletesImmediately(t *testing.T) {
	f := newSessionFixture(t)
	giftSetID := uuid.New()
	key := KeyFor(giftSetID, nil)
	f.backend.seedLine(giftSetID, nil, 2)
	f.listener.confirmAnswer = true
	f.start(t)

	if err := f.session.SetQuantity(key, 0); err != nil {
		t.Fatalf("SetQuantity(0) error = %v", err)
	}

	// accepted removals skip the quiescence window
	if f.backend.removes != 1 {
		t.Fatalf("backend removes = %d, want an immediate delete", f.backend.removes)
	}
	if line := f.session.Cart().Line(giftSetID, nil); line != nil {
		t.Fatalf("cart line = %+v, want it gone", line)
	}
}

func TestSessionSiblingLineDeletesWithoutPrompt(t *testing.T) {
	f := newSessionFixture(t)
	perfumeID := uuid.New()
	variant20 := uuid.New()
	variant50 := uuid.New()
	f.backend.seedLine(perfumeID, &variant20, 3)
	f.backend.seedLine(perfumeID, &variant50, 1)
	f.profiles.Put(KeyFor(perfumeID, &variant20), testProfile(variant20, 139000, true))
	f.profiles.Put(KeyFor(perfumeID, &variant50), testProfile(variant50, 290000, true))
	f.start(t)

	if err := f.session.SetQuantity(KeyFor(perfumeID, &variant20), 0); err != nil {
		t.Fatalf("SetQuantity(0) error = %v", err)
	}

	if f.listener.promptCount() != 0 {
		t.Fatalf("removal prompts = %d, want none while a sibling stays positive", f.listener.promptCount())
	}

	f.clock.Advance(DefaultQuiescence)

	if f.backend.removes != 1 {
		t.Fatalf("backend removes = %d, want 1", f.backend.removes)
	}
	cart := f.session.Cart()
	if line := cart.Line(perfumeID, &variant20); line != nil {
		t.Errorf("zeroed line still present: %+v", line)
	}
	if line := cart.Line(perfumeID, &variant50); line == nil || line.Quantity != 1 {
		t.Errorf("sibling line = %+v, want untouched quantity 1", line)
	}
}

func TestSessionZeroingBothVariantsPromptsExactlyOnce(t *testing.T) {
	f := newSessionFixture(t)
	perfumeID := uuid.New()
	variant20 := uuid.New()
	variant50 := uuid.New()
	f.backend.seedLine(perfumeID, &variant20, 3)
	f.backend.seedLine(perfumeID, &variant50, 1)
	f.profiles.Put(KeyFor(perfumeID, &variant20), testProfile(variant20, 139000, true))
	f.profiles.Put(KeyFor(perfumeID, &variant50), testProfile(variant50, 290000, true))
	f.listener.confirmAnswer = true
	f.start(t)

	// first zero deletes silently: the sibling is still positive
	if err := f.session.SetQuantity(KeyFor(perfumeID, &variant20), 0); err != nil {
		t.Fatalf("SetQuantity(0) error = %v", err)
	}
	f.clock.Advance(DefaultQuiescence)
	if f.listener.promptCount() != 0 {
		t.Fatalf("removal prompts = %d after zeroing the first variant, want 0", f.listener.promptCount())
	}

	// second zero hits the product's last positive line: exactly one prompt
	if err := f.session.SetQuantity(KeyFor(perfumeID, &variant50), 0); err != nil {
		t.Fatalf("SetQuantity(0) error = %v", err)
	}
	if f.listener.promptCount() != 1 {
		t.Fatalf("removal prompts = %d after zeroing the last line, want exactly 1", f.listener.promptCount())
	}
	if f.backend.removes != 2 {
		t.Fatalf("backend removes = %d, want both lines deleted", f.backend.removes)
	}
	if len(f.session.Cart().Lines) != 0 {
		t.Errorf("cart lines = %+v, want empty", f.session.Cart().Lines)
	}
}

func TestSessionZeroingBothWithinOneWindowPromptsOnce(t *testing.T) {
	f := newSessionFixture(t)
	perfumeID := uuid.New()
	variant20 := uuid.New()
	variant50 := uuid.New()
	f.backend.seedLine(perfumeID, &variant20, 3)
	f.backend.seedLine(perfumeID, &variant50, 1)
	f.profiles.Put(KeyFor(perfumeID, &variant20), testProfile(variant20, 139000, true))
	f.profiles.Put(KeyFor(perfumeID, &variant50), testProfile(variant50, 290000, true))
	f.listener.confirmAnswer = true
	f.start(t)

	// both zeros land inside one quiescence window: the first is still an
	// un-emitted intent when the second arrives, and must already count
	if err := f.session.SetQuantity(KeyFor(perfumeID, &variant20), 0); err != nil {
		t.Fatalf("SetQuantity(0) error = %v", err)
	}
	if err := f.session.SetQuantity(KeyFor(perfumeID, &variant50), 0); err != nil {
		t.Fatalf("SetQuantity(0) error = %v", err)
	}

	if f.listener.promptCount() != 1 {
		t.Fatalf("removal prompts = %d for zeroing both lines in one window, want exactly 1", f.listener.promptCount())
	}
	// the confirmed deletion went out immediately
	if f.backend.removes != 1 {
		t.Fatalf("backend removes = %d before the window elapsed, want 1", f.backend.removes)
	}

	f.clock.Advance(DefaultQuiescence)

	if f.backend.removes != 2 {
		t.Fatalf("backend removes = %d, want both lines deleted", f.backend.removes)
	}
	if f.listener.promptCount() != 1 {
		t.Fatalf("removal prompts = %d after the window, want still 1", f.listener.promptCount())
	}
	if len(f.session.Cart().Lines) != 0 {
		t.Errorf("cart lines = %+v, want empty", f.session.Cart().Lines)
	}
}

func TestSessionFlushWaitsForTimerFiredMutation(t *testing.T) {
	f := newSessionFixture(t)
	productID := uuid.New()
	variantID := uuid.New()
	key := KeyFor(productID, &variantID)
	f.backend.seedLine(productID, &variantID, 2)
	f.profiles.Put(key, testProfile(variantID, 139000, true))
	f.start(t)

	f.backend.gate = make(chan struct{})
	f.backend.entered = make(chan struct{}, 8)

	if err := f.session.SetQuantity(key, 7); err != nil {
		t.Fatalf("SetQuantity(7) error = %v", err)
	}

	// the timer fires and the mutation blocks inside the backend
	go f.clock.Advance(DefaultQuiescence)
	<-f.backend.entered

	flushed := make(chan error, 1)
	go func() {
		flushed <- f.session.Flush(context.Background())
	}()

	select {
	case err := <-flushed:
		t.Fatalf("Flush() returned %v while a mutation was still in flight", err)
	case <-time.After(20 * time.Millisecond):
	}

	f.backend.gate <- struct{}{}

	if err := <-flushed; err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if f.backend.updates != 1 {
		t.Fatalf("backend updates = %d after Flush, want 1", f.backend.updates)
	}
	if line := f.session.Cart().Line(productID, &variantID); line == nil || line.Quantity != 7 {
		t.Fatalf("cart line after Flush = %+v, want quantity 7", line)
	}
}

func TestSessionDisplayTotalFallsBackWhenBackendOmitsTotal(t *testing.T) {
	f := newSessionFixture(t)
	f.backend.omitTotal = true
	productID := uuid.New()
	variantID := uuid.New()
	key := KeyFor(productID, &variantID)
	f.backend.seedLine(productID, &variantID, 12)

	f.profiles.Put(key, testProfile(variantID, 139000, true))
	f.start(t)

	got := f.session.DisplayTotal()
	want := decimal.NewFromInt(139000).Mul(decimal.NewFromInt(12))
	if !got.Equal(want) {
		t.Fatalf("DisplayTotal() = %s, want locally resolved %s", got, want)
	}
}

func TestSessionFlushCommitsAndSettles(t *testing.T) {
	f := newSessionFixture(t)
	productID := uuid.New()
	variantID := uuid.New()
	key := KeyFor(productID, &variantID)
	f.backend.seedLine(productID, &variantID, 2)
	f.profiles.Put(key, testProfile(variantID, 139000, true))
	f.start(t)

	if err := f.session.SetQuantity(key, 7); err != nil {
		t.Fatalf("SetQuantity(7) error = %v", err)
	}
	// window has not elapsed; checkout must not wait for it
	if err := f.session.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	if f.backend.updates != 1 {
		t.Fatalf("backend updates = %d after Flush, want 1", f.backend.updates)
	}
	cart := f.session.Cart()
	if line := cart.Line(productID, &variantID); line == nil || line.Quantity != 7 {
		t.Fatalf("cart line after Flush = %+v, want quantity 7", line)
	}
	if cart.TotalPrice == nil {
		t.Error("cart total not authoritative after Flush")
	}
}

func TestSessionCheckoutGatedByQuota(t *testing.T) {
	f := newSessionFixture(t)
	f.backend.quota = monthQuota(100, 80)
	productID := uuid.New()
	variantID := uuid.New()
	f.backend.seedLine(productID, &variantID, 25)
	f.start(t)

	allowed, err := f.session.CheckoutAllowed()
	if allowed {
		t.Fatal("CheckoutAllowed() = true with 25 requested against 20 remaining")
	}
	var qerr *QuotaExceededError
	if !errors.As(err, &qerr) {
		t.Fatalf("error = %v, want QuotaExceededError", err)
	}
	if qerr.Remaining != 20 {
		t.Errorf("QuotaExceededError.Remaining = %d, want 20", qerr.Remaining)
	}
}
