package cartengine

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/models"
)

// ─────────────────────────────────────────────────────────────
// Fake clock: timers fire synchronously from Advance.
// ─────────────────────────────────────────────────────────────

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves the clock forward and fires every due timer in the caller's
// goroutine, so tests stay fully deterministic.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

// ─────────────────────────────────────────────────────────────
// Fake authoritative backend
// ─────────────────────────────────────────────────────────────

// fakeBackend is an in-memory CartBackend. Every mutation response carries
// the full recomputed cart. failures is a queue consumed one error per
// mutation; gate (when set) blocks each mutation until the test releases it,
// with entered signalled first so the test can observe the in-flight call.
type fakeBackend struct {
	mu        sync.Mutex
	userID    uuid.UUID
	unit      decimal.Decimal
	lines     map[uuid.UUID]models.CartLine
	order     []uuid.UUID
	failures  []error
	omitTotal bool
	quota     *models.QuotaInfo

	gets, adds, updates, removes int

	gate    chan struct{}
	entered chan struct{}
}

func newFakeBackend(userID uuid.UUID) *fakeBackend {
	return &fakeBackend{
		userID: userID,
		unit:   decimal.NewFromInt(100000),
		lines:  map[uuid.UUID]models.CartLine{},
	}
}

// seedLine installs an already-persisted line and returns its id.
func (b *fakeBackend) seedLine(productID uuid.UUID, variantID *uuid.UUID, quantity int) uuid.UUID {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := uuid.Must(uuid.NewV7())
	b.lines[id] = b.makeLine(id, productID, variantID, quantity)
	b.order = append(b.order, id)
	return id
}

func (b *fakeBackend) makeLine(id, productID uuid.UUID, variantID *uuid.UUID, quantity int) models.CartLine {
	lineID := id
	return models.CartLine{
		LineID:    &lineID,
		ProductID: productID,
		VariantID: variantID,
		Quantity:  quantity,
		UnitPrice: b.unit,
		Subtotal:  b.unit.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

func (b *fakeBackend) snapshotLocked() *models.Cart {
	cart := &models.Cart{UserID: b.userID}
	total := decimal.Zero
	for _, id := range b.order {
		line, ok := b.lines[id]
		if !ok {
			continue
		}
		cart.Lines = append(cart.Lines, line)
		total = total.Add(line.Subtotal)
	}
	if !b.omitTotal {
		cart.TotalPrice = &total
	}
	if b.quota != nil {
		q := *b.quota
		cart.Quota = &q
	}
	clone := cart.Clone()
	return &clone
}

func (b *fakeBackend) failNext(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = append(b.failures, err)
}

func (b *fakeBackend) popFailureLocked() error {
	if len(b.failures) == 0 {
		return nil
	}
	err := b.failures[0]
	b.failures = b.failures[1:]
	return err
}

func (b *fakeBackend) waitGate() {
	if b.entered != nil {
		b.entered <- struct{}{}
	}
	if b.gate != nil {
		<-b.gate
	}
}

func (b *fakeBackend) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gets++
	return b.snapshotLocked(), nil
}

func (b *fakeBackend) AddLine(ctx context.Context, userID, productID uuid.UUID, variantID *uuid.UUID, quantity int) (*models.Cart, error) {
	b.waitGate()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.adds++
	if err := b.popFailureLocked(); err != nil {
		return nil, err
	}
	id := uuid.Must(uuid.NewV7())
	b.lines[id] = b.makeLine(id, productID, variantID, quantity)
	b.order = append(b.order, id)
	return b.snapshotLocked(), nil
}

func (b *fakeBackend) UpdateLine(ctx context.Context, userID, lineID uuid.UUID, quantity int) (*models.Cart, error) {
	b.waitGate()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.updates++
	if err := b.popFailureLocked(); err != nil {
		return nil, err
	}
	line, ok := b.lines[lineID]
	if !ok {
		return nil, &ConflictError{Reason: "cart line no longer exists"}
	}
	b.lines[lineID] = b.makeLine(lineID, line.ProductID, line.VariantID, quantity)
	return b.snapshotLocked(), nil
}

func (b *fakeBackend) RemoveLine(ctx context.Context, userID, lineID uuid.UUID) (*models.Cart, error) {
	b.waitGate()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removes++
	if err := b.popFailureLocked(); err != nil {
		return nil, err
	}
	if _, ok := b.lines[lineID]; !ok {
		return nil, &ConflictError{Reason: "cart line no longer exists"}
	}
	delete(b.lines, lineID)
	return b.snapshotLocked(), nil
}

// ─────────────────────────────────────────────────────────────
// Recording listener
// ─────────────────────────────────────────────────────────────

type failureEvent struct {
	key       LineKey
	err       error
	retryable bool
}

type recordingListener struct {
	mu            sync.Mutex
	confirmAnswer bool
	prompts       []uuid.UUID
	failures      []failureEvent
	replacements  int
}

func (l *recordingListener) ConfirmRemoval(productID uuid.UUID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prompts = append(l.prompts, productID)
	return l.confirmAnswer
}

func (l *recordingListener) MutationFailed(key LineKey, err error, retryable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failures = append(l.failures, failureEvent{key: key, err: err, retryable: retryable})
}

func (l *recordingListener) CartReplaced(cart models.Cart) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.replacements++
}

func (l *recordingListener) promptCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.prompts)
}

func (l *recordingListener) failureCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.failures)
}

// ─────────────────────────────────────────────────────────────
// Small helpers
// ─────────────────────────────────────────────────────────────

func uuidPtr(id uuid.UUID) *uuid.UUID {
	return &id
}

func testProfile(variantID uuid.UUID, base int64, active bool) models.VariantPriceProfile {
	return models.VariantPriceProfile{
		VariantID: variantID,
		BasePrice: decimal.NewFromInt(base),
		Active:    active,
	}
}
