package cartengine

import (
	"sync"
	"time"
)

// DefaultQuiescence is how long a line key must stay quiet before the
// coalesced mutation is emitted.
const DefaultQuiescence = 400 * time.Millisecond

// Coalescer folds a rapid stream of quantity intents per line key into at
// most one emitted mutation carrying the last value of the burst. Each
// submit cancels the key's pending timer and starts a fresh quiescence
// window; keys are fully independent.
type Coalescer struct {
	mu        sync.Mutex
	clock     Clock
	delay     time.Duration
	emit      func(key LineKey, quantity int)
	pending   map[LineKey]*pendingEdit
	confirmed map[LineKey]int
	seq       uint64

	// emits tracks emit callbacks that have left the pending map but not yet
	// returned, so the flush barrier cannot slip through that gap.
	emits sync.WaitGroup
}

type pendingEdit struct {
	timer    Timer
	quantity int
	seq      uint64
}

// NewCoalescer wires the coalescer to its emit target. A non-positive delay
// falls back to DefaultQuiescence.
func NewCoalescer(clock Clock, delay time.Duration, emit func(key LineKey, quantity int)) *Coalescer {
	if delay <= 0 {
		delay = DefaultQuiescence
	}
	return &Coalescer{
		clock:     clock,
		delay:     delay,
		emit:      emit,
		pending:   map[LineKey]*pendingEdit{},
		confirmed: map[LineKey]int{},
	}
}

// Submit records a quantity intent for the key and restarts its quiescence
// window. Called on every keystroke or spinner click.
func (c *Coalescer) Submit(key LineKey, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if p, ok := c.pending[key]; ok {
		p.timer.Stop()
	}

	c.seq++
	seq := c.seq
	c.pending[key] = &pendingEdit{
		quantity: quantity,
		seq:      seq,
		timer: c.clock.AfterFunc(c.delay, func() {
			c.fire(key, seq)
		}),
	}
}

// fire runs when a quiescence window elapses. The sequence guard drops
// stale timer callbacks that raced with a Stop.
func (c *Coalescer) fire(key LineKey, seq uint64) {
	c.mu.Lock()
	p, ok := c.pending[key]
	if !ok || p.seq != seq {
		c.mu.Unlock()
		return
	}
	delete(c.pending, key)
	quantity := p.quantity
	if c.isConfirmedLocked(key, quantity) {
		c.mu.Unlock()
		return
	}
	c.emits.Add(1)
	c.mu.Unlock()

	defer c.emits.Done()
	c.emit(key, quantity)
}

// CommitNow bypasses the timer (loss of focus, explicit confirm) and emits
// the key's latest pending intent immediately. No pending intent, no emit.
func (c *Coalescer) CommitNow(key LineKey) {
	c.mu.Lock()
	p, ok := c.pending[key]
	if ok {
		p.timer.Stop()
		delete(c.pending, key)
		if c.isConfirmedLocked(key, p.quantity) {
			ok = false
		}
	}
	if ok {
		c.emits.Add(1)
	}
	c.mu.Unlock()

	if !ok {
		return
	}
	defer c.emits.Done()
	c.emit(key, p.quantity)
}

// Cancel drops the key's pending intent without emitting anything. Used when
// a removal confirmation is declined.
func (c *Coalescer) Cancel(key LineKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.pending[key]; ok {
		p.timer.Stop()
		delete(c.pending, key)
	}
}

// Confirm records the quantity last confirmed by an authoritative response.
// A later intent for the same value is suppressed as a no-op.
func (c *Coalescer) Confirm(key LineKey, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.confirmed[key] = quantity
}

// PendingKeys lists keys that still have an un-emitted intent. The flush
// barrier commits each of them before checkout.
func (c *Coalescer) PendingKeys() []LineKey {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]LineKey, 0, len(c.pending))
	for k := range c.pending {
		keys = append(keys, k)
	}
	return keys
}

// PendingIntents snapshots the un-emitted intent per key. The removal guard
// overlays these on the display cart so a zero that is still inside its
// quiescence window already counts as zero.
func (c *Coalescer) PendingIntents() map[LineKey]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	intents := make(map[LineKey]int, len(c.pending))
	for k, p := range c.pending {
		intents[k] = p.quantity
	}
	return intents
}

// Wait blocks until every emit callback currently underway has returned.
// An intent that has left the pending map is otherwise invisible until the
// reconciler registers it; the flush barrier waits here to close that gap.
func (c *Coalescer) Wait() {
	c.emits.Wait()
}

func (c *Coalescer) isConfirmedLocked(key LineKey, quantity int) bool {
	confirmed, ok := c.confirmed[key]
	return ok && confirmed == quantity
}
