package cartengine

import "time"

// Clock abstracts timer creation so the coalescer's quiescence window can be
// driven by a virtual clock in tests instead of real timers.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a cancellable pending callback. Stop reports whether the callback
// was prevented from running.
type Timer interface {
	Stop() bool
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemClock returns the real wall clock.
func SystemClock() Clock {
	return systemClock{}
}
