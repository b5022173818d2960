package clock

import (
	"sync"
	"time"
)

// Fake is a manually advanced clock. After fires immediately once the clock
// has been advanced past the deadline, and Waits returns every requested
// duration.
type Fake struct {
	mu      sync.Mutex
	now     time.Time
	waiters []fakeWaiter
	slept   []time.Duration
	auto    bool
}

type fakeWaiter struct {
	deadline time.Time
	ch       chan time.Time
}

// NewFake returns a clock frozen at now.
func NewFake(now time.Time) *Fake {
	return &Fake{now: now}
}

// NewAutoFake returns a clock that advances itself by the requested duration
// every time After is called, so timed waits complete instantly.
func NewAutoFake(now time.Time) *Fake {
	return &Fake{now: now, auto: true}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.now
}

func (f *Fake) After(d time.Duration) <-chan time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.slept = append(f.slept, d)
	ch := make(chan time.Time, 1)

	if f.auto {
		f.now = f.now.Add(d)
		ch <- f.now

		return ch
	}

	f.waiters = append(f.waiters, fakeWaiter{deadline: f.now.Add(d), ch: ch})

	return ch
}

// Advance moves the clock forward and fires every expired waiter.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.now = f.now.Add(d)

	remaining := f.waiters[:0]

	for _, w := range f.waiters {
		if !f.now.Before(w.deadline) {
			w.ch <- f.now

			continue
		}

		remaining = append(remaining, w)
	}

	f.waiters = remaining
}

// Waits returns every duration passed to After so far.
func (f *Fake) Waits() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]time.Duration(nil), f.slept...)
}
