package treasury

import (
	"sync"
	"time"
)

// Clock supplies the current time to the engine. It must be monotonic
// non-decreasing; the claim arithmetic defends against violations by
// flooring at zero rather than underflowing, but a well-behaved clock
// is still expected.
type Clock interface {
	Now() uint64
}

// SystemClock reads the host wall clock in whole seconds.
type SystemClock struct{}

// Now returns the current unix time in seconds.
func (SystemClock) Now() uint64 { return uint64(time.Now().Unix()) }

// ManualClock is a settable clock for tests and block-driven hosts.
type ManualClock struct {
	mu  sync.Mutex
	now uint64
}

// NewManualClock creates a manual clock starting at now.
func NewManualClock(now uint64) *ManualClock {
	return &ManualClock{now: now}
}

// Now returns the clock's current value.
func (c *ManualClock) Now() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to now.
func (c *ManualClock) Set(now uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += d
}
