package testing

import (
	"sync"
	"time"

	"github.com/go-drift/fiber/pkg/host"
)

// FakeClock provides controllable time for deterministic cycle statistics
// and slice budgets. All methods are safe for concurrent use.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeClock returns a FakeClock starting at a fixed epoch.
func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Deadline returns a deadline of budget measured on this clock. It only runs
// out when the clock is advanced.
func (c *FakeClock) Deadline(budget time.Duration) host.Deadline {
	return host.Budget(c.Now, budget)
}

// UnitBudget returns a deadline that lets exactly n units of work run before
// the work loop yields. n < 1 is treated as 1.
func UnitBudget(n int) host.Deadline {
	left := max(n, 1)
	return host.DeadlineFunc(func() time.Duration {
		left--
		if left > 0 {
			return time.Hour
		}
		return 0
	})
}
