package testing

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-drift/fiber/pkg/core"
	"github.com/go-drift/fiber/pkg/host"
	"github.com/go-drift/fiber/pkg/host/memhost"
)

const (
	// FrameDuration is how far each Pump advances the fake clock.
	FrameDuration = 16 * time.Millisecond
	// DefaultSliceBudget is the time budget of one Pump when slices are not
	// limited by unit count.
	DefaultSliceBudget = 8 * time.Millisecond
)

// ErrSettleTimeout is returned when PumpAndSettle exceeds its timeout.
var ErrSettleTimeout = errors.New("PumpAndSettle timed out: render work did not settle")

// Tester renders element trees into an in-memory host and drives the engine
// one slice per Pump, on a fake clock.
type Tester struct {
	host       *memhost.Host
	engine     *core.Engine
	clock      *FakeClock
	sliceUnits int
	dispatches []func()
}

// NewTester creates a tester with a fresh host and engine.
// Call Cleanup() when done, or use NewTesterWithT() instead.
func NewTester() *Tester {
	clk := NewFakeClock()
	h := memhost.New()
	return &Tester{
		host:   h,
		engine: core.NewEngine(h, core.Config{Now: clk.Now}),
		clock:  clk,
	}
}

// NewTesterWithT creates a tester that auto-cleans up via t.Cleanup().
// This is the recommended constructor for tests.
func NewTesterWithT(t *testing.T) *Tester {
	tester := NewTester()
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup tears the engine down. Must be called if not using NewTesterWithT.
func (t *Tester) Cleanup() {
	t.engine.Teardown()
}

// SetSliceUnits limits each Pump to n units of work. Zero removes the limit
// and gives each Pump DefaultSliceBudget on the fake clock, which never runs
// out on its own.
func (t *Tester) SetSliceUnits(n int) {
	t.sliceUnits = max(n, 0)
}

// Clock returns the fake clock.
func (t *Tester) Clock() *FakeClock { return t.clock }

// Host returns the in-memory host.
func (t *Tester) Host() *memhost.Host { return t.host }

// Engine returns the engine under test.
func (t *Tester) Engine() *core.Engine { return t.engine }

// Container returns the root output node.
func (t *Tester) Container() *memhost.Node { return t.host.Container() }

// LastCycle returns statistics of the most recent committed cycle.
func (t *Tester) LastCycle() (core.CycleStats, bool) { return t.engine.LastCycle() }

// PumpElement renders el into the container and runs one slice.
func (t *Tester) PumpElement(el *core.Element) error {
	if err := t.engine.Render(el, t.host.Container()); err != nil {
		return err
	}
	return t.Pump()
}

// Pump runs queued dispatches, then one slice of render work, then advances
// the clock by one frame.
func (t *Tester) Pump() error {
	dispatches := t.dispatches
	t.dispatches = nil
	for _, fn := range dispatches {
		fn()
	}

	if t.engine.HasWork() {
		t.engine.RunSlice(t.deadline())
	}
	t.clock.Advance(FrameDuration)
	return nil
}

// PumpAndSettle pumps until no work or dispatches remain, or the fake
// timeout elapses.
func (t *Tester) PumpAndSettle(timeout time.Duration) error {
	var elapsed time.Duration
	for elapsed < timeout {
		if err := t.Pump(); err != nil {
			return err
		}
		if !t.needsWork() {
			return nil
		}
		elapsed += FrameDuration
	}
	return ErrSettleTimeout
}

func (t *Tester) needsWork() bool {
	return t.engine.HasWork() || len(t.dispatches) > 0
}

func (t *Tester) deadline() host.Deadline {
	if t.sliceUnits > 0 {
		return UnitBudget(t.sliceUnits)
	}
	return t.clock.Deadline(DefaultSliceBudget)
}

// Dispatch queues a callback for the next Pump.
func (t *Tester) Dispatch(fn func()) {
	t.dispatches = append(t.dispatches, fn)
}

// Find evaluates a finder against the committed output tree.
func (t *Tester) Find(finder Finder) FinderResult {
	return FinderResult{
		nodes:  finder.Evaluate(t.host.Container()),
		finder: finder,
	}
}

// Tap delivers a click to the first node matched by finder. The event goes
// to the nearest node, starting at the match and walking up, that listens
// for clicks, so tapping a text node reaches its button.
func (t *Tester) Tap(finder Finder) error {
	return t.Fire(finder, "click", nil)
}

// Fire delivers event to the first node matched by finder, walking up to the
// nearest ancestor that listens for it.
func (t *Tester) Fire(finder Finder, event string, data any) error {
	n := t.Find(finder).FirstOrNil()
	if n == nil {
		return fmt.Errorf("fire %s: no node found: %s", event, finder.Description())
	}
	for target := n; target != nil; target = target.Parent {
		if t.host.Dispatch(target, event, data) > 0 {
			return nil
		}
	}
	return fmt.Errorf("fire %s: no listener on %s or its ancestors", event, n)
}
