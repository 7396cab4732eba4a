package testing

import (
	"testing"
	"time"

	"github.com/go-drift/fiber/pkg/core"
	"github.com/go-drift/fiber/pkg/testing/internal/testbed"
)

func TestPumpElement_MountsTree(t *testing.T) {
	tester := NewTesterWithT(t)

	if err := tester.PumpElement(core.H("p", nil, "hello")); err != nil {
		t.Fatal(err)
	}
	if got := tester.Container().TextContent(); got != "hello" {
		t.Errorf("expected %q, got %q", "hello", got)
	}
	if _, ok := tester.LastCycle(); !ok {
		t.Error("expected a committed cycle")
	}
}

func TestPumpElement_Replace(t *testing.T) {
	tester := NewTesterWithT(t)

	tester.PumpElement(core.H("p", nil, "first"))
	first := tester.Find(ByTag("p")).First()

	tester.PumpElement(core.H("p", nil, "second"))
	second := tester.Find(ByTag("p")).First()

	if first != second {
		t.Error("expected the same node to be reused for the same tag")
	}
	if second.TextContent() != "second" {
		t.Errorf("expected updated text, got %q", second.TextContent())
	}
}

func TestSetSliceUnits_SplitsCycle(t *testing.T) {
	tester := NewTesterWithT(t)
	tester.SetSliceUnits(1)

	tester.PumpElement(core.H("ul", nil,
		core.H("li", nil, "a"),
		core.H("li", nil, "b"),
	))
	if len(tester.Container().Children) != 0 {
		t.Fatal("nothing should be attached before the cycle completes")
	}

	if err := tester.PumpAndSettle(time.Second); err != nil {
		t.Fatal(err)
	}
	stats, _ := tester.LastCycle()
	if stats.Slices != 6 {
		t.Errorf("expected 6 slices, got %d", stats.Slices)
	}
	if got := tester.Container().TextContent(); got != "ab" {
		t.Errorf("expected %q, got %q", "ab", got)
	}
}

func TestPumpAndSettle_Static(t *testing.T) {
	tester := NewTesterWithT(t)
	tester.PumpElement(core.H("p", nil, "static"))

	if err := tester.PumpAndSettle(time.Second); err != nil {
		t.Errorf("expected settle for static tree, got: %v", err)
	}
}

func TestPumpAndSettle_Timeout(t *testing.T) {
	tester := NewTesterWithT(t)
	tester.SetSliceUnits(1)
	tester.PumpElement(core.H("div", nil, core.H("p", nil, "x"), core.H("p", nil, "y")))

	if err := tester.PumpAndSettle(FrameDuration); err != ErrSettleTimeout {
		t.Errorf("expected ErrSettleTimeout, got %v", err)
	}
}

func TestDispatch(t *testing.T) {
	tester := NewTesterWithT(t)
	tester.PumpElement(core.H("p", nil, "test"))

	called := false
	tester.Dispatch(func() { called = true })

	if called {
		t.Error("dispatch should not run until Pump")
	}

	tester.Pump()

	if !called {
		t.Error("dispatch should have run after Pump")
	}
}

func TestTap_ReachesListenerThroughText(t *testing.T) {
	tester := NewTesterWithT(t)
	var reported []int
	tester.PumpElement(core.C(testbed.Counter, core.Props{
		"initial": 4,
		"report":  func(n int) { reported = append(reported, n) },
	}))

	if err := tester.Tap(ByText("4")); err != nil {
		t.Fatal(err)
	}
	tester.PumpAndSettle(time.Second)
	if err := tester.Tap(ByTag("button")); err != nil {
		t.Fatal(err)
	}
	tester.PumpAndSettle(time.Second)

	if !tester.Find(ByText("6")).Exists() {
		t.Errorf("expected count 6, got %q", tester.Container().TextContent())
	}
	if len(reported) != 2 || reported[0] != 5 || reported[1] != 6 {
		t.Errorf("expected reports [5 6], got %v", reported)
	}
}

func TestTap_Errors(t *testing.T) {
	tester := NewTesterWithT(t)
	tester.PumpElement(core.H("p", nil, "inert"))

	if err := tester.Tap(ByText("missing")); err == nil {
		t.Error("expected error for missing node")
	}
	if err := tester.Tap(ByText("inert")); err == nil {
		t.Error("expected error when nothing listens")
	}
}

func TestCycleStatsUseFakeClock(t *testing.T) {
	tester := NewTesterWithT(t)
	tester.PumpElement(core.H("p", nil, "timed"))

	stats, _ := tester.LastCycle()
	if !stats.Started.Equal(NewFakeClock().Now()) {
		t.Errorf("expected cycle to start at the fake epoch, got %v", stats.Started)
	}
}
