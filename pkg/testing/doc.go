// Package testing provides a test harness for components rendered by the
// fiber engine.
//
// # Quick Start
//
// Create a tester, pump an element tree, and make assertions against the
// in-memory output tree:
//
//	func TestCounter(t *testing.T) {
//	    tester := fibertest.NewTesterWithT(t)
//	    tester.PumpElement(core.C(apps.Counter, nil))
//	    tester.PumpAndSettle(time.Second)
//
//	    tester.Tap(fibertest.ByText("+"))
//	    tester.PumpAndSettle(time.Second)
//
//	    if !tester.Find(fibertest.ByText("1")).Exists() {
//	        t.Error("expected count 1")
//	    }
//	}
//
// # Interruptible Rendering
//
// SetSliceUnits limits how many units of work each Pump performs, which
// splits a render cycle across many pumps the way a busy host would:
//
//	tester.SetSliceUnits(1)
//
// # Snapshot Testing
//
// Capture and compare output tree snapshots:
//
//	tester.CaptureSnapshot().MatchesFile(t, "testdata/counter.snapshot.json")
//
// Update snapshots with:
//
//	FIBER_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import fibertest "github.com/go-drift/fiber/pkg/testing"
package testing
