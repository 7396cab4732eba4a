package apps_test

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/go-drift/fiber/pkg/apps"
	"github.com/go-drift/fiber/pkg/core"
	"github.com/go-drift/fiber/pkg/host/memhost"
	fibertest "github.com/go-drift/fiber/pkg/testing"
)

func settle(t *testing.T, tester *fibertest.Tester) {
	t.Helper()
	require.NoError(t, tester.PumpAndSettle(time.Second))
}

func byID(id string) fibertest.Finder { return fibertest.ByAttr("id", id) }

func TestCounter_ClicksTouchOnlyTheCount(t *testing.T) {
	tester := fibertest.NewTesterWithT(t)
	require.NoError(t, tester.PumpElement(core.C(apps.Counter, core.Props{"label": "Clicks", "step": 2})))
	settle(t, tester)
	require.Equal(t, "Clicks: 0", tester.Find(fibertest.ByTag("p")).Text())

	count := tester.Find(fibertest.ByText("0")).First()
	tester.Host().ResetOps()

	require.NoError(t, tester.Tap(byID(apps.IncrementID)))
	settle(t, tester)
	require.NoError(t, tester.Tap(fibertest.ByText("+")))
	settle(t, tester)

	require.Equal(t, "Clicks: 4", tester.Find(fibertest.ByTag("p")).Text())
	require.Equal(t, []string{
		"text #" + strconv.Itoa(count.ID) + ` "2"`,
		"text #" + strconv.Itoa(count.ID) + ` "4"`,
	}, tester.Host().OpStrings())
}

func TestCounter_StepChangeReachesStableListener(t *testing.T) {
	tester := fibertest.NewTesterWithT(t)
	tester.PumpElement(core.C(apps.Counter, nil))
	settle(t, tester)

	tester.PumpElement(core.C(apps.Counter, core.Props{"step": 5}))
	settle(t, tester)
	require.NoError(t, tester.Tap(byID(apps.DecrementID)))
	settle(t, tester)

	require.Equal(t, "Count: -5", tester.Find(fibertest.ByTag("p")).Text())
}

func TestCounter_ReportsEveryChange(t *testing.T) {
	var deltas []int
	report := func(d int) { deltas = append(deltas, d) }
	tester := fibertest.NewTesterWithT(t)
	require.NoError(t, tester.PumpElement(core.C(apps.Counter, core.Props{"step": 3, "report": report})))
	settle(t, tester)

	require.NoError(t, tester.Tap(byID(apps.IncrementID)))
	require.NoError(t, tester.Tap(byID(apps.IncrementID)))
	require.NoError(t, tester.Tap(byID(apps.DecrementID)))
	settle(t, tester)

	require.Equal(t, []int{3, 3, -3}, deltas)
	require.Equal(t, "Count: 3", tester.Find(fibertest.ByTag("p")).Text())
}

func TestTodoList_AddToggleClear(t *testing.T) {
	tester := fibertest.NewTesterWithT(t)
	tester.PumpElement(core.C(apps.TodoList, core.Props{"items": []string{"a", "b"}}))
	settle(t, tester)
	require.Equal(t, 2, tester.Find(fibertest.ByTag("li")).Count())
	require.Equal(t, "2 left", tester.Find(fibertest.ByAttr("class", "summary")).Text())

	require.NoError(t, tester.Fire(byID(apps.NewTodoID), "submit", "  c  "))
	settle(t, tester)
	require.NoError(t, tester.Fire(byID(apps.NewTodoID), "submit", "   "))
	settle(t, tester)
	require.Equal(t, "[ ] c", tester.Find(byID(apps.TodoItemID(2))).Text())

	require.NoError(t, tester.Tap(fibertest.ByText("a")))
	settle(t, tester)
	done := tester.Find(fibertest.ByAttr("class", "done"))
	require.Equal(t, 1, done.Count())
	require.Equal(t, "[x] a", done.Text())
	require.Equal(t, "2 left", tester.Find(fibertest.ByAttr("class", "summary")).Text())

	require.NoError(t, tester.Tap(byID(apps.ClearDoneID)))
	settle(t, tester)
	var texts []string
	for _, li := range tester.Find(fibertest.ByTag("li")).All() {
		texts = append(texts, li.TextContent())
	}
	require.Equal(t, []string{"[ ] b", "[ ] c"}, texts)
	require.False(t, tester.Find(fibertest.ByAttr("class", "done")).Exists())
}

func TestPage_SnapshotAcrossSlices(t *testing.T) {
	whole := fibertest.NewTesterWithT(t)
	whole.PumpElement(core.C(apps.Page, nil))
	settle(t, whole)

	sliced := fibertest.NewTesterWithT(t)
	sliced.SetSliceUnits(1)
	sliced.PumpElement(core.C(apps.Page, nil))
	settle(t, sliced)

	require.Empty(t, whole.CaptureSnapshot().Diff(sliced.CaptureSnapshot()))
	stats, _ := sliced.LastCycle()
	require.Equal(t, stats.Units, stats.Slices)
	require.Greater(t, stats.Slices, 1)
}

func TestPage_CounterAndTodosAreIndependent(t *testing.T) {
	tester := fibertest.NewTesterWithT(t)
	tester.PumpElement(core.C(apps.Page, core.Props{"title": "demo"}))
	settle(t, tester)

	tester.Tap(byID(apps.IncrementID))
	tester.Tap(byID(apps.TodoItemID(1)))
	settle(t, tester)

	require.Equal(t, "Clicks: 1", tester.Find(fibertest.ByAttr("class", "count")).Text())
	require.Equal(t, "1 left", tester.Find(fibertest.ByAttr("class", "summary")).Text())
	require.True(t, tester.Find(fibertest.Descendant(
		fibertest.ByTag("main"),
		fibertest.ByPredicate(func(n *memhost.Node) bool { return n.Tag == "h1" && n.TextContent() == "demo" }),
	)).Exists())
}
