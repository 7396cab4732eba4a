package termview

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/go-drift/fiber/pkg/apps"
	"github.com/go-drift/fiber/pkg/core"
	fibertest "github.com/go-drift/fiber/pkg/testing"
)

func pumpPage(t *testing.T) *fibertest.Tester {
	t.Helper()
	tester := fibertest.NewTesterWithT(t)
	tester.PumpElement(core.C(apps.Page, nil))
	if err := tester.PumpAndSettle(time.Second); err != nil {
		t.Fatal(err)
	}
	return tester
}

func TestRender_Plain(t *testing.T) {
	tester := pumpPage(t)

	got := New(PlainStyles()).Render(tester.Container())
	want := strings.Join([]string{
		"fiber",
		"  Clicks: 0",
		"  - +",
		"Todo",
		"> _",
		"  - [ ] read the docs",
		"  - [ ] write a component",
		"2 left",
		"clear done",
	}, "\n")
	if got != want {
		t.Errorf("unexpected render:\n%s\nwant:\n%s", got, want)
	}
}

func TestRender_FollowsCommits(t *testing.T) {
	tester := pumpPage(t)
	tester.Tap(fibertest.ByAttr("id", apps.IncrementID))
	tester.Fire(fibertest.ByAttr("id", apps.NewTodoID), "submit", "ship it")
	tester.PumpAndSettle(time.Second)

	r := New(PlainStyles())
	r.Draft = "next"
	got := r.Render(tester.Container())
	for _, want := range []string{"Clicks: 1", "- [ ] ship it", "3 left", "> next_"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in:\n%s", want, got)
		}
	}
}

func TestRender_Styled(t *testing.T) {
	lipgloss.SetColorProfile(termenv.TrueColor)
	defer lipgloss.SetColorProfile(termenv.Ascii)

	tester := pumpPage(t)
	tester.Tap(fibertest.ByAttr("id", apps.TodoItemID(0)))
	tester.PumpAndSettle(time.Second)

	r := New(DefaultStyles())
	plain := r.Render(tester.Container())
	if !strings.Contains(plain, "\x1b[") {
		t.Fatalf("expected ANSI escapes, got:\n%s", plain)
	}

	r.Focus = tester.Find(fibertest.ByAttr("id", apps.IncrementID)).First()
	if focused := r.Render(tester.Container()); focused == plain {
		t.Error("focus should change the output")
	}
}

func TestRender_Nil(t *testing.T) {
	if got := New(PlainStyles()).Render(nil); got != "" {
		t.Errorf("expected empty render, got %q", got)
	}
}
