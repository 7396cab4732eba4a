package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/go-drift/fiber/pkg/core"
	"github.com/go-drift/fiber/pkg/errors"
	"github.com/go-drift/fiber/pkg/host"
	"github.com/go-drift/fiber/pkg/host/memhost"
)

var oneUnit = host.DeadlineFunc(func() time.Duration { return 0 })

func sampleTree() *core.Element {
	return core.H("div", nil,
		core.H("p", nil, "one"),
		core.H("p", nil, "two"),
	)
}

func TestIdleLoop_RearmsUntilStopped(t *testing.T) {
	h := memhost.New()
	e := core.NewEngine(h, core.Config{})
	defer e.Teardown()
	require.NoError(t, e.Render(sampleTree(), h.Container()))

	loop := NewIdleLoop(e, h)
	loop.Start()
	loop.Start()
	require.Equal(t, 1, h.PendingIdle(), "Start is idempotent")

	for i := 0; i < 20 && e.HasWork(); i++ {
		h.RunIdle(oneUnit)
	}
	require.False(t, e.HasWork())
	require.Equal(t, "onetwo", h.Container().TextContent())
	require.Equal(t, uint64(6), loop.Slices())

	// Idle slots keep coming even with nothing to do.
	h.RunIdle(oneUnit)
	require.Equal(t, 1, h.PendingIdle())

	loop.Stop()
	require.False(t, loop.Running())
	h.RunIdle(oneUnit)
	require.Zero(t, h.PendingIdle())
	require.Equal(t, uint64(7), loop.Slices())
}

func TestIdleLoop_RestartAfterStop(t *testing.T) {
	h := memhost.New()
	e := core.NewEngine(h, core.Config{})
	defer e.Teardown()

	loop := NewIdleLoop(e, h)
	loop.Start()
	loop.Stop()
	loop.Start()
	require.Equal(t, 1, h.PendingIdle(), "pending slot is reused")

	require.NoError(t, e.Render(sampleTree(), h.Container()))
	h.RunIdle(host.Unlimited)
	require.Equal(t, "onetwo", h.Container().TextContent())
}

func TestDrain(t *testing.T) {
	h := memhost.New()
	e := core.NewEngine(h, core.Config{})
	defer e.Teardown()
	require.NoError(t, e.Render(sampleTree(), h.Container()))

	n, err := Drain(e, func() host.Deadline { return oneUnit }, 3)
	require.ErrorIs(t, err, errors.ErrNotSettled)
	require.Equal(t, 3, n)

	n, err = Drain(e, func() host.Deadline { return oneUnit }, 0)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, "onetwo", h.Container().TextContent())
}

func startRunner(t *testing.T, opts RunnerOptions) (*Runner, *memhost.Host, context.CancelFunc) {
	t.Helper()
	h := memhost.New()
	r := NewRunner(core.NewEngine(h, core.Config{}), opts)
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = r.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-r.Done()
	})
	return r, h, cancel
}

func TestRunner_DispatchRendersAndReportsCommits(t *testing.T) {
	commits := make(chan core.CycleStats, 4)
	r, h, cancel := startRunner(t, RunnerOptions{
		Interval: time.Millisecond,
		OnCommit: func(s core.CycleStats) { commits <- s },
	})

	r.Dispatch(func() {
		if err := r.Engine().Render(sampleTree(), h.Container()); err != nil {
			t.Error(err)
		}
	})

	select {
	case s := <-commits:
		require.Equal(t, uint64(1), s.Seq)
		require.Equal(t, 5, s.Creates)
	case <-time.After(2 * time.Second):
		t.Fatal("no commit reported")
	}

	var text string
	require.NoError(t, r.Query(context.Background(), func(*core.Engine) {
		text = h.Container().TextContent()
	}))
	require.Equal(t, "onetwo", text)

	cancel()
	<-r.Done()
	require.ErrorIs(t, r.Run(context.Background()), errors.ErrStopped)
	require.ErrorIs(t, r.Query(context.Background(), func(*core.Engine) {}), errors.ErrStopped)
}

type panicRecorder struct{ panics chan *errors.PanicError }

func (p panicRecorder) HandleError(*errors.EngineError)     {}
func (p panicRecorder) HandleBuildError(*errors.BuildError) {}
func (p panicRecorder) HandlePanic(err *errors.PanicError)  { p.panics <- err }

func TestRunner_RecoversDispatchPanics(t *testing.T) {
	rec := panicRecorder{panics: make(chan *errors.PanicError, 1)}
	errors.SetHandler(rec)
	defer errors.SetHandler(nil)

	r, _, _ := startRunner(t, RunnerOptions{Interval: time.Millisecond})
	r.Dispatch(func() { panic("bad callback") })

	select {
	case p := <-rec.panics:
		require.Equal(t, "engine.Runner", p.Op)
		require.Equal(t, "bad callback", p.Value)
	case <-time.After(2 * time.Second):
		t.Fatal("panic not reported")
	}
	require.NoError(t, r.Query(context.Background(), func(*core.Engine) {}), "loop survives")
}

func TestDebugServer_Endpoints(t *testing.T) {
	commits := make(chan core.CycleStats, 4)
	r, h, _ := startRunner(t, RunnerOptions{
		Interval: time.Millisecond,
		OnCommit: func(s core.CycleStats) { commits <- s },
	})

	srv := NewDebugServer(r, func() any { return h.Container().Snapshot() })
	port, err := srv.Start(0)
	require.NoError(t, err)
	defer srv.Stop()
	base := fmt.Sprintf("http://127.0.0.1:%d", port)

	resp, err := http.Get(base + "/tree")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, "nothing committed yet")

	r.Dispatch(func() {
		_ = r.Engine().Render(sampleTree(), h.Container())
	})
	select {
	case <-commits:
	case <-time.After(2 * time.Second):
		t.Fatal("no commit")
	}

	resp, err = http.Get(base + "/tree")
	require.NoError(t, err)
	var tree struct {
		Fibers core.FiberInfo       `json:"fibers"`
		Output memhost.NodeSnapshot `json:"output"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tree))
	resp.Body.Close()
	require.Equal(t, "#root", tree.Fibers.Kind)
	require.Equal(t, "div", tree.Fibers.Children[0].Kind)
	require.Equal(t, "div", tree.Output.Children[0].Tag)

	resp, err = http.Get(base + "/cycles")
	require.NoError(t, err)
	var tl core.CycleTimeline
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tl))
	resp.Body.Close()
	require.Len(t, tl.Cycles, 1)
	require.Equal(t, uint64(1), tl.TotalCommits)

	resp, err = http.Get(base + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	again, err := srv.Start(0)
	require.NoError(t, err)
	require.Equal(t, port, again, "Start on a running server returns its port")

	// Values JSON cannot encode are reported by type.
	reporter := core.NewComponent("Reporter", func(ctx *core.BuildContext, props core.Props) *core.Element {
		core.UseState(ctx, func() {})
		core.UseState(ctx, complex(1, 2))
		return core.H("span", nil, "ok")
	})
	r.Dispatch(func() {
		_ = r.Engine().Render(core.H("div", nil,
			core.C(reporter, core.Props{"report": func(int) {}, "label": "x"}),
		), h.Container())
	})
	select {
	case <-commits:
	case <-time.After(2 * time.Second):
		t.Fatal("no commit")
	}

	resp, err = http.Get(base + "/tree")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fibers struct {
		Fibers core.FiberInfo `json:"fibers"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&fibers))
	resp.Body.Close()
	fn := fibers.Fibers.Children[0].Children[0]
	require.Equal(t, "Reporter", fn.Kind)
	require.Equal(t, "func(int)", fn.Props["report"])
	require.Equal(t, "x", fn.Props["label"])
	require.Equal(t, []any{"func()", "complex128"}, fn.Hooks)
}

type panickyScheduler struct{ calls int }

func (s *panickyScheduler) RunSlice(host.Deadline) bool {
	s.calls++
	panic("host exploded")
}

func TestIdleLoop_RecoversSlicePanics(t *testing.T) {
	rec := panicRecorder{panics: make(chan *errors.PanicError, 2)}
	errors.SetHandler(rec)
	defer errors.SetHandler(nil)

	h := memhost.New()
	s := &panickyScheduler{}
	loop := NewIdleLoop(s, h)
	loop.Start()

	h.RunIdle(oneUnit)
	h.RunIdle(oneUnit)

	require.Equal(t, 2, s.calls)
	require.Equal(t, uint64(2), loop.Panics())
	require.Equal(t, 1, h.PendingIdle(), "loop re-arms after a panic")
	p := <-rec.panics
	require.Equal(t, "engine.IdleLoop", p.Op)
}
