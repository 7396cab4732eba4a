package core

import (
	"time"

	"go.uber.org/zap"

	"github.com/go-drift/fiber/pkg/errors"
	"github.com/go-drift/fiber/pkg/host"
)

const defaultYieldThreshold = time.Millisecond

// Config tunes an Engine. The zero value is usable.
type Config struct {
	// YieldThreshold is the remaining slice time below which the work loop
	// hands control back to the host. Defaults to 1ms.
	YieldThreshold time.Duration
	// TraceCapacity is the number of committed cycles kept in the trace
	// buffer. Defaults to 120.
	TraceCapacity int
	// Logger overrides the package logger.
	Logger *zap.Logger
	// Now is the time source used for cycle statistics. Defaults to time.Now.
	Now func() time.Time
}

// DefaultConfig returns the configuration used for zero fields.
func DefaultConfig() Config {
	return Config{
		YieldThreshold: defaultYieldThreshold,
		TraceCapacity:  defaultTraceCapacity,
		Now:            time.Now,
	}
}

func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.YieldThreshold <= 0 {
		c.YieldThreshold = def.YieldThreshold
	}
	if c.TraceCapacity <= 0 {
		c.TraceCapacity = def.TraceCapacity
	}
	if c.Now == nil {
		c.Now = def.Now
	}
	if c.Logger == nil {
		c.Logger = Logger()
	}
	return c
}

// Scheduler runs the engine for one time slice.
type Scheduler interface {
	// RunSlice performs units of work until d runs out or no work is left,
	// committing a finished cycle before it returns. It reports whether
	// work remains.
	RunSlice(d host.Deadline) bool
}

// Engine owns all render-cycle state for one output tree: the committed and
// work-in-progress fiber trees, the scheduling cursor, the deletion list and
// the hook cursor.
//
// Engine is NOT safe for concurrent use. Every method, and every setter
// returned by UseState, must be called from the goroutine that drives
// RunSlice. engine.Runner provides a goroutine-safe boundary.
type Engine struct {
	host     host.Host
	inserter host.Inserter
	cfg      Config
	log      *zap.Logger

	arena       arena
	currentRoot FiberID
	wipRoot     FiberID
	next        FiberID
	deletions   []FiberID

	active         *BuildContext
	inUnit         bool
	restartPending bool

	instances    map[InstanceID]FiberID
	lastInstance InstanceID

	seq   uint64
	cycle CycleStats
	trace *CycleTraceBuffer

	tornDown bool
}

var _ Scheduler = (*Engine)(nil)

// NewEngine creates an engine that renders through h.
func NewEngine(h host.Host, cfg Config) *Engine {
	cfg = cfg.normalized()
	e := &Engine{
		host:      h,
		cfg:       cfg,
		log:       cfg.Logger,
		instances: make(map[InstanceID]FiberID),
		trace:     NewCycleTraceBuffer(cfg.TraceCapacity),
	}
	if ins, ok := h.(host.Inserter); ok {
		e.inserter = ins
	}
	return e
}

// Render starts a render cycle that reconciles root into container. If the
// last committed tree was rendered into the same container, it is diffed
// against; otherwise the new tree is built from scratch.
func (e *Engine) Render(root *Element, container host.Node) error {
	if e.tornDown {
		return errors.ErrTornDown
	}
	if container == nil {
		panic(errors.Contract("core.Render", errors.KindContract, "nil container"))
	}
	alternate := NoFiber
	if e.currentRoot.Valid() {
		if cur := e.arena.get(e.currentRoot); sameValue(cur.Node, container) {
			alternate = e.currentRoot
		}
	}
	var children []*Element
	if root != nil {
		children = []*Element{root}
	}
	e.beginCycle(container, children, alternate)
	return nil
}

// ScheduleRoot starts a new cycle against the last committed tree, discarding
// any partial work. The element tree of a cycle in flight is kept, so a state
// update never loses a pending Render. Called from inside a unit of work, the
// restart is deferred until the unit returns. It reports whether a cycle was
// scheduled.
func (e *Engine) ScheduleRoot() bool {
	if e.tornDown || !e.currentRoot.Valid() && !e.wipRoot.Valid() {
		return false
	}
	if e.inUnit {
		e.restartPending = true
		return true
	}
	root := e.currentRoot
	if e.wipRoot.Valid() {
		root = e.wipRoot
	}
	f := e.arena.get(root)
	alternate := f.Alternate
	if root == e.currentRoot {
		alternate = e.currentRoot
	}
	e.beginCycle(f.Node, f.Children, alternate)
	return true
}

// EnqueueUpdate appends u to the pending queue of the committed hook named by
// h and schedules a new cycle. Updates for positions that are no longer
// mounted, or whose last render failed before reaching the hook, are dropped.
func (e *Engine) EnqueueUpdate(h StateHandle, u Update) {
	if e.tornDown {
		errors.Report(&errors.EngineError{Op: "core.EnqueueUpdate", Kind: errors.KindHook, Err: errors.ErrTornDown})
		return
	}
	id, ok := e.instances[h.Instance]
	if !ok {
		e.log.Warn("dropping state update for unmounted component", zap.Stringer("handle", h))
		return
	}
	f := e.arena.get(id)
	if f.failed && h.Index >= len(f.Hooks) {
		e.log.Warn("dropping state update for component whose render failed", zap.Stringer("handle", h))
		return
	}
	if h.Index < 0 || h.Index >= len(f.Hooks) {
		panic(errors.Contract("core.EnqueueUpdate", errors.KindHook,
			"%s has %d hooks, update targets hook %d", f.Kind, len(f.Hooks), h.Index))
	}
	f.Hooks[h.Index].Pending = append(f.Hooks[h.Index].Pending, u)
	e.ScheduleRoot()
}

// HasWork reports whether a cycle is in flight.
func (e *Engine) HasWork() bool {
	return e.next.Valid() || e.wipRoot.Valid()
}

// Trace returns the buffer of committed cycle statistics.
func (e *Engine) Trace() *CycleTraceBuffer {
	return e.trace
}

// LastCycle returns the statistics of the most recent commit.
func (e *Engine) LastCycle() (CycleStats, bool) {
	return e.trace.Last()
}

// Teardown releases all render-cycle state. The output tree is left as it is.
// Further calls to Render return errors.ErrTornDown and RunSlice does nothing.
func (e *Engine) Teardown() {
	if e.tornDown {
		return
	}
	e.tornDown = true
	e.currentRoot, e.wipRoot, e.next = NoFiber, NoFiber, NoFiber
	e.deletions = nil
	e.active = nil
	e.restartPending = false
	clear(e.instances)
	e.arena = arena{}
	e.log.Debug("engine torn down", zap.Uint64("cycles", e.seq))
}

func (e *Engine) beginCycle(container host.Node, children []*Element, alternate FiberID) {
	restarted := e.wipRoot.Valid()
	e.arena.resetWIP()
	e.wipRoot = e.arena.alloc(Fiber{
		Kind:      rootKind,
		Node:      container,
		Children:  children,
		Alternate: alternate,
	})
	e.next = e.wipRoot
	e.deletions = e.deletions[:0]

	if restarted {
		e.cycle.Restarts++
		e.log.Debug("render cycle restarted", zap.Int("restarts", e.cycle.Restarts))
		return
	}
	e.cycle = CycleStats{Seq: e.seq + 1, Started: e.cfg.Now()}
	e.log.Debug("render cycle started", zap.Uint64("seq", e.cycle.Seq))
}
