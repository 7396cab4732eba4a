package core

import (
	"slices"
	"time"

	"github.com/go-drift/fiber/pkg/errors"
	"github.com/go-drift/fiber/pkg/host"
)

// RunSlice performs units of work until the deadline drops below the yield
// threshold or the cycle is complete. A complete cycle is committed before
// RunSlice returns. At least one unit runs per call when work is pending.
func (e *Engine) RunSlice(d host.Deadline) bool {
	if e.tornDown {
		return false
	}
	if e.next.Valid() {
		e.cycle.Slices++
	}
	shouldYield := false
	for e.next.Valid() && !shouldYield {
		e.next = e.performUnitOfWork(e.next)
		e.cycle.Units++
		if e.restartPending {
			e.restartPending = false
			e.ScheduleRoot()
		}
		shouldYield = d.TimeRemaining() < e.cfg.YieldThreshold
	}
	if !e.next.Valid() && e.wipRoot.Valid() {
		e.commitRoot()
	}
	return e.HasWork()
}

// performUnitOfWork renders one fiber and returns the next one to visit:
// its first child, else the sibling of the nearest ancestor that has one.
func (e *Engine) performUnitOfWork(id FiberID) FiberID {
	e.inUnit = true
	defer func() { e.inUnit = false }()

	f := e.arena.get(id)
	switch f.Kind.class {
	case ClassFunction:
		e.updateFunctionFiber(id, f)
	case ClassHost, ClassText:
		e.updateHostFiber(id, f)
	default:
		panic(errors.Contract("core.performUnitOfWork", errors.KindContract, "fiber with invalid kind %v", f.Kind))
	}

	if f.Child.Valid() {
		return f.Child
	}
	for cur := id; cur.Valid(); {
		cf := e.arena.get(cur)
		if cf.Sibling.Valid() {
			return cf.Sibling
		}
		cur = cf.Parent
	}
	return NoFiber
}

func (e *Engine) updateFunctionFiber(id FiberID, f *Fiber) {
	ctx := &BuildContext{engine: e, fiber: id, active: true}
	e.active = ctx
	f.Hooks = nil

	child, ok := func() (*Element, bool) {
		defer func() {
			ctx.active = false
			e.active = nil
		}()
		return e.safeRender(ctx, f)
	}()

	f.failed = !ok
	if ok {
		e.checkHookArity(f)
	} else {
		e.carryHooks(f)
	}

	var children []*Element
	if child != nil {
		children = []*Element{child}
	}
	e.reconcileChildren(id, children)
}

// safeRender runs the component body with panic recovery. A panicking body
// is reported and renders nothing. Contract violations propagate.
func (e *Engine) safeRender(ctx *BuildContext, f *Fiber) (child *Element, ok bool) {
	comp := f.Kind.component
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if errors.IsContract(r) {
			panic(r)
		}
		errors.ReportBuildError(&errors.BuildError{
			Component:  f.Kind.String(),
			Recovered:  r,
			StackTrace: errors.CaptureStack(),
			Timestamp:  time.Now(),
		})
		child, ok = nil, false
	}()
	if comp == nil || comp.Render == nil {
		return nil, true
	}
	return comp.Render(ctx, f.Props), true
}

// carryHooks keeps the previous render's hooks, queues included, when a
// render failed part way through.
func (e *Engine) carryHooks(f *Fiber) {
	f.Hooks = nil
	if !f.Alternate.Valid() {
		return
	}
	alt := e.arena.get(f.Alternate)
	f.Hooks = make([]Hook, len(alt.Hooks))
	for i, h := range alt.Hooks {
		f.Hooks[i] = Hook{State: h.State, Pending: slices.Clone(h.Pending)}
	}
}

func (e *Engine) updateHostFiber(id FiberID, f *Fiber) {
	if f.Node == nil {
		f.Node = e.host.CreateNode(f.Kind.tag, f.Kind.class == ClassText)
	}
	e.reconcileChildren(id, f.Children)
}
