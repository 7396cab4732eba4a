package core

import (
	"fmt"
	"reflect"

	"github.com/go-drift/fiber/pkg/errors"
)

// Update is a queued state transition.
type Update func(state any) any

// Hook is one call-order-indexed state record of a function fiber.
type Hook struct {
	State   any
	Pending []Update
}

// StateHandle names a hook by component position and call index. Handles
// stay valid across renders for as long as the position stays mounted.
type StateHandle struct {
	Instance InstanceID
	Index    int
}

// SetState enqueues a transition for the hook it was returned with and
// schedules a new render cycle from the committed tree.
type SetState[T any] func(update func(T) T)

// Set enqueues a transition that replaces the state with value.
func (s SetState[T]) Set(value T) {
	s(func(T) T { return value })
}

// BuildContext is handed to a function component while its render step runs.
// It is only usable during that step.
type BuildContext struct {
	engine    *Engine
	fiber     FiberID
	hookIndex int
	active    bool
}

// Props returns the props of the component being rendered.
func (ctx *BuildContext) Props() Props {
	return ctx.current("core.BuildContext.Props").Props
}

// Children returns the element children passed to the component.
func (ctx *BuildContext) Children() []*Element {
	return ctx.current("core.BuildContext.Children").Children
}

// Instance returns the identity of the component position being rendered.
func (ctx *BuildContext) Instance() InstanceID {
	return ctx.current("core.BuildContext.Instance").Instance
}

func (ctx *BuildContext) current(op string) *Fiber {
	if ctx == nil || !ctx.active || ctx.engine == nil || ctx.engine.active != ctx {
		panic(errors.Contract(op, errors.KindHook, "called outside of an active render step"))
	}
	return ctx.engine.arena.get(ctx.fiber)
}

// UseState returns the state stored at this call position and a setter for
// it. On the first render of a position the state is initial; afterwards it
// is the previous render's state with every queued update applied in order.
//
// Hooks are matched purely by call order, so a component must call UseState
// the same number of times, in the same order, on every render.
func UseState[T any](ctx *BuildContext, initial T) (T, SetState[T]) {
	f := ctx.current("core.UseState")
	e := ctx.engine
	index := ctx.hookIndex
	ctx.hookIndex++

	hook := Hook{State: initial}
	if alt, ok := e.alternateHook(f, index); ok {
		hook.State = alt.State
		for _, update := range alt.Pending {
			hook.State = update(hook.State)
		}
	}
	f.Hooks = append(f.Hooks, hook)

	value, ok := hook.State.(T)
	if !ok && hook.State != nil {
		panic(errors.Contract("core.UseState", errors.KindHook,
			"%s: hook %d holds %T, called with %s", f.Kind, index, hook.State, reflect.TypeFor[T]()))
	}

	handle := StateHandle{Instance: f.Instance, Index: index}
	setter := func(update func(T) T) {
		e.EnqueueUpdate(handle, func(state any) any {
			current, _ := state.(T)
			return update(current)
		})
	}
	return value, setter
}

func (e *Engine) alternateHook(f *Fiber, index int) (Hook, bool) {
	if !f.Alternate.Valid() {
		return Hook{}, false
	}
	alt := e.arena.get(f.Alternate)
	if index >= len(alt.Hooks) {
		return Hook{}, false
	}
	return alt.Hooks[index], true
}

// checkHookArity enforces identical hook counts between consecutive renders
// of the same position.
func (e *Engine) checkHookArity(f *Fiber) {
	if !f.Alternate.Valid() {
		return
	}
	alt := e.arena.get(f.Alternate)
	if len(alt.Hooks) != len(f.Hooks) {
		panic(errors.Contract("core.UseState", errors.KindHook,
			"%s called UseState %d times, previous render called it %d times",
			f.Kind, len(f.Hooks), len(alt.Hooks)))
	}
}

func (h StateHandle) String() string {
	return fmt.Sprintf("state(%d:%d)", h.Instance, h.Index)
}
