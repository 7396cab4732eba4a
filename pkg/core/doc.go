// Package core provides the element model, fiber tree, hooks and the
// interruptible render loop.
//
// Rendering follows a declarative model: components describe what the output
// tree should look like as a tree of immutable Elements, and the Engine
// computes and applies the host mutations that bring the real tree in line.
//
// # Elements
//
// Elements are built fresh on every render with CreateElement or its
// shorthands:
//
//	core.H("div", core.Props{"class": "row"},
//	    core.H("span", nil, "label"),
//	    core.C(Counter, core.Props{"start": 1}),
//	)
//
// Scalar children become text elements. Function values under "on"-prefixed
// props become event listeners.
//
// # Function Components and State
//
// A function component is a RenderFunc wrapped in a Component. It may call
// UseState to keep state between renders:
//
//	var Counter = core.NewComponent("Counter", func(ctx *core.BuildContext, props core.Props) *core.Element {
//	    count, setCount := core.UseState(ctx, 0)
//	    return core.H("button", core.Props{
//	        "onClick": func() { setCount(func(c int) int { return c + 1 }) },
//	    }, count)
//	})
//
// Hooks are matched by call order. Calling UseState a different number of
// times between renders of the same position panics with a contract error.
//
// # Render Cycles
//
// Render and state updates start a cycle. The cycle is built one fiber at a
// time by RunSlice, which yields when the host's Deadline runs low, and is
// committed to the host in a single uninterrupted pass once every fiber has
// been visited. An update arriving mid-cycle discards the partial work and
// restarts from the committed tree. The Engine never schedules itself; see
// the engine package for drivers.
//
// Reconciliation is positional. Children are matched by index and kind, so a
// reordered list is torn down and rebuilt rather than moved.
package core
