// Package testbed provides internal test components for the testing framework.
package testbed

import (
	"github.com/go-drift/fiber/pkg/core"
	"github.com/go-drift/fiber/pkg/host"
)

// Counter displays a count inside a button and increments on click.
//
// Props:
//
//	initial  int            starting count
//	report   func(int)      called with the new count after each click
var Counter = core.NewComponent("Counter", func(ctx *core.BuildContext, props core.Props) *core.Element {
	initial, _ := props["initial"].(int)
	report, _ := props["report"].(func(int))
	count, setCount := core.UseState(ctx, initial)

	return core.H("button", core.Props{
		"class": "counter",
		"onClick": host.NewListener(func(host.Event) {
			setCount(func(c int) int { return c + 1 })
			if report != nil {
				report(count + 1)
			}
		}),
	}, count)
})

// Labeled wraps a Counter with a heading, giving finders something to
// search between.
var Labeled = core.NewComponent("Labeled", func(ctx *core.BuildContext, props core.Props) *core.Element {
	label, _ := props["label"].(string)
	return core.H("section", nil,
		core.H("h2", nil, label),
		core.C(Counter, core.Props{"initial": props["initial"]}),
	)
})
