package apps

import (
	"github.com/go-drift/fiber/pkg/core"
	"github.com/go-drift/fiber/pkg/host"
)

// Counter IDs used to address its buttons from outside the tree.
const (
	IncrementID = "inc"
	DecrementID = "dec"
)

type counterRef struct {
	step   int
	report func(delta int)
}

// Counter shows a labeled count with buttons to change it.
//
// Props: "label" (string, default "Count"), "step" (int, default 1) and
// "report" (func(delta int)), called with every change a button makes.
var Counter = core.NewComponent("Counter", func(ctx *core.BuildContext, props core.Props) *core.Element {
	label, ok := props["label"].(string)
	if !ok {
		label = "Count"
	}
	step, ok := props["step"].(int)
	if !ok || step == 0 {
		step = 1
	}

	count, setCount := core.UseState(ctx, 0)
	ref, _ := core.UseState(ctx, &counterRef{})
	ref.step = step
	ref.report, _ = props["report"].(func(int))
	change := func(delta int) {
		if ref.report != nil {
			ref.report(delta)
		}
		setCount(func(c int) int { return c + delta })
	}
	inc, _ := core.UseState(ctx, host.NewListener(func(host.Event) { change(ref.step) }))
	dec, _ := core.UseState(ctx, host.NewListener(func(host.Event) { change(-ref.step) }))

	return core.H("div", core.Props{"class": "counter"},
		core.H("p", core.Props{"class": "count"}, label, ": ", count),
		core.H("button", core.Props{"id": DecrementID, "onClick": dec}, "-"),
		core.H("button", core.Props{"id": IncrementID, "onClick": inc}, "+"),
	)
})
