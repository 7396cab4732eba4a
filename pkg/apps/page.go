package apps

import "github.com/go-drift/fiber/pkg/core"

// DefaultTodos seeds the todo list of Page.
var DefaultTodos = []string{"read the docs", "write a component"}

// Page combines a Counter and a TodoList under a title.
//
// Props: "title" (string) and "items" ([]string, defaults to DefaultTodos).
var Page = core.NewComponent("Page", func(ctx *core.BuildContext, props core.Props) *core.Element {
	title, ok := props["title"].(string)
	if !ok {
		title = "fiber"
	}
	items, ok := props["items"].([]string)
	if !ok {
		items = DefaultTodos
	}
	return core.H("main", nil,
		core.H("h1", nil, title),
		core.C(Counter, core.Props{"label": "Clicks"}),
		core.C(TodoList, core.Props{"items": items}),
	)
})
