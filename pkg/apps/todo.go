package apps

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-drift/fiber/pkg/core"
	"github.com/go-drift/fiber/pkg/host"
)

// TodoList IDs used to address its controls from outside the tree.
const (
	NewTodoID   = "new-todo"
	ClearDoneID = "clear-done"
)

// TodoItemID returns the id attribute of the i-th list item.
func TodoItemID(i int) string { return fmt.Sprintf("todo-%d", i) }

// Todo is one entry of a TodoList.
type Todo struct {
	Text string
	Done bool
}

// TodoList renders a list of todos. A "submit" event on the input adds the
// event's string data as a new todo, a click on an item toggles it and the
// clear button drops finished items.
//
// Props: "items" ([]string) seeds the list on mount.
var TodoList = core.NewComponent("TodoList", func(ctx *core.BuildContext, props core.Props) *core.Element {
	seed, _ := props["items"].([]string)
	todos, setTodos := core.UseState(ctx, seedTodos(seed))
	add, _ := core.UseState(ctx, host.NewListener(func(e host.Event) {
		text, _ := e.Data.(string)
		if text = strings.TrimSpace(text); text == "" {
			return
		}
		setTodos(func(ts []Todo) []Todo {
			return append(slices.Clone(ts), Todo{Text: text})
		})
	}))
	clear, _ := core.UseState(ctx, host.NewListener(func(host.Event) {
		setTodos(func(ts []Todo) []Todo {
			return slices.DeleteFunc(slices.Clone(ts), func(t Todo) bool { return t.Done })
		})
	}))

	items := make([]any, 0, len(todos))
	left := 0
	for i, t := range todos {
		p := core.Props{
			"id":      TodoItemID(i),
			"onClick": func() { setTodos(toggleTodo(i)) },
		}
		mark := "[ ]"
		if t.Done {
			p["class"] = "done"
			mark = "[x]"
		} else {
			left++
		}
		items = append(items, core.H("li", p, mark, " ", t.Text))
	}

	return core.H("section", core.Props{"class": "todos"},
		core.H("h2", nil, "Todo"),
		core.H("input", core.Props{"id": NewTodoID, "onSubmit": add}),
		core.H("ul", nil, items...),
		core.H("p", core.Props{"class": "summary"}, left, " left"),
		core.H("button", core.Props{"id": ClearDoneID, "onClick": clear}, "clear done"),
	)
})

func seedTodos(texts []string) []Todo {
	todos := make([]Todo, len(texts))
	for i, t := range texts {
		todos[i] = Todo{Text: t}
	}
	return todos
}

func toggleTodo(i int) func([]Todo) []Todo {
	return func(ts []Todo) []Todo {
		if i >= len(ts) {
			return ts
		}
		out := slices.Clone(ts)
		out[i].Done = !out[i].Done
		return out
	}
}
