package core

// KindClass is the closed set of things an Element can describe.
type KindClass uint8

const (
	// ClassHost is an output node with a tag, e.g. "div".
	ClassHost KindClass = iota + 1
	// ClassText is a text leaf.
	ClassText
	// ClassFunction is a function component.
	ClassFunction
)

func (c KindClass) String() string {
	switch c {
	case ClassHost:
		return "host"
	case ClassText:
		return "text"
	case ClassFunction:
		return "function"
	default:
		return "invalid"
	}
}

// RenderFunc is the body of a function component. It returns the single child
// element to render, or nil for none.
type RenderFunc func(ctx *BuildContext, props Props) *Element

// Component is a named function component. Components are compared by
// pointer, so declare them once (typically as package-level variables) and
// reuse the pointer in every render.
type Component struct {
	Name   string
	Render RenderFunc
}

// NewComponent declares a function component.
func NewComponent(name string, render RenderFunc) *Component {
	return &Component{Name: name, Render: render}
}

// Kind identifies what an Element or Fiber describes. Two kinds are equal
// when they have the same class and the same tag or component pointer.
type Kind struct {
	class     KindClass
	tag       string
	component *Component
}

// HostKind returns the kind of a host node with the given tag.
func HostKind(tag string) Kind {
	return Kind{class: ClassHost, tag: tag}
}

// TextKind returns the kind shared by all text leaves.
func TextKind() Kind {
	return Kind{class: ClassText}
}

// FunctionKind returns the kind of a function component.
func FunctionKind(c *Component) Kind {
	return Kind{class: ClassFunction, component: c}
}

// Class returns the kind's class.
func (k Kind) Class() KindClass { return k.class }

// Tag returns the host tag; empty for other classes.
func (k Kind) Tag() string { return k.tag }

// Component returns the function component; nil for other classes.
func (k Kind) Component() *Component { return k.component }

// String names the kind for logs and errors.
func (k Kind) String() string {
	switch k.class {
	case ClassHost:
		return k.tag
	case ClassText:
		return "#text"
	case ClassFunction:
		if k.component != nil && k.component.Name != "" {
			return k.component.Name
		}
		return "<component>"
	default:
		return "<invalid>"
	}
}

// rootKind is the kind of the synthetic fiber that owns the container node.
var rootKind = HostKind("#root")
