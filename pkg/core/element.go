package core

import (
	"fmt"
	"maps"
	"reflect"

	"github.com/go-drift/fiber/pkg/errors"
	"github.com/go-drift/fiber/pkg/host"
)

const (
	// ChildrenProp is reserved; children are passed to CreateElement
	// separately and a "children" entry in props is dropped.
	ChildrenProp = "children"
	// TextProp holds the content of a text element.
	TextProp = "nodeValue"
)

// Props maps attribute names to values.
type Props map[string]any

// Element is an immutable description of one node of the desired tree.
// Elements are built fresh on every render and have no identity beyond their
// position.
type Element struct {
	Kind     Kind
	Props    Props
	Children []*Element
}

// CreateElement builds an Element.
//
// Children may be *Element, []*Element (flattened in place), nil (skipped) or
// a scalar, which becomes a text element holding fmt.Sprint of the value.
// Function values under "on"-prefixed props are wrapped in a fresh
// *host.Listener.
func CreateElement(kind Kind, props Props, children ...any) *Element {
	el := &Element{
		Kind:  kind,
		Props: normalizeProps(kind, props),
	}
	for _, child := range children {
		el.Children = appendChild(el.Children, child)
	}
	return el
}

// H builds a host element.
func H(tag string, props Props, children ...any) *Element {
	return CreateElement(HostKind(tag), props, children...)
}

// C builds a function component element.
func C(c *Component, props Props, children ...any) *Element {
	return CreateElement(FunctionKind(c), props, children...)
}

// Text builds a text element.
func Text(value any) *Element {
	return &Element{
		Kind:  TextKind(),
		Props: Props{TextProp: textOf(value)},
	}
}

func appendChild(dst []*Element, child any) []*Element {
	switch c := child.(type) {
	case nil:
		return dst
	case *Element:
		if c == nil {
			return dst
		}
		return append(dst, c)
	case []*Element:
		for _, el := range c {
			if el != nil {
				dst = append(dst, el)
			}
		}
		return dst
	default:
		return append(dst, Text(c))
	}
}

func textOf(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func normalizeProps(kind Kind, props Props) Props {
	out := make(Props, len(props))
	maps.Copy(out, props)
	delete(out, ChildrenProp)
	for name, value := range out {
		if !host.IsEventAttribute(name) {
			continue
		}
		switch fn := value.(type) {
		case *host.Listener:
		case func(host.Event):
			out[name] = host.NewListener(fn)
		case func():
			out[name] = host.NewListener(func(host.Event) { fn() })
		case nil:
			delete(out, name)
		default:
			panic(errors.Contract("core.CreateElement", errors.KindContract,
				"%s: event prop %q has type %s, want func or *host.Listener",
				kind, name, reflect.TypeOf(value)))
		}
	}
	return out
}
