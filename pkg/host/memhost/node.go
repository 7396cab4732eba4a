package memhost

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/go-drift/fiber/pkg/host"
)

// Node is an output node of the in-memory tree.
type Node struct {
	ID     int
	Tag    string
	IsText bool
	// Value is the content of a text node.
	Value    string
	Attrs    map[string]any
	Parent   *Node
	Children []*Node

	listeners map[string][]*host.Listener
}

// Listeners returns the listeners bound for event, in binding order.
func (n *Node) Listeners(event string) []*host.Listener {
	return slices.Clone(n.listeners[event])
}

// Events returns the names of events with at least one listener, sorted.
func (n *Node) Events() []string {
	names := make([]string, 0, len(n.listeners))
	for name, ls := range n.listeners {
		if len(ls) > 0 {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// TextContent concatenates the text of n and all its descendants.
func (n *Node) TextContent() string {
	var sb strings.Builder
	n.walk(func(c *Node) bool {
		if c.IsText {
			sb.WriteString(c.Value)
		}
		return true
	})
	return sb.String()
}

// Attr returns the attribute value and whether it is set.
func (n *Node) Attr(name string) (any, bool) {
	v, ok := n.Attrs[name]
	return v, ok
}

// Index returns the position of n among its parent's children, or -1.
func (n *Node) Index() int {
	if n.Parent == nil {
		return -1
	}
	return slices.Index(n.Parent.Children, n)
}

func (n *Node) String() string {
	if n.IsText {
		return fmt.Sprintf("%q#%d", n.Value, n.ID)
	}
	return fmt.Sprintf("%s#%d", n.Tag, n.ID)
}

// walk visits n and its descendants depth first. Returning false from fn
// skips the node's children.
func (n *Node) walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.walk(fn)
	}
}

// NodeSnapshot is a serializable copy of a subtree.
type NodeSnapshot struct {
	Tag      string         `json:"tag,omitempty"`
	Text     *string        `json:"text,omitempty"`
	Attrs    map[string]any `json:"attrs,omitempty"`
	Events   []string       `json:"events,omitempty"`
	Children []NodeSnapshot `json:"children,omitempty"`
}

// Snapshot copies the subtree rooted at n. Node IDs are left out so that
// snapshots of equal trees compare equal.
func (n *Node) Snapshot() NodeSnapshot {
	s := NodeSnapshot{Events: n.Events()}
	if n.IsText {
		v := n.Value
		s.Text = &v
	} else {
		s.Tag = n.Tag
	}
	if len(n.Attrs) > 0 {
		s.Attrs = maps.Clone(n.Attrs)
	}
	if len(s.Events) == 0 {
		s.Events = nil
	}
	for _, c := range n.Children {
		s.Children = append(s.Children, c.Snapshot())
	}
	return s
}
