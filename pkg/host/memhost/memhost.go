// Package memhost is an in-memory output tree for the reconciler.
//
// It implements [host.Host], [host.Inserter] and [host.IdleScheduler]. Every
// mutation is recorded in an ordered log so tests and the CLI can show exactly
// what a commit did. Idle slots are queued and run explicitly with RunIdle.
//
// Host is not safe for concurrent use; drive it from the engine goroutine.
package memhost

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-drift/fiber/pkg/host"
)

// ContainerTag is the tag of the container node created by New.
const ContainerTag = "root"

// Host is an in-memory output tree.
type Host struct {
	container *Node
	lastID    int
	ops       []Op
	idle      []func(host.Deadline)
}

var (
	_ host.Host          = (*Host)(nil)
	_ host.Inserter      = (*Host)(nil)
	_ host.IdleScheduler = (*Host)(nil)
)

// New returns a host with an empty container node.
func New() *Host {
	h := &Host{}
	h.container = h.newNode(ContainerTag, false)
	return h
}

// Container returns the root output node to render into.
func (h *Host) Container() *Node { return h.container }

// Ops returns a copy of the mutation log.
func (h *Host) Ops() []Op { return slices.Clone(h.ops) }

// OpStrings returns the mutation log rendered with Op.String.
func (h *Host) OpStrings() []string {
	out := make([]string, len(h.ops))
	for i, op := range h.ops {
		out[i] = op.String()
	}
	return out
}

// ResetOps clears the mutation log.
func (h *Host) ResetOps() { h.ops = h.ops[:0] }

// Count returns the number of logged mutations of the given kinds. With no
// kinds it counts all of them.
func (h *Host) Count(kinds ...OpKind) int {
	if len(kinds) == 0 {
		return len(h.ops)
	}
	n := 0
	for _, op := range h.ops {
		if slices.Contains(kinds, op.Kind) {
			n++
		}
	}
	return n
}

// Walk visits every attached node depth first, container included.
func (h *Host) Walk(fn func(*Node)) {
	h.container.walk(func(n *Node) bool {
		fn(n)
		return true
	})
}

// Find returns the attached nodes matching pred in tree order.
func (h *Host) Find(pred func(*Node) bool) []*Node {
	var out []*Node
	h.Walk(func(n *Node) {
		if pred(n) {
			out = append(out, n)
		}
	})
	return out
}

// Dispatch delivers an event to the listeners bound on n for event. Events do
// not bubble. It returns the number of listeners invoked.
func (h *Host) Dispatch(n *Node, event string, data any) int {
	ls := n.Listeners(event)
	for _, l := range ls {
		l.Handle(host.Event{Type: event, Target: n, Data: data})
	}
	return len(ls)
}

// Dump renders the attached tree as indented text, one node per line.
func (h *Host) Dump() string {
	var sb strings.Builder
	h.dump(&sb, h.container, 0)
	return sb.String()
}

func (h *Host) dump(sb *strings.Builder, n *Node, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(n.String())
	if !n.IsText {
		for _, name := range sortedAttrs(n.Attrs) {
			fmt.Fprintf(sb, " %s=%v", name, n.Attrs[name])
		}
		for _, ev := range n.Events() {
			fmt.Fprintf(sb, " @%s", ev)
		}
	}
	sb.WriteByte('\n')
	for _, c := range n.Children {
		h.dump(sb, c, depth+1)
	}
}

// RequestIdleSlot queues cb until the next RunIdle.
func (h *Host) RequestIdleSlot(cb func(host.Deadline)) {
	h.idle = append(h.idle, cb)
}

// PendingIdle returns the number of queued idle callbacks.
func (h *Host) PendingIdle() int { return len(h.idle) }

// RunIdle runs the callbacks queued so far with deadline d. Callbacks queued
// while they run wait for the next call. It returns the number run.
func (h *Host) RunIdle(d host.Deadline) int {
	batch := h.idle
	h.idle = nil
	for _, cb := range batch {
		cb(d)
	}
	return len(batch)
}

func (h *Host) CreateNode(tag string, text bool) host.Node {
	n := h.newNode(tag, text)
	name := tag
	if text {
		name = "#text"
	}
	h.log(Op{Kind: OpCreate, Node: n.ID, Name: name})
	return n
}

func (h *Host) SetAttribute(hn host.Node, name string, value any) {
	n := mustNode(hn)
	if n.Attrs == nil {
		n.Attrs = make(map[string]any)
	}
	n.Attrs[name] = value
	h.log(Op{Kind: OpSetAttribute, Node: n.ID, Name: name, Value: value})
}

func (h *Host) RemoveAttribute(hn host.Node, name string) {
	n := mustNode(hn)
	delete(n.Attrs, name)
	h.log(Op{Kind: OpRemoveAttribute, Node: n.ID, Name: name})
}

func (h *Host) SetText(hn host.Node, text string) {
	n := mustNode(hn)
	n.Value = text
	h.log(Op{Kind: OpSetText, Node: n.ID, Value: text})
}

func (h *Host) AddEventListener(hn host.Node, event string, l *host.Listener) {
	n := mustNode(hn)
	if n.listeners == nil {
		n.listeners = make(map[string][]*host.Listener)
	}
	n.listeners[event] = append(n.listeners[event], l)
	h.log(Op{Kind: OpAddListener, Node: n.ID, Name: event})
}

func (h *Host) RemoveEventListener(hn host.Node, event string, l *host.Listener) {
	n := mustNode(hn)
	ls := n.listeners[event]
	if i := slices.Index(ls, l); i >= 0 {
		n.listeners[event] = slices.Delete(ls, i, i+1)
	}
	h.log(Op{Kind: OpRemoveListener, Node: n.ID, Name: event})
}

func (h *Host) AppendChild(hp, hc host.Node) {
	parent, child := mustNode(hp), mustNode(hc)
	detach(child)
	child.Parent = parent
	parent.Children = append(parent.Children, child)
	h.log(Op{Kind: OpAppend, Node: child.ID, Parent: parent.ID})
}

func (h *Host) InsertBefore(hp, hc, hr host.Node) {
	parent, child, ref := mustNode(hp), mustNode(hc), mustNode(hr)
	detach(child)
	i := slices.Index(parent.Children, ref)
	if i < 0 {
		panic(fmt.Sprintf("memhost: InsertBefore: %s is not a child of %s", ref, parent))
	}
	child.Parent = parent
	parent.Children = slices.Insert(parent.Children, i, child)
	h.log(Op{Kind: OpInsert, Node: child.ID, Parent: parent.ID, Ref: ref.ID})
}

func (h *Host) RemoveChild(hp, hc host.Node) {
	parent, child := mustNode(hp), mustNode(hc)
	i := slices.Index(parent.Children, child)
	if i < 0 {
		panic(fmt.Sprintf("memhost: RemoveChild: %s is not a child of %s", child, parent))
	}
	parent.Children = slices.Delete(parent.Children, i, i+1)
	child.Parent = nil
	h.log(Op{Kind: OpRemove, Node: child.ID, Parent: parent.ID})
}

func (h *Host) newNode(tag string, text bool) *Node {
	h.lastID++
	return &Node{ID: h.lastID, Tag: tag, IsText: text}
}

func (h *Host) log(op Op) {
	h.ops = append(h.ops, op)
}

func detach(n *Node) {
	if n.Parent == nil {
		return
	}
	p := n.Parent
	if i := slices.Index(p.Children, n); i >= 0 {
		p.Children = slices.Delete(p.Children, i, i+1)
	}
	n.Parent = nil
}

func mustNode(hn host.Node) *Node {
	n, ok := hn.(*Node)
	if !ok || n == nil {
		panic(fmt.Sprintf("memhost: foreign node %T", hn))
	}
	return n
}

func sortedAttrs(attrs map[string]any) []string {
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
