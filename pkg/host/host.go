// Package host defines the boundary between the reconciler and the
// environment that owns the real output tree.
//
// The reconciler never touches output nodes directly. It asks a [Host] to
// create blank nodes, write attributes and text, bind listeners and attach or
// detach children. Idle-time scheduling is a separate concern described by
// [IdleScheduler] and [Deadline]; drivers in the engine package use it to
// feed time slices to the work loop.
package host

import "time"

// Node is an opaque handle to an output node owned by a Host.
// The reconciler stores it and hands it back, nothing more.
type Node any

// Host creates and mutates output nodes.
type Host interface {
	// CreateNode allocates a blank, detached node. Text nodes carry no
	// attributes besides their text content.
	CreateNode(tag string, text bool) Node
	SetAttribute(n Node, name string, value any)
	RemoveAttribute(n Node, name string)
	SetText(n Node, text string)
	AddEventListener(n Node, event string, l *Listener)
	RemoveEventListener(n Node, event string, l *Listener)
	AppendChild(parent, child Node)
	RemoveChild(parent, child Node)
}

// Inserter is implemented by hosts that can place a child before an existing
// sibling. When available the committer uses it so that created nodes land at
// their tree position instead of the end of the parent.
type Inserter interface {
	InsertBefore(parent, child, ref Node)
}

// Deadline reports how much of the current idle slot is left.
type Deadline interface {
	TimeRemaining() time.Duration
}

// IdleScheduler runs a callback once during host idle time.
type IdleScheduler interface {
	RequestIdleSlot(cb func(Deadline))
}

// DeadlineFunc adapts a function to the Deadline interface.
type DeadlineFunc func() time.Duration

// TimeRemaining calls f.
func (f DeadlineFunc) TimeRemaining() time.Duration { return f() }

// Budget returns a Deadline that expires budget after now, measured with now.
func Budget(now func() time.Time, budget time.Duration) Deadline {
	end := now().Add(budget)
	return DeadlineFunc(func() time.Duration {
		if left := end.Sub(now()); left > 0 {
			return left
		}
		return 0
	})
}

// Unlimited is a Deadline that never runs out.
var Unlimited Deadline = DeadlineFunc(func() time.Duration { return time.Duration(1<<63 - 1) })
