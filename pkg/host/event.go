package host

import "strings"

// Event is delivered to listeners bound through "on"-prefixed attributes.
type Event struct {
	// Type is the normalized event name, e.g. "click".
	Type string
	// Target is the node the event was dispatched to.
	Target Node
	// Data carries host specific payload.
	Data any
}

// Listener wraps an event callback. Listeners are compared by pointer, so a
// listener built during one render is a different binding from an otherwise
// identical one built during the next.
type Listener struct {
	fn func(Event)
}

// NewListener wraps fn. A nil fn yields a listener that ignores events.
func NewListener(fn func(Event)) *Listener {
	return &Listener{fn: fn}
}

// Handle invokes the callback.
func (l *Listener) Handle(e Event) {
	if l == nil || l.fn == nil {
		return
	}
	l.fn(e)
}

// EventPrefix marks attribute names that bind listeners instead of values.
const EventPrefix = "on"

// IsEventAttribute reports whether name binds a listener.
func IsEventAttribute(name string) bool {
	return len(name) > len(EventPrefix) && strings.HasPrefix(name, EventPrefix)
}

// EventName returns the event name bound by an "on"-prefixed attribute:
// the remainder of the name, lower-cased. "onClick" binds "click".
func EventName(attribute string) string {
	return strings.ToLower(strings.TrimPrefix(attribute, EventPrefix))
}
