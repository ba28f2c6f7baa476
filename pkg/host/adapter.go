package host

import "time"

// Node is an opaque, comparable handle to a host node. Adapters decide the
// concrete type; the engine only compares and passes it back.
type Node any

// Event is delivered to listeners when the host dispatches an event.
type Event struct {
	// Type is the event name without the "on" prefix (click, input, ...).
	Type string

	// Target is the node the event was dispatched on.
	Target Node

	// Value carries the live value of form controls for input and change.
	Value string

	// Key is the key name for keyboard events.
	Key string

	// Payload holds adapter-specific event data.
	Payload any

	// Time is when the event was dispatched.
	Time time.Time
}

// Listener is the handle registered with the host for one (node, event)
// pair. The engine keeps the same Listener registered for as long as the node
// has a handler for that event and swaps what Handle does instead of
// re-registering.
type Listener struct {
	Handle func(Event)
}

// Dispatch calls the listener's handler if there is one.
func (l *Listener) Dispatch(e Event) {
	if l != nil && l.Handle != nil {
		l.Handle(e)
	}
}

// Adapter creates and mutates host nodes.
type Adapter interface {
	CreateElement(tag string) Node
	CreateText(value string) Node
	SetText(n Node, value string)

	SetAttribute(n Node, name, value string)
	RemoveAttribute(n Node, name string)

	// IsProperty reports whether name is a native property of n rather than
	// a markup attribute (value, checked, innerHTML, ...).
	IsProperty(n Node, name string) bool
	SetProperty(n Node, name string, value any)

	AddEventListener(n Node, event string, l *Listener)
	RemoveEventListener(n Node, event string, l *Listener)

	AppendChild(parent, child Node)
	// InsertBefore moves or inserts child before ref. A nil ref appends.
	InsertBefore(parent, child, ref Node)
	RemoveChild(parent, child Node)

	// ParentOf returns nil for detached nodes.
	ParentOf(n Node) Node
	// ChildrenOf returns a snapshot of n's children.
	ChildrenOf(n Node) []Node
}

// SelectionKeeper is implemented by adapters that can report and restore
// focus and text selection.
type SelectionKeeper interface {
	// Selection returns whether n is focused and its selection range.
	Selection(n Node) (focused bool, start, end int)
	// RestoreSelection re-applies a selection range to a focused node.
	RestoreSelection(n Node, start, end int)
}

// PropertyReader is implemented by adapters that can read live property
// values.
type PropertyReader interface {
	Property(n Node, name string) (any, bool)
}
