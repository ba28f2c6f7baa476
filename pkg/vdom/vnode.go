package vdom

import (
	"strings"
	"sync/atomic"
)

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement   VKind = iota // <div>, <button>, etc.
	KindText                   // Plain text node
	KindFragment               // Grouping without wrapper
	KindComponent              // Nested component
	KindRaw                    // Trusted raw markup
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindComponent:
		return "Component"
	case KindRaw:
		return "Raw"
	default:
		return "Unknown"
	}
}

// NodeID identifies a VNode object. Zero means "no identity": the node was
// built as a struct literal and gets no side-table bookkeeping.
type NodeID uint64

var nodeIDCounter atomic.Uint64

// nextID returns a fresh NodeID.
func nextID() NodeID {
	return NodeID(nodeIDCounter.Add(1))
}

// VNode is the virtual DOM node.
type VNode struct {
	ID       NodeID        // Stable identity assigned at construction
	Kind     VKind         // Node type
	Tag      string        // Element tag name (e.g., "div")
	Props    Props         // Attributes, event handlers, component props
	Children []*VNode      // Child nodes (slot content for components)
	Key      string        // Reconciliation key
	Text     string        // For KindText and KindRaw
	Def      *ComponentDef // For KindComponent
}

// Props holds attributes and event handlers.
type Props map[string]any

// Get returns the prop value for key, or nil.
func (p Props) Get(key string) any {
	if p == nil {
		return nil
	}
	return p[key]
}

// String returns the prop value for key if it is a string.
func (p Props) String(key string) string {
	s, _ := p.Get(key).(string)
	return s
}

// Clone returns a shallow copy of the props.
func (p Props) Clone() Props {
	if p == nil {
		return nil
	}
	out := make(Props, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// IsInteractive returns true if this node has event handlers.
func (v *VNode) IsInteractive() bool {
	if v == nil || v.Kind != KindElement {
		return false
	}
	for key := range v.Props {
		if strings.HasPrefix(key, "on") {
			return true
		}
	}
	return false
}

// IsOutlet reports whether v is a slot insertion point.
func (v *VNode) IsOutlet() bool {
	return v != nil && v.Kind == KindElement && v.Tag == OutletTag
}

// Name returns a short human readable label for diagnostics.
func (v *VNode) Name() string {
	if v == nil {
		return "<nil>"
	}
	switch v.Kind {
	case KindElement:
		return "<" + v.Tag + ">"
	case KindComponent:
		if v.Def != nil {
			return v.Def.Name()
		}
		return "Component(?)"
	default:
		return v.Kind.String()
	}
}

// withChildren returns a shallow copy of v with a new identity and the given
// children. v itself is left untouched.
func (v *VNode) withChildren(children []*VNode) *VNode {
	cp := *v
	cp.ID = nextID()
	cp.Children = children
	return &cp
}

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// EventHandler represents an event handler.
type EventHandler struct {
	Event   string // "onclick", "oninput", etc.
	Handler any    // func() or func(host.Event)
}
