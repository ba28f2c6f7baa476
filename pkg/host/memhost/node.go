package memhost

import (
	"strings"

	"github.com/vango-dev/vcore/pkg/host"
)

// NodeType distinguishes element and text nodes.
type NodeType uint8

const (
	ElementNode NodeType = iota
	TextNode
)

// Node is a host node owned by a Document.
type Node struct {
	id       int
	Type     NodeType
	Tag      string
	Text     string
	attrs    map[string]string
	props    map[string]any
	handlers map[string][]*host.Listener

	parent   *Node
	children []*Node
}

// ID returns the node's sequence number within its document.
func (n *Node) ID() int { return n.id }

// Parent returns the parent node, or nil when detached.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the node's children. The slice must not be modified.
func (n *Node) Children() []*Node { return n.children }

// Attr returns an attribute value.
func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

// Attrs returns a copy of the node's attributes.
func (n *Node) Attrs() map[string]string {
	out := make(map[string]string, len(n.attrs))
	for k, v := range n.attrs {
		out[k] = v
	}
	return out
}

// Property returns a native property value.
func (n *Node) Property(name string) any { return n.props[name] }

// Listeners returns the number of listeners registered for event.
func (n *Node) Listeners(event string) int { return len(n.handlers[event]) }

// TextContent returns the concatenated text of the subtree.
func (n *Node) TextContent() string {
	if n.Type == TextNode {
		return n.Text
	}
	var b strings.Builder
	for _, c := range n.children {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

func (n *Node) indexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

func (n *Node) detach() {
	p := n.parent
	if p == nil {
		return
	}
	if i := p.indexOf(n); i >= 0 {
		p.children = append(p.children[:i], p.children[i+1:]...)
	}
	n.parent = nil
}

// label is the short form used in mutation logs and dumps.
func (n *Node) label() string {
	if n == nil {
		return "-"
	}
	if n.Type == TextNode {
		return "#text"
	}
	return n.Tag
}
