package memhost

import (
	"fmt"
	"time"

	"github.com/vango-dev/vcore/pkg/host"
)

// properties are names set as native properties rather than attributes.
var properties = map[string]bool{
	"value":         true,
	"checked":       true,
	"selected":      true,
	"indeterminate": true,
	"muted":         true,
	"innerHTML":     true,
}

// Document is an in-memory host tree. It is not safe for concurrent use.
type Document struct {
	nextID int
	body   *Node
	log    []Mutation

	focused  *Node
	selStart int
	selEnd   int
}

// Compile-time interface checks.
var (
	_ host.Adapter         = (*Document)(nil)
	_ host.SelectionKeeper = (*Document)(nil)
	_ host.PropertyReader  = (*Document)(nil)
)

// New creates an empty document with a body element to mount into.
func New() *Document {
	d := &Document{}
	d.body = d.newNode(ElementNode, "body")
	return d
}

// Body returns the document's root mount point.
func (d *Document) Body() *Node { return d.body }

// Mutations returns the mutations recorded since the last reset.
func (d *Document) Mutations() []Mutation {
	out := make([]Mutation, len(d.log))
	copy(out, d.log)
	return out
}

// ResetMutations clears the mutation log.
func (d *Document) ResetMutations() {
	d.log = d.log[:0]
}

func (d *Document) record(m Mutation) {
	d.log = append(d.log, m)
}

func (d *Document) newNode(t NodeType, tag string) *Node {
	d.nextID++
	return &Node{
		id:    d.nextID,
		Type:  t,
		Tag:   tag,
		attrs: make(map[string]string),
		props: make(map[string]any),
	}
}

func asNode(n host.Node) *Node {
	if n == nil {
		return nil
	}
	node, ok := n.(*Node)
	if !ok {
		panic(fmt.Sprintf("memhost: foreign node %T", n))
	}
	return node
}

// CreateElement implements host.Adapter.
func (d *Document) CreateElement(tag string) host.Node {
	n := d.newNode(ElementNode, tag)
	d.record(Mutation{Op: OpCreateElement, Target: n.id, Tag: tag})
	return n
}

// CreateText implements host.Adapter.
func (d *Document) CreateText(value string) host.Node {
	n := d.newNode(TextNode, "")
	n.Text = value
	d.record(Mutation{Op: OpCreateText, Target: n.id, Value: value})
	return n
}

// SetText implements host.Adapter.
func (d *Document) SetText(hn host.Node, value string) {
	n := asNode(hn)
	n.Text = value
	d.record(Mutation{Op: OpSetText, Target: n.id, Value: value})
}

// SetAttribute implements host.Adapter.
func (d *Document) SetAttribute(hn host.Node, name, value string) {
	n := asNode(hn)
	n.attrs[name] = value
	d.record(Mutation{Op: OpSetAttr, Target: n.id, Name: name, Value: value})
}

// RemoveAttribute implements host.Adapter.
func (d *Document) RemoveAttribute(hn host.Node, name string) {
	n := asNode(hn)
	if _, ok := n.attrs[name]; !ok {
		return
	}
	delete(n.attrs, name)
	d.record(Mutation{Op: OpRemoveAttr, Target: n.id, Name: name})
}

// IsProperty implements host.Adapter.
func (d *Document) IsProperty(hn host.Node, name string) bool {
	n := asNode(hn)
	return n.Type == ElementNode && properties[name]
}

// SetProperty implements host.Adapter. Setting innerHTML replaces the
// node's children with the parsed markup. Setting value on the focused
// node moves the caret to the end, the way browsers do.
func (d *Document) SetProperty(hn host.Node, name string, value any) {
	n := asNode(hn)
	d.record(Mutation{Op: OpSetProperty, Target: n.id, Name: name, Value: fmt.Sprint(value)})

	if name == "innerHTML" {
		markup, _ := value.(string)
		for _, c := range append([]*Node(nil), n.children...) {
			c.detach()
		}
		nodes, err := d.ParseFragment(markup)
		if err != nil {
			nodes = []*Node{d.newNode(TextNode, "")}
			nodes[0].Text = markup
		}
		for _, c := range nodes {
			c.parent = n
			n.children = append(n.children, c)
		}
		n.props[name] = markup
		return
	}

	if value == nil {
		delete(n.props, name)
	} else {
		n.props[name] = value
	}
	if name == "value" && d.focused == n {
		end := len(fmt.Sprint(value))
		d.selStart, d.selEnd = end, end
	}
}

// Property implements host.PropertyReader.
func (d *Document) Property(hn host.Node, name string) (any, bool) {
	n := asNode(hn)
	v, ok := n.props[name]
	return v, ok
}

// AddEventListener implements host.Adapter.
func (d *Document) AddEventListener(hn host.Node, event string, l *host.Listener) {
	n := asNode(hn)
	if n.handlers == nil {
		n.handlers = make(map[string][]*host.Listener)
	}
	n.handlers[event] = append(n.handlers[event], l)
	d.record(Mutation{Op: OpAddListener, Target: n.id, Name: event})
}

// RemoveEventListener implements host.Adapter.
func (d *Document) RemoveEventListener(hn host.Node, event string, l *host.Listener) {
	n := asNode(hn)
	list := n.handlers[event]
	for i, x := range list {
		if x == l {
			n.handlers[event] = append(list[:i], list[i+1:]...)
			d.record(Mutation{Op: OpRemoveListener, Target: n.id, Name: event})
			return
		}
	}
}

// AppendChild implements host.Adapter.
func (d *Document) AppendChild(parent, child host.Node) {
	d.InsertBefore(parent, child, nil)
}

// InsertBefore implements host.Adapter.
func (d *Document) InsertBefore(parent, child, ref host.Node) {
	p, c, r := asNode(parent), asNode(child), asNode(ref)
	op := OpInsertNode
	if c.parent != nil {
		op = OpMoveNode
		c.detach()
	}
	idx := len(p.children)
	refID := 0
	if r != nil {
		if i := p.indexOf(r); i >= 0 {
			idx = i
			refID = r.id
		}
	}
	p.children = append(p.children, nil)
	copy(p.children[idx+1:], p.children[idx:])
	p.children[idx] = c
	c.parent = p
	d.record(Mutation{Op: op, Target: c.id, Tag: c.Tag, Parent: p.id, Ref: refID})
}

// RemoveChild implements host.Adapter.
func (d *Document) RemoveChild(parent, child host.Node) {
	p, c := asNode(parent), asNode(child)
	if c.parent != p {
		return
	}
	c.detach()
	if d.focused != nil && (d.focused == c || contains(c, d.focused)) {
		d.focused = nil
	}
	d.record(Mutation{Op: OpRemoveNode, Target: c.id, Tag: c.Tag, Parent: p.id})
}

// ParentOf implements host.Adapter.
func (d *Document) ParentOf(hn host.Node) host.Node {
	n := asNode(hn)
	if n.parent == nil {
		return nil
	}
	return n.parent
}

// ChildrenOf implements host.Adapter.
func (d *Document) ChildrenOf(hn host.Node) []host.Node {
	n := asNode(hn)
	out := make([]host.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

// Focus makes n the focused node with the caret at the end of its value.
func (d *Document) Focus(n *Node) {
	d.focused = n
	end := len(fmt.Sprint(n.props["value"]))
	if n.props["value"] == nil {
		end = 0
	}
	d.selStart, d.selEnd = end, end
	d.record(Mutation{Op: OpFocus, Target: n.id})
}

// Focused returns the focused node, if any.
func (d *Document) Focused() *Node { return d.focused }

// SetSelection sets the selection range of the focused node.
func (d *Document) SetSelection(start, end int) {
	d.selStart, d.selEnd = start, end
}

// Selection implements host.SelectionKeeper.
func (d *Document) Selection(hn host.Node) (bool, int, int) {
	n := asNode(hn)
	if d.focused != n {
		return false, 0, 0
	}
	return true, d.selStart, d.selEnd
}

// RestoreSelection implements host.SelectionKeeper.
func (d *Document) RestoreSelection(hn host.Node, start, end int) {
	if d.focused == asNode(hn) {
		d.selStart, d.selEnd = start, end
	}
}

// Dispatch delivers an event to n's listeners for e.Type. Input and change
// events carrying a value update the node's value property first, as typing
// into a control would.
func (d *Document) Dispatch(n *Node, e host.Event) int {
	e.Target = n
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	if (e.Type == "input" || e.Type == "change") && e.Value != "" {
		n.props["value"] = e.Value
	}
	list := append([]*host.Listener(nil), n.handlers[e.Type]...)
	for _, l := range list {
		l.Dispatch(e)
	}
	return len(list)
}

func contains(root, n *Node) bool {
	for p := n.parent; p != nil; p = p.parent {
		if p == root {
			return true
		}
	}
	return false
}
