package vdom

// Component is anything that can render to a VNode.
type Component interface {
	Render() *VNode
}

// Initializer is implemented by components that need one-time setup before
// their first render.
type Initializer interface {
	Initialize()
}

// Mounter is implemented by components that want to know when their host
// node has been attached.
type Mounter interface {
	OnMount()
}

// Updater is implemented by components that want to know when a re-render
// has been applied to the host tree.
type Updater interface {
	OnUpdate()
}

// Unmounter is implemented by components that need teardown before their
// host node is removed.
type Unmounter interface {
	OnUnmount()
}

// PropsSetter is implemented by components that receive props. The engine
// calls SetProps before every render.
type PropsSetter interface {
	SetProps(Props)
}

// RenderFunc is a function-shaped component.
type RenderFunc func(props Props) *VNode

// ComponentDef is a component reference. Two component nodes refer to the
// same component when their Def pointers are equal.
type ComponentDef struct {
	name string
	new  func() Component
	fn   RenderFunc
}

// Define declares a class-shaped component. newFn builds a fresh instance;
// it is called once per mounted occurrence of the component.
func Define(name string, newFn func() Component) *ComponentDef {
	return &ComponentDef{name: name, new: newFn}
}

// DefineFunc declares a function-shaped component.
func DefineFunc(name string, fn RenderFunc) *ComponentDef {
	return &ComponentDef{name: name, fn: fn}
}

// Name returns the component's declared name.
func (d *ComponentDef) Name() string {
	if d == nil {
		return ""
	}
	return d.name
}

// IsFunc reports whether the component is function-shaped.
func (d *ComponentDef) IsFunc() bool {
	return d != nil && d.fn != nil
}

// New constructs a component value for a new instance.
func (d *ComponentDef) New() Component {
	if d.fn != nil {
		return &funcComponent{fn: d.fn}
	}
	if d.new == nil {
		return &funcComponent{fn: func(Props) *VNode { return nil }}
	}
	return d.new()
}

// funcComponent adapts a RenderFunc to the Component contract.
type funcComponent struct {
	Base
	fn RenderFunc
}

// Render implements Component.
func (f *funcComponent) Render() *VNode {
	return f.fn(f.Props())
}

// Base is an embeddable helper that stores props for class-shaped components.
type Base struct {
	props Props
}

// SetProps implements PropsSetter.
func (b *Base) SetProps(p Props) {
	b.props = p
}

// Props returns the current props.
func (b *Base) Props() Props {
	if b.props == nil {
		return Props{}
	}
	return b.props
}

// Prop returns a single prop value.
func (b *Base) Prop(key string) any {
	return b.props.Get(key)
}

// C creates a component node. Arguments follow the element constructors:
// attributes become props, child nodes become slot content.
func C(def *ComponentDef, args ...any) *VNode {
	node := &VNode{
		ID:    nextID(),
		Kind:  KindComponent,
		Def:   def,
		Props: make(Props),
	}
	applyArgs(node, args)
	return node
}
