package engine

import (
	"fmt"
	"sync/atomic"

	"github.com/vango-dev/vcore/pkg/host"
	"github.com/vango-dev/vcore/pkg/vdom"
)

// Instance is a mounted occurrence of a component.
type Instance struct {
	// ID is the unique instance identifier (c1, c2, ...).
	ID string

	// Def is the component reference the instance was created from.
	Def *vdom.ComponentDef

	// Component is the constructed component value.
	Component vdom.Component

	// Props are the props of the last render.
	Props vdom.Props

	// Parent is the instance that was rendering when this one was created
	// (nil for roots).
	Parent *Instance

	host       host.Node
	vnode      *vdom.VNode // component node of the last render
	lastOutput *vdom.VNode // final output of the last render, root-shaped
	slots      vdom.SlotMap
	cache      *renderCacheEntry
	inner      *Instance // instance for an output root that is itself a component

	initialized bool
	mounted     bool
	disposed    bool
}

// renderCacheEntry is the last cacheable render of an instance. raw is the
// output before slot projection.
type renderCacheEntry struct {
	fingerprint uint64
	raw         *vdom.VNode
}

// instanceIDCounter is used to generate unique instance IDs.
var instanceIDCounter atomic.Uint64

// generateInstanceID generates a unique instance ID.
func generateInstanceID() string {
	id := instanceIDCounter.Add(1)
	return fmt.Sprintf("c%d", id)
}

// newInstance constructs an instance of def.
func newInstance(def *vdom.ComponentDef, parent *Instance) *Instance {
	return &Instance{
		ID:        generateInstanceID(),
		Def:       def,
		Component: def.New(),
		Parent:    parent,
	}
}

// Host returns the host node produced by the last render.
func (i *Instance) Host() host.Node { return i.host }

// Initialized reports whether Initialize has run.
func (i *Instance) Initialized() bool { return i.initialized }

// Mounted reports whether OnMount has run and the instance is not disposed.
func (i *Instance) Mounted() bool { return i.mounted && !i.disposed }

// Disposed reports whether the instance has been torn down.
func (i *Instance) Disposed() bool { return i.disposed }

// Output returns the final output of the last render.
func (i *Instance) Output() *vdom.VNode { return i.lastOutput }

// Inner returns the instance rendered for an output root that is itself a
// component, or nil.
func (i *Instance) Inner() *Instance { return i.inner }

// Ancestor returns the nearest ancestor instance created from def.
func (i *Instance) Ancestor(def *vdom.ComponentDef) *Instance {
	for p := i.Parent; p != nil; p = p.Parent {
		if p.Def == def {
			return p
		}
	}
	return nil
}

// Invalidate drops the render cache so the next render calls Render.
func (i *Instance) Invalidate() {
	i.cache = nil
}

// innermost follows the inner chain to the instance whose output owns the
// host node.
func (i *Instance) innermost() *Instance {
	for i.inner != nil {
		i = i.inner
	}
	return i
}

// name returns the component name for logs.
func (i *Instance) name() string {
	if i == nil || i.Def == nil {
		return ""
	}
	return i.Def.Name()
}
