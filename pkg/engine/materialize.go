package engine

import (
	"fmt"

	verrors "github.com/vango-dev/vcore/internal/errors"
	"github.com/vango-dev/vcore/pkg/host"
	"github.com/vango-dev/vcore/pkg/vdom"
)

// materialize creates the host node for v and its subtree.
func (e *Engine) materialize(v *vdom.VNode) host.Node {
	switch v.Kind {
	case vdom.KindText:
		h := e.adapter.CreateText(v.Text)
		e.registry.Record(h, v)
		return h

	case vdom.KindElement:
		if v.IsOutlet() {
			return e.materializeMarker(v)
		}
		h := e.adapter.CreateElement(v.Tag)
		e.patcher.Patch(h, nil, v.Props)
		for _, c := range e.norm.Children(v) {
			e.adapter.AppendChild(h, e.materialize(c))
		}
		e.registry.Record(h, v)
		return h

	case vdom.KindRaw:
		h := e.adapter.CreateElement(RawTag)
		e.adapter.SetProperty(h, "innerHTML", v.Text)
		e.registry.Record(h, v)
		return h

	case vdom.KindComponent:
		if v.Def == nil {
			return e.unrecognized(v, "component without definition")
		}
		return e.mountComponent(v)

	case vdom.KindFragment:
		return e.materializeShape(e.rootShape(v))

	default:
		return e.unrecognized(v, fmt.Sprintf("kind %d", v.Kind))
	}
}

// unrecognized reports a node that cannot be materialized and returns an
// error marker standing in for its subtree.
func (e *Engine) unrecognized(v *vdom.VNode, detail string) host.Node {
	err := verrors.New("E101").WithDetail(detail).WithSubject(v)
	e.logger.Error("cannot materialize node", "node", v.Name(), "error", err)
	e.errs = append(e.errs, err)
	return e.materialize(vdom.El(ErrorTag, vdom.Role("alert"), vdom.Text(err.Error())))
}

// materializeMarker renders an outlet that reached the host tree without
// being projected.
func (e *Engine) materializeMarker(v *vdom.VNode) host.Node {
	name := vdom.OutletName(v)
	e.logger.Warn("slot outlet outside a component", "slot", name)
	h := e.adapter.CreateElement(MarkerTag)
	e.adapter.SetAttribute(h, "name", name)
	e.registry.Record(h, v)
	return h
}

// rootShape normalizes a component output: nil becomes the empty sentinel
// and a fragment holding a single node collapses to that node.
func (e *Engine) rootShape(v *vdom.VNode) *vdom.VNode {
	if v == nil {
		return vdom.Empty()
	}
	return e.norm.Normalize(v)
}

// materializeShape creates the single host node standing for a root-shaped
// output. Empty fragments become an empty text anchor and multi-node
// fragments a display:contents wrapper.
func (e *Engine) materializeShape(v *vdom.VNode) host.Node {
	if v.Kind != vdom.KindFragment {
		return e.materialize(v)
	}
	flat := e.norm.Children(v)
	if len(flat) == 0 {
		h := e.adapter.CreateText("")
		e.registry.Record(h, v)
		return h
	}
	h := e.adapter.CreateElement(FragmentTag)
	e.adapter.SetAttribute(h, "style", fragmentStyle)
	for _, c := range flat {
		e.adapter.AppendChild(h, e.materialize(c))
	}
	e.registry.Record(h, v)
	return h
}

// mountComponent creates an instance for v and materializes its output.
func (e *Engine) mountComponent(v *vdom.VNode) host.Node {
	inst, out := e.renderComponent(v, nil)
	out = e.rootShape(out)
	h := within(e, inst, func() host.Node {
		return e.materializeOutput(inst, out)
	})
	inst.lastOutput = out
	inst.host = h
	e.registry.Note(h, out)
	e.registry.Record(h, v)
	e.registry.Bind(h, inst)
	e.queue(inst, false)
	return h
}

// materializeOutput creates the host node for inst's root-shaped output. An
// output root that is itself a component gets an inner instance sharing the
// host node.
func (e *Engine) materializeOutput(inst *Instance, out *vdom.VNode) host.Node {
	if out.Kind != vdom.KindComponent || out.Def == nil {
		return e.materializeShape(out)
	}
	inner, innerOut := e.renderComponent(out, nil)
	innerOut = e.rootShape(innerOut)
	h := within(e, inner, func() host.Node {
		return e.materializeOutput(inner, innerOut)
	})
	inner.lastOutput = innerOut
	inner.host = h
	inst.inner = inner
	e.registry.Note(h, innerOut)
	e.registry.Note(h, out)
	e.queue(inner, false)
	return h
}

// updateComponent re-renders inst for v and patches its host node. It
// returns the host node now standing for inst.
func (e *Engine) updateComponent(inst *Instance, v *vdom.VNode) host.Node {
	_, out := e.renderComponent(v, inst)
	return e.applyOutput(inst, out)
}

// applyOutput moves inst's host node from its last output to out.
func (e *Engine) applyOutput(inst *Instance, out *vdom.VNode) host.Node {
	out = e.rootShape(out)
	old, h := inst.lastOutput, inst.host
	nh := within(e, inst, func() host.Node {
		return e.patchOutput(inst, old, out, h)
	})
	inst.lastOutput = out
	if nh != h {
		e.replaceHost(h, nh)
	}
	inst.host = nh
	e.registry.Note(nh, out)
	e.queue(inst, true)
	return nh
}

// patchOutput reconciles one output root. It returns h when the node was
// patched in place, or a fresh node when the output changed shape.
func (e *Engine) patchOutput(inst *Instance, old, out *vdom.VNode, h host.Node) host.Node {
	if out.Kind == vdom.KindComponent && out.Def != nil {
		if in := inst.inner; in != nil && in.Def == out.Def && keysAgree(in.vnode, out) {
			return e.updateComponent(in, out)
		}
		e.discard(inst, h)
		return e.materializeOutput(inst, out)
	}

	if inst.inner == nil && old != nil && e.sameShape(old, out) {
		e.patchShape(h, old, out)
		return h
	}
	e.discard(inst, h)
	return e.materializeShape(out)
}

// discard tears down what hangs off inst's current host node before it is
// replaced: nested instances, the inner instance chain and listeners. inst
// itself stays alive.
func (e *Engine) discard(inst *Instance, h host.Node) {
	for _, c := range e.adapter.ChildrenOf(h) {
		e.teardown(c)
	}
	if inst.inner != nil {
		e.dispose(inst.inner)
		inst.inner = nil
	}
	e.patcher.Release(h)
}

// replaceHost swaps nh in for old in the host tree and moves old's registry
// records to nh.
func (e *Engine) replaceHost(old, nh host.Node) {
	if old == nil || old == nh {
		return
	}
	top := e.registry.InstanceOf(old)
	if top == nil && e.registry.VNodeOf(old) == nil {
		// already moved by an inner instance
		return
	}
	e.registry.move(old, nh)
	for x := top; x != nil; x = x.inner {
		if x.host == old {
			x.host = nh
		}
	}
	if p := e.adapter.ParentOf(old); p != nil {
		e.adapter.InsertBefore(p, nh, old)
		e.adapter.RemoveChild(p, old)
	}
}

// sameShape reports whether a host node built for old can be patched to
// represent out.
func (e *Engine) sameShape(old, out *vdom.VNode) bool {
	if old.Kind != out.Kind {
		return false
	}
	switch out.Kind {
	case vdom.KindElement:
		return old.Tag == out.Tag
	case vdom.KindFragment:
		return (len(e.norm.Children(old)) == 0) == (len(e.norm.Children(out)) == 0)
	case vdom.KindComponent:
		return false
	}
	return true
}

// patchShape patches h from old to out. Both must have the same shape.
func (e *Engine) patchShape(h host.Node, old, out *vdom.VNode) {
	switch out.Kind {
	case vdom.KindText:
		if old.Text != out.Text {
			e.adapter.SetText(h, out.Text)
		}
	case vdom.KindElement:
		if out.IsOutlet() {
			return
		}
		e.patcher.Patch(h, old.Props, out.Props)
		e.reconcileChildren(h, e.norm.Children(out))
	case vdom.KindRaw:
		if old.Text != out.Text {
			e.adapter.SetProperty(h, "innerHTML", out.Text)
		}
	case vdom.KindFragment:
		if flat := e.norm.Children(out); len(flat) > 0 {
			e.reconcileChildren(h, flat)
		}
	}
}
