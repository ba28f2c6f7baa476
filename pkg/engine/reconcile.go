package engine

import (
	verrors "github.com/vango-dev/vcore/internal/errors"
	"github.com/vango-dev/vcore/pkg/host"
	"github.com/vango-dev/vcore/pkg/vdom"
)

// Identity signals, in the order they are tried.
const (
	signalKey      = "key"
	signalPosition = "position"
	signalBackref  = "backref"
	signalSearch   = "search"
)

// oldChild is a live host child of the parent being reconciled.
type oldChild struct {
	host    host.Node
	vnode   *vdom.VNode
	inst    *Instance
	claimed bool
}

// childSet indexes the live children of one parent.
type childSet struct {
	parent  host.Node
	list    []*oldChild
	byHost  map[host.Node]*oldChild
	byKey   map[string]*oldChild
	newKeys map[string]bool
	known   bool // at least one child was produced by this engine
}

// reconcileChildren makes the host children of parent match children,
// reusing and patching live host nodes wherever an identity signal matches.
func (e *Engine) reconcileChildren(parent host.Node, children []*vdom.VNode) {
	live := e.adapter.ChildrenOf(parent)
	set := &childSet{
		parent:  parent,
		list:    make([]*oldChild, len(live)),
		byHost:  make(map[host.Node]*oldChild, len(live)),
		byKey:   make(map[string]*oldChild),
		newKeys: make(map[string]bool),
	}
	for i, h := range live {
		oc := &oldChild{
			host:  h,
			vnode: e.registry.VNodeOf(h),
			inst:  e.registry.InstanceOf(h),
		}
		set.list[i] = oc
		set.byHost[h] = oc
		if oc.vnode == nil {
			continue
		}
		set.known = true
		if k := oc.vnode.Key; k != "" {
			if _, dup := set.byKey[k]; !dup {
				set.byKey[k] = oc
			}
		}
	}
	for _, v := range children {
		if v.Key != "" {
			set.newKeys[v.Key] = true
		}
	}

	placed := make([]host.Node, len(children))
	for i, v := range children {
		oc, signal := e.match(set, v, i)
		if oc != nil {
			oc.claimed = true
			e.metrics.recovered(signal)
			placed[i] = e.patchChild(oc, v)
			continue
		}
		if v.Kind == vdom.KindComponent && v.Def != nil && v.Key == "" && set.known {
			e.recoveryFailed(v)
		}
		placed[i] = e.materialize(v)
	}

	e.order(parent, placed)

	for _, oc := range set.list {
		if oc.claimed || e.adapter.ParentOf(oc.host) != parent {
			continue
		}
		e.teardown(oc.host)
		e.adapter.RemoveChild(parent, oc.host)
	}
}

// match runs the identity chain for v at index i. Only the first signal that
// yields a compatible, unclaimed child is used.
func (e *Engine) match(set *childSet, v *vdom.VNode, i int) (*oldChild, string) {
	if v.Key != "" {
		if oc, ok := set.byKey[v.Key]; ok && !oc.claimed && compatible(oc, v) {
			return oc, signalKey
		}
	}

	if i < len(set.list) && e.available(set, set.list[i], v) {
		return set.list[i], signalPosition
	}

	if entry, ok := e.registry.Entry(v.ID); ok {
		if oc := set.byHost[entry.Host]; oc != nil && e.available(set, oc, v) {
			return oc, signalBackref
		}
	}

	if v.Kind == vdom.KindComponent && v.Def != nil {
		if oc := e.search(set, v); oc != nil {
			return oc, signalSearch
		}
	}
	return nil, ""
}

// available reports whether oc may be claimed by v through a signal other
// than its own key: it must be unclaimed and compatible, keys must not
// disagree (a key on one side only is fine) and its key must not be wanted
// by another new child.
func (e *Engine) available(set *childSet, oc *oldChild, v *vdom.VNode) bool {
	if oc.claimed || !compatible(oc, v) || !keysAgree(oc.vnode, v) {
		return false
	}
	if k := oc.vnode.Key; k != "" && k != v.Key && set.newKeys[k] {
		return false
	}
	return true
}

// search looks for an unclaimed instance of v's component among the live
// children and then anywhere below the unclaimed ones. A node found below
// is detached so the ordering pass can adopt it.
func (e *Engine) search(set *childSet, v *vdom.VNode) *oldChild {
	for _, oc := range set.list {
		if e.available(set, oc, v) {
			return oc
		}
	}
	for _, oc := range set.list {
		if oc.claimed {
			continue
		}
		h := e.findInstance(oc.host, v)
		if h == nil {
			continue
		}
		e.adapter.RemoveChild(e.adapter.ParentOf(h), h)
		return &oldChild{
			host:  h,
			vnode: e.registry.VNodeOf(h),
			inst:  e.registry.InstanceOf(h),
		}
	}
	return nil
}

// findInstance walks the subtree below h depth first for a host node bound
// to a live instance of v's component.
func (e *Engine) findInstance(h host.Node, v *vdom.VNode) host.Node {
	for _, c := range e.adapter.ChildrenOf(h) {
		inst := e.registry.InstanceOf(c)
		if inst != nil && !inst.disposed && inst.Def == v.Def && keysAgree(e.registry.VNodeOf(c), v) {
			return c
		}
		if found := e.findInstance(c, v); found != nil {
			return found
		}
	}
	return nil
}

// compatible reports whether the host node of oc can be patched to v.
func compatible(oc *oldChild, v *vdom.VNode) bool {
	ov := oc.vnode
	if ov == nil || ov.Kind != v.Kind {
		return false
	}
	switch v.Kind {
	case vdom.KindElement:
		return ov.Tag == v.Tag
	case vdom.KindComponent:
		return v.Def != nil && oc.inst != nil && !oc.inst.disposed && oc.inst.Def == v.Def
	case vdom.KindFragment:
		return false
	}
	return true
}

// keysAgree rejects only a pair where both sides carry different keys.
func keysAgree(a, b *vdom.VNode) bool {
	if a == nil || b == nil || a.Key == "" || b.Key == "" {
		return true
	}
	return a.Key == b.Key
}

// patchChild patches the host node of oc to represent v.
func (e *Engine) patchChild(oc *oldChild, v *vdom.VNode) host.Node {
	h := oc.host
	switch v.Kind {
	case vdom.KindText:
		if oc.vnode.Text != v.Text {
			e.adapter.SetText(h, v.Text)
		}
	case vdom.KindElement:
		if !v.IsOutlet() {
			e.patcher.Patch(h, oc.vnode.Props, v.Props)
			e.reconcileChildren(h, e.norm.Children(v))
		}
	case vdom.KindRaw:
		if oc.vnode.Text != v.Text {
			e.adapter.SetProperty(h, "innerHTML", v.Text)
		}
	case vdom.KindComponent:
		h = e.updateComponent(oc.inst, v)
	}
	e.registry.Record(h, v)
	return h
}

// order moves the placed nodes into position with as few insertions as the
// cursor walk finds. The walk runs over the children parent has now, so a
// host node already swapped into place by a component stays put. Leftover
// children are skipped; they are removed after.
func (e *Engine) order(parent host.Node, placed []host.Node) {
	live := e.adapter.ChildrenOf(parent)
	wanted := make(map[host.Node]bool, len(placed))
	for _, h := range placed {
		wanted[h] = true
	}
	done := make(map[host.Node]bool, len(placed))

	cursor := 0
	for _, h := range placed {
		for cursor < len(live) && (!wanted[live[cursor]] || done[live[cursor]]) {
			cursor++
		}
		if cursor < len(live) && live[cursor] == h {
			done[h] = true
			cursor++
			continue
		}
		var ref host.Node
		if cursor < len(live) {
			ref = live[cursor]
		}
		e.adapter.InsertBefore(parent, h, ref)
		done[h] = true
	}
}

func (e *Engine) recoveryFailed(v *vdom.VNode) {
	err := verrors.New("E105").WithSubject(v)
	e.metrics.recoveryFailed()
	if e.opts.WarnOnRecoveryFailure {
		e.logger.Warn("identity recovery failed", "component", v.Def.Name(), "error", err)
		return
	}
	e.logger.Debug("identity recovery failed", "component", v.Def.Name(), "error", err)
}
