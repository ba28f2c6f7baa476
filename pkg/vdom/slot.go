package vdom

const (
	// OutletTag is the reserved element tag marking a slot insertion point.
	OutletTag = "slot"
	// OutletNameProp names the slot an outlet receives.
	OutletNameProp = "name"
	// SlotProp is the prop on a child naming its target slot.
	SlotProp = "slot"
	// DefaultSlot receives children without a slot prop.
	DefaultSlot = "default"
)

// SlotMap groups a component's children by slot name.
type SlotMap map[string][]*VNode

// Empty reports whether no slot holds any node.
func (m SlotMap) Empty() bool {
	for _, nodes := range m {
		if len(nodes) > 0 {
			return false
		}
	}
	return true
}

// without returns a copy of m lacking name.
func (m SlotMap) without(name string) SlotMap {
	if _, ok := m[name]; !ok {
		return m
	}
	out := make(SlotMap, len(m))
	for k, v := range m {
		if k != name {
			out[k] = v
		}
	}
	return out
}

// SplitBySlot groups children by their slot prop. Nested fragments are
// flattened first; text nodes and untagged children land in DefaultSlot.
// Order within a bucket follows the input order.
func SplitBySlot(children []*VNode) SlotMap {
	flat := Flatten(children)
	slots := make(SlotMap)
	for _, c := range flat {
		name := DefaultSlot
		if c.Kind == KindElement || c.Kind == KindComponent {
			if s := c.Props.String(SlotProp); s != "" {
				name = s
			}
		}
		slots[name] = append(slots[name], c)
	}
	return slots
}

// Outlet creates a slot insertion point. Fallback children are rendered when
// the component receives nothing for the slot.
func Outlet(name string, fallback ...any) *VNode {
	if name == "" {
		name = DefaultSlot
	}
	node := createElement(OutletTag, fallback)
	node.Props[OutletNameProp] = name
	return node
}

// OutletName returns the slot an outlet receives.
func OutletName(v *VNode) string {
	if name := v.Props.String(OutletNameProp); name != "" {
		return name
	}
	return DefaultSlot
}

// Project replaces every outlet in output with the matching bucket of slots.
// An outlet with an empty bucket is replaced by its fallback children, or
// vanishes. The input is never modified: only ancestors of replaced outlets
// are copied, and output itself is returned when nothing changed.
func Project(output *VNode, slots SlotMap) *VNode {
	if output == nil {
		return nil
	}
	nodes, changed := project(output, slots)
	if !changed {
		return output
	}
	switch len(nodes) {
	case 0:
		return Empty()
	case 1:
		return nodes[0]
	default:
		return &VNode{ID: nextID(), Kind: KindFragment, Children: nodes}
	}
}

// project returns the nodes v turns into and whether anything changed.
func project(v *VNode, slots SlotMap) ([]*VNode, bool) {
	if v.IsOutlet() {
		name := OutletName(v)
		bucket := slots[name]
		if len(bucket) == 0 {
			return projectList(v.Children, slots), true
		}
		return projectList(bucket, slots.without(name)), true
	}

	switch v.Kind {
	case KindText, KindRaw:
		return []*VNode{v}, false
	}
	if len(v.Children) == 0 {
		return []*VNode{v}, false
	}

	var out []*VNode
	changed := false
	for i, c := range v.Children {
		if c == nil {
			continue
		}
		nodes, ch := project(c, slots)
		if ch && !changed {
			changed = true
			out = make([]*VNode, 0, len(v.Children))
			for _, prev := range v.Children[:i] {
				if prev != nil {
					out = append(out, prev)
				}
			}
		}
		if changed {
			out = append(out, nodes...)
		}
	}
	if !changed {
		return []*VNode{v}, false
	}
	return []*VNode{v.withChildren(out)}, true
}

func projectList(nodes []*VNode, slots SlotMap) []*VNode {
	out := make([]*VNode, 0, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}
		projected, _ := project(n, slots)
		out = append(out, projected...)
	}
	return out
}
