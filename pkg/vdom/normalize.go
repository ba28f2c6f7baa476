package vdom

// Normalizer flattens child lists for one render pass. Results are cached by
// node ID so the same node is only flattened once per pass.
type Normalizer struct {
	children map[NodeID][]*VNode
}

// NewNormalizer creates a Normalizer with an empty cache.
func NewNormalizer() *Normalizer {
	return &Normalizer{children: make(map[NodeID][]*VNode)}
}

// Children returns v's children with nil entries dropped and nested
// fragments spliced inline.
func (n *Normalizer) Children(v *VNode) []*VNode {
	if v == nil || len(v.Children) == 0 {
		return nil
	}
	if v.ID != 0 {
		if cached, ok := n.children[v.ID]; ok {
			return cached
		}
	}
	flat := Flatten(v.Children)
	if v.ID != 0 {
		n.children[v.ID] = flat
	}
	return flat
}

// Normalize collapses a fragment holding a single node into that node.
// nil stays nil; anything else is returned unchanged.
func (n *Normalizer) Normalize(v *VNode) *VNode {
	if v == nil {
		return nil
	}
	if v.Kind != KindFragment {
		return v
	}
	flat := n.Children(v)
	if len(flat) == 1 {
		return flat[0]
	}
	return v
}

// Reset clears the per-pass cache.
func (n *Normalizer) Reset() {
	clear(n.children)
}

// Flatten returns children with nil entries dropped and fragments spliced
// inline recursively. The input slice is not modified.
func Flatten(children []*VNode) []*VNode {
	if !needsFlatten(children) {
		return children
	}
	out := make([]*VNode, 0, len(children))
	return appendFlat(out, children)
}

func needsFlatten(children []*VNode) bool {
	for _, c := range children {
		if c == nil || c.Kind == KindFragment {
			return true
		}
	}
	return false
}

func appendFlat(out, children []*VNode) []*VNode {
	for _, c := range children {
		switch {
		case c == nil:
		case c.Kind == KindFragment:
			out = appendFlat(out, c.Children)
		default:
			out = append(out, c)
		}
	}
	return out
}
