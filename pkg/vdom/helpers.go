package vdom

import "fmt"

// Text returns a text node.
func Text(s string) *VNode {
	return &VNode{ID: nextID(), Kind: KindText, Text: s}
}

// Textf returns a text node formatted with fmt.Sprintf.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// Raw returns a node holding trusted markup. It is inserted unescaped.
func Raw(markup string) *VNode {
	return &VNode{ID: nextID(), Kind: KindRaw, Text: markup}
}

// Fragment groups children without a host node of its own. Only a Key
// argument is kept; other props are dropped.
func Fragment(children ...any) *VNode {
	v := &VNode{ID: nextID(), Kind: KindFragment, Props: Props{}}
	applyArgs(v, children)
	v.Props = nil
	return v
}

// Empty returns a fresh empty fragment, the value of a render that draws
// nothing.
func Empty() *VNode {
	return &VNode{ID: nextID(), Kind: KindFragment}
}

// IsEmpty reports whether v draws nothing: nil, or a fragment whose
// flattened child list is empty.
func IsEmpty(v *VNode) bool {
	return v == nil || v.Kind == KindFragment && len(Flatten(v.Children)) == 0
}

// If returns v when cond holds and nil otherwise.
func If(cond bool, v *VNode) *VNode {
	if !cond {
		return nil
	}
	return v
}

// Range builds one node per item. Items mapped to nil are skipped.
func Range[T any](items []T, fn func(item T, index int) *VNode) []*VNode {
	out := make([]*VNode, 0, len(items))
	for i, item := range items {
		if v := fn(item, i); v != nil {
			out = append(out, v)
		}
	}
	return out
}

// KeyProp is the prop name that carries the reconciliation key.
const KeyProp = "key"

// Key sets the reconciliation key. Non-string keys are formatted with %v.
func Key(key any) Attr {
	if s, ok := key.(string); ok {
		return attr(KeyProp, s)
	}
	return attr(KeyProp, fmt.Sprint(key))
}
