package treefile

import (
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Node is one node of a tree file.
type Node struct {
	Text      string         `yaml:"text,omitempty" json:"text,omitempty"`
	Raw       string         `yaml:"raw,omitempty" json:"raw,omitempty"`
	Tag       string         `yaml:"tag,omitempty" json:"tag,omitempty"`
	Component string         `yaml:"component,omitempty" json:"component,omitempty"`
	Fragment  bool           `yaml:"fragment,omitempty" json:"fragment,omitempty"`
	Key       string         `yaml:"key,omitempty" json:"key,omitempty"`
	Slot      string         `yaml:"slot,omitempty" json:"slot,omitempty"`
	Attrs     map[string]any `yaml:"attrs,omitempty" json:"attrs,omitempty"`
	Props     map[string]any `yaml:"props,omitempty" json:"props,omitempty"`
	Children  []*Node        `yaml:"children,omitempty" json:"children,omitempty"`

	// bare is set for nodes written as a plain string.
	bare bool
}

// nodeFields is Node without its custom decoders.
type nodeFields Node

// UnmarshalYAML accepts a plain scalar as a text node.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*n = Node{Text: value.Value, bare: true}
		return nil
	}
	return value.Decode((*nodeFields)(n))
}

// UnmarshalJSON accepts a JSON string as a text node.
func (n *Node) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*n = Node{Text: s, bare: true}
		return nil
	}
	return json.Unmarshal(data, (*nodeFields)(n))
}

// kinds lists the node kinds n claims to be.
func (n *Node) kinds() []string {
	var out []string
	if n.Text != "" || n.bare {
		out = append(out, "text")
	}
	if n.Raw != "" {
		out = append(out, "raw")
	}
	if n.Tag != "" {
		out = append(out, "tag")
	}
	if n.Component != "" {
		out = append(out, "component")
	}
	if n.Fragment {
		out = append(out, "fragment")
	}
	return out
}

// check validates n and its subtree. where is a path for error messages.
func (n *Node) check(where string) error {
	if n == nil {
		return fmt.Errorf("%s: empty node", where)
	}
	kinds := n.kinds()
	switch {
	case len(kinds) == 0 && len(n.Children) > 0:
		// a node with only children is a fragment
		n.Fragment = true
	case len(kinds) == 0:
		return fmt.Errorf("%s: node has none of text, raw, tag, component or fragment", where)
	case len(kinds) > 1:
		return fmt.Errorf("%s: node is both %s and %s", where, kinds[0], kinds[1])
	}

	if (n.Text != "" || n.bare || n.Raw != "") && (len(n.Children) > 0 || len(n.Attrs) > 0) {
		return fmt.Errorf("%s: text and raw nodes cannot have attrs or children", where)
	}
	if n.Component == "" && len(n.Props) > 0 {
		return fmt.Errorf("%s: props are only allowed on component nodes", where)
	}
	if n.Component != "" && len(n.Attrs) > 0 {
		return fmt.Errorf("%s: component nodes take props, not attrs", where)
	}
	for i, c := range n.Children {
		if err := c.check(fmt.Sprintf("%s/%d", where, i)); err != nil {
			return err
		}
	}
	return nil
}

// walk calls fn for n and every node below it.
func (n *Node) walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.walk(fn)
	}
}

// sortedKeys returns the keys of m in order.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
