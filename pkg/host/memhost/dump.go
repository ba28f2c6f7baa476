package memhost

import (
	"fmt"
	"sort"
	"strings"

	tp "github.com/xlab/treeprint"
)

// Dump renders the subtree rooted at n as an indented tree with node IDs.
func (d *Document) Dump(n *Node) string {
	p := tp.New()
	p.SetValue(nodeLabel(n))
	for _, c := range n.children {
		dumpNode(p, c)
	}
	return p.String()
}

func dumpNode(p tp.Tree, n *Node) {
	if len(n.children) == 0 {
		p.AddNode(nodeLabel(n))
		return
	}
	branch := p.AddBranch(nodeLabel(n))
	for _, c := range n.children {
		dumpNode(branch, c)
	}
}

func nodeLabel(n *Node) string {
	if n.Type == TextNode {
		return fmt.Sprintf("#%d %q", n.id, n.Text)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "#%d <%s>", n.id, n.Tag)
	keys := make([]string, 0, len(n.attrs))
	for k := range n.attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%q", k, n.attrs[k])
	}
	events := make([]string, 0, len(n.handlers))
	for ev, ls := range n.handlers {
		if len(ls) > 0 {
			events = append(events, ev)
		}
	}
	sort.Strings(events)
	if len(events) > 0 {
		fmt.Fprintf(&b, " on[%s]", strings.Join(events, ","))
	}
	return b.String()
}
