package vdom

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	tp "github.com/xlab/treeprint"
)

// Dump renders v as an indented tree, one node per line. Used by the CLI and
// in test failure output.
func Dump(v *VNode) string {
	if v == nil {
		return "<nil>\n"
	}
	p := tp.New()
	p.SetValue(label(v))
	for _, c := range v.Children {
		dumpNode(p, c)
	}
	return p.String()
}

func dumpNode(p tp.Tree, v *VNode) {
	if v == nil {
		return
	}
	if len(v.Children) == 0 {
		p.AddNode(label(v))
		return
	}
	branch := p.AddBranch(label(v))
	for _, c := range v.Children {
		dumpNode(branch, c)
	}
}

func label(v *VNode) string {
	var b strings.Builder
	switch v.Kind {
	case KindText:
		fmt.Fprintf(&b, "%q", v.Text)
	case KindRaw:
		fmt.Fprintf(&b, "raw %q", v.Text)
	case KindFragment:
		b.WriteString("fragment")
	default:
		b.WriteString(v.Name())
	}
	if v.Key != "" {
		fmt.Fprintf(&b, " key=%s", v.Key)
	}
	keys := make([]string, 0, len(v.Props))
	for k, val := range v.Props {
		if reflect.ValueOf(val).Kind() == reflect.Func {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, v.Props[k])
	}
	return b.String()
}
