package treefile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/vcore/internal/errors"
	"github.com/vango-dev/vcore/pkg/vdom"
)

// placeholder matches {name} references to component props.
var placeholder = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_.-]*)\}`)

// Document is a parsed tree file.
type Document struct {
	Components map[string]*Node `yaml:"components,omitempty" json:"components,omitempty"`
	Root       *Node            `yaml:"root" json:"root"`

	path      string
	defs      map[string]*vdom.ComponentDef
	templates map[string]*template
}

// template is the current body of a definition. Inherit repoints it at a
// newer document.
type template struct {
	doc  *Document
	node *Node
}

// Load reads and parses a tree file. Files ending in .json are decoded as
// JSON, everything else as YAML.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E150").Wrap(err).WithLocation(path, 0, 0)
	}
	doc, err := Parse(data, path)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Parse parses tree file contents. name is used for error locations and to
// pick the format.
func Parse(data []byte, name string) (*Document, error) {
	doc := &Document{path: name}

	var err error
	if strings.EqualFold(filepath.Ext(name), ".json") {
		err = json.Unmarshal(data, doc)
	} else {
		err = yaml.Unmarshal(data, doc)
	}
	if err != nil {
		return nil, errors.New("E150").
			WithDetail(err.Error()).
			WithLocationFromError(name, err)
	}

	if err := doc.validate(); err != nil {
		return nil, err
	}
	doc.define()
	return doc, nil
}

// Path returns the file the document was loaded from.
func (d *Document) Path() string { return d.path }

// ComponentNames returns the declared component names in order.
func (d *Document) ComponentNames() []string {
	names := make([]string, 0, len(d.Components))
	for name := range d.Components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Def returns the definition of a declared component.
func (d *Document) Def(name string) (*vdom.ComponentDef, bool) {
	def, ok := d.defs[name]
	return def, ok
}

// Tree builds a fresh VNode tree from the root node.
func (d *Document) Tree() *vdom.VNode {
	return d.build(d.Root, nil)
}

func (d *Document) validate() error {
	if d.Root == nil {
		return errors.New("E152").
			WithDetail("document has no root").
			WithLocation(d.path, 0, 0)
	}
	if err := d.Root.check("root"); err != nil {
		return errors.New("E152").WithDetail(err.Error()).WithLocation(d.path, 0, 0)
	}
	for _, name := range d.ComponentNames() {
		tpl := d.Components[name]
		if err := tpl.check("components/" + name); err != nil {
			return errors.New("E152").WithDetail(err.Error()).WithLocation(d.path, 0, 0)
		}
	}

	var unknown []string
	check := func(n *Node) {
		if n.Component != "" && d.Components[n.Component] == nil {
			unknown = append(unknown, n.Component)
		}
	}
	d.Root.walk(check)
	for _, name := range d.ComponentNames() {
		d.Components[name].walk(check)
	}
	if len(unknown) > 0 {
		return errors.New("E151").
			WithDetail(strings.Join(unknown, ", ")).
			WithLocation(d.path, 0, 0).
			WithSuggestion("Declare it under components")
	}

	if cycle := d.findCycle(); cycle != nil {
		return errors.New("E152").
			WithDetail("component renders itself: " + strings.Join(cycle, " -> ")).
			WithLocation(d.path, 0, 0)
	}
	return nil
}

// findCycle returns a chain of components that ends where it started, or
// nil.
func (d *Document) findCycle() []string {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(d.Components))
	var stack []string

	var visit func(name string) []string
	visit = func(name string) []string {
		switch state[name] {
		case visiting:
			for i, s := range stack {
				if s == name {
					return append(append([]string{}, stack[i:]...), name)
				}
			}
		case done:
			return nil
		}
		state[name] = visiting
		stack = append(stack, name)

		var uses []string
		d.Components[name].walk(func(n *Node) {
			if n.Component != "" {
				uses = append(uses, n.Component)
			}
		})
		for _, u := range uses {
			if cycle := visit(u); cycle != nil {
				return cycle
			}
		}

		stack = stack[:len(stack)-1]
		state[name] = done
		return nil
	}

	for _, name := range d.ComponentNames() {
		if cycle := visit(name); cycle != nil {
			return cycle
		}
	}
	return nil
}

// define creates one definition per component template.
func (d *Document) define() {
	d.defs = make(map[string]*vdom.ComponentDef, len(d.Components))
	d.templates = make(map[string]*template, len(d.Components))
	for name, node := range d.Components {
		t := &template{doc: d, node: node}
		d.templates[name] = t
		d.defs[name] = vdom.DefineFunc(name, func(p vdom.Props) *vdom.VNode {
			return t.doc.build(t.node, p)
		})
	}
}

// Inherit takes over the definitions of prev for components declared in
// both documents, so trees built from d keep the component identity of trees
// built from prev. prev renders d's templates afterwards. It returns the
// names of inherited components whose template changed.
func (d *Document) Inherit(prev *Document) []string {
	if prev == nil {
		return nil
	}
	var changed []string
	for _, name := range d.ComponentNames() {
		t, ok := prev.templates[name]
		if !ok {
			continue
		}
		if !reflect.DeepEqual(t.node, d.Components[name]) {
			changed = append(changed, name)
		}
		t.doc = d
		t.node = d.Components[name]
		d.templates[name] = t
		d.defs[name] = prev.defs[name]
	}
	return changed
}

// build turns n into a VNode. props is nil outside component templates,
// where no substitution happens.
func (d *Document) build(n *Node, props vdom.Props) *vdom.VNode {
	if n == nil {
		return nil
	}
	sub := func(s string) string { return substitute(s, props) }

	switch {
	case n.Text != "" || n.bare:
		return vdom.Text(sub(n.Text))
	case n.Raw != "":
		return vdom.Raw(sub(n.Raw))
	}

	if n.Tag == vdom.OutletTag {
		name, _ := substituteValue(n.Attrs[vdom.OutletNameProp], props).(string)
		fallback := make([]any, 0, len(n.Children))
		for _, c := range n.Children {
			fallback = append(fallback, d.build(c, props))
		}
		return vdom.Outlet(name, fallback...)
	}

	args := make([]any, 0, len(n.Attrs)+len(n.Props)+len(n.Children)+2)
	if n.Key != "" {
		args = append(args, vdom.Key(sub(n.Key)))
	}
	if n.Slot != "" {
		args = append(args, vdom.Slot(n.Slot))
	}
	for _, k := range sortedKeys(n.Attrs) {
		args = append(args, vdom.Prop(k, attrValue(k, substituteValue(n.Attrs[k], props))))
	}
	for _, k := range sortedKeys(n.Props) {
		args = append(args, vdom.Prop(k, substituteValue(n.Props[k], props)))
	}
	for _, c := range n.Children {
		args = append(args, d.build(c, props))
	}

	switch {
	case n.Component != "":
		return vdom.C(d.defs[n.Component], args...)
	case n.Tag != "":
		return vdom.El(n.Tag, args...)
	default:
		return vdom.Fragment(args...)
	}
}

// substitute replaces {name} references with props. Unknown names become
// empty. Outside templates the string is returned unchanged.
func substitute(s string, props vdom.Props) string {
	if props == nil || !strings.Contains(s, "{") {
		return s
	}
	return placeholder.ReplaceAllStringFunc(s, func(m string) string {
		v := props.Get(m[1 : len(m)-1])
		if v == nil {
			return ""
		}
		return fmt.Sprint(v)
	})
}

// substituteValue substitutes inside strings and lists. A string that is a
// single reference takes the prop value with its type.
func substituteValue(v any, props vdom.Props) any {
	if props == nil {
		return v
	}
	switch x := v.(type) {
	case string:
		if m := placeholder.FindStringSubmatchIndex(x); m != nil && m[0] == 0 && m[1] == len(x) {
			return props.Get(x[m[2]:m[3]])
		}
		return substitute(x, props)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = substituteValue(e, props)
		}
		return out
	}
	return v
}

// attrValue converts decoded values to what the patcher expects: class lists
// become []string and style mappings map[string]string.
func attrValue(key string, v any) any {
	switch x := v.(type) {
	case []any:
		if key != "class" {
			return v
		}
		out := make([]string, 0, len(x))
		for _, e := range x {
			out = append(out, fmt.Sprint(e))
		}
		return out
	case map[string]any:
		if key != "style" {
			return v
		}
		out := make(map[string]string, len(x))
		for k, e := range x {
			out[k] = fmt.Sprint(e)
		}
		return out
	}
	return v
}
