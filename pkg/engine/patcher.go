package engine

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/vango-dev/vcore/pkg/host"
	"github.com/vango-dev/vcore/pkg/vdom"
)

// Patcher applies prop differences to host nodes.
type Patcher struct {
	adapter host.Adapter
	keeper  host.SelectionKeeper
	reader  host.PropertyReader

	// handlers holds the current handler behind each registered listener.
	handlers map[host.Node]map[string]*trampoline
}

// trampoline is the stable listener registered for one (node, event) pair.
type trampoline struct {
	listener *host.Listener
	handler  func(host.Event)
}

// NewPatcher creates a patcher over a. Optional capabilities are detected on
// a itself.
func NewPatcher(a host.Adapter) *Patcher {
	return newPatcher(a, a)
}

// newPatcher creates a patcher that mutates through a and detects optional
// capabilities on base.
func newPatcher(a host.Adapter, base host.Adapter) *Patcher {
	p := &Patcher{
		adapter:  a,
		handlers: make(map[host.Node]map[string]*trampoline),
	}
	p.keeper, _ = base.(host.SelectionKeeper)
	p.reader, _ = base.(host.PropertyReader)
	return p
}

// Patch updates n from oldProps to newProps. A nil oldProps is the create
// path.
func (p *Patcher) Patch(n host.Node, oldProps, newProps vdom.Props) {
	keys := make([]string, 0, len(oldProps)+len(newProps))
	for k := range oldProps {
		keys = append(keys, k)
	}
	for k := range newProps {
		if _, ok := oldProps[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		if key == "key" || key == vdom.SlotProp {
			continue
		}
		ov, nv := oldProps[key], newProps[key]

		if strings.HasPrefix(key, "on") && len(key) > 2 {
			oh, nh := asHandler(ov), asHandler(nv)
			if oh != nil || nh != nil {
				p.patchEvent(n, strings.ToLower(key[2:]), nh)
				if nh != nil || nv == nil {
					continue
				}
				// handler replaced by a plain value
				ov = nil
			}
		}

		switch key {
		case "class", "className":
			p.patchCanonical(n, "class", ClassString(ov), ClassString(nv))
		case "style":
			p.patchCanonical(n, "style", StyleString(ov), StyleString(nv))
		default:
			if p.adapter.IsProperty(n, key) {
				p.patchProperty(n, key, ov, nv)
			} else {
				p.patchAttribute(n, key, ov, nv)
			}
		}
	}
}

// Release forgets the listeners of n. Called when n is torn down.
func (p *Patcher) Release(n host.Node) {
	delete(p.handlers, n)
}

func (p *Patcher) patchEvent(n host.Node, event string, h func(host.Event)) {
	table := p.handlers[n]
	t := table[event]

	if h == nil {
		if t != nil {
			p.adapter.RemoveEventListener(n, event, t.listener)
			delete(table, event)
		}
		return
	}
	if t != nil {
		t.handler = h
		return
	}

	t = &trampoline{handler: h}
	t.listener = &host.Listener{Handle: func(e host.Event) {
		if t.handler != nil {
			t.handler(e)
		}
	}}
	if table == nil {
		table = make(map[string]*trampoline)
		p.handlers[n] = table
	}
	table[event] = t
	p.adapter.AddEventListener(n, event, t.listener)
}

func (p *Patcher) patchCanonical(n host.Node, name, oldValue, newValue string) {
	if oldValue == newValue {
		return
	}
	if newValue == "" {
		p.adapter.RemoveAttribute(n, name)
		return
	}
	p.adapter.SetAttribute(n, name, newValue)
}

func (p *Patcher) patchProperty(n host.Node, key string, ov, nv any) {
	if nv == nil {
		if ov != nil {
			p.adapter.SetProperty(n, key, zeroOf(ov))
		}
		return
	}

	if p.reader != nil {
		if live, ok := p.reader.Property(n, key); ok && sameValue(live, nv) {
			return
		}
	} else if sameValue(ov, nv) {
		return
	}

	if key == "value" && p.keeper != nil {
		if focused, start, end := p.keeper.Selection(n); focused {
			p.adapter.SetProperty(n, key, nv)
			limit := len(fmt.Sprint(nv))
			p.keeper.RestoreSelection(n, min(start, limit), min(end, limit))
			return
		}
	}
	p.adapter.SetProperty(n, key, nv)
}

func (p *Patcher) patchAttribute(n host.Node, key string, ov, nv any) {
	if sameValue(ov, nv) {
		return
	}
	switch v := nv.(type) {
	case nil:
		if ov != nil && ov != false {
			p.adapter.RemoveAttribute(n, key)
		}
	case bool:
		if v {
			p.adapter.SetAttribute(n, key, "")
		} else if ov != nil && ov != false {
			p.adapter.RemoveAttribute(n, key)
		}
	default:
		p.adapter.SetAttribute(n, key, fmt.Sprint(v))
	}
}

// asHandler converts an event prop value to a listener function. It returns
// nil for values that are not handlers.
func asHandler(v any) func(host.Event) {
	switch h := v.(type) {
	case func():
		if h == nil {
			return nil
		}
		return func(host.Event) { h() }
	case func(host.Event):
		return h
	case func(string):
		if h == nil {
			return nil
		}
		return func(e host.Event) { h(e.Value) }
	case vdom.EventHandler:
		return asHandler(h.Handler)
	}
	return nil
}

// ClassString canonicalizes a class value: a string, []string or
// map[string]bool.
func ClassString(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return strings.Join(strings.Fields(c), " ")
	case []string:
		parts := make([]string, 0, len(c))
		for _, s := range c {
			parts = append(parts, strings.Fields(s)...)
		}
		return strings.Join(parts, " ")
	case map[string]bool:
		parts := make([]string, 0, len(c))
		for s, on := range c {
			if on && s != "" {
				parts = append(parts, s)
			}
		}
		sort.Strings(parts)
		return strings.Join(parts, " ")
	default:
		return fmt.Sprint(c)
	}
}

// StyleString canonicalizes a style value: a declaration string or a
// map[string]string. Declarations are sorted by property name.
func StyleString(v any) string {
	decls := make(map[string]string)
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		for _, d := range strings.Split(s, ";") {
			name, value, ok := strings.Cut(d, ":")
			if !ok {
				continue
			}
			name, value = strings.TrimSpace(name), strings.TrimSpace(value)
			if name != "" && value != "" {
				decls[name] = value
			}
		}
	case map[string]string:
		for name, value := range s {
			if name != "" && value != "" {
				decls[name] = value
			}
		}
	default:
		return fmt.Sprint(s)
	}

	names := make([]string, 0, len(decls))
	for name := range decls {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ": " + decls[name]
	}
	return strings.Join(parts, "; ")
}

func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

func zeroOf(v any) any {
	switch v.(type) {
	case bool:
		return false
	case string:
		return ""
	default:
		return nil
	}
}
