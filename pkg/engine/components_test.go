package engine

import (
	"fmt"

	"github.com/vango-dev/vcore/pkg/vdom"
)

// lifecycle records hook calls across all test components.
type lifecycle struct {
	events []string
}

func (l *lifecycle) add(format string, args ...any) {
	l.events = append(l.events, fmt.Sprintf(format, args...))
}

func (l *lifecycle) count(event string) int {
	n := 0
	for _, e := range l.events {
		if e == event {
			n++
		}
	}
	return n
}

// counter is a class-shaped component with local state and every hook.
type counter struct {
	vdom.Base
	log   *lifecycle
	count int
}

func (c *counter) label() string { return c.Props().String("label") }

func (c *counter) Initialize() { c.log.add("init %s", c.label()) }
func (c *counter) OnMount()    { c.log.add("mount %s", c.label()) }
func (c *counter) OnUpdate()   { c.log.add("update %s", c.label()) }
func (c *counter) OnUnmount()  { c.log.add("unmount %s", c.label()) }

func (c *counter) Render() *vdom.VNode {
	return vdom.Button(
		vdom.Class("counter"),
		vdom.OnClick(func() { c.count++ }),
		vdom.Textf("%s: %d", c.label(), c.count),
	)
}

func defineCounter(log *lifecycle) *vdom.ComponentDef {
	return vdom.Define("Counter", func() vdom.Component {
		return &counter{log: log}
	})
}

// card renders a header outlet and a default outlet.
var card = vdom.DefineFunc("Card", func(p vdom.Props) *vdom.VNode {
	return vdom.Section(
		vdom.Class("card"),
		vdom.Header(vdom.Outlet("header", vdom.Text("untitled"))),
		vdom.Div(vdom.Class("body"), vdom.Outlet(vdom.DefaultSlot)),
	)
})

// pair renders two siblings at its root.
var pair = vdom.DefineFunc("Pair", func(p vdom.Props) *vdom.VNode {
	return vdom.Fragment(vdom.Span(vdom.Text("a")), vdom.Span(vdom.Text("b")))
})

// nothing renders nothing.
var nothing = vdom.DefineFunc("Nothing", func(p vdom.Props) *vdom.VNode {
	return nil
})

// broken panics while rendering.
var broken = vdom.DefineFunc("Broken", func(p vdom.Props) *vdom.VNode {
	panic("kaboom")
})

// tally counts its initializations and shows its count prop.
type tally struct {
	vdom.Base
	inits *int
}

func (c *tally) Initialize() { *c.inits++ }

func (c *tally) Render() *vdom.VNode {
	return vdom.Span(vdom.Textf("count=%v", c.Prop("count")))
}

func defineTally(inits *int) *vdom.ComponentDef {
	return vdom.Define("Tally", func() vdom.Component {
		return &tally{inits: inits}
	})
}

// shape renders a span, or a div when the "as" prop asks for one.
var shape = vdom.DefineFunc("Shape", func(p vdom.Props) *vdom.VNode {
	if p.String("as") == "div" {
		return vdom.Div(vdom.Text(p.String("label")))
	}
	return vdom.Span(vdom.Text(p.String("label")))
})
