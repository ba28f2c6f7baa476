package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	verrors "github.com/vango-dev/vcore/internal/errors"
	"github.com/vango-dev/vcore/pkg/host"
	"github.com/vango-dev/vcore/pkg/host/memhost"
	"github.com/vango-dev/vcore/pkg/vdom"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *memhost.Document) {
	t.Helper()
	doc := memhost.New()
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	return New(doc, opts...), doc
}

func render(t *testing.T, e *Engine, doc *memhost.Document, v *vdom.VNode) {
	t.Helper()
	require.NoError(t, e.RenderToTree(context.Background(), v, doc.Body()))
}

func html(doc *memhost.Document) string {
	return doc.InnerHTML(doc.Body())
}

func TestRenderToTreeInitial(t *testing.T) {
	e, doc := newTestEngine(t)
	render(t, e, doc, vdom.Div(vdom.ID("app"),
		vdom.H1(vdom.Text("Hello")),
		vdom.Raw("<em>raw</em>"),
		vdom.Fragment(vdom.P(vdom.Text("a")), vdom.P(vdom.Text("b"))),
	))

	assert.Equal(t, `<div id="app"><h1>Hello</h1><vc-raw><em>raw</em></vc-raw><p>a</p><p>b</p></div>`, html(doc))
}

func TestRenderToTreeReplacesForeignContent(t *testing.T) {
	e, doc := newTestEngine(t)
	stale := doc.CreateElement("marquee")
	doc.AppendChild(doc.Body(), stale)

	render(t, e, doc, vdom.P(vdom.Text("fresh")))
	assert.Equal(t, `<p>fresh</p>`, html(doc))
}

func TestRenderIsIdempotent(t *testing.T) {
	log := &lifecycle{}
	counterDef := defineCounter(log)
	tree := func() *vdom.VNode {
		return vdom.Div(
			vdom.Class("list"),
			vdom.Input(vdom.Value("v"), vdom.OnInput(func(string) {})),
			vdom.C(counterDef, vdom.Prop("label", "x")),
			vdom.C(card, vdom.H2(vdom.Slot("header"), vdom.Text("T")), vdom.Text("body")),
			vdom.C(pair),
			vdom.C(nothing),
		)
	}

	e, doc := newTestEngine(t)
	render(t, e, doc, tree())
	first := html(doc)
	doc.ResetMutations()

	render(t, e, doc, tree())
	assert.Empty(t, doc.Mutations(), "second identical pass must not mutate the host")
	assert.Equal(t, first, html(doc))
}

func TestKeyedComponentsKeepIdentity(t *testing.T) {
	log := &lifecycle{}
	counterDef := defineCounter(log)
	list := func(keys ...string) *vdom.VNode {
		return vdom.Ul(vdom.Range(keys, func(k string, _ int) *vdom.VNode {
			return vdom.Li(vdom.Key(k), vdom.C(counterDef, vdom.Prop("label", k)))
		}))
	}

	e, doc := newTestEngine(t)
	render(t, e, doc, list("a", "b", "c"))

	ul := doc.Body().Children()[0]
	before := map[string]*Instance{}
	for _, li := range ul.Children() {
		inst := e.InstanceAt(li.Children()[0])
		require.NotNil(t, inst)
		before[inst.Props.String("label")] = inst
	}
	before["a"].Component.(*counter).count = 5
	doc.ResetMutations()

	render(t, e, doc, list("c", "a", "b"))

	assert.Equal(t, 0, memhost.Count(doc.Mutations(), memhost.OpCreateElement))
	assert.Equal(t, 0, memhost.Count(doc.Mutations(), memhost.OpRemoveNode))
	assert.Equal(t, 1, memhost.Count(doc.Mutations(), memhost.OpMoveNode))

	for _, li := range ul.Children() {
		inst := e.InstanceAt(li.Children()[0])
		assert.Same(t, before[inst.Props.String("label")], inst)
	}
	assert.Equal(t, 1, log.count("init a"))
	assert.Equal(t, `<li><button class="counter">c: 0</button></li>`, doc.OuterHTML(ul.Children()[0]))
}

func TestKeyedReorderWithoutRecreation(t *testing.T) {
	list := func(keys ...string) *vdom.VNode {
		return vdom.Ul(vdom.Range(keys, func(k string, _ int) *vdom.VNode {
			return vdom.Li(vdom.Key(k), vdom.Text(k))
		}))
	}
	e, doc := newTestEngine(t)
	render(t, e, doc, list("1", "2", "3", "4"))
	ul := doc.Body().Children()[0]
	nodes := map[string]*memhost.Node{}
	for _, li := range ul.Children() {
		nodes[li.TextContent()] = li
	}
	doc.ResetMutations()

	render(t, e, doc, list("4", "3", "2", "1"))

	ms := doc.Mutations()
	assert.Equal(t, 0, memhost.Count(ms, memhost.OpCreateElement))
	assert.Equal(t, 0, memhost.Count(ms, memhost.OpCreateText))
	assert.Equal(t, 0, memhost.Count(ms, memhost.OpRemoveNode))
	assert.Equal(t, 0, memhost.Count(ms, memhost.OpSetText))
	assert.Equal(t, "<ul><li>4</li><li>3</li><li>2</li><li>1</li></ul>", html(doc))
	for _, li := range ul.Children() {
		assert.Same(t, nodes[li.TextContent()], li)
	}
}

func TestListRemoval(t *testing.T) {
	log := &lifecycle{}
	counterDef := defineCounter(log)
	list := func(keys ...string) *vdom.VNode {
		return vdom.Div(vdom.Range(keys, func(k string, _ int) *vdom.VNode {
			return vdom.C(counterDef, vdom.Key(k), vdom.Prop("label", k))
		}))
	}
	e, doc := newTestEngine(t)
	render(t, e, doc, list("a", "b", "c"))
	doc.ResetMutations()

	render(t, e, doc, list("a", "c"))

	ms := doc.Mutations()
	assert.Equal(t, 1, memhost.Count(ms, memhost.OpRemoveNode))
	assert.Equal(t, 0, memhost.Count(ms, memhost.OpCreateElement))
	assert.Equal(t, 0, memhost.Count(ms, memhost.OpMoveNode))
	assert.Equal(t, 1, log.count("unmount b"))
	assert.Equal(t, 0, log.count("unmount a")+log.count("unmount c"))
	assert.Equal(t, `<div><button class="counter">a: 0</button><button class="counter">c: 0</button></div>`, html(doc))
}

func TestUnkeyedComponentSurvivesParentRerender(t *testing.T) {
	log := &lifecycle{}
	counterDef := defineCounter(log)
	parent := vdom.DefineFunc("Parent", func(p vdom.Props) *vdom.VNode {
		return vdom.Div(
			vdom.H1(vdom.Text(p.String("title"))),
			vdom.C(counterDef, vdom.Prop("label", "n")),
		)
	})

	e, doc := newTestEngine(t)
	render(t, e, doc, vdom.C(parent, vdom.Prop("title", "one")))
	first := e.InstanceAt(doc.Body().Children()[0].Children()[1])
	require.NotNil(t, first)

	render(t, e, doc, vdom.C(parent, vdom.Prop("title", "two")))
	render(t, e, doc, vdom.C(parent, vdom.Prop("title", "three")))

	again := e.InstanceAt(doc.Body().Children()[0].Children()[1])
	assert.Same(t, first, again)
	assert.Equal(t, 1, log.count("init n"))
	assert.Equal(t, 1, log.count("mount n"))
	assert.True(t, first.Initialized())
	assert.True(t, first.Mounted())
	assert.Contains(t, html(doc), "<h1>three</h1>")
}

func TestInstanceParentAndAncestor(t *testing.T) {
	log := &lifecycle{}
	counterDef := defineCounter(log)
	outer := vdom.DefineFunc("Outer", func(p vdom.Props) *vdom.VNode {
		return vdom.Div(vdom.C(counterDef))
	})

	e, doc := newTestEngine(t)
	render(t, e, doc, vdom.C(outer))

	root := doc.Body().Children()[0]
	outerInst := e.InstanceAt(root)
	inner := e.InstanceAt(root.Children()[0])
	require.NotNil(t, inner)
	assert.Same(t, outerInst, inner.Parent)
	assert.Same(t, outerInst, inner.Ancestor(outer))
	assert.Nil(t, inner.Ancestor(card))
}

func TestLifecycleHooksRunChildrenFirst(t *testing.T) {
	log := &lifecycle{}
	counterDef := defineCounter(log)
	wrap := vdom.Define("Wrap", func() vdom.Component {
		return &wrapper{log: log, child: counterDef}
	})

	e, doc := newTestEngine(t)
	render(t, e, doc, vdom.C(wrap))
	assert.Equal(t, []string{"init wrap", "init inner", "mount inner", "mount wrap"}, log.events)

	log.events = nil
	e.Unmount(doc.Body())
	assert.Equal(t, []string{"unmount inner", "unmount wrap"}, log.events)
	assert.Empty(t, doc.Body().Children())
	_, ok := e.Registry().Root(doc.Body())
	assert.False(t, ok)
}

type wrapper struct {
	vdom.Base
	log   *lifecycle
	child *vdom.ComponentDef
}

func (w *wrapper) Initialize() { w.log.add("init wrap") }
func (w *wrapper) OnMount()    { w.log.add("mount wrap") }
func (w *wrapper) OnUnmount()  { w.log.add("unmount wrap") }
func (w *wrapper) Render() *vdom.VNode {
	return vdom.Section(vdom.C(w.child, vdom.Prop("label", "inner")))
}

func TestSlotProjection(t *testing.T) {
	e, doc := newTestEngine(t)
	render(t, e, doc, vdom.C(card,
		vdom.P(vdom.Text("one")),
		vdom.H2(vdom.Slot("header"), vdom.Text("Title")),
		vdom.P(vdom.Text("two")),
	))

	assert.Equal(t,
		`<section class="card"><header><h2>Title</h2></header><div class="body"><p>one</p><p>two</p></div></section>`,
		html(doc))
}

func TestSlotFallback(t *testing.T) {
	e, doc := newTestEngine(t)
	render(t, e, doc, vdom.C(card, vdom.Text("only body")))
	assert.Equal(t,
		`<section class="card"><header>untitled</header><div class="body">only body</div></section>`,
		html(doc))
}

func TestSlotContentChangesOnCacheHit(t *testing.T) {
	e, doc := newTestEngine(t)
	render(t, e, doc, vdom.C(card, vdom.Prop("size", 1), vdom.Text("first")))
	inst := e.InstanceAt(doc.Body().Children()[0])
	require.NotNil(t, inst.cache)
	raw := inst.cache.raw

	render(t, e, doc, vdom.C(card, vdom.Prop("size", 1), vdom.Text("second")))

	assert.Same(t, raw, inst.cache.raw, "same props should hit the cache")
	assert.Contains(t, html(doc), `<div class="body">second</div>`)
	assert.NotContains(t, html(doc), "first")
}

func TestSlotForwarding(t *testing.T) {
	frame := vdom.DefineFunc("Frame", func(p vdom.Props) *vdom.VNode {
		return vdom.C(card,
			vdom.Span(vdom.Slot("header"), vdom.Outlet("title")),
			vdom.Outlet(vdom.DefaultSlot),
		)
	})

	e, doc := newTestEngine(t)
	render(t, e, doc, vdom.C(frame, vdom.Em(vdom.Slot("title"), vdom.Text("T")), vdom.Text("content")))

	assert.Equal(t,
		`<section class="card"><header><span><em>T</em></span></header><div class="body">content</div></section>`,
		html(doc))
}

func TestFunctionPropsBypassCache(t *testing.T) {
	calls := 0
	def := vdom.DefineFunc("Clicker", func(p vdom.Props) *vdom.VNode {
		calls++
		return vdom.Button(vdom.OnClick(p.Get("onpress")))
	})

	e, doc := newTestEngine(t)
	render(t, e, doc, vdom.C(def, vdom.Prop("onpress", func() {})))
	render(t, e, doc, vdom.C(def, vdom.Prop("onpress", func() {})))
	assert.Equal(t, 2, calls)

	static := 0
	plain := vdom.DefineFunc("Plain", func(p vdom.Props) *vdom.VNode {
		static++
		return vdom.Span()
	})
	render(t, e, doc, vdom.C(plain, vdom.Prop("n", 1)))
	render(t, e, doc, vdom.C(plain, vdom.Prop("n", 1)))
	assert.Equal(t, 1, static)

	e2, doc2 := newTestEngine(t, WithRenderCache(false))
	render(t, e2, doc2, vdom.C(plain, vdom.Prop("n", 1)))
	render(t, e2, doc2, vdom.C(plain, vdom.Prop("n", 1)))
	assert.Equal(t, 3, static)
}

func TestInvalidateAllForcesRender(t *testing.T) {
	calls := 0
	plain := vdom.DefineFunc("Plain", func(p vdom.Props) *vdom.VNode {
		calls++
		return vdom.Span()
	})
	tree := func() *vdom.VNode {
		return vdom.Div(vdom.C(plain, vdom.Key("a")), vdom.C(plain, vdom.Key("b")))
	}

	e, doc := newTestEngine(t)
	render(t, e, doc, tree())
	render(t, e, doc, tree())
	assert.Equal(t, 2, calls)
	assert.Len(t, e.Registry().Instances(), 2)

	e.InvalidateAll()
	render(t, e, doc, tree())
	assert.Equal(t, 4, calls)
}

func TestFragmentAndEmptyRoots(t *testing.T) {
	e, doc := newTestEngine(t)
	render(t, e, doc, vdom.Div(vdom.C(pair), vdom.C(nothing)))

	assert.Equal(t, `<div><vc-fragment style="display: contents"><span>a</span><span>b</span></vc-fragment></div>`, html(doc))
	div := doc.Body().Children()[0]
	require.Len(t, div.Children(), 2)
	anchor := div.Children()[1]
	assert.Equal(t, memhost.TextNode, anchor.Type)
	assert.Equal(t, "Nothing", e.InstanceAt(anchor).Def.Name())
}

func TestOutputShapeChange(t *testing.T) {
	toggle := vdom.DefineFunc("Toggle", func(p vdom.Props) *vdom.VNode {
		switch p.String("mode") {
		case "many":
			return vdom.Fragment(vdom.Em(), vdom.Strong())
		case "none":
			return nil
		}
		return vdom.P(vdom.Text("one"))
	})

	e, doc := newTestEngine(t)
	render(t, e, doc, vdom.Div(vdom.C(toggle, vdom.Key("t"), vdom.Prop("mode", "one")), vdom.Hr()))
	div := doc.Body().Children()[0]
	inst := e.InstanceAt(div.Children()[0])

	render(t, e, doc, vdom.Div(vdom.C(toggle, vdom.Key("t"), vdom.Prop("mode", "many")), vdom.Hr()))
	assert.Equal(t, `<div><vc-fragment style="display: contents"><em></em><strong></strong></vc-fragment><hr/></div>`, html(doc))
	assert.Same(t, inst, e.InstanceAt(div.Children()[0]))
	assert.Equal(t, div.Children()[0], inst.Host())

	render(t, e, doc, vdom.Div(vdom.C(toggle, vdom.Key("t"), vdom.Prop("mode", "none")), vdom.Hr()))
	assert.Equal(t, `<div><hr/></div>`, html(doc))
	assert.Same(t, inst, e.InstanceAt(div.Children()[0]))
	assert.Len(t, div.Children(), 2)
}

func TestNestedComponentRoot(t *testing.T) {
	log := &lifecycle{}
	counterDef := defineCounter(log)
	alias := vdom.DefineFunc("Alias", func(p vdom.Props) *vdom.VNode {
		return vdom.C(counterDef, vdom.Prop("label", p.String("label")))
	})

	e, doc := newTestEngine(t)
	render(t, e, doc, vdom.C(alias, vdom.Prop("label", "x")))
	h := doc.Body().Children()[0]
	outer := e.InstanceAt(h)
	require.NotNil(t, outer.Inner())
	inner := outer.Inner()
	assert.Equal(t, "Counter", inner.Def.Name())
	assert.Equal(t, h, inner.Host())

	render(t, e, doc, vdom.C(alias, vdom.Prop("label", "y")))
	assert.Same(t, inner, e.InstanceAt(doc.Body().Children()[0]).Inner())
	assert.Equal(t, `<button class="counter">y: 0</button>`, html(doc))
	assert.Equal(t, 1, log.count("init x"))
}

func TestIdentityRecoveredBySubtreeSearch(t *testing.T) {
	log := &lifecycle{}
	counterDef := defineCounter(log)
	reg := prometheus.NewRegistry()
	m := NewMetrics(MetricsConfig{Registry: reg})

	e, doc := newTestEngine(t, WithMetrics(m))
	render(t, e, doc, vdom.Div(vdom.Section(vdom.C(counterDef, vdom.Prop("label", "s")))))
	section := doc.Body().Children()[0].Children()[0]
	inst := e.InstanceAt(section.Children()[0])
	require.NotNil(t, inst)

	render(t, e, doc, vdom.Div(vdom.C(counterDef, vdom.Prop("label", "s"))))

	assert.Same(t, inst, e.InstanceAt(doc.Body().Children()[0].Children()[0]))
	assert.Equal(t, `<div><button class="counter">s: 0</button></div>`, html(doc))
	assert.Equal(t, 1, log.count("init s"))
	assert.Equal(t, 0, log.count("unmount s"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.recovery.WithLabelValues(signalSearch)))
}

func TestIdentityRecoveredByBackref(t *testing.T) {
	shared := vdom.P(vdom.Text("shared"))
	e, doc := newTestEngine(t)
	render(t, e, doc, vdom.Div(vdom.Span(), shared))
	p := doc.Body().Children()[0].Children()[1]
	doc.ResetMutations()

	render(t, e, doc, vdom.Div(shared))

	assert.Same(t, p, doc.Body().Children()[0].Children()[0])
	assert.Equal(t, 0, memhost.Count(doc.Mutations(), memhost.OpCreateElement))
}

func TestRecoveryFailureIsCounted(t *testing.T) {
	log := &lifecycle{}
	counterDef := defineCounter(log)
	reg := prometheus.NewRegistry()
	m := NewMetrics(MetricsConfig{Registry: reg})

	e, doc := newTestEngine(t, WithMetrics(m))
	render(t, e, doc, vdom.Div(vdom.P()))
	render(t, e, doc, vdom.Div(vdom.C(counterDef)))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.recoveryFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.instancesLive))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.passes))
}

func TestRenderPanicIsContained(t *testing.T) {
	e, doc := newTestEngine(t)
	err := e.RenderToTree(context.Background(), vdom.Div(vdom.C(broken), vdom.P(vdom.Text("still here"))), doc.Body())

	require.Error(t, err)
	assert.Equal(t, "E103", verrors.Code(err))
	assert.True(t, errors.Is(err, verrors.New("E103")))

	div := doc.Body().Children()[0]
	placeholder := div.Children()[0]
	assert.Equal(t, ErrorTag, placeholder.Tag)
	name, _ := placeholder.Attr("data-component")
	assert.Equal(t, "Broken", name)
	assert.Contains(t, placeholder.TextContent(), "kaboom")
	assert.Equal(t, "still here", div.Children()[1].TextContent())
}

func TestRenderPanicInProduction(t *testing.T) {
	e, doc := newTestEngine(t, WithProduction(true))
	err := e.RenderToTree(context.Background(), vdom.C(broken), doc.Body())

	assert.NoError(t, err)
	assert.Equal(t, "Component failed to render", doc.Body().TextContent())
}

func TestRenderRecoversAfterFailure(t *testing.T) {
	fail := true
	flaky := vdom.DefineFunc("Flaky", func(p vdom.Props) *vdom.VNode {
		if fail {
			panic("not yet")
		}
		return vdom.P(vdom.Text("ok"))
	})

	e, doc := newTestEngine(t)
	require.Error(t, e.RenderToTree(context.Background(), vdom.C(flaky, vdom.Prop("n", 1)), doc.Body()))
	fail = false
	render(t, e, doc, vdom.C(flaky, vdom.Prop("n", 1)))
	assert.Equal(t, "<p>ok</p>", html(doc))
}

// panicky fails on creating a given tag, escaping the component boundary.
type panicky struct {
	*memhost.Document
	tag string
}

func (p *panicky) CreateElement(tag string) host.Node {
	if tag == p.tag {
		panic("host exploded")
	}
	return p.Document.CreateElement(tag)
}

func TestTopLevelPanicShowsDiagnostic(t *testing.T) {
	doc := memhost.New()
	e := New(&panicky{Document: doc, tag: "blink"}, WithLogger(quietLogger()))

	require.NoError(t, e.RenderToTree(context.Background(), vdom.P(vdom.Text("before")), doc.Body()))
	err := e.RenderToTree(context.Background(), vdom.Div(vdom.El("blink")), doc.Body())

	require.Error(t, err)
	assert.Equal(t, "E104", verrors.Code(err))
	require.Len(t, doc.Body().Children(), 1)
	diag := doc.Body().Children()[0]
	assert.Equal(t, ErrorTag, diag.Tag)
	assert.Contains(t, diag.TextContent(), "host exploded")

	// the next pass starts over
	require.NoError(t, e.RenderToTree(context.Background(), vdom.P(vdom.Text("after")), doc.Body()))
	assert.Equal(t, "<p>after</p>", html(doc))
}

func TestUpdateRerendersInstance(t *testing.T) {
	log := &lifecycle{}
	counterDef := defineCounter(log)
	e, doc := newTestEngine(t)
	render(t, e, doc, vdom.Div(vdom.C(counterDef, vdom.Prop("label", "u"))))

	btn := doc.Body().Children()[0].Children()[0]
	inst := e.InstanceAt(btn)
	doc.Dispatch(btn, host.Event{Type: "click"})
	doc.Dispatch(btn, host.Event{Type: "click"})
	doc.ResetMutations()

	require.NoError(t, e.Update(context.Background(), inst))

	assert.Equal(t, `<div><button class="counter">u: 2</button></div>`, html(doc))
	assert.Equal(t, 1, memhost.Count(doc.Mutations(), memhost.OpSetText))
	assert.Equal(t, 1, log.count("update u"))
}

func TestUpdateRejectsDisposedInstance(t *testing.T) {
	log := &lifecycle{}
	counterDef := defineCounter(log)
	e, doc := newTestEngine(t)
	render(t, e, doc, vdom.C(counterDef))
	inst := e.InstanceAt(doc.Body().Children()[0])
	e.Unmount(doc.Body())

	err := e.Update(context.Background(), inst)
	assert.Equal(t, "E106", verrors.Code(err))
	assert.True(t, inst.Disposed())
}

func TestEventHandlerSwapWithoutMutation(t *testing.T) {
	var got []string
	view := func(label string) *vdom.VNode {
		return vdom.Button(vdom.OnClick(func() { got = append(got, label) }))
	}

	e, doc := newTestEngine(t)
	render(t, e, doc, view("first"))
	doc.ResetMutations()
	render(t, e, doc, view("second"))

	assert.Empty(t, doc.Mutations())
	doc.Dispatch(doc.Body().Children()[0], host.Event{Type: "click"})
	assert.Equal(t, []string{"second"}, got)
}

func TestFocusedInputKeepsSelection(t *testing.T) {
	view := func(v string) *vdom.VNode { return vdom.Input(vdom.Value(v)) }

	e, doc := newTestEngine(t)
	render(t, e, doc, view("abc"))
	in := doc.Body().Children()[0]
	doc.Focus(in)
	doc.SetSelection(1, 2)

	render(t, e, doc, view("abcd"))

	focused, start, end := doc.Selection(in)
	assert.True(t, focused)
	assert.Equal(t, []int{1, 2}, []int{start, end})
	assert.Equal(t, "abcd", in.Property("value"))
}

func TestStrayOutletBecomesMarker(t *testing.T) {
	e, doc := newTestEngine(t)
	render(t, e, doc, vdom.Div(vdom.Outlet("lost")))
	assert.Equal(t, `<div><vc-slot name="lost"></vc-slot></div>`, html(doc))
}

func TestUnknownKindIsReported(t *testing.T) {
	e, doc := newTestEngine(t)
	err := e.RenderToTree(context.Background(), vdom.Div(&vdom.VNode{Kind: vdom.VKind(42)}), doc.Body())

	require.Error(t, err)
	assert.Equal(t, "E101", verrors.Code(err))
	assert.Equal(t, ErrorTag, doc.Body().Children()[0].Children()[0].Tag)
}

func TestIndependentRoots(t *testing.T) {
	e, doc := newTestEngine(t)
	left, right := doc.CreateElement("div"), doc.CreateElement("div")
	doc.AppendChild(doc.Body(), left)
	doc.AppendChild(doc.Body(), right)

	require.NoError(t, e.RenderToTree(context.Background(), vdom.Text("L"), left))
	require.NoError(t, e.RenderToTree(context.Background(), vdom.Text("R"), right))
	e.Unmount(left)

	assert.Equal(t, "<div></div><div>R</div>", html(doc))
	_, ok := e.Registry().Root(right)
	assert.True(t, ok)
}

func TestComponentWithoutDefinitionIsContained(t *testing.T) {
	e, doc := newTestEngine(t)
	tree := func() *vdom.VNode { return vdom.Div(vdom.P(vdom.Text("sibling")), vdom.C(nil)) }

	err := e.RenderToTree(context.Background(), tree(), doc.Body())
	require.Error(t, err)
	assert.Equal(t, "E101", verrors.Code(err))
	div := doc.Body().Children()[0]
	require.Len(t, div.Children(), 2)
	p := div.Children()[0]
	assert.Equal(t, "<p>sibling</p>", doc.OuterHTML(p))
	assert.Equal(t, ErrorTag, div.Children()[1].Tag)
	assert.Contains(t, html(doc), `<div><p>sibling</p><vc-error role="alert">`)

	err = e.RenderToTree(context.Background(), tree(), doc.Body())
	require.Error(t, err)
	assert.Equal(t, "E101", verrors.Code(err))
	assert.Same(t, div, doc.Body().Children()[0])
	assert.Same(t, p, div.Children()[0])
	require.Len(t, div.Children(), 2)
	assert.Equal(t, ErrorTag, div.Children()[1].Tag)
}

func TestComponentRenderingUndefinedComponent(t *testing.T) {
	hollow := vdom.DefineFunc("Hollow", func(vdom.Props) *vdom.VNode {
		return vdom.C(nil)
	})

	e, doc := newTestEngine(t)
	err := e.RenderToTree(context.Background(), vdom.Div(vdom.C(hollow), vdom.Span(vdom.Text("ok"))), doc.Body())

	require.Error(t, err)
	assert.Equal(t, "E101", verrors.Code(err))
	div := doc.Body().Children()[0]
	require.Len(t, div.Children(), 2)
	assert.Equal(t, ErrorTag, div.Children()[0].Tag)
	assert.Equal(t, "<span>ok</span>", doc.OuterHTML(div.Children()[1]))
}

func TestKeyedChildKeepsIdentityWhenPropsChange(t *testing.T) {
	inits := 0
	child := defineTally(&inits)
	parent := vdom.DefineFunc("Parent", func(p vdom.Props) *vdom.VNode {
		return vdom.Div(vdom.C(child, vdom.Key("x"), vdom.Prop("count", p.Get("count"))))
	})

	e, doc := newTestEngine(t)
	render(t, e, doc, vdom.C(parent, vdom.Prop("count", 1)))
	assert.Equal(t, `<div><span>count=1</span></div>`, html(doc))
	span := doc.Body().Children()[0].Children()[0]
	inst := e.InstanceAt(span)
	require.NotNil(t, inst)

	render(t, e, doc, vdom.C(parent, vdom.Prop("count", 2)))
	assert.Equal(t, `<div><span>count=2</span></div>`, html(doc))
	assert.Same(t, span, doc.Body().Children()[0].Children()[0])
	assert.Same(t, inst, e.InstanceAt(span))
	assert.Equal(t, 1, inits)
}

func TestShapeChangeInKeyedListIsPlacedOnce(t *testing.T) {
	list := func(middle string) *vdom.VNode {
		return vdom.Div(
			vdom.C(shape, vdom.Key("a"), vdom.Prop("label", "a")),
			vdom.C(shape, vdom.Key("b"), vdom.Prop("label", "b"), vdom.Prop("as", middle)),
			vdom.C(shape, vdom.Key("c"), vdom.Prop("label", "c")),
		)
	}

	e, doc := newTestEngine(t)
	render(t, e, doc, list("span"))
	div := doc.Body().Children()[0]
	first, last := div.Children()[0], div.Children()[2]
	inst := e.InstanceAt(div.Children()[1])
	doc.ResetMutations()

	render(t, e, doc, list("div"))
	ms := doc.Mutations()
	assert.Equal(t, `<div><span>a</span><div>b</div><span>c</span></div>`, html(doc))
	assert.Equal(t, 0, memhost.Count(ms, memhost.OpMoveNode))
	assert.Equal(t, 1, memhost.Count(ms, memhost.OpCreateElement))
	assert.Equal(t, 1, memhost.Count(ms, memhost.OpRemoveNode))
	assert.Same(t, first, div.Children()[0])
	assert.Same(t, last, div.Children()[2])
	assert.Same(t, inst, e.InstanceAt(div.Children()[1]))
}

func TestPositionMatchAcceptsOneSidedKey(t *testing.T) {
	e, doc := newTestEngine(t)
	render(t, e, doc, vdom.Ul(vdom.Li(vdom.Key("a"), vdom.Text("x"))))
	ul := doc.Body().Children()[0]
	li := ul.Children()[0]
	doc.ResetMutations()

	render(t, e, doc, vdom.Ul(vdom.Li(vdom.Text("y"))))
	ms := doc.Mutations()
	assert.Equal(t, `<ul><li>y</li></ul>`, html(doc))
	assert.Same(t, li, ul.Children()[0])
	assert.Equal(t, 0, memhost.Count(ms, memhost.OpCreateElement))
	assert.Equal(t, 0, memhost.Count(ms, memhost.OpRemoveNode))
	assert.Equal(t, 1, memhost.Count(ms, memhost.OpSetText))
}

func TestPositionMatchLeavesWantedKeyAlone(t *testing.T) {
	e, doc := newTestEngine(t)
	render(t, e, doc, vdom.Ul(vdom.Li(vdom.Key("a"), vdom.Text("x"))))
	ul := doc.Body().Children()[0]
	keyed := ul.Children()[0]
	doc.ResetMutations()

	render(t, e, doc, vdom.Ul(vdom.Li(vdom.Text("y")), vdom.Li(vdom.Key("a"), vdom.Text("x"))))
	ms := doc.Mutations()
	assert.Equal(t, `<ul><li>y</li><li>x</li></ul>`, html(doc))
	assert.Same(t, keyed, ul.Children()[1])
	assert.Equal(t, 1, memhost.Count(ms, memhost.OpCreateElement))
	assert.Equal(t, 0, memhost.Count(ms, memhost.OpRemoveNode))
	assert.Equal(t, 0, memhost.Count(ms, memhost.OpMoveNode))
}
