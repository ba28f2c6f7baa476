package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/vcore/pkg/host/memhost"
	"github.com/vango-dev/vcore/pkg/vdom"
)

func TestRegistryRecordAndBind(t *testing.T) {
	doc := memhost.New()
	r := NewRegistry()
	r.beginPass()

	h := doc.CreateElement("div")
	v := vdom.Div()
	inst := &Instance{ID: "c-test"}

	r.Record(h, v)
	assert.Same(t, v, r.VNodeOf(h))
	assert.Nil(t, r.InstanceOf(h))

	r.Bind(h, inst)
	assert.Same(t, inst, r.InstanceOf(h))

	entry, ok := r.Entry(v.ID)
	require.True(t, ok)
	assert.Equal(t, h, entry.Host)
	assert.Same(t, inst, entry.Instance)

	r.Unbind(h)
	assert.Nil(t, r.InstanceOf(h))
	entry, _ = r.Entry(v.ID)
	assert.Nil(t, entry.Instance)

	r.Forget(h)
	assert.Nil(t, r.VNodeOf(h))
	_, ok = r.Entry(v.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())
}

func TestRegistryDropsStaleEntries(t *testing.T) {
	doc := memhost.New()
	r := NewRegistry()
	h := doc.CreateElement("p")

	r.beginPass()
	first := vdom.P()
	r.Record(h, first)

	r.beginPass()
	second := vdom.P()
	r.Record(h, second)
	out := vdom.Span()
	r.Note(h, out)

	_, ok := r.Entry(first.ID)
	assert.False(t, ok, "entry from an earlier pass should be dropped")
	_, ok = r.Entry(second.ID)
	assert.True(t, ok)
	_, ok = r.Entry(out.ID)
	assert.True(t, ok, "entries noted in the same pass are kept")
	assert.Same(t, second, r.VNodeOf(h), "Note must not replace the last VNode")
}

func TestRegistryMove(t *testing.T) {
	doc := memhost.New()
	r := NewRegistry()
	r.beginPass()
	from, to := doc.CreateElement("div"), doc.CreateText("")
	v := vdom.C(vdom.DefineFunc("X", nil))
	inst := &Instance{ID: "c-move"}
	r.Record(from, v)
	r.Bind(from, inst)

	r.move(from, to)

	assert.Nil(t, r.InstanceOf(from))
	assert.Same(t, inst, r.InstanceOf(to))
	assert.Same(t, v, r.VNodeOf(to))
	entry, ok := r.Entry(v.ID)
	require.True(t, ok)
	assert.Equal(t, to, entry.Host)
}

func TestRegistryRoots(t *testing.T) {
	doc := memhost.New()
	r := NewRegistry()
	_, ok := r.Root(doc.Body())
	assert.False(t, ok)

	r.SetRoot(doc.Body(), &Root{Mount: doc.Body()})
	root, ok := r.Root(doc.Body())
	require.True(t, ok)
	assert.Equal(t, doc.Body(), root.Mount)

	r.DropRoot(doc.Body())
	_, ok = r.Root(doc.Body())
	assert.False(t, ok)
}
