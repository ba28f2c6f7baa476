package engine

import "github.com/vango-dev/vcore/pkg/host"

// countingAdapter counts host mutations for metrics and pass spans.
type countingAdapter struct {
	host.Adapter
	metrics *Metrics
	count   int
}

func (a *countingAdapter) mutated(op string) {
	a.count++
	a.metrics.mutation(op)
}

func (a *countingAdapter) CreateElement(tag string) host.Node {
	a.mutated("create_element")
	return a.Adapter.CreateElement(tag)
}

func (a *countingAdapter) CreateText(value string) host.Node {
	a.mutated("create_text")
	return a.Adapter.CreateText(value)
}

func (a *countingAdapter) SetText(n host.Node, value string) {
	a.mutated("set_text")
	a.Adapter.SetText(n, value)
}

func (a *countingAdapter) SetAttribute(n host.Node, name, value string) {
	a.mutated("set_attribute")
	a.Adapter.SetAttribute(n, name, value)
}

func (a *countingAdapter) RemoveAttribute(n host.Node, name string) {
	a.mutated("remove_attribute")
	a.Adapter.RemoveAttribute(n, name)
}

func (a *countingAdapter) SetProperty(n host.Node, name string, value any) {
	a.mutated("set_property")
	a.Adapter.SetProperty(n, name, value)
}

func (a *countingAdapter) AddEventListener(n host.Node, event string, l *host.Listener) {
	a.mutated("add_listener")
	a.Adapter.AddEventListener(n, event, l)
}

func (a *countingAdapter) RemoveEventListener(n host.Node, event string, l *host.Listener) {
	a.mutated("remove_listener")
	a.Adapter.RemoveEventListener(n, event, l)
}

func (a *countingAdapter) AppendChild(parent, child host.Node) {
	a.mutated("insert")
	a.Adapter.AppendChild(parent, child)
}

func (a *countingAdapter) InsertBefore(parent, child, ref host.Node) {
	a.mutated("insert")
	a.Adapter.InsertBefore(parent, child, ref)
}

func (a *countingAdapter) RemoveChild(parent, child host.Node) {
	a.mutated("remove")
	a.Adapter.RemoveChild(parent, child)
}
