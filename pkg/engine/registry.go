package engine

import (
	"github.com/vango-dev/vcore/pkg/host"
	"github.com/vango-dev/vcore/pkg/vdom"
)

// Entry is the side-table record of a VNode: the host node it produced and
// the instance bound to that host node.
type Entry struct {
	Host     host.Node
	Instance *Instance
}

// Root is the record of a mount point.
type Root struct {
	// Mount is the container the tree is rendered into.
	Mount host.Node

	// VNode is the tree of the last pass.
	VNode *vdom.VNode

	// Passes counts completed passes.
	Passes int
}

type hostRecord struct {
	vnode    *vdom.VNode
	instance *Instance
	ids      []vdom.NodeID
	pass     uint64
}

// Registry holds the identity bindings of an engine: host node to instance,
// host node to last VNode, mount point to root record and VNode ID to side
// table entry. It is not safe for concurrent use.
type Registry struct {
	hosts   map[host.Node]*hostRecord
	entries map[vdom.NodeID]*Entry
	roots   map[host.Node]*Root
	pass    uint64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		hosts:   make(map[host.Node]*hostRecord),
		entries: make(map[vdom.NodeID]*Entry),
		roots:   make(map[host.Node]*Root),
	}
}

// beginPass starts a new pass. Side-table entries noted for a host node in
// an earlier pass are dropped the first time the node is noted again.
func (r *Registry) beginPass() {
	r.pass++
}

func (r *Registry) record(h host.Node) *hostRecord {
	rec, ok := r.hosts[h]
	if !ok {
		rec = &hostRecord{pass: r.pass}
		r.hosts[h] = rec
	}
	return rec
}

// Record stores v as the last VNode of h and notes v's side-table entry.
func (r *Registry) Record(h host.Node, v *vdom.VNode) {
	rec := r.record(h)
	rec.vnode = v
	r.note(rec, h, v)
}

// Note adds a side-table entry for v pointing at h without changing the
// last VNode of h. Used for component outputs that share their host node.
func (r *Registry) Note(h host.Node, v *vdom.VNode) {
	r.note(r.record(h), h, v)
}

func (r *Registry) note(rec *hostRecord, h host.Node, v *vdom.VNode) {
	if v == nil || v.ID == 0 {
		return
	}
	if rec.pass != r.pass {
		r.dropEntries(rec, h)
		rec.pass = r.pass
	}
	r.entries[v.ID] = &Entry{Host: h, Instance: rec.instance}
	rec.ids = append(rec.ids, v.ID)
}

func (r *Registry) dropEntries(rec *hostRecord, h host.Node) {
	for _, id := range rec.ids {
		if e, ok := r.entries[id]; ok && e.Host == h {
			delete(r.entries, id)
		}
	}
	rec.ids = rec.ids[:0]
}

// Bind binds inst as the outermost instance of h.
func (r *Registry) Bind(h host.Node, inst *Instance) {
	rec := r.record(h)
	rec.instance = inst
	for _, id := range rec.ids {
		if e, ok := r.entries[id]; ok && e.Host == h {
			e.Instance = inst
		}
	}
}

// Unbind removes the instance binding of h.
func (r *Registry) Unbind(h host.Node) {
	rec, ok := r.hosts[h]
	if !ok {
		return
	}
	rec.instance = nil
	for _, id := range rec.ids {
		if e, ok := r.entries[id]; ok && e.Host == h {
			e.Instance = nil
		}
	}
}

// InstanceOf returns the outermost instance bound to h.
func (r *Registry) InstanceOf(h host.Node) *Instance {
	if rec, ok := r.hosts[h]; ok {
		return rec.instance
	}
	return nil
}

// VNodeOf returns the last VNode recorded for h.
func (r *Registry) VNodeOf(h host.Node) *vdom.VNode {
	if rec, ok := r.hosts[h]; ok {
		return rec.vnode
	}
	return nil
}

// Forget drops every record of h.
func (r *Registry) Forget(h host.Node) {
	rec, ok := r.hosts[h]
	if !ok {
		return
	}
	r.dropEntries(rec, h)
	delete(r.hosts, h)
}

// move transfers the records of from to to. Used when a component's output
// changes shape and a new host node replaces the old one.
func (r *Registry) move(from, to host.Node) {
	rec, ok := r.hosts[from]
	if !ok {
		return
	}
	r.dropEntries(rec, from)
	delete(r.hosts, from)
	nrec := r.record(to)
	nrec.vnode = rec.vnode
	nrec.instance = rec.instance
	r.note(nrec, to, rec.vnode)
}

// Entry returns the side-table entry of a VNode ID.
func (r *Registry) Entry(id vdom.NodeID) (*Entry, bool) {
	e, ok := r.entries[id]
	return e, ok
}

// Root returns the root record of a mount point.
func (r *Registry) Root(mount host.Node) (*Root, bool) {
	root, ok := r.roots[mount]
	return root, ok
}

// SetRoot stores the root record of a mount point.
func (r *Registry) SetRoot(mount host.Node, root *Root) {
	r.roots[mount] = root
}

// DropRoot removes the root record of a mount point.
func (r *Registry) DropRoot(mount host.Node) {
	delete(r.roots, mount)
}

// Len returns the number of host nodes with records.
func (r *Registry) Len() int {
	return len(r.hosts)
}

// Instances returns every bound instance, outermost first per host node.
func (r *Registry) Instances() []*Instance {
	var out []*Instance
	for _, rec := range r.hosts {
		for inst := rec.instance; inst != nil; inst = inst.inner {
			out = append(out, inst)
		}
	}
	return out
}
