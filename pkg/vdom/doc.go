// Package vdom provides the virtual node model for vcore.
//
// A virtual node (VNode) is a lightweight, disposable description of desired
// UI structure. Render functions build a fresh VNode tree on every call; the
// engine package reconciles that tree against a live host tree.
//
// # Core Types
//
// VNode is the tagged union over elements, text, fragments, components and
// trusted raw markup. Props holds attributes and event handlers. Attr and
// EventHandler are used to build Props. ComponentDef is the component
// reference compared for identity across renders.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Div(Class("card"), Key("main"),
//	    H1(Text("Title")),
//	    P(Text("Content")),
//	    OnClick(handler),
//	)
//
// # Node identity
//
// Every VNode built by a constructor carries an ID assigned from a
// process-wide counter. VNodes are never mutated after construction; per-node
// bookkeeping (flattened children, bound host node, bound instance) lives in
// side tables keyed by ID.
//
// # Slots
//
// Children passed to a component may be tagged with Slot("name"). The
// component declares insertion points with Outlet("name"); Project splices
// the tagged children into those insertion points.
package vdom
