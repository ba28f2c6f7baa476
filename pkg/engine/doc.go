// Package engine keeps a live host tree in sync with virtual node trees.
//
// An Engine owns a Registry of identity bindings and drives components
// through their lifecycle. Each call to RenderToTree renders the tree,
// resolves which host nodes and component instances survive from the previous
// pass, and applies the smallest set of host mutations it can find:
//
//	doc := memhost.New()
//	eng := engine.New(doc)
//	if err := eng.RenderToTree(ctx, vdom.C(App), doc.Body()); err != nil {
//	    log.Fatal(err)
//	}
//
// # Identity
//
// Virtual nodes are rebuilt on every render, so a component instance cannot
// be found by pointer. Children are matched against the live host children
// of their parent by explicit key, then by position, then by the side-table
// entry of a reused VNode, and finally, for components, by searching the old
// subtree for an unclaimed instance of the same definition.
//
// # Errors
//
// A panic inside a component's Render or Initialize is contained: the
// component shows a vc-error placeholder and the rest of the tree renders.
// A panic escaping a whole pass replaces the mount point's content with a
// diagnostic view. Errors are always logged and are returned to the caller
// unless Options.Production is set.
//
// # Concurrency
//
// An Engine and its Registry must be driven from a single goroutine.
package engine
