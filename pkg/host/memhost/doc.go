// Package memhost is an in-memory host tree.
//
// Document implements host.Adapter together with the optional
// SelectionKeeper and PropertyReader capabilities. Every mutation is recorded
// in a log, which the CLI prints and the preview server streams to browsers.
// Trees serialize to HTML through golang.org/x/net/html, and the innerHTML
// property parses markup back into nodes.
//
//	doc := memhost.New()
//	eng := engine.New(doc)
//	err := eng.RenderToTree(ctx, app, doc.Body())
//	fmt.Println(doc.InnerHTML(doc.Body()))
package memhost
