// Package render serializes resolved VNode trees to static markup without
// touching a host tree.
//
// The input must be resolved: element, text, fragment and raw nodes only.
// A component node is reported as an E102 error, since rendering it needs
// the instance state owned by an engine. Slot outlets that were never
// projected render their fallback children.
//
// # Basic Usage
//
//	html, err := render.RenderToText(node)
//
// With options:
//
//	r := render.NewRenderer(render.RendererConfig{Pretty: true, SanitizeRaw: true})
//	err := r.RenderToWriter(w, node)
//
// # Documents
//
// RenderPage wraps a tree in a complete HTML document. StreamingRenderer does
// the same for an http.ResponseWriter, flushing the head before the body.
//
// # Security
//
// Text and attribute values are escaped. Raw nodes are written as is unless
// SanitizeRaw is set, in which case they go through a bluemonday policy.
package render
