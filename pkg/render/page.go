package render

import (
	"fmt"
	"io"

	"github.com/vango-dev/vcore/pkg/vdom"
)

// PageData contains everything needed to render a standalone document.
type PageData struct {
	// Body is the root VNode for the page content.
	Body *vdom.VNode

	// Title is the page title.
	Title string

	// Lang is the language attribute for the html element. Defaults to "en".
	Lang string

	// Meta contains meta tags for the page.
	Meta []MetaTag

	// StyleSheets contains paths to external stylesheets.
	StyleSheets []string

	// Styles contains inline CSS.
	Styles []string

	// Scripts are written at the end of the body.
	Scripts []ScriptTag
}

// MetaTag represents a meta element in the document head.
type MetaTag struct {
	Name     string
	Content  string
	Property string
}

// ScriptTag represents a script element.
type ScriptTag struct {
	Src    string
	Module bool
	Defer  bool
	Inline string
}

// RenderPage renders a complete HTML document to the given writer.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	if err := r.renderOpen(w, page); err != nil {
		return err
	}
	if err := r.RenderToWriter(w, page.Body); err != nil {
		return err
	}
	return r.renderClose(w, page)
}

// renderOpen writes everything up to and including the opening body tag.
func (r *Renderer) renderOpen(w io.Writer, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}
	if _, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html lang=\"%s\">\n", escapeAttr(lang)); err != nil {
		return err
	}
	if err := r.renderHead(w, page); err != nil {
		return err
	}
	_, err := io.WriteString(w, "<body>\n")
	return err
}

// renderClose writes the scripts and closes the document.
func (r *Renderer) renderClose(w io.Writer, page PageData) error {
	for _, script := range page.Scripts {
		if err := r.renderScriptTag(w, script); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</body>\n</html>\n")
	return err
}

// renderHead renders the document head section.
func (r *Renderer) renderHead(w io.Writer, page PageData) error {
	lines := []string{
		"<head>",
		`  <meta charset="utf-8">`,
		`  <meta name="viewport" content="width=device-width, initial-scale=1">`,
	}
	if page.Title != "" {
		lines = append(lines, "  <title>"+escapeHTML(page.Title)+"</title>")
	}
	for _, meta := range page.Meta {
		line := "  <meta"
		if meta.Name != "" {
			line += ` name="` + escapeAttr(meta.Name) + `"`
		}
		if meta.Property != "" {
			line += ` property="` + escapeAttr(meta.Property) + `"`
		}
		line += ` content="` + escapeAttr(meta.Content) + `">`
		lines = append(lines, line)
	}
	for _, href := range page.StyleSheets {
		lines = append(lines, `  <link rel="stylesheet" href="`+escapeAttr(href)+`">`)
	}
	for _, style := range page.Styles {
		lines = append(lines, "  <style>"+style+"</style>")
	}
	lines = append(lines, "</head>")

	for _, line := range lines {
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// renderScriptTag renders a script element.
func (r *Renderer) renderScriptTag(w io.Writer, script ScriptTag) error {
	tag := "<script"
	if script.Src != "" {
		tag += ` src="` + escapeAttr(script.Src) + `"`
	}
	if script.Module {
		tag += ` type="module"`
	}
	if script.Defer {
		tag += " defer"
	}
	_, err := fmt.Fprintf(w, "%s>%s</script>\n", tag, script.Inline)
	return err
}
