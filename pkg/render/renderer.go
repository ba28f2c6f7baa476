package render

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	verrors "github.com/vango-dev/vcore/internal/errors"
	"github.com/vango-dev/vcore/pkg/engine"
	"github.com/vango-dev/vcore/pkg/vdom"
)

// RendererConfig configures the text renderer.
type RendererConfig struct {
	// Pretty enables indented output. Whitespace inside inline elements is
	// left alone.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string

	// SanitizeRaw passes raw markup through Policy before writing it.
	SanitizeRaw bool

	// Policy is the sanitizer used when SanitizeRaw is set. Defaults to
	// bluemonday.UGCPolicy.
	Policy *bluemonday.Policy
}

// Renderer serializes resolved VNode trees to markup.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	if config.SanitizeRaw && config.Policy == nil {
		config.Policy = bluemonday.UGCPolicy()
	}
	return &Renderer{config: config}
}

// RenderToText serializes v with the default configuration. The tree must be
// resolved: a component node is an E102 error.
func RenderToText(v *vdom.VNode) (string, error) {
	return NewRenderer(RendererConfig{}).RenderToString(v)
}

// RenderToString renders a VNode tree to a string.
func (r *Renderer) RenderToString(node *vdom.VNode) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams a VNode tree to the given writer.
func (r *Renderer) RenderToWriter(w io.Writer, node *vdom.VNode) error {
	return r.renderNode(w, node, 0)
}

// renderNode dispatches rendering based on node kind.
func (r *Renderer) renderNode(w io.Writer, node *vdom.VNode, depth int) error {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case vdom.KindElement:
		if node.IsOutlet() {
			// an outlet that was never projected shows its fallback
			return r.renderChildren(w, node.Children, depth)
		}
		return r.renderElement(w, node, depth)
	case vdom.KindText:
		return r.renderText(w, node)
	case vdom.KindFragment:
		return r.renderChildren(w, node.Children, depth)
	case vdom.KindComponent:
		return verrors.New("E102").
			WithDetail(node.Def.Name()).
			WithSuggestion("Mount the tree with engine.RenderToTree to resolve components").
			WithSubject(node)
	case vdom.KindRaw:
		return r.renderRaw(w, node)
	default:
		return verrors.New("E101").
			WithDetail(fmt.Sprintf("kind %d", node.Kind)).
			WithSubject(node)
	}
}

// renderElement renders an element with its attributes and children.
func (r *Renderer) renderElement(w io.Writer, node *vdom.VNode, depth int) error {
	tag := node.Tag

	if r.config.Pretty && depth > 0 {
		r.writeIndent(w, depth)
	}

	if _, err := fmt.Fprintf(w, "<%s", tag); err != nil {
		return err
	}
	if err := r.renderAttributes(w, node); err != nil {
		return err
	}
	if _, err := w.Write([]byte{'>'}); err != nil {
		return err
	}

	if vdom.IsVoidElement(tag) {
		r.newline(w)
		return nil
	}

	block := len(node.Children) > 0 && !isInlineElement(tag)
	if r.config.Pretty && block {
		w.Write([]byte{'\n'})
	}
	if err := r.renderChildren(w, node.Children, depth+1); err != nil {
		return err
	}
	if r.config.Pretty && block {
		r.writeIndent(w, depth)
	}

	if _, err := fmt.Fprintf(w, "</%s>", tag); err != nil {
		return err
	}
	r.newline(w)
	return nil
}

func (r *Renderer) renderChildren(w io.Writer, children []*vdom.VNode, depth int) error {
	for _, child := range children {
		if err := r.renderNode(w, child, depth); err != nil {
			return err
		}
	}
	return nil
}

// renderText renders a text node with HTML escaping.
func (r *Renderer) renderText(w io.Writer, node *vdom.VNode) error {
	_, err := io.WriteString(w, escapeHTML(node.Text))
	return err
}

// renderRaw writes trusted markup unescaped, sanitized when configured.
func (r *Renderer) renderRaw(w io.Writer, node *vdom.VNode) error {
	markup := node.Text
	if r.config.SanitizeRaw {
		markup = r.config.Policy.Sanitize(markup)
	}
	_, err := io.WriteString(w, markup)
	return err
}

// renderAttributes renders all attributes for an element. Event handlers,
// keys and slot names have no markup form.
func (r *Renderer) renderAttributes(w io.Writer, node *vdom.VNode) error {
	if node.Props == nil {
		return nil
	}

	// Sort keys for deterministic output
	keys := make([]string, 0, len(node.Props))
	for key := range node.Props {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := node.Props[key]
		if value == nil || key == "key" || key == vdom.SlotProp || isEventHandler(value) {
			continue
		}

		if b, ok := value.(bool); ok {
			if isBooleanAttr(key) {
				if b {
					if _, err := fmt.Fprintf(w, " %s", key); err != nil {
						return err
					}
				}
				continue
			}
		}

		var s string
		switch key {
		case "class":
			s = engine.ClassString(value)
		case "style":
			s = engine.StyleString(value)
		default:
			s = attrToString(value)
		}
		if s == "" {
			continue
		}
		if _, err := fmt.Fprintf(w, ` %s="%s"`, key, escapeAttr(s)); err != nil {
			return err
		}
	}
	return nil
}

// isEventHandler reports whether the value is a handler rather than data.
func isEventHandler(value any) bool {
	switch value.(type) {
	case vdom.EventHandler:
		return true
	}
	return strings.HasPrefix(fmt.Sprintf("%T", value), "func")
}

// attrToString converts an attribute value to a string.
func attrToString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	case float64:
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprint(v)
	}
}

func (r *Renderer) newline(w io.Writer) {
	if r.config.Pretty {
		w.Write([]byte{'\n'})
	}
}

// writeIndent writes indentation for pretty printing.
func (r *Renderer) writeIndent(w io.Writer, depth int) {
	io.WriteString(w, strings.Repeat(r.config.Indent, depth))
}
