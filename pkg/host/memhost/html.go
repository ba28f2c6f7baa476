package memhost

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// OuterHTML serializes n and its subtree.
func (d *Document) OuterHTML(n *Node) string {
	var buf bytes.Buffer
	if err := html.Render(&buf, toHTML(n)); err != nil {
		return fmt.Sprintf("<!-- render error: %v -->", err)
	}
	return buf.String()
}

// InnerHTML serializes n's children.
func (d *Document) InnerHTML(n *Node) string {
	var buf bytes.Buffer
	for _, c := range n.children {
		if err := html.Render(&buf, toHTML(c)); err != nil {
			fmt.Fprintf(&buf, "<!-- render error: %v -->", err)
		}
	}
	return buf.String()
}

// ParseFragment parses markup into detached nodes owned by d. Comments and
// doctypes are dropped.
func (d *Document) ParseFragment(markup string) ([]*Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	parsed, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}
	out := make([]*Node, 0, len(parsed))
	for _, hn := range parsed {
		if n := d.fromHTML(hn); n != nil {
			out = append(out, n)
		}
	}
	return out, nil
}

func (d *Document) fromHTML(hn *html.Node) *Node {
	switch hn.Type {
	case html.TextNode:
		n := d.newNode(TextNode, "")
		n.Text = hn.Data
		return n
	case html.ElementNode:
		n := d.newNode(ElementNode, hn.Data)
		for _, a := range hn.Attr {
			n.attrs[a.Key] = a.Val
		}
		for c := hn.FirstChild; c != nil; c = c.NextSibling {
			if child := d.fromHTML(c); child != nil {
				child.parent = n
				n.children = append(n.children, child)
			}
		}
		return n
	default:
		return nil
	}
}

// toHTML converts a subtree to x/net/html nodes. Native properties that have
// a markup form (value, checked, selected) are rendered as attributes.
func toHTML(n *Node) *html.Node {
	if n.Type == TextNode {
		return &html.Node{Type: html.TextNode, Data: n.Text}
	}
	hn := &html.Node{
		Type:     html.ElementNode,
		Data:     n.Tag,
		DataAtom: atom.Lookup([]byte(n.Tag)),
	}

	attrs := n.Attrs()
	for _, name := range []string{"checked", "selected"} {
		if on, _ := n.props[name].(bool); on {
			attrs[name] = ""
		}
	}
	value, hasValue := n.props["value"]
	if hasValue && value != nil && n.Tag != "textarea" {
		attrs["value"] = fmt.Sprint(value)
	}

	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		hn.Attr = append(hn.Attr, html.Attribute{Key: k, Val: attrs[k]})
	}

	if n.Tag == "textarea" && hasValue && value != nil {
		hn.AppendChild(&html.Node{Type: html.TextNode, Data: fmt.Sprint(value)})
		return hn
	}
	for _, c := range n.children {
		hn.AppendChild(toHTML(c))
	}
	return hn
}
