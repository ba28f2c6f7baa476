package vdom

import "testing"

func TestElementArgs(t *testing.T) {
	handler := func() {}
	node := Div(
		nil,
		true,
		ID("main"),
		[]Attr{Class("a"), Data("x", "1")},
		OnClick(handler),
		Span(),
		[]*VNode{P(), nil, Ul()},
		"text",
	)

	if node.Kind != KindElement || node.Tag != "div" {
		t.Fatalf("got %v %q, want element div", node.Kind, node.Tag)
	}
	if node.Props["id"] != "main" {
		t.Errorf("id = %v, want main", node.Props["id"])
	}
	if node.Props["class"] != "a" {
		t.Errorf("class = %v, want a", node.Props["class"])
	}
	if node.Props["data-x"] != "1" {
		t.Errorf("data-x = %v, want 1", node.Props["data-x"])
	}
	if node.Props["onclick"] == nil {
		t.Errorf("onclick handler missing")
	}
	if len(node.Children) != 4 {
		t.Fatalf("Children len = %d, want 4", len(node.Children))
	}
	if node.Children[3].Kind != KindText || node.Children[3].Text != "text" {
		t.Errorf("string arg not turned into text node")
	}
}

func TestKeyAttrSetsKey(t *testing.T) {
	node := Li(Key(42))
	if node.Key != "42" {
		t.Errorf("Key = %q, want 42", node.Key)
	}
	if _, ok := node.Props["key"]; ok {
		t.Errorf("key should not be stored as a prop")
	}
}

func TestRepeatedClassesJoin(t *testing.T) {
	node := Div(Class("a"), If(false, nil), Class("b"))
	if got := node.Props["class"]; got != "a b" {
		t.Errorf("class = %v, want %q", got, "a b")
	}
}

func TestElComponentArg(t *testing.T) {
	def := DefineFunc("Badge", func(Props) *VNode { return Span() })
	node := El("custom-el", def)
	if node.Tag != "custom-el" {
		t.Errorf("Tag = %q, want custom-el", node.Tag)
	}
	if len(node.Children) != 1 || node.Children[0].Def != def {
		t.Errorf("component def arg not turned into component node")
	}
}

func TestIsVoidElement(t *testing.T) {
	for _, tag := range []string{"br", "hr", "img", "input"} {
		if !IsVoidElement(tag) {
			t.Errorf("IsVoidElement(%q) = false, want true", tag)
		}
	}
	for _, tag := range []string{"div", "span", "slot"} {
		if IsVoidElement(tag) {
			t.Errorf("IsVoidElement(%q) = true, want false", tag)
		}
	}
}

func TestElementFactories(t *testing.T) {
	tests := []struct {
		fn  func(...any) *VNode
		tag string
	}{
		{Div, "div"}, {Span, "span"}, {P, "p"}, {Ul, "ul"}, {Li, "li"},
		{Button, "button"}, {Input, "input"}, {Textarea, "textarea"},
		{H1, "h1"}, {H2, "h2"}, {H3, "h3"}, {Section, "section"},
		{Header, "header"}, {Footer, "footer"}, {Main, "main"}, {Nav, "nav"},
		{A, "a"}, {Label, "label"}, {Form, "form"}, {Select, "select"},
		{Option, "option"}, {Table, "table"}, {Img, "img"},
	}

	for _, tt := range tests {
		if got := tt.fn().Tag; got != tt.tag {
			t.Errorf("factory tag = %q, want %q", got, tt.tag)
		}
	}
}
