package vdom

import "testing"

func TestText(t *testing.T) {
	node := Text("Hello, World!")

	if node.Kind != KindText {
		t.Errorf("Kind = %v, want KindText", node.Kind)
	}
	if node.Text != "Hello, World!" {
		t.Errorf("Text = %v, want 'Hello, World!'", node.Text)
	}
}

func TestTextf(t *testing.T) {
	node := Textf("Count: %d", 42)
	if node.Text != "Count: 42" {
		t.Errorf("Text = %v, want 'Count: 42'", node.Text)
	}
}

func TestRaw(t *testing.T) {
	node := Raw("<strong>Bold</strong>")

	if node.Kind != KindRaw {
		t.Errorf("Kind = %v, want KindRaw", node.Kind)
	}
	if node.Text != "<strong>Bold</strong>" {
		t.Errorf("Text = %v, want '<strong>Bold</strong>'", node.Text)
	}
}

func TestFragment(t *testing.T) {
	t.Run("with VNodes", func(t *testing.T) {
		node := Fragment(Div(), Span(), P())
		if node.Kind != KindFragment {
			t.Errorf("Kind = %v, want KindFragment", node.Kind)
		}
		if len(node.Children) != 3 {
			t.Errorf("Children len = %v, want 3", len(node.Children))
		}
	})

	t.Run("keeps key only", func(t *testing.T) {
		node := Fragment(Key("k"), Class("dropped"), Div())
		if node.Key != "k" {
			t.Errorf("Key = %q, want k", node.Key)
		}
		if node.Props != nil {
			t.Errorf("Props = %v, want nil", node.Props)
		}
	})
}

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		node *VNode
		want bool
	}{
		{"nil", nil, true},
		{"sentinel", Empty(), true},
		{"nested empty fragments", Fragment(Fragment(), Fragment(nil)), true},
		{"fragment with node", Fragment(Div()), false},
		{"element", Div(), false},
		{"empty text", Text(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsEmpty(tt.node); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConditionals(t *testing.T) {
	a := Div()

	if If(true, a) != a || If(false, a) != nil {
		t.Errorf("If returned wrong node")
	}
}

func TestRange(t *testing.T) {
	items := []string{"a", "b", "skip", "c"}
	nodes := Range(items, func(s string, i int) *VNode {
		if s == "skip" {
			return nil
		}
		return Li(Key(s), Text(s))
	})

	if len(nodes) != 3 {
		t.Fatalf("len = %d, want 3", len(nodes))
	}
	if nodes[2].Key != "c" {
		t.Errorf("nodes[2].Key = %q, want c", nodes[2].Key)
	}
}
