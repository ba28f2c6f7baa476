package vdom

import "testing"

func TestNormalizerChildren(t *testing.T) {
	a, b, c := Span(), P(), Li()
	parent := Div(a, Fragment(b, Fragment(nil, c)), nil)

	n := NewNormalizer()
	got := n.Children(parent)
	if len(got) != 3 || got[0] != a || got[1] != b || got[2] != c {
		t.Fatalf("Children = %v, want [a b c]", got)
	}
	if len(parent.Children) != 2 {
		t.Errorf("input modified: %d children", len(parent.Children))
	}

	again := n.Children(parent)
	if &again[0] != &got[0] {
		t.Errorf("second call was not served from the cache")
	}

	n.Reset()
	if len(n.children) != 0 {
		t.Errorf("Reset left %d entries", len(n.children))
	}
}

func TestNormalizerNormalize(t *testing.T) {
	n := NewNormalizer()
	single := Div()
	multi := Fragment(Div(), Span())

	if n.Normalize(nil) != nil {
		t.Errorf("Normalize(nil) should be nil")
	}
	if got := n.Normalize(Fragment(Fragment(single))); got != single {
		t.Errorf("single-node fragment not collapsed")
	}
	if got := n.Normalize(multi); got != multi {
		t.Errorf("multi-node fragment should be returned unchanged")
	}
	if got := n.Normalize(single); got != single {
		t.Errorf("element should be returned unchanged")
	}
}

func TestFlattenNoAllocWhenFlat(t *testing.T) {
	in := []*VNode{Div(), Span()}
	out := Flatten(in)
	if &out[0] != &in[0] {
		t.Errorf("already-flat list was copied")
	}
}
