package vdom

import (
	"strings"
	"testing"
)

func TestDump(t *testing.T) {
	tree := Div(Key("root"), Class("c"), OnClick(func() {}),
		Span(Text("hello")),
		Raw("<b>x</b>"),
	)
	out := Dump(tree)

	for _, want := range []string{"<div> key=root class=c", "<span>", `"hello"`, `raw "<b>x</b>"`} {
		if !strings.Contains(out, want) {
			t.Errorf("Dump missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "onclick") {
		t.Errorf("Dump should omit handlers:\n%s", out)
	}
	if Dump(nil) != "<nil>\n" {
		t.Errorf("Dump(nil) = %q", Dump(nil))
	}
}
