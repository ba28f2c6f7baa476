package vdom

import "strings"

func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Prop sets a prop by name. Element props become host attributes or native
// properties; component props are handed to the component unchanged.
func Prop(key string, value any) Attr { return attr(key, value) }

// Slot names the component slot a child is projected into.
func Slot(name string) Attr { return attr(SlotProp, name) }

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute. Several names are joined with spaces, and
// repeated Class arguments on one element accumulate.
func Class(names ...string) Attr { return attr("class", strings.Join(names, " ")) }

// Classes hands class values to the patcher as a list. Strings, []string and
// map[string]bool (keys with a true value) are accepted.
func Classes(values ...any) Attr {
	var names []string
	add := func(s string) {
		if s != "" {
			names = append(names, s)
		}
	}
	for _, v := range values {
		switch v := v.(type) {
		case string:
			add(v)
		case []string:
			for _, s := range v {
				add(s)
			}
		case map[string]bool:
			for s, on := range v {
				if on {
					add(s)
				}
			}
		}
	}
	return attr("class", names)
}

// Style sets inline style from a declaration string or a map[string]string.
func Style(style any) Attr { return attr("style", style) }

// Data sets the data-<key> attribute.
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Role sets the role attribute.
func Role(role string) Attr { return attr("role", role) }

// Href sets the href attribute.
func Href(url string) Attr { return attr("href", url) }

// Name sets the name attribute.
func Name(name string) Attr { return attr("name", name) }

// Type sets the type attribute.
func Type(t string) Attr { return attr("type", t) }

// Value sets the value property of form controls.
func Value(value any) Attr { return attr("value", value) }

// Checked sets the checked property.
func Checked(checked bool) Attr { return attr("checked", checked) }

// Disabled marks a control disabled.
func Disabled() Attr { return attr("disabled", true) }
