package vdom

// On attaches a handler for the named host event ("click", "custom-thing").
// The handler is a func(), a func(host.Event) or a func(string) receiving the
// event value. A nil handler is dropped.
func On(name string, handler any) EventHandler {
	return EventHandler{Event: "on" + name, Handler: handler}
}

// OnClick is On("click", handler).
func OnClick(handler any) EventHandler { return On("click", handler) }

// OnInput is On("input", handler).
func OnInput(handler any) EventHandler { return On("input", handler) }

// OnFocus is On("focus", handler).
func OnFocus(handler any) EventHandler { return On("focus", handler) }
