// Package errors provides structured, coded errors for vcore.
//
// Every error raised by the engine, the text renderer, configuration
// loading and the CLI carries a code (e.g. "E103") that maps to a short
// message, a longer explanation and a category.
//
// # Error Categories
//
//   - render: failures inside a render pass (bad node shapes, component panics)
//   - identity: component identity could not be recovered across a re-render
//   - config: vcore.yaml / vcore.json problems
//   - tree: tree file problems (CLI and preview server input)
//   - export: static export failures
//   - cli: command line usage errors
//
// # Usage
//
//	err := errors.New("E103").
//	    WithDetail("component Counter panicked: index out of range").
//	    WithSuggestion("Check the Render method of Counter")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E103: Component render failed
//	//
//	//   component Counter panicked: index out of range
//	//
//	//   Hint: Check the Render method of Counter
package errors
