// Package dev provides the preview server.
//
// The server renders a tree file into an in-memory host tree with the
// reconciling engine and keeps browsers in sync with it:
//
//   - Watcher: reports changes to the tree file (fsnotify, debounced)
//   - Server: re-renders the tree on change and serves the page
//   - Broadcaster: streams each pass to browsers over a websocket
//
// Re-rendering reuses the engine and mount point of the previous pass, so
// each patch message carries only the host mutations needed to move from the
// old tree to the new one.
//
// # Usage
//
//	srv := dev.NewServer(dev.ServerOptions{Config: cfg})
//
//	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer cancel()
//
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Routes
//
//	GET /            page with the current markup and the client script
//	GET /_vcore/ws   websocket message stream
//	GET /metrics     engine metrics (when metrics are enabled)
//
// # Protocol
//
// Messages are JSON-encoded:
//
//	{"type": "patch", "pass": 3, "mutations": [...], "html": "..."}
//	{"type": "error", "error": "..."}   // shows the error overlay
//	{"type": "clear"}                   // clears the error overlay
//	{"type": "reload"}                  // reloads the page
//
// A client that connects receives the current markup, and the current error
// if there is one, before any broadcast.
package dev
