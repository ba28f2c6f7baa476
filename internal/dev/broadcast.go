package dev

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/vcore/pkg/host/memhost"
	"github.com/vango-dev/vcore/pkg/protocol"
)

// MessageType is the type of a preview message.
type MessageType string

const (
	// MessageTypePatch carries the mutations of a render pass and the markup
	// they produced.
	MessageTypePatch MessageType = "patch"

	// MessageTypeError reports a tree file or render error.
	MessageTypeError MessageType = "error"

	// MessageTypeClear clears a previously reported error.
	MessageTypeClear MessageType = "clear"

	// MessageTypeReload asks clients to reload the page.
	MessageTypeReload MessageType = "reload"
)

// Message is sent to preview clients over the websocket.
type Message struct {
	Type      MessageType        `json:"type"`
	Pass      int                `json:"pass,omitempty"`
	Mutations []memhost.Mutation `json:"mutations,omitempty"`
	HTML      string             `json:"html,omitempty"`
	Error     string             `json:"error,omitempty"`
}

// client is a connected websocket. Binary clients receive the patches of
// render passes as protocol mutation frames; every other message is JSON text.
type client struct {
	conn   *websocket.Conn
	lock   sync.Mutex
	binary bool
}

// Broadcaster fans messages out to connected websocket clients.
type Broadcaster struct {
	clients  map[*websocket.Conn]*client
	mu       sync.RWMutex
	upgrader websocket.Upgrader
	logger   *slog.Logger

	// OnConnect, if set, returns the messages a new client receives before
	// any broadcast.
	OnConnect func() []Message
}

// NewBroadcaster creates a broadcaster with no clients.
func NewBroadcaster(logger *slog.Logger) *Broadcaster {
	if logger == nil {
		logger = slog.Default().With("component", "dev")
	}
	return &Broadcaster{
		clients: make(map[*websocket.Conn]*client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // local preview only
			},
		},
		logger: logger,
	}
}

// HandleWebSocket upgrades the request and keeps the connection registered
// until the client goes away. Clients that connect with ?format=binary get
// patches as binary frames.
func (b *Broadcaster) HandleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := b.upgrader.Upgrade(w, req, nil)
	if err != nil {
		b.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn, binary: req.URL.Query().Get("format") == "binary"}
	if b.OnConnect != nil {
		for _, msg := range b.OnConnect() {
			f := newFrames(msg)
			f.textOnly = true
			if err := b.send(c, f); err != nil {
				conn.Close()
				return
			}
		}
	}

	b.mu.Lock()
	b.clients[conn] = c
	b.mu.Unlock()
	b.logger.Debug("preview client connected", "remote", req.RemoteAddr, "binary", c.binary)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	b.drop(conn)
}

// Broadcast sends msg to every client. Clients that fail to receive it are
// disconnected.
func (b *Broadcaster) Broadcast(msg Message) {
	f := newFrames(msg)

	b.mu.RLock()
	clients := make([]*client, 0, len(b.clients))
	for _, c := range b.clients {
		clients = append(clients, c)
	}
	b.mu.RUnlock()

	for _, c := range clients {
		if err := b.send(c, f); err != nil {
			b.drop(c.conn)
		}
	}
}

// ClientCount returns the number of connected clients.
func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// Close disconnects all clients.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for conn := range b.clients {
		conn.Close()
		delete(b.clients, conn)
	}
}

// frames encodes a message once per format, on first use. Text-only frames
// go out as JSON to every client; the connect snapshot is one, since a
// mutation frame cannot carry markup.
type frames struct {
	msg      Message
	textOnly bool
	text     []byte
	binary   []byte
}

func newFrames(msg Message) *frames { return &frames{msg: msg} }

func (f *frames) encode(binary bool) (int, []byte, error) {
	if binary && !f.textOnly && f.msg.Type == MessageTypePatch {
		if f.binary == nil {
			f.binary = protocol.EncodeMutations(&protocol.MutationsFrame{
				Pass:      uint64(f.msg.Pass),
				Mutations: f.msg.Mutations,
			})
		}
		return websocket.BinaryMessage, f.binary, nil
	}
	if f.text == nil {
		data, err := json.Marshal(f.msg)
		if err != nil {
			return 0, nil, err
		}
		f.text = data
	}
	return websocket.TextMessage, f.text, nil
}

// send writes a message to one client. Writers are serialized per
// connection; gorilla connections support one concurrent writer.
func (b *Broadcaster) send(c *client, f *frames) error {
	kind, data, err := f.encode(c.binary)
	if err != nil {
		b.logger.Error("encode preview message", "type", f.msg.Type, "error", err)
		return nil
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.conn.WriteMessage(kind, data)
}

func (b *Broadcaster) drop(conn *websocket.Conn) {
	b.mu.Lock()
	_, ok := b.clients[conn]
	delete(b.clients, conn)
	b.mu.Unlock()
	if ok {
		conn.Close()
		b.logger.Debug("preview client disconnected")
	}
}
