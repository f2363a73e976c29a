package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/conneroisu/bifrostdocs/internal/logging"
	"github.com/conneroisu/bifrostdocs/internal/nav"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// SubprotocolMsgpack switches a client to binary msgpack frames.
	SubprotocolMsgpack = "msgpack"
)

// pingPeriod is how often an idle client is pinged. A ping that is not
// answered within writeWait drops the client.
var pingPeriod = 54 * time.Second

// Message types pushed to browsers.
const (
	MessageNav    = "nav"
	MessageReload = "reload"
)

// UpdateMessage represents a message sent to the browser
type UpdateMessage struct {
	Type      string     `json:"type" msgpack:"type"`
	Pages     []string   `json:"pages,omitempty" msgpack:"pages,omitempty"`
	Nav       *nav.Event `json:"nav,omitempty" msgpack:"nav,omitempty"`
	Timestamp time.Time  `json:"timestamp" msgpack:"timestamp"`
}

// Client represents a WebSocket client
type Client struct {
	conn   *websocket.Conn
	send   chan []byte
	binary bool
	hub    *Hub
}

// Hub fans update messages out to connected clients.
type Hub struct {
	clients    map[*Client]struct{}
	mutex      sync.RWMutex
	register   chan *Client
	unregister chan *Client
	broadcast  chan UpdateMessage
	logger     logging.Logger
}

// NewHub creates an idle hub; call Run to start it.
func NewHub(logger logging.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan UpdateMessage, 64),
		logger:     logger.WithComponent("websocket"),
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// Broadcast queues msg for every client. Messages are dropped when the queue is full.
func (h *Hub) Broadcast(msg UpdateMessage) {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn(context.Background(), nil, "Broadcast queue full, dropping message", "type", msg.Type)
	}
}

// Run processes registrations and broadcasts until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.CloseAll()
			return
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = struct{}{}
			count := len(h.clients)
			h.mutex.Unlock()
			h.logger.Debug(ctx, "Client connected", "clients", count, "binary", client.binary)

		case client := <-h.unregister:
			h.remove(client)

		case msg := <-h.broadcast:
			h.deliver(ctx, msg)
		}
	}
}

func (h *Hub) deliver(ctx context.Context, msg UpdateMessage) {
	text, binary, err := encodeMessage(msg)
	if err != nil {
		h.logger.Error(ctx, err, "Failed to encode message", "type", msg.Type)
		return
	}

	h.mutex.RLock()
	var failed []*Client
	for client := range h.clients {
		frame := text
		if client.binary {
			frame = binary
		}
		select {
		case client.send <- frame:
		default:
			// Client's send channel is full, mark for removal
			failed = append(failed, client)
		}
	}
	h.mutex.RUnlock()

	for _, client := range failed {
		h.remove(client)
	}
}

func encodeMessage(msg UpdateMessage) (text, binary []byte, err error) {
	if text, err = json.Marshal(msg); err != nil {
		return nil, nil, err
	}
	if binary, err = msgpack.Marshal(msg); err != nil {
		return nil, nil, err
	}
	return text, binary, nil
}

func (h *Hub) remove(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
}

// CloseAll disconnects every client.
func (h *Hub) CloseAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
}

func (s *DocsServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !s.checkOrigin(r) {
		http.Error(w, "Origin not allowed", http.StatusForbidden)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		Subprotocols: []string{SubprotocolMsgpack},
		// Origin is verified by checkOrigin above
		InsecureSkipVerify: true,
	})
	if err != nil {
		s.logger.Warn(r.Context(), err, "WebSocket upgrade error")
		return
	}

	client := &Client{
		conn:   conn,
		send:   make(chan []byte, 256),
		binary: conn.Subprotocol() == SubprotocolMsgpack,
		hub:    s.hub,
	}

	ctx := context.WithoutCancel(r.Context())
	select {
	case s.hub.register <- client:
	case <-r.Context().Done():
		conn.Close(websocket.StatusGoingAway, "")
		return
	}
	go client.writePump(ctx)
	client.readPump(ctx)
}

// checkOrigin accepts same-host origins and configured allowed origins.
func (s *DocsServer) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return false
	}
	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if originURL.Scheme != "http" && originURL.Scheme != "https" {
		return false
	}
	if originURL.Host == r.Host {
		return true
	}
	for _, allowed := range s.config.Server.AllowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}

// readPump discards client input and unregisters the client on error. Browsers
// never send on this socket, so reads carry no deadline; liveness is checked
// by the pings in writePump.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-time.After(writeWait):
		}
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(maxMessageSize)

	for {
		if _, _, err := c.conn.Read(ctx); err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
				c.hub.logger.Debug(ctx, "WebSocket read ended", "error", err.Error())
			}
			return
		}
	}
}

// writePump pumps messages to the websocket connection
func (c *Client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	typ := websocket.MessageText
	if c.binary {
		typ = websocket.MessageBinary
	}

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, typ, message)
			cancel()
			if err != nil {
				c.hub.logger.Debug(ctx, "WebSocket write error", "error", err.Error())
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}
