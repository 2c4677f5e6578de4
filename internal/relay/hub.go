// Package relay tracks live websocket connections and fans chat messages
// out to peers. Each inbound message is committed to the directory before
// it is broadcast: durability precedes delivery.
package relay

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"

	"github.com/meetloop/meetloop/internal/metrics"
	"github.com/meetloop/meetloop/internal/model"
)

// defaultWriteTimeout bounds a single broadcast write. A peer that cannot
// accept a frame within this window is treated as dead and dropped.
const defaultWriteTimeout = 10 * time.Second

// Committer stores a message durably before it is broadcast.
type Committer interface {
	AppendMessage(ctx context.Context, msg model.ChatMessage) error
}

// inbound is the wire form accepted from clients.
type inbound struct {
	EventID string `json:"eventId"`
	From    string `json:"from"`
	To      string `json:"to"`
	Text    string `json:"text"`
}

// conn is one live connection. The write mutex keeps concurrent broadcasts
// from interleaving frames on the same socket.
type conn struct {
	id      string
	eventID string // empty: receives broadcasts for every event
	ws      *websocket.Conn
	writeMu sync.Mutex
}

func (c *conn) send(data []byte, timeout time.Duration) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if timeout > 0 {
		_ = c.ws.SetWriteDeadline(time.Now().Add(timeout))
	}
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

// Hub is the connection registry. Connections are removed explicitly on
// every read-loop exit and on failed writes; dead sockets never linger as
// broadcast targets.
type Hub struct {
	mu    sync.Mutex
	conns map[string]*conn

	directory    Committer
	logger       *slog.Logger
	metrics      metrics.Recorder
	writeTimeout time.Duration
}

// NewHub creates a Hub committing messages through the given directory.
func NewHub(directory Committer, logger *slog.Logger, recorder metrics.Recorder) *Hub {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Hub{
		conns:        make(map[string]*conn),
		directory:    directory,
		logger:       logger,
		metrics:      recorder,
		writeTimeout: defaultWriteTimeout,
	}
}

// ServeConn registers ws and runs its read loop until the peer disconnects
// or the socket errors. Messages from one connection are processed in
// arrival order. eventID optionally scopes which broadcasts the connection
// receives; empty means all events.
func (h *Hub) ServeConn(ctx context.Context, ws *websocket.Conn, eventID string) {
	c := &conn{
		id:      ulid.Make().String(),
		eventID: eventID,
		ws:      ws,
	}
	h.add(c)
	defer h.remove(c)

	log := h.logger.With("conn_id", c.id)
	if eventID != "" {
		log = log.With("event_id", eventID)
	}
	log.Info("relay connection opened", "remote_addr", ws.RemoteAddr().String())

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			log.Info("relay connection closed", "error", err)
			return
		}
		h.handleInbound(ctx, c, data, log)
	}
}

// handleInbound parses, commits and broadcasts one raw frame. Malformed
// frames are dropped; the connection stays open.
func (h *Hub) handleInbound(ctx context.Context, sender *conn, raw []byte, log *slog.Logger) {
	var in inbound
	if err := json.Unmarshal(raw, &in); err != nil {
		log.Debug("dropping malformed relay message", "error", err)
		return
	}
	if in.EventID == "" || in.From == "" || in.Text == "" {
		log.Debug("dropping relay message with missing fields",
			"event_id", in.EventID, "from", in.From)
		return
	}

	msg := model.ChatMessage{
		From:    in.From,
		To:      in.To,
		EventID: in.EventID,
		Text:    in.Text,
	}

	if err := h.directory.AppendMessage(ctx, msg); err != nil {
		log.Error("message not broadcast, durable commit failed", "error", err)
		return
	}

	h.broadcast(sender, msg)
}

// broadcast delivers the stored form of msg to every other open connection
// subscribed to its event. Delivery is best effort; a failed or timed-out
// write drops the peer from the registry, so one stalled socket cannot
// hold the registry lock indefinitely.
func (h *Hub) broadcast(sender *conn, msg model.ChatMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to encode broadcast", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for id, c := range h.conns {
		if c == sender {
			continue
		}
		if c.eventID != "" && c.eventID != msg.EventID {
			continue
		}
		if err := c.send(data, h.writeTimeout); err != nil {
			h.logger.Warn("broadcast write failed, dropping connection",
				"conn_id", id, "error", err)
			delete(h.conns, id)
			_ = c.ws.Close()
			h.metrics.IncRelayConnClosed()
			h.metrics.IncBroadcastDropped()
			continue
		}
		h.metrics.IncBroadcastDelivered()
	}
}

// Count reports the number of open connections.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Close closes every open connection, for shutdown.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, c := range h.conns {
		_ = c.ws.Close()
		delete(h.conns, id)
		h.metrics.IncRelayConnClosed()
	}
	return nil
}

func (h *Hub) add(c *conn) {
	h.mu.Lock()
	h.conns[c.id] = c
	h.mu.Unlock()
	h.metrics.IncRelayConnOpened()
}

func (h *Hub) remove(c *conn) {
	h.mu.Lock()
	_, present := h.conns[c.id]
	if present {
		delete(h.conns, c.id)
	}
	h.mu.Unlock()

	_ = c.ws.Close()
	if present {
		h.metrics.IncRelayConnClosed()
	}
}
