package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/meetloop/meetloop/internal/relay"
)

// WSHandler upgrades HTTP requests into relay connections.
type WSHandler struct {
	hub      *relay.Hub
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(hub *relay.Hub, logger *slog.Logger) *WSHandler {
	return &WSHandler{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Connect handles GET /ws. The optional event_id query parameter scopes
// which broadcasts the connection receives; without it the connection
// receives traffic for every event.
func (h *WSHandler) Connect(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	h.hub.ServeConn(r.Context(), ws, r.URL.Query().Get("event_id"))
}
