package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meetloop/meetloop/internal/directory"
	"github.com/meetloop/meetloop/internal/handler/dto"
	"github.com/meetloop/meetloop/internal/model"
)

// MessageHandler handles the HTTP message endpoints.
type MessageHandler struct {
	directory *directory.Index
	logger    *slog.Logger
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(directory *directory.Index, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{
		directory: directory,
		logger:    logger,
	}
}

// Create handles POST /messages.
func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Missing fields")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Missing fields")
		return
	}

	msg := model.ChatMessage{
		From:    req.From,
		To:      req.To,
		EventID: req.EventID,
		Text:    req.Text,
	}

	if err := h.directory.AppendMessage(r.Context(), msg); err != nil {
		if errors.Is(err, directory.ErrMissingField) {
			writeError(w, http.StatusBadRequest, "Missing fields")
			return
		}
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "An internal error occurred")
		return
	}

	h.logger.Info("message_stored", "event_id", msg.EventID, "from", msg.From)
	writeJSON(w, http.StatusCreated, dto.OKResponse{OK: true})
}

// List handles GET /messages/{eventId}.
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	writeJSON(w, http.StatusOK, h.directory.MessagesForEvent(eventID))
}

// Notify handles POST /notify. Delivery is a placeholder: the payload is
// logged and acknowledged.
func (h *MessageHandler) Notify(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.logger.Info("push_notification", "payload", string(body))
	writeJSON(w, http.StatusOK, dto.OKResponse{OK: true})
}
