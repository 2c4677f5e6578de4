package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meetloop/meetloop/internal/directory"
	"github.com/meetloop/meetloop/internal/handler/dto"
	"github.com/meetloop/meetloop/internal/model"
)

// UserHandler handles registration, profile reads, updates and interest
// matching.
type UserHandler struct {
	directory *directory.Index
	logger    *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(directory *directory.Index, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		directory: directory,
		logger:    logger,
	}
}

// Create handles POST /users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "id and name required")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "id and name required")
		return
	}

	user := model.User{
		ID:        req.ID,
		Name:      req.Name,
		Role:      req.Role,
		Interests: req.Interests,
	}

	if err := h.directory.RegisterUser(r.Context(), user); err != nil {
		h.handleDirectoryError(w, err)
		return
	}

	h.logger.Info("user_registered", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, dto.OKResponse{OK: true})
}

// Get handles GET /users/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	user, ok := h.directory.User(id)
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Update handles PUT /users/{id}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	patch := model.UserPatch{
		Name:      req.Name,
		Role:      req.Role,
		Interests: req.Interests,
	}

	if _, err := h.directory.UpdateUser(r.Context(), id, patch); err != nil {
		h.handleDirectoryError(w, err)
		return
	}

	h.logger.Info("user_updated", "user_id", id)
	writeJSON(w, http.StatusOK, dto.OKResponse{OK: true})
}

// Match handles POST /match. The eventId field is accepted but matching
// filters by interest only.
func (h *UserHandler) Match(w http.ResponseWriter, r *http.Request) {
	var req dto.MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Missing fields")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Missing fields")
		return
	}

	matches := h.directory.FindByInterest(req.Interest)
	writeJSON(w, http.StatusOK, map[string][]model.User{"matches": matches})
}

// handleDirectoryError maps directory errors to HTTP responses.
func (h *UserHandler) handleDirectoryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, directory.ErrMissingField):
		writeError(w, http.StatusBadRequest, "id and name required")
	case errors.Is(err, directory.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "An internal error occurred")
	}
}
