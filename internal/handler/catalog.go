package handler

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meetloop/meetloop/internal/catalog"
)

// calendarTemplate renders the server-side event listing.
const calendarTemplate = `<html><head><title>Event Calendar</title></head><body>
<h1>Events</h1>
<ul>
{{range .}}<li><strong>{{.Name}}</strong> {{.Start}}</li>
{{end}}</ul>
</body></html>
`

// CatalogHandler serves the proxied event catalog.
type CatalogHandler struct {
	svc      *catalog.Service
	logger   *slog.Logger
	calendar *template.Template
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(svc *catalog.Service, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		svc:      svc,
		logger:   logger,
		calendar: template.Must(template.New("calendar").Parse(calendarTemplate)),
	}
}

// Events handles GET /events.
func (h *CatalogHandler) Events(w http.ResponseWriter, r *http.Request) {
	writeRawJSON(w, http.StatusOK, h.svc.Events(r.Context()))
}

// Event handles GET /events/{id}.
func (h *CatalogHandler) Event(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	writeRawJSON(w, http.StatusOK, h.svc.Event(r.Context(), id))
}

// Attendees handles GET /events/{id}/attendees.
func (h *CatalogHandler) Attendees(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	writeRawJSON(w, http.StatusOK, h.svc.Attendees(r.Context(), id))
}

// calendarEntry is one rendered calendar row.
type calendarEntry struct {
	Name  string
	Start string
}

// Calendar handles GET /calendar: an HTML listing of event name and start
// time. Providers differ on the start field name, so both spellings are
// accepted.
func (h *CatalogHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	payload := h.svc.Events(r.Context())

	var parsed struct {
		Events []map[string]any `json:"events"`
	}
	if err := json.Unmarshal(payload, &parsed); err != nil {
		h.logger.Warn("calendar payload not parseable", "error", err)
	}

	entries := make([]calendarEntry, 0, len(parsed.Events))
	for _, ev := range parsed.Events {
		name, _ := ev["name"].(string)
		start, _ := ev["start_time"].(string)
		if start == "" {
			start, _ = ev["startTime"].(string)
		}
		entries = append(entries, calendarEntry{Name: name, Start: start})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := h.calendar.Execute(w, entries); err != nil {
		h.logger.Error("calendar render failed", "error", err)
	}
}
