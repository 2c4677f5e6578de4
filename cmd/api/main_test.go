package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/meetloop/meetloop/internal/cache"
	"github.com/meetloop/meetloop/internal/catalog"
	"github.com/meetloop/meetloop/internal/config"
	"github.com/meetloop/meetloop/internal/directory"
	"github.com/meetloop/meetloop/internal/handler"
	"github.com/meetloop/meetloop/internal/metrics"
	"github.com/meetloop/meetloop/internal/relay"
	"github.com/meetloop/meetloop/internal/store"
	"github.com/meetloop/meetloop/internal/testutil"
	"github.com/meetloop/meetloop/internal/upstream"
)

// newTestRouter wires a full router with in-memory dependencies.
func newTestRouter(t *testing.T, cfg *config.Config) *chi.Mux {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	mem := cache.NewMemory(0)
	t.Cleanup(func() { mem.Close() })

	fileStore := store.NewFileStore(testutil.TempDocumentPath(t))
	dir := directory.New(fileStore, logger, nil)

	svc := catalog.NewService(mem, upstream.New("http://127.0.0.1:1", "", time.Second), 0, catalog.Fallback{}, logger, nil)
	hub := relay.NewHub(dir, logger, nil)
	t.Cleanup(func() { hub.Close() })

	return setupRouter(
		handler.New(),
		handler.NewHealthHandler(fileStore, mem),
		handler.NewMetricsHandler(metrics.NewInMemory()),
		handler.NewCatalogHandler(svc, logger),
		handler.NewUserHandler(dir, logger),
		handler.NewMessageHandler(dir, logger),
		handler.NewWSHandler(hub, logger),
		cfg,
		logger,
	)
}

func TestSetupRouter_HSTSFollowsEnvironment(t *testing.T) {
	tests := []struct {
		name     string
		appEnv   string
		wantHSTS bool
	}{
		{"development disables HSTS", "development", false},
		{"production enables HSTS", "production", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{AppEnv: tt.appEnv, MaxRequestBodySize: 1 << 20}
			router := newTestRouter(t, cfg)

			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", rec.Code)
			}

			hsts := rec.Header().Get("Strict-Transport-Security")
			if tt.wantHSTS && hsts == "" {
				t.Error("expected HSTS header in production")
			}
			if !tt.wantHSTS && hsts != "" {
				t.Errorf("HSTS must be off in development, got %q", hsts)
			}
		})
	}
}

func TestSetupRouter_RoutesRegistered(t *testing.T) {
	cfg := &config.Config{AppEnv: "development", MaxRequestBodySize: 1 << 20}
	router := newTestRouter(t, cfg)

	// Unknown paths fall through to the JSON 404 handler; registered
	// routes must not.
	paths := []string{"/", "/healthz", "/readyz", "/metrics", "/calendar"}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code == http.StatusNotFound {
			t.Errorf("GET %s not routed", path)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/definitely-not-a-route", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown path, got %d", rec.Code)
	}
}
