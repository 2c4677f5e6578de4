package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/meetloop/meetloop/internal/metrics"
)

func TestMetricsHandler_Metrics(t *testing.T) {
	rec := metrics.NewInMemory()
	rec.IncCatalogCacheHit()
	rec.IncCatalogCacheHit()
	rec.IncCatalogCacheMiss()
	rec.IncUpstreamFailure()
	rec.ObserveUpstreamFetchDuration(250 * time.Millisecond)
	rec.IncUserRegistered()
	rec.IncMessageStored()
	rec.IncRelayConnOpened()
	rec.IncBroadcastDelivered()

	h := NewMetricsHandler(rec)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	h.Metrics(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("expected text/plain content type, got %s", ct)
	}

	body := w.Body.String()
	expectations := []string{
		"meetloop_catalog_cache_hits_total 2",
		"meetloop_catalog_cache_misses_total 1",
		"meetloop_upstream_failures_total 1",
		"meetloop_upstream_fetch_duration_seconds_count 1",
		"meetloop_upstream_fetch_duration_seconds_sum 0.250000",
		"meetloop_users_registered_total 1",
		"meetloop_messages_stored_total 1",
		"meetloop_relay_connections_total{state=\"opened\"} 1",
		"meetloop_broadcasts_total{status=\"delivered\"} 1",
	}
	for _, want := range expectations {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q:\n%s", want, body)
		}
	}
}

func TestMetricsHandler_NoSnapshotter(t *testing.T) {
	h := NewMetricsHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	h.Metrics(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", w.Code)
	}
}
