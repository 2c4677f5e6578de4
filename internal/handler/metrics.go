package handler

import (
	"fmt"
	"net/http"

	"github.com/meetloop/meetloop/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "meetloop_catalog_cache_hits_total %d\n", snap.CatalogCacheHits)
	writeMetric(w, "meetloop_catalog_cache_misses_total %d\n", snap.CatalogCacheMisses)
	writeMetric(w, "meetloop_upstream_failures_total %d\n", snap.UpstreamFailures)
	writeMetric(w, "meetloop_upstream_fetch_duration_seconds_count %d\n", snap.UpstreamFetchCount)
	writeMetric(w, "meetloop_upstream_fetch_duration_seconds_sum %.6f\n", float64(snap.UpstreamFetchTotalNs)/1e9)

	writeMetric(w, "meetloop_users_registered_total %d\n", snap.UsersRegistered)
	writeMetric(w, "meetloop_users_updated_total %d\n", snap.UsersUpdated)
	writeMetric(w, "meetloop_messages_stored_total %d\n", snap.MessagesStored)

	writeMetric(w, "meetloop_relay_connections_total{state=\"opened\"} %d\n", snap.RelayConnsOpened)
	writeMetric(w, "meetloop_relay_connections_total{state=\"closed\"} %d\n", snap.RelayConnsClosed)
	writeMetric(w, "meetloop_broadcasts_total{status=\"delivered\"} %d\n", snap.BroadcastsDelivered)
	writeMetric(w, "meetloop_broadcasts_total{status=\"dropped\"} %d\n", snap.BroadcastsDropped)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
