// Package catalog provides cache-aside reads of the upstream event catalog.
// Provider failures are absorbed into degraded placeholder payloads, so the
// read path never surfaces an error: availability over freshness.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/meetloop/meetloop/internal/cache"
	"github.com/meetloop/meetloop/internal/metrics"
)

// DefaultTTL is the cache window for catalog entries.
const DefaultTTL = 300 * time.Second

// Cache key scheme: one entry per logical resource.
const (
	eventsKey         = "events"
	eventKeyPrefix    = "event:"
	attendeeKeyPrefix = "attendees:"
)

// Fetcher performs a single outbound read against the event provider.
type Fetcher interface {
	Fetch(ctx context.Context, path string) (json.RawMessage, error)
}

// Service composes the cache and the upstream gateway.
type Service struct {
	cache    cache.Store
	upstream Fetcher
	ttl      time.Duration
	fallback Fallback
	logger   *slog.Logger
	metrics  metrics.Recorder
}

// NewService creates a catalog service. A zero ttl falls back to DefaultTTL;
// nil fallback generators are filled in from DefaultFallback individually,
// so a partially customized Fallback is safe.
func NewService(store cache.Store, fetcher Fetcher, ttl time.Duration, fallback Fallback, logger *slog.Logger, recorder metrics.Recorder) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	fallback = fallback.withDefaults()
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Service{
		cache:    store,
		upstream: fetcher,
		ttl:      ttl,
		fallback: fallback,
		logger:   logger,
		metrics:  recorder,
	}
}

// Events returns the event listing.
func (s *Service) Events(ctx context.Context) json.RawMessage {
	return s.readThrough(ctx, eventsKey, "/events", s.fallback.Events)
}

// Event returns a single event by id.
func (s *Service) Event(ctx context.Context, id string) json.RawMessage {
	escaped := url.PathEscape(id)
	return s.readThrough(ctx, eventKeyPrefix+id, "/events/"+escaped, func() json.RawMessage {
		return s.fallback.Event(id)
	})
}

// Attendees returns the attendee listing for an event.
func (s *Service) Attendees(ctx context.Context, id string) json.RawMessage {
	escaped := url.PathEscape(id)
	return s.readThrough(ctx, attendeeKeyPrefix+id, "/events/"+escaped+"/attendees", func() json.RawMessage {
		return s.fallback.Attendees(id)
	})
}

// readThrough is the cache-aside read: cache hit wins, a miss fetches from
// the provider and populates the cache, and a provider failure yields the
// degraded fallback without caching anything.
func (s *Service) readThrough(ctx context.Context, key, path string, fallback func() json.RawMessage) json.RawMessage {
	cached, err := s.cache.Get(ctx, key)
	if err == nil {
		s.metrics.IncCatalogCacheHit()
		return cached
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		// Cache backend trouble degrades to an upstream fetch.
		s.logger.Warn("catalog cache read failed", "key", key, "error", err)
	}
	s.metrics.IncCatalogCacheMiss()

	start := time.Now()
	payload, err := s.upstream.Fetch(ctx, path)
	s.metrics.ObserveUpstreamFetchDuration(time.Since(start))
	if err != nil {
		s.metrics.IncUpstreamFailure()
		s.logger.Warn("upstream fetch failed, serving fallback",
			"key", key, "path", path, "error", err)
		return fallback()
	}

	if err := s.cache.Set(ctx, key, payload, s.ttl); err != nil {
		s.logger.Warn("catalog cache write failed", "key", key, "error", err)
	}

	return payload
}
