package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	CatalogCacheHits     uint64
	CatalogCacheMisses   uint64
	UpstreamFailures     uint64
	UpstreamFetchCount   uint64
	UpstreamFetchTotalNs int64
	UsersRegistered      uint64
	UsersUpdated         uint64
	MessagesStored       uint64
	RelayConnsOpened     uint64
	RelayConnsClosed     uint64
	BroadcastsDelivered  uint64
	BroadcastsDropped    uint64
}

// InMemoryRecorder stores metrics in memory for tests and the /metrics
// exposition endpoint.
type InMemoryRecorder struct {
	catalogCacheHits     uint64
	catalogCacheMisses   uint64
	upstreamFailures     uint64
	upstreamFetchCount   uint64
	upstreamFetchTotalNs int64
	usersRegistered      uint64
	usersUpdated         uint64
	messagesStored       uint64
	relayConnsOpened     uint64
	relayConnsClosed     uint64
	broadcastsDelivered  uint64
	broadcastsDropped    uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		CatalogCacheHits:     atomic.LoadUint64(&m.catalogCacheHits),
		CatalogCacheMisses:   atomic.LoadUint64(&m.catalogCacheMisses),
		UpstreamFailures:     atomic.LoadUint64(&m.upstreamFailures),
		UpstreamFetchCount:   atomic.LoadUint64(&m.upstreamFetchCount),
		UpstreamFetchTotalNs: atomic.LoadInt64(&m.upstreamFetchTotalNs),
		UsersRegistered:      atomic.LoadUint64(&m.usersRegistered),
		UsersUpdated:         atomic.LoadUint64(&m.usersUpdated),
		MessagesStored:       atomic.LoadUint64(&m.messagesStored),
		RelayConnsOpened:     atomic.LoadUint64(&m.relayConnsOpened),
		RelayConnsClosed:     atomic.LoadUint64(&m.relayConnsClosed),
		BroadcastsDelivered:  atomic.LoadUint64(&m.broadcastsDelivered),
		BroadcastsDropped:    atomic.LoadUint64(&m.broadcastsDropped),
	}
}

// IncCatalogCacheHit increments the catalog cache hit counter.
func (m *InMemoryRecorder) IncCatalogCacheHit() {
	atomic.AddUint64(&m.catalogCacheHits, 1)
}

// IncCatalogCacheMiss increments the catalog cache miss counter.
func (m *InMemoryRecorder) IncCatalogCacheMiss() {
	atomic.AddUint64(&m.catalogCacheMisses, 1)
}

// IncUpstreamFailure increments the upstream failure counter.
func (m *InMemoryRecorder) IncUpstreamFailure() {
	atomic.AddUint64(&m.upstreamFailures, 1)
}

// ObserveUpstreamFetchDuration records one provider fetch duration.
func (m *InMemoryRecorder) ObserveUpstreamFetchDuration(duration time.Duration) {
	atomic.AddUint64(&m.upstreamFetchCount, 1)
	atomic.AddInt64(&m.upstreamFetchTotalNs, duration.Nanoseconds())
}

// IncUserRegistered increments the user registration counter.
func (m *InMemoryRecorder) IncUserRegistered() {
	atomic.AddUint64(&m.usersRegistered, 1)
}

// IncUserUpdated increments the user update counter.
func (m *InMemoryRecorder) IncUserUpdated() {
	atomic.AddUint64(&m.usersUpdated, 1)
}

// IncMessageStored increments the stored message counter.
func (m *InMemoryRecorder) IncMessageStored() {
	atomic.AddUint64(&m.messagesStored, 1)
}

// IncRelayConnOpened increments the opened connection counter.
func (m *InMemoryRecorder) IncRelayConnOpened() {
	atomic.AddUint64(&m.relayConnsOpened, 1)
}

// IncRelayConnClosed increments the closed connection counter.
func (m *InMemoryRecorder) IncRelayConnClosed() {
	atomic.AddUint64(&m.relayConnsClosed, 1)
}

// IncBroadcastDelivered increments the delivered broadcast counter.
func (m *InMemoryRecorder) IncBroadcastDelivered() {
	atomic.AddUint64(&m.broadcastsDelivered, 1)
}

// IncBroadcastDropped increments the dropped broadcast counter.
func (m *InMemoryRecorder) IncBroadcastDropped() {
	atomic.AddUint64(&m.broadcastsDropped, 1)
}
