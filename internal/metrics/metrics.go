// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Catalog read path
	IncCatalogCacheHit()
	IncCatalogCacheMiss()
	IncUpstreamFailure()
	ObserveUpstreamFetchDuration(duration time.Duration)

	// Directory mutations
	IncUserRegistered()
	IncUserUpdated()
	IncMessageStored()

	// Relay fan-out
	IncRelayConnOpened()
	IncRelayConnClosed()
	IncBroadcastDelivered()
	IncBroadcastDropped()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
