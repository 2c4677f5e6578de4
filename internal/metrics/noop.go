package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncCatalogCacheHit is a no-op.
func (n *NoopRecorder) IncCatalogCacheHit() {}

// IncCatalogCacheMiss is a no-op.
func (n *NoopRecorder) IncCatalogCacheMiss() {}

// IncUpstreamFailure is a no-op.
func (n *NoopRecorder) IncUpstreamFailure() {}

// ObserveUpstreamFetchDuration is a no-op.
func (n *NoopRecorder) ObserveUpstreamFetchDuration(duration time.Duration) {}

// IncUserRegistered is a no-op.
func (n *NoopRecorder) IncUserRegistered() {}

// IncUserUpdated is a no-op.
func (n *NoopRecorder) IncUserUpdated() {}

// IncMessageStored is a no-op.
func (n *NoopRecorder) IncMessageStored() {}

// IncRelayConnOpened is a no-op.
func (n *NoopRecorder) IncRelayConnOpened() {}

// IncRelayConnClosed is a no-op.
func (n *NoopRecorder) IncRelayConnClosed() {}

// IncBroadcastDelivered is a no-op.
func (n *NoopRecorder) IncBroadcastDelivered() {}

// IncBroadcastDropped is a no-op.
func (n *NoopRecorder) IncBroadcastDropped() {}
