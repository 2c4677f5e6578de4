// Package cache provides the expiring key/value store that shields the
// upstream catalog API.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned when a key is absent or its entry has expired.
// Callers must not distinguish the two cases.
var ErrCacheMiss = errors.New("cache miss")

// Store is an expiring key/value store. The last Set for a key wins; a
// present entry is never returned past its expiry.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Ping(ctx context.Context) error
	Close() error
}
