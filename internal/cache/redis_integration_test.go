package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/meetloop/meetloop/internal/testutil"
)

// Requires a running Redis; skipped when REDIS_URL is not set.
func TestRedisStore_Integration(t *testing.T) {
	redisURL := testutil.RequireEnv(t, "REDIS_URL")
	ctx := context.Background()

	r, err := NewRedis(ctx, redisURL)
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	defer r.Close()

	if err := testutil.FlushRedis(ctx, r.Client()); err != nil {
		t.Fatalf("flush redis: %v", err)
	}

	key := testutil.UniqueID("events")
	payload := []byte(`{"events":[{"id":"e1","name":"GopherCon"}]}`)

	if err := r.Set(ctx, key, payload, time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	got, err := r.Get(ctx, key)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("round trip mismatch: %s", got)
	}

	if _, err := r.Get(ctx, testutil.UniqueID("absent")); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss for absent key, got %v", err)
	}

	// A non-positive TTL removes the key.
	if err := r.Set(ctx, key, payload, 0); err != nil {
		t.Fatalf("delete via zero ttl failed: %v", err)
	}
	if _, err := r.Get(ctx, key); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected miss after zero-ttl set, got %v", err)
	}

	if err := r.Ping(ctx); err != nil {
		t.Errorf("ping failed: %v", err)
	}
}
