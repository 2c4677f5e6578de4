package cache

import (
	"context"
	"sync"
	"time"
)

// DefaultSweepInterval is how often the in-memory store drops expired entries.
// Expiry is also enforced on access, so the sweep only bounds memory.
const DefaultSweepInterval = time.Minute

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is a process-local Store. It is safe for concurrent use.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry

	now  func() time.Time
	stop chan struct{}
	once sync.Once
}

// NewMemory creates an in-memory store with a background sweep every
// sweepInterval. A non-positive interval disables the sweep.
func NewMemory(sweepInterval time.Duration) *Memory {
	m := &Memory{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	if sweepInterval > 0 {
		go m.sweepLoop(sweepInterval)
	}
	return m
}

// Get returns the value for key, or ErrCacheMiss when absent or expired.
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	if !m.now().Before(e.expiresAt) {
		delete(m.entries, key)
		return nil, ErrCacheMiss
	}

	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

// Set stores value under key with an absolute expiry of now+ttl.
// A non-positive ttl removes the key.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ttl <= 0 {
		delete(m.entries, key)
		return nil
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	m.entries[key] = memoryEntry{
		value:     stored,
		expiresAt: m.now().Add(ttl),
	}
	return nil
}

// Ping always succeeds; the store has no external dependency.
func (m *Memory) Ping(context.Context) error {
	return nil
}

// Close stops the background sweep.
func (m *Memory) Close() error {
	m.once.Do(func() { close(m.stop) })
	return nil
}

// Len reports the number of stored entries, including not-yet-swept
// expired ones.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Memory) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

func (m *Memory) sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for key, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, key)
		}
	}
}
