// Package testutil provides shared helpers for integration and end-to-end
// tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/meetloop/meetloop/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// TempDocumentPath returns a path for a throwaway directory document inside
// a per-test temp dir.
func TempDocumentPath(t testing.TB) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "db.json")
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestUser creates a test user with sensible defaults.
func NewTestUser(t testing.TB, id string) model.User {
	t.Helper()
	return model.User{
		ID:        id,
		Name:      "User " + id,
		Role:      "attendee",
		Interests: []string{"go"},
	}
}

// NewTestMessage creates a test chat message with sensible defaults.
func NewTestMessage(t testing.TB, from, eventID string) model.ChatMessage {
	t.Helper()
	return model.ChatMessage{
		From:    from,
		EventID: eventID,
		Text:    "hello from " + from,
	}
}

// UniqueID generates a unique ID for tests.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
