package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClient_FetchSuccess(t *testing.T) {
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"events":[{"id":"e1"}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "secret-key", time.Second)

	body, err := c.Fetch(context.Background(), "/events")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if string(body) != `{"events":[{"id":"e1"}]}` {
		t.Errorf("unexpected body: %s", body)
	}
	if gotAuth != "Bearer secret-key" {
		t.Errorf("expected bearer credential, got %q", gotAuth)
	}
	if gotPath != "/events" {
		t.Errorf("unexpected path: %s", gotPath)
	}
}

func TestClient_NoCredentialWhenUnconfigured(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "", time.Second)
	if _, err := c.Fetch(context.Background(), "/events"); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("expected no Authorization header, got %q", gotAuth)
	}
}

func TestClient_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":"invalid api key"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "bad", time.Second)

	_, err := c.Fetch(context.Background(), "/events")
	var upErr *Error
	if !errors.As(err, &upErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if upErr.Status != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", upErr.Status)
	}
	if upErr.Body != `{"error":"invalid api key"}` {
		t.Errorf("expected provider body carried, got %q", upErr.Body)
	}
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := New(srv.URL, "", time.Second)

	_, err := c.Fetch(context.Background(), "/events")
	var upErr *Error
	if !errors.As(err, &upErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if upErr.Status != 0 {
		t.Errorf("expected status 0 for transport failure, got %d", upErr.Status)
	}
}

func TestClient_TimeoutTreatedAsUpstreamError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer func() {
		close(release)
		srv.Close()
	}()

	c := New(srv.URL, "", 50*time.Millisecond)

	start := time.Now()
	_, err := c.Fetch(context.Background(), "/events")
	var upErr *Error
	if !errors.As(err, &upErr) {
		t.Fatalf("expected *Error on timeout, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("fetch did not respect timeout, took %s", elapsed)
	}
}
