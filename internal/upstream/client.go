// Package upstream provides the outbound client for the third-party event
// catalog API.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	// DialTimeout is the connection timeout.
	DialTimeout = 10 * time.Second
	// TLSHandshakeTimeout is the TLS negotiation timeout.
	TLSHandshakeTimeout = 10 * time.Second
	// ResponseHeaderTimeout is time to wait for response headers.
	ResponseHeaderTimeout = 15 * time.Second

	// maxResponseBytes caps how much of a provider response is read.
	maxResponseBytes = 4 << 20
)

// Error describes a failed provider request: a non-2xx response or a
// transport failure (including timeouts). Status is 0 when no response
// was received.
type Error struct {
	Status int
	Body   string
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("upstream request failed: %s", e.Body)
	}
	return fmt.Sprintf("upstream returned status %d: %s", e.Status, e.Body)
}

// Client performs single outbound reads against the event provider.
// It does not retry; retry policy belongs to the caller.
type Client struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
}

// New creates a Client for the given provider base URL. apiKey may be empty;
// when set it is sent as a bearer credential. timeout bounds each fetch so a
// slow provider cannot stall the catalog path.
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		timeout:    timeout,
		httpClient: newHTTPClient(),
	}
}

// Fetch performs a GET against baseURL+path and returns the raw JSON body.
// Any failure is reported as *Error.
func (c *Client) Fetch(ctx context.Context, path string) (json.RawMessage, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, &Error{Body: err.Error()}
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Body: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &Error{Status: resp.StatusCode, Body: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{Status: resp.StatusCode, Body: string(body)}
	}

	return json.RawMessage(body), nil
}

// newHTTPClient creates an HTTP client tuned for provider calls.
// The per-request deadline comes from the fetch context, not the client.
func newHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   DialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   TLSHandshakeTimeout,
			ResponseHeaderTimeout: ResponseHeaderTimeout,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
		},
	}
}
