package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is a thin JSON HTTP client for outbound calls (CRM webhook).
type Client struct {
	hc *http.Client
}

// ClientOption configures Client.
type ClientOption func(*http.Client)

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *http.Client) {
		if d > 0 {
			c.Timeout = d
		}
	}
}

// NewClient creates an outbound HTTP client.
func NewClient(opts ...ClientOption) *Client {
	hc := &http.Client{Timeout: 10 * time.Second}
	for _, opt := range opts {
		opt(hc)
	}
	return &Client{hc: hc}
}

// PostJSON posts payload as JSON to url and decodes the response into dest
// when dest is non-nil. Non-2xx responses are returned as errors.
func (c *Client) PostJSON(ctx context.Context, url string, payload interface{}, dest interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("post %s: status %d: %s", url, resp.StatusCode, string(b))
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
