package webclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxBody caps how much of a response is read into memory.
const maxBody = 4 << 20

// NewDefault returns an HTTP client with sane timeouts.
func NewDefault(timeout time.Duration) *http.Client {
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// HTTPError represents a non-2xx response.
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// Client wraps an http.Client with a base URL and retry policy.
type Client struct {
	BaseURL  string
	HTTP     *http.Client
	Attempts int
	Delay    time.Duration
	Headers  map[string]string
}

// New returns a client for baseURL.
func New(baseURL string, timeout time.Duration, attempts int) *Client {
	return &Client{
		BaseURL:  baseURL,
		HTTP:     NewDefault(timeout),
		Attempts: attempts,
		Delay:    500 * time.Millisecond,
	}
}

// Get fetches path (or an absolute URL when BaseURL is empty) and returns the body.
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// GetJSON fetches path and decodes the JSON body into out.
func (c *Client) GetJSON(ctx context.Context, path string, out interface{}) error {
	body, err := c.Get(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

// PostJSON posts in as JSON and decodes the response into out (when non-nil).
func (c *Client) PostJSON(ctx context.Context, path string, in, out interface{}) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}
	body, err := c.do(ctx, http.MethodPost, path, payload)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	status, body, err := DoWithRetry(ctx, c.Attempts, c.Delay, func() (int, []byte, error) {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
		if err != nil {
			return 0, nil, fmt.Errorf("create request: %w", err)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")
		for k, v := range c.Headers {
			req.Header.Set(k, v)
		}

		resp, err := c.HTTP.Do(req)
		if err != nil {
			return 0, nil, fmt.Errorf("do request: %w", err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
		if err != nil {
			return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
		}
		return resp.StatusCode, respBody, nil
	})
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, &HTTPError{StatusCode: status, Body: body}
	}
	return body, nil
}
