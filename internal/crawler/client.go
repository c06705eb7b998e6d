// Package crawler fetches the article list, details and media for one cycle.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"contentpoller/internal/config"
	"contentpoller/pkg/utils"
)

// Transport errors.
var (
	ErrTransport            = errors.New("transport error")
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	ErrBodyTooLarge         = errors.New("response body exceeds buffer limit")
)

// Transport fetches a URL and returns the raw JSON body.
type Transport interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Ensure Client implements Transport.
var _ Transport = (*Client)(nil)

// Client is the HTTP transport. Every Client owns its own connection pool.
type Client struct {
	client       *http.Client
	headers      http.Header
	bufferSizeKb int
}

// NewClient creates a client with the default HTTP settings.
func NewClient() *Client {
	return NewClientWithConfig(config.Default().HTTP)
}

// NewClientWithConfig creates a client from HTTP settings.
func NewClientWithConfig(cfg config.HTTPConfig) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	headers := utils.NewHTTPHelper().BuildHeaders(map[string]string{
		"User-Agent": cfg.UserAgent,
	})

	return &Client{
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		headers:      headers,
		bufferSizeKb: cfg.BufferSizeKb,
	}
}

// Get fetches url. Any failure is wrapped in ErrTransport.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	body, _, _, err := c.GetWithMetrics(ctx, url)

	return body, err
}

// GetWithMetrics returns (body, statusCode, duration, error).
func (c *Client) GetWithMetrics(ctx context.Context, url string) ([]byte, int, time.Duration, error) {
	startTime := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("%w: failed to create request: %w", ErrTransport, err)
	}

	req.Header = c.headers.Clone()

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, time.Since(startTime), fmt.Errorf("%w: GET %s: %w", ErrTransport, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, time.Since(startTime),
			fmt.Errorf("%w: GET %s: %w: %d", ErrTransport, url, ErrUnexpectedStatusCode, resp.StatusCode)
	}

	// bufferSizeKb is in KB, convert to bytes; one extra byte detects overflow
	limit := int64(c.bufferSizeKb) * 1024

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, resp.StatusCode, time.Since(startTime), fmt.Errorf("%w: failed to read response body: %w", ErrTransport, err)
	}

	if int64(len(body)) > limit {
		return nil, resp.StatusCode, time.Since(startTime), fmt.Errorf("%w: GET %s: %w", ErrTransport, url, ErrBodyTooLarge)
	}

	return body, resp.StatusCode, time.Since(startTime), nil
}

// CloseIdleConnections releases the client's pooled connections.
func (c *Client) CloseIdleConnections() {
	c.client.CloseIdleConnections()
}
