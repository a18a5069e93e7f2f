// Package http provides HTTP client infrastructure for YouTube interactions
// with built-in retry logic, rate limiting, and error handling.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"ytscribe/retry"
)

// Client wraps an HTTP client with retry logic and rate limit handling.
type Client struct {
	base        *http.Client
	config      *Config
	rateLimiter *RateLimiter
}

// Config holds HTTP client configuration including retry and rate limit settings.
type Config struct {
	// Timeout for individual HTTP requests
	Timeout time.Duration

	// Retry configuration
	Retry retry.Config

	// User agent for HTTP requests
	UserAgent string

	// Rate limiter configuration
	RateLimiter RateLimiterConfig
}

// DefaultConfig returns sensible defaults for HTTP client configuration.
func DefaultConfig() *Config {
	return &Config{
		Timeout:     30 * time.Second,
		Retry:       retry.DefaultConfig(),
		UserAgent:   "ytscribe/1.0",
		RateLimiter: DefaultRateLimiterConfig(),
	}
}

// Response is a fully-read HTTP response. Body is drained before the
// retry loop decides whether to retry, so callers never manage the
// underlying stream.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// New creates a new HTTP client with the given configuration.
func New(cfg *Config) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	transport := &http.Transport{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	return &Client{
		base: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		config:      cfg,
		rateLimiter: NewRateLimiter(cfg.RateLimiter),
	}
}

// Get performs a GET request with rate limiting and retry on transient
// failures (network errors, 429, 5xx).
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	var resp *Response

	err := retry.Do(ctx, c.config.Retry, isTransientError, func(ctx context.Context) error {
		if err := c.rateLimiter.Wait(ctx, url); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("User-Agent", c.config.UserAgent)

		httpResp, err := c.base.Do(req)
		if err != nil {
			return fmt.Errorf("do request: %w", err)
		}
		defer httpResp.Body.Close()

		body, err := io.ReadAll(httpResp.Body)
		if err != nil {
			return fmt.Errorf("read response body: %w", err)
		}

		resp = &Response{
			StatusCode: httpResp.StatusCode,
			Header:     httpResp.Header,
			Body:       body,
		}

		if httpResp.StatusCode == http.StatusTooManyRequests {
			return &StatusError{StatusCode: httpResp.StatusCode}
		}
		if httpResp.StatusCode >= 500 {
			return &StatusError{StatusCode: httpResp.StatusCode}
		}
		return nil
	})

	if err != nil {
		// A terminal 429/5xx still carries the last response for the caller.
		if resp != nil {
			return resp, nil
		}
		return nil, err
	}

	return resp, nil
}

// Close releases idle connections held by the underlying transport.
func (c *Client) Close() error {
	if transport, ok := c.base.Transport.(*http.Transport); ok {
		transport.CloseIdleConnections()
	}
	return nil
}

// StatusError indicates a transient HTTP status that may be retried.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http: transient status %d", e.StatusCode)
}

// isTransientError classifies retryability for the client's retry loop.
func isTransientError(err error) bool {
	if err == nil {
		return false
	}
	return retry.IsRetryable(err)
}
