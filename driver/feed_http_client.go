// ABOUTME: Low-level resilient HTTP client for polling RSS/Atom feed URLs
// ABOUTME: Applies conditional-GET headers and circuit breaker protection around each request

package driver

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"strategic-news-pipeline/config"
	"strategic-news-pipeline/utils"
)

// FeedResponse is the outcome of a single conditional GET against a feed URL.
type FeedResponse struct {
	StatusCode   int
	NotModified  bool // true when the server returned 304
	Body         []byte
	ETag         string
	LastModified string
}

// FeedHTTPClient performs conditional HTTP GETs against feed URLs, guarded
// by a circuit breaker so a persistently failing source doesn't stall the
// whole ingestion batch.
type FeedHTTPClient struct {
	client  *http.Client
	breaker *utils.CircuitBreaker
	logger  *slog.Logger
	userAgent string
}

// NewFeedHTTPClient builds an HTTP client tuned for polling many small feed
// documents, wrapped in a circuit breaker per the resilience config.
func NewFeedHTTPClient(cfg *config.Config, logger *slog.Logger) *FeedHTTPClient {
	if logger == nil {
		logger = slog.Default()
	}

	transport := &http.Transport{
		TLSHandshakeTimeout:   cfg.HTTPClient.TLSHandshakeTimeout,
		ResponseHeaderTimeout: cfg.HTTPClient.ResponseHeaderTimeout,
		IdleConnTimeout:       cfg.HTTPClient.IdleConnTimeout,
		MaxIdleConns:          cfg.HTTPClient.MaxIdleConns,
		MaxIdleConnsPerHost:   cfg.HTTPClient.MaxIdleConnsPerHost,
	}

	breakerConfig := &utils.CircuitBreakerConfig{
		FailureThreshold: cfg.CircuitBreaker.FailureThreshold,
		SuccessThreshold: cfg.CircuitBreaker.SuccessThreshold,
		Timeout:          cfg.CircuitBreaker.Timeout,
		MaxRequests:      cfg.CircuitBreaker.MaxRequests,
	}

	return &FeedHTTPClient{
		client: &http.Client{
			Timeout:   cfg.HTTPClient.Timeout,
			Transport: transport,
		},
		breaker:   utils.NewCircuitBreaker(breakerConfig, logger),
		logger:    logger,
		userAgent: cfg.Ingestion.UserAgent,
	}
}

// Fetch issues a conditional GET for feedURL, sending If-None-Match and
// If-Modified-Since when etag/lastModified are non-empty. A 304 response is
// reported via NotModified rather than as an error.
func (c *FeedHTTPClient) Fetch(ctx context.Context, feedURL, etag, lastModified string) (*FeedResponse, error) {
	var result *FeedResponse

	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
		if err != nil {
			return fmt.Errorf("building request for %s: %w", feedURL, err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		if etag != "" {
			req.Header.Set("If-None-Match", etag)
		}
		if lastModified != "" {
			req.Header.Set("If-Modified-Since", lastModified)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("fetching %s: %w", feedURL, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotModified {
			result = &FeedResponse{StatusCode: resp.StatusCode, NotModified: true}
			return nil
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, feedURL)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading response body from %s: %w", feedURL, err)
		}

		result = &FeedResponse{
			StatusCode:   resp.StatusCode,
			Body:         body,
			ETag:         resp.Header.Get("ETag"),
			LastModified: resp.Header.Get("Last-Modified"),
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return result, nil
}

// FetchWithRetries retries Fetch with exponential backoff and jitter: one
// initial attempt plus up to maxRetries retries, the n-th retry waiting
// initialDelay*multiplier^(n-1) plus jitter().
func (c *FeedHTTPClient) FetchWithRetries(ctx context.Context, feedURL, etag, lastModified string, maxRetries int, initialDelay time.Duration, multiplier float64, jitter func() time.Duration) (*FeedResponse, error) {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(float64(initialDelay) * pow(multiplier, attempt-1))
			if jitter != nil {
				delay += jitter()
			}

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		resp, err := c.Fetch(ctx, feedURL, etag, lastModified)
		if err == nil {
			return resp, nil
		}

		lastErr = err
		c.logger.Warn("feed fetch attempt failed",
			"feed_url", feedURL, "attempt", attempt+1, "max_retries", maxRetries, "error", err)
	}

	return nil, fmt.Errorf("exhausted %d retries fetching %s: %w", maxRetries, feedURL, lastErr)
}

func pow(base float64, exp int) float64 {
	result := 1.0
	for i := 0; i < exp; i++ {
		result *= base
	}
	return result
}
