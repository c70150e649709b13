// ABOUTME: Tests for conditional-GET feed polling and retry/backoff behavior

package driver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"strategic-news-pipeline/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		HTTPClient: config.HTTPClientConfig{
			Timeout:               5 * time.Second,
			TLSHandshakeTimeout:   time.Second,
			ResponseHeaderTimeout: time.Second,
			IdleConnTimeout:       time.Second,
			MaxIdleConns:          5,
			MaxIdleConnsPerHost:   2,
		},
		CircuitBreaker: config.CircuitBreakerConfig{
			FailureThreshold: 10,
			SuccessThreshold: 1,
			Timeout:          time.Second,
			MaxRequests:      1,
		},
		Ingestion: config.IngestionConfig{UserAgent: "test-agent/1.0"},
	}
}

func TestFeedHTTPClientFetchSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ETag", `"abc"`)
		w.Write([]byte("<rss></rss>"))
	}))
	defer server.Close()

	client := NewFeedHTTPClient(testConfig(), nil)
	resp, err := client.Fetch(context.Background(), server.URL, "", "")
	require.NoError(t, err)
	assert.False(t, resp.NotModified)
	assert.Equal(t, `"abc"`, resp.ETag)
	assert.Equal(t, "<rss></rss>", string(resp.Body))
}

func TestFeedHTTPClientFetchNotModified(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, `"abc"`, r.Header.Get("If-None-Match"))
		w.WriteHeader(http.StatusNotModified)
	}))
	defer server.Close()

	client := NewFeedHTTPClient(testConfig(), nil)
	resp, err := client.Fetch(context.Background(), server.URL, `"abc"`, "")
	require.NoError(t, err)
	assert.True(t, resp.NotModified)
}

func TestFeedHTTPClientFetchWithRetriesSucceedsAfterFailures(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("<rss></rss>"))
	}))
	defer server.Close()

	client := NewFeedHTTPClient(testConfig(), nil)
	resp, err := client.FetchWithRetries(context.Background(), server.URL, "", "", 5, time.Millisecond, 2.0, func() time.Duration { return 0 })
	require.NoError(t, err)
	assert.Equal(t, "<rss></rss>", string(resp.Body))
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestFeedHTTPClientFetchWithRetriesExhausted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewFeedHTTPClient(testConfig(), nil)
	_, err := client.FetchWithRetries(context.Background(), server.URL, "", "", 2, time.Millisecond, 2.0, nil)
	assert.Error(t, err)
}
