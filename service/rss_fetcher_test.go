// ABOUTME: Tests for conditional feed polling, normalization, and dedup insertion via RSSFetcher

package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"strategic-news-pipeline/config"
	"strategic-news-pipeline/driver"
	"strategic-news-pipeline/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRSS = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>Example Wire</title>
<item><title>Russia and United States Hold Summit - Example Wire</title><link>https://wire.example.com/a1</link><pubDate>%s</pubDate></item>
<item><title>Local Bakery Wins Award</title><link>https://wire.example.com/a2</link><pubDate>%s</pubDate></item>
</channel></rss>`

func fetcherTestConfig() *config.Config {
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
		Retry: config.RetryConfig{
			MaxRetries:   2,
			InitialDelay: time.Millisecond,
			MaxDelay:     10 * time.Millisecond,
			Multiplier:   2.0,
		},
		Ingestion: config.IngestionConfig{
			UserAgent:          "test-agent/1.0",
			LookbackDays:       30,
			MaxItemsPerFeed:    50,
			MaxConcurrentFeeds: 4,
		},
	}
}

func TestRSSFetcherFetchAllInsertsNewEntriesWithinWatermark(t *testing.T) {
	now := time.Now().UTC()
	pub1 := now.Add(-time.Hour).Format(time.RFC1123Z)
	pub2 := now.Add(-2 * time.Hour).Format(time.RFC1123Z)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(formatRSS(pub1, pub2)))
	}))
	defer server.Close()

	feed := &models.Feed{ID: uuid.New(), URL: server.URL, Name: "Example Wire"}
	feedRepo := &fakeFeedRepo{feeds: []*models.Feed{feed}}
	titleRepo := &fakeTitleRepo{}

	client := driver.NewFeedHTTPClient(fetcherTestConfig(), nil)
	fetcher := NewRSSFetcher(client, feedRepo, titleRepo, fetcherTestConfig(), nil)

	result, err := fetcher.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.FeedsTotal)
	assert.Equal(t, 1, result.FeedsProcessed)
	assert.Equal(t, 0, result.Errors)
	require.Len(t, feedRepo.updatedWatermarks, 1)
	assert.NotNil(t, feedRepo.updatedWatermarks[0].LastRunAt)
}

func TestRSSFetcherFetchAllHandles304AsNoOp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotModified)
	}))
	defer server.Close()

	etag := `"cached"`
	feed := &models.Feed{ID: uuid.New(), URL: server.URL, Name: "Example Wire", ETag: &etag}
	feedRepo := &fakeFeedRepo{feeds: []*models.Feed{feed}}
	titleRepo := &fakeTitleRepo{}

	client := driver.NewFeedHTTPClient(fetcherTestConfig(), nil)
	fetcher := NewRSSFetcher(client, feedRepo, titleRepo, fetcherTestConfig(), nil)

	result, err := fetcher.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Inserted)
	require.Len(t, feedRepo.updatedWatermarks, 1)
}

func TestRSSFetcherFetchAllCollectsPerFeedErrorsWithoutAborting(t *testing.T) {
	feedRepo := &fakeFeedRepo{feeds: []*models.Feed{
		{ID: uuid.New(), URL: "http://127.0.0.1:0", Name: "Unreachable"},
	}}
	titleRepo := &fakeTitleRepo{}

	cfg := fetcherTestConfig()
	cfg.Retry.MaxRetries = 0
	client := driver.NewFeedHTTPClient(cfg, nil)
	fetcher := NewRSSFetcher(client, feedRepo, titleRepo, cfg, nil)

	result, err := fetcher.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.FeedsTotal)
	assert.Equal(t, 1, result.Errors)
	assert.Len(t, result.FeedErrors, 1)
}

func formatRSS(pub1, pub2 string) string {
	return fmt.Sprintf(sampleRSS, pub1, pub2)
}
