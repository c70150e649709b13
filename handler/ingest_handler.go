// ABOUTME: Handler layer for the RSS/Atom ingestion batch driver
// ABOUTME: Orchestrates a single fetch-all pass and renders its CLI summary line

package handler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"strategic-news-pipeline/service"
	"strategic-news-pipeline/utils"
)

// Fetcher is the subset of RSSFetcher the ingestion handler depends on.
type Fetcher interface {
	FetchN(ctx context.Context, maxFeeds int) (*service.FetchResult, error)
}

// IngestHandler orchestrates one ingestion batch run.
type IngestHandler struct {
	fetcher Fetcher
	monitor *utils.Monitor
	logger  *slog.Logger
}

// NewIngestHandler constructs an IngestHandler over the given fetcher.
func NewIngestHandler(fetcher Fetcher, monitor *utils.Monitor, logger *slog.Logger) *IngestHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &IngestHandler{fetcher: fetcher, monitor: monitor, logger: logger}
}

// IngestRunResult carries the outcome of one ingestion batch, including the
// duration, for both the CLI summary line and structured logging.
type IngestRunResult struct {
	*service.FetchResult
	Duration time.Duration
}

// Run executes one ingestion pass across up to maxFeeds feeds (0 = all
// active feeds) and records the run against the monitor.
func (h *IngestHandler) Run(ctx context.Context, maxFeeds int) (*IngestRunResult, error) {
	start := time.Now()

	fetchResult, err := h.fetcher.FetchN(ctx, maxFeeds)
	duration := time.Since(start)

	if err != nil {
		if h.monitor != nil {
			h.monitor.LogPipelineStage(ctx, "ingest", 0, false, duration, err)
		}
		return nil, fmt.Errorf("running ingestion batch: %w", err)
	}

	result := &IngestRunResult{FetchResult: fetchResult, Duration: duration}

	if h.monitor != nil {
		h.monitor.LogPipelineStage(ctx, "ingest", fetchResult.Inserted, fetchResult.Errors == 0, duration, nil)
	}

	h.logger.Info("ingestion batch complete",
		"feeds_total", fetchResult.FeedsTotal,
		"feeds_processed", fetchResult.FeedsProcessed,
		"inserted", fetchResult.Inserted,
		"skipped", fetchResult.Skipped,
		"errors", fetchResult.Errors,
		"duration", duration)

	return result, nil
}

// Summary renders the single-line CLI summary for an ingestion run.
func (r *IngestRunResult) Summary() string {
	return fmt.Sprintf("INGEST_RESULT: %d/%d feeds, %d inserted, %d duplicate, %d errors",
		r.FeedsProcessed, r.FeedsTotal, r.Inserted, r.Skipped, r.Errors)
}
