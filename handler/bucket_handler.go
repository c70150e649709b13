// ABOUTME: Handler layer for the Bucket Manager batch driver
// ABOUTME: Orchestrates one bucket-formation pass and renders its CLI summary line

package handler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"strategic-news-pipeline/service"
	"strategic-news-pipeline/utils"
)

// Bucketer is the subset of BucketManager the bucket handler depends on.
type Bucketer interface {
	Run(ctx context.Context, hours int, dryRun bool) (*service.BucketRunResult, error)
}

// BucketHandler orchestrates one bucket-formation run.
type BucketHandler struct {
	bucketer Bucketer
	monitor  *utils.Monitor
	logger   *slog.Logger
}

// NewBucketHandler constructs a BucketHandler over the given bucket manager.
func NewBucketHandler(bucketer Bucketer, monitor *utils.Monitor, logger *slog.Logger) *BucketHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BucketHandler{bucketer: bucketer, monitor: monitor, logger: logger}
}

// BucketRunResult carries the outcome of one bucket-formation driver run.
type BucketRunResult struct {
	*service.BucketRunResult
	Duration time.Duration
}

// Run groups strategic titles from the last `hours` hours into actor-set
// buckets. When dryRun is true, no writes occur.
func (h *BucketHandler) Run(ctx context.Context, hours int, dryRun bool) (*BucketRunResult, error) {
	start := time.Now()

	bucketResult, err := h.bucketer.Run(ctx, hours, dryRun)
	duration := time.Since(start)

	if err != nil {
		if h.monitor != nil {
			h.monitor.LogPipelineStage(ctx, "bucket", 0, false, duration, err)
		}
		return nil, fmt.Errorf("running bucket manager batch: %w", err)
	}

	if h.monitor != nil {
		h.monitor.LogPipelineStage(ctx, "bucket", bucketResult.TitlesConsidered, bucketResult.Errors == 0, duration, nil)
	}

	h.logger.Info("bucket manager run complete",
		"titles_considered", bucketResult.TitlesConsidered,
		"buckets_created", bucketResult.BucketsCreated,
		"buckets_updated", bucketResult.BucketsUpdated,
		"errors", bucketResult.Errors,
		"dry_run", dryRun,
		"duration", duration)

	return &BucketRunResult{BucketRunResult: bucketResult, Duration: duration}, nil
}

// Summary renders the single-line CLI summary for a bucket run.
func (r *BucketRunResult) Summary() string {
	return fmt.Sprintf("BUCKET_RESULT: %d created, %d updated, %d titles_considered",
		r.BucketsCreated, r.BucketsUpdated, r.TitlesConsidered)
}
