// ABOUTME: Ticker-driven scheduler for continuously running ingest, gate, and bucket passes
// ABOUTME: Intended for a long-lived daemon mode; one-shot CLI drivers call the services directly instead

package scheduler

import (
	"context"
	"log/slog"
	"time"

	"strategic-news-pipeline/service"
)

// Scheduler runs the ingestion, gate, and bucket stages on independent ticker
// intervals so the pipeline can operate as a long-lived process instead of
// three separately-cron'd one-shot commands.
type Scheduler struct {
	fetcher *service.RSSFetcher
	gate    *service.StrategicGate
	bucket  *service.BucketManager
	logger  *slog.Logger

	ingestTicker *time.Ticker
	gateTicker   *time.Ticker
	bucketTicker *time.Ticker
	stopChan     chan struct{}
	isRunning    bool
}

// Config holds the recurring interval for each pipeline stage.
type Config struct {
	IngestInterval time.Duration
	GateInterval   time.Duration
	BucketInterval time.Duration

	GateBatchSize   int
	GateMaxBatches  int
	BucketHours     int
}

// DefaultConfig returns sensible polling cadences: feeds every 15 minutes,
// the gate every 5 minutes, and bucket formation hourly.
func DefaultConfig() Config {
	return Config{
		IngestInterval: 15 * time.Minute,
		GateInterval:   5 * time.Minute,
		BucketInterval: time.Hour,
		GateBatchSize:  500,
		GateMaxBatches: 20,
		BucketHours:    72,
	}
}

// NewScheduler constructs a Scheduler over the three pipeline stage services.
func NewScheduler(fetcher *service.RSSFetcher, gate *service.StrategicGate, bucket *service.BucketManager, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		fetcher:  fetcher,
		gate:     gate,
		bucket:   bucket,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start begins the recurring ticker loops. It is a no-op if already running.
func (s *Scheduler) Start(cfg Config) {
	if s.isRunning {
		s.logger.Warn("scheduler already running")
		return
	}

	s.logger.Info("starting pipeline scheduler",
		"ingest_interval", cfg.IngestInterval,
		"gate_interval", cfg.GateInterval,
		"bucket_interval", cfg.BucketInterval)

	s.ingestTicker = time.NewTicker(cfg.IngestInterval)
	s.gateTicker = time.NewTicker(cfg.GateInterval)
	s.bucketTicker = time.NewTicker(cfg.BucketInterval)
	s.isRunning = true

	go s.runLoop(cfg)
}

// Stop halts all ticker loops.
func (s *Scheduler) Stop() {
	if !s.isRunning {
		return
	}

	s.logger.Info("stopping pipeline scheduler")
	close(s.stopChan)
	s.ingestTicker.Stop()
	s.gateTicker.Stop()
	s.bucketTicker.Stop()
	s.isRunning = false
}

func (s *Scheduler) runLoop(cfg Config) {
	for {
		select {
		case <-s.stopChan:
			return
		case <-s.ingestTicker.C:
			s.runIngest()
		case <-s.gateTicker.C:
			s.runGate(cfg)
		case <-s.bucketTicker.C:
			s.runBucket(cfg)
		}
	}
}

func (s *Scheduler) runIngest() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := s.fetcher.FetchAll(ctx)
	if err != nil {
		s.logger.Error("scheduled ingest failed", "error", err)
		return
	}
	s.logger.Info("scheduled ingest complete",
		"feeds_processed", result.FeedsProcessed, "inserted", result.Inserted, "errors", result.Errors)
}

func (s *Scheduler) runGate(cfg Config) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := s.gate.Run(ctx, cfg.GateBatchSize, cfg.GateMaxBatches)
	if err != nil {
		s.logger.Error("scheduled gate run failed", "error", err)
		return
	}
	s.logger.Info("scheduled gate run complete",
		"total_processed", result.TotalProcessed, "kept", result.Kept)
}

func (s *Scheduler) runBucket(cfg Config) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := s.bucket.Run(ctx, cfg.BucketHours, false)
	if err != nil {
		s.logger.Error("scheduled bucket run failed", "error", err)
		return
	}
	s.logger.Info("scheduled bucket run complete",
		"titles_considered", result.TitlesConsidered, "buckets_created", result.BucketsCreated)
}
