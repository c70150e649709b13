// ABOUTME: Bucket Manager batch driver entrypoint
// ABOUTME: Groups recently gated titles into actor-set buckets for one rolling window

package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"strategic-news-pipeline/config"
	"strategic-news-pipeline/handler"
	"strategic-news-pipeline/repository"
	"strategic-news-pipeline/service"
	"strategic-news-pipeline/utils"

	_ "github.com/lib/pq"
)

func main() {
	hours := flag.Int("hours", 0, "rolling window in hours to consider for bucketing (0 = use BUCKET_PROCESSING_WINDOW_HOURS)")
	dryRun := flag.Bool("dry-run", false, "group candidates without persisting buckets")
	printSummary := flag.Bool("summary", true, "print the BUCKET_RESULT summary line")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load configuration:", err)
		os.Exit(1)
	}

	logger := handler.NewLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	if *hours <= 0 {
		*hours = cfg.Bucket.ProcessingWindowHours
	}

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("failed to open database connection", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, stop := handler.InterruptContext()
	defer stop()

	matcher, err := handler.LoadMatcher(ctx, cfg, db)
	if err != nil {
		logger.Error("failed to load actor vocabulary", "error", err)
		os.Exit(1)
	}

	titleRepo := repository.NewPostgreSQLTitleRepository(db, logger)
	bucketRepo := repository.NewPostgreSQLBucketRepository(db, logger)
	bucketManager := service.NewBucketManager(matcher, titleRepo, bucketRepo, cfg.Bucket, logger)

	monitor := utils.NewMonitor(&utils.MonitoringConfig{
		EnableMetrics:     cfg.Monitoring.EnableMetrics,
		MetricsBatchSize:  cfg.Monitoring.MetricsBatchSize,
		FlushInterval:     cfg.Monitoring.FlushInterval,
		RetentionDuration: cfg.Monitoring.RetentionDuration,
	}, logger)
	defer monitor.Close()

	h := handler.NewBucketHandler(bucketManager, monitor, logger)

	result, err := h.Run(ctx, *hours, *dryRun)
	if ctx.Err() != nil {
		logger.Warn("bucket run interrupted")
		os.Exit(130)
	}
	if err != nil {
		logger.Error("bucket manager run failed", "error", err)
		os.Exit(1)
	}

	if *printSummary {
		fmt.Println(result.Summary())
	}
	if result.Errors > 0 {
		os.Exit(1)
	}
	os.Exit(0)
}
