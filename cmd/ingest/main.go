// ABOUTME: RSS/Atom ingestion batch driver entrypoint
// ABOUTME: Polls registered feeds once and exits, reporting a single summary line

package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"strategic-news-pipeline/config"
	"strategic-news-pipeline/driver"
	"strategic-news-pipeline/handler"
	"strategic-news-pipeline/repository"
	"strategic-news-pipeline/service"
	"strategic-news-pipeline/utils"

	_ "github.com/lib/pq"
)

func main() {
	maxFeeds := flag.Int("max-feeds", 0, "maximum number of feeds to poll this run (0 = all active feeds)")
	printSummary := flag.Bool("summary", true, "print the INGEST_RESULT summary line")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load configuration:", err)
		os.Exit(1)
	}

	logger := handler.NewLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("failed to open database connection", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	feedRepo := repository.NewPostgreSQLFeedRepository(db, logger)
	titleRepo := repository.NewPostgreSQLTitleRepository(db, logger)
	httpClient := driver.NewFeedHTTPClient(cfg, logger)
	fetcher := service.NewRSSFetcher(httpClient, feedRepo, titleRepo, cfg, logger)

	monitor := utils.NewMonitor(&utils.MonitoringConfig{
		EnableMetrics:     cfg.Monitoring.EnableMetrics,
		MetricsBatchSize:  cfg.Monitoring.MetricsBatchSize,
		FlushInterval:     cfg.Monitoring.FlushInterval,
		RetentionDuration: cfg.Monitoring.RetentionDuration,
	}, logger)
	defer monitor.Close()

	h := handler.NewIngestHandler(fetcher, monitor, logger)

	ctx, stop := handler.InterruptContext()
	defer stop()

	result, err := h.Run(ctx, *maxFeeds)
	if ctx.Err() != nil {
		logger.Warn("ingestion interrupted")
		os.Exit(130)
	}
	if err != nil {
		logger.Error("ingestion batch failed", "error", err)
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
