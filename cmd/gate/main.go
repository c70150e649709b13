// ABOUTME: Strategic Gate batch driver entrypoint
// ABOUTME: Evaluates pending titles against the actor vocabulary until the batches run dry

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
	batchSize := flag.Int("batch-size", 0, "titles evaluated per batch (0 = use GATE_DEFAULT_BATCH_SIZE)")
	maxBatches := flag.Int("max-batches", 0, "maximum number of batches to run (0 = use GATE_DEFAULT_MAX_BATCHES)")
	pending := flag.Bool("pending", false, "report how many pending titles the first batch holds (at most batch-size) and exit without gating")
	printSummary := flag.Bool("summary", true, "print the GATE_RESULT summary line")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load configuration:", err)
		os.Exit(1)
	}

	logger := handler.NewLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	if *batchSize <= 0 {
		*batchSize = cfg.Gate.DefaultBatchSize
	}
	if *maxBatches <= 0 {
		*maxBatches = cfg.Gate.DefaultMaxBatches
	}

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("failed to open database connection", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, stop := handler.InterruptContext()
	defer stop()

	titleRepo := repository.NewPostgreSQLTitleRepository(db, logger)

	if *pending {
		titles, err := titleRepo.GetPendingBatch(ctx, *batchSize, 0)
		if err != nil {
			logger.Error("failed to count pending titles", "error", err)
			os.Exit(1)
		}
		fmt.Printf("GATE_PENDING: %d titles in first batch of %d\n", len(titles), *batchSize)
		os.Exit(0)
	}

	matcher, err := handler.LoadMatcher(ctx, cfg, db)
	if err != nil {
		logger.Error("failed to load actor vocabulary", "error", err)
		os.Exit(1)
	}

	gate := service.NewStrategicGate(matcher, titleRepo, logger)

	monitor := utils.NewMonitor(&utils.MonitoringConfig{
		EnableMetrics:     cfg.Monitoring.EnableMetrics,
		MetricsBatchSize:  cfg.Monitoring.MetricsBatchSize,
		FlushInterval:     cfg.Monitoring.FlushInterval,
		RetentionDuration: cfg.Monitoring.RetentionDuration,
	}, logger)
	defer monitor.Close()

	h := handler.NewGateHandler(gate, monitor, logger)

	result, err := h.Run(ctx, *batchSize, *maxBatches)
	if ctx.Err() != nil {
		logger.Warn("gate run interrupted")
		os.Exit(130)
	}
	if err != nil {
		logger.Error("gate batch run failed", "error", err)
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
