// ABOUTME: Shared process bootstrap helpers for the three cmd/ batch drivers
// ABOUTME: Logger construction, actor vocabulary loading, and cooperative interrupt handling

package handler

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"strategic-news-pipeline/config"
	"strategic-news-pipeline/domain/actorvocab"
)

// NewLogger builds the process-wide structured logger, honoring LOG_LEVEL
// the same way every driver in this repository configures its logging.
func NewLogger(levelName string) *slog.Logger {
	var level slog.Level
	switch levelName {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

// InterruptContext returns a context cancelled on SIGINT, for cooperative
// shutdown between batches.
func InterruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// LoadMatcher loads the actor vocabulary from the configured source (CSV or
// the relational data_entities table) and compiles it into a Matcher. The
// gate and bucket drivers call it at startup to evaluate titles; it fails
// when the source cannot be read or yields zero entries.
func LoadMatcher(ctx context.Context, cfg *config.Config, db *sql.DB) (*actorvocab.Matcher, error) {
	var entries []actorvocab.Entry
	var err error

	switch cfg.Vocab.Source {
	case "csv":
		entries, err = actorvocab.LoadFromCSV(cfg.Vocab.ActorCSVPath)
	case "db":
		entries, err = actorvocab.LoadFromDB(ctx, db)
	default:
		return nil, fmt.Errorf("unknown actor vocabulary source %q", cfg.Vocab.Source)
	}
	if err != nil {
		return nil, fmt.Errorf("loading actor vocabulary: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("actor vocabulary source %q returned zero entries", cfg.Vocab.Source)
	}

	return actorvocab.NewMatcher(entries), nil
}
