// ABOUTME: PostgreSQL implementation of TitleRepository
// ABOUTME: Handles deduplicated insertion, Strategic Gate batch reads/writes, and bucketing reads

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"strategic-news-pipeline/models"
)

// PostgreSQLTitleRepository implements TitleRepository using PostgreSQL.
type PostgreSQLTitleRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgreSQLTitleRepository creates a new PostgreSQL title repository.
func NewPostgreSQLTitleRepository(db *sql.DB, logger *slog.Logger) TitleRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgreSQLTitleRepository{db: db, logger: logger}
}

// InsertIfNew inserts a title, relying on a (content_hash, feed_id) unique
// constraint to silently skip duplicates.
func (r *PostgreSQLTitleRepository) InsertIfNew(ctx context.Context, title *models.Title) (bool, error) {
	const query = `
		INSERT INTO titles (
			id, feed_id, title_original, title_display, title_norm, content_hash, language, language_conf,
			url, publisher_name, publisher_domain, pubdate_utc, processing_status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (content_hash, feed_id) DO NOTHING
		RETURNING id`

	var returnedID string
	err := r.db.QueryRowContext(ctx, query,
		title.ID, title.FeedID, title.TitleOriginal, title.TitleDisplay, title.TitleNorm, title.ContentHash,
		title.Language, title.LanguageConf, title.URL, title.PublisherName, title.PublisherDomain,
		title.PubdateUTC, title.ProcessingStatus, title.CreatedAt,
	).Scan(&returnedID)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("inserting title (feed_id=%s, content_hash=%s): %w", title.FeedID, title.ContentHash, err)
	}
	return true, nil
}

// GetPendingBatch returns titles awaiting a gate decision, ordered
// pubdate_utc DESC, id, for offset-paginated batch processing.
func (r *PostgreSQLTitleRepository) GetPendingBatch(ctx context.Context, limit, offset int) ([]*models.Title, error) {
	const query = `
		SELECT id, feed_id, title_original, title_display, title_norm, content_hash, language, language_conf,
		       url, publisher_name, publisher_domain, pubdate_utc, processing_status,
		       gate_keep, gate_reason, gate_score, gate_actor_hit, gate_at, created_at
		FROM titles
		WHERE processing_status = 'pending' AND gate_at IS NULL
		ORDER BY pubdate_utc DESC, id
		LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("querying pending titles batch: %w", err)
	}
	defer rows.Close()

	var titles []*models.Title
	for rows.Next() {
		title, err := scanTitle(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning pending title row: %w", err)
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pending title rows: %w", err)
	}

	return titles, nil
}

// UpdateGateResults persists gate decisions for a batch of titles in a
// single transaction so a batch either fully lands or fully rolls back.
func (r *PostgreSQLTitleRepository) UpdateGateResults(ctx context.Context, titles []*models.Title) error {
	if len(titles) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning gate results transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
		UPDATE titles
		SET gate_keep = $2, gate_reason = $3, gate_score = $4, gate_actor_hit = $5,
		    gate_at = $6, processing_status = $7
		WHERE id = $1`

	for _, title := range titles {
		_, err := tx.ExecContext(ctx, query,
			title.ID, title.GateKeep, title.GateReason, title.GateScore,
			title.GateActorHit, title.GateAt, title.ProcessingStatus,
		)
		if err != nil {
			r.logger.Error("failed to update gate result", "title_id", title.ID, "error", err)
			return fmt.Errorf("updating gate result for title %s: %w", title.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing gate results transaction: %w", err)
	}
	return nil
}

// GetStrategicTitlesForBucketing returns gate_keep=true titles with a
// known publish date from the last `hours` hours, newest first.
func (r *PostgreSQLTitleRepository) GetStrategicTitlesForBucketing(ctx context.Context, hours int) ([]*models.Title, error) {
	const query = `
		SELECT id, feed_id, title_original, title_display, title_norm, content_hash, language, language_conf,
		       url, publisher_name, publisher_domain, pubdate_utc, processing_status,
		       gate_keep, gate_reason, gate_score, gate_actor_hit, gate_at, created_at
		FROM titles
		WHERE gate_keep = true
		  AND pubdate_utc IS NOT NULL
		  AND pubdate_utc >= NOW() - ($1 || ' hours')::interval
		ORDER BY pubdate_utc DESC`

	rows, err := r.db.QueryContext(ctx, query, hours)
	if err != nil {
		return nil, fmt.Errorf("querying strategic titles for bucketing: %w", err)
	}
	defer rows.Close()

	var titles []*models.Title
	for rows.Next() {
		title, err := scanTitle(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning strategic title row: %w", err)
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating strategic title rows: %w", err)
	}

	return titles, nil
}

func scanTitle(row rowScanner) (*models.Title, error) {
	var title models.Title
	err := row.Scan(
		&title.ID, &title.FeedID, &title.TitleOriginal, &title.TitleDisplay, &title.TitleNorm, &title.ContentHash,
		&title.Language, &title.LanguageConf, &title.URL, &title.PublisherName, &title.PublisherDomain,
		&title.PubdateUTC, &title.ProcessingStatus,
		&title.GateKeep, &title.GateReason, &title.GateScore, &title.GateActorHit, &title.GateAt,
		&title.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &title, nil
}
