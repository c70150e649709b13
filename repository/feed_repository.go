// ABOUTME: PostgreSQL implementation of FeedRepository
// ABOUTME: Tracks registered RSS/Atom sources and their conditional-GET/watermark state

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"strategic-news-pipeline/models"

	"github.com/google/uuid"
)

// PostgreSQLFeedRepository implements FeedRepository using PostgreSQL.
type PostgreSQLFeedRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgreSQLFeedRepository creates a new PostgreSQL feed repository.
func NewPostgreSQLFeedRepository(db *sql.DB, logger *slog.Logger) FeedRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgreSQLFeedRepository{db: db, logger: logger}
}

// GetActiveFeeds returns every feed marked active, ordered by name.
func (r *PostgreSQLFeedRepository) GetActiveFeeds(ctx context.Context) ([]*models.Feed, error) {
	const query = `
		SELECT id, url, name, active, etag, last_modified, last_pubdate_utc, last_run_at, created_at, updated_at
		FROM feeds
		WHERE active = true
		ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying active feeds: %w", err)
	}
	defer rows.Close()

	var feeds []*models.Feed
	for rows.Next() {
		feed, err := scanFeed(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning feed row: %w", err)
		}
		feeds = append(feeds, feed)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating feed rows: %w", err)
	}

	return feeds, nil
}

// FindByID returns a single feed by its surrogate key.
func (r *PostgreSQLFeedRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Feed, error) {
	const query = `
		SELECT id, url, name, active, etag, last_modified, last_pubdate_utc, last_run_at, created_at, updated_at
		FROM feeds
		WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, id)
	feed, err := scanFeed(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding feed %s: %w", id, err)
	}
	return feed, nil
}

// UpdateWatermark persists a feed's conditional-GET headers and polling
// progress after a fetch cycle.
func (r *PostgreSQLFeedRepository) UpdateWatermark(ctx context.Context, feed *models.Feed) error {
	const query = `
		UPDATE feeds
		SET etag = $2, last_modified = $3, last_pubdate_utc = $4, last_run_at = $5, updated_at = $6
		WHERE id = $1`

	now := clock().UTC()
	_, err := r.db.ExecContext(ctx, query,
		feed.ID, feed.ETag, feed.LastModified, feed.LastPubdateUTC, feed.LastRunAt, now,
	)
	if err != nil {
		r.logger.Error("failed to update feed watermark", "feed_id", feed.ID, "error", err)
		return fmt.Errorf("updating watermark for feed %s: %w", feed.ID, err)
	}
	feed.UpdatedAt = now
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFeed(row rowScanner) (*models.Feed, error) {
	var feed models.Feed
	err := row.Scan(
		&feed.ID, &feed.URL, &feed.Name, &feed.Active,
		&feed.ETag, &feed.LastModified, &feed.LastPubdateUTC, &feed.LastRunAt,
		&feed.CreatedAt, &feed.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &feed, nil
}
