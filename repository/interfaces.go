// ABOUTME: Repository layer common interfaces for clean architecture
// ABOUTME: Defines contracts for data access operations across feeds, titles, and buckets

package repository

import (
	"context"
	"time"

	"strategic-news-pipeline/models"

	"github.com/google/uuid"
)

// FeedRepository manages tracked RSS/Atom sources and their polling watermarks.
type FeedRepository interface {
	GetActiveFeeds(ctx context.Context) ([]*models.Feed, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Feed, error)
	UpdateWatermark(ctx context.Context, feed *models.Feed) error
}

// TitleRepository manages ingested headlines through their pipeline lifecycle.
type TitleRepository interface {
	// InsertIfNew inserts a title, skipping silently on a (content_hash,
	// feed_id) conflict. Returns true if a new row was inserted.
	InsertIfNew(ctx context.Context, title *models.Title) (bool, error)

	// GetPendingBatch returns up to limit titles awaiting a gate decision,
	// ordered pubdate_utc DESC, id, starting at offset.
	GetPendingBatch(ctx context.Context, limit, offset int) ([]*models.Title, error)

	// UpdateGateResults persists gate decisions for a batch of titles in a
	// single transaction.
	UpdateGateResults(ctx context.Context, titles []*models.Title) error

	// GetStrategicTitlesForBucketing returns gate_keep=true titles with a
	// non-null pubdate_utc within the last `hours`, ordered pubdate_utc DESC.
	GetStrategicTitlesForBucketing(ctx context.Context, hours int) ([]*models.Title, error)
}

// BucketRepository manages actor-set buckets and their member links.
type BucketRepository interface {
	// BucketExists reports whether a bucket with the given business key
	// already exists.
	BucketExists(ctx context.Context, bucketID string) (bool, error)

	// InsertBucket inserts a bucket and its member links in a single
	// transaction. It is a no-op (returning false) if the bucket already
	// exists.
	InsertBucket(ctx context.Context, bucket *models.Bucket, memberTitleIDs []uuid.UUID) (bool, error)

	// UpdateMembers replaces a bucket's members and refreshes its
	// members_count/members_checksum.
	UpdateMembers(ctx context.Context, bucketID uuid.UUID, memberTitleIDs []uuid.UUID, checksum string) error
}

// clock is overridable in tests; production code always uses time.Now.
var clock = time.Now
