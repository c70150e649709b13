// ABOUTME: PostgreSQL implementation of BucketRepository
// ABOUTME: Persists actor-set buckets and their member links idempotently by business key

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"strategic-news-pipeline/models"

	"github.com/google/uuid"
)

// PostgreSQLBucketRepository implements BucketRepository using PostgreSQL.
type PostgreSQLBucketRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgreSQLBucketRepository creates a new PostgreSQL bucket repository.
func NewPostgreSQLBucketRepository(db *sql.DB, logger *slog.Logger) BucketRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgreSQLBucketRepository{db: db, logger: logger}
}

// BucketExists reports whether a bucket with the given business key already
// exists, used to make bucket formation idempotent across repeated runs.
func (r *PostgreSQLBucketRepository) BucketExists(ctx context.Context, bucketID string) (bool, error) {
	const query = `SELECT 1 FROM buckets WHERE bucket_id = $1 LIMIT 1`

	var found int
	err := r.db.QueryRowContext(ctx, query, bucketID).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking existence of bucket %s: %w", bucketID, err)
	}
	return true, nil
}

// InsertBucket inserts a bucket and its member links inside one transaction.
// If the business key already exists, it is a no-op returning (false, nil).
func (r *PostgreSQLBucketRepository) InsertBucket(ctx context.Context, bucket *models.Bucket, memberTitleIDs []uuid.UUID) (bool, error) {
	exists, err := r.BucketExists(ctx, bucket.BucketID)
	if err != nil {
		return false, err
	}
	if exists {
		r.logger.Debug("bucket already exists, skipping insert", "bucket_id", bucket.BucketID)
		return false, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning bucket insert transaction: %w", err)
	}
	defer tx.Rollback()

	const insertBucket = `
		INSERT INTO buckets (
			id, bucket_id, bucket_key, top_actors, time_window_start, time_window_end,
			members_count, members_checksum, mechanism_hint, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	if _, err := tx.ExecContext(ctx, insertBucket,
		bucket.ID, bucket.BucketID, bucket.BucketKey, bucket.TopActorsJSON, bucket.TimeWindowStart, bucket.TimeWindowEnd,
		bucket.MembersCount, bucket.MembersChecksum, bucket.MechanismHint, bucket.CreatedAt, bucket.UpdatedAt,
	); err != nil {
		return false, fmt.Errorf("inserting bucket %s: %w", bucket.BucketID, err)
	}

	const insertMember = `INSERT INTO bucket_members (id, bucket_id, title_id) VALUES ($1, $2, $3)`
	for _, titleID := range memberTitleIDs {
		if _, err := tx.ExecContext(ctx, insertMember, uuid.New(), bucket.ID, titleID); err != nil {
			return false, fmt.Errorf("inserting bucket member (bucket=%s, title=%s): %w", bucket.BucketID, titleID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing bucket insert transaction: %w", err)
	}
	return true, nil
}

// UpdateMembers replaces a bucket's member links and refreshes its
// members_count/members_checksum in a single transaction.
func (r *PostgreSQLBucketRepository) UpdateMembers(ctx context.Context, bucketID uuid.UUID, memberTitleIDs []uuid.UUID, checksum string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning bucket member update transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM bucket_members WHERE bucket_id = $1`, bucketID); err != nil {
		return fmt.Errorf("clearing members for bucket %s: %w", bucketID, err)
	}

	const insertMember = `INSERT INTO bucket_members (id, bucket_id, title_id) VALUES ($1, $2, $3)`
	for _, titleID := range memberTitleIDs {
		if _, err := tx.ExecContext(ctx, insertMember, uuid.New(), bucketID, titleID); err != nil {
			return fmt.Errorf("re-inserting bucket member (bucket=%s, title=%s): %w", bucketID, titleID, err)
		}
	}

	const updateBucket = `UPDATE buckets SET members_count = $2, members_checksum = $3, updated_at = $4 WHERE id = $1`
	if _, err := tx.ExecContext(ctx, updateBucket, bucketID, len(memberTitleIDs), checksum, clock().UTC()); err != nil {
		return fmt.Errorf("updating bucket %s member counts: %w", bucketID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing bucket member update transaction: %w", err)
	}
	return nil
}
