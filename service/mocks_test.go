// ABOUTME: Hand-written repository fakes used across service-layer unit tests
// ABOUTME: Mirrors the interfaces in repository/interfaces.go without a live database

package service

import (
	"context"
	"errors"

	"strategic-news-pipeline/models"

	"github.com/google/uuid"
)

// assertErr is a sentinel error used across service-layer tests to simulate
// a repository failure without depending on a particular wrapped message.
var assertErr = errors.New("simulated repository failure")

type fakeTitleRepo struct {
	pendingBatches  [][]*models.Title
	batchCallIndex  int
	updatedBatches  [][]*models.Title
	strategicTitles []*models.Title
	getPendingErr   error
	updateErr       error
	strategicErr    error
}

func (f *fakeTitleRepo) InsertIfNew(ctx context.Context, title *models.Title) (bool, error) {
	return true, nil
}

func (f *fakeTitleRepo) GetPendingBatch(ctx context.Context, limit, offset int) ([]*models.Title, error) {
	if f.getPendingErr != nil {
		return nil, f.getPendingErr
	}
	if f.batchCallIndex >= len(f.pendingBatches) {
		return nil, nil
	}
	batch := f.pendingBatches[f.batchCallIndex]
	f.batchCallIndex++
	return batch, nil
}

func (f *fakeTitleRepo) UpdateGateResults(ctx context.Context, titles []*models.Title) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updatedBatches = append(f.updatedBatches, titles)
	return nil
}

func (f *fakeTitleRepo) GetStrategicTitlesForBucketing(ctx context.Context, hours int) ([]*models.Title, error) {
	if f.strategicErr != nil {
		return nil, f.strategicErr
	}
	return f.strategicTitles, nil
}

type fakeFeedRepo struct {
	feeds           []*models.Feed
	updatedWatermarks []*models.Feed
	getActiveErr    error
	updateErr       error
}

func (f *fakeFeedRepo) GetActiveFeeds(ctx context.Context) ([]*models.Feed, error) {
	if f.getActiveErr != nil {
		return nil, f.getActiveErr
	}
	return f.feeds, nil
}

func (f *fakeFeedRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Feed, error) {
	for _, feed := range f.feeds {
		if feed.ID == id {
			return feed, nil
		}
	}
	return nil, nil
}

func (f *fakeFeedRepo) UpdateWatermark(ctx context.Context, feed *models.Feed) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updatedWatermarks = append(f.updatedWatermarks, feed)
	return nil
}

type fakeBucketRepo struct {
	existing        map[string]bool
	inserted        []*models.Bucket
	insertedMembers map[string][]uuid.UUID
	existsErr       error
	insertErr       error
}

func newFakeBucketRepo() *fakeBucketRepo {
	return &fakeBucketRepo{
		existing:        make(map[string]bool),
		insertedMembers: make(map[string][]uuid.UUID),
	}
}

func (f *fakeBucketRepo) BucketExists(ctx context.Context, bucketID string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return f.existing[bucketID], nil
}

func (f *fakeBucketRepo) InsertBucket(ctx context.Context, bucket *models.Bucket, memberTitleIDs []uuid.UUID) (bool, error) {
	if f.insertErr != nil {
		return false, f.insertErr
	}
	if f.existing[bucket.BucketID] {
		return false, nil
	}
	f.existing[bucket.BucketID] = true
	f.inserted = append(f.inserted, bucket)
	f.insertedMembers[bucket.BucketID] = memberTitleIDs
	return true, nil
}

func (f *fakeBucketRepo) UpdateMembers(ctx context.Context, bucketID uuid.UUID, memberTitleIDs []uuid.UUID, checksum string) error {
	return nil
}
