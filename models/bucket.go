// ABOUTME: Domain models for actor-set buckets produced by the Bucket Manager
// ABOUTME: A Bucket groups titles that share an actor set within a bounded time window

package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Bucket represents a group of titles sharing a deterministic actor set
// within a bounded time window.
type Bucket struct {
	ID              uuid.UUID
	BucketID        string // deterministic business key: B-YYYY-MM-DD-<ACTOR-KEY>
	BucketKey       string // sorted, hyphen-joined, truncated actor codes
	TopActorsJSON   string // JSON array of the same actor codes, for the top_actors column
	TimeWindowStart time.Time
	TimeWindowEnd   time.Time
	MembersCount    int
	MembersChecksum string
	MechanismHint   *string // legacy field, always nil; never populated by this service
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// BucketMember links a Title into a Bucket.
type BucketMember struct {
	ID       uuid.UUID
	BucketID uuid.UUID // references Bucket.ID, not Bucket.BucketID
	TitleID  uuid.UUID
}

// BucketCandidate is an in-memory grouping of titles sharing an actor set,
// built by the Bucket Manager before it is persisted.
type BucketCandidate struct {
	ActorCodes []string
	BucketKey  string
	Titles     []*Title
	TimeStart  time.Time
	TimeEnd    time.Time
}

// BucketID computes the deterministic business key for this candidate.
func (c *BucketCandidate) BucketID() string {
	return fmt.Sprintf("B-%s-%s", c.TimeStart.Format("2006-01-02"), c.BucketKey)
}

// SpanHours returns the candidate's time window width in hours.
func (c *BucketCandidate) SpanHours() float64 {
	return c.TimeEnd.Sub(c.TimeStart).Hours()
}
