// ABOUTME: Domain models for tracked RSS/Atom feed sources
// ABOUTME: Carries polling watermarks used by the fetcher to avoid re-processing old entries

package models

import (
	"time"

	"github.com/google/uuid"
)

// Feed represents a registered RSS/Atom source and its polling watermarks.
type Feed struct {
	ID             uuid.UUID
	URL            string
	Name           string
	Active         bool
	ETag           *string
	LastModified   *string
	LastPubdateUTC *time.Time
	LastRunAt      *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewFeed constructs a Feed ready for insertion, with a fresh surrogate key.
func NewFeed(url, name string) *Feed {
	now := time.Now().UTC()
	return &Feed{
		ID:        uuid.New(),
		URL:       url,
		Name:      name,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Watermark computes the effective skip threshold for this feed's entries,
// pushed back by lookbackDays so slightly out-of-order republishes near the
// boundary are not silently dropped.
func (f *Feed) Watermark(lookbackDays int) time.Time {
	if f.LastPubdateUTC == nil {
		return time.Time{}
	}
	return f.LastPubdateUTC.AddDate(0, 0, -lookbackDays)
}
