// ABOUTME: Domain model for an ingested headline and its Strategic Gate outcome
// ABOUTME: A Title moves pending -> gated as the gate evaluates it against the actor vocabulary

package models

import (
	"time"

	"github.com/google/uuid"
)

// ProcessingStatus tracks a Title's position in the pipeline.
type ProcessingStatus string

const (
	StatusPending ProcessingStatus = "pending"
	StatusGated   ProcessingStatus = "gated"
)

// GateReason explains why the Strategic Gate kept or dropped a title.
type GateReason string

const (
	GateReasonActorHit GateReason = "actor_hit"
	GateReasonNoActor  GateReason = "no_actor"
)

// Title represents a single normalized headline pulled from a feed entry.
type Title struct {
	ID               uuid.UUID
	FeedID           uuid.UUID
	TitleOriginal    string
	TitleDisplay     string
	TitleNorm        string
	ContentHash      string
	Language         *string
	LanguageConf     float64
	URL              string
	PublisherName    string
	PublisherDomain  string
	PubdateUTC       *time.Time
	ProcessingStatus ProcessingStatus

	GateKeep     *bool
	GateReason   *string
	GateScore    *float64
	GateActorHit *string
	GateAt       *time.Time

	CreatedAt time.Time
}

// GateResult is the outcome of running the Strategic Gate over a single title.
type GateResult struct {
	Keep     bool
	Score    float64
	Reason   GateReason
	ActorHit string
}

// ApplyGateResult stamps a gate decision onto the title and transitions its
// processing status to gated. gatedAt should be the caller's batch timestamp
// so every row in a batch shares one gate_at value.
func (t *Title) ApplyGateResult(result GateResult, gatedAt time.Time) {
	keep := result.Keep
	reason := string(result.Reason)
	score := result.Score

	t.GateKeep = &keep
	t.GateReason = &reason
	t.GateScore = &score
	t.GateAt = &gatedAt
	t.ProcessingStatus = StatusGated

	if result.ActorHit != "" {
		hit := result.ActorHit
		t.GateActorHit = &hit
	}
}
