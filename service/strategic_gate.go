// ABOUTME: Strategic Gate: evaluates pending titles against the actor vocabulary
// ABOUTME: Keeps a title when its first_hit match succeeds, drops it otherwise

package service

import (
	"context"
	"log/slog"
	"time"

	"strategic-news-pipeline/domain/actorvocab"
	"strategic-news-pipeline/models"
	"strategic-news-pipeline/repository"
)

const (
	actorHitScore = 0.99
	noActorScore  = 0.0
)

// StrategicGate evaluates titles against a compiled actor vocabulary,
// keeping only those that mention a tracked strategic actor.
type StrategicGate struct {
	matcher   *actorvocab.Matcher
	titleRepo repository.TitleRepository
	logger    *slog.Logger
}

// NewStrategicGate constructs a StrategicGate over the given matcher.
func NewStrategicGate(matcher *actorvocab.Matcher, titleRepo repository.TitleRepository, logger *slog.Logger) *StrategicGate {
	if logger == nil {
		logger = slog.Default()
	}
	return &StrategicGate{matcher: matcher, titleRepo: titleRepo, logger: logger}
}

// Evaluate runs the gate against a single title's comparison text, falling
// back to the display title if no normalized form is available.
func (g *StrategicGate) Evaluate(title *models.Title) models.GateResult {
	text := title.TitleNorm
	if text == "" {
		text = title.TitleDisplay
	}

	hit, ok := g.matcher.FirstHit(text)
	if !ok {
		return models.GateResult{Keep: false, Score: noActorScore, Reason: models.GateReasonNoActor}
	}
	return models.GateResult{Keep: true, Score: actorHitScore, Reason: models.GateReasonActorHit, ActorHit: hit.ActorCode}
}

// GateRunResult summarizes a gate batch run's outcome for the CLI driver.
type GateRunResult struct {
	TotalProcessed int
	Kept           int
	ActorHits      int
	BelowThreshold int
	Errors         int
}

// Run processes up to maxBatches batches of batchSize pending titles,
// advancing the offset by batchSize on every iteration (including ones that
// error), stopping when a batch returns zero rows or the batch cap is hit.
func (g *StrategicGate) Run(ctx context.Context, batchSize, maxBatches int) (*GateRunResult, error) {
	result := &GateRunResult{}
	offset := 0

	for batch := 0; maxBatches <= 0 || batch < maxBatches; batch++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		titles, err := g.titleRepo.GetPendingBatch(ctx, batchSize, offset)
		if err != nil {
			result.Errors++
			g.logger.Error("loading pending titles batch failed, continuing to next batch", "offset", offset, "error", err)
			offset += batchSize
			continue
		}
		if len(titles) == 0 {
			break
		}

		gatedAt := time.Now().UTC()
		for _, title := range titles {
			gateResult := g.Evaluate(title)
			title.ApplyGateResult(gateResult, gatedAt)

			result.TotalProcessed++
			if gateResult.Keep {
				result.Kept++
				result.ActorHits++
			} else {
				result.BelowThreshold++
			}
		}

		if err := g.titleRepo.UpdateGateResults(ctx, titles); err != nil {
			result.Errors++
			g.logger.Error("persisting gate results failed, continuing to next batch", "offset", offset, "error", err)
			offset += batchSize
			continue
		}

		offset += batchSize
	}

	return result, nil
}
