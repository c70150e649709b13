// ABOUTME: Bucket Manager: groups gated titles by actor set within a rolling time window
// ABOUTME: Persists idempotent, deterministically-keyed buckets with checksummed membership

package service

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"strategic-news-pipeline/config"
	"strategic-news-pipeline/domain/actorvocab"
	"strategic-news-pipeline/models"
	"strategic-news-pipeline/repository"

	"github.com/google/uuid"
)

// BucketManager groups strategically-kept titles into actor-set buckets and
// persists them idempotently.
type BucketManager struct {
	matcher    *actorvocab.Matcher
	titleRepo  repository.TitleRepository
	bucketRepo repository.BucketRepository
	cfg        config.BucketConfig
	logger     *slog.Logger
}

// NewBucketManager constructs a BucketManager over the given matcher and config.
func NewBucketManager(matcher *actorvocab.Matcher, titleRepo repository.TitleRepository, bucketRepo repository.BucketRepository, cfg config.BucketConfig, logger *slog.Logger) *BucketManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &BucketManager{matcher: matcher, titleRepo: titleRepo, bucketRepo: bucketRepo, cfg: cfg, logger: logger}
}

// BucketRunResult summarizes a bucket-formation run for the CLI driver.
type BucketRunResult struct {
	TitlesConsidered int
	BucketsCreated   int
	BucketsUpdated   int
	Errors           int
}

// ExtractActorSet returns the deduplicated, order-stable actor codes
// mentioned in a title, seeded defensively with its stored gate_actor_hit.
func (m *BucketManager) ExtractActorSet(title *models.Title) []string {
	text := title.TitleNorm
	if text == "" {
		text = title.TitleDisplay
	}

	hits := m.matcher.AllHits(text)
	codes := make([]string, 0, len(hits))
	seen := make(map[string]bool)
	for _, h := range hits {
		if !seen[h.ActorCode] {
			seen[h.ActorCode] = true
			codes = append(codes, h.ActorCode)
		}
	}

	if title.GateActorHit != nil && *title.GateActorHit != "" && !seen[*title.GateActorHit] {
		codes = append([]string{*title.GateActorHit}, codes...)
	}

	return codes
}

// BuildBucketKey derives the deterministic, sorted, truncated bucket key
// from a set of actor codes.
func BuildBucketKey(actorCodes []string, maxActors int) string {
	if len(actorCodes) == 0 {
		return ""
	}

	unique := make(map[string]bool, len(actorCodes))
	for _, c := range actorCodes {
		unique[c] = true
	}
	sorted := make([]string, 0, len(unique))
	for c := range unique {
		sorted = append(sorted, c)
	}
	sort.Strings(sorted)

	if maxActors > 0 && len(sorted) > maxActors {
		sorted = sorted[:maxActors]
	}
	return joinHyphen(sorted)
}

func joinHyphen(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "-"
		}
		out += p
	}
	return out
}

// Run groups strategic titles from the last `hours` hours into actor-set
// buckets and persists any new ones. When dryRun is true, no writes occur
// and BucketsCreated/BucketsUpdated report what would have happened.
func (m *BucketManager) Run(ctx context.Context, hours int, dryRun bool) (*BucketRunResult, error) {
	titles, err := m.titleRepo.GetStrategicTitlesForBucketing(ctx, hours)
	if err != nil {
		return nil, fmt.Errorf("loading strategic titles for bucketing: %w", err)
	}

	result := &BucketRunResult{TitlesConsidered: len(titles)}

	groups := make(map[string][]*models.Title)
	for _, title := range titles {
		codes := m.ExtractActorSet(title)
		key := BuildBucketKey(codes, m.cfg.MaxActors)
		if key == "" {
			continue
		}
		groups[key] = append(groups[key], title)
	}

	for key, groupTitles := range groups {
		candidate := m.buildCandidate(key, groupTitles)
		if candidate == nil {
			continue
		}

		if err := ctx.Err(); err != nil {
			return result, err
		}

		exists, err := m.bucketRepo.BucketExists(ctx, candidate.BucketID())
		if err != nil {
			result.Errors++
			m.logger.Error("checking existing bucket failed, continuing to next candidate", "bucket_id", candidate.BucketID(), "error", err)
			continue
		}
		if exists {
			continue
		}

		if dryRun {
			result.BucketsCreated++
			continue
		}

		bucket, memberIDs := m.toPersistenceModel(candidate)
		inserted, err := m.bucketRepo.InsertBucket(ctx, bucket, memberIDs)
		if err != nil {
			result.Errors++
			m.logger.Error("inserting bucket failed, continuing to next candidate", "bucket_id", candidate.BucketID(), "error", err)
			continue
		}
		if inserted {
			result.BucketsCreated++
		}
	}

	return result, nil
}

// buildCandidate enforces min_size and max_span_hours, returning nil when
// the group doesn't qualify for a bucket.
func (m *BucketManager) buildCandidate(bucketKey string, titles []*models.Title) *models.BucketCandidate {
	var valid []*models.Title
	for _, t := range titles {
		if t.PubdateUTC != nil {
			valid = append(valid, t)
		}
	}

	if len(valid) < m.cfg.MinSize {
		return nil
	}

	timeStart := *valid[0].PubdateUTC
	timeEnd := *valid[0].PubdateUTC
	for _, t := range valid[1:] {
		if t.PubdateUTC.Before(timeStart) {
			timeStart = *t.PubdateUTC
		}
		if t.PubdateUTC.After(timeEnd) {
			timeEnd = *t.PubdateUTC
		}
	}

	candidate := &models.BucketCandidate{
		ActorCodes: strings.Split(bucketKey, "-"),
		BucketKey:  bucketKey,
		Titles:     valid,
		TimeStart:  timeStart,
		TimeEnd:    timeEnd,
	}

	if candidate.SpanHours() > m.cfg.MaxSpanHours {
		return nil
	}

	return candidate
}

func (m *BucketManager) toPersistenceModel(candidate *models.BucketCandidate) (*models.Bucket, []uuid.UUID) {
	now := time.Now().UTC()

	memberIDs := make([]uuid.UUID, 0, len(candidate.Titles))
	titleIDStrings := make([]string, 0, len(candidate.Titles))
	for _, t := range candidate.Titles {
		memberIDs = append(memberIDs, t.ID)
		titleIDStrings = append(titleIDStrings, t.ID.String())
	}

	topActorsJSON, err := json.Marshal(candidate.ActorCodes)
	if err != nil {
		// ActorCodes is always a []string built by BuildBucketKey; marshaling
		// it cannot fail, but toPersistenceModel has no error return, so fall
		// back to an empty array rather than panic.
		topActorsJSON = []byte("[]")
	}

	bucket := &models.Bucket{
		ID:              uuid.New(),
		BucketID:        candidate.BucketID(),
		BucketKey:       candidate.BucketKey,
		TopActorsJSON:   string(topActorsJSON),
		TimeWindowStart: candidate.TimeStart,
		TimeWindowEnd:   candidate.TimeEnd,
		MembersCount:    len(candidate.Titles),
		MembersChecksum: computeChecksum(titleIDStrings),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	return bucket, memberIDs
}

// computeChecksum hashes the sorted, pipe-joined member title IDs so the
// same membership always produces the same checksum regardless of order.
func computeChecksum(titleIDs []string) string {
	sorted := make([]string, len(titleIDs))
	copy(sorted, titleIDs)
	sort.Strings(sorted)

	joined := ""
	for i, id := range sorted {
		if i > 0 {
			joined += "|"
		}
		joined += id
	}

	sum := md5.Sum([]byte(joined))
	return hex.EncodeToString(sum[:])
}
