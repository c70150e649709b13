// ABOUTME: RSS/Atom fetcher: conditional polling, normalization, dedup, and watermark tracking
// ABOUTME: Each feed is fetched independently so one broken source cannot stall the rest of the batch

package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"strategic-news-pipeline/config"
	"strategic-news-pipeline/driver"
	"strategic-news-pipeline/models"
	"strategic-news-pipeline/normalize"
	"strategic-news-pipeline/repository"
	"strategic-news-pipeline/utils"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"
)

// FetchResult summarizes one ingestion run across every polled feed.
type FetchResult struct {
	FeedsTotal     int
	FeedsProcessed int
	Inserted       int
	Skipped        int
	Errors         int
	FeedErrors     []error
}

// RSSFetcher polls registered feeds, normalizes their entries, and inserts
// newly seen titles.
type RSSFetcher struct {
	httpClient *driver.FeedHTTPClient
	feedRepo   repository.FeedRepository
	titleRepo  repository.TitleRepository
	sanitizer  *utils.Sanitizer
	cfg        *config.Config
	logger     *slog.Logger
}

// NewRSSFetcher constructs an RSSFetcher wired to its dependencies.
func NewRSSFetcher(httpClient *driver.FeedHTTPClient, feedRepo repository.FeedRepository, titleRepo repository.TitleRepository, cfg *config.Config, logger *slog.Logger) *RSSFetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &RSSFetcher{
		httpClient: httpClient,
		feedRepo:   feedRepo,
		titleRepo:  titleRepo,
		sanitizer:  utils.NewSanitizer(),
		cfg:        cfg,
		logger:     logger,
	}
}

// FetchAll polls every active feed, with bounded concurrency across feeds
// so a handful of slow sources don't serialize the whole batch.
func (f *RSSFetcher) FetchAll(ctx context.Context) (*FetchResult, error) {
	return f.FetchN(ctx, 0)
}

// FetchN polls active feeds up to maxFeeds (0 means no limit), with bounded
// concurrency across feeds so a handful of slow sources don't serialize the
// whole batch.
func (f *RSSFetcher) FetchN(ctx context.Context, maxFeeds int) (*FetchResult, error) {
	feeds, err := f.feedRepo.GetActiveFeeds(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading active feeds: %w", err)
	}
	if maxFeeds > 0 && len(feeds) > maxFeeds {
		feeds = feeds[:maxFeeds]
	}

	result := &FetchResult{FeedsTotal: len(feeds)}
	resultsCh := make(chan feedOutcome, len(feeds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxInt(1, f.cfg.Ingestion.MaxConcurrentFeeds))

	for _, feed := range feeds {
		feed := feed
		g.Go(func() error {
			stats, err := f.fetchOne(gctx, feed)
			resultsCh <- feedOutcome{stats: stats, err: err}
			return nil // per-feed errors are collected, not propagated as fatal
		})
	}

	_ = g.Wait()
	close(resultsCh)

	for outcome := range resultsCh {
		result.FeedsProcessed++
		if outcome.err != nil {
			result.Errors++
			result.FeedErrors = append(result.FeedErrors, outcome.err)
			continue
		}
		result.Inserted += outcome.stats.inserted
		result.Skipped += outcome.stats.skipped
		result.Errors += outcome.stats.entryErrors
	}

	return result, nil
}

type feedOutcome struct {
	stats *fetchStats
	err   error
}

type fetchStats struct {
	inserted    int
	skipped     int
	entryErrors int
}

// fetchOne polls a single feed, inserting any newly seen, in-window titles
// and advancing the feed's conditional-GET watermark.
func (f *RSSFetcher) fetchOne(ctx context.Context, feed *models.Feed) (*fetchStats, error) {
	stats := &fetchStats{}

	var etag, lastModified string
	if feed.ETag != nil {
		etag = *feed.ETag
	}
	if feed.LastModified != nil {
		lastModified = *feed.LastModified
	}

	resp, err := f.httpClient.FetchWithRetries(ctx, feed.URL, etag, lastModified,
		f.cfg.Retry.MaxRetries, f.cfg.Retry.InitialDelay, f.cfg.Retry.Multiplier, jitter)
	if err != nil {
		return nil, fmt.Errorf("fetching feed %s (%s): %w", feed.Name, feed.URL, err)
	}

	now := time.Now().UTC()
	if resp.NotModified {
		feed.LastRunAt = &now
		if err := f.feedRepo.UpdateWatermark(ctx, feed); err != nil {
			return nil, fmt.Errorf("updating watermark after 304 for feed %s: %w", feed.Name, err)
		}
		return stats, nil
	}

	parser := gofeed.NewParser()
	parsed, err := parser.Parse(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, fmt.Errorf("parsing feed %s: %w", feed.Name, err)
	}

	watermark := feed.Watermark(f.cfg.Ingestion.LookbackDays)
	var latestPubdate *time.Time

	items := parsed.Items
	if max := f.cfg.Ingestion.MaxItemsPerFeed; max > 0 && len(items) > max {
		items = items[:max]
	}

	for _, item := range items {
		if err := f.processEntry(ctx, feed, parsed, item, watermark, stats); err != nil {
			stats.entryErrors++
			f.logger.Warn("skipping feed entry after error", "feed", feed.Name, "error", err)
			continue
		}
		if item.PublishedParsed != nil {
			if latestPubdate == nil || item.PublishedParsed.After(*latestPubdate) {
				latestPubdate = item.PublishedParsed
			}
		}
	}

	if resp.ETag != "" {
		feed.ETag = &resp.ETag
	}
	if resp.LastModified != "" {
		feed.LastModified = &resp.LastModified
	}
	if latestPubdate != nil && (feed.LastPubdateUTC == nil || latestPubdate.After(*feed.LastPubdateUTC)) {
		utc := latestPubdate.UTC()
		feed.LastPubdateUTC = &utc
	}
	feed.LastRunAt = &now

	if err := f.feedRepo.UpdateWatermark(ctx, feed); err != nil {
		return nil, fmt.Errorf("updating watermark for feed %s: %w", feed.Name, err)
	}

	return stats, nil
}

func (f *RSSFetcher) processEntry(ctx context.Context, feed *models.Feed, parsed *gofeed.Feed, item *gofeed.Item, watermark time.Time, stats *fetchStats) error {
	if item.PublishedParsed != nil && !watermark.IsZero() && !item.PublishedParsed.After(watermark) {
		return nil
	}

	rawTitle := f.sanitizer.SanitizeAndTrim(item.Title)
	if rawTitle == "" {
		return fmt.Errorf("entry %q has empty title after sanitization", item.Link)
	}

	sourceTitle, sourceHref := sourceExtension(item)
	entrySource := normalize.FeedEntrySource{
		EntrySourceTitle: sourceTitle,
		EntrySourceHref:  sourceHref,
		FeedTitle:        parsed.Title,
	}
	publisherName := normalize.ExtractPublisherName(entrySource)
	publisherDomain := normalize.ExtractPublisherDomain(entrySource)

	displayTitle := normalize.NormalizeDisplayTitle(rawTitle, publisherName)
	titleNorm := normalize.NormalizeTitle(displayTitle)
	contentHash := normalize.ContentHash(titleNorm, publisherDomain)

	lang, _ := normalize.DetectLanguage(titleNorm)

	entryURL := item.Link
	if cleaned, err := utils.NormalizeURL(entryURL); err == nil {
		entryURL = cleaned
	}

	title := &models.Title{
		ID:               uuid.New(),
		FeedID:           feed.ID,
		TitleOriginal:    item.Title,
		TitleDisplay:     displayTitle,
		TitleNorm:        titleNorm,
		ContentHash:      contentHash,
		URL:              entryURL,
		PublisherName:    publisherName,
		PublisherDomain:  publisherDomain,
		ProcessingStatus: models.StatusPending,
		CreatedAt:        time.Now().UTC(),
	}
	if lang != "" {
		title.Language = &lang
	}
	if item.PublishedParsed != nil {
		utc := item.PublishedParsed.UTC()
		title.PubdateUTC = &utc
	}

	inserted, err := f.titleRepo.InsertIfNew(ctx, title)
	if err != nil {
		return fmt.Errorf("inserting title for entry %q: %w", item.Link, err)
	}
	if inserted {
		stats.inserted++
	} else {
		stats.skipped++
	}
	return nil
}

// sourceExtension pulls an RSS <source url="..."> sub-element out of an
// entry's generic extensions, where gofeed parks elements it doesn't model
// natively. Aggregator feeds (Google News and similar) use this to name the
// entry's real publisher independent of the parent feed's own title.
func sourceExtension(item *gofeed.Item) (title, href string) {
	if item.Extensions == nil {
		return "", ""
	}
	byName, ok := item.Extensions[""]
	if !ok {
		return "", ""
	}
	sources, ok := byName["source"]
	if !ok || len(sources) == 0 {
		return "", ""
	}
	src := sources[0]
	return src.Value, src.Attrs["url"]
}

func jitter() time.Duration {
	return time.Duration(rand.Float64() * float64(time.Second))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
