// ABOUTME: Title normalization, publisher extraction, and content-hash deduplication
// ABOUTME: Mirrors the canonicalization rules applied before a title enters the Strategic Gate

package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// publisherSuffixPattern matches a trailing " - Publisher", " – Publisher",
// or " — Publisher" segment appended by many aggregator feeds.
var publisherSuffixPattern = regexp.MustCompile(`\s+[-–—]\s+[^-–—]+$`)

// publisherSuffixSeparators are the separator forms recognized between a
// title and a trailing, exact-match publisher name.
var publisherSuffixSeparators = []string{" - ", " – ", " — "}

// strippedCharsPattern removes everything but word characters (letters, marks
// and digits of any script, plus underscore), whitespace, and a small set of
// punctuation retained for readability.
var strippedCharsPattern = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_\s\-.,!?:;]`)

var whitespacePattern = regexp.MustCompile(`\s+`)

// NormalizeTitle folds a raw display title into its canonical comparison form:
// fullwidth/halfwidth folding, NFKC normalization, lowercasing, publisher-suffix
// stripping, punctuation pruning, and whitespace collapsing.
func NormalizeTitle(display string) string {
	folded := width.Fold.String(display)
	nfkc := norm.NFKC.String(folded)
	lowered := strings.ToLower(nfkc)
	stripped := publisherSuffixPattern.ReplaceAllString(lowered, "")
	pruned := strippedCharsPattern.ReplaceAllString(stripped, "")
	collapsed := whitespacePattern.ReplaceAllString(pruned, " ")
	return strings.TrimSpace(collapsed)
}

// NormalizeDisplayTitle folds a raw title into its canonical display form:
// fullwidth/halfwidth folding, NFKC normalization, an exact case-sensitive
// strip of a trailing " - <publisher>", " – <publisher>", or
// " — <publisher>" suffix when publisherName is known, and whitespace
// collapsing. Unlike NormalizeTitle, it never lowercases or prunes
// punctuation, so the result stays presentable.
func NormalizeDisplayTitle(raw, publisherName string) string {
	folded := width.Fold.String(raw)
	nfkc := norm.NFKC.String(folded)
	stripped := stripExactPublisherSuffix(nfkc, publisherName)
	collapsed := whitespacePattern.ReplaceAllString(stripped, " ")
	return strings.TrimSpace(collapsed)
}

// stripExactPublisherSuffix removes a trailing " - <publisherName>"-style
// segment only when the publisher name matches exactly (case-sensitive),
// unlike the generic publisherSuffixPattern used for title_norm.
func stripExactPublisherSuffix(s, publisherName string) string {
	publisherName = strings.TrimSpace(publisherName)
	if publisherName == "" {
		return s
	}
	for _, sep := range publisherSuffixSeparators {
		suffix := sep + publisherName
		if strings.HasSuffix(s, suffix) {
			return strings.TrimSuffix(s, suffix)
		}
	}
	return s
}

// ContentHash returns the deterministic dedup key for a title: the first 16
// hex characters of sha256("{title_norm}||{publisher_domain_or_empty}").
func ContentHash(titleNorm, publisherDomain string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s||%s", titleNorm, publisherDomain)))
	return hex.EncodeToString(sum[:])[:16]
}

// FeedEntrySource carries the subset of a parsed feed entry needed to
// determine its real publisher, independent of the feed parsing library.
type FeedEntrySource struct {
	EntrySourceTitle string
	EntrySourceHref  string
	FeedTitle        string
}

// ExtractPublisherDomain prefers the entry's own <source> element (aggregator
// feeds republish many outlets under one feed URL) before falling back to the
// parent feed's own title.
func ExtractPublisherDomain(src FeedEntrySource) string {
	if src.EntrySourceHref != "" {
		if domain := hostOf(src.EntrySourceHref); domain != "" {
			return domain
		}
	}
	if src.EntrySourceTitle != "" {
		return strings.ToLower(strings.TrimSpace(src.EntrySourceTitle))
	}
	return strings.ToLower(strings.TrimSpace(src.FeedTitle))
}

// ExtractPublisherName mirrors ExtractPublisherDomain's fallback order but
// returns the human-readable publisher name rather than its host, for the
// entry's source element title (e.g. "Reuters") instead of a bare domain.
func ExtractPublisherName(src FeedEntrySource) string {
	if src.EntrySourceTitle != "" {
		return strings.TrimSpace(src.EntrySourceTitle)
	}
	return strings.TrimSpace(src.FeedTitle)
}

func hostOf(rawURL string) string {
	trimmed := strings.TrimPrefix(rawURL, "https://")
	trimmed = strings.TrimPrefix(trimmed, "http://")
	if idx := strings.IndexAny(trimmed, "/?#"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	trimmed = strings.ToLower(trimmed)
	return strings.TrimPrefix(trimmed, "www.")
}
