// ABOUTME: Tests for title normalization, publisher extraction, and content hashing

package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTitle(t *testing.T) {
	tests := map[string]struct {
		input string
		want  string
	}{
		"strips_hyphen_publisher_suffix": {
			input: "Leaders Meet In Geneva - Reuters",
			want:  "leaders meet in geneva",
		},
		"strips_en_dash_publisher_suffix": {
			input: "Markets Rally – Bloomberg",
			want:  "markets rally",
		},
		"strips_em_dash_publisher_suffix": {
			input: "Summit Concludes — AP News",
			want:  "summit concludes",
		},
		"collapses_whitespace": {
			input: "Too   Many    Spaces   Here",
			want:  "too many spaces here",
		},
		"lowercases": {
			input: "BREAKING: Major Announcement",
			want:  "breaking: major announcement",
		},
		"keeps_basic_punctuation": {
			input: "Is this real, or not?",
			want:  "is this real, or not?",
		},
		"drops_disallowed_symbols": {
			input: "Title with #hashtag and @mention!!",
			want:  "title with hashtag and mention!!",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := NormalizeTitle(tt.input)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeDisplayTitle(t *testing.T) {
	tests := map[string]struct {
		input     string
		publisher string
		want      string
	}{
		"strips_hyphen_publisher_suffix_exact_match": {
			input:     `US-Taiwan partnership remains a "cornerstone of stability" - Reuters`,
			publisher: "Reuters",
			want:      `US-Taiwan partnership remains a "cornerstone of stability"`,
		},
		"strips_en_dash_publisher_suffix": {
			input:     "Markets Rally – Bloomberg",
			publisher: "Bloomberg",
			want:      "Markets Rally",
		},
		"strips_em_dash_publisher_suffix": {
			input:     "Summit Concludes — AP News",
			publisher: "AP News",
			want:      "Summit Concludes",
		},
		"leaves_mismatched_publisher_suffix_alone": {
			input:     "Summit Concludes - AP News",
			publisher: "Reuters",
			want:      "Summit Concludes - AP News",
		},
		"leaves_trailing_dash_alone_without_publisher": {
			input:     "Summit Concludes - AP News",
			publisher: "",
			want:      "Summit Concludes - AP News",
		},
		"preserves_case_and_punctuation": {
			input:     `BREAKING: Major "Announcement" Made - Example Wire`,
			publisher: "Example Wire",
			want:      `BREAKING: Major "Announcement" Made`,
		},
		"collapses_whitespace_without_lowercasing": {
			input:     "Too   Many    Spaces   Here",
			publisher: "",
			want:      "Too Many Spaces Here",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := NormalizeDisplayTitle(tt.input, tt.publisher)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestContentHash(t *testing.T) {
	h1 := ContentHash("leaders meet in geneva", "reuters.com")
	h2 := ContentHash("leaders meet in geneva", "reuters.com")
	h3 := ContentHash("leaders meet in geneva", "apnews.com")

	assert.Equal(t, h1, h2, "same inputs must hash identically")
	assert.NotEqual(t, h1, h3, "different publisher must change the hash")
	assert.Len(t, h1, 16)
}

func TestContentHashEmptyPublisher(t *testing.T) {
	h := ContentHash("some headline", "")
	assert.Len(t, h, 16)
}

func TestExtractPublisherDomain(t *testing.T) {
	tests := map[string]struct {
		src  FeedEntrySource
		want string
	}{
		"prefers_entry_source_href": {
			src: FeedEntrySource{
				EntrySourceHref:  "https://www.Reuters.com/world/article",
				EntrySourceTitle: "Reuters",
				FeedTitle:        "Aggregator Daily",
			},
			want: "reuters.com",
		},
		"falls_back_to_entry_source_title": {
			src: FeedEntrySource{
				EntrySourceTitle: "Associated Press",
				FeedTitle:        "Aggregator Daily",
			},
			want: "associated press",
		},
		"falls_back_to_feed_title": {
			src: FeedEntrySource{
				FeedTitle: "Example News Feed",
			},
			want: "example news feed",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := ExtractPublisherDomain(tt.src)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractPublisherName(t *testing.T) {
	tests := map[string]struct {
		src  FeedEntrySource
		want string
	}{
		"prefers_entry_source_title": {
			src:  FeedEntrySource{EntrySourceTitle: "Reuters", FeedTitle: "Aggregator Daily"},
			want: "Reuters",
		},
		"falls_back_to_feed_title": {
			src:  FeedEntrySource{FeedTitle: "Example News Feed"},
			want: "Example News Feed",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := ExtractPublisherName(tt.src)
			assert.Equal(t, tt.want, got)
		})
	}
}
