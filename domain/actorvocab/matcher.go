// ABOUTME: Compiles actor aliases into per-alias matching strategies and evaluates text against them
// ABOUTME: CJK/Thai scripts use lowercase substring matching; Latin/Cyrillic aliases use word-boundary regexes

package actorvocab

import (
	"regexp"
	"strings"
	"unicode"
)

type compiledPattern struct {
	actorCode    string
	alias        string
	useSubstring bool
	lowerAlias   string
	regex        *regexp.Regexp
}

// Matcher evaluates normalized text against a compiled actor vocabulary,
// preserving the vocabulary's original load order for first_hit semantics.
type Matcher struct {
	patterns []compiledPattern
}

// NewMatcher compiles a matching strategy for every alias in entries, in
// the order the entries and their aliases were supplied.
func NewMatcher(entries []Entry) *Matcher {
	m := &Matcher{}
	for _, entry := range entries {
		for _, alias := range entry.Aliases {
			m.patterns = append(m.patterns, compilePattern(entry.ActorCode, alias))
		}
	}
	return m
}

func compilePattern(actorCode, alias string) compiledPattern {
	if hasSubstringScriptChars(alias) {
		return compiledPattern{
			actorCode:    actorCode,
			alias:        alias,
			useSubstring: true,
			lowerAlias:   strings.ToLower(alias),
		}
	}

	escaped := regexp.QuoteMeta(alias)
	re := regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}_])` + escaped + `(?:$|[^\p{L}\p{N}_])`)
	return compiledPattern{
		actorCode: actorCode,
		alias:     alias,
		regex:     re,
	}
}

// hasSubstringScriptChars reports whether alias contains any character from
// a script where word-boundary matching is meaningless: CJK ideographs,
// Hiragana, Katakana, or Thai.
func hasSubstringScriptChars(alias string) bool {
	for _, r := range alias {
		if unicode.Is(unicode.Han, r) ||
			unicode.Is(unicode.Hiragana, r) ||
			unicode.Is(unicode.Katakana, r) ||
			unicode.Is(unicode.Thai, r) {
			return true
		}
	}
	return false
}

func (p compiledPattern) matches(text, lowerText string) bool {
	if p.useSubstring {
		return strings.Contains(lowerText, p.lowerAlias)
	}
	return p.regex.MatchString(text)
}

// Hit is a single actor match against a piece of text.
type Hit struct {
	ActorCode string
	Alias     string
}

// FirstHit returns the first pattern (in vocabulary load order) that
// matches text, or ok=false if nothing matched.
func (m *Matcher) FirstHit(text string) (Hit, bool) {
	lowerText := strings.ToLower(text)
	for _, p := range m.patterns {
		if p.matches(text, lowerText) {
			return Hit{ActorCode: p.actorCode, Alias: p.alias}, true
		}
	}
	return Hit{}, false
}

// AllHits returns every distinct actor that matches text, in the order
// their first matching alias appears in the vocabulary. Each actor code
// appears at most once even if multiple of its aliases match.
func (m *Matcher) AllHits(text string) []Hit {
	lowerText := strings.ToLower(text)
	seen := make(map[string]bool)
	var hits []Hit

	for _, p := range m.patterns {
		if seen[p.actorCode] {
			continue
		}
		if p.matches(text, lowerText) {
			seen[p.actorCode] = true
			hits = append(hits, Hit{ActorCode: p.actorCode, Alias: p.alias})
		}
	}
	return hits
}
