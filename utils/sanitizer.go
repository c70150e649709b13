// ABOUTME: Strips HTML markup that leaks into feed-provided titles before normalization
// ABOUTME: Wraps bluemonday's strict policy (no tags allowed) and decodes HTML entities

package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer provides HTML sanitization functionality
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer creates a new sanitizer with a configured policy
func NewSanitizer() *Sanitizer {
	policy := bluemonday.StrictPolicy()

	return &Sanitizer{
		policy: policy,
	}
}

// SanitizeHTML sanitizes the given HTML content string
func (s *Sanitizer) SanitizeHTML(content string) string {
	if content == "" {
		return ""
	}
	return s.policy.Sanitize(content)
}

// SanitizeAndTrim processes content by stripping HTML tags, decoding HTML
// entities, and then trimming whitespace
func (s *Sanitizer) SanitizeAndTrim(content string) string {
	sanitized := s.SanitizeHTML(content)
	return strings.TrimSpace(html.UnescapeString(sanitized))
}
