// ABOUTME: Tests for deterministic script-based language detection

package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectLanguage(t *testing.T) {
	tests := map[string]struct {
		text     string
		wantLang string
		wantZero bool
	}{
		"too_short":     {text: "Hi", wantZero: true},
		"english":       {text: "World leaders convene for summit", wantLang: "en"},
		"japanese":      {text: "首相が会談を行った", wantLang: "ja"},
		"russian":       {text: "Лидеры встретились на саммите", wantLang: "ru"},
		"thai":          {text: "ผู้นำพบกันที่การประชุมสุดยอด", wantLang: "th"},
		"empty":         {text: "", wantZero: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			lang, conf := DetectLanguage(tt.text)
			if tt.wantZero {
				assert.Equal(t, "", lang)
				assert.Equal(t, 0.0, conf)
				return
			}
			assert.Equal(t, tt.wantLang, lang)
			assert.Greater(t, conf, 0.0)
			assert.LessOrEqual(t, conf, 0.95)
		})
	}
}

func TestDetectLanguageConfidenceCapsAt095(t *testing.T) {
	longText := ""
	for i := 0; i < 100; i++ {
		longText += "word "
	}
	_, conf := DetectLanguage(longText)
	assert.Equal(t, 0.95, conf)
}
