// ABOUTME: Deterministic script-based language detection with a confidence score
// ABOUTME: No ecosystem language-detection library was available; see DESIGN.md for the rationale

package normalize

import "unicode"

const minDetectableLength = 3

// DetectLanguage returns a best-effort language code derived from the
// dominant Unicode script present in the text, along with a confidence
// score that grows with text length, capped at 0.95. Text shorter than
// minDetectableLength runs returns ("", 0.0), matching the "too short to
// judge" behavior of the system this replaces.
func DetectLanguage(text string) (string, float64) {
	runes := []rune(text)
	if len([]rune(text)) < minDetectableLength {
		return "", 0.0
	}

	var (
		han, hiragana, katakana, hangul, thai, cyrillic, arabic, latin int
		letters                                                       int
	)

	for _, r := range runes {
		switch {
		case unicode.Is(unicode.Han, r):
			han++
			letters++
		case unicode.Is(unicode.Hiragana, r):
			hiragana++
			letters++
		case unicode.Is(unicode.Katakana, r):
			katakana++
			letters++
		case unicode.Is(unicode.Hangul, r):
			hangul++
			letters++
		case unicode.Is(unicode.Thai, r):
			thai++
			letters++
		case unicode.Is(unicode.Cyrillic, r):
			cyrillic++
			letters++
		case unicode.Is(unicode.Arabic, r):
			arabic++
			letters++
		case unicode.IsLetter(r) && r <= unicode.MaxLatin1:
			latin++
			letters++
		case unicode.IsLetter(r):
			latin++
			letters++
		}
	}

	if letters == 0 {
		return "", 0.0
	}

	lang := dominantLanguage(hiragana, katakana, han, hangul, thai, cyrillic, arabic, latin)
	confidence := 0.3 + float64(len(runes))/200.0
	if confidence > 0.95 {
		confidence = 0.95
	}
	return lang, confidence
}

func dominantLanguage(hiragana, katakana, han, hangul, thai, cyrillic, arabic, latin int) string {
	switch {
	case hiragana > 0 || katakana > 0:
		return "ja"
	case hangul > 0:
		return "ko"
	case thai > 0:
		return "th"
	case cyrillic > 0:
		return "ru"
	case arabic > 0:
		return "ar"
	case han > 0:
		return "zh"
	case latin > 0:
		return "en"
	default:
		return ""
	}
}
