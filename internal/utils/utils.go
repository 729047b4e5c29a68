package utils

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// NewConnectionID returns an opaque id for a freshly upgraded connection.
func NewConnectionID() string {
	return uuid.NewString()
}

// NormalizeGuess trims, composes and case-folds text so that equal guesses
// compare equal byte for byte.
func NormalizeGuess(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	return cases.Fold().String(norm.NFC.String(text))
}

// FoldASCII strips combining marks, so "ṭa" becomes "ta" and "ē" becomes "e".
// Characters without a decomposition are kept as they are.
func FoldASCII(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return out
}

// AcceptedAnswers builds the normalised answer set for a prompt: the symbol
// itself, its transliteration and the transliteration without diacritics.
func AcceptedAnswers(display, transliteration string) []string {
	seen := make(map[string]bool, 3)
	answers := make([]string, 0, 3)
	for _, candidate := range []string{display, transliteration, FoldASCII(transliteration)} {
		normalized := NormalizeGuess(candidate)
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true
		answers = append(answers, normalized)
	}
	return answers
}
