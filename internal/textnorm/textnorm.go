// Package textnorm canonicalizes free text from license documents so that
// label matching and value storage are stable across the accent, case and
// punctuation variants found in the source files.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripTransform decomposes, drops combining marks, and recomposes.
var stripTransform = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var (
	labelCleanRe      = regexp.MustCompile(`[^A-Z0-9\s]`)
	placeholderKeyRe  = regexp.MustCompile(`[^A-Z0-9]+`)
	whitespaceRunRe   = regexp.MustCompile(`\s+`)
)

// StripAccents removes diacritical marks, leaving base characters intact.
// Idempotent.
func StripAccents(s string) string {
	out, _, err := transform.String(stripTransform, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeLabel canonicalizes a table label for dictionary lookup: accents
// stripped, uppercased, newlines folded to spaces, punctuation replaced by
// spaces, whitespace collapsed and trimmed.
func NormalizeLabel(s string) string {
	upper := strings.ToUpper(StripAccents(s))
	upper = strings.ReplaceAll(upper, "\n", " ")
	cleaned := labelCleanRe.ReplaceAllString(upper, " ")
	return strings.TrimSpace(whitespaceRunRe.ReplaceAllString(cleaned, " "))
}

// NormalizeValue canonicalizes a field value for storage: trimmed and
// uppercased. Accents are preserved since values carry names and places.
func NormalizeValue(s string) string {
	cleaned := strings.TrimSpace(s)
	if cleaned == "" {
		return ""
	}
	return strings.ToUpper(cleaned)
}

// NormalizePlaceholderKey converts the inner text of a {{ ... }} marker to its
// canonical UPPER_SNAKE form so templates may vary case, accents and spacing.
func NormalizePlaceholderKey(s string) string {
	upper := strings.ToUpper(StripAccents(s))
	replaced := placeholderKeyRe.ReplaceAllString(upper, "_")
	return strings.Trim(replaced, "_")
}
