package sanitizer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

func Trim(s string) string {
	return strings.TrimSpace(s)
}

// NormalizeEmail trims and lowercases an address before it is compared or sent.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeWhitespace collapses runs of spaces, tabs and newlines into a single
// space and trims the result.
func NormalizeWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

// MaxLength truncates s to at most maxLen runes without splitting a character.
func MaxLength(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen])
}

// FoldAccents strips combining marks so "Memórias" and "memorias" compare equal
// once lowercased. Returns s unchanged if the transform fails.
func FoldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

// SearchKey lowercases, folds accents and normalises whitespace.
func SearchKey(s string) string {
	return strings.ToLower(FoldAccents(NormalizeWhitespace(s)))
}
