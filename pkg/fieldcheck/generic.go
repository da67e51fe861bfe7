package fieldcheck

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Optional maps an absent value to the empty string.
func Optional(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// ValidateRequired reports whether value has content after trimming.
func ValidateRequired(value string) bool {
	return strings.TrimSpace(value) != ""
}

func ValidateMinLength(value string, n int) bool {
	return utf8.RuneCountInString(value) >= n
}

func ValidateMaxLength(value string, n int) bool {
	return utf8.RuneCountInString(value) <= n
}

// ValidateNumber reports whether value is a finite decimal number, optionally
// surrounded by whitespace. Exponents are allowed; hex, octal and binary
// literals and digit separators are rejected.
func ValidateNumber(value string) bool {
	s := strings.TrimSpace(value)
	if s == "" || hasBasePrefix(s) || strings.ContainsRune(s, '_') {
		return false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return false
	}
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

func hasBasePrefix(s string) bool {
	s = strings.TrimLeft(s, "+-")
	if len(s) < 2 || s[0] != '0' {
		return false
	}
	switch s[1] {
	case 'x', 'X', 'o', 'O', 'b', 'B':
		return true
	}
	return false
}

// specialSchemes need an authority, the rest may be opaque (mailto:, urn:).
var specialSchemes = map[string]bool{
	"http":  true,
	"https": true,
	"ws":    true,
	"wss":   true,
	"ftp":   true,
}

// ValidateURL reports whether value parses as an absolute URL.
func ValidateURL(value string) bool {
	s := strings.TrimSpace(value)
	if s == "" {
		return false
	}

	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" {
		return false
	}

	if specialSchemes[strings.ToLower(u.Scheme)] {
		return u.Host != "" && u.Hostname() != ""
	}
	return true
}
