package fieldcheck

import (
	"regexp"
	"strings"
)

// Mirrors /^[^\s@]+@[^\s@]+\.[^\s@]+$/ from the registration page. Go's \s is
// ASCII only, so vertical tab and Unicode separators are listed explicitly.
var emailRegex = regexp.MustCompile(`^[^\s\v\p{Z}\x{FEFF}@]+@[^\s\v\p{Z}\x{FEFF}@]+\.[^\s\v\p{Z}\x{FEFF}@]+$`)

// ValidateEmail is a syntactic sanity check: one @, something before it and a
// dotted label after it. It does not attempt RFC 5322 or deliverability.
func ValidateEmail(raw string) bool {
	return emailRegex.MatchString(strings.ToLower(raw))
}
