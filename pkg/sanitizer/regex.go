package sanitizer

import "regexp"

var (
	// ASCII only, the same class JavaScript's \d matches.
	nonDigitRegex = regexp.MustCompile(`[^0-9]`)

	whitespaceRegex = regexp.MustCompile(`\s+`)

	unsafeFilenameRegex = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
)
