// Package sanitizer provides small helpers for cleaning and normalising the
// personal data that arrives from registration and book forms.
//
// The functions are grouped conceptually into a few areas:
//
//   - Strings – trimming, whitespace normalisation, length capping and
//     accent folding for search.
//
//   - Format – digit extraction for Brazilian documents (CPF, CEP, phone),
//     filename cleanup for uploaded cover images.
//
//   - Masking – hiding most of a CPF, phone number or e-mail address before it
//     is written to logs.
//
// All helpers are pure functions with no global mutable state, so they are
// safe for concurrent use. The Apply and Compose helpers build pipelines:
//
//	clean := sanitizer.Compose(
//	    sanitizer.Trim,
//	    sanitizer.NormalizeWhitespace,
//	)
//
//	name := clean("  Maria   da  Silva ") // "Maria da Silva"
//
// # Error handling
//
// None of the helpers returns an error. They fall back to a safe result
// (usually the stripped input or an empty string) when the input is
// malformed.
package sanitizer
