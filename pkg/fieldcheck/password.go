package fieldcheck

import (
	"regexp"
	"unicode/utf8"
)

// PasswordMinLength is the only requirement that gates validity.
const PasswordMinLength = 8

// Strength is an advisory label for the password meter.
type Strength string

const (
	StrengthWeak   Strength = "weak"
	StrengthMedium Strength = "medium"
	StrengthStrong Strength = "strong"
)

var (
	uppercaseRegex   = regexp.MustCompile(`[A-Z]`)
	lowercaseRegex   = regexp.MustCompile(`[a-z]`)
	digitRegex       = regexp.MustCompile(`[0-9]`)
	specialCharRegex = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

// PasswordResult never holds the password itself.
type PasswordResult struct {
	IsValid  bool     `json:"isValid"`
	Strength Strength `json:"strength"`
	Score    int      `json:"score"`
}

// ValidatePassword scores pw from 0 to 5, one point each for: at least 8
// characters, an uppercase letter, a lowercase letter, a digit, and one of
// !@#$%^&*(),.?":{}|<>. Score 4+ is strong, 3 is medium, lower is weak.
//
// IsValid depends on length alone. A password such as "abcdefgh" is valid
// and weak at the same time; the strength label only drives the meter.
func ValidatePassword(pw string) PasswordResult {
	longEnough := utf8.RuneCountInString(pw) >= PasswordMinLength

	score := 0
	for _, ok := range []bool{
		longEnough,
		uppercaseRegex.MatchString(pw),
		lowercaseRegex.MatchString(pw),
		digitRegex.MatchString(pw),
		specialCharRegex.MatchString(pw),
	} {
		if ok {
			score++
		}
	}

	strength := StrengthWeak
	switch {
	case score >= 4:
		strength = StrengthStrong
	case score >= 3:
		strength = StrengthMedium
	}

	return PasswordResult{
		IsValid:  longEnough,
		Strength: strength,
		Score:    score,
	}
}
