package validator

import (
	"fmt"

	"github.com/livroelivro/sebo/pkg/fieldcheck"
)

// PasswordMinLength is the registration gate: only length decides validity.
func PasswordMinLength(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return fieldcheck.ValidatePassword(value).IsValid
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("must be at least %d characters long", fieldcheck.PasswordMinLength),
			TranslationKey: "validation.password_min_length",
			TranslationValues: map[string]any{
				"field": field,
				"min":   fieldcheck.PasswordMinLength,
			},
		},
	}
}

// PasswordScore requires a strength score of at least minScore (0 to 5) on top
// of the length gate.
func PasswordScore(field, value string, minScore int) Rule {
	return Rule{
		Check: func() bool {
			res := fieldcheck.ValidatePassword(value)
			return res.IsValid && res.Score >= minScore
		},
		Error: ValidationError{
			Field:          field,
			Message:        "password is too weak",
			TranslationKey: "validation.password_weak",
			TranslationValues: map[string]any{
				"field":     field,
				"min_score": minScore,
			},
		},
	}
}
