package validator

import "github.com/livroelivro/sebo/pkg/fieldcheck"

func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return fieldcheck.ValidateEmail(value)
		},
		Error: ValidationError{
			Field:          field,
			Message:        "must be a valid email address",
			TranslationKey: "validation.email",
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}

// ValidNumber accepts decimal text such as a house number or a page count.
func ValidNumber(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return fieldcheck.ValidateNumber(value)
		},
		Error: ValidationError{
			Field:          field,
			Message:        "must be a number",
			TranslationKey: "validation.number",
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}
