package validator

import (
	"fmt"
	"time"

	"github.com/livroelivro/sebo/pkg/fieldcheck"
)

// MinAge validates an ISO birth date (YYYY-MM-DD or RFC 3339) against a
// minimum age in whole years. Unparseable dates fail.
func MinAge(field, birthDate string, minAge int) Rule {
	return minAgeAt(field, birthDate, minAge, time.Now)
}

// Adult is MinAge with the registration threshold of 18 years.
func Adult(field, birthDate string) Rule {
	return MinAge(field, birthDate, fieldcheck.AdultAge)
}

func minAgeAt(field, birthDate string, minAge int, now func() time.Time) Rule {
	return Rule{
		Check: func() bool {
			birth, ok := fieldcheck.ParseDate(birthDate)
			if !ok {
				return false
			}
			return fieldcheck.Age(birth, now()) >= minAge
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("minimum age of %d years required", minAge),
			TranslationKey: "validation.min_age",
			TranslationValues: map[string]any{
				"field":   field,
				"min_age": minAge,
			},
		},
	}
}

// ValidDate validates that value is a YYYY-MM-DD or RFC 3339 date.
func ValidDate(field, value string) Rule {
	return Rule{
		Check: func() bool {
			_, ok := fieldcheck.ParseDate(value)
			return ok
		},
		Error: ValidationError{
			Field:          field,
			Message:        "must be a valid date",
			TranslationKey: "validation.date",
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}
