package validator

import "fmt"

func MinNum[T Numeric](field string, value T, min T) Rule {
	return Rule{
		Check: func() bool {
			return value >= min
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("must be at least %v", min),
			TranslationKey: "validation.min",
			TranslationValues: map[string]any{
				"field": field,
				"min":   min,
			},
		},
	}
}

// MaxBytes validates an upload size. The limit is reported in whole kilobytes.
func MaxBytes(field string, size, limit int64) Rule {
	return Rule{
		Check: func() bool {
			return size <= limit
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("must be at most %dKB", limit/1024),
			TranslationKey: "validation.max_bytes",
			TranslationValues: map[string]any{
				"field": field,
				"max":   limit / 1024,
			},
		},
	}
}
