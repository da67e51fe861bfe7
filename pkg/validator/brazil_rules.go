package validator

import "github.com/livroelivro/sebo/pkg/fieldcheck"

// ValidCPF accepts masked or bare CPF numbers with correct check digits.
func ValidCPF(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return fieldcheck.ValidateCPF(value)
		},
		Error: ValidationError{
			Field:          field,
			Message:        "must be a valid CPF",
			TranslationKey: "validation.cpf",
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}

// ValidPhoneBR accepts landlines and mobiles with a 2-digit area code.
func ValidPhoneBR(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return fieldcheck.ValidatePhone(value)
		},
		Error: ValidationError{
			Field:          field,
			Message:        "must be a valid phone number",
			TranslationKey: "validation.phone",
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}

func ValidCEP(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return fieldcheck.ValidateCEP(value)
		},
		Error: ValidationError{
			Field:          field,
			Message:        "must be a valid CEP",
			TranslationKey: "validation.cep",
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}
