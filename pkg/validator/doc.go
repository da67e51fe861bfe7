// Package validator builds declarative, translation-friendly validation rules
// on top of the fieldcheck predicates.
//
// A Rule pairs a Check func with the ValidationError to report when the check
// fails. Apply evaluates rules in order and aggregates failures into a
// ValidationErrors slice that satisfies the error interface. Apply reports at
// most one error per field, so a Required rule placed before a format rule
// hides the format error for an empty value. ApplyAll reports everything.
//
// Every error carries a "validation.*" translation key and values for
// interpolation, plus an English fallback message. Forms that need their own
// wording override both with Rule.WithMessage.
//
// # Usage
//
//	err := validator.Apply(
//	    validator.Required("cpf", cpf),
//	    validator.ValidCPF("cpf", cpf),
//	    validator.Adult("birthDate", birthDate),
//	    validator.RequiredSlice("genres", genres),
//	)
//	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
//	    // translate or render verrs
//	}
//
// ValidationErrors matches ErrValidationFailed through errors.Is.
package validator
