// Package fieldcheck validates and formats the personal-data fields of the
// registration form: CPF, phone, CEP, e-mail, birth date and password, plus a
// few generic field predicates.
//
// Every function is a total, pure function over strings. Malformed input never
// panics and never returns an error; it simply fails validation (false, or a
// PasswordResult with IsValid false). Formatters accept partial input, so they
// can be called while the user is still typing.
//
// Values that may be absent at the boundary (an optional JSON field, a
// missing form value) should be normalised with Optional before validation:
//
//	if !fieldcheck.ValidateCPF(fieldcheck.Optional(req.CPF)) {
//	    // reject
//	}
//
// Lengths are counted in Unicode code points, not bytes.
package fieldcheck
