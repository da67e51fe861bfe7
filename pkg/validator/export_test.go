package validator

import "time"

// MinAgeAt exposes the clock-injected MinAge to the black-box tests.
func MinAgeAt(field, birthDate string, minAge int, now time.Time) Rule {
	return minAgeAt(field, birthDate, minAge, func() time.Time { return now })
}
