package fieldcheck

import (
	"strings"
	"time"
)

// AdultAge is the minimum age accepted at registration.
const AdultAge = 18

const isoDate = "2006-01-02"

// ValidateAge reports whether the person born on birthDateISO is at least 18
// today. Unparseable dates are rejected.
func ValidateAge(birthDateISO string) bool {
	return ValidateAgeAt(birthDateISO, time.Now())
}

// ValidateAgeAt is ValidateAge evaluated against a fixed now.
func ValidateAgeAt(birthDateISO string, now time.Time) bool {
	birth, ok := ParseDate(birthDateISO)
	if !ok {
		return false
	}
	return Age(birth, now) >= AdultAge
}

// Age returns whole years elapsed between birth and now, minus one when the
// birthday has not happened yet in now's year.
func Age(birth, now time.Time) int {
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() ||
		(now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age
}

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp. Date-only values are
// read as calendar dates in the local zone.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(isoDate, s, time.Local); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
