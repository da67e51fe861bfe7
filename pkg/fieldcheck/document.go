package fieldcheck

import (
	"github.com/inovacc/brdoc"

	"github.com/livroelivro/sebo/pkg/sanitizer"
)

const (
	cpfLength       = 11
	cepLength       = 8
	landlineLength  = 10
	mobileLength    = 11
	cpfRegionDigit  = 8
	cpfCheckDigitAt = 9
)

// ValidateCPF reports whether raw holds a CPF with correct check digits.
// Mask characters are ignored; repdigits such as 000.000.000-00 are rejected.
func ValidateCPF(raw string) bool {
	digits := sanitizer.Digits(raw)
	if len(digits) != cpfLength {
		return false
	}

	if isRepdigit(digits) {
		return false
	}

	d := make([]int, cpfLength)
	for i := range digits {
		d[i] = int(digits[i] - '0')
	}

	if cpfCheckDigit(d[:cpfCheckDigitAt]) != d[cpfCheckDigitAt] {
		return false
	}

	return cpfCheckDigit(d[:cpfCheckDigitAt+1]) == d[cpfCheckDigitAt+1]
}

// cpfCheckDigit weights the digits from len+1 down to 2 and reduces mod 11.
func cpfCheckDigit(digits []int) int {
	weight := len(digits) + 1
	sum := 0
	for i, v := range digits {
		sum += v * (weight - i)
	}

	check := 11 - sum%11
	if check >= 10 {
		return 0
	}
	return check
}

func isRepdigit(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

// FormatCPF masks the first 11 digits as XXX.XXX.XXX-XX and appends any
// surplus digits. Shorter input is returned as bare digits.
func FormatCPF(raw string) string {
	digits := sanitizer.Digits(raw)
	if len(digits) < cpfLength {
		return digits
	}
	return digits[0:3] + "." + digits[3:6] + "." + digits[6:9] + "-" + digits[9:11] + digits[11:]
}

// CPFRegion names the fiscal region that issued the CPF, derived from its 9th
// digit. Returns "" when fewer than 9 digits are present.
func CPFRegion(raw string) string {
	digits := sanitizer.Digits(raw)
	if len(digits) <= cpfRegionDigit {
		return ""
	}
	// brdoc.CPF keeps per-call state, so it is never shared.
	return brdoc.NewCPF().CheckOrigin(digits)
}

// ValidatePhone accepts a landline (2-digit area code + 8 digits) or a mobile
// number (2-digit area code + 9 digits).
func ValidatePhone(raw string) bool {
	n := len(sanitizer.Digits(raw))
	return n == landlineLength || n == mobileLength
}

// FormatPhone renders (XX) XXXXX-XXXX for mobiles and (XX) XXXX-XXXX for
// landlines. Any other length comes back as bare digits.
func FormatPhone(raw string) string {
	digits := sanitizer.Digits(raw)
	switch len(digits) {
	case mobileLength:
		return "(" + digits[0:2] + ") " + digits[2:7] + "-" + digits[7:11]
	case landlineLength:
		return "(" + digits[0:2] + ") " + digits[2:6] + "-" + digits[6:10]
	default:
		return digits
	}
}

func ValidateCEP(raw string) bool {
	return len(sanitizer.Digits(raw)) == cepLength
}

// FormatCEP masks the first 8 digits as XXXXX-XXX and appends any surplus.
// Shorter input is returned as bare digits.
func FormatCEP(raw string) string {
	digits := sanitizer.Digits(raw)
	if len(digits) < cepLength {
		return digits
	}
	return digits[0:5] + "-" + digits[5:8] + digits[8:]
}
