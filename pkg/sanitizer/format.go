package sanitizer

import "strings"

// Digits keeps only ASCII digits. Used for CPF, CEP and phone numbers, whose
// masks may contain dots, dashes, spaces and parentheses.
func Digits(s string) string {
	return nonDigitRegex.ReplaceAllString(s, "")
}

// MaskCPF keeps only the two check digits: "***.***.***-25".
// Inputs that do not reduce to 11 digits are fully masked.
func MaskCPF(cpf string) string {
	digits := Digits(cpf)
	if len(digits) != 11 {
		return strings.Repeat("*", len(digits))
	}
	return "***.***.***-" + digits[9:]
}

// MaskPhone shows the last 4 digits so the owner can still recognise the number.
func MaskPhone(phone string) string {
	digits := Digits(phone)
	if len(digits) < 4 {
		return strings.Repeat("*", len(digits))
	}
	return strings.Repeat("*", len(digits)-4) + digits[len(digits)-4:]
}

// MaskEmail preserves the first character and the domain.
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	local, domain, ok := strings.Cut(email, "@")
	if !ok || strings.Contains(domain, "@") {
		return email
	}

	chars := []rune(local)
	switch len(chars) {
	case 0:
		return email
	case 1:
		return "*@" + domain
	}

	return string(chars[0]) + strings.Repeat("*", len(chars)-1) + "@" + domain
}

// SanitizeFilename replaces characters that are unsafe in object keys and file
// systems and caps the name at 255 bytes.
func SanitizeFilename(filename string) string {
	safe := unsafeFilenameRegex.ReplaceAllString(filename, "_")
	safe = strings.Trim(safe, " .")

	if len(safe) > 255 {
		safe = safe[:255]
	}

	if safe == "" {
		safe = "file"
	}

	return safe
}
