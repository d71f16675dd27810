package validation

import (
	"regexp"
	"strings"
)

var (
	reEmail = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	reCode  = regexp.MustCompile(`^[0-9]{6}$`)
	reDigit = regexp.MustCompile(`[^0-9]`)
)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return reEmail.MatchString(strings.TrimSpace(s))
}

// ValidCode reports whether s is exactly six digits.
func ValidCode(s string) bool {
	return reCode.MatchString(s)
}

// PhoneDigits strips every non-digit character from s and reports whether
// enough digits remain to be a dialable number.
func PhoneDigits(s string) (string, bool) {
	digits := reDigit.ReplaceAllString(s, "")
	return digits, len(digits) >= 10
}
