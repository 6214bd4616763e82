package utils

import (
	"strings"
	"unicode"
)

// StripNonPrintChars removes non-printable characters from the string.
func StripNonPrintChars(s string) string {
	return strings.Map(func(r rune) rune {
		if !unicode.IsPrint(r) {
			return -1
		}
		return r
	}, s)
}

// CleanIdentifier lower-cases s and keeps only ASCII letters and digits.
// An empty result becomes fallback, a result starting with a digit is prefixed with "str".
func CleanIdentifier(s, fallback string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		}
		return -1
	}, strings.ToLower(s))

	if cleaned == "" {
		return fallback
	}
	if cleaned[0] >= '0' && cleaned[0] <= '9' {
		cleaned = "str" + cleaned
	}
	return cleaned
}

// IsNumeric reports whether s is a non-empty string of ASCII digits.
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
