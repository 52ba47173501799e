package core

import "regexp"

var amountPattern = regexp.MustCompile(`^\d*\.?\d*$`)

// SanitizeAmount returns raw when it looks like a decimal number
// (digits, at most one point) and "" otherwise. Invalid input is discarded,
// never corrected.
//
// Examples:
//	SanitizeAmount("12.5")   -> "12.5"
//	SanitizeAmount("12.5.6") -> ""
//	SanitizeAmount("abc")    -> ""
func SanitizeAmount(raw string) string {
	if amountPattern.MatchString(raw) {
		return raw
	}
	return ""
}
