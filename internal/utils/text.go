package utils

import "strings"

// Normalize trims surrounding whitespace and case-folds a cell or criteria
// value. All categorical comparisons in the filter go through this, so
// " Delhi " and "delhi" select the same rows.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// EqualNormalized reports whether two strings match after normalization.
func EqualNormalized(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// ContainsNormalized reports whether any candidate matches the value after
// normalization. Used for membership tests against small vocabularies.
func ContainsNormalized(candidates []string, value string) bool {
	norm := Normalize(value)
	for _, c := range candidates {
		if Normalize(c) == norm {
			return true
		}
	}
	return false
}
