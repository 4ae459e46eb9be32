package common

import "strings"

// HasAny reports whether s contains any of the substrings, ignoring case.
func HasAny(s string, subs ...string) bool {
	lower := strings.ToLower(s)
	for _, sub := range subs {
		if strings.Contains(lower, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}

// CleanCity trims the input and collapses internal runs of whitespace, so
// "  New   York " and "New York" address the same place.
func CleanCity(city string) string {
	return strings.Join(strings.Fields(city), " ")
}

// SameCity compares two city names case-insensitively after cleaning.
func SameCity(a, b string) bool {
	return strings.EqualFold(CleanCity(a), CleanCity(b))
}
