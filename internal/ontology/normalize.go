package ontology

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// normalizePhrase case-folds and NFKC-normalizes a synonym phrase so that
// registration and lookup agree regardless of input encoding quirks (Arabic
// presentation forms, full-width digits, mixed case).
func normalizePhrase(phrase string) string {
	return strings.ToLower(norm.NFKC.String(strings.TrimSpace(phrase)))
}

// containsFold reports whether needle occurs in haystack after the same
// normalization used for synonym matching.
func containsFold(haystack, needle string) bool {
	return strings.Contains(normalizePhrase(haystack), normalizePhrase(needle))
}

// tokenize splits a normalized phrase into whitespace-separated words.
func tokenize(phrase string) []string {
	return strings.Fields(normalizePhrase(phrase))
}
