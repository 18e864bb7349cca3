package semantic

import (
	"regexp"
	"strings"
)

// comparisonCues are explicit tokens that signal a comparison intent.
// "trend" alone never implies comparison.
var comparisonCues = []string{
	"compare", "comparison", " vs ", " vs.", "versus", "difference", "compared to",
}

var betweenAndRe = regexp.MustCompile(`(?i)\bbetween\b.+\band\b`)
var lastVsPreviousRe = regexp.MustCompile(`(?i)\blast\s+\d+.*\b(vs|versus|compared to)\b.*\bprevious\s+\d+`)

// DetectComparison reports whether canonical English text carries an
// explicit comparison cue: a comparison keyword, a "between X and Y"
// construction, or an explicit "last N ... vs previous N ..." pattern.
func DetectComparison(canonicalEnglish string) bool {
	lower := " " + strings.ToLower(canonicalEnglish) + " "
	for _, cue := range comparisonCues {
		if strings.Contains(lower, cue) {
			return true
		}
	}
	if betweenAndRe.MatchString(canonicalEnglish) {
		return true
	}
	if lastVsPreviousRe.MatchString(canonicalEnglish) {
		return true
	}
	return false
}
