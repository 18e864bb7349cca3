package semantic

import (
	"regexp"
	"strconv"

	"github.com/haasonsaas/agrisense/internal/rangetoken"
	"github.com/haasonsaas/agrisense/pkg/models"
)

var compareLastNRe = regexp.MustCompile(`(?i)compare\s+(?:last|past)\s+(\d+)\s*(hours?|days?|weeks?)`)
var thisVsLastRe = regexp.MustCompile(`(?i)this\s+(week|month|year)\s+(?:vs|versus|compared to)\s+last\s+(week|month|year)`)

// GroupingForGranularity maps a detected time granularity onto the IR's
// Grouping enum, per spec §4.5 ("Grouping is derived from granularity").
func GroupingForGranularity(interval models.Interval) models.Grouping {
	switch interval {
	case models.IntervalMinute:
		return models.GroupMinute
	case models.IntervalHour:
		return models.GroupHour
	case models.IntervalDay:
		return models.GroupDay
	case models.IntervalWeek:
		return models.GroupWeek
	case models.IntervalMonth:
		return models.GroupMonth
	default:
		return models.GroupNone
	}
}

// ExpandComparisonRanges turns a single detected range (plus the original
// canonical English) into an ordered list of Range Tokens for a
// comparison query, per spec §4.5: "compare last 4 hours" expands into
// the four preceding hourly buckets; "this week vs last week" expands
// into an explicit two-element list. Falls back to [token, token] when no
// specific expansion pattern matches but comparison was detected.
func ExpandComparisonRanges(canonicalEnglish string, token models.RangeToken, granularity models.Interval) []models.RangeToken {
	if m := thisVsLastRe.FindStringSubmatch(canonicalEnglish); m != nil {
		return []models.RangeToken{
			models.RangeToken("this_" + m[1]),
			models.RangeToken("last_" + m[2]),
		}
	}
	if m := compareLastNRe.FindStringSubmatch(canonicalEnglish); m != nil {
		n, _ := strconv.Atoi(m[1])
		ranges := make([]models.RangeToken, 0, n)
		for i := 1; i <= n; i++ {
			switch granularity {
			case models.IntervalDay:
				ranges = append(ranges, rangetoken.NDaysAgo(i))
			case models.IntervalWeek:
				ranges = append(ranges, rangetoken.NWeeksAgo(i))
			default:
				ranges = append(ranges, rangetoken.NHoursAgo(i))
			}
		}
		return ranges
	}
	if token == "" {
		token = DefaultRangeToken
	}
	return []models.RangeToken{token, token}
}
