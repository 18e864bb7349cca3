package semantic

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/haasonsaas/agrisense/internal/rangetoken"
	"github.com/haasonsaas/agrisense/pkg/models"
)

// persianDigits maps Eastern Arabic-Indic numerals to ASCII.
var persianDigits = map[rune]rune{
	'۰': '0', '۱': '1', '۲': '2', '۳': '3', '۴': '4',
	'۵': '5', '۶': '6', '۷': '7', '۸': '8', '۹': '9',
}

// persianWordNumbers covers the small cardinal range ("یک".."ده") the
// domain's time expressions actually use.
var persianWordNumbers = map[string]string{
	"یک": "1", "دو": "2", "سه": "3", "چهار": "4", "پنج": "5",
	"شش": "6", "هفت": "7", "هشت": "8", "نه": "9", "ده": "10",
}

// normalizeNumerals converts Persian digits and the small cardinal-word
// set to ASCII digits so a single set of regexes can scan both.
func normalizeNumerals(s string) string {
	var b strings.Builder
	for _, r := range s {
		if d, ok := persianDigits[r]; ok {
			b.WriteRune(d)
		} else {
			b.WriteRune(r)
		}
	}
	out := b.String()
	for word, digit := range persianWordNumbers {
		out = strings.ReplaceAll(out, word, digit)
	}
	return out
}

type timePattern struct {
	re   *regexp.Regexp
	kind string // "n_hours_ago" | "last_n_hours" | ... | "today" | "yesterday" | "this_unit" | "last_unit"
}

var timePatterns = []timePattern{
	{regexp.MustCompile(`(?i)(\d+)\s*hours?\s+ago`), "n_hours_ago"},
	{regexp.MustCompile(`(?i)(?:last|past)\s+(\d+)\s*hours?`), "last_n_hours"},
	{regexp.MustCompile(`(?i)(\d+)\s*days?\s+ago`), "n_days_ago"},
	{regexp.MustCompile(`(?i)(?:last|past)\s+(\d+)\s*days?`), "last_n_days"},
	{regexp.MustCompile(`(?i)(\d+)\s*weeks?\s+ago`), "n_weeks_ago"},
	{regexp.MustCompile(`(?i)(?:last|past)\s+(\d+)\s*weeks?`), "last_n_weeks"},
	{regexp.MustCompile(`(?i)\bthis\s+week\b`), "this_week"},
	{regexp.MustCompile(`(?i)\bthis\s+month\b`), "this_month"},
	{regexp.MustCompile(`(?i)\bthis\s+year\b`), "this_year"},
	{regexp.MustCompile(`(?i)\blast\s+week\b`), "last_week"},
	{regexp.MustCompile(`(?i)\blast\s+month\b`), "last_month"},
	{regexp.MustCompile(`(?i)\blast\s+year\b`), "last_year"},
	{regexp.MustCompile(`(?i)\btoday\b`), "today"},
	{regexp.MustCompile(`(?i)\byesterday\b`), "yesterday"},

	// Persian (numerals already normalized to ASCII by the caller).
	{regexp.MustCompile(`(\d+)\s*ساعت\s*(?:پیش|قبل)`), "n_hours_ago"},
	{regexp.MustCompile(`(?:گذشته|اخیر)\s*(\d+)\s*ساعت|(\d+)\s*ساعت\s*(?:گذشته|اخیر)`), "last_n_hours"},
	{regexp.MustCompile(`(\d+)\s*روز\s*(?:پیش|قبل)`), "n_days_ago"},
	{regexp.MustCompile(`(?:گذشته|اخیر)\s*(\d+)\s*روز|(\d+)\s*روز\s*(?:گذشته|اخیر)`), "last_n_days"},
	{regexp.MustCompile(`(\d+)\s*هفته\s*(?:پیش|قبل)`), "n_weeks_ago"},
	{regexp.MustCompile(`(?:گذشته|اخیر)\s*(\d+)\s*هفته|(\d+)\s*هفته\s*(?:گذشته|اخیر)`), "last_n_weeks"},
	{regexp.MustCompile(`این\s*هفته`), "this_week"},
	{regexp.MustCompile(`این\s*ماه`), "this_month"},
	{regexp.MustCompile(`هفته\s*(?:گذشته|قبل)`), "last_week"},
	{regexp.MustCompile(`ماه\s*(?:گذشته|قبل)`), "last_month"},
	{regexp.MustCompile(`امروز`), "today"},
	{regexp.MustCompile(`دیروز`), "yesterday"},
}

func firstNumericGroup(m []string) int {
	for _, g := range m[1:] {
		if g == "" {
			continue
		}
		if n, err := strconv.Atoi(g); err == nil {
			return n
		}
	}
	return 0
}

// DefaultRangeToken is used when no time expression is found in the query.
const DefaultRangeToken = models.RangeToken("last_24_hours")

// ParseTimeExpression scans text (which may be English or Persian) for a
// supported NL time expression and returns the matching Range Token and
// its granularity. found is false when nothing matched, in which case
// callers should default to DefaultRangeToken with hour granularity.
func ParseTimeExpression(text string) (token models.RangeToken, granularity models.Interval, found bool) {
	normalized := normalizeNumerals(text)

	for _, p := range timePatterns {
		m := p.re.FindStringSubmatch(normalized)
		if m == nil {
			continue
		}
		switch p.kind {
		case "n_hours_ago":
			n := firstNumericGroup(m)
			return rangetoken.NHoursAgo(n), models.IntervalHour, true
		case "last_n_hours":
			n := firstNumericGroup(m)
			return rangetoken.LastNHours(n), models.IntervalHour, true
		case "n_days_ago":
			n := firstNumericGroup(m)
			return rangetoken.NDaysAgo(n), models.IntervalDay, true
		case "last_n_days":
			n := firstNumericGroup(m)
			return rangetoken.LastNDays(n), models.IntervalDay, true
		case "n_weeks_ago":
			n := firstNumericGroup(m)
			return rangetoken.NWeeksAgo(n), models.IntervalWeek, true
		case "last_n_weeks":
			n := firstNumericGroup(m)
			return rangetoken.LastNWeeks(n), models.IntervalWeek, true
		case "this_week":
			return "this_week", models.IntervalWeek, true
		case "this_month":
			return "this_month", models.IntervalMonth, true
		case "this_year":
			return "this_year", models.IntervalMonth, true
		case "last_week":
			return "last_week", models.IntervalWeek, true
		case "last_month":
			return "last_month", models.IntervalMonth, true
		case "last_year":
			return "last_year", models.IntervalMonth, true
		case "today":
			return "today", models.IntervalDay, true
		case "yesterday":
			return "yesterday", models.IntervalDay, true
		}
	}
	return "", "", false
}
