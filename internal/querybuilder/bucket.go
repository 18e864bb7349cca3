package querybuilder

import "github.com/haasonsaas/agrisense/pkg/models"

// bucketExpr returns the strftime expression that truncates the ts column
// (stored as integer microseconds since epoch) to the requested grouping
// granularity, and whether grouping names a real bucket at all.
func bucketExpr(g models.Grouping) (string, bool) {
	switch g {
	case models.GroupMinute:
		return "strftime('%Y-%m-%d %H:%M', ts/1000000, 'unixepoch')", true
	case models.GroupHour:
		return "strftime('%Y-%m-%d %H:00', ts/1000000, 'unixepoch')", true
	case models.GroupDay:
		return "strftime('%Y-%m-%d', ts/1000000, 'unixepoch')", true
	case models.GroupWeek:
		return "strftime('%Y-%W', ts/1000000, 'unixepoch')", true
	case models.GroupMonth:
		return "strftime('%Y-%m', ts/1000000, 'unixepoch')", true
	default:
		return "", false
	}
}

// bucketFormat is the Go time layout used to render a comparison arm's
// literal time_period label from a resolved range's start instant. It is
// chosen so the label sorts chronologically under a plain ORDER BY
// time_period ASC, which the YYYY-WW ISO week form from bucketExpr would
// not guarantee across year boundaries.
func bucketFormat(interval models.Interval) string {
	switch interval {
	case models.IntervalMinute:
		return "2006-01-02 15:04"
	case models.IntervalHour:
		return "2006-01-02 15:00"
	case models.IntervalMonth:
		return "2006-01"
	default:
		return "2006-01-02"
	}
}
