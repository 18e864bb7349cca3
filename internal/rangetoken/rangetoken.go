// Package rangetoken implements the authoritative half-open time-window
// semantics for Range Tokens (spec §4.3), shared by the Semantic
// Translator (to populate an optional concrete TimeContext) and the Query
// Builder (to compile the SQL time predicate).
package rangetoken

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/haasonsaas/agrisense/pkg/models"
)

var (
	lastNRe     = regexp.MustCompile(`^last_(\d+)_(minutes|hours|days|weeks|months)$`)
	nAgoRe      = regexp.MustCompile(`^(\d+)_(hours|days|weeks)_ago$`)
	previousNRe = regexp.MustCompile(`^previous_(\d+)_(hours|days|weeks)$`)
)

// floorDay truncates t to midnight UTC.
func floorDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// mondayOf returns the UTC midnight of the Monday of t's week.
func mondayOf(t time.Time) time.Time {
	d := floorDay(t)
	offset := (int(d.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return d.AddDate(0, 0, -offset)
}

// Compute resolves a Range Token into its half-open [start, end) interval
// and granularity, given the current UTC instant now. ok is false for an
// unrecognized token.
func Compute(token models.RangeToken, now time.Time) (start, end time.Time, interval models.Interval, ok bool) {
	now = now.UTC()
	s := string(token)

	switch s {
	case "today":
		d := floorDay(now)
		return d, d.AddDate(0, 0, 1), models.IntervalDay, true
	case "yesterday":
		d := floorDay(now)
		return d.AddDate(0, 0, -1), d, models.IntervalDay, true
	case "this_week":
		m := mondayOf(now)
		return m, m.AddDate(0, 0, 7), models.IntervalWeek, true
	case "last_week":
		return now.AddDate(0, 0, -7), now, models.IntervalWeek, true
	case "this_month":
		d := floorDay(now)
		firstOfMonth := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
		return firstOfMonth, firstOfMonth.AddDate(0, 1, 0), models.IntervalMonth, true
	case "last_month":
		return now.AddDate(0, 0, -30), now, models.IntervalMonth, true
	case "this_year":
		d := floorDay(now)
		firstOfYear := time.Date(d.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
		return firstOfYear, firstOfYear.AddDate(1, 0, 0), models.IntervalMonth, true
	case "last_year":
		return now.AddDate(0, 0, -365), now, models.IntervalMonth, true
	}

	if m := lastNRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		switch m[2] {
		case "minutes":
			return now.Add(-time.Duration(n) * time.Minute), now, models.IntervalMinute, true
		case "hours":
			return now.Add(-time.Duration(n) * time.Hour), now, models.IntervalHour, true
		case "days":
			return now.Add(-time.Duration(n) * 24 * time.Hour), now, models.IntervalDay, true
		case "weeks":
			return now.Add(-time.Duration(n) * 7 * 24 * time.Hour), now, models.IntervalWeek, true
		case "months":
			return now.AddDate(0, -n, 0), now, models.IntervalMonth, true
		}
	}

	if m := nAgoRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		switch m[2] {
		case "hours":
			return now.Add(-time.Duration(n) * time.Hour), now.Add(-time.Duration(n-1) * time.Hour), models.IntervalHour, true
		case "days":
			d := floorDay(now)
			return d.AddDate(0, 0, -n), d.AddDate(0, 0, -(n - 1)), models.IntervalDay, true
		case "weeks":
			m0 := mondayOf(now.Add(-time.Duration(n) * 7 * 24 * time.Hour))
			return m0, m0.AddDate(0, 0, 7), models.IntervalWeek, true
		}
	}

	if m := previousNRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		switch m[2] {
		case "hours":
			return now.Add(-time.Duration(2*n) * time.Hour), now.Add(-time.Duration(n) * time.Hour), models.IntervalHour, true
		case "days":
			return now.Add(-time.Duration(2*n) * 24 * time.Hour), now.Add(-time.Duration(n) * 24 * time.Hour), models.IntervalDay, true
		case "weeks":
			return now.Add(-time.Duration(2*n) * 7 * 24 * time.Hour), now.Add(-time.Duration(n) * 7 * 24 * time.Hour), models.IntervalWeek, true
		}
	}

	return time.Time{}, time.Time{}, "", false
}

// LastNHours builds the canonical "last_N_hours" token.
func LastNHours(n int) models.RangeToken { return models.RangeToken(fmt.Sprintf("last_%d_hours", n)) }

// LastNDays builds the canonical "last_N_days" token.
func LastNDays(n int) models.RangeToken { return models.RangeToken(fmt.Sprintf("last_%d_days", n)) }

// LastNWeeks builds the canonical "last_N_weeks" token.
func LastNWeeks(n int) models.RangeToken { return models.RangeToken(fmt.Sprintf("last_%d_weeks", n)) }

// NHoursAgo builds the canonical "N_hours_ago" token.
func NHoursAgo(n int) models.RangeToken { return models.RangeToken(fmt.Sprintf("%d_hours_ago", n)) }

// NDaysAgo builds the canonical "N_days_ago" token.
func NDaysAgo(n int) models.RangeToken { return models.RangeToken(fmt.Sprintf("%d_days_ago", n)) }

// NWeeksAgo builds the canonical "N_weeks_ago" token.
func NWeeksAgo(n int) models.RangeToken { return models.RangeToken(fmt.Sprintf("%d_weeks_ago", n)) }
