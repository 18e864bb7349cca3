package models

import "time"

// Aggregation is the requested summary operation over matched readings.
type Aggregation string

const (
	AggCurrent Aggregation = "current"
	AggAverage Aggregation = "average"
	AggMin     Aggregation = "min"
	AggMax     Aggregation = "max"
	AggCount   Aggregation = "count"
)

// Grouping is the time-bucket granularity for aggregated results.
type Grouping string

const (
	GroupNone    Grouping = "none"
	GroupMinute  Grouping = "by_minute"
	GroupHour    Grouping = "by_hour"
	GroupDay     Grouping = "by_day"
	GroupWeek    Grouping = "by_week"
	GroupMonth   Grouping = "by_month"
)

// Format is the presentation shape the caller asked for.
type Format string

const (
	FormatValue       Format = "value"
	FormatTrend       Format = "trend"
	FormatComparison  Format = "comparison"
	FormatDistribution Format = "distribution"
)

// Interval is the granularity of a TimeContext.
type Interval string

const (
	IntervalMinute Interval = "minute"
	IntervalHour   Interval = "hour"
	IntervalDay    Interval = "day"
	IntervalWeek   Interval = "week"
	IntervalMonth  Interval = "month"
)

// TimeContext is a concrete half-open UTC interval plus granularity, derived
// from natural language. When present it overrides RangeToken lookup.
type TimeContext struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Interval Interval  `json:"interval"`
}

// RangeToken is a canonical textual label for a time interval (see spec §4.3).
type RangeToken string

// Entity is either a single canonical sensor type or an ordered set of them
// (set semantics: membership, no duplicates) used for compound queries.
type Entity struct {
	Types []string `json:"types"`
}

// Single reports whether the entity names exactly one sensor type.
func (e Entity) Single() bool { return len(e.Types) == 1 }

// First returns the first (or only) entity type, or "" if empty.
func (e Entity) First() string {
	if len(e.Types) == 0 {
		return ""
	}
	return e.Types[0]
}

// NewEntity builds an Entity with duplicate types removed, order preserved.
func NewEntity(types ...string) Entity {
	seen := make(map[string]bool, len(types))
	out := make([]string, 0, len(types))
	for _, t := range types {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return Entity{Types: out}
}

// SemanticIR is the validated intermediate representation produced by the
// Semantic Translator and consumed by the Query Builder.
type SemanticIR struct {
	Entity      Entity       `json:"entity"`
	Aggregation Aggregation  `json:"aggregation"`
	TimeRange   []RangeToken `json:"time_range"`
	Grouping    Grouping     `json:"grouping"`
	Format      Format       `json:"format"`
	Comparison  bool         `json:"comparison"`
	TimeContext *TimeContext `json:"time_context,omitempty"`

	// FallbackReason is set when the translator fell back to a minimal IR
	// after validation failure.
	FallbackReason string `json:"fallback_reason,omitempty"`
}

// IsComparisonRanges reports whether TimeRange names a multi-range comparison.
func (ir SemanticIR) IsComparisonRanges() bool {
	return len(ir.TimeRange) >= 2
}
