package semantic

import (
	"strings"

	"github.com/haasonsaas/agrisense/pkg/models"
)

var aggregationKeywords = []struct {
	keywords []string
	agg      models.Aggregation
}{
	{[]string{"average", "avg", "mean"}, models.AggAverage},
	{[]string{"minimum", "min", "lowest"}, models.AggMin},
	{[]string{"maximum", "max", "highest", "peak"}, models.AggMax},
	{[]string{"count", "number of", "how many"}, models.AggCount},
}

// detectAggregation infers the requested aggregation from canonical
// English keywords, defaulting to AggCurrent.
func detectAggregation(canonicalEnglish string) models.Aggregation {
	lower := strings.ToLower(canonicalEnglish)
	for _, entry := range aggregationKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.agg
			}
		}
	}
	return models.AggCurrent
}

// detectFormat infers the presentation format from canonical English
// keywords and the already-detected comparison flag.
func detectFormat(canonicalEnglish string, comparison bool) models.Format {
	if comparison {
		return models.FormatComparison
	}
	lower := strings.ToLower(canonicalEnglish)
	switch {
	case strings.Contains(lower, "trend"):
		return models.FormatTrend
	case strings.Contains(lower, "distribution"):
		return models.FormatDistribution
	default:
		return models.FormatValue
	}
}

var allowedAggregations = map[models.Aggregation]bool{
	models.AggCurrent: true, models.AggAverage: true, models.AggMin: true,
	models.AggMax: true, models.AggCount: true,
}

var allowedGroupings = map[models.Grouping]bool{
	models.GroupNone: true, models.GroupMinute: true, models.GroupHour: true,
	models.GroupDay: true, models.GroupWeek: true, models.GroupMonth: true,
}

// validateIR checks the IR invariants from spec §4.5: entity non-empty and
// canonical, aggregation/grouping in their allowed sets, and
// comparison=true iff the multi-range-or-multi-entity condition holds.
// Canonical-type membership is checked by the caller (which has the
// registry); here we validate shape only.
func validateIR(ir models.SemanticIR) error {
	if len(ir.Entity.Types) == 0 {
		return errEmptyEntity
	}
	if !allowedAggregations[ir.Aggregation] {
		return errBadAggregation
	}
	if !allowedGroupings[ir.Grouping] {
		return errBadGrouping
	}
	wantsComparison := ir.IsComparisonRanges() || len(ir.Entity.Types) >= 2
	if ir.Comparison != wantsComparison {
		return errComparisonMismatch
	}
	return nil
}

type irError string

func (e irError) Error() string { return string(e) }

const (
	errEmptyEntity        = irError("entity must name at least one sensor type")
	errBadAggregation     = irError("aggregation not in allowed set")
	errBadGrouping        = irError("grouping not in allowed set")
	errComparisonMismatch = irError("comparison flag does not match time_range/entity shape")
)

// fallbackIR builds the minimal IR spec §4.5 mandates on validation
// failure: a single best-guess entity, current aggregation, the default
// 24-hour range, no grouping, value format, annotated with why.
func fallbackIR(bestGuessEntity string, reason string) models.SemanticIR {
	if bestGuessEntity == "" {
		bestGuessEntity = "temperature"
	}
	return models.SemanticIR{
		Entity:         models.NewEntity(bestGuessEntity),
		Aggregation:    models.AggCurrent,
		TimeRange:      []models.RangeToken{DefaultRangeToken},
		Grouping:       models.GroupNone,
		Format:         models.FormatValue,
		Comparison:     false,
		FallbackReason: reason,
	}
}
