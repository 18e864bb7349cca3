// Package response is the Response Formatter (C10): it assembles the
// unified models.Result schema from a compiled/executed query (or a typed
// failure), deriving chart metadata from the Ontology Registry and
// rendering bilingual summaries and error messages.
package response

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/haasonsaas/agrisense/internal/executor"
	"github.com/haasonsaas/agrisense/internal/ontology"
	"github.com/haasonsaas/agrisense/internal/queryerr"
	"github.com/haasonsaas/agrisense/internal/sensorstore"
	"github.com/haasonsaas/agrisense/pkg/models"
)

// Formatter turns executed query results into the unified result schema.
type Formatter struct {
	registry *ontology.Registry
}

// New builds a Formatter backed by registry, used to resolve units and
// plausible ranges for chart metadata.
func New(registry *ontology.Registry) *Formatter {
	return &Formatter{registry: registry}
}

// Input is everything the Formatter needs to produce one Result.
type Input struct {
	Query           string
	TranslatedQuery string
	Language        models.Language
	FeatureContext  string
	IR              models.SemanticIR
	SQL             string
	Exec            executor.Result
	FallbackUsed    []string
	RefinedByLLM    bool
	Now             time.Time
	Err             error
}

// Format builds the unified Result for in. When in.Err is non-nil it builds
// a failure result per §7; otherwise it builds a success result from
// in.Exec, deriving metrics, chart data, comparison, and raw_data from the
// executed rows' column shape.
func (f *Formatter) Format(in Input) models.Result {
	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	if in.Err != nil {
		return f.formatError(in, now)
	}

	records := rowsToRecords(in.Exec)
	chartRequested, chartType := DetectChart(in.Query)
	sensorTypes := sensorTypesOf(in.IR)

	result := models.Result{
		Success:         true,
		RawData:         rawDataOf(records),
		Metrics:         metricsOf(records),
		SQL:             in.SQL,
		TranslatedQuery: in.TranslatedQuery,
		FeatureContext:  in.FeatureContext,
		Timestamp:       now,
		Validation: models.Validation{
			QueryValid:       true,
			ExecutionSuccess: true,
			DataPoints:       len(records),
			SensorTypes:      sensorTypes,
			ChartRequested:   chartRequested,
			RefinedByLLM:     in.RefinedByLLM,
			FallbackUsed:     in.FallbackUsed,
			SemanticJSON:     &in.IR,
		},
	}

	if in.IR.Comparison || in.IR.IsComparisonRanges() {
		result.Comparison = comparisonOf(records)
	}

	if len(records) == 0 {
		result.Summary = emptySummary(in.IR, in.Language)
		result.Validation.ErrorDetails = &models.ErrorDetails{
			Kind:    string(queryerr.KindEmptyResult),
			Message: errorMessage(queryerr.KindEmptyResult, string(in.Language)),
		}
	} else {
		result.Summary = f.summaryOf(in.IR, records, in.Language)
	}

	if chartRequested {
		result.ChartType = chartType
		result.Chart = chartPointsOf(records)
		result.ChartMetadata = f.chartMetadata(in.Query, chartType, sensorTypes, len(result.Chart))
	}

	return result
}

func (f *Formatter) formatError(in Input, now time.Time) models.Result {
	kind := queryerr.KindOf(in.Err)
	return models.Result{
		Success:         false,
		Summary:         errorMessage(kind, string(in.Language)),
		Metrics:         map[string]any{},
		SQL:             in.SQL,
		TranslatedQuery: in.TranslatedQuery,
		FeatureContext:  in.FeatureContext,
		Timestamp:       now,
		Validation: models.Validation{
			QueryValid:       queryValid(kind),
			ExecutionSuccess: false,
			SensorTypes:      sensorTypesOf(in.IR),
			RefinedByLLM:     in.RefinedByLLM,
			FallbackUsed:     in.FallbackUsed,
			ErrorDetails: &models.ErrorDetails{
				Kind:    string(kind),
				Message: in.Err.Error(),
			},
		},
	}
}

func sensorTypesOf(ir models.SemanticIR) []string {
	if len(ir.Entity.Types) == 0 {
		return nil
	}
	out := make([]string, len(ir.Entity.Types))
	copy(out, ir.Entity.Types)
	return out
}

// rowsToRecords converts executor.Result into column-keyed maps, keying on
// the lower-cased column name so callers don't depend on the driver's
// reported case.
func rowsToRecords(res executor.Result) []map[string]any {
	if len(res.Rows) == 0 {
		return nil
	}
	records := make([]map[string]any, 0, len(res.Rows))
	for _, row := range res.Rows {
		rec := make(map[string]any, len(res.Columns))
		for i, col := range res.Columns {
			if i < len(row) {
				rec[strings.ToLower(col)] = row[i]
			}
		}
		records = append(records, rec)
	}
	return records
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

func asString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case []byte:
		return string(s), true
	default:
		return "", false
	}
}

// rawDataOf rebuilds committed-reading rows for the raw, ungrouped shape
// compileCurrent/compileCurrentCompound emit (SELECT * FROM sensor_data).
func rawDataOf(records []map[string]any) []models.Reading {
	var out []models.Reading
	for _, rec := range records {
		tsRaw, hasTS := rec["ts"]
		if !hasTS {
			continue
		}
		ts, ok := asFloat(tsRaw)
		if !ok {
			continue
		}
		sensorType, _ := asString(rec["sensor_type"])
		value, _ := asFloat(rec["value"])
		unit, _ := asString(rec["unit"])
		source, _ := asString(rec["source"])
		raw, _ := asString(rec["raw"])
		out = append(out, models.Reading{
			Timestamp:  sensorstore.FromMicros(int64(ts)),
			SensorType: sensorType,
			Value:      value,
			Unit:       unit,
			Source:     source,
			Raw:        raw,
		})
	}
	return out
}

// metricValue picks the first present aggregate value on a record, in the
// order the Query Builder's SELECT lists them.
func metricValue(rec map[string]any) (any, bool) {
	for _, col := range []string{"avg_value", "value", "min_value", "max_value", "data_points"} {
		if v, ok := rec[col]; ok {
			return v, true
		}
	}
	return nil, false
}

// metricsOf summarizes records into a flat map, keyed by whatever
// distinguishes rows from one another: sensor_type, time_period, both, or
// "value" when there is only ever one scalar result.
func metricsOf(records []map[string]any) map[string]any {
	metrics := map[string]any{}
	for _, rec := range records {
		v, ok := metricValue(rec)
		if !ok {
			continue
		}
		sensorType, hasSensor := asString(rec["sensor_type"])
		period, hasPeriod := asString(rec["time_period"])

		var key string
		switch {
		case hasSensor && hasPeriod:
			key = sensorType + "@" + period
		case hasPeriod:
			key = period
		case hasSensor:
			key = sensorType
		default:
			key = "value"
		}
		metrics[key] = v
	}
	return metrics
}

// chartPointsOf builds one ChartPoint per record, labeling by time_period
// when grouped/compared data is present and by sensor_type otherwise.
func chartPointsOf(records []map[string]any) []models.ChartPoint {
	points := make([]models.ChartPoint, 0, len(records))
	for _, rec := range records {
		v, ok := metricValue(rec)
		if !ok {
			continue
		}
		value, _ := asFloat(v)
		sensorType, _ := asString(rec["sensor_type"])
		period, hasPeriod := asString(rec["time_period"])

		label := period
		if !hasPeriod {
			label = sensorType
		}
		points = append(points, models.ChartPoint{
			Label:      label,
			Value:      value,
			SensorType: sensorType,
		})
	}
	return points
}

// comparisonOf computes the before/after delta per sensor type across an
// ordered (by time_period ASC, per the Query Builder's contract) set of
// comparison-arm records. With a single sensor type, "sensor_type" absent
// from the record set is treated as one implicit series.
func comparisonOf(records []map[string]any) *models.Comparison {
	if len(records) < 2 {
		return nil
	}

	series := map[string][]float64{}
	order := []string{}
	for _, rec := range records {
		v, ok := metricValue(rec)
		if !ok {
			continue
		}
		value, _ := asFloat(v)
		sensorType, hasSensor := asString(rec["sensor_type"])
		if !hasSensor {
			sensorType = "value"
		}
		if _, seen := series[sensorType]; !seen {
			order = append(order, sensorType)
		}
		series[sensorType] = append(series[sensorType], value)
	}

	comparisons := map[string]models.SensorComparison{}
	var totalDelta float64
	for _, sensorType := range order {
		vals := series[sensorType]
		if len(vals) < 2 {
			continue
		}
		first, last := vals[0], vals[len(vals)-1]
		delta := last - first
		percent := 0.0
		if first != 0 {
			percent = (delta / first) * 100
		}
		comparisons[sensorType] = models.SensorComparison{Delta: delta, PercentChange: percent}
		totalDelta += delta
	}

	trend := "stable"
	switch {
	case totalDelta > 0:
		trend = "increasing"
	case totalDelta < 0:
		trend = "decreasing"
	}

	return &models.Comparison{SensorComparisons: comparisons, OverallTrend: trend}
}

// summaryOf states the result in one sentence. A single current reading
// names its actual value and canonical unit per §8 scenario 1 ("the current
// temperature is 21.7 °C"); anything else (aggregates, multiple sensors,
// multiple rows) falls back to a record count.
func (f *Formatter) summaryOf(ir models.SemanticIR, records []map[string]any, lang models.Language) string {
	entity := strings.Join(ir.Entity.Types, ", ")

	if ir.Aggregation == models.AggCurrent && len(records) == 1 {
		if value, unit, ok := f.valueAndUnit(records[0], ir.Entity.Types); ok {
			valueStr := strconv.FormatFloat(value, 'f', -1, 64)
			if lang == models.LangPersian {
				return fmt.Sprintf("مقدار فعلی %s برابر %s %s است.", entity, valueStr, unit)
			}
			return fmt.Sprintf("The current %s is %s %s.", entity, valueStr, unit)
		}
	}

	if lang == models.LangPersian {
		return fmt.Sprintf("یافتن %d رکورد برای %s.", len(records), entity)
	}
	return fmt.Sprintf("Found %d record(s) for %s.", len(records), entity)
}

// valueAndUnit pulls the reading's numeric value off rec and resolves its
// unit, preferring the Ontology Registry's canonical unit over whatever the
// row itself recorded.
func (f *Formatter) valueAndUnit(rec map[string]any, sensorTypes []string) (float64, string, bool) {
	raw, ok := metricValue(rec)
	if !ok {
		return 0, "", false
	}
	value, ok := asFloat(raw)
	if !ok {
		return 0, "", false
	}

	unit, _ := asString(rec["unit"])
	if f.registry != nil && len(sensorTypes) > 0 {
		if canonical, ok := f.registry.CanonicalUnit(sensorTypes[0]); ok {
			unit = canonical
		}
	}
	return value, unit, true
}

// emptySummary states plainly that no data matched and enumerates what the
// caller could check, per §7's requirement that an EmptyResult response
// never implies data exists.
func emptySummary(ir models.SemanticIR, lang models.Language) string {
	entity := strings.Join(ir.Entity.Types, ", ")
	timeRange := "the requested time window"
	if len(ir.TimeRange) > 0 {
		tokens := make([]string, len(ir.TimeRange))
		for i, t := range ir.TimeRange {
			tokens[i] = string(t)
		}
		timeRange = strings.Join(tokens, ", ")
	}
	if lang == models.LangPersian {
		return fmt.Sprintf(
			"داده‌ای برای %s در بازه %s موجود نیست. بررسی کنید که: نام حسگر صحیح است، بازه زمانی معتبر است و داده برای آن ثبت شده است.",
			entity, timeRange,
		)
	}
	return fmt.Sprintf(
		"No data is available for %s over %s. Check that: the sensor name is correct, the time window is valid, and data has actually been ingested for it.",
		entity, timeRange,
	)
}

// chartMetadata derives title, axis labels, units (from the Ontology
// Registry), legend visibility, and a sensor->color palette.
func (f *Formatter) chartMetadata(query, chartType string, sensorTypes []string, dataPoints int) *models.ChartMetadata {
	units := map[string]string{}
	palette := map[string]string{}
	colors := []string{"#2563eb", "#16a34a", "#d97706", "#dc2626", "#7c3aed", "#0891b2"}
	sorted := append([]string(nil), sensorTypes...)
	sort.Strings(sorted)
	for i, t := range sorted {
		if f.registry != nil {
			if unit, ok := f.registry.CanonicalUnit(t); ok {
				units[t] = unit
			}
		}
		palette[t] = colors[i%len(colors)]
	}

	yLabel := "value"
	if len(sorted) == 1 {
		if unit, ok := units[sorted[0]]; ok {
			yLabel = fmt.Sprintf("%s (%s)", sorted[0], unit)
		} else {
			yLabel = sorted[0]
		}
	}

	return &models.ChartMetadata{
		Title:         strings.TrimSpace(query),
		XAxisLabel:    "time",
		YAxisLabel:    yLabel,
		Units:         units,
		LegendVisible: len(sorted) > 1,
		Palette:       palette,
		DataPoints:    dataPoints,
	}
}
