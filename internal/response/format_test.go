package response

import (
	"strings"
	"testing"
	"time"

	"github.com/haasonsaas/agrisense/internal/executor"
	"github.com/haasonsaas/agrisense/internal/ontology"
	"github.com/haasonsaas/agrisense/internal/queryerr"
	"github.com/haasonsaas/agrisense/pkg/models"
)

func testRegistry() *ontology.Registry {
	return ontology.NewRegistry([]models.SensorDescriptor{
		{Type: "temperature", Unit: "celsius", Range: models.Range{Min: -20, Max: 60, Avg: 20}},
		{Type: "humidity", Unit: "percent", Range: models.Range{Min: 0, Max: 100, Avg: 50}},
	})
}

func TestFormat_CurrentValueSingleEntity(t *testing.T) {
	f := New(testRegistry())
	now := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)

	exec := executor.Result{
		Columns: []string{"id", "ts", "sensor_type", "value", "unit", "source", "raw"},
		Rows: [][]any{
			{int64(1), int64(now.UnixMicro()), "temperature", 21.5, "celsius", "ingest", ""},
		},
	}

	res := f.Format(Input{
		Query: "what is the current temperature",
		IR:    models.SemanticIR{Entity: models.NewEntity("temperature"), Aggregation: models.AggCurrent},
		Exec:  exec,
		Now:   now,
	})

	if !res.Success {
		t.Fatalf("Success = false, want true")
	}
	if len(res.RawData) != 1 || res.RawData[0].SensorType != "temperature" || res.RawData[0].Value != 21.5 {
		t.Fatalf("RawData = %+v", res.RawData)
	}
	if res.Validation.DataPoints != 1 || !res.Validation.ExecutionSuccess || !res.Validation.QueryValid {
		t.Errorf("Validation = %+v", res.Validation)
	}
	if v, ok := res.Metrics["temperature"]; !ok || v != 21.5 {
		t.Errorf("Metrics = %+v", res.Metrics)
	}
	if !strings.Contains(res.Summary, "21.5") || !strings.Contains(res.Summary, "celsius") {
		t.Errorf("Summary = %q, want it to contain the reading's value and canonical unit", res.Summary)
	}
}

func TestFormat_EmptyResultNamesEntityAndWindow(t *testing.T) {
	f := New(testRegistry())
	res := f.Format(Input{
		Query: "average humidity last_week",
		IR:    models.SemanticIR{Entity: models.NewEntity("humidity"), Aggregation: models.AggAverage, TimeRange: []models.RangeToken{"last_week"}},
		Exec:  executor.Result{Columns: []string{"avg_value", "min_value", "max_value", "data_points"}},
		Now:   time.Now().UTC(),
	})

	if res.Success != true {
		t.Fatalf("Success = %v, want true (a zero-row success is not a failure)", res.Success)
	}
	if res.Validation.DataPoints != 0 {
		t.Errorf("DataPoints = %d, want 0", res.Validation.DataPoints)
	}
	if res.Validation.ErrorDetails == nil || res.Validation.ErrorDetails.Kind != string(queryerr.KindEmptyResult) {
		t.Fatalf("ErrorDetails = %+v", res.Validation.ErrorDetails)
	}
	if res.Summary == "" {
		t.Error("expected a non-empty summary enumerating what to check")
	}
}

func TestFormat_TypedErrorProducesBilingualSummary(t *testing.T) {
	f := New(testRegistry())
	err := queryerr.New(queryerr.KindMappingError, "unrecognized sensor")

	enRes := f.Format(Input{Language: models.LangEnglish, Err: err})
	if enRes.Success {
		t.Fatal("Success = true, want false")
	}
	if enRes.Validation.QueryValid {
		t.Error("QueryValid = true for a MappingError, want false")
	}
	if enRes.Validation.ErrorDetails.Kind != string(queryerr.KindMappingError) {
		t.Errorf("ErrorDetails.Kind = %q", enRes.Validation.ErrorDetails.Kind)
	}

	faRes := f.Format(Input{Language: models.LangPersian, Err: err})
	if enRes.Summary == faRes.Summary {
		t.Error("expected distinct English and Persian summaries")
	}
}

func TestFormat_GroupedAggregationBuildsChartWhenRequested(t *testing.T) {
	f := New(testRegistry())
	exec := executor.Result{
		Columns: []string{"time_period", "avg_value", "min_value", "max_value", "data_points"},
		Rows: [][]any{
			{"2026-07-29", 20.0, 18.0, 22.0, int64(24)},
			{"2026-07-30", 21.0, 19.0, 23.0, int64(24)},
		},
	}

	res := f.Format(Input{
		Query: "show me a trend chart of temperature",
		IR:    models.SemanticIR{Entity: models.NewEntity("temperature"), Aggregation: models.AggAverage, Grouping: models.GroupDay, TimeRange: []models.RangeToken{"last_week"}},
		Exec:  exec,
		Now:   time.Now().UTC(),
	})

	if !res.Validation.ChartRequested {
		t.Fatal("ChartRequested = false, want true")
	}
	if res.ChartType != "line" {
		t.Errorf("ChartType = %q, want line", res.ChartType)
	}
	if len(res.Chart) != 2 {
		t.Fatalf("Chart = %v", res.Chart)
	}
	if res.ChartMetadata == nil || res.ChartMetadata.Units["temperature"] != "celsius" {
		t.Errorf("ChartMetadata = %+v", res.ChartMetadata)
	}
}

func TestFormat_ComparisonComputesDeltaAndTrend(t *testing.T) {
	f := New(testRegistry())
	exec := executor.Result{
		Columns: []string{"time_period", "avg_value", "min_value", "max_value", "data_points"},
		Rows: [][]any{
			{"2026-07-24", 18.0, 16.0, 20.0, int64(24)},
			{"2026-07-27", 22.0, 20.0, 24.0, int64(24)},
		},
	}

	res := f.Format(Input{
		IR:   models.SemanticIR{Entity: models.NewEntity("temperature"), Comparison: true, TimeRange: []models.RangeToken{"last_week", "this_week"}},
		Exec: exec,
		Now:  time.Now().UTC(),
	})

	if res.Comparison == nil {
		t.Fatal("Comparison = nil, want non-nil")
	}
	c, ok := res.Comparison.SensorComparisons["value"]
	if !ok {
		t.Fatalf("SensorComparisons = %+v", res.Comparison.SensorComparisons)
	}
	if c.Delta != 4.0 {
		t.Errorf("Delta = %v, want 4.0", c.Delta)
	}
	if res.Comparison.OverallTrend != "increasing" {
		t.Errorf("OverallTrend = %q, want increasing", res.Comparison.OverallTrend)
	}
}

func TestFormat_CompoundCurrentBuildsPerSensorMetrics(t *testing.T) {
	f := New(testRegistry())
	now := time.Now().UTC()
	exec := executor.Result{
		Columns: []string{"id", "ts", "sensor_type", "value", "unit", "source", "raw"},
		Rows: [][]any{
			{int64(1), now.UnixMicro(), "temperature", 21.0, "celsius", "ingest", ""},
			{int64(2), now.UnixMicro(), "humidity", 55.0, "percent", "ingest", ""},
		},
	}

	res := f.Format(Input{
		IR:   models.SemanticIR{Entity: models.NewEntity("temperature", "humidity"), Aggregation: models.AggCurrent},
		Exec: exec,
		Now:  now,
	})

	if res.Metrics["temperature"] != 21.0 || res.Metrics["humidity"] != 55.0 {
		t.Errorf("Metrics = %+v", res.Metrics)
	}
	if len(res.Validation.SensorTypes) != 2 {
		t.Errorf("SensorTypes = %v", res.Validation.SensorTypes)
	}
}

func TestDetectChart_MatchesKeywordClasses(t *testing.T) {
	cases := []struct {
		query     string
		requested bool
		chartType string
	}{
		{"show the temperature trend", true, "line"},
		{"compare humidity this week vs last week", true, "bar"},
		{"what is the distribution of readings", true, "histogram"},
		{"show the pie of sensor share", true, "pie"},
		{"what is the current temperature", false, ""},
	}
	for _, tc := range cases {
		requested, chartType := DetectChart(tc.query)
		if requested != tc.requested || chartType != tc.chartType {
			t.Errorf("DetectChart(%q) = (%v, %q), want (%v, %q)", tc.query, requested, chartType, tc.requested, tc.chartType)
		}
	}
}
