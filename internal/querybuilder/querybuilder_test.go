package querybuilder

import (
	"strings"
	"testing"
	"time"

	"github.com/haasonsaas/agrisense/pkg/models"
)

var fixedNow = time.Date(2026, 7, 31, 15, 30, 0, 0, time.UTC)

func TestCompile_CurrentValueSingleEntity(t *testing.T) {
	ir := models.SemanticIR{
		Entity:      models.NewEntity("temperature"),
		Aggregation: models.AggCurrent,
		TimeRange:   []models.RangeToken{"last_24_hours"},
		Grouping:    models.GroupNone,
	}
	got, err := Compile(ir, fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got.SQL, "ORDER BY ts DESC LIMIT 1") {
		t.Errorf("SQL = %q, want current-value template", got.SQL)
	}
	if strings.Contains(got.SQL, "ts >=") {
		t.Errorf("SQL = %q, current value must not filter on time", got.SQL)
	}
	if len(got.Args) != 1 || got.Args[0] != "temperature" {
		t.Errorf("Args = %v", got.Args)
	}
}

func TestCompile_AverageUngrouped(t *testing.T) {
	ir := models.SemanticIR{
		Entity:      models.NewEntity("temperature"),
		Aggregation: models.AggAverage,
		TimeRange:   []models.RangeToken{"last_7_days"},
		Grouping:    models.GroupNone,
	}
	got, err := Compile(ir, fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"AVG(value) AS avg_value", "MIN(value) AS min_value", "MAX(value) AS max_value", "COUNT(*) AS data_points", "sensor_type = ?", "ts >= ? AND ts < ?"} {
		if !strings.Contains(got.SQL, want) {
			t.Errorf("SQL = %q, want it to contain %q", got.SQL, want)
		}
	}
	if strings.Contains(got.SQL, "GROUP BY") {
		t.Errorf("SQL = %q, ungrouped average must not GROUP BY", got.SQL)
	}
	if len(got.Args) != 3 {
		t.Fatalf("Args = %v, want 3 (sensor_type, start, end)", got.Args)
	}
}

func TestCompile_AverageGroupedByDay(t *testing.T) {
	ir := models.SemanticIR{
		Entity:      models.NewEntity("temperature"),
		Aggregation: models.AggAverage,
		TimeRange:   []models.RangeToken{"last_7_days"},
		Grouping:    models.GroupDay,
	}
	got, err := Compile(ir, fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got.SQL, "strftime('%Y-%m-%d', ts/1000000, 'unixepoch') AS time_period") {
		t.Errorf("SQL = %q, want a day bucket expression", got.SQL)
	}
	if !strings.Contains(got.SQL, "GROUP BY time_period ORDER BY time_period ASC") {
		t.Errorf("SQL = %q, want GROUP BY/ORDER BY time_period", got.SQL)
	}
}

func TestCompile_CompoundEntityNonComparison(t *testing.T) {
	ir := models.SemanticIR{
		Entity:      models.NewEntity("soil_moisture", "water_usage"),
		Aggregation: models.AggAverage,
		TimeRange:   []models.RangeToken{"today"},
		Grouping:    models.GroupNone,
	}
	got, err := Compile(ir, fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got.SQL, "sensor_type IN (?,?)") {
		t.Errorf("SQL = %q, want an IN-list over both types", got.SQL)
	}
	if !strings.Contains(got.SQL, "GROUP BY sensor_type") {
		t.Errorf("SQL = %q, want GROUP BY sensor_type for the compound case", got.SQL)
	}
	if len(got.Args) != 4 {
		t.Fatalf("Args = %v, want 4 (2 types, start, end)", got.Args)
	}
	if got.Args[0] != "soil_moisture" || got.Args[1] != "water_usage" {
		t.Errorf("Args = %v, want types in entity order", got.Args)
	}
}

func TestCompile_CurrentCompoundEntity(t *testing.T) {
	ir := models.SemanticIR{
		Entity:      models.NewEntity("soil_moisture", "water_usage"),
		Aggregation: models.AggCurrent,
		TimeRange:   []models.RangeToken{"today"},
		Grouping:    models.GroupNone,
	}
	got, err := Compile(ir, fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Count(got.SQL, "UNION ALL") != 1 {
		t.Errorf("SQL = %q, want exactly one UNION ALL for two types", got.SQL)
	}
	if len(got.Args) != 2 {
		t.Fatalf("Args = %v, want one per entity type", got.Args)
	}
}

func TestCompile_ComparisonUnionAll(t *testing.T) {
	ir := models.SemanticIR{
		Entity:      models.NewEntity("soil_moisture"),
		Aggregation: models.AggAverage,
		TimeRange:   []models.RangeToken{"this_week", "last_week"},
		Grouping:    models.GroupWeek,
		Comparison:  true,
	}
	got, err := Compile(ir, fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Count(got.SQL, "UNION ALL") != 1 {
		t.Errorf("SQL = %q, want exactly one UNION ALL for two ranges", got.SQL)
	}
	if !strings.HasSuffix(got.SQL, "ORDER BY time_period ASC") {
		t.Errorf("SQL = %q, want a trailing ORDER BY time_period ASC", got.SQL)
	}
	// label, sensor_type, start, end -- per arm, twice.
	if len(got.Args) != 8 {
		t.Fatalf("Args = %v, want 8 (2 arms x 4 bound values)", got.Args)
	}
}

func TestCompile_ComparisonLabelsSortChronologically(t *testing.T) {
	ir := models.SemanticIR{
		Entity:      models.NewEntity("soil_moisture"),
		Aggregation: models.AggAverage,
		TimeRange:   []models.RangeToken{"this_week", "last_week"},
		Grouping:    models.GroupWeek,
		Comparison:  true,
	}
	got, err := Compile(ir, fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	thisWeekLabel, _ := got.Args[0].(string)
	lastWeekLabel, _ := got.Args[4].(string)
	if !(lastWeekLabel < thisWeekLabel) {
		t.Errorf("expected last_week label %q to sort before this_week label %q", lastWeekLabel, thisWeekLabel)
	}
}

func TestCompile_EmptyEntityIsValidationError(t *testing.T) {
	_, err := Compile(models.SemanticIR{}, fixedNow)
	if err == nil {
		t.Fatal("expected validation error for empty entity")
	}
}

func TestCompile_UnrecognizedRangeTokenIsValidationError(t *testing.T) {
	ir := models.SemanticIR{
		Entity:      models.NewEntity("temperature"),
		Aggregation: models.AggAverage,
		TimeRange:   []models.RangeToken{"not_a_real_token"},
		Grouping:    models.GroupNone,
	}
	_, err := Compile(ir, fixedNow)
	if err == nil {
		t.Fatal("expected validation error for an unrecognized range token")
	}
}

func TestCompile_TimeContextOverridesRangeToken(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	ir := models.SemanticIR{
		Entity:      models.NewEntity("temperature"),
		Aggregation: models.AggAverage,
		TimeRange:   []models.RangeToken{"last_24_hours"},
		Grouping:    models.GroupNone,
		TimeContext: &models.TimeContext{Start: start, End: end, Interval: models.IntervalDay},
	}
	got, err := Compile(ir, fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	args := got.Args
	if len(args) != 3 {
		t.Fatalf("Args = %v", args)
	}
}
