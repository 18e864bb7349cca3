package semantic

import (
	"context"
	"testing"
	"time"

	"github.com/haasonsaas/agrisense/internal/ontology"
	"github.com/haasonsaas/agrisense/pkg/models"
)

func testTranslatorRegistry() *ontology.Registry {
	return ontology.NewRegistry([]models.SensorDescriptor{
		{
			Type: "temperature", Unit: "°C",
			Range:    models.Range{Min: -50, Max: 70, Avg: 21},
			Synonyms: map[string][]string{"en": {"temperature", "temp"}, "fa": {"دما"}},
		},
		{
			Type: "soil_moisture", Unit: "%",
			Range:    models.Range{Min: 0, Max: 100, Avg: 40},
			Synonyms: map[string][]string{"en": {"soil moisture"}, "fa": {"رطوبت خاک"}},
		},
		{
			Type: "water_usage", Unit: "L",
			Range:    models.Range{Min: 0, Max: 10000, Avg: 500},
			Synonyms: map[string][]string{"en": {"water usage"}, "fa": {"مصرف آب"}},
		},
		{
			Type: "humidity", Unit: "%",
			Range:    models.Range{Min: 0, Max: 100, Avg: 50},
			Synonyms: map[string][]string{"en": {"humidity"}, "fa": {"رطوبت"}},
		},
	})
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTranslator_CurrentValueQuery(t *testing.T) {
	tr := New(testTranslatorRegistry(), WithNow(fixedClock(time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC))))

	ir, err := tr.Translate(context.Background(), "what is the current soil moisture", ComparisonHint{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ir.Entity.First() != "soil_moisture" {
		t.Errorf("Entity = %v, want soil_moisture", ir.Entity)
	}
	if ir.Aggregation != models.AggCurrent {
		t.Errorf("Aggregation = %v, want current", ir.Aggregation)
	}
	if ir.Comparison {
		t.Error("Comparison should be false")
	}
	if ir.FallbackReason != "" {
		t.Errorf("unexpected fallback: %v", ir.FallbackReason)
	}
}

func TestTranslator_AverageWithGrouping(t *testing.T) {
	tr := New(testTranslatorRegistry(), WithNow(fixedClock(time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC))))

	ir, err := tr.Translate(context.Background(), "average temperature last 7 days", ComparisonHint{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ir.Aggregation != models.AggAverage {
		t.Errorf("Aggregation = %v, want average", ir.Aggregation)
	}
	if ir.Grouping != models.GroupDay {
		t.Errorf("Grouping = %v, want by_day", ir.Grouping)
	}
	if len(ir.TimeRange) != 1 || ir.TimeRange[0] != "last_7_days" {
		t.Errorf("TimeRange = %v", ir.TimeRange)
	}
}

func TestTranslator_ComparisonQuery(t *testing.T) {
	tr := New(testTranslatorRegistry(), WithNow(fixedClock(time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC))))

	ir, err := tr.Translate(context.Background(), "compare temperature this week vs last week", ComparisonHint{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ir.Comparison {
		t.Error("Comparison should be true")
	}
	if len(ir.TimeRange) != 2 {
		t.Fatalf("TimeRange = %v, want length 2", ir.TimeRange)
	}
	if ir.TimeRange[0] != "this_week" || ir.TimeRange[1] != "last_week" {
		t.Errorf("TimeRange = %v", ir.TimeRange)
	}
	if ir.Format != models.FormatComparison {
		t.Errorf("Format = %v, want comparison", ir.Format)
	}
}

func TestTranslator_CompoundEntityFromContextGroup(t *testing.T) {
	tr := New(testTranslatorRegistry(), WithNow(fixedClock(time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC))))

	ir, err := tr.Translate(context.Background(), "soil and water levels today", ComparisonHint{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ir.Entity.Types) < 2 {
		t.Errorf("Entity = %v, want a compound set", ir.Entity)
	}
}

func TestTranslator_PersianQueryTranslatedAndMapped(t *testing.T) {
	tr := New(testTranslatorRegistry(), WithNow(fixedClock(time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC))))

	ir, err := tr.Translate(context.Background(), "رطوبت خاک امروز", ComparisonHint{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ir.Entity.First() != "soil_moisture" {
		t.Errorf("Entity = %v, want soil_moisture", ir.Entity)
	}
	if len(ir.TimeRange) != 1 || ir.TimeRange[0] != "today" {
		t.Errorf("TimeRange = %v, want [today]", ir.TimeRange)
	}
}

func TestTranslator_EmptyQueryIsBadRequest(t *testing.T) {
	tr := New(testTranslatorRegistry())
	_, err := tr.Translate(context.Background(), "   ", ComparisonHint{})
	if err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestTranslator_UnknownEntityDefaultsToTemperature(t *testing.T) {
	tr := New(testTranslatorRegistry())
	ir, err := tr.Translate(context.Background(), "xyzzy plugh quux", ComparisonHint{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ir.Entity.First() != "temperature" {
		t.Errorf("Entity = %v, want temperature default", ir.Entity)
	}
}

func TestTranslator_ComparisonHintForcesComparisonFormat(t *testing.T) {
	tr := New(testTranslatorRegistry(), WithNow(fixedClock(time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC))))

	ir, err := tr.Translate(context.Background(), "temperature and humidity today", ComparisonHint{Forced: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ir.Comparison {
		t.Error("Comparison should be true when hint.Forced")
	}
}
