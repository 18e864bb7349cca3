package ingest

import (
	"testing"
	"time"

	"github.com/haasonsaas/agrisense/internal/ontology"
	"github.com/haasonsaas/agrisense/pkg/models"
)

func testRegistry() *ontology.Registry {
	return ontology.NewRegistry([]models.SensorDescriptor{
		{Type: "temperature", Unit: "°C", Range: models.Range{Min: -50, Max: 70, Avg: 21}},
		{Type: "humidity", Unit: "%", Range: models.Range{Min: 0, Max: 100, Avg: 50}},
		{Type: "pest_count", Unit: "count", Range: models.Range{Min: 0, Max: 100, Avg: 1}},
	})
}

func TestValidate_Accepts(t *testing.T) {
	reg := testRegistry()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	reading, rej := Validate(models.RawReading{
		Sensor:    "temperature",
		Value:     98.6,
		Unit:      "°F",
		Timestamp: now,
	}, reg, now)
	if rej != nil {
		t.Fatalf("unexpected rejection: %+v", rej)
	}
	if reading.Value != 37 {
		t.Errorf("Value = %v, want 37 (converted from °F)", reading.Value)
	}
	if reading.Unit != "°C" {
		t.Errorf("Unit = %q, want °C", reading.Unit)
	}
}

func TestValidate_RejectsMissingValue(t *testing.T) {
	reg := testRegistry()
	_, rej := Validate(models.RawReading{Sensor: "temperature", Value: "not-a-number"}, reg, time.Now())
	if rej == nil || rej.Kind != RejectMissingValue {
		t.Fatalf("got %+v", rej)
	}
}

func TestValidate_RejectsNonFinite(t *testing.T) {
	reg := testRegistry()
	_, rej := Validate(models.RawReading{Sensor: "temperature", Value: math_Inf()}, reg, time.Now())
	if rej == nil || rej.Kind != RejectNonFinite {
		t.Fatalf("got %+v", rej)
	}
}

func TestValidate_RejectsUnknownSensor(t *testing.T) {
	reg := testRegistry()
	_, rej := Validate(models.RawReading{Sensor: "unicorn_sightings", Value: 1.0}, reg, time.Now())
	if rej == nil || rej.Kind != RejectUnknownSensor {
		t.Fatalf("got %+v", rej)
	}
}

func TestValidate_RejectsSensorSpecificBounds(t *testing.T) {
	reg := testRegistry()
	_, rej := Validate(models.RawReading{Sensor: "humidity", Value: 150.0, Unit: "%"}, reg, time.Now())
	if rej == nil || rej.Kind != RejectOutOfRange {
		t.Fatalf("got %+v", rej)
	}
}

func TestValidate_RejectsNegativePestCount(t *testing.T) {
	reg := testRegistry()
	_, rej := Validate(models.RawReading{Sensor: "pest_count", Value: -1.0}, reg, time.Now())
	if rej == nil || rej.Kind != RejectOutOfRange {
		t.Fatalf("got %+v", rej)
	}
}

func TestValidate_RejectsExtremeMagnitude(t *testing.T) {
	reg := ontology.NewRegistry([]models.SensorDescriptor{
		{Type: "yield_prediction", Unit: "kg", Range: models.Range{Min: -1e9, Max: 1e9, Avg: 0}},
	})
	_, rej := Validate(models.RawReading{Sensor: "yield_prediction", Value: 2e6}, reg, time.Now())
	if rej == nil || rej.Kind != RejectExtremeMagnitude {
		t.Fatalf("got %+v", rej)
	}
}

func TestValidate_RejectsExcessPrecision(t *testing.T) {
	reg := testRegistry()
	_, rej := Validate(models.RawReading{Sensor: "temperature", Value: 21.12345678901}, reg, time.Now())
	if rej == nil || rej.Kind != RejectExcessPrecision {
		t.Fatalf("got %+v", rej)
	}
}

func TestValidate_RejectsInvalidTimestamp(t *testing.T) {
	reg := testRegistry()
	_, rej := Validate(models.RawReading{Sensor: "temperature", Value: 21.0, Timestamp: "not-a-timestamp"}, reg, time.Now())
	if rej == nil || rej.Kind != RejectInvalidTimestamp {
		t.Fatalf("got %+v", rej)
	}
}

func TestValidate_NaiveTimestampStampedUTC(t *testing.T) {
	reg := testRegistry()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	reading, rej := Validate(models.RawReading{Sensor: "temperature", Value: 21.0, Timestamp: now}, reg, now)
	if rej != nil {
		t.Fatalf("unexpected rejection: %+v", rej)
	}
	if reading.Timestamp.Location() != time.UTC {
		t.Errorf("Timestamp location = %v, want UTC", reading.Timestamp.Location())
	}
}

func math_Inf() float64 {
	var zero float64
	return 1 / zero
}
