package ingest

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/haasonsaas/agrisense/internal/datetime"
	"github.com/haasonsaas/agrisense/internal/ontology"
	"github.com/haasonsaas/agrisense/pkg/models"
)

const (
	maxMagnitude       = 1e6
	maxFractionDigits  = 10
)

// sensorBounds are sensor-specific plausibility bounds layered on top of
// the Ontology Registry's general plausible_range, expressed in the
// sensor's canonical unit.
var sensorBounds = map[string][2]float64{
	"humidity":      {0, 100},
	"soil_moisture":  {0, 100},
	"soil_ph":        {0, 14},
	"pressure":       {800, 1200},
	"temperature":    {-50, 70},
}

// Validate checks and normalizes a raw reading against the Ontology
// Registry, returning either a ready-to-commit Reading or a Rejection.
func Validate(raw models.RawReading, registry *ontology.Registry, now time.Time) (models.Reading, *Rejection) {
	value, ok := numericValue(raw.Value)
	if !ok {
		return models.Reading{}, &Rejection{Kind: RejectMissingValue, Sensor: raw.Sensor, Reason: "value is missing or non-numeric"}
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return models.Reading{}, &Rejection{Kind: RejectNonFinite, Sensor: raw.Sensor, Reason: "value is not finite"}
	}

	descriptor, ok := registry.Descriptor(raw.Sensor)
	if !ok {
		return models.Reading{}, &Rejection{Kind: RejectUnknownSensor, Sensor: raw.Sensor, Reason: "sensor is not registered in the ontology"}
	}

	converted := value
	if raw.Unit != "" {
		v, convOK := ConvertToCanonical(value, raw.Unit, descriptor.Unit)
		if !convOK {
			return models.Reading{}, &Rejection{Kind: RejectOutOfRange, Sensor: raw.Sensor, Reason: fmt.Sprintf("unrecognized unit %q for canonical unit %q", raw.Unit, descriptor.Unit)}
		}
		converted = v
	}
	converted = roundTwoDecimals(converted)

	if !descriptor.Range.Contains(converted) {
		return models.Reading{}, &Rejection{Kind: RejectOutOfRange, Sensor: raw.Sensor, Reason: fmt.Sprintf("value %v outside plausible range [%v, %v]", converted, descriptor.Range.Min, descriptor.Range.Max)}
	}

	if bounds, special := sensorBounds[raw.Sensor]; special {
		if converted < bounds[0] || converted > bounds[1] {
			return models.Reading{}, &Rejection{Kind: RejectOutOfRange, Sensor: raw.Sensor, Reason: fmt.Sprintf("value %v outside sensor bound [%v, %v]", converted, bounds[0], bounds[1])}
		}
	} else if raw.Sensor == "pest_count" && converted < 0 {
		return models.Reading{}, &Rejection{Kind: RejectOutOfRange, Sensor: raw.Sensor, Reason: "pest_count must be >= 0"}
	}

	if math.Abs(converted) > maxMagnitude {
		return models.Reading{}, &Rejection{Kind: RejectExtremeMagnitude, Sensor: raw.Sensor, Reason: "value magnitude exceeds 1e6"}
	}
	if fractionDigits(value) > maxFractionDigits {
		return models.Reading{}, &Rejection{Kind: RejectExcessPrecision, Sensor: raw.Sensor, Reason: "value has more than 10 fractional digits"}
	}

	tsTime := now.UTC()
	if raw.Timestamp != nil {
		ts := datetime.NormalizeTimestamp(raw.Timestamp)
		if ts == nil {
			return models.Reading{}, &Rejection{Kind: RejectInvalidTimestamp, Sensor: raw.Sensor, Reason: "timestamp is unparseable"}
		}
		tsTime = time.UnixMilli(ts.TimestampMs).UTC()
	}

	source := raw.Source
	if source == "" {
		source = "pipeline"
	}

	return models.Reading{
		Timestamp:  tsTime,
		SensorType: raw.Sensor,
		Value:      converted,
		Unit:       descriptor.Unit,
		Source:     source,
		Raw:        rawBlob(raw),
	}, nil
}

func numericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// fractionDigits counts the number of digits after the decimal point in
// the shortest exact decimal representation of v.
func fractionDigits(v float64) int {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	idx := strings.IndexByte(s, '.')
	if idx < 0 {
		return 0
	}
	return len(s) - idx - 1
}

func rawBlob(raw models.RawReading) string {
	return fmt.Sprintf("sensor=%v value=%v unit=%v timestamp=%v source=%v extras=%v",
		raw.Sensor, raw.Value, raw.Unit, raw.Timestamp, raw.Source, raw.Extras)
}
