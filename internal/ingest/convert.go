package ingest

import "math"

type unitConversion struct {
	from, to string
	convert  func(float64) float64
}

// conversions is the fixed table of unit conversions to canonical units.
var conversions = []unitConversion{
	{"°F", "°C", func(v float64) float64 { return (v - 32) * 5 / 9 }},
	{"F", "°C", func(v float64) float64 { return (v - 32) * 5 / 9 }},
	{"K", "°C", func(v float64) float64 { return v - 273.15 }},
	{"Pa", "hPa", func(v float64) float64 { return v / 100 }},
	{"bar", "hPa", func(v float64) float64 { return v * 1000 }},
	{"km/h", "m/s", func(v float64) float64 { return v / 3.6 }},
	{"mph", "m/s", func(v float64) float64 { return v * 0.44704 }},
	{"in", "cm", func(v float64) float64 { return v * 2.54 }},
	{"inches", "cm", func(v float64) float64 { return v * 2.54 }},
	{"gal", "L", func(v float64) float64 { return v * 3.78541 }},
	{"gallons", "L", func(v float64) float64 { return v * 3.78541 }},
	{"lbs", "kg", func(v float64) float64 { return v * 0.453592 }},
	{"lb", "kg", func(v float64) float64 { return v * 0.453592 }},
	{"W", "kWh", func(v float64) float64 { return v / 1000 }},
}

// ConvertToCanonical converts value from fromUnit to canonicalUnit. ok is
// true when fromUnit already equals canonicalUnit (no-op) or a known
// conversion exists; false when the unit pair is unrecognized.
func ConvertToCanonical(value float64, fromUnit, canonicalUnit string) (converted float64, ok bool) {
	if fromUnit == canonicalUnit {
		return value, true
	}
	for _, c := range conversions {
		if c.from == fromUnit && c.to == canonicalUnit {
			return c.convert(value), true
		}
	}
	return value, false
}

// roundTwoDecimals rounds v to two fractional digits, per the normalization
// contract applied after unit conversion.
func roundTwoDecimals(v float64) float64 {
	return math.Round(v*100) / 100
}
