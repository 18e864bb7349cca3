// Package models holds the data shapes shared across the sensor analytics
// pipeline: readings, the ontology catalog, the semantic IR, alerts, and the
// unified query result.
package models

import "time"

// Reading is a single committed row in the Sensor Store.
type Reading struct {
	ID         int64     `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	SensorType string    `json:"sensor_type"`
	Value      float64   `json:"value"`
	Unit       string    `json:"unit"`
	Source     string    `json:"source"`
	Raw        string    `json:"raw,omitempty"`
}

// RawReading is the unvalidated shape accepted by the Ingestion Pipeline.
type RawReading struct {
	Sensor    string         `json:"sensor"`
	Value     any            `json:"value"`
	Unit      string         `json:"unit"`
	Timestamp any            `json:"timestamp"`
	Source    string         `json:"source,omitempty"`
	Extras    map[string]any `json:"extras,omitempty"`
}

// Range is a plausible value interval with a representative average.
type Range struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
	Avg float64 `yaml:"avg" json:"avg"`
}

// Contains reports whether v falls within [Min, Max] inclusive.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}
