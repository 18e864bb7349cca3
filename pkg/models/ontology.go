package models

// SensorDescriptor is an entry in the Ontology Registry.
type SensorDescriptor struct {
	Type        string              `yaml:"type" json:"type"`
	Synonyms    map[string][]string `yaml:"synonyms" json:"synonyms"`
	Unit        string              `yaml:"unit" json:"unit"`
	Range       Range               `yaml:"range" json:"range"`
	Description string              `yaml:"description" json:"description"`
}

// MappingType categorizes how a phrase was resolved to a canonical sensor type.
type MappingType string

const (
	MappingExact        MappingType = "exact"
	MappingPartial      MappingType = "partial"
	MappingContext      MappingType = "context"
	MappingHeuristic    MappingType = "heuristic"
	MappingFeatureBias  MappingType = "feature_bias"
	MappingLLM          MappingType = "llm"
	MappingFallback     MappingType = "fallback"
)

// SynonymMatch is the result of a single lookup_synonym call.
type SynonymMatch struct {
	Type       string
	MappingT   MappingType
	Confidence float64
}
