package ontology

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/haasonsaas/agrisense/pkg/models"
)

//go:embed seed.yaml
var seedYAML []byte

type seedFile struct {
	Sensors []models.SensorDescriptor `yaml:"sensors"`
}

// loadSeed decodes the embedded catalog. Panics on malformed embedded YAML
// since that indicates a build-time defect, not a runtime condition.
func loadSeed() []models.SensorDescriptor {
	var f seedFile
	if err := yaml.Unmarshal(seedYAML, &f); err != nil {
		panic(fmt.Sprintf("ontology: embedded seed.yaml is invalid: %v", err))
	}
	return f.Sensors
}

// LoadFromFile builds a Registry from a catalog file on disk, in the same
// `sensors:` shape as the embedded seed.yaml. A deployment uses this to
// override or extend the default catalog without a rebuild.
func LoadFromFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ontology: reading catalog %s: %w", path, err)
	}
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("ontology: parsing catalog %s: %w", path, err)
	}
	return NewRegistry(f.Sensors), nil
}
