// Package categories loads the global category seed applied at startup.
package categories

import (
	"fmt"
	"os"

	"github.com/brightfeed/brightfeed/internal/domain"
	"gopkg.in/yaml.v3"
)

type seedFile struct {
	Categories []seedCategory `yaml:"categories"`
}

type seedCategory struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
}

// LoadSeed reads the global category set from a YAML file.
func LoadSeed(path string) ([]domain.Category, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read category seed: %w", err)
	}

	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse category seed: %w", err)
	}

	seed := make([]domain.Category, 0, len(file.Categories))
	for i, c := range file.Categories {
		if c.Label == "" || c.Value == "" {
			return nil, fmt.Errorf("category seed entry %d is missing label or value", i)
		}
		seed = append(seed, domain.Category{Label: c.Label, Value: c.Value})
	}

	if len(seed) == 0 {
		return nil, fmt.Errorf("category seed %q contains no categories", path)
	}
	return seed, nil
}

// DefaultSeed is the built-in global category set used when no seed file is
// configured.
func DefaultSeed() []domain.Category {
	return []domain.Category{
		{Label: "Generale", Value: "general"},
		{Label: "Scienza", Value: "science"},
		{Label: "Ambiente", Value: "environment"},
		{Label: "Salute", Value: "health"},
		{Label: "Cultura", Value: "culture"},
		{Label: "Sport", Value: "sport"},
	}
}
