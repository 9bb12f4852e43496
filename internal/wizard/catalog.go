package wizard

import (
	_ "embed"
	"fmt"

	"github.com/riordanpawley/vantage/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed questionnaire.yaml
var questionnaireYAML []byte

type catalogFile struct {
	Categories []domain.Category `yaml:"categories"`
}

// DefaultCategories returns the built-in questionnaire
func DefaultCategories() []domain.Category {
	cats, err := ParseCatalog(questionnaireYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded questionnaire: %v", err))
	}
	return cats
}

// ParseCatalog decodes and validates a YAML questionnaire
func ParseCatalog(data []byte) ([]domain.Category, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse questionnaire: %w", err)
	}
	if err := ValidateCatalog(f.Categories); err != nil {
		return nil, err
	}
	return f.Categories, nil
}

// ValidateCatalog checks that a catalog can drive the wizard: at least one
// step, unique keys and ids, and at least two options per question.
func ValidateCatalog(cats []domain.Category) error {
	if len(cats) == 0 {
		return fmt.Errorf("questionnaire has no categories")
	}

	keys := make(map[string]bool, len(cats))
	ids := make(map[string]bool)
	for _, c := range cats {
		if c.Key == "" {
			return fmt.Errorf("category %q has no key", c.Name)
		}
		if keys[c.Key] {
			return fmt.Errorf("duplicate category key %q", c.Key)
		}
		keys[c.Key] = true

		for _, q := range c.Questions {
			if q.ID == "" {
				return fmt.Errorf("category %q: question without id", c.Key)
			}
			if ids[q.ID] {
				return fmt.Errorf("duplicate question id %q", q.ID)
			}
			ids[q.ID] = true
			if len(q.Options) < 2 {
				return fmt.Errorf("question %q needs at least two options", q.ID)
			}
		}
	}
	return nil
}
