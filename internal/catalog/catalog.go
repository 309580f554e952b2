// Package catalog provides the destination catalog: the built-in table and
// an optional YAML override read once at startup.
package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/HammerMeetNail/planwise/internal/models"
	"github.com/HammerMeetNail/planwise/internal/validation"
)

var ErrInvalidCatalog = errors.New("invalid catalog")

var defaultCategories = []models.Category{
	{
		Key:          "hill_stations",
		Destinations: []string{"Kashmir (IN)", "Manali (IN)", "Shimla (IN)", "Dehradun (IN)", "Coorg (IN)", "Munnar (IN)"},
		BestMonths:   []int{4, 5, 6, 7, 8, 9},
		Climate:      "cool",
		DurationFit:  models.DurationFit{Short: 8, Medium: 9, Long: 10},
		Reasoning:    "Perfect weather to escape summer heat, ideal for {duration} trips",
		Advice:       "Great for summer months (Apr-Sep), might be cold in winter",
	},
	{
		Key:          "beaches",
		Destinations: []string{"Goa (IN)", "Kerala (IN)", "Andaman (IN)", "Puducherry (IN)"},
		BestMonths:   []int{10, 11, 12, 1, 2, 3},
		Climate:      "tropical",
		DurationFit:  models.DurationFit{Short: 9, Medium: 10, Long: 9},
		Reasoning:    "Cool and dry season, best time for coastal destinations",
		Advice:       "Perfect in winter (Oct-Mar), avoid monsoon season",
	},
	{
		Key:          "desert_heritage",
		Destinations: []string{"Rajasthan (IN)", "Agra (IN)", "Delhi (IN)", "Jaipur (IN)"},
		BestMonths:   []int{11, 12, 1, 2},
		Climate:      "arid",
		DurationFit:  models.DurationFit{Short: 7, Medium: 9, Long: 8},
		Reasoning:    "Pleasant temperatures for sightseeing and heritage exploration",
		Advice:       "Best in winter (Nov-Feb), too hot in summer",
	},
	{
		Key:          "adventure",
		Destinations: []string{"Leh Ladakh (IN)", "Spiti Valley (IN)"},
		BestMonths:   []int{5, 6, 7, 8, 9},
		Climate:      "mountain",
		DurationFit:  models.DurationFit{Short: 6, Medium: 8, Long: 10},
		Reasoning:    "Clear skies and accessible routes for adventure activities",
		Advice:       "Ideal in summer/post-monsoon (May-Sep), weather dependent",
	},
	{
		Key:          "international",
		Destinations: []string{"Singapore", "Dubai", "Thailand", "NYC (US)", "Toronto (CA)", "Atlanta (US)", "London (UK)"},
		BestMonths:   []int{1, 2, 3, 4, 5, 10, 11, 12},
		Climate:      "varied",
		DurationFit:  models.DurationFit{Short: 7, Medium: 9, Long: 10},
		Reasoning:    "Good weather window and reasonable flight prices",
		Advice:       "Year-round options, check specific destination weather",
	},
}

// Default returns the built-in catalog.
func Default() *models.Catalog {
	return models.NewCatalog(defaultCategories)
}

type document struct {
	Categories []models.Category `yaml:"categories" validate:"required,min=1,dive"`
}

// Load reads a YAML catalog document.
func Load(r io.Reader) (*models.Catalog, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decoding yaml: %v", ErrInvalidCatalog, err)
	}
	if err := Validate(doc.Categories); err != nil {
		return nil, err
	}
	return models.NewCatalog(doc.Categories), nil
}

// LoadFile reads a YAML catalog from path.
func LoadFile(path string) (*models.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()

	cat, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("loading catalog %s: %w", path, err)
	}
	return cat, nil
}

// FromPath returns the built-in catalog when path is empty.
func FromPath(path string) (*models.Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// Validate checks field rules and that keys and destinations are unique
// across the whole catalog.
func Validate(categories []models.Category) error {
	if err := validation.Struct(&document{Categories: categories}); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	keys := make(map[string]bool, len(categories))
	owner := make(map[string]string)
	for _, c := range categories {
		if keys[c.Key] {
			return fmt.Errorf("%w: duplicate category key %q", ErrInvalidCatalog, c.Key)
		}
		keys[c.Key] = true

		for _, d := range c.Destinations {
			if prev, ok := owner[d]; ok {
				return fmt.Errorf("%w: destination %q listed in both %q and %q", ErrInvalidCatalog, d, prev, c.Key)
			}
			owner[d] = c.Key
		}
	}
	return nil
}
