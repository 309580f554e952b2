package models

import (
	"slices"
	"strings"
)

type DurationCategory string

const (
	DurationShort  DurationCategory = "short"
	DurationMedium DurationCategory = "medium"
	DurationLong   DurationCategory = "long"
)

const (
	ShortTripMaxDays  = 5
	MediumTripMaxDays = 10
)

// ClassifyDuration buckets a trip length in days. Non-positive lengths fall
// into the short bucket.
func ClassifyDuration(days int) DurationCategory {
	switch {
	case days <= ShortTripMaxDays:
		return DurationShort
	case days <= MediumTripMaxDays:
		return DurationMedium
	default:
		return DurationLong
	}
}

// Title returns the capitalized form used in insight text ("Short").
func (d DurationCategory) Title() string {
	if d == "" {
		return ""
	}
	return strings.ToUpper(string(d[:1])) + string(d[1:])
}

// DurationFit scores how well a category suits each trip length (0-10).
type DurationFit struct {
	Short  int `json:"short" yaml:"short" validate:"min=0,max=10"`
	Medium int `json:"medium" yaml:"medium" validate:"min=0,max=10"`
	Long   int `json:"long" yaml:"long" validate:"min=0,max=10"`
}

func (f DurationFit) For(d DurationCategory) int {
	switch d {
	case DurationShort:
		return f.Short
	case DurationMedium:
		return f.Medium
	default:
		return f.Long
	}
}

// Category is a themed group of destinations sharing a climate and a
// seasonal profile.
type Category struct {
	Key          string      `json:"key" yaml:"key" validate:"required"`
	Name         string      `json:"name" yaml:"name"`
	Destinations []string    `json:"destinations" yaml:"destinations" validate:"required,min=1,dive,required"`
	BestMonths   []int       `json:"best_months" yaml:"best_months" validate:"dive,min=1,max=12"`
	Climate      string      `json:"climate" yaml:"climate" validate:"required"`
	DurationFit  DurationFit `json:"duration_fit" yaml:"duration_fit"`
	// Reasoning may contain the {duration} placeholder.
	Reasoning string `json:"reasoning" yaml:"reasoning"`
	Advice    string `json:"advice" yaml:"advice"`
}

const DefaultReasoning = "Suitable for your travel dates"
const DefaultAdvice = "Check local weather patterns for optimal experience"

func (c *Category) IsBestMonth(month int) bool {
	return slices.Contains(c.BestMonths, month)
}

func (c *Category) Contains(destination string) bool {
	return slices.Contains(c.Destinations, destination)
}

// ReasoningFor renders the recommendation reasoning for a trip length.
func (c *Category) ReasoningFor(d DurationCategory) string {
	if c.Reasoning == "" {
		return DefaultReasoning
	}
	return strings.ReplaceAll(c.Reasoning, "{duration}", string(d))
}

func (c *Category) SeasonalAdvice() string {
	if c.Advice == "" {
		return DefaultAdvice
	}
	return c.Advice
}

func (c Category) clone() Category {
	c.Destinations = slices.Clone(c.Destinations)
	c.BestMonths = slices.Clone(c.BestMonths)
	return c
}

// DisplayName turns a category key into its display form:
// "desert_heritage" becomes "Desert Heritage".
func DisplayName(key string) string {
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// Catalog is an ordered, read-only set of categories. Order matters: it
// decides lookup precedence and ranking ties.
type Catalog struct {
	categories []Category
}

// NewCatalog copies the given categories so later changes by the caller do
// not leak into the catalog. Missing display names are derived from keys.
func NewCatalog(categories []Category) *Catalog {
	cs := make([]Category, len(categories))
	for i, c := range categories {
		cs[i] = c.clone()
		if cs[i].Name == "" {
			cs[i].Name = DisplayName(cs[i].Key)
		}
	}
	return &Catalog{categories: cs}
}

// Categories returns a copy of the categories in catalog order.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	for i, cat := range c.categories {
		out[i] = cat.clone()
	}
	return out
}

func (c *Catalog) Len() int {
	return len(c.categories)
}

// Lookup finds the first category listing the destination (exact match).
func (c *Catalog) Lookup(destination string) (Category, bool) {
	for _, cat := range c.categories {
		if cat.Contains(destination) {
			return cat.clone(), true
		}
	}
	return Category{}, false
}

// ByKey finds a category by its key.
func (c *Catalog) ByKey(key string) (Category, bool) {
	for _, cat := range c.categories {
		if cat.Key == key {
			return cat.clone(), true
		}
	}
	return Category{}, false
}
