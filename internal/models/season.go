package models

import "slices"

type Season struct {
	Key             string   `json:"key"`
	Name            string   `json:"name"`
	Months          []int    `json:"months"`
	Characteristics string   `json:"characteristics"`
	Avoid           string   `json:"avoid"`
	IdealFor        []string `json:"ideal_for"`
}

// Seasons covers every month exactly once. Post-Monsoon is the fallback
// bucket.
var Seasons = []Season{
	{
		Key:             "winter",
		Name:            "Winter",
		Months:          []int{12, 1, 2},
		Characteristics: "Cool and dry, perfect for beaches and heritage sites",
		Avoid:           "Hill stations might be too cold",
		IdealFor:        []string{"beaches", "desert_heritage", "international"},
	},
	{
		Key:             "summer",
		Name:            "Summer",
		Months:          []int{3, 4, 5},
		Characteristics: "Hot in plains, perfect for hill stations",
		Avoid:           "Desert areas and plains will be very hot",
		IdealFor:        []string{"hill_stations", "international"},
	},
	{
		Key:             "monsoon",
		Name:            "Monsoon/Post-Monsoon",
		Months:          []int{6, 7, 8, 9},
		Characteristics: "Rainy season, lush greenery, cooler temperatures",
		Avoid:           "Coastal areas might have heavy rains",
		IdealFor:        []string{"hill_stations", "adventure"},
	},
	{
		Key:             "post_monsoon",
		Name:            "Post-Monsoon",
		Months:          []int{10, 11},
		Characteristics: "Pleasant weather begins, transition period",
		Avoid:           "Still humid in some coastal areas",
		IdealFor:        []string{"hill_stations", "beaches"},
	},
}

// SeasonForMonth returns the season containing month (1-12). Anything not
// matched by the first three buckets lands in Post-Monsoon.
func SeasonForMonth(month int) Season {
	for _, s := range Seasons[:len(Seasons)-1] {
		if slices.Contains(s.Months, month) {
			return s
		}
	}
	return Seasons[len(Seasons)-1]
}

func (s Season) IsIdealFor(categoryKey string) bool {
	return slices.Contains(s.IdealFor, categoryKey)
}
