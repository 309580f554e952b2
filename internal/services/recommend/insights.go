package recommend

import (
	"fmt"
	"strings"

	"github.com/HammerMeetNail/planwise/internal/models"
)

const noRecommendationSuggestion = "Consider researching destination weather patterns for your travel dates"

func buildInsights(season models.Season, d models.DurationCategory, recs []models.Recommendation, current *models.CurrentDestinationAnalysis) models.Insights {
	insights := models.Insights{
		SeasonInsight:   fmt.Sprintf("%s season: %s", season.Name, season.Characteristics),
		DurationInsight: durationInsight(d),
		WeatherTip:      season.Avoid,
		SmartSuggestion: smartSuggestion(recs, current),
	}
	if len(recs) > 0 {
		top := recs[0]
		insights.TopRecommendation = &top
	}
	return insights
}

func durationInsight(d models.DurationCategory) string {
	purpose := "balanced vacation"
	switch d {
	case models.DurationShort:
		purpose = "quick getaways"
	case models.DurationLong:
		purpose = "comprehensive exploration"
	}
	return fmt.Sprintf("%s trip (%s) - good for %s", d.Title(), d, purpose)
}

// smartSuggestion picks a message from the current choice's score band and
// whether the top pick shares its category. An unknown destination scores 5,
// which falls in the lowest band.
func smartSuggestion(recs []models.Recommendation, current *models.CurrentDestinationAnalysis) string {
	if len(recs) == 0 {
		return noRecommendationSuggestion
	}
	top := recs[0]

	switch {
	case current != nil && current.Score >= 8:
		if top.SameCategory {
			return fmt.Sprintf("Great choice! Also consider %s in the same category.", top.Destination)
		}
		return fmt.Sprintf("Your choice looks great! %s is also excellent for similar reasons.", top.Destination)
	case current != nil && current.Score < 6:
		if top.SameCategory {
			return fmt.Sprintf("Consider %s instead for better timing in the same category.", top.Destination)
		}
		return fmt.Sprintf("Consider %s instead - %s", top.Destination, top.Reasoning)
	default:
		if top.SameCategory {
			return fmt.Sprintf("Also check %s - similar option with %s", top.Destination, strings.ToLower(top.Reasoning))
		}
		return fmt.Sprintf("Perfect timing for %s - %s", top.Destination, top.Reasoning)
	}
}
