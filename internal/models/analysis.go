package models

type VacationAnalysis struct {
	StartDate        string           `json:"start_date"`
	EndDate          string           `json:"end_date"`
	Duration         int              `json:"duration"`
	DurationCategory DurationCategory `json:"duration_category"`
	Season           string           `json:"season"`
	Month            int              `json:"month"`
}

type Recommendation struct {
	Destination  string  `json:"destination"`
	Category     string  `json:"category"`
	Score        float64 `json:"score"`
	Reasoning    string  `json:"reasoning"`
	Climate      string  `json:"climate"`
	SameCategory bool    `json:"same_category"`
}

const (
	VerdictExcellent = "Excellent choice!"
	VerdictGood      = "Good choice, but consider alternatives"
	VerdictPoor      = "Consider other destinations for better experience"

	UnknownDestinationAnalysis       = "Unknown destination"
	UnknownDestinationRecommendation = "Consider researching seasonal weather patterns"
	UnknownDestinationScore          = 5.0
)

// CurrentDestinationAnalysis evaluates the destination the user already
// picked. Unknown destinations carry Recommendation instead of Category and
// Verdict.
type CurrentDestinationAnalysis struct {
	Destination    string  `json:"destination"`
	Category       string  `json:"category,omitempty"`
	Score          float64 `json:"score"`
	Verdict        string  `json:"verdict,omitempty"`
	Analysis       string  `json:"analysis"`
	Recommendation string  `json:"recommendation,omitempty"`
}

// Known reports whether the destination matched a catalog entry.
func (a *CurrentDestinationAnalysis) Known() bool {
	return a != nil && a.Category != ""
}

type Insights struct {
	SeasonInsight     string          `json:"season_insight"`
	DurationInsight   string          `json:"duration_insight"`
	TopRecommendation *Recommendation `json:"top_recommendation"`
	WeatherTip        string          `json:"weather_tip"`
	SmartSuggestion   string          `json:"smart_suggestion"`
}

type AnalysisResult struct {
	VacationAnalysis           VacationAnalysis            `json:"vacation_analysis"`
	DestinationRecommendations []Recommendation            `json:"destination_recommendations"`
	CurrentDestinationAnalysis *CurrentDestinationAnalysis `json:"current_destination_analysis"`
	AIInsights                 Insights                    `json:"ai_insights"`
}

// ErrorResult is the whole structured output when an analysis fails.
type ErrorResult struct {
	Error string `json:"error"`
}
