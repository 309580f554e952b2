// Package recommend scores catalog destinations against trip dates.
//
// The engine is a pure function of its inputs and the catalog it was built
// with: no I/O, no shared mutable state, safe for concurrent use.
package recommend

import (
	"errors"
	"fmt"
	"sort"

	"github.com/HammerMeetNail/planwise/internal/models"
)

// ErrInvalidInput is returned for malformed or inverted dates. It is the only
// error Analyze produces.
var ErrInvalidInput = errors.New("invalid input")

const (
	bestMonthScore = 10
	// A candidate merely out of season is penalized less than the user's own
	// choice being out of season.
	offMonthCandidateScore = 5
	offMonthChoiceScore    = 3

	seasonalBoost         = 1.0
	candidatesPerCategory = 2
	MaxRecommendations    = 3
)

// Trip is the parsed form of a date range.
type Trip struct {
	Start            models.Date
	End              models.Date
	Duration         int
	DurationCategory models.DurationCategory
}

// ParseTrip parses both dates and derives the inclusive duration. An end
// date before the start date is rejected.
func ParseTrip(startDate, endDate string) (Trip, error) {
	start, err := models.ParseDate(startDate)
	if err != nil {
		return Trip{}, fmt.Errorf("%w: start_date %q is not a valid YYYY-MM-DD date", ErrInvalidInput, startDate)
	}
	end, err := models.ParseDate(endDate)
	if err != nil {
		return Trip{}, fmt.Errorf("%w: end_date %q is not a valid YYYY-MM-DD date", ErrInvalidInput, endDate)
	}
	if end.Before(start.Time) {
		return Trip{}, fmt.Errorf("%w: end_date %s precedes start_date %s", ErrInvalidInput, endDate, startDate)
	}

	days := start.DaysUntil(end)
	return Trip{
		Start:            start,
		End:              end,
		Duration:         days,
		DurationCategory: models.ClassifyDuration(days),
	}, nil
}

func (t Trip) Month() int {
	return int(t.Start.Month())
}

type Engine struct {
	catalog           *models.Catalog
	sameCategoryBoost float64
}

type Option func(*Engine)

// WithSameCategoryBoost adds a bonus to candidates that share the current
// destination's category. Zero disables it.
func WithSameCategoryBoost(boost float64) Option {
	return func(e *Engine) {
		e.sameCategoryBoost = boost
	}
}

func NewEngine(catalog *models.Catalog, opts ...Option) *Engine {
	e := &Engine{catalog: catalog}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Catalog() *models.Catalog {
	return e.catalog
}

// Analyze scores the catalog for the given dates. currentDestination is
// optional; an empty string means none was supplied.
func (e *Engine) Analyze(startDate, endDate, currentDestination string) (*models.AnalysisResult, error) {
	trip, err := ParseTrip(startDate, endDate)
	if err != nil {
		return nil, err
	}

	month := trip.Month()
	season := models.SeasonForMonth(month)

	var current *models.CurrentDestinationAnalysis
	currentKey := ""
	if currentDestination != "" {
		current = e.evaluateChoice(currentDestination, month, trip.DurationCategory)
		if cat, ok := e.catalog.Lookup(currentDestination); ok {
			currentKey = cat.Key
		}
	}

	recs := e.rankCandidates(month, trip.DurationCategory, season, currentDestination, currentKey)

	return &models.AnalysisResult{
		VacationAnalysis: models.VacationAnalysis{
			StartDate:        startDate,
			EndDate:          endDate,
			Duration:         trip.Duration,
			DurationCategory: trip.DurationCategory,
			Season:           season.Name,
			Month:            month,
		},
		DestinationRecommendations: recs,
		CurrentDestinationAnalysis: current,
		AIInsights:                 buildInsights(season, trip.DurationCategory, recs, current),
	}, nil
}

func categoryScore(c *models.Category, month int, d models.DurationCategory, offMonth int) float64 {
	monthScore := offMonth
	if c.IsBestMonth(month) {
		monthScore = bestMonthScore
	}
	return float64(monthScore+c.DurationFit.For(d)) / 2
}

func (e *Engine) rankCandidates(month int, d models.DurationCategory, season models.Season, currentDestination, currentKey string) []models.Recommendation {
	recs := make([]models.Recommendation, 0, e.catalog.Len()*candidatesPerCategory)

	for _, c := range e.catalog.Categories() {
		score := categoryScore(&c, month, d, offMonthCandidateScore)
		if season.IsIdealFor(c.Key) {
			score += seasonalBoost
		}
		same := currentKey != "" && c.Key == currentKey
		if same {
			score += e.sameCategoryBoost
		}

		taken := 0
		for _, dest := range c.Destinations {
			if taken == candidatesPerCategory {
				break
			}
			if dest == currentDestination {
				continue
			}
			recs = append(recs, models.Recommendation{
				Destination:  dest,
				Category:     c.Name,
				Score:        score,
				Reasoning:    c.ReasoningFor(d),
				Climate:      c.Climate,
				SameCategory: same,
			})
			taken++
		}
	}

	// Stable: ties keep category order, then list order.
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})
	if len(recs) > MaxRecommendations {
		recs = recs[:MaxRecommendations]
	}
	return recs
}

func (e *Engine) evaluateChoice(destination string, month int, d models.DurationCategory) *models.CurrentDestinationAnalysis {
	c, ok := e.catalog.Lookup(destination)
	if !ok {
		return &models.CurrentDestinationAnalysis{
			Destination:    destination,
			Analysis:       models.UnknownDestinationAnalysis,
			Score:          models.UnknownDestinationScore,
			Recommendation: models.UnknownDestinationRecommendation,
		}
	}

	score := categoryScore(&c, month, d, offMonthChoiceScore)
	return &models.CurrentDestinationAnalysis{
		Destination: destination,
		Category:    c.Name,
		Score:       score,
		Verdict:     verdict(score),
		Analysis:    c.SeasonalAdvice(),
	}
}

func verdict(score float64) string {
	switch {
	case score >= 8:
		return models.VerdictExcellent
	case score >= 6:
		return models.VerdictGood
	default:
		return models.VerdictPoor
	}
}
