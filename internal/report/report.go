// Package report renders analysis results as JSON documents or plain text.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"

	"github.com/HammerMeetNail/planwise/internal/models"
)

type Format string

const (
	FormatJSON    Format = "json"
	FormatSummary Format = "summary"
)

var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat accepts "json", "summary" and its alias "text". Empty means
// json.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "summary", "text":
		return FormatSummary, nil
	default:
		return "", fmt.Errorf("%w %q: expected json or summary", ErrUnknownFormat, s)
	}
}

// Structured renders the result document, indented with two spaces.
func Structured(result *models.AnalysisResult) ([]byte, error) {
	return json.MarshalIndent(result, "", "  ")
}

// ErrorDocument renders exactly {"error": "<message>"}.
func ErrorDocument(err error) []byte {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	data, mErr := json.MarshalIndent(models.ErrorResult{Error: msg}, "", "  ")
	if mErr != nil {
		return []byte(`{"error": "internal error"}`)
	}
	return data
}

// Text renders the human-readable summary.
func Text(result *models.AnalysisResult) string {
	var b strings.Builder
	va := result.VacationAnalysis

	fmt.Fprintf(&b, "Vacation Analysis for %s to %s\n", va.StartDate, va.EndDate)
	fmt.Fprintf(&b, "Duration: %d days (%s trip)\n", va.Duration, va.DurationCategory)
	fmt.Fprintf(&b, "Season: %s\n", va.Season)

	insights := result.AIInsights
	b.WriteString("\nInsights:\n")
	fmt.Fprintf(&b, "- %s\n", insights.SeasonInsight)
	fmt.Fprintf(&b, "- %s\n", insights.DurationInsight)
	if insights.WeatherTip != "" {
		fmt.Fprintf(&b, "- Watch out: %s\n", insights.WeatherTip)
	}

	if len(result.DestinationRecommendations) > 0 {
		b.WriteString("\nTop Recommendations:\n")
		for i, rec := range result.DestinationRecommendations {
			fmt.Fprintf(&b, "%d. %s (Score: %.1f)\n", i+1, rec.Destination, rec.Score)
			fmt.Fprintf(&b, "   %s\n", rec.Reasoning)
		}
	}

	if cur := result.CurrentDestinationAnalysis; cur != nil {
		fmt.Fprintf(&b, "\nYour Choice Analysis: %s\n", cur.Destination)
		if cur.Known() {
			fmt.Fprintf(&b, "Score: %.1f/10 - %s\n", cur.Score, cur.Verdict)
			fmt.Fprintf(&b, "%s\n", cur.Analysis)
		} else {
			fmt.Fprintf(&b, "Score: %.1f/10 - %s\n", cur.Score, cur.Analysis)
			fmt.Fprintf(&b, "%s\n", cur.Recommendation)
		}
	}

	fmt.Fprintf(&b, "\nSmart Suggestion: %s\n", insights.SmartSuggestion)
	return b.String()
}

// TextError renders a failure for the summary format.
func TextError(err error) string {
	return fmt.Sprintf("Error: %s\n", err)
}

// ErrAnalysisPanic wraps a panic recovered by Safe.
var ErrAnalysisPanic = errors.New("analysis failed unexpectedly")

// Safe runs fn and turns a panic into an error, so a caller always gets
// either a result or an error.
func Safe(fn func() (*models.AnalysisResult, error)) (result *models.AnalysisResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: %v", ErrAnalysisPanic, r)
		}
	}()
	return fn()
}

// Write renders a result or an error in the given format. Errors are
// rendered as documents, never returned; the returned error is only for
// write failures.
func Write(w io.Writer, format Format, result *models.AnalysisResult, analysisErr error) error {
	var out []byte
	switch {
	case analysisErr != nil && format == FormatSummary:
		out = []byte(TextError(analysisErr))
	case analysisErr != nil:
		out = append(ErrorDocument(analysisErr), '\n')
	case format == FormatSummary:
		out = []byte(Text(result))
	default:
		data, err := Structured(result)
		if err != nil {
			out = append(ErrorDocument(fmt.Errorf("encoding result: %w", err)), '\n')
		} else {
			out = append(data, '\n')
		}
	}

	_, err := w.Write(out)
	return err
}
