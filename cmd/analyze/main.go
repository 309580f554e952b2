// Command analyze scores a trip against the destination catalog and prints
// the result as JSON or a plain-text summary.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/HammerMeetNail/planwise/internal/catalog"
	"github.com/HammerMeetNail/planwise/internal/logging"
	"github.com/HammerMeetNail/planwise/internal/models"
	"github.com/HammerMeetNail/planwise/internal/report"
	"github.com/HammerMeetNail/planwise/internal/services/recommend"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(stderr)
	startDate := fs.String("start-date", "", "trip start date (YYYY-MM-DD)")
	endDate := fs.String("end-date", "", "trip end date (YYYY-MM-DD)")
	current := fs.String("current-destination", "", "destination already chosen, if any")
	output := fs.String("output", string(report.FormatJSON), "output format: json or summary")
	catalogPath := fs.String("catalog", os.Getenv("CATALOG_PATH"), "YAML catalog file; empty uses the built-in catalog")
	boost := fs.Float64("same-category-boost", 0, "score bonus for destinations sharing the current destination's category")
	verbose := fs.Bool("v", false, "log progress to stderr")

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %v\n", fs.Args())
		fs.Usage()
		return exitUsage
	}
	if *startDate == "" || *endDate == "" {
		fmt.Fprintln(stderr, "-start-date and -end-date are required")
		fs.Usage()
		return exitUsage
	}
	format, err := report.ParseFormat(*output)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	if *boost < 0 {
		fmt.Fprintln(stderr, "-same-category-boost must not be negative")
		return exitUsage
	}

	logger := logging.New().SetOutput(stderr).SetFormat(logging.FormatConsole).SetLevel(logging.LevelWarn)
	if *verbose {
		logger.SetLevel(logging.LevelDebug)
	}

	cat, err := catalog.FromPath(*catalogPath)
	if err != nil {
		logger.Error("Catalog could not be loaded", map[string]interface{}{"error": err, "path": *catalogPath})
		_ = report.Write(stdout, format, nil, err)
		return exitFailure
	}
	engine := recommend.NewEngine(cat, recommend.WithSameCategoryBoost(*boost))

	started := time.Now()
	result, analysisErr := report.Safe(func() (*models.AnalysisResult, error) {
		return engine.Analyze(*startDate, *endDate, *current)
	})
	elapsed := time.Since(started)

	switch {
	case analysisErr == nil:
		logger.Debug("Analysis complete", map[string]interface{}{
			"duration_ms":     elapsed.Milliseconds(),
			"recommendations": len(result.DestinationRecommendations),
		})
	case errors.Is(analysisErr, recommend.ErrInvalidInput):
		logger.Debug("Analysis rejected", map[string]interface{}{"error": analysisErr})
	default:
		logger.Error("Analysis failed", map[string]interface{}{"error": analysisErr})
	}

	if err := report.Write(stdout, format, result, analysisErr); err != nil {
		logger.Error("Writing output failed", map[string]interface{}{"error": err})
		return exitFailure
	}
	return exitOK
}
