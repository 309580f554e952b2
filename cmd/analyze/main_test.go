package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/HammerMeetNail/planwise/internal/metrics"
	"github.com/HammerMeetNail/planwise/internal/models"
	"github.com/HammerMeetNail/planwise/internal/testutil"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("CATALOG_PATH", "")
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_JSON(t *testing.T) {
	code, out, _ := runCLI(t, "-start-date", "2024-12-20", "-end-date", "2025-01-05")
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d", code)
	}

	var result models.AnalysisResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if result.VacationAnalysis.DurationCategory != models.DurationLong {
		t.Errorf("expected long trip, got %s", result.VacationAnalysis.DurationCategory)
	}

	var got []string
	for _, rec := range result.DestinationRecommendations {
		got = append(got, rec.Destination)
	}
	if strings.Join(got, ",") != "Singapore,Dubai,Goa (IN)" {
		t.Errorf("unexpected recommendations %v", got)
	}
	if result.CurrentDestinationAnalysis != nil {
		t.Errorf("expected null current destination analysis")
	}
}

func TestRun_Summary(t *testing.T) {
	code, out, _ := runCLI(t,
		"-start-date", "2024-01-10",
		"-end-date", "2024-01-12",
		"-current-destination", "Leh Ladakh (IN)",
		"-output", "summary",
	)
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d", code)
	}
	for _, want := range []string{
		"Vacation Analysis for 2024-01-10 to 2024-01-12",
		"Your Choice Analysis: Leh Ladakh (IN)",
		"Score: 4.5/10 - " + models.VerdictPoor,
		"Smart Suggestion:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestRun_InvalidDatesRenderErrorDocument(t *testing.T) {
	code, out, _ := runCLI(t, "-start-date", "2024-06-10", "-end-date", "2024-06-01")
	if code != exitOK {
		t.Fatalf("expected exit 0 for an error document, got %d", code)
	}
	testutil.AssertErrorDocument(t, []byte(out), "precedes")
}

func TestRun_InvalidDatesSummary(t *testing.T) {
	code, out, _ := runCLI(t, "-start-date", "nope", "-end-date", "2024-06-01", "-output", "text")
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.HasPrefix(out, "Error: invalid input") {
		t.Errorf("unexpected summary error %q", out)
	}
}

func TestRun_LeavesMetricsUntouched(t *testing.T) {
	outcomes := []string{metrics.OutcomeOK, metrics.OutcomeInvalid, metrics.OutcomeError}
	before := make(map[string]float64, len(outcomes))
	for _, o := range outcomes {
		before[o] = promtest.ToFloat64(metrics.AnalysesTotal.WithLabelValues("cli", o))
	}

	runCLI(t, "-start-date", "2024-06-01", "-end-date", "2024-06-06")
	runCLI(t, "-start-date", "2024-06-10", "-end-date", "2024-06-01")

	for _, o := range outcomes {
		if got := promtest.ToFloat64(metrics.AnalysesTotal.WithLabelValues("cli", o)); got != before[o] {
			t.Errorf("expected %s analyses to stay at %v, got %v", o, before[o], got)
		}
	}
}

func TestRun_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing dates", nil},
		{"missing end", []string{"-start-date", "2024-06-01"}},
		{"unknown flag", []string{"-start", "2024-06-01"}},
		{"bad format", []string{"-start-date", "2024-06-01", "-end-date", "2024-06-02", "-output", "xml"}},
		{"negative boost", []string{"-start-date", "2024-06-01", "-end-date", "2024-06-02", "-same-category-boost", "-1"}},
		{"stray argument", []string{"-start-date", "2024-06-01", "-end-date", "2024-06-02", "extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out, errOut := runCLI(t, tt.args...)
			if code != exitUsage {
				t.Fatalf("expected exit 2, got %d", code)
			}
			if out != "" {
				t.Errorf("expected nothing on stdout, got %q", out)
			}
			if errOut == "" {
				t.Error("expected a message on stderr")
			}
		})
	}
}

func TestRun_CustomCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	doc := `categories:
  - key: coast
    name: Coast
    destinations: [Lisbon, Porto]
    best_months: [6, 7]
    climate: Mild
    duration_fit: {short: 8, medium: 8, long: 8}
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("writing catalog: %v", err)
	}

	code, out, _ := runCLI(t, "-catalog", path, "-start-date", "2024-07-01", "-end-date", "2024-07-03")
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(out, `"Lisbon"`) {
		t.Errorf("expected custom catalog destination in output:\n%s", out)
	}
}

func TestRun_MissingCatalog(t *testing.T) {
	code, out, _ := runCLI(t, "-catalog", filepath.Join(t.TempDir(), "missing.yaml"), "-start-date", "2024-07-01", "-end-date", "2024-07-03")
	if code != exitFailure {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(out, `"error"`) {
		t.Errorf("expected error document, got %q", out)
	}
}
