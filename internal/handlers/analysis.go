package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/HammerMeetNail/planwise/internal/logging"
	"github.com/HammerMeetNail/planwise/internal/metrics"
	"github.com/HammerMeetNail/planwise/internal/models"
	"github.com/HammerMeetNail/planwise/internal/report"
	"github.com/HammerMeetNail/planwise/internal/services"
	"github.com/HammerMeetNail/planwise/internal/services/recommend"
	"github.com/HammerMeetNail/planwise/internal/validation"
)

type AnalysisHandler struct {
	analyzer services.AnalyzerInterface
}

func NewAnalysisHandler(analyzer services.AnalyzerInterface) *AnalysisHandler {
	return &AnalysisHandler{analyzer: analyzer}
}

type AnalyzeRequest struct {
	StartDate          string `json:"start_date" validate:"required"`
	EndDate            string `json:"end_date" validate:"required"`
	CurrentDestination string `json:"current_destination"`
	OutputFormat       string `json:"output_format" validate:"omitempty,oneof=json summary text"`
}

type CatalogResponse struct {
	Categories []models.Category `json:"categories"`
}

type SeasonsResponse struct {
	Seasons []models.Season `json:"seasons"`
}

func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if r.Method == http.MethodPost {
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	} else {
		q := r.URL.Query()
		req = AnalyzeRequest{
			StartDate:          q.Get("start_date"),
			EndDate:            q.Get("end_date"),
			CurrentDestination: q.Get("current_destination"),
			OutputFormat:       q.Get("format"),
		}
	}
	// Formats are case-insensitive, matching report.ParseFormat.
	req.OutputFormat = strings.ToLower(strings.TrimSpace(req.OutputFormat))

	if err := validation.Struct(req); err != nil {
		metrics.RecordAnalysis("api", metrics.OutcomeInvalid, 0, "")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	format, err := report.ParseFormat(req.OutputFormat)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	started := time.Now()
	result, err := report.Safe(func() (*models.AnalysisResult, error) {
		return h.analyzer.Analyze(req.StartDate, req.EndDate, req.CurrentDestination)
	})
	if err != nil {
		if errors.Is(err, recommend.ErrInvalidInput) {
			metrics.RecordAnalysis("api", metrics.OutcomeInvalid, 0, "")
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		metrics.RecordAnalysis("api", metrics.OutcomeError, 0, "")
		logging.Error("Analysis failed", map[string]interface{}{"error": err})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	metrics.RecordAnalysis("api", metrics.OutcomeOK, time.Since(started), topCategory(result))

	if format == report.FormatSummary {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(report.Text(result)))
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *AnalysisHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, CatalogResponse{Categories: h.analyzer.Catalog().Categories()})
}

func (h *AnalysisHandler) Seasons(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, SeasonsResponse{Seasons: models.Seasons})
}

func topCategory(result *models.AnalysisResult) string {
	if result.AIInsights.TopRecommendation == nil {
		return ""
	}
	return result.AIInsights.TopRecommendation.Category
}
