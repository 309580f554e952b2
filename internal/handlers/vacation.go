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
)

type VacationHandler struct {
	vacations services.VacationServiceInterface
	cache     services.InsightCacheInterface
	analyzer  services.AnalyzerInterface
}

func NewVacationHandler(vacations services.VacationServiceInterface, cache services.InsightCacheInterface, analyzer services.AnalyzerInterface) *VacationHandler {
	return &VacationHandler{
		vacations: vacations,
		cache:     cache,
		analyzer:  analyzer,
	}
}

type VacationResponse struct {
	Vacation *models.Vacation `json:"vacation"`
}

type VacationListResponse struct {
	Vacations []*models.Vacation `json:"vacations"`
}

func (h *VacationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var params models.CreateVacationParams
	if err := decodeJSON(w, r, &params); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	vacation, err := h.vacations.Create(r.Context(), params)
	if err != nil {
		h.writeServiceError(w, "creating vacation", err)
		return
	}

	writeJSON(w, http.StatusCreated, VacationResponse{Vacation: vacation})
}

func (h *VacationHandler) List(w http.ResponseWriter, r *http.Request) {
	vacations, err := h.vacations.List(r.Context())
	if err != nil {
		h.writeServiceError(w, "listing vacations", err)
		return
	}

	writeJSON(w, http.StatusOK, VacationListResponse{Vacations: vacations})
}

func (h *VacationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid vacation ID")
		return
	}

	vacation, err := h.vacations.GetByID(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, "getting vacation", err)
		return
	}

	writeJSON(w, http.StatusOK, VacationResponse{Vacation: vacation})
}

func (h *VacationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid vacation ID")
		return
	}

	var params models.UpdateVacationParams
	if err := decodeJSON(w, r, &params); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	vacation, err := h.vacations.Update(r.Context(), id, params)
	if err != nil {
		h.writeServiceError(w, "updating vacation", err)
		return
	}
	h.cache.Invalidate(r.Context(), id)

	writeJSON(w, http.StatusOK, VacationResponse{Vacation: vacation})
}

func (h *VacationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid vacation ID")
		return
	}

	if err := h.vacations.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, "deleting vacation", err)
		return
	}
	h.cache.Invalidate(r.Context(), id)

	w.WriteHeader(http.StatusNoContent)
}

// Insights serves the cached analysis of a saved vacation, computing and
// caching it on a miss.
func (h *VacationHandler) Insights(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid vacation ID")
		return
	}

	vacation, err := h.vacations.GetByID(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, "getting vacation", err)
		return
	}

	if cached, hit := h.cache.Get(r.Context(), id); hit {
		w.Header().Set("X-Cache", "HIT")
		writeJSON(w, http.StatusOK, cached)
		return
	}

	started := time.Now()
	result, err := report.Safe(func() (*models.AnalysisResult, error) {
		return h.analyzer.Analyze(vacation.StartDate.String(), vacation.EndDate.String(), strings.TrimSpace(vacation.Destination))
	})
	if err != nil {
		metrics.RecordAnalysis("insights", metrics.OutcomeError, 0, "")
		logging.Error("Insight analysis failed", map[string]interface{}{
			"vacation_id": id.String(),
			"error":       err,
		})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	metrics.RecordAnalysis("insights", metrics.OutcomeOK, time.Since(started), topCategory(result))

	cached := h.cache.Set(r.Context(), vacation, result)
	w.Header().Set("X-Cache", "MISS")
	writeJSON(w, http.StatusOK, cached)
}

func (h *VacationHandler) CacheStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.cache.Stats(r.Context()))
}

func (h *VacationHandler) writeServiceError(w http.ResponseWriter, action string, err error) {
	switch {
	case errors.Is(err, services.ErrVacationNotFound):
		writeError(w, http.StatusNotFound, "Vacation not found")
	case errors.Is(err, services.ErrInvalidVacation):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		logging.Error("Vacation request failed", map[string]interface{}{
			"action": action,
			"error":  err,
		})
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
