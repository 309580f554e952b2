package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/planwise/internal/models"
)

// AnalyzerInterface defines the contract for scoring a trip.
type AnalyzerInterface interface {
	Analyze(startDate, endDate, currentDestination string) (*models.AnalysisResult, error)
	Catalog() *models.Catalog
}

// VacationServiceInterface defines the contract for saved vacation operations.
type VacationServiceInterface interface {
	Create(ctx context.Context, params models.CreateVacationParams) (*models.Vacation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Vacation, error)
	List(ctx context.Context) ([]*models.Vacation, error)
	Update(ctx context.Context, id uuid.UUID, params models.UpdateVacationParams) (*models.Vacation, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// InsightCacheInterface defines the contract for cached vacation analyses.
type InsightCacheInterface interface {
	Get(ctx context.Context, vacationID uuid.UUID) (*CachedInsights, bool)
	Set(ctx context.Context, vacation *models.Vacation, analysis *models.AnalysisResult) *CachedInsights
	Invalidate(ctx context.Context, vacationID uuid.UUID)
	Stats(ctx context.Context) InsightCacheStats
}
