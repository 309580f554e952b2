package handlers

import (
	"context"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/planwise/internal/catalog"
	"github.com/HammerMeetNail/planwise/internal/models"
	"github.com/HammerMeetNail/planwise/internal/services"
	"github.com/HammerMeetNail/planwise/internal/services/recommend"
)

type mockAnalyzer struct {
	AnalyzeFunc func(startDate, endDate, currentDestination string) (*models.AnalysisResult, error)
	calls       int
}

func (m *mockAnalyzer) Analyze(startDate, endDate, currentDestination string) (*models.AnalysisResult, error) {
	m.calls++
	if m.AnalyzeFunc != nil {
		return m.AnalyzeFunc(startDate, endDate, currentDestination)
	}
	return recommend.NewEngine(catalog.Default()).Analyze(startDate, endDate, currentDestination)
}

func (m *mockAnalyzer) Catalog() *models.Catalog {
	return catalog.Default()
}

type mockVacationService struct {
	CreateFunc  func(ctx context.Context, params models.CreateVacationParams) (*models.Vacation, error)
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*models.Vacation, error)
	ListFunc    func(ctx context.Context) ([]*models.Vacation, error)
	UpdateFunc  func(ctx context.Context, id uuid.UUID, params models.UpdateVacationParams) (*models.Vacation, error)
	DeleteFunc  func(ctx context.Context, id uuid.UUID) error
}

func (m *mockVacationService) Create(ctx context.Context, params models.CreateVacationParams) (*models.Vacation, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *mockVacationService) GetByID(ctx context.Context, id uuid.UUID) (*models.Vacation, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, services.ErrVacationNotFound
}

func (m *mockVacationService) List(ctx context.Context) ([]*models.Vacation, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*models.Vacation{}, nil
}

func (m *mockVacationService) Update(ctx context.Context, id uuid.UUID, params models.UpdateVacationParams) (*models.Vacation, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, params)
	}
	return nil, nil
}

func (m *mockVacationService) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

type mockInsightCache struct {
	GetFunc     func(ctx context.Context, vacationID uuid.UUID) (*services.CachedInsights, bool)
	SetFunc     func(ctx context.Context, vacation *models.Vacation, analysis *models.AnalysisResult) *services.CachedInsights
	StatsFunc   func(ctx context.Context) services.InsightCacheStats
	invalidated []uuid.UUID
	sets        int
}

func (m *mockInsightCache) Get(ctx context.Context, vacationID uuid.UUID) (*services.CachedInsights, bool) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, vacationID)
	}
	return nil, false
}

func (m *mockInsightCache) Set(ctx context.Context, vacation *models.Vacation, analysis *models.AnalysisResult) *services.CachedInsights {
	m.sets++
	if m.SetFunc != nil {
		return m.SetFunc(ctx, vacation, analysis)
	}
	return &services.CachedInsights{Analysis: analysis, TTLSeconds: 86400}
}

func (m *mockInsightCache) Invalidate(ctx context.Context, vacationID uuid.UUID) {
	m.invalidated = append(m.invalidated, vacationID)
}

func (m *mockInsightCache) Stats(ctx context.Context) services.InsightCacheStats {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return services.InsightCacheStats{KeyPrefix: services.InsightKeyPrefix}
}
