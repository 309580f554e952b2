package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/HammerMeetNail/planwise/internal/catalog"
	"github.com/HammerMeetNail/planwise/internal/config"
	"github.com/HammerMeetNail/planwise/internal/database"
	"github.com/HammerMeetNail/planwise/internal/handlers"
	"github.com/HammerMeetNail/planwise/internal/logging"
	"github.com/HammerMeetNail/planwise/internal/middleware"
	"github.com/HammerMeetNail/planwise/internal/services"
	"github.com/HammerMeetNail/planwise/internal/services/recommend"
)

func main() {
	if err := run(); err != nil {
		logging.Error("Application error", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level := logging.ParseLevel(cfg.Log.Level)
	logging.SetDefaultLevel(level)
	logging.Default.SetFormat(cfg.Log.Format)
	logger := logging.New().SetLevel(level).SetFormat(cfg.Log.Format)
	logger.Debug("Debug logging enabled", map[string]interface{}{"env": cfg.Server.Environment})

	logger.Info("Starting PlanWise server...")

	cat, err := catalog.FromPath(cfg.Recommend.CatalogPath)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	engine := recommend.NewEngine(cat, recommend.WithSameCategoryBoost(cfg.Recommend.SameCategoryBoost))
	logger.Info("Catalog loaded", map[string]interface{}{
		"categories":          len(cat.Categories()),
		"custom":              cfg.Recommend.CatalogPath != "",
		"same_category_boost": cfg.Recommend.SameCategoryBoost,
	})

	// Connect to PostgreSQL
	logger.Info("Connecting to PostgreSQL", map[string]interface{}{
		"host": cfg.Database.Host,
		"port": cfg.Database.Port,
	})
	db, err := database.NewPostgresDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting to postgres: %w", err)
	}
	defer db.Close()
	logger.Info("Connected to PostgreSQL")

	logger.Info("Running database migrations...")
	migrator, err := database.NewMigrator(cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	if err := migrator.Up(); err != nil {
		_ = migrator.Close()
		return fmt.Errorf("running migrations: %w", err)
	}
	_ = migrator.Close()
	logger.Info("Migrations completed")

	// Connect to Redis
	logger.Info("Connecting to Redis", map[string]interface{}{
		"addr": cfg.Redis.Addr(),
	})
	redisDB, err := database.NewRedisDB(cfg.Redis)
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	defer func() { _ = redisDB.Close() }()
	logger.Info("Connected to Redis")

	vacationService := services.NewVacationService(services.NewPoolDB(db.Pool))
	insightCache := services.NewInsightCache(services.NewRedisStore(redisDB.Client), logger)

	analyzeLimiter := middleware.NewRateLimiter(
		redisDB.Client,
		cfg.RateLimit.AnalyzeLimit,
		cfg.RateLimit.AnalyzeWindow,
		"ratelimit:analyze:",
		middleware.GetClientIP,
		true,
	)

	handler := newHandler(routeDeps{
		analysis:       handlers.NewAnalysisHandler(engine),
		vacations:      handlers.NewVacationHandler(vacationService, insightCache, engine),
		health:         handlers.NewHealthHandler(db, redisDB),
		analyzeLimiter: analyzeLimiter,
		logger:         logger,
		secure:         cfg.Server.Environment == "production",
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan struct{})
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("Server is shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		server.SetKeepAlivesEnabled(false)
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Could not gracefully shutdown the server", map[string]interface{}{
				"error": err.Error(),
			})
		}
		close(done)
	}()

	logger.Info("Server listening", map[string]interface{}{
		"addr": addr,
	})
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	<-done
	logger.Info("Server stopped")
	return nil
}

type routeDeps struct {
	analysis       *handlers.AnalysisHandler
	vacations      *handlers.VacationHandler
	health         *handlers.HealthHandler
	analyzeLimiter *middleware.RateLimiter
	logger         *logging.Logger
	secure         bool
}

func newHandler(d routeDeps) http.Handler {
	mux := http.NewServeMux()

	// Health endpoints (no rate limit)
	mux.HandleFunc("GET /health", d.health.Health)
	mux.HandleFunc("GET /ready", d.health.Ready)
	mux.HandleFunc("GET /live", d.health.Live)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Analysis endpoints
	mux.Handle("GET /api/analyze", d.analyzeLimiter.Middleware(http.HandlerFunc(d.analysis.Analyze)))
	mux.Handle("POST /api/analyze", d.analyzeLimiter.Middleware(http.HandlerFunc(d.analysis.Analyze)))
	mux.HandleFunc("GET /api/catalog", d.analysis.Catalog)
	mux.HandleFunc("GET /api/seasons", d.analysis.Seasons)

	// Vacation endpoints
	mux.HandleFunc("POST /api/vacations", d.vacations.Create)
	mux.HandleFunc("GET /api/vacations", d.vacations.List)
	mux.HandleFunc("GET /api/vacations/{id}", d.vacations.Get)
	mux.HandleFunc("PUT /api/vacations/{id}", d.vacations.Update)
	mux.HandleFunc("DELETE /api/vacations/{id}", d.vacations.Delete)
	mux.HandleFunc("GET /api/vacations/{id}/insights", d.vacations.Insights)
	mux.HandleFunc("GET /api/insights/stats", d.vacations.CacheStats)

	// Build middleware chain (order matters: outermost first)
	var handler http.Handler = mux
	handler = middleware.NewCompress().Apply(handler)
	handler = middleware.NewCacheControl().Apply(handler)
	handler = middleware.NewSecurityHeaders(d.secure).Apply(handler)
	handler = middleware.NewHTTPMetrics().Apply(handler)
	handler = middleware.NewRequestLogger(d.logger).Apply(handler)
	return handler
}
