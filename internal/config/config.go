package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Log       LogConfig
	Recommend RecommendConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Host        string
	Port        int
	Environment string // "development", "production", "test"
	Debug       bool
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

type LogConfig struct {
	Level  string
	Format string // "json" or "console"
}

type RecommendConfig struct {
	CatalogPath       string // empty means the built-in catalog
	SameCategoryBoost float64
}

type RateLimitConfig struct {
	AnalyzeLimit  int // requests per window; 0 disables limiting
	AnalyzeWindow time.Duration
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:        getEnv("SERVER_HOST", "0.0.0.0"),
			Port:        getEnvInt("SERVER_PORT", 8080),
			Environment: getEnv("APP_ENV", "development"),
			Debug:       getEnvBool("DEBUG", false),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "planwise"),
			Password: getEnv("DB_PASSWORD", "planwise"),
			DBName:   getEnv("DB_NAME", "planwise"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: int32(getEnvInt("DB_MAX_CONNS", 10)),
			MinConns: int32(getEnvInt("DB_MIN_CONNS", 2)),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			PoolSize: getEnvInt("REDIS_POOL_SIZE", 10),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Recommend: RecommendConfig{
			CatalogPath:       getEnv("CATALOG_PATH", ""),
			SameCategoryBoost: getEnvFloat("SAME_CATEGORY_BOOST", 0),
		},
		RateLimit: RateLimitConfig{
			AnalyzeLimit:  getEnvInt("ANALYZE_RATE_LIMIT", 60),
			AnalyzeWindow: getEnvDuration("ANALYZE_RATE_WINDOW", time.Minute),
		},
	}

	if cfg.Server.Debug {
		cfg.Log.Level = "debug"
	}
	if cfg.Database.MaxConns < 1 || cfg.Database.MinConns < 0 || cfg.Database.MinConns > cfg.Database.MaxConns {
		return nil, fmt.Errorf("DB_MIN_CONNS (%d) and DB_MAX_CONNS (%d) must satisfy 0 <= min <= max, max >= 1",
			cfg.Database.MinConns, cfg.Database.MaxConns)
	}
	if cfg.Recommend.SameCategoryBoost < 0 {
		return nil, fmt.Errorf("SAME_CATEGORY_BOOST must not be negative, got %v", cfg.Recommend.SameCategoryBoost)
	}
	if cfg.RateLimit.AnalyzeLimit < 0 {
		return nil, fmt.Errorf("ANALYZE_RATE_LIMIT must not be negative, got %d", cfg.RateLimit.AnalyzeLimit)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
