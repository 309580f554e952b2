package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/HammerMeetNail/planwise/internal/logging"
	"github.com/HammerMeetNail/planwise/internal/metrics"
	"github.com/HammerMeetNail/planwise/internal/models"
)

const (
	InsightKeyPrefix = "ai:insights:vacation:"
	MinInsightTTL    = 24 * time.Hour

	insightOpTimeout   = 2 * time.Second
	breakerFailures    = 5
	breakerOpenTimeout = 30 * time.Second
)

// ErrCacheMiss is returned by a CacheStore when the key does not exist.
var ErrCacheMiss = errors.New("cache miss")

var errEmptyAnalysis = errors.New("cached insights hold an empty analysis")

// CacheStore is the key/value surface the insight cache needs from Redis.
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	Count(ctx context.Context, pattern string) (int, error)
	Ping(ctx context.Context) error
}

type redisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) CacheStore {
	return &redisStore{client: client}
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return b, err
}

func (s *redisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *redisStore) Del(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

// Count walks the keyspace with SCAN rather than KEYS.
func (s *redisStore) Count(ctx context.Context, pattern string) (int, error) {
	n := 0
	iter := s.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		n++
	}
	return n, iter.Err()
}

func (s *redisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// CachedInsights is the stored form of a vacation's analysis.
type CachedInsights struct {
	Analysis   *models.AnalysisResult `json:"analysis"`
	CachedAt   time.Time              `json:"cached_at"`
	ExpiresAt  time.Time              `json:"expires_at"`
	TTLSeconds int64                  `json:"ttl_seconds"`
}

type InsightCacheStats struct {
	CachedInsights int    `json:"cached_insights"`
	RedisConnected bool   `json:"redis_connected"`
	BreakerState   string `json:"breaker_state"`
	KeyPrefix      string `json:"key_prefix"`
}

// InsightCache keeps analyses of saved vacations in Redis until shortly
// after the trip ends. Every failure is logged and swallowed: a failed read
// is a miss and a failed write is dropped.
type InsightCache struct {
	store   CacheStore
	breaker *gobreaker.CircuitBreaker[[]byte]
	logger  *logging.Logger
	now     func() time.Time
}

func NewInsightCache(store CacheStore, logger *logging.Logger) *InsightCache {
	if logger == nil {
		logger = logging.Default
	}
	logger = logger.WithField("component", "insight_cache")

	settings := gobreaker.Settings{
		Name:        "insight-cache",
		MaxRequests: 1,
		Timeout:     breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrCacheMiss)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.SetInsightCacheBreakerState(int(to))
			logger.Warn("circuit breaker state changed", map[string]interface{}{
				"from": from.String(),
				"to":   to.String(),
			})
		},
	}

	return &InsightCache{
		store:   store,
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
		logger:  logger,
		now:     time.Now,
	}
}

func InsightKey(vacationID uuid.UUID) string {
	return InsightKeyPrefix + vacationID.String()
}

// InsightTTL keeps an entry until one day after end, and never less than a
// day.
func InsightTTL(end models.Date, now time.Time) time.Duration {
	ttl := end.Sub(now) + MinInsightTTL
	if ttl < MinInsightTTL {
		return MinInsightTTL
	}
	return ttl.Truncate(time.Second)
}

func (c *InsightCache) Get(ctx context.Context, vacationID uuid.UUID) (*CachedInsights, bool) {
	key := InsightKey(vacationID)
	ctx, cancel := context.WithTimeout(ctx, insightOpTimeout)
	defer cancel()

	data, err := c.breaker.Execute(func() ([]byte, error) {
		return c.store.Get(ctx, key)
	})
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			c.fail("get", key, err)
		}
		metrics.RecordInsightCacheLookup(false)
		return nil, false
	}

	var cached CachedInsights
	if err := json.Unmarshal(data, &cached); err != nil {
		c.fail("decode", key, fmt.Errorf("decoding cached insights: %w", err))
		metrics.RecordInsightCacheLookup(false)
		return nil, false
	}
	if cached.Analysis == nil {
		c.fail("decode", key, errEmptyAnalysis)
		metrics.RecordInsightCacheLookup(false)
		return nil, false
	}

	metrics.RecordInsightCacheLookup(true)
	return &cached, true
}

// Set stores the analysis and returns the envelope written. The envelope is
// returned even when the write fails.
func (c *InsightCache) Set(ctx context.Context, vacation *models.Vacation, analysis *models.AnalysisResult) *CachedInsights {
	now := c.now().UTC()
	ttl := InsightTTL(vacation.EndDate, now)
	cached := &CachedInsights{
		Analysis:   analysis,
		CachedAt:   now,
		ExpiresAt:  now.Add(ttl),
		TTLSeconds: int64(ttl / time.Second),
	}

	key := InsightKey(vacation.ID)
	data, err := json.Marshal(cached)
	if err != nil {
		c.fail("encode", key, err)
		return cached
	}

	ctx, cancel := context.WithTimeout(ctx, insightOpTimeout)
	defer cancel()

	_, err = c.breaker.Execute(func() ([]byte, error) {
		return nil, c.store.Set(ctx, key, data, ttl)
	})
	if err != nil {
		c.fail("set", key, err)
		return cached
	}

	c.logger.Debug("cached insights", map[string]interface{}{
		"key":         key,
		"ttl_seconds": cached.TTLSeconds,
	})
	return cached
}

func (c *InsightCache) Invalidate(ctx context.Context, vacationID uuid.UUID) {
	key := InsightKey(vacationID)
	ctx, cancel := context.WithTimeout(ctx, insightOpTimeout)
	defer cancel()

	_, err := c.breaker.Execute(func() ([]byte, error) {
		return nil, c.store.Del(ctx, key)
	})
	if err != nil {
		c.fail("invalidate", key, err)
	}
}

// Stats reports how many insights are cached. Counting bypasses the breaker
// so an open breaker still shows the real connection state.
func (c *InsightCache) Stats(ctx context.Context) InsightCacheStats {
	stats := InsightCacheStats{
		KeyPrefix:    InsightKeyPrefix,
		BreakerState: c.breaker.State().String(),
	}

	ctx, cancel := context.WithTimeout(ctx, insightOpTimeout)
	defer cancel()

	if err := c.store.Ping(ctx); err != nil {
		c.fail("stats", InsightKeyPrefix, err)
		return stats
	}
	stats.RedisConnected = true

	n, err := c.store.Count(ctx, InsightKeyPrefix+"*")
	if err != nil {
		c.fail("stats", InsightKeyPrefix, err)
		return stats
	}
	stats.CachedInsights = n
	return stats
}

func (c *InsightCache) fail(op, key string, err error) {
	metrics.RecordInsightCacheError(op)
	c.logger.Warn("insight cache operation failed", map[string]interface{}{
		"operation": op,
		"key":       key,
		"error":     err,
	})
}
