package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"

	"github.com/HammerMeetNail/planwise/internal/logging"
	"github.com/HammerMeetNail/planwise/internal/metrics"
	"github.com/HammerMeetNail/planwise/internal/models"
	"github.com/HammerMeetNail/planwise/internal/testutil"
)

type fakeStore struct {
	mu    sync.Mutex
	data  map[string][]byte
	ttls  map[string]time.Duration
	calls int

	GetFunc   func(ctx context.Context, key string) ([]byte, error)
	SetFunc   func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DelFunc   func(ctx context.Context, key string) error
	CountFunc func(ctx context.Context, pattern string) (int, error)
	PingFunc  func(ctx context.Context) error
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (s *fakeStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.GetFunc != nil {
		return s.GetFunc(ctx, key)
	}
	v, ok := s.data[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return v, nil
}

func (s *fakeStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.SetFunc != nil {
		return s.SetFunc(ctx, key, value, ttl)
	}
	s.data[key] = value
	s.ttls[key] = ttl
	return nil
}

func (s *fakeStore) Del(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.DelFunc != nil {
		return s.DelFunc(ctx, key)
	}
	delete(s.data, key)
	return nil
}

func (s *fakeStore) Count(ctx context.Context, pattern string) (int, error) {
	if s.CountFunc != nil {
		return s.CountFunc(ctx, pattern)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	n := 0
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) Ping(ctx context.Context) error {
	if s.PingFunc != nil {
		return s.PingFunc(ctx)
	}
	return nil
}

func quietLogger() *logging.Logger {
	return logging.New().SetOutput(&bytes.Buffer{})
}

func testVacation(end string) *models.Vacation {
	return testutil.NewVacation("Goa (IN)", end, end)
}

func testAnalysis() *models.AnalysisResult {
	return &models.AnalysisResult{
		VacationAnalysis: models.VacationAnalysis{StartDate: "2024-11-01", EndDate: "2024-11-07", Duration: 7},
		DestinationRecommendations: []models.Recommendation{
			{Destination: "Kerala (IN)", Category: "Beaches", Score: 10.5},
		},
	}
}

func TestInsightTTL(t *testing.T) {
	now := time.Date(2024, 11, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		end  string
		want time.Duration
	}{
		{"future end", "2024-11-10", 8*24*time.Hour + 12*time.Hour + 24*time.Hour},
		{"ends today", "2024-11-01", 24 * time.Hour},
		{"already over", "2024-10-01", 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InsightTTL(testutil.MustDate(tt.end), now); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestInsightCache_SetThenGet(t *testing.T) {
	store := newFakeStore()
	cache := NewInsightCache(store, quietLogger())
	fixed := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return fixed }

	v := testVacation("2024-11-07")
	written := cache.Set(context.Background(), v, testAnalysis())

	if written.TTLSeconds != int64((7 * 24 * time.Hour).Seconds()) {
		t.Errorf("unexpected ttl %d", written.TTLSeconds)
	}
	if !written.ExpiresAt.Equal(fixed.Add(7 * 24 * time.Hour)) {
		t.Errorf("unexpected expiry %v", written.ExpiresAt)
	}
	if store.ttls[InsightKey(v.ID)] != 7*24*time.Hour {
		t.Errorf("expected ttl passed to store, got %v", store.ttls[InsightKey(v.ID)])
	}

	hitsBefore := promtest.ToFloat64(metrics.InsightCacheHits)
	got, ok := cache.Get(context.Background(), v.ID)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.Analysis.DestinationRecommendations[0].Destination != "Kerala (IN)" {
		t.Errorf("unexpected cached analysis %+v", got.Analysis)
	}
	if !got.CachedAt.Equal(fixed) {
		t.Errorf("unexpected cached_at %v", got.CachedAt)
	}
	if d := promtest.ToFloat64(metrics.InsightCacheHits) - hitsBefore; d != 1 {
		t.Errorf("expected one hit recorded, got %v", d)
	}
}

func TestInsightCache_Key(t *testing.T) {
	id := uuid.MustParse("9b2f7c1e-3c55-4d5e-9a0e-0f1d2c3b4a59")
	if got := InsightKey(id); got != "ai:insights:vacation:9b2f7c1e-3c55-4d5e-9a0e-0f1d2c3b4a59" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestInsightCache_Miss(t *testing.T) {
	cache := NewInsightCache(newFakeStore(), quietLogger())
	missesBefore := promtest.ToFloat64(metrics.InsightCacheMisses)

	if _, ok := cache.Get(context.Background(), uuid.New()); ok {
		t.Fatal("expected miss")
	}
	if d := promtest.ToFloat64(metrics.InsightCacheMisses) - missesBefore; d != 1 {
		t.Errorf("expected one miss recorded, got %v", d)
	}
}

func TestInsightCache_CorruptEntryIsMiss(t *testing.T) {
	tests := []struct {
		name    string
		entry   string
		wantLog string
	}{
		{"malformed", "{not json", "decoding cached insights"},
		{"empty analysis", `{"ttl_seconds":60}`, errEmptyAnalysis.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			store := newFakeStore()
			id := uuid.New()
			store.data[InsightKey(id)] = []byte(tt.entry)

			cache := NewInsightCache(store, logging.New().SetOutput(&logs))
			if _, ok := cache.Get(context.Background(), id); ok {
				t.Fatal("expected corrupt entry to read as a miss")
			}
			if !strings.Contains(logs.String(), tt.wantLog) {
				t.Errorf("expected log to mention %q, got %q", tt.wantLog, logs.String())
			}
			if strings.Contains(logs.String(), "<nil>") {
				t.Errorf("expected no nil error in log, got %q", logs.String())
			}
		})
	}
}

func TestInsightCache_FailuresAreSwallowed(t *testing.T) {
	var logs bytes.Buffer
	store := newFakeStore()
	store.GetFunc = func(ctx context.Context, key string) ([]byte, error) { return nil, errors.New("connection refused") }
	store.SetFunc = func(ctx context.Context, key string, value []byte, ttl time.Duration) error {
		return errors.New("connection refused")
	}
	store.DelFunc = func(ctx context.Context, key string) error { return errors.New("connection refused") }

	cache := NewInsightCache(store, logging.New().SetOutput(&logs))
	v := testVacation("2030-01-01")

	if cached := cache.Set(context.Background(), v, testAnalysis()); cached == nil || cached.Analysis == nil {
		t.Fatal("expected envelope even when the write fails")
	}
	if _, ok := cache.Get(context.Background(), v.ID); ok {
		t.Fatal("expected failed read to be a miss")
	}
	cache.Invalidate(context.Background(), v.ID)

	if !strings.Contains(logs.String(), "insight cache operation failed") {
		t.Fatalf("expected failures to be logged, got %q", logs.String())
	}
}

func TestInsightCache_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	store := newFakeStore()
	store.GetFunc = func(ctx context.Context, key string) ([]byte, error) { return nil, errors.New("timeout") }
	cache := NewInsightCache(store, quietLogger())

	for i := 0; i < breakerFailures; i++ {
		cache.Get(context.Background(), uuid.New())
	}
	callsAtTrip := store.calls

	for i := 0; i < 3; i++ {
		if _, ok := cache.Get(context.Background(), uuid.New()); ok {
			t.Fatal("expected miss while breaker is open")
		}
	}
	if store.calls != callsAtTrip {
		t.Fatalf("expected open breaker to skip the store, got %d extra calls", store.calls-callsAtTrip)
	}
	if got := cache.Stats(context.Background()).BreakerState; got != "open" {
		t.Errorf("expected open breaker, got %s", got)
	}
	if got := promtest.ToFloat64(metrics.InsightCacheBreakerState); got != 2 {
		t.Errorf("expected breaker gauge 2, got %v", got)
	}
}

func TestInsightCache_MissesDoNotTripBreaker(t *testing.T) {
	store := newFakeStore()
	cache := NewInsightCache(store, quietLogger())

	for i := 0; i < breakerFailures*2; i++ {
		cache.Get(context.Background(), uuid.New())
	}
	if got := cache.Stats(context.Background()).BreakerState; got != "closed" {
		t.Fatalf("expected closed breaker after plain misses, got %s", got)
	}
}

func TestInsightCache_Invalidate(t *testing.T) {
	store := newFakeStore()
	cache := NewInsightCache(store, quietLogger())
	v := testVacation("2030-01-01")

	cache.Set(context.Background(), v, testAnalysis())
	cache.Invalidate(context.Background(), v.ID)

	if _, ok := cache.Get(context.Background(), v.ID); ok {
		t.Fatal("expected invalidated entry to be gone")
	}
}

func TestInsightCache_Stats(t *testing.T) {
	store := newFakeStore()
	store.data["unrelated"] = []byte("x")
	cache := NewInsightCache(store, quietLogger())
	cache.Set(context.Background(), testVacation("2030-01-01"), testAnalysis())
	cache.Set(context.Background(), testVacation("2030-02-01"), testAnalysis())

	stats := cache.Stats(context.Background())
	if !stats.RedisConnected || stats.CachedInsights != 2 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if stats.KeyPrefix != InsightKeyPrefix {
		t.Errorf("unexpected prefix %q", stats.KeyPrefix)
	}

	store.PingFunc = func(ctx context.Context) error { return errors.New("down") }
	stats = cache.Stats(context.Background())
	if stats.RedisConnected || stats.CachedInsights != 0 {
		t.Fatalf("expected disconnected stats, got %+v", stats)
	}
}

func TestRedisStore_UnreachableServerFailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	cache := NewInsightCache(NewRedisStore(client), quietLogger())
	if _, ok := cache.Get(context.Background(), uuid.New()); ok {
		t.Fatal("expected miss against unreachable redis")
	}
	if cached := cache.Set(context.Background(), testVacation("2030-01-01"), testAnalysis()); cached == nil {
		t.Fatal("expected envelope")
	}
	if stats := cache.Stats(context.Background()); stats.RedisConnected {
		t.Fatal("expected redis to be reported as unreachable")
	}
}
