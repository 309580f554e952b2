package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/HammerMeetNail/planwise/internal/logging"
	"github.com/HammerMeetNail/planwise/internal/metrics"
)

const rateLimitTimeout = 500 * time.Millisecond

// RateLimiter is a fixed-window request counter kept in Redis.
type RateLimiter struct {
	redis    *redis.Client
	limit    int
	window   time.Duration
	prefix   string
	keyFunc  func(*http.Request) string
	failOpen bool
	logger   *logging.Logger
}

// NewRateLimiter builds a limiter allowing limit requests per window for
// each key returned by keyFunc. A limit of zero disables limiting. With
// failOpen set, requests pass through when Redis is missing or erroring.
func NewRateLimiter(client *redis.Client, limit int, window time.Duration, prefix string, keyFunc func(*http.Request) string, failOpen bool) *RateLimiter {
	if keyFunc == nil {
		keyFunc = GetClientIP
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		redis:    client,
		limit:    limit,
		window:   window,
		prefix:   prefix,
		keyFunc:  keyFunc,
		failOpen: failOpen,
		logger:   logging.Default.WithField("component", "ratelimit"),
	}
}

// Middleware enforces the limit before calling next.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.limit <= 0 {
			next.ServeHTTP(w, r)
			return
		}
		if rl.redis == nil {
			if rl.failOpen {
				next.ServeHTTP(w, r)
				return
			}
			writeError(w, http.StatusServiceUnavailable, "Rate limiter unavailable")
			return
		}

		key := rl.prefix + rl.keyFunc(r)
		allowed, remaining, resetAt, err := rl.isAllowed(r.Context(), key)
		if err != nil {
			rl.logger.Warn("Rate limit check failed", map[string]interface{}{
				"error":  err,
				"prefix": rl.prefix,
			})
			if rl.failOpen {
				next.ServeHTTP(w, r)
				return
			}
			writeError(w, http.StatusServiceUnavailable, "Rate limiter unavailable")
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

		if !allowed {
			retry := int(time.Until(resetAt).Seconds())
			if retry < 1 {
				retry = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			metrics.RecordRateLimitRejection(rl.prefix)
			writeError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) isAllowed(ctx context.Context, key string) (bool, int, time.Time, error) {
	ctx, cancel := context.WithTimeout(ctx, rateLimitTimeout)
	defer cancel()

	windowStart := time.Now().Truncate(rl.window)
	windowEnd := windowStart.Add(rl.window)
	key = key + ":" + strconv.FormatInt(windowStart.Unix(), 10)

	pipe := rl.redis.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, rl.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, rl.limit, windowEnd, err
	}

	count := int(incr.Val())
	remaining := rl.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= rl.limit, remaining, windowEnd, nil
}

// GetClientIP returns the originating client address, preferring the first
// X-Forwarded-For entry, then X-Real-IP, then the connection address.
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if host, _, err := net.SplitHostPort(first); err == nil {
			return host
		}
		if first != "" {
			return first
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
