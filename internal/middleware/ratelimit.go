// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/playerone/storefront/internal/config"
	"github.com/playerone/storefront/internal/core"
)

type RateLimitConfig struct {
	Limit   redis_rate.Limit
	KeyFunc func(*http.Request) string
}

// RateLimiter counts requests in Redis so every instance shares one budget.
// While Redis is unreachable each instance falls back to its own in-memory
// buckets with the same limit.
type RateLimiter struct {
	shared   *redis_rate.Limiter
	fallback *localBuckets
	config   RateLimitConfig
}

func NewRateLimiter(rdb *redis.Client, cfg RateLimitConfig) *RateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = KeyByIP
	}

	return &RateLimiter{
		shared:   redis_rate.NewLimiter(rdb),
		fallback: &localBuckets{buckets: make(map[string]*bucket)},
		config:   cfg,
	}
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res := rl.allow(r.Context(), rl.config.KeyFunc(r))

		h := w.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit.Rate))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))

		if res.Allowed == 0 {
			retryAfter := max(int(res.RetryAfter.Seconds()), 1)
			h.Set("Retry-After", strconv.Itoa(retryAfter))
			core.JSON(w, http.StatusTooManyRequests, core.Response{
				Error: &core.ErrorResponse{
					Code:    "RATE_LIMITED",
					Message: fmt.Sprintf("too many requests, retry after %d seconds", retryAfter),
				},
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(ctx context.Context, key string) *redis_rate.Result {
	res, err := rl.shared.Allow(ctx, key, rl.config.Limit)
	if err == nil {
		return res
	}

	slog.WarnContext(ctx, "shared rate limiter unavailable, using local buckets",
		"error", err,
	)
	return rl.fallback.take(key, rl.config.Limit)
}

// KeyByIP keys on the client address. chi's RealIP middleware has already
// rewritten RemoteAddr from proxy headers by the time this runs.
func KeyByIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	return "ratelimit:ip:" + ip
}

// KeyByIPAndEndpoint gives each route its own budget per client. Id path
// segments are collapsed so /cart/items/{id} is one endpoint.
func KeyByIPAndEndpoint(r *http.Request) string {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	for i, part := range parts {
		if uuid.Validate(part) == nil {
			parts[i] = "{id}"
		}
	}
	return KeyByIP(r) + ":endpoint:/" + strings.Join(parts, "/")
}

// AuthRateLimiter throttles credential endpoints per client address and
// route, independently of the global limiter.
func AuthRateLimiter(
	rdb *redis.Client,
	cfg config.RateLimitConfig,
) func(http.Handler) http.Handler {
	return NewRateLimiter(rdb, RateLimitConfig{
		Limit:   FromConfig(cfg),
		KeyFunc: KeyByIPAndEndpoint,
	}).Handler
}

// FromConfig converts a configured window into a redis_rate limit, falling
// back to a one minute period.
func FromConfig(cfg config.RateLimitConfig) redis_rate.Limit {
	period := cfg.Window
	if period <= 0 {
		period = time.Minute
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = cfg.Requests
	}
	return redis_rate.Limit{
		Rate:   cfg.Requests,
		Burst:  burst,
		Period: period,
	}
}

const bucketIdle = 10 * time.Minute

type bucket struct {
	limiter *rate.Limiter
	seen    time.Time
}

type localBuckets struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	swept   time.Time
}

func (l *localBuckets) take(key string, limit redis_rate.Limit) *redis_rate.Result {
	every := limit.Period / time.Duration(max(limit.Rate, 1))
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.swept) > bucketIdle {
		for k, b := range l.buckets {
			if now.Sub(b.seen) > bucketIdle {
				delete(l.buckets, k)
			}
		}
		l.swept = now
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Every(every), limit.Burst)}
		l.buckets[key] = b
	}
	b.seen = now

	res := &redis_rate.Result{Limit: limit, RetryAfter: -1}
	if b.limiter.AllowN(now, 1) {
		res.Allowed = 1
	} else {
		res.RetryAfter = every
	}
	res.Remaining = max(int(b.limiter.TokensAt(now)), 0)
	return res
}
