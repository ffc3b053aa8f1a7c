package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RateLimitConfig allows Max requests per client within each Window.
type RateLimitConfig struct {
	Max    int
	Window time.Duration
	// Prefix restricts limiting to paths under it, e.g. "/api/".
	Prefix string
}

// DefaultRateLimitConfig is 100 requests per 15 minutes on the API.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{Max: 100, Window: 15 * time.Minute, Prefix: "/api/"}
}

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Remaining int
	ResetIn   time.Duration
}

// Limiter counts hits per key in fixed windows.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// window is one client's counter for the current fixed window.
type window struct {
	count int
	reset time.Time
}

// MemoryLimiter keeps counters in process. Limits are per instance.
type MemoryLimiter struct {
	cfg     RateLimitConfig
	now     func() time.Time
	mu      sync.Mutex
	windows map[string]*window
}

func NewMemoryLimiter(cfg RateLimitConfig) *MemoryLimiter {
	return &MemoryLimiter{cfg: cfg, now: time.Now, windows: make(map[string]*window)}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || !now.Before(w.reset) {
		if len(l.windows) > 10000 {
			l.sweep(now)
		}
		w = &window{reset: now.Add(l.cfg.Window)}
		l.windows[key] = w
	}
	w.count++
	return decide(w.count, l.cfg.Max, w.reset.Sub(now)), nil
}

// sweep drops expired windows. Callers hold mu.
func (l *MemoryLimiter) sweep(now time.Time) {
	for k, w := range l.windows {
		if !now.Before(w.reset) {
			delete(l.windows, k)
		}
	}
}

// RedisLimiter shares counters across instances through INCR on a key that
// expires with the window.
type RedisLimiter struct {
	rdb *redis.Client
	cfg RateLimitConfig
}

func NewRedisLimiter(rdb *redis.Client, cfg RateLimitConfig) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, cfg: cfg}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	k := "ratelimit:" + key
	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	_, err := l.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.ExpireNX(ctx, k, l.cfg.Window)
		ttl = pipe.PTTL(ctx, k)
		return nil
	})
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit counter: %w", err)
	}
	resetIn := ttl.Val()
	if resetIn < 0 {
		resetIn = l.cfg.Window
	}
	return decide(int(incr.Val()), l.cfg.Max, resetIn), nil
}

func decide(count, max int, resetIn time.Duration) Decision {
	remaining := max - count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{Allowed: count <= max, Remaining: remaining, ResetIn: resetIn}
}

// RateLimit limits each client IP. A failing limiter lets the request through.
func RateLimit(cfg RateLimitConfig, limiter Limiter, logger zerolog.Logger) echo.MiddlewareFunc {
	limit := strconv.Itoa(cfg.Max)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.Prefix != "" && !strings.HasPrefix(c.Request().URL.Path, cfg.Prefix) {
				return next(c)
			}

			d, err := limiter.Allow(c.Request().Context(), c.RealIP())
			if err != nil {
				logger.Warn().Err(err).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", limit)
			h.Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
			h.Set("X-RateLimit-Reset", strconv.Itoa(int(math.Ceil(d.ResetIn.Seconds()))))
			if !d.Allowed {
				h.Set("Retry-After", strconv.Itoa(int(math.Ceil(d.ResetIn.Seconds()))))
				return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests, please try again later.")
			}
			return next(c)
		}
	}
}
