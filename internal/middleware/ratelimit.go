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

	"github.com/carterperez-dev/panelcatalog/internal/core"
)

type RateLimitConfig struct {
	Limit redis_rate.Limit
	// Window counts every request seen in the trailing Limit.Period
	// instead of refilling a token bucket. Burst is ignored.
	Window     bool
	KeyFunc    func(*http.Request) string
	FailOpen   bool
	BypassFunc func(*http.Request) bool
}

// RateLimiter counts in Redis when a client is supplied and falls back to
// in-process state per key otherwise or when Redis errors.
type RateLimiter struct {
	rdb      *redis.Client
	limiter  *redis_rate.Limiter
	fallback *localLimiter
	config   RateLimitConfig
}

func NewRateLimiter(rdb *redis.Client, cfg RateLimitConfig) *RateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = KeyByIP
	}

	rl := &RateLimiter{
		fallback: newLocalLimiter(cfg.Limit.Period),
		config:   cfg,
	}
	if rdb != nil {
		rl.rdb = rdb
		rl.limiter = redis_rate.NewLimiter(rdb)
	}

	return rl
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.config.BypassFunc != nil && rl.config.BypassFunc(r) {
			next.ServeHTTP(w, r)
			return
		}

		key := rl.config.KeyFunc(r)
		res, err := rl.allow(r.Context(), key)
		if err != nil {
			if rl.config.FailOpen {
				slog.Warn("rate limiter error, failing open",
					"error", err,
					"key", key,
				)
				next.ServeHTTP(w, r)
				return
			}
			core.JSONError(w, core.NewAppError(
				err,
				"rate limiter unavailable",
				http.StatusServiceUnavailable,
				"SERVICE_UNAVAILABLE",
			))
			return
		}

		setRateLimitHeaders(w, res, rl.config.Limit)

		if res.Allowed == 0 {
			writeRateLimitExceeded(w, res)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(
	ctx context.Context,
	key string,
) (*redis_rate.Result, error) {
	local := rl.fallback.allow
	if rl.config.Window {
		local = rl.fallback.allowWindow
	}
	if rl.rdb == nil {
		return local(key, rl.config.Limit, time.Now())
	}

	var (
		res *redis_rate.Result
		err error
	)
	if rl.config.Window {
		res, err = allowWindowRedis(ctx, rl.rdb, key, rl.config.Limit, time.Now())
	} else {
		res, err = rl.limiter.Allow(ctx, key, rl.config.Limit)
	}
	if err != nil {
		slog.Debug("redis rate limit failed, using local limiter",
			"error", err,
		)
		return local(key, rl.config.Limit, time.Now())
	}
	return res, nil
}

// windowScript keeps one sorted-set member per admitted request scored by
// its arrival in milliseconds. Rejected requests are not recorded.
var windowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
local admitted = 0
if count < limit then
  redis.call('ZADD', key, now, ARGV[4])
  redis.call('PEXPIRE', key, window)
  count = count + 1
  admitted = 1
end
local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
local reset = window
if oldest[2] then
  reset = tonumber(oldest[2]) + window - now
end
if admitted == 0 then
  return {0, 0, reset}
end
return {1, limit - count, reset}
`)

func allowWindowRedis(
	ctx context.Context,
	rdb *redis.Client,
	key string,
	limit redis_rate.Limit,
	now time.Time,
) (*redis_rate.Result, error) {
	if limit.Rate <= 0 || limit.Period <= 0 {
		return nil, fmt.Errorf("invalid rate limit %d/%s", limit.Rate, limit.Period)
	}
	nowMs := now.UnixMilli()
	vals, err := windowScript.Run(ctx, rdb, []string{"window:" + key},
		nowMs,
		limit.Period.Milliseconds(),
		limit.Rate,
		strconv.FormatInt(nowMs, 10)+"-"+uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("window rate limit: %w", err)
	}
	if len(vals) != 3 {
		return nil, fmt.Errorf("window rate limit: unexpected reply %v", vals)
	}

	res := &redis_rate.Result{
		Limit:      limit,
		Allowed:    int(vals[0]),
		Remaining:  int(vals[1]),
		RetryAfter: -1,
		ResetAfter: time.Duration(vals[2]) * time.Millisecond,
	}
	if res.Allowed == 0 {
		res.RetryAfter = res.ResetAfter
	}
	return res, nil
}

func KeyByIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		ip := strings.TrimSpace(ips[len(ips)-1])
		return "ratelimit:ip:" + ip
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return "ratelimit:ip:" + xri
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}

	return "ratelimit:ip:" + ip
}

// KeyByIPFor namespaces the per-IP key so separate limiters sharing one
// Redis do not consume each other's budget.
func KeyByIPFor(scope string) func(*http.Request) string {
	return func(r *http.Request) string {
		return scope + ":" + KeyByIP(r)
	}
}

func setRateLimitHeaders(
	w http.ResponseWriter,
	res *redis_rate.Result,
	limit redis_rate.Limit,
) {
	h := w.Header()

	h.Set("X-RateLimit-Limit", strconv.Itoa(limit.Rate))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(
		time.Now().Add(res.ResetAfter).Unix(), 10))

	windowSecs := int(limit.Period.Seconds())
	h.Set("RateLimit-Policy", fmt.Sprintf(`%d;w=%d`, limit.Rate, windowSecs))
}

func writeRateLimitExceeded(w http.ResponseWriter, res *redis_rate.Result) {
	retryAfter := int(res.RetryAfter.Seconds())
	if retryAfter < 1 {
		retryAfter = 1
	}

	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

	core.JSONError(w, core.NewAppError(
		nil,
		fmt.Sprintf("Rate limit exceeded. Retry after %d seconds.", retryAfter),
		http.StatusTooManyRequests,
		"RATE_LIMITED",
	))
}

type limiterEntry struct {
	limiter    *rate.Limiter
	hits       []time.Time
	lastAccess time.Time
}

// localLimiter drops idle entries while serving requests, at most once per
// ttl, so it needs no background goroutine.
type localLimiter struct {
	mu        sync.Mutex
	entries   map[string]*limiterEntry
	ttl       time.Duration
	lastPrune time.Time
}

const minEntryTTL = 10 * time.Minute

func newLocalLimiter(period time.Duration) *localLimiter {
	ttl := period
	if ttl < minEntryTTL {
		ttl = minEntryTTL
	}
	return &localLimiter{
		entries: make(map[string]*limiterEntry),
		ttl:     ttl,
	}
}

func (l *localLimiter) allow(
	key string,
	limit redis_rate.Limit,
	now time.Time,
) (*redis_rate.Result, error) {
	if limit.Rate <= 0 || limit.Period <= 0 {
		return nil, fmt.Errorf("invalid rate limit %d/%s", limit.Rate, limit.Period)
	}

	ratePerSec := float64(limit.Rate) / limit.Period.Seconds()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.pruneLocked(now)

	entry, ok := l.entries[key]
	if !ok {
		entry = &limiterEntry{
			limiter: rate.NewLimiter(rate.Limit(ratePerSec), limit.Burst),
		}
		l.entries[key] = entry
	}
	entry.lastAccess = now

	allowed := entry.limiter.AllowN(now, 1)

	remaining := int(entry.limiter.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}

	perToken := time.Duration(float64(time.Second) / ratePerSec)

	retryAfter := time.Duration(-1)
	allowedInt := 1
	if !allowed {
		retryAfter = perToken
		allowedInt = 0
	}

	return &redis_rate.Result{
		Limit:      limit,
		Allowed:    allowedInt,
		Remaining:  remaining,
		RetryAfter: retryAfter,
		ResetAfter: perToken,
	}, nil
}

// allowWindow admits a request when fewer than limit.Rate requests were
// admitted for key during the trailing limit.Period.
func (l *localLimiter) allowWindow(
	key string,
	limit redis_rate.Limit,
	now time.Time,
) (*redis_rate.Result, error) {
	if limit.Rate <= 0 || limit.Period <= 0 {
		return nil, fmt.Errorf("invalid rate limit %d/%s", limit.Rate, limit.Period)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.pruneLocked(now)

	entry, ok := l.entries[key]
	if !ok {
		entry = &limiterEntry{}
		l.entries[key] = entry
	}
	entry.lastAccess = now

	cutoff := now.Add(-limit.Period)
	expired := 0
	for expired < len(entry.hits) && !entry.hits[expired].After(cutoff) {
		expired++
	}
	entry.hits = entry.hits[expired:]

	res := &redis_rate.Result{Limit: limit, RetryAfter: -1}
	if len(entry.hits) >= limit.Rate {
		res.ResetAfter = entry.hits[0].Add(limit.Period).Sub(now)
		res.RetryAfter = res.ResetAfter
		return res, nil
	}

	entry.hits = append(entry.hits, now)
	res.Allowed = 1
	res.Remaining = limit.Rate - len(entry.hits)
	res.ResetAfter = entry.hits[0].Add(limit.Period).Sub(now)
	return res, nil
}

func (l *localLimiter) pruneLocked(now time.Time) {
	if now.Sub(l.lastPrune) < l.ttl {
		return
	}
	l.lastPrune = now

	cutoff := now.Add(-l.ttl)
	for key, entry := range l.entries {
		if entry.lastAccess.Before(cutoff) {
			delete(l.entries, key)
		}
	}
}

func (l *localLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func PerMinute(rate, burst int) redis_rate.Limit {
	return redis_rate.Limit{
		Rate:   rate,
		Burst:  burst,
		Period: time.Minute,
	}
}

// PerWindow allows requests events per window. Pair it with
// RateLimitConfig.Window for a hard cap over any trailing window.
func PerWindow(requests int, window time.Duration) redis_rate.Limit {
	return redis_rate.Limit{
		Rate:   requests,
		Burst:  requests,
		Period: window,
	}
}
