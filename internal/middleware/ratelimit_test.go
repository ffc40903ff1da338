// AngelaMos | 2026
// ratelimit_test.go

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_LocalOnly(t *testing.T) {
	rl := NewRateLimiter(nil, RateLimitConfig{
		Limit:  PerWindow(3, 10*time.Minute),
		Window: true,
	})

	h := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(remoteAddr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = remoteAddr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 3; i++ {
		rec := send("10.0.0.1:5000")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
	}

	rec := send("10.0.0.1:5001")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "RATE_LIMITED", decodeCode(t, rec))

	rec = send("10.0.0.2:5000")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter_Bypass(t *testing.T) {
	rl := NewRateLimiter(nil, RateLimitConfig{
		Limit:      PerWindow(1, time.Minute),
		BypassFunc: func(*http.Request) bool { return true },
	})
	h := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestLocalLimiter_PrunesIdleEntries(t *testing.T) {
	l := newLocalLimiter(time.Minute)
	limit := PerWindow(5, time.Minute)
	start := time.Unix(1_700_000_000, 0)

	_, err := l.allow("a", limit, start)
	require.NoError(t, err)
	_, err = l.allow("b", limit, start)
	require.NoError(t, err)
	assert.Equal(t, 2, l.size())

	later := start.Add(minEntryTTL + time.Second)
	_, err = l.allow("c", limit, later)
	require.NoError(t, err)
	assert.Equal(t, 1, l.size())
}

func TestLocalLimiter_TokenBucketRefills(t *testing.T) {
	l := newLocalLimiter(time.Minute)
	limit := PerMinute(2, 2)
	now := time.Unix(1_700_000_000, 0)

	for i := 0; i < 2; i++ {
		res, err := l.allow("k", limit, now)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Allowed)
	}

	res, err := l.allow("k", limit, now)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Allowed)
	assert.Positive(t, res.RetryAfter)

	res, err = l.allow("k", limit, now.Add(31*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Allowed)
}

func TestLocalLimiter_WindowHoldsUntilOldestExpires(t *testing.T) {
	l := newLocalLimiter(10 * time.Minute)
	limit := PerWindow(50, 10*time.Minute)
	t0 := time.Unix(1_700_000_000, 0)

	for i := 0; i < 50; i++ {
		res, err := l.allowWindow("k", limit, t0)
		require.NoError(t, err)
		require.Equal(t, 1, res.Allowed, "attempt %d", i+1)
		assert.Equal(t, 49-i, res.Remaining)
	}

	for at := t0.Add(12 * time.Second); at.Before(t0.Add(10 * time.Minute)); at = at.Add(12 * time.Second) {
		res, err := l.allowWindow("k", limit, at)
		require.NoError(t, err)
		require.Equal(t, 0, res.Allowed, "at +%s", at.Sub(t0))
		assert.Equal(t, 0, res.Remaining)
		assert.Equal(t, t0.Add(10*time.Minute).Sub(at), res.RetryAfter)
	}

	res, err := l.allowWindow("k", limit, t0.Add(10*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Allowed)
}

func TestLocalLimiter_WindowSlides(t *testing.T) {
	l := newLocalLimiter(time.Minute)
	limit := PerWindow(2, time.Minute)
	t0 := time.Unix(1_700_000_000, 0)

	res, err := l.allowWindow("k", limit, t0)
	require.NoError(t, err)
	require.Equal(t, 1, res.Allowed)
	res, err = l.allowWindow("k", limit, t0.Add(40*time.Second))
	require.NoError(t, err)
	require.Equal(t, 1, res.Allowed)

	// The first hit has aged out but the second still counts.
	res, err = l.allowWindow("k", limit, t0.Add(61*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Allowed)
	assert.Equal(t, 0, res.Remaining)

	res, err = l.allowWindow("k", limit, t0.Add(70*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Allowed)
	assert.Equal(t, 30*time.Second, res.RetryAfter)
}

func TestLocalLimiter_InvalidLimit(t *testing.T) {
	l := newLocalLimiter(time.Minute)
	_, err := l.allow("k", PerWindow(0, time.Minute), time.Now())
	require.Error(t, err)
	_, err = l.allowWindow("k", PerWindow(0, time.Minute), time.Now())
	require.Error(t, err)
}

func TestKeyByIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.10:1234"
	assert.Equal(t, "ratelimit:ip:192.0.2.10", KeyByIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.1, 198.51.100.7")
	assert.Equal(t, "ratelimit:ip:198.51.100.7", KeyByIP(req))

	assert.Equal(t, "auth:ratelimit:ip:198.51.100.7", KeyByIPFor("auth")(req))
}
