// AngelaMos | 2026
// handler_test.go

package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/panelcatalog/internal/core"
	"github.com/carterperez-dev/panelcatalog/internal/middleware"
)

func newTestRouter(t *testing.T, limit int) (http.Handler, *JWTManager) {
	t.Helper()

	svc, m, _ := newTestService(t)
	h := NewHandler(svc)

	limiter := middleware.NewRateLimiter(nil, middleware.RateLimitConfig{
		Limit:  middleware.PerWindow(limit, 10*time.Minute),
		Window: true,
	})

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		h.RegisterRoutes(r, middleware.Authenticator(m), limiter.Handler)
	})
	return r, m
}

func doJSON(
	t *testing.T,
	h http.Handler,
	method, path, body, token string,
) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body core.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	return body.Error.Code
}

func TestHandler_Login(t *testing.T) {
	r, _ := newTestRouter(t, 50)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "malformed json",
			body:       `{"username":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "BAD_REQUEST",
		},
		{
			name:       "missing username",
			body:       `{"password":"ChangeMe!123"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
		{
			name:       "short password",
			body:       `{"username":"admin","password":"short"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
		{
			name:       "wrong password",
			body:       `{"username":"admin","password":"wrong-password"}`,
			wantStatus: http.StatusUnauthorized,
			wantCode:   "INVALID_CREDENTIALS",
		},
		{
			name:       "unknown user",
			body:       `{"username":"ghost","password":"ChangeMe!123"}`,
			wantStatus: http.StatusUnauthorized,
			wantCode:   "INVALID_CREDENTIALS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, r, http.MethodPost, "/api/auth/login", tt.body, "")
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, errorCode(t, rec))
		})
	}
}

func TestHandler_LoginAndMe(t *testing.T) {
	r, _ := newTestRouter(t, 50)

	rec := doJSON(t, r, http.MethodPost, "/api/auth/login",
		`{"username":"  admin ","password":"ChangeMe!123"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Limit"))

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, UserResponse{ID: "user-1", Username: "admin", Role: "admin"}, resp.User)

	rec = doJSON(t, r, http.MethodGet, "/api/auth/me", "", resp.Token)
	require.Equal(t, http.StatusOK, rec.Code)

	var me UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, resp.User, me)
}

func TestHandler_Me_Unauthorized(t *testing.T) {
	r, _ := newTestRouter(t, 50)

	rec := doJSON(t, r, http.MethodGet, "/api/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "TOKEN_MISSING", errorCode(t, rec))

	rec = doJSON(t, r, http.MethodGet, "/api/auth/me", "", "abc.def.ghi")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "TOKEN_INVALID", errorCode(t, rec))
}

func TestHandler_Login_RateLimited(t *testing.T) {
	r, _ := newTestRouter(t, 50)

	body := `{"username":"ghost","password":"ChangeMe!123"}`
	for i := 0; i < 50; i++ {
		rec := doJSON(t, r, http.MethodPost, "/api/auth/login", body, "")
		require.Equal(t, http.StatusUnauthorized, rec.Code, "attempt %d", i+1)
	}

	rec := doJSON(t, r, http.MethodPost, "/api/auth/login", body, "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "RATE_LIMITED", errorCode(t, rec))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
}

func TestHandler_Me_SharesAuthBudget(t *testing.T) {
	r, _ := newTestRouter(t, 3)

	rec := doJSON(t, r, http.MethodPost, "/api/auth/login",
		`{"username":"admin","password":"ChangeMe!123"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	for i := 0; i < 2; i++ {
		rec = doJSON(t, r, http.MethodGet, "/api/auth/me", "", resp.Token)
		require.Equal(t, http.StatusOK, rec.Code, "attempt %d", i+1)
	}

	rec = doJSON(t, r, http.MethodGet, "/api/auth/me", "", resp.Token)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "RATE_LIMITED", errorCode(t, rec))

	rec = doJSON(t, r, http.MethodGet, "/api/auth/me", "", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
