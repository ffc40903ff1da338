// AngelaMos | 2026
// handler_test.go

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

var (
	healthy   = pingFunc(func(context.Context) error { return nil })
	unhealthy = pingFunc(func(context.Context) error { return errors.New("down") })
)

func serve(h *Handler, path string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	r.Route("/api", h.RegisterAPIRoutes)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestPing(t *testing.T) {
	rec := serve(NewHandler(nil, nil), "/api/health")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestReadiness(t *testing.T) {
	tests := []struct {
		name       string
		db, redis  Checker
		wantStatus int
		wantBody   string
	}{
		{"all healthy", healthy, healthy, http.StatusOK, "ok"},
		{"redis disabled", healthy, nil, http.StatusOK, "ok"},
		{"database down", unhealthy, nil, http.StatusServiceUnavailable, "degraded"},
		{"redis down", healthy, unhealthy, http.StatusServiceUnavailable, "degraded"},
		{"database missing", nil, nil, http.StatusServiceUnavailable, "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(NewHandler(tt.db, tt.redis), "/readyz")

			require.Equal(t, tt.wantStatus, rec.Code)

			var body ReadinessResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantBody, body.Status)
			require.Len(t, body.Checks, 2)
			assert.Equal(t, "database", body.Checks[0].Name)
			assert.Equal(t, "redis", body.Checks[1].Name)
		})
	}
}

func TestShutdown(t *testing.T) {
	h := NewHandler(healthy, nil)
	h.SetShutdown(true)

	assert.Equal(t, http.StatusServiceUnavailable, serve(h, "/healthz").Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(h, "/readyz").Code)
	assert.Equal(t, http.StatusOK, serve(h, "/api/health").Code)
}

func TestNotReady(t *testing.T) {
	h := NewHandler(healthy, nil)
	h.SetReady(false)

	rec := serve(h, "/readyz")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_ready")
	assert.Equal(t, http.StatusOK, serve(h, "/healthz").Code)
}
