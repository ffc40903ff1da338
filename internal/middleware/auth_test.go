// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/panelcatalog/internal/core"
)

type stubVerifier struct {
	claims *AccessTokenClaims
	err    error
}

func (s stubVerifier) VerifyAccessToken(
	_ context.Context,
	_ string,
) (*AccessTokenClaims, error) {
	return s.claims, s.err
}

func decodeCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body core.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Code
}

func TestAuthenticator(t *testing.T) {
	okClaims := &AccessTokenClaims{UserID: "u1", Username: "admin", Role: "admin"}

	tests := []struct {
		name       string
		header     string
		verifier   stubVerifier
		wantStatus int
		wantCode   string
	}{
		{
			name:       "no header",
			verifier:   stubVerifier{claims: okClaims},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "TOKEN_MISSING",
		},
		{
			name:       "wrong scheme",
			header:     "Basic YWRtaW46cGFzcw==",
			verifier:   stubVerifier{claims: okClaims},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "TOKEN_MISSING",
		},
		{
			name:       "invalid",
			header:     "Bearer bad",
			verifier:   stubVerifier{err: fmt.Errorf("verify: %w", core.ErrTokenInvalid)},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "TOKEN_INVALID",
		},
		{
			name:       "expired",
			header:     "Bearer old",
			verifier:   stubVerifier{err: fmt.Errorf("verify: %w", core.ErrTokenExpired)},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "TOKEN_EXPIRED",
		},
		{
			name:       "valid",
			header:     "bearer good",
			verifier:   stubVerifier{claims: okClaims},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen *AccessTokenClaims
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = GetClaims(r.Context())
				assert.Equal(t, "u1", GetUserID(r.Context()))
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/api/products", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			Authenticator(tt.verifier)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeCode(t, rec))
				assert.Nil(t, seen)
				return
			}
			assert.Equal(t, okClaims, seen)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name       string
		role       string
		wantStatus int
		wantCode   string
	}{
		{name: "admin", role: "admin", wantStatus: http.StatusNoContent},
		{name: "other role", role: "editor", wantStatus: http.StatusForbidden, wantCode: "FORBIDDEN"},
		{name: "anonymous", role: "", wantStatus: http.StatusUnauthorized, wantCode: "TOKEN_MISSING"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
			if tt.role != "" {
				req = req.WithContext(
					context.WithValue(req.Context(), UserRoleKey, tt.role),
				)
			}
			rec := httptest.NewRecorder()
			RequireAdmin(next).ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeCode(t, rec))
			}
		})
	}
}
