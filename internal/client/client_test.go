// AngelaMos | 2026
// client_test.go

package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/panelcatalog/internal/auth"
	"github.com/carterperez-dev/panelcatalog/internal/core"
	"github.com/carterperez-dev/panelcatalog/internal/middleware"
	"github.com/carterperez-dev/panelcatalog/internal/product"
	"github.com/carterperez-dev/panelcatalog/internal/testutil"
	"github.com/carterperez-dev/panelcatalog/internal/user"
)

const (
	adminUser = "admin"
	adminPass = "ChangeMe!123"
)

func newAPI(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := testutil.TestConfig()
	db := testutil.NewSQLiteDB(t)

	users := user.NewService(user.NewRepository(db.DB))
	_, err := users.EnsureAdmin(context.Background(), adminUser, adminPass)
	require.NoError(t, err)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	require.NoError(t, err)
	authenticator := middleware.Authenticator(jwtManager)

	authHandler := auth.NewHandler(auth.NewService(jwtManager, users))
	productHandler := product.NewHandler(
		product.NewService(product.NewRepository(db.DB)),
	)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticator, nil)
		productHandler.RegisterRoutes(r, authenticator)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func ptr[T any](v T) *T { return &v }

func sampleRequest(id string) product.ProductRequest {
	return product.ProductRequest{
		ID:        id,
		Name:      "PIR Roof Panel Standard",
		Type:      product.TypeRoof,
		Core:      "PIR",
		Thickness: ptr(100),
		Facing:    "Steel 0.5mm",
		FireClass: ptr("B-s1,d0"),
		Color:     []string{"White", "Grey"},
	}
}

func TestClient_AdminFlow(t *testing.T) {
	srv := newAPI(t)
	ctx := context.Background()
	c := New(srv.URL+"/api", nil)

	_, err := c.CreateProduct(ctx, sampleRequest("pir-roof-001"))
	require.Error(t, err)
	assert.True(t, IsAPIError(err, "TOKEN_MISSING"))

	login, err := c.Login(ctx, adminUser, adminPass)
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, login.Token, c.Session().Token())

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, adminUser, me.Username)

	created, err := c.CreateProduct(ctx, sampleRequest("pir-roof-001"))
	require.NoError(t, err)
	assert.True(t, created.Enabled)

	toggled, err := c.ToggleProduct(ctx, "pir-roof-001")
	require.NoError(t, err)
	assert.False(t, toggled.Enabled)

	visible, err := c.ListProducts(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, visible)

	all, err := c.ListProducts(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	update := sampleRequest("ignored")
	update.Name = "Renamed"
	updated, err := c.UpdateProduct(ctx, "pir-roof-001", update)
	require.NoError(t, err)
	assert.Equal(t, "pir-roof-001", updated.ID)
	assert.Equal(t, "Renamed", updated.Name)

	require.NoError(t, c.DeleteProduct(ctx, "pir-roof-001"))

	_, err = c.GetProduct(ctx, "pir-roof-001")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
}

func TestClient_LoginFailure(t *testing.T) {
	srv := newAPI(t)
	c := New(srv.URL+"/api", nil)

	_, err := c.Login(context.Background(), adminUser, "wrong-password")

	assert.True(t, IsAPIError(err, "INVALID_CREDENTIALS"))
	assert.False(t, c.Session().Authenticated())
}

func TestClient_ValidationDetails(t *testing.T) {
	srv := newAPI(t)
	ctx := context.Background()
	c := New(srv.URL+"/api", nil)
	_, err := c.Login(ctx, adminUser, adminPass)
	require.NoError(t, err)

	req := sampleRequest("bad")
	req.Thickness = nil
	_, err = c.CreateProduct(ctx, req)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	require.NotEmpty(t, apiErr.FieldErrors())
	assert.Equal(t, "thickness", apiErr.FieldErrors()[0].Field)
}

func TestClient_Catalog_FromAPI(t *testing.T) {
	srv := newAPI(t)
	ctx := context.Background()
	c := New(srv.URL+"/api", nil)
	_, err := c.Login(ctx, adminUser, adminPass)
	require.NoError(t, err)
	_, err = c.CreateProduct(ctx, sampleRequest("only-one"))
	require.NoError(t, err)

	products, fallback, err := New(srv.URL+"/api", nil).Catalog(ctx, true)

	require.NoError(t, err)
	assert.False(t, fallback)
	require.Len(t, products, 1)
	assert.Equal(t, "only-one", products[0].ID)
}

func TestClient_Catalog_FallbackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		core.JSONError(w, core.InternalError(errors.New("boom")))
	}))
	t.Cleanup(srv.Close)

	products, fallback, err := New(srv.URL, nil).Catalog(context.Background(), true)

	require.NoError(t, err)
	assert.True(t, fallback)
	assert.Len(t, products, 6)
	for _, p := range products {
		assert.True(t, p.Enabled)
	}
}

func TestClient_Catalog_FallbackOnConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	products, fallback, err := New(url, nil).Catalog(context.Background(), false)

	require.NoError(t, err)
	assert.True(t, fallback)
	assert.Len(t, products, 6)
}

func TestClient_Catalog_FallbackOnMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"not":"a list"`)) //nolint:errcheck
	}))
	t.Cleanup(srv.Close)

	_, fallback, err := New(srv.URL, nil).Catalog(context.Background(), true)

	require.NoError(t, err)
	assert.True(t, fallback)
}

func TestClient_Catalog_CancelledIsNotMasked(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(block)
		srv.Close()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	products, fallback, err := New(srv.URL, nil).Catalog(ctx, true)

	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, fallback)
	assert.Nil(t, products)
}

func TestSession_Concurrent(t *testing.T) {
	s := NewSession("")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.SetToken("t")
			_ = s.Token()
		}()
	}
	wg.Wait()

	assert.True(t, s.Authenticated())
	s.Clear()
	assert.False(t, s.Authenticated())
}
