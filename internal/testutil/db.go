// AngelaMos | 2026
// db.go

package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/panelcatalog/internal/config"
	"github.com/carterperez-dev/panelcatalog/internal/core"
)

// NewSQLiteDB opens a migrated SQLite database in a per-test directory and
// closes it on cleanup.
func NewSQLiteDB(t *testing.T) *core.Database {
	t.Helper()

	db, err := core.NewDatabase(context.Background(), config.DatabaseConfig{
		Driver: core.DriverSQLite,
		URL:    filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Close() //nolint:errcheck // test cleanup
	})

	require.NoError(t, db.Migrate())

	return db
}

// TestConfig returns a loaded-looking config without touching the
// environment.
func TestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "Panel Catalog API",
			Version:     "test",
			Environment: "test",
		},
		Server: config.ServerConfig{
			MaxBodyBytes: 1 << 20,
		},
		JWT: config.JWTConfig{
			Secret:            "test_secret_at_least_32_bytes_long!!",
			AccessTokenExpire: time.Hour,
			Issuer:            "panelcatalog",
			Audience:          "panelcatalog-admin",
		},
		AuthRateLimit: config.AuthRateLimitConfig{
			Requests: 50,
			Window:   10 * time.Minute,
		},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"http://localhost:5173"},
			AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
			MaxAge:         300,
		},
	}
}
