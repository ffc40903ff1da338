// AngelaMos | 2026
// seed_test.go

package product

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/panelcatalog/internal/core"
	"github.com/carterperez-dev/panelcatalog/internal/testutil"
)

func TestSeed_Idempotent(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()

	products := []Product{
		*sampleProduct("a", 100, true),
		*sampleProduct("b", 120, false),
	}

	n, err := Seed(ctx, db.DB, products)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = Seed(ctx, db.DB, products)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	repo := NewRepository(db.DB)
	all, err := repo.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSeed_SkipsSoftDeleted(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	repo := NewRepository(db.DB)

	require.NoError(t, repo.Create(ctx, sampleProduct("a", 100, true)))
	require.NoError(t, repo.SoftDelete(ctx, "a"))

	n, err := Seed(ctx, db.DB, []Product{*sampleProduct("a", 100, true)})
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = repo.GetByID(ctx, "a")
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestSeed_InvalidAbortsBatch(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()

	bad := *sampleProduct("bad", 100, true)
	bad.Type = "floor"

	_, err := Seed(ctx, db.DB, []Product{*sampleProduct("ok", 100, true), bad})
	require.Error(t, err)

	all, err := NewRepository(db.DB).List(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"id":"w1","name":"Wall","type":"wall","core":"EPS","thickness":60,"facing":"Steel"},
		{"id":"w2","name":"Wall 2","type":"wall","core":"EPS","thickness":80,"facing":"Steel","enabled":false}
	]`), 0o600))

	products, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.True(t, products[0].Enabled)
	assert.False(t, products[1].Enabled)
	assert.Equal(t, StringList{}, products[0].Color)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
