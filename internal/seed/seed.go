// AngelaMos | 2026
// seed.go

package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/carterperez-dev/panelcatalog/internal/catalog"
	"github.com/carterperez-dev/panelcatalog/internal/config"
	"github.com/carterperez-dev/panelcatalog/internal/core"
	"github.com/carterperez-dev/panelcatalog/internal/product"
	"github.com/carterperez-dev/panelcatalog/internal/user"
)

type Result struct {
	AdminCreated     bool
	ProductsInserted int
	ProductsTotal    int
}

// Run creates the bootstrap admin and inserts the seed products. Existing
// rows are left alone, so it is safe on every start.
func Run(ctx context.Context, db *core.Database, cfg config.SeedConfig) (*Result, error) {
	users := user.NewService(user.NewRepository(db.DB))

	created, err := users.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("seed admin: %w", err)
	}

	products, err := Products(cfg.ProductsFile)
	if err != nil {
		return nil, err
	}

	inserted, err := product.Seed(ctx, db.DB, products)
	if err != nil {
		return nil, err
	}

	res := &Result{
		AdminCreated:     created,
		ProductsInserted: inserted,
		ProductsTotal:    len(products),
	}

	slog.Info("seed complete",
		"admin_user", cfg.AdminUsername,
		"admin_created", res.AdminCreated,
		"products_inserted", res.ProductsInserted,
		"products_total", res.ProductsTotal,
	)

	return res, nil
}

// Products reads path, or returns the bundled catalog when path is empty.
func Products(path string) ([]product.Product, error) {
	if path == "" {
		return catalog.Static()
	}
	return product.LoadFile(path)
}
