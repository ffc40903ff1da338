// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/carterperez-dev/panelcatalog/internal/config"
	"github.com/carterperez-dev/panelcatalog/internal/core"
	"github.com/carterperez-dev/panelcatalog/internal/seed"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	productsFile := flag.String("products", "", "JSON product list (default: bundled catalog)")
	flag.Parse()

	if err := run(*configPath, *productsFile); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, productsFile string) error {
	ctx := context.Background()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	slog.SetDefault(core.NewLogger(cfg.Log))

	if productsFile != "" {
		cfg.Seed.ProductsFile = productsFile
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck

	if err := db.Migrate(); err != nil {
		return err
	}

	_, err = seed.Run(ctx, db, cfg.Seed)
	return err
}
