// AngelaMos | 2026
// seed.go

package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/panelcatalog/internal/core"
)

// Seed inserts products in one transaction and skips ids that already
// exist, so running it twice is harmless. It returns how many rows were
// written. An invalid product aborts the whole batch.
func Seed(ctx context.Context, db *sqlx.DB, products []Product) (int, error) {
	v := core.NewValidator()

	validated := make([]*Product, 0, len(products))
	for _, p := range products {
		vp, err := validateRequest(v, RequestFromProduct(p))
		if err != nil {
			return 0, fmt.Errorf("seed product %q: %w", p.ID, err)
		}
		validated = append(validated, vp)
	}

	inserted := 0
	err := core.InTx(ctx, db, func(tx *sqlx.Tx) error {
		repo := NewRepository(tx)
		for _, p := range validated {
			err := repo.Create(ctx, p)
			if errors.Is(err, core.ErrDuplicateKey) {
				slog.Debug("seed skipped existing product", "id", p.ID)
				continue
			}
			if err != nil {
				return err
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("seed products: %w", err)
	}

	return inserted, nil
}

// LoadFile reads a JSON array of products in the API wire format.
func LoadFile(path string) ([]Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read products file: %w", err)
	}

	return DecodeList(data)
}

// DecodeList parses a JSON array of products. Omitted fields get the same
// defaults as a create request.
func DecodeList(data []byte) ([]Product, error) {
	var reqs []ProductRequest
	if err := json.Unmarshal(data, &reqs); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}

	products := make([]Product, 0, len(reqs))
	for i := range reqs {
		reqs[i].Normalize()
		products = append(products, *reqs[i].ToProduct())
	}

	return products, nil
}
