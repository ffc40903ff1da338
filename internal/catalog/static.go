// AngelaMos | 2026
// static.go

package catalog

import (
	_ "embed"
	"fmt"

	"github.com/carterperez-dev/panelcatalog/internal/product"
)

//go:embed products.json
var staticProducts []byte

// Static returns a fresh copy of the bundled product list. It backs the
// public view when the API is unreachable and is the default seed source.
func Static() ([]product.Product, error) {
	products, err := product.DecodeList(staticProducts)
	if err != nil {
		return nil, fmt.Errorf("bundled catalog: %w", err)
	}
	return products, nil
}
