// AngelaMos | 2026
// filter.go

package catalog

import (
	"slices"
	"strings"

	"github.com/carterperez-dev/panelcatalog/internal/product"
)

const (
	DefaultThicknessMin = 40
	DefaultThicknessMax = 200
)

// Filter narrows a product list the way the public catalog sidebar does.
// Empty sets match everything. A nil thickness bound is open on that side.
type Filter struct {
	Search       string
	Types        []string
	Cores        []string
	ThicknessMin *int
	ThicknessMax *int
	Facings      []string
	FireClasses  []string
	Colors       []string
	Profiles     []string
}

// DefaultFilter is the state the catalog page opens with.
func DefaultFilter() Filter {
	lo, hi := DefaultThicknessMin, DefaultThicknessMax
	return Filter{
		ThicknessMin: &lo,
		ThicknessMax: &hi,
	}
}

// WithThickness returns a copy of f bounded to [lo, hi] inclusive.
func (f Filter) WithThickness(lo, hi int) Filter {
	f.ThicknessMin = &lo
	f.ThicknessMax = &hi
	return f
}

func (f Filter) Match(p product.Product) bool {
	if !matchesSearch(p, f.Search) {
		return false
	}

	if !inSet(f.Types, p.Type) ||
		!inSet(f.Cores, p.Core) ||
		!inSet(f.Facings, p.Facing) ||
		!inSet(f.Profiles, p.Profile) {
		return false
	}

	if f.ThicknessMin != nil && p.Thickness < *f.ThicknessMin {
		return false
	}
	if f.ThicknessMax != nil && p.Thickness > *f.ThicknessMax {
		return false
	}

	if len(f.FireClasses) > 0 {
		if !p.HasFireClass() || !slices.Contains(f.FireClasses, *p.FireClass) {
			return false
		}
	}

	if len(f.Colors) > 0 &&
		!slices.ContainsFunc(p.Color, func(c string) bool {
			return slices.Contains(f.Colors, c)
		}) {
		return false
	}

	return true
}

// Apply keeps the products f matches, in input order.
func Apply(products []product.Product, f Filter) []product.Product {
	out := make([]product.Product, 0, len(products))
	for _, p := range products {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// EnabledOnly drops products hidden from the public view.
func EnabledOnly(products []product.Product) []product.Product {
	out := make([]product.Product, 0, len(products))
	for _, p := range products {
		if p.Enabled {
			out = append(out, p)
		}
	}
	return out
}

// matchesSearch uses term as typed. Whitespace is significant, so " " only
// matches text containing a space.
func matchesSearch(p product.Product, term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)

	if strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Description), term) {
		return true
	}

	return slices.ContainsFunc(p.Features, func(feature string) bool {
		return strings.Contains(strings.ToLower(feature), term)
	})
}

func inSet(set []string, v string) bool {
	return len(set) == 0 || slices.Contains(set, v)
}
