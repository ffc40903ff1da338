// AngelaMos | 2026
// facets.go

package catalog

import (
	"slices"

	"github.com/carterperez-dev/panelcatalog/internal/product"
)

// Facets lists the values a filter can choose from for a given product set.
type Facets struct {
	Types        []string `json:"types"`
	Cores        []string `json:"cores"`
	Facings      []string `json:"facings"`
	FireClasses  []string `json:"fireClasses"`
	Colors       []string `json:"colors"`
	Profiles     []string `json:"profiles"`
	ThicknessMin int      `json:"thicknessMin"`
	ThicknessMax int      `json:"thicknessMax"`
}

func BuildFacets(products []product.Product) Facets {
	var (
		types, cores, facings, fires, colors, profiles []string
	)

	f := Facets{}
	for i, p := range products {
		types = append(types, p.Type)
		cores = append(cores, p.Core)
		facings = append(facings, p.Facing)
		profiles = append(profiles, p.Profile)
		colors = append(colors, p.Color...)
		if p.HasFireClass() {
			fires = append(fires, *p.FireClass)
		}

		if i == 0 || p.Thickness < f.ThicknessMin {
			f.ThicknessMin = p.Thickness
		}
		if i == 0 || p.Thickness > f.ThicknessMax {
			f.ThicknessMax = p.Thickness
		}
	}

	f.Types = distinct(types)
	f.Cores = distinct(cores)
	f.Facings = distinct(facings)
	f.FireClasses = distinct(fires)
	f.Colors = distinct(colors)
	f.Profiles = distinct(profiles)

	return f
}

func distinct(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
