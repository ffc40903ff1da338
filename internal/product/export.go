// AngelaMos | 2026
// export.go

package product

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gocarina/gocsv"

	"github.com/carterperez-dev/panelcatalog/internal/core"
)

// csvRow flattens a product for spreadsheet use. List and map columns keep
// their stored JSON text.
type csvRow struct {
	ID             string `csv:"id"`
	Name           string `csv:"name"`
	Type           string `csv:"type"`
	Core           string `csv:"core"`
	Thickness      int    `csv:"thickness"`
	Facing         string `csv:"facing"`
	RValue         string `csv:"r_value"`
	UValue         string `csv:"u_value"`
	FireClass      string `csv:"fire_class"`
	Color          string `csv:"color"`
	Profile        string `csv:"profile"`
	Image          string `csv:"image"`
	Description    string `csv:"description"`
	Features       string `csv:"features"`
	Applications   string `csv:"applications"`
	Specifications string `csv:"specifications"`
	Datasheet      string `csv:"datasheet"`
	Enabled        bool   `csv:"enabled"`
}

func toCSVRow(p Product) (csvRow, error) {
	color, err := jsonText(p.Color)
	if err != nil {
		return csvRow{}, err
	}
	features, err := jsonText(p.Features)
	if err != nil {
		return csvRow{}, err
	}
	applications, err := jsonText(p.Applications)
	if err != nil {
		return csvRow{}, err
	}
	specs, err := jsonText(p.Specifications)
	if err != nil {
		return csvRow{}, err
	}

	return csvRow{
		ID:             p.ID,
		Name:           p.Name,
		Type:           p.Type,
		Core:           p.Core,
		Thickness:      p.Thickness,
		Facing:         p.Facing,
		RValue:         formatFloat(p.RValue),
		UValue:         formatFloat(p.UValue),
		FireClass:      deref(p.FireClass),
		Color:          color,
		Profile:        p.Profile,
		Image:          p.Image,
		Description:    p.Description,
		Features:       features,
		Applications:   applications,
		Specifications: specs,
		Datasheet:      deref(p.Datasheet),
		Enabled:        p.Enabled,
	}, nil
}

type jsonValuer interface {
	MarshalJSON() ([]byte, error)
}

func jsonText(v jsonValuer) (string, error) {
	b, err := v.MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("encode csv column: %w", err)
	}
	return string(b), nil
}

func formatFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// WriteCSV writes products with a header row.
func WriteCSV(w io.Writer, products []Product) error {
	rows := make([]csvRow, 0, len(products))
	for _, p := range products {
		row, err := toCSVRow(p)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}

	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.List(r.Context(), false)
	if err != nil {
		handleError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, products); err != nil {
		core.InternalServerError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="products.csv"`)
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // best-effort response write
	_, _ = buf.WriteTo(w)
}
