// AngelaMos | 2026
// dto.go

package product

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ProductRequest is the body of create and update. Optional fields left out
// of the JSON take their documented defaults in ToProduct.
type ProductRequest struct {
	ID             string            `json:"id"             validate:"required,max=100"`
	Name           string            `json:"name"           validate:"required,max=200"`
	Type           string            `json:"type"           validate:"required,oneof=roof wall cold-room fire-rated doors accessories"`
	Core           string            `json:"core"           validate:"required,max=100"`
	Thickness      *int              `json:"thickness"      validate:"required,gte=0"`
	Facing         string            `json:"facing"         validate:"required,max=200"`
	RValue         *float64          `json:"rValue"`
	UValue         *float64          `json:"uValue"`
	FireClass      *string           `json:"fireClass"      validate:"omitempty,max=50"`
	Color          []string          `json:"color"`
	Profile        string            `json:"profile"        validate:"max=200"`
	Image          string            `json:"image"          validate:"max=500"`
	Description    string            `json:"description"`
	Features       []string          `json:"features"`
	Applications   []string          `json:"applications"`
	Specifications map[string]string `json:"specifications"`
	Datasheet      *string           `json:"datasheet"      validate:"omitempty,max=500"`
	Enabled        *bool             `json:"enabled"`

	// thicknessInvalid marks a thickness that was present but not a whole
	// number, reported as a field error instead of a decode failure.
	thicknessInvalid bool
}

// UnmarshalJSON accepts thickness as any JSON number or numeric string with
// an integral value, so 100, 1e2 and "100" all decode to 100.
func (r *ProductRequest) UnmarshalJSON(data []byte) error {
	type plain ProductRequest
	aux := struct {
		*plain
		Thickness json.RawMessage `json:"thickness"`
	}{plain: (*plain)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	r.Thickness = nil
	r.thicknessInvalid = false
	raw := bytes.TrimSpace(aux.Thickness)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	n, ok := parseThickness(raw)
	if !ok {
		r.thicknessInvalid = true
		return nil
	}
	r.Thickness = &n
	return nil
}

func parseThickness(raw json.RawMessage) (int, bool) {
	text := string(raw)
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		text = strings.TrimSpace(s)
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// Normalize trims the text fields and turns blank optional strings into
// nil so they are stored as NULL.
func (r *ProductRequest) Normalize() {
	r.ID = strings.TrimSpace(r.ID)
	r.Name = strings.TrimSpace(r.Name)
	r.Type = strings.TrimSpace(r.Type)
	r.Core = strings.TrimSpace(r.Core)
	r.Facing = strings.TrimSpace(r.Facing)
	r.Profile = strings.TrimSpace(r.Profile)
	r.Image = strings.TrimSpace(r.Image)
	r.FireClass = trimOptional(r.FireClass)
	r.Datasheet = trimOptional(r.Datasheet)
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// ToProduct applies defaults: empty lists and map, enabled true.
func (r *ProductRequest) ToProduct() *Product {
	p := &Product{
		ID:             r.ID,
		Name:           r.Name,
		Type:           r.Type,
		Core:           r.Core,
		Facing:         r.Facing,
		RValue:         r.RValue,
		UValue:         r.UValue,
		FireClass:      r.FireClass,
		Color:          StringList{},
		Profile:        r.Profile,
		Image:          r.Image,
		Description:    r.Description,
		Features:       StringList{},
		Applications:   StringList{},
		Specifications: SpecMap{},
		Datasheet:      r.Datasheet,
		Enabled:        true,
	}

	if r.Thickness != nil {
		p.Thickness = *r.Thickness
	}
	if r.Color != nil {
		p.Color = StringList(r.Color)
	}
	if r.Features != nil {
		p.Features = StringList(r.Features)
	}
	if r.Applications != nil {
		p.Applications = StringList(r.Applications)
	}
	if r.Specifications != nil {
		p.Specifications = SpecMap(r.Specifications)
	}
	if r.Enabled != nil {
		p.Enabled = *r.Enabled
	}

	return p
}

// RequestFromProduct is the inverse of ToProduct, used by clients and the
// seed loader.
func RequestFromProduct(p Product) ProductRequest {
	thickness := p.Thickness
	enabled := p.Enabled
	return ProductRequest{
		ID:             p.ID,
		Name:           p.Name,
		Type:           p.Type,
		Core:           p.Core,
		Thickness:      &thickness,
		Facing:         p.Facing,
		RValue:         p.RValue,
		UValue:         p.UValue,
		FireClass:      p.FireClass,
		Color:          p.Color,
		Profile:        p.Profile,
		Image:          p.Image,
		Description:    p.Description,
		Features:       p.Features,
		Applications:   p.Applications,
		Specifications: p.Specifications,
		Datasheet:      p.Datasheet,
		Enabled:        &enabled,
	}
}
