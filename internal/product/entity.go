// AngelaMos | 2026
// entity.go

package product

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	TypeRoof        = "roof"
	TypeWall        = "wall"
	TypeColdRoom    = "cold-room"
	TypeFireRated   = "fire-rated"
	TypeDoors       = "doors"
	TypeAccessories = "accessories"
)

// Types lists the accepted category tags in display order.
var Types = []string{
	TypeRoof,
	TypeWall,
	TypeColdRoom,
	TypeFireRated,
	TypeDoors,
	TypeAccessories,
}

type Product struct {
	ID             string     `db:"id"             json:"id"`
	Name           string     `db:"name"           json:"name"`
	Type           string     `db:"type"           json:"type"`
	Core           string     `db:"core"           json:"core"`
	Thickness      int        `db:"thickness"      json:"thickness"`
	Facing         string     `db:"facing"         json:"facing"`
	RValue         *float64   `db:"r_value"        json:"rValue"`
	UValue         *float64   `db:"u_value"        json:"uValue"`
	FireClass      *string    `db:"fire_class"     json:"fireClass"`
	Color          StringList `db:"color"          json:"color"`
	Profile        string     `db:"profile"        json:"profile"`
	Image          string     `db:"image"          json:"image"`
	Description    string     `db:"description"    json:"description"`
	Features       StringList `db:"features"       json:"features"`
	Applications   StringList `db:"applications"   json:"applications"`
	Specifications SpecMap    `db:"specifications" json:"specifications"`
	Datasheet      *string    `db:"datasheet"      json:"datasheet"`
	Enabled        bool       `db:"enabled"        json:"enabled"`
	DeletedAt      *time.Time `db:"deleted_at"     json:"-"`
}

func (p *Product) HasFireClass() bool {
	return p.FireClass != nil && *p.FireClass != ""
}

// StringList is stored as JSON array text. A nil list encodes as [] and an
// unreadable stored value decodes to an empty list.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, fmt.Errorf("encode string list: %w", err)
	}
	return string(b), nil
}

func (l *StringList) Scan(src any) error {
	out := StringList{}
	if raw, ok := textOf(src); ok && len(raw) > 0 {
		var decoded []string
		if err := json.Unmarshal(raw, &decoded); err == nil && decoded != nil {
			out = decoded
		}
	}
	*l = out
	return nil
}

func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

// SpecMap is stored as JSON object text with the same empty-value rules as
// StringList.
type SpecMap map[string]string

func (m SpecMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]string(m))
	if err != nil {
		return nil, fmt.Errorf("encode specifications: %w", err)
	}
	return string(b), nil
}

func (m *SpecMap) Scan(src any) error {
	out := SpecMap{}
	if raw, ok := textOf(src); ok && len(raw) > 0 {
		var decoded map[string]string
		if err := json.Unmarshal(raw, &decoded); err == nil && decoded != nil {
			out = decoded
		}
	}
	*m = out
	return nil
}

func (m SpecMap) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]string(m))
}

func textOf(src any) ([]byte, bool) {
	switch v := src.(type) {
	case string:
		return []byte(v), true
	case []byte:
		return v, true
	default:
		return nil, false
	}
}

// Stats counts rows by lifecycle state.
type Stats struct {
	Total   int `db:"total"   json:"total"`
	Enabled int `db:"enabled" json:"enabled"`
	Deleted int `db:"deleted" json:"deleted"`
}
