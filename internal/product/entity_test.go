// AngelaMos | 2026
// entity_test.go

package product

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringList_Scan(t *testing.T) {
	tests := []struct {
		name string
		src  any
		want StringList
	}{
		{name: "string", src: `["White","RAL 9006"]`, want: StringList{"White", "RAL 9006"}},
		{name: "bytes", src: []byte(`["a"]`), want: StringList{"a"}},
		{name: "nil", src: nil, want: StringList{}},
		{name: "empty text", src: "", want: StringList{}},
		{name: "malformed", src: `["unterminated`, want: StringList{}},
		{name: "json null", src: "null", want: StringList{}},
		{name: "wrong shape", src: `{"a":"b"}`, want: StringList{}},
		{name: "unsupported type", src: int64(7), want: StringList{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got StringList
			require.NoError(t, got.Scan(tt.src))
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSpecMap_Scan(t *testing.T) {
	tests := []struct {
		name string
		src  any
		want SpecMap
	}{
		{name: "object", src: `{"Length":"up to 12 m"}`, want: SpecMap{"Length": "up to 12 m"}},
		{name: "nil", src: nil, want: SpecMap{}},
		{name: "malformed", src: `{"Length":`, want: SpecMap{}},
		{name: "array", src: `["x"]`, want: SpecMap{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got SpecMap
			require.NoError(t, got.Scan(tt.src))
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEmptyValues_Encode(t *testing.T) {
	var list StringList
	v, err := list.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	var specs SpecMap
	v, err = specs.Value()
	require.NoError(t, err)
	assert.Equal(t, "{}", v)

	b, err := json.Marshal(Product{ID: "x"})
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(b, &wire))
	assert.Equal(t, []any{}, wire["color"])
	assert.Equal(t, map[string]any{}, wire["specifications"])
	assert.Nil(t, wire["rValue"])
	assert.Contains(t, wire, "fireClass")
	assert.NotContains(t, wire, "deleted_at")
	assert.NotContains(t, wire, "DeletedAt")
}

func TestProductRequest_Defaults(t *testing.T) {
	var req ProductRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": " pir-roof-001 ",
		"name": "PIR Roof Panel",
		"type": "roof",
		"core": "PIR",
		"thickness": 100,
		"facing": "Steel",
		"fireClass": "  ",
		"datasheet": ""
	}`), &req))

	req.Normalize()
	p := req.ToProduct()

	assert.Equal(t, "pir-roof-001", p.ID)
	assert.True(t, p.Enabled)
	assert.Equal(t, StringList{}, p.Color)
	assert.Equal(t, StringList{}, p.Features)
	assert.Equal(t, StringList{}, p.Applications)
	assert.Equal(t, SpecMap{}, p.Specifications)
	assert.Nil(t, p.FireClass)
	assert.Nil(t, p.Datasheet)
	assert.Nil(t, p.RValue)
	assert.Equal(t, "", p.Profile)
	assert.Equal(t, 100, p.Thickness)
}

func TestProductRequest_ThicknessDecoding(t *testing.T) {
	tests := []struct {
		raw         string
		want        *int
		wantInvalid bool
	}{
		{raw: `100`, want: intPtr(100)},
		{raw: `1e2`, want: intPtr(100)},
		{raw: `"100"`, want: intPtr(100)},
		{raw: `-5`, want: intPtr(-5)},
		{raw: `null`},
		{raw: `"abc"`, wantInvalid: true},
		{raw: `""`, wantInvalid: true},
		{raw: `12.5`, wantInvalid: true},
		{raw: `true`, wantInvalid: true},
		{raw: `[100]`, wantInvalid: true},
		{raw: `1e300`, wantInvalid: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var req ProductRequest
			body := `{"id":"x","name":"X","thickness":` + tt.raw + `}`
			require.NoError(t, json.Unmarshal([]byte(body), &req))

			assert.Equal(t, tt.want, req.Thickness)
			assert.Equal(t, tt.wantInvalid, req.thicknessInvalid)
			assert.Equal(t, "x", req.ID)
			assert.Equal(t, "X", req.Name)
		})
	}
}

func TestRequestFromProduct_RoundTrip(t *testing.T) {
	r := 4.5
	fc := "EI 60"
	p := Product{
		ID:             "wall-1",
		Name:           "Wall",
		Type:           TypeWall,
		Core:           "Rockwool",
		Thickness:      120,
		Facing:         "Steel",
		RValue:         &r,
		FireClass:      &fc,
		Color:          StringList{"White"},
		Features:       StringList{"Fire rated"},
		Applications:   StringList{},
		Specifications: SpecMap{"Width": "1000 mm"},
		Enabled:        false,
	}

	req := RequestFromProduct(p)
	assert.Equal(t, &p, req.ToProduct())
}

func intPtr(n int) *int { return &n }
