package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromStruct(t *testing.T) {
	type args struct {
		Query    string  `json:"query" description:"search text"`
		Limit    int     `json:"limit,omitempty"`
		MinPrice float64 `json:"minPrice,omitempty"`
	}

	s := FromStruct(args{})
	assert.Equal(t, "object", s["type"])

	props, ok := s["properties"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, props, 3)

	query, ok := props["query"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "string", query["type"])
	assert.Equal(t, "search text", query["description"])

	limit, ok := props["limit"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "integer", limit["type"])

	assert.Equal(t, []string{"query"}, s["required"])
}

func TestFromStructNonStruct(t *testing.T) {
	s := FromStruct("not a struct")
	assert.Equal(t, "object", s["type"])
	assert.Empty(t, s["properties"])
}

func TestValidate(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"productId": map[string]any{"type": "string"},
			"quantity":  map[string]any{"type": "integer"},
		},
		"required": []string{"productId"},
	}

	assert.NoError(t, Validate(map[string]any{"productId": "p1"}, schema))
	assert.NoError(t, Validate(map[string]any{"productId": "p1", "quantity": float64(2)}, schema))
	assert.NoError(t, Validate(map[string]any{"productId": "p1", "extra": true}, schema))

	err := Validate(map[string]any{"quantity": 2}, schema)
	require.Error(t, err)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "productId", vErr.Field)

	err = Validate(map[string]any{"productId": 42}, schema)
	require.Error(t, err)

	// 2.5 is not an integer.
	err = Validate(map[string]any{"productId": "p1", "quantity": 2.5}, schema)
	require.Error(t, err)
}

func TestValidateJSONDecodedRequired(t *testing.T) {
	schema := map[string]any{
		"type":       "object",
		"properties": map[string]any{"q": map[string]any{"type": "string"}},
		"required":   []any{"q"},
	}
	assert.Error(t, Validate(map[string]any{}, schema))
	assert.NoError(t, Validate(map[string]any{"q": "hi"}, schema))
}
