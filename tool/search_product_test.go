package tool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopvoz/shopvoz/config"
)

func TestSearchProductByQuery(t *testing.T) {
	products, _ := testStores(t)
	searchTool := NewSearchProductTool(products)

	result := searchTool.Call(context.Background(), testToolContext(testConfig(config.ToolsModeDefault)), map[string]any{"query": "shoes"})
	require.True(t, result.Success)
	assert.Equal(t, 1, result.Data["count"])

	views, ok := result.Data["products"].([]any)
	require.True(t, ok)
	require.Len(t, views, 1)
	view, ok := views[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "p1", view["id"])
	assert.Equal(t, "Red Shoes", view["name"])
	assert.Equal(t, 49.9, view["price"])
}

func TestSearchProductEmptyQueryListsAll(t *testing.T) {
	products, _ := testStores(t)
	searchTool := NewSearchProductTool(products)

	result := searchTool.Call(context.Background(), testToolContext(testConfig(config.ToolsModeDefault)), map[string]any{})
	require.True(t, result.Success)
	// p3 is unavailable and excluded.
	assert.Equal(t, 2, result.Data["count"])
}

func TestSearchProductNoMatchesStillSucceeds(t *testing.T) {
	products, _ := testStores(t)
	searchTool := NewSearchProductTool(products)

	result := searchTool.Call(context.Background(), testToolContext(testConfig(config.ToolsModeDefault)), map[string]any{"query": "submarine"})
	require.True(t, result.Success)
	assert.Equal(t, 0, result.Data["count"])
	assert.Empty(t, result.Data["products"])
}

func TestShowProduct(t *testing.T) {
	products, _ := testStores(t)
	showTool := NewShowProductTool(products)

	result := showTool.Call(context.Background(), testToolContext(testConfig(config.ToolsModeDefault)), map[string]any{"productId": "p1"})
	require.True(t, result.Success)
	assert.Equal(t, "p1", result.Data["productId"])
	assert.Equal(t, "Red Shoes", result.Data["name"])
}

func TestShowProductMissingIDAsks(t *testing.T) {
	products, _ := testStores(t)
	showTool := NewShowProductTool(products)

	result := showTool.Call(context.Background(), testToolContext(testConfig(config.ToolsModeDefault)), map[string]any{})
	assert.True(t, result.NeedsUserInput)
}

func TestShowProductUnknownID(t *testing.T) {
	products, _ := testStores(t)
	showTool := NewShowProductTool(products)

	result := showTool.Call(context.Background(), testToolContext(testConfig(config.ToolsModeDefault)), map[string]any{"productId": "nope"})
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "not found")
}
