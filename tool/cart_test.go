package tool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopvoz/shopvoz/config"
	"github.com/shopvoz/shopvoz/core"
	"github.com/shopvoz/shopvoz/store"
)

func TestAddToCartCreatesPendingOrder(t *testing.T) {
	products, orders := testStores(t)
	cartTool := NewAddToCartTool(products, orders)
	toolCtx := testToolContext(testConfig(config.ToolsModeDefault))

	result := cartTool.Call(context.Background(), toolCtx, map[string]any{"productId": "p1", "quantity": 2})
	require.True(t, result.Success)
	assert.Equal(t, "p1", result.Data["productId"])
	assert.InDelta(t, 99.8, result.Data["total"], 0.001)

	cart, err := orders.PendingByUser(context.Background(), store.Scope{TenantID: "t1"}, "u1")
	require.NoError(t, err)
	assert.Equal(t, store.OrderStatusPending, cart.Status)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestAddToCartMergesQuantity(t *testing.T) {
	products, orders := testStores(t)
	cartTool := NewAddToCartTool(products, orders)
	toolCtx := testToolContext(testConfig(config.ToolsModeDefault))

	first := cartTool.Call(context.Background(), toolCtx, map[string]any{"productId": "p1"})
	require.True(t, first.Success)
	second := cartTool.Call(context.Background(), toolCtx, map[string]any{"productId": "p1", "quantity": 2})
	require.True(t, second.Success)

	cart, err := orders.PendingByUser(context.Background(), store.Scope{TenantID: "t1"}, "u1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.InDelta(t, 3*49.9, cart.Total, 0.001)
}

func TestAddToCartSecondProductAddsLine(t *testing.T) {
	products, orders := testStores(t)
	cartTool := NewAddToCartTool(products, orders)
	toolCtx := testToolContext(testConfig(config.ToolsModeDefault))

	require.True(t, cartTool.Call(context.Background(), toolCtx, map[string]any{"productId": "p1"}).Success)
	require.True(t, cartTool.Call(context.Background(), toolCtx, map[string]any{"productId": "p2"}).Success)

	cart, err := orders.PendingByUser(context.Background(), store.Scope{TenantID: "t1"}, "u1")
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
	assert.InDelta(t, 49.9+19.9, cart.Total, 0.001)
}

func TestAddToCartMissingProductIDAsks(t *testing.T) {
	products, orders := testStores(t)
	cartTool := NewAddToCartTool(products, orders)

	result := cartTool.Call(context.Background(), testToolContext(testConfig(config.ToolsModeDefault)), map[string]any{})
	assert.False(t, result.Success)
	assert.True(t, result.NeedsUserInput)
	assert.NotEmpty(t, result.Question)
}

func TestAddToCartUnknownProduct(t *testing.T) {
	products, orders := testStores(t)
	cartTool := NewAddToCartTool(products, orders)

	result := cartTool.Call(context.Background(), testToolContext(testConfig(config.ToolsModeDefault)), map[string]any{"productId": "nope"})
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "not found")
}

func TestAddToCartUnavailableProduct(t *testing.T) {
	products, orders := testStores(t)
	cartTool := NewAddToCartTool(products, orders)

	result := cartTool.Call(context.Background(), testToolContext(testConfig(config.ToolsModeDefault)), map[string]any{"productId": "p3"})
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "not available")
}

func TestAddToCartScopedByTenant(t *testing.T) {
	products, orders := testStores(t)
	cartTool := NewAddToCartTool(products, orders)
	toolCtx := &Context{
		Turn:   core.TurnContext{TenantID: "other-tenant", UserID: "u1", ConversationID: "c1", AgentID: "a1"},
		Config: testConfig(config.ToolsModeDefault),
	}

	// p1 exists only in tenant t1.
	result := cartTool.Call(context.Background(), toolCtx, map[string]any{"productId": "p1"})
	assert.False(t, result.Success)
}
