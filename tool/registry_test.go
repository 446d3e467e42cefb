package tool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopvoz/shopvoz/config"
	"github.com/shopvoz/shopvoz/core"
	"github.com/shopvoz/shopvoz/retrieval"
	"github.com/shopvoz/shopvoz/store"
)

func testStores(t *testing.T) (*store.InMemoryProducts, *store.InMemoryOrders) {
	t.Helper()
	products := store.NewInMemoryProducts()
	products.Seed("t1", []store.Product{
		{ID: "p1", Name: "Red Shoes", Description: "Running shoes", Price: 49.9, Order: 1, Available: true, Tags: []string{"shoes"}},
		{ID: "p2", Name: "Blue Shirt", Price: 19.9, Order: 2, Available: true},
		{ID: "p3", Name: "Hidden Hat", Price: 9.9, Order: 3, Available: false},
	})
	return products, store.NewInMemoryOrders()
}

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	products, orders := testStores(t)
	return NewRegistry(products, orders, retrieval.NewStaticRetriever(), config.NewStaticCredentials(nil))
}

func testConfig(mode config.ToolsMode) *config.AgentConfig {
	cfg := &config.AgentConfig{
		TenantID: "t1",
		AgentID:  "a1",
		Tools: config.ToolsConfig{
			Mode: mode,
			Core: config.CoreToolFlags{
				SearchProduct: true,
				AddToCart:     true,
				GetOrder:      true,
				ShowProduct:   true,
			},
			Custom: []config.CustomTool{
				{Name: "check_stock", BaseURL: "https://api.acme.test", Enabled: true},
				{Name: "disabled_tool", BaseURL: "https://api.acme.test"},
			},
		},
	}
	cfg.Normalize()
	return cfg
}

func testToolContext(cfg *config.AgentConfig) *Context {
	return &Context{
		Turn:   core.TurnContext{TenantID: "t1", UserID: "u1", ConversationID: "c1", AgentID: "a1"},
		Config: cfg,
	}
}

func namesOf(r *Registry, cfg *config.AgentConfig) []string {
	defs := r.AdvertisedTools(cfg)
	out := make([]string, len(defs))
	for i, d := range defs {
		out[i] = d.Name
	}
	return out
}

func TestAdvertisedToolsDefaultMode(t *testing.T) {
	r := testRegistry(t)
	names := namesOf(r, testConfig(config.ToolsModeDefault))

	assert.Equal(t, []string{NameSearchProduct, NameAddToCart, NameGetOrder, NameShowProduct}, names)
}

func TestAdvertisedToolsCustomMode(t *testing.T) {
	r := testRegistry(t)
	names := namesOf(r, testConfig(config.ToolsModeCustom))

	// Only enabled custom tools; the disabled one is skipped.
	assert.Equal(t, []string{"check_stock"}, names)
}

func TestAdvertisedToolsHybridMode(t *testing.T) {
	r := testRegistry(t)
	names := namesOf(r, testConfig(config.ToolsModeHybrid))

	assert.Equal(t, []string{NameSearchProduct, NameAddToCart, NameGetOrder, NameShowProduct, "check_stock"}, names)
}

func TestAdvertisedToolsRespectCoreFlags(t *testing.T) {
	r := testRegistry(t)
	cfg := testConfig(config.ToolsModeDefault)
	cfg.Tools.Core = config.CoreToolFlags{SearchProduct: true}

	assert.Equal(t, []string{NameSearchProduct}, namesOf(r, cfg))
}

func TestExecutable(t *testing.T) {
	r := testRegistry(t)
	cfg := testConfig(config.ToolsModeHybrid)

	assert.True(t, r.Executable(cfg, NameSearchProduct))
	assert.True(t, r.Executable(cfg, "check_stock"))
	assert.False(t, r.Executable(cfg, "disabled_tool"))
	assert.False(t, r.Executable(cfg, NameQueryKnowledge)) // flag off
	assert.False(t, r.Executable(cfg, "unknown"))

	customOnly := testConfig(config.ToolsModeCustom)
	assert.False(t, r.Executable(customOnly, NameSearchProduct))
	assert.True(t, r.Executable(customOnly, "check_stock"))
}

func TestExecuteUnknownTool(t *testing.T) {
	r := testRegistry(t)
	cfg := testConfig(config.ToolsModeDefault)

	result := r.Execute(context.Background(), cfg, "no_such_tool", nil, testToolContext(cfg))
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "not found")
}

func TestExecuteDisabledCoreTool(t *testing.T) {
	r := testRegistry(t)
	cfg := testConfig(config.ToolsModeDefault)
	cfg.Tools.Core.AddToCart = false

	result := r.Execute(context.Background(), cfg, NameAddToCart, map[string]any{"productId": "p1"}, testToolContext(cfg))
	assert.False(t, result.Success)
}

func TestExecuteValidationError(t *testing.T) {
	r := testRegistry(t)
	cfg := testConfig(config.ToolsModeDefault)

	// productId must be a string.
	result := r.Execute(context.Background(), cfg, NameAddToCart, map[string]any{"productId": 42}, testToolContext(cfg))
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "VALIDATION_ERROR")
}

func TestExecuteCoreTool(t *testing.T) {
	r := testRegistry(t)
	cfg := testConfig(config.ToolsModeDefault)

	result := r.Execute(context.Background(), cfg, NameSearchProduct, map[string]any{"query": "shoes"}, testToolContext(cfg))
	require.True(t, result.Success)
	assert.Equal(t, 1, result.Data["count"])
}
