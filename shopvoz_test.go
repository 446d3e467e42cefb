package shopvoz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopvoz/shopvoz/config"
	"github.com/shopvoz/shopvoz/core"
	"github.com/shopvoz/shopvoz/model"
	"github.com/shopvoz/shopvoz/store"
)

func TestFacadeProcessMessage(t *testing.T) {
	configs := config.NewInMemoryStore()
	configs.Put(&config.AgentConfig{
		TenantID: "t1",
		AgentID:  "shop",
		Name:     "Clara",
		LLM:      config.LLMConfig{Provider: "mock", Model: "mock-1"},
		Tools: config.ToolsConfig{
			Mode: config.ToolsModeDefault,
			Core: config.CoreToolFlags{SearchProduct: true},
		},
	})

	products := store.NewInMemoryProducts()
	products.Seed("t1", []store.Product{
		{ID: "p1", Name: "Red Shoes", Price: 49.9, Order: 1, Available: true},
	})

	app := New(func(o *Options) {
		o.Configs = configs
		o.Products = products
	})

	mock := model.NewMockModel("mock-1", "mock")
	mock.Enqueue(&model.Response{Content: `{"message": "Hola, soy Clara.", "audio_description": "Hola"}`})
	app.Router().Register("mock", func(config.LLMConfig, string) (model.Model, error) { return mock, nil })

	turn := core.TurnContext{TenantID: "t1", UserID: "u1", AgentID: "shop"}
	resp, err := app.ProcessMessage(context.Background(), turn, "hola")
	require.NoError(t, err)

	assert.Equal(t, "Hola, soy Clara.", resp.Message)
	assert.NotEmpty(t, resp.ConversationID)
	assert.True(t, resp.Action.IsNull())
}

func TestFacadeUnknownProvider(t *testing.T) {
	configs := config.NewInMemoryStore()
	configs.Put(&config.AgentConfig{
		TenantID: "t1",
		AgentID:  "shop",
		LLM:      config.LLMConfig{Provider: "nope"},
	})
	app := New(func(o *Options) { o.Configs = configs })

	turn := core.TurnContext{TenantID: "t1", UserID: "u1", AgentID: "shop"}
	_, err := app.ProcessMessage(context.Background(), turn, "hola")
	require.Error(t, err)
	var pErr *model.ProviderError
	assert.ErrorAs(t, err, &pErr)
}
