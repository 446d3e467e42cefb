// Package shopvoz provides a high-level façade over the orchestrator and its
// services (agent configs, conversation history, provider routing and tools)
// enabling rapid construction of multi-tenant shop assistants. Most
// applications interact with this package by:
//  1. Creating a ShopVoz via New() (optionally overriding default in-memory services)
//  2. Loading or registering per-tenant agent configurations
//  3. Processing user messages with ProcessMessage
//
// The façade delegates turn handling to orchestrator.Orchestrator while
// keeping setup and usage ergonomics concise. All defaults are safe for local
// development and testing; production deployments typically supply a Redis
// conversation store, real product and order backends and a structured logger.
package shopvoz

import (
	"context"

	"github.com/shopvoz/shopvoz/config"
	"github.com/shopvoz/shopvoz/core"
	"github.com/shopvoz/shopvoz/logging"
	"github.com/shopvoz/shopvoz/metrics"
	"github.com/shopvoz/shopvoz/model"
	"github.com/shopvoz/shopvoz/model/anthropic"
	"github.com/shopvoz/shopvoz/model/ollama"
	"github.com/shopvoz/shopvoz/model/openai"
	"github.com/shopvoz/shopvoz/orchestrator"
	"github.com/shopvoz/shopvoz/retrieval"
	"github.com/shopvoz/shopvoz/store"
	"github.com/shopvoz/shopvoz/tool"
)

// Options configures the ShopVoz instance.
type Options struct {
	// Stores (default to in-memory implementations if not provided).
	Configs       config.Store
	Conversations store.Conversation
	Products      store.Products
	Orders        store.Orders

	// Credentials resolves provider and custom-tool credential references.
	// Defaults to an empty static resolver.
	Credentials config.CredentialResolver

	// Retriever backs the query_knowledge tool. Defaults to an empty
	// static retriever.
	Retriever retrieval.Retriever

	// Metrics is optional; nil disables instrumentation.
	Metrics *metrics.Metrics

	// Prices overrides the built-in pricing table.
	Prices *model.PriceTable

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// ShopVoz is the high-level façade aggregating the orchestrator and services.
type ShopVoz struct {
	opts         Options
	router       *model.Router
	registry     *tool.Registry
	orchestrator *orchestrator.Orchestrator
}

// New creates a new ShopVoz instance with optional overrides. Any unset
// service is initialized with an in-memory implementation, and the three
// built-in providers (openai, anthropic, ollama) are pre-registered.
func New(optFns ...func(o *Options)) *ShopVoz {
	opts := Options{
		Configs:       config.NewInMemoryStore(),
		Conversations: store.NewInMemoryConversation(),
		Products:      store.NewInMemoryProducts(),
		Orders:        store.NewInMemoryOrders(),
		Credentials:   config.NewStaticCredentials(nil),
		Retriever:     retrieval.NewStaticRetriever(),
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	router := model.NewRouter(opts.Credentials, func(o *model.RouterOptions) {
		o.Logger = opts.Logger
	})
	router.Register("openai", func(llm config.LLMConfig, apiKey string) (model.Model, error) {
		return openai.NewModel(func(o *openai.Options) {
			if llm.Model != "" {
				o.Model = llm.Model
			}
			o.APIKey = apiKey
			o.BaseURL = llm.BaseURL
		}), nil
	})
	router.Register("anthropic", func(llm config.LLMConfig, apiKey string) (model.Model, error) {
		return anthropic.NewModel(func(o *anthropic.Options) {
			if llm.Model != "" {
				o.Model = llm.Model
			}
			o.APIKey = apiKey
			o.BaseURL = llm.BaseURL
		}), nil
	})
	router.Register("ollama", func(llm config.LLMConfig, apiKey string) (model.Model, error) {
		return ollama.NewModel(func(o *ollama.Options) {
			if llm.Model != "" {
				o.Model = llm.Model
			}
			if llm.BaseURL != "" {
				o.Endpoint = llm.BaseURL
			}
		}), nil
	})

	registry := tool.NewRegistry(opts.Products, opts.Orders, opts.Retriever, opts.Credentials, func(o *tool.RegistryOptions) {
		o.Logger = opts.Logger
	})

	orch := orchestrator.New(opts.Configs, opts.Conversations, router, registry, func(o *orchestrator.Options) {
		o.Logger = opts.Logger
		o.Metrics = opts.Metrics
		if opts.Prices != nil {
			o.Prices = opts.Prices
		}
	})

	return &ShopVoz{opts: opts, router: router, registry: registry, orchestrator: orch}
}

// Router exposes the provider router, e.g. to register additional vendors.
func (s *ShopVoz) Router() *model.Router { return s.router }

// ProcessMessage handles one user message end to end.
func (s *ShopVoz) ProcessMessage(ctx context.Context, turn core.TurnContext, userText string) (*core.AgentResponse, error) {
	return s.orchestrator.ProcessMessage(ctx, turn, userText)
}
