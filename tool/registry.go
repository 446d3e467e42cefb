package tool

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shopvoz/shopvoz/config"
	"github.com/shopvoz/shopvoz/core"
	"github.com/shopvoz/shopvoz/internal/schema"
	"github.com/shopvoz/shopvoz/logging"
	"github.com/shopvoz/shopvoz/model"
	"github.com/shopvoz/shopvoz/retrieval"
	"github.com/shopvoz/shopvoz/store"
)

// RegistryOptions configure a Registry.
type RegistryOptions struct {
	// HTTPClient executes custom tool calls; a bounded-timeout default is
	// used when nil.
	HTTPClient *http.Client
	// HTTPTimeout applies when HTTPClient is nil.
	HTTPTimeout time.Duration
	// Logger defaults to NoOpLogger.
	Logger logging.Logger
}

// Registry maps a tenant's enabled capabilities to callable executors and to
// the declarative schema advertised to the model. One Registry serves all
// tenants; advertisement and execution are gated per call by the agent
// configuration.
type Registry struct {
	coreTools map[string]Tool
	creds     config.CredentialResolver
	client    *http.Client
	logger    logging.Logger
}

// NewRegistry builds a Registry wired to the commerce stores and the
// retrieval collaborator.
func NewRegistry(
	products store.Products,
	orders store.Orders,
	retriever retrieval.Retriever,
	creds config.CredentialResolver,
	optFns ...func(o *RegistryOptions),
) *Registry {
	opts := RegistryOptions{
		HTTPTimeout: 15 * time.Second,
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.HTTPTimeout}
	}

	r := &Registry{
		coreTools: make(map[string]Tool),
		creds:     creds,
		client:    client,
		logger:    opts.Logger,
	}
	for _, t := range []Tool{
		NewSearchProductTool(products),
		NewAddToCartTool(products, orders),
		NewGetOrderTool(orders),
		NewShowProductTool(products),
		NewKnowledgeTool(retriever, client),
	} {
		r.coreTools[t.Name()] = t
	}
	return r
}

// coreToolEnabled maps tool names to their per-agent capability flag.
func coreToolEnabled(name string, flags config.CoreToolFlags) bool {
	switch name {
	case NameSearchProduct:
		return flags.SearchProduct
	case NameAddToCart:
		return flags.AddToCart
	case NameGetOrder:
		return flags.GetOrder
	case NameShowProduct:
		return flags.ShowProduct
	case NameQueryKnowledge:
		return flags.QueryKnowledge
	}
	return false
}

// coreToolOrder fixes the advertisement order so prompts are deterministic.
var coreToolOrder = []string{
	NameSearchProduct,
	NameAddToCart,
	NameGetOrder,
	NameShowProduct,
	NameQueryKnowledge,
}

// AdvertisedTools derives the tool schema sent to the model for this turn.
// Core tools require mode default/hybrid plus their capability flag; custom
// tools require mode custom/hybrid plus the tool's own enabled flag, name
// and base URL.
func (r *Registry) AdvertisedTools(cfg *config.AgentConfig) []model.ToolDefinition {
	var out []model.ToolDefinition

	if cfg.Tools.AdvertisesCore() {
		for _, name := range coreToolOrder {
			if !coreToolEnabled(name, cfg.Tools.Core) {
				continue
			}
			t := r.coreTools[name]
			out = append(out, model.ToolDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			})
		}
	}

	if cfg.Tools.AdvertisesCustom() {
		for _, ct := range cfg.Tools.Custom {
			if !ct.Advertisable() {
				continue
			}
			params := ct.ParametersSchema
			if params == nil {
				params = map[string]any{"type": "object", "properties": map[string]any{}}
			}
			out = append(out, model.ToolDefinition{
				Name:        ct.Name,
				Description: ct.Description,
				Parameters:  params,
			})
		}
	}
	return out
}

// Executable reports whether a name resolves to an executable tool under the
// given configuration. Used by the orchestrator to decide whether an inline
// model-issued action is safe to run.
func (r *Registry) Executable(cfg *config.AgentConfig, name string) bool {
	if cfg.Tools.AdvertisesCustom() {
		for _, ct := range cfg.Tools.Custom {
			if ct.Name == name && ct.Advertisable() {
				return true
			}
		}
	}
	if cfg.Tools.AdvertisesCore() {
		if _, ok := r.coreTools[name]; ok {
			return coreToolEnabled(name, cfg.Tools.Core)
		}
	}
	return false
}

// Execute runs one tool call. Name resolution matches enabled custom tools
// first (exact, case-sensitive), then falls back to the core executors. An
// unmatched name yields a failed result rather than an error; panics are
// recovered into failed results so one bad tool never aborts the turn.
func (r *Registry) Execute(ctx context.Context, cfg *config.AgentConfig, name string, args map[string]any, toolCtx *Context) (result core.ToolResult) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("tool panicked", "tool", name, "recover", rec)
			result = core.FailResult(fmt.Sprintf("tool %s failed unexpectedly", name))
		}
		logging.LogToolCall(r.logger, name, time.Since(start), result.Success, nil)
	}()

	if args == nil {
		args = map[string]any{}
	}

	if cfg.Tools.AdvertisesCustom() {
		for _, ct := range cfg.Tools.Custom {
			if ct.Name != name || !ct.Enabled {
				continue
			}
			httpTool := NewHTTPTool(ct, r.client, r.creds)
			return httpTool.Call(ctx, toolCtx, args)
		}
	}

	t, ok := r.coreTools[name]
	if !ok || !cfg.Tools.AdvertisesCore() || !coreToolEnabled(name, cfg.Tools.Core) {
		return core.FailResult(fmt.Sprintf("tool %q not found", name))
	}

	if err := schema.Validate(args, t.Parameters()); err != nil {
		return core.FailResult((&ToolError{
			Tool:    name,
			Message: fmt.Sprintf("parameter validation failed: %v", err),
			Code:    "VALIDATION_ERROR",
		}).Error())
	}
	return t.Call(ctx, toolCtx, args)
}
