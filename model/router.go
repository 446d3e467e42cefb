package model

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopvoz/shopvoz/config"
	"github.com/shopvoz/shopvoz/logging"
)

// Factory constructs a vendor adapter from an LLM configuration and a
// resolved credential. Registered per provider name.
type Factory func(llm config.LLMConfig, apiKey string) (Model, error)

// RouterOptions configure the Router.
type RouterOptions struct {
	// MaxRetries bounds retry attempts for transient provider errors.
	// Auth and quota errors are never retried.
	MaxRetries int
	// RetryBackoff is the initial backoff, doubled per attempt.
	RetryBackoff time.Duration
	// CallTimeout bounds each individual provider call.
	CallTimeout time.Duration
	// Logger defaults to NoOpLogger.
	Logger logging.Logger
}

// Router provides uniform generation across heterogeneous LLM backends. It
// caches one adapter client per (provider, credential ref) so repeated calls
// with the same credential reuse one client instance. The cache is
// read-mostly; construction is idempotent per key.
type Router struct {
	mu        sync.RWMutex
	clients   map[string]Model
	factories map[string]Factory

	creds   config.CredentialResolver
	retries int
	backoff time.Duration
	timeout time.Duration
	logger  logging.Logger
}

// NewRouter constructs a Router with optional overrides.
func NewRouter(creds config.CredentialResolver, optFns ...func(o *RouterOptions)) *Router {
	opts := RouterOptions{
		MaxRetries:   2,
		RetryBackoff: 250 * time.Millisecond,
		CallTimeout:  60 * time.Second,
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Router{
		clients:   make(map[string]Model),
		factories: make(map[string]Factory),
		creds:     creds,
		retries:   opts.MaxRetries,
		backoff:   opts.RetryBackoff,
		timeout:   opts.CallTimeout,
		logger:    opts.Logger,
	}
}

// Register adds a factory for a provider name, replacing any previous one.
func (r *Router) Register(provider string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[provider] = factory
}

// Generate resolves the adapter for the configured provider and issues one
// generation call, retrying transient failures with exponential backoff.
// Latency and the concrete model id are always filled on the response.
func (r *Router) Generate(ctx context.Context, llm config.LLMConfig, req Request) (*Response, error) {
	client, err := r.client(ctx, llm)
	if err != nil {
		return nil, err
	}

	if req.Model == "" {
		req.Model = llm.Model
	}
	if req.Temperature == 0 {
		req.Temperature = llm.Temperature
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = llm.MaxTokens
	}

	backoff := r.backoff
	var lastErr error
	for attempt := 0; attempt <= r.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		resp, err := r.generateOnce(ctx, client, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		var pErr *ProviderError
		if !errors.As(err, &pErr) || !pErr.Retryable {
			return nil, err
		}
		r.logger.Warn("provider call failed, retrying",
			"provider", llm.Provider, "attempt", attempt+1, "error", err.Error())
	}
	return nil, lastErr
}

func (r *Router) generateOnce(ctx context.Context, client Model, req Request) (*Response, error) {
	callCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := client.Generate(callCtx, req)
	dur := time.Since(start)

	if err != nil {
		logging.LogModelCall(r.logger, req.Model, 0, dur, err)
		if callCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
			return nil, &ProviderError{
				Provider:  client.Info().Provider,
				Retryable: true,
				Err:       fmt.Errorf("call timed out after %s", r.timeout),
			}
		}
		return nil, err
	}

	resp.Latency = dur
	if resp.Model == "" {
		resp.Model = req.Model
	}
	tokens := 0
	if resp.Usage != nil {
		tokens = resp.Usage.TotalTokens
	}
	logging.LogModelCall(r.logger, resp.Model, tokens, dur, nil)
	return resp, nil
}

// client returns the cached adapter for (provider, credential ref),
// constructing it on first use.
func (r *Router) client(ctx context.Context, llm config.LLMConfig) (Model, error) {
	cacheKey := llm.Provider + "/" + llm.CredentialRef

	r.mu.RLock()
	client, ok := r.clients[cacheKey]
	r.mu.RUnlock()
	if ok {
		return client, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if client, ok := r.clients[cacheKey]; ok {
		return client, nil
	}

	factory, ok := r.factories[llm.Provider]
	if !ok {
		return nil, &ProviderError{
			Provider: llm.Provider,
			Err:      fmt.Errorf("unknown provider %q", llm.Provider),
		}
	}

	apiKey := ""
	if r.creds != nil {
		secret, err := r.creds.Resolve(ctx, llm.CredentialRef)
		if err != nil {
			return nil, &ProviderError{Provider: llm.Provider, Err: fmt.Errorf("resolve credential: %w", err)}
		}
		apiKey = secret
	}

	client, err := factory(llm, apiKey)
	if err != nil {
		return nil, &ProviderError{Provider: llm.Provider, Err: fmt.Errorf("construct client: %w", err)}
	}
	r.clients[cacheKey] = client
	return client, nil
}
