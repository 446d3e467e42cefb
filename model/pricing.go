package model

import (
	"math"
	"sync"
)

// Price is the cost per million tokens for one model.
type Price struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// PriceTable maps (provider, model) to prices with a provider-level default
// for unmatched model names. It is a policy artifact: swappable, and its
// incompleteness must never fail a request, only under-estimate cost.
// Read-mostly and safe for concurrent use.
type PriceTable struct {
	mu       sync.RWMutex
	models   map[string]Price // key: provider + "/" + model
	defaults map[string]Price // key: provider
}

// NewPriceTable constructs an empty table.
func NewPriceTable() *PriceTable {
	return &PriceTable{
		models:   make(map[string]Price),
		defaults: make(map[string]Price),
	}
}

// DefaultPriceTable returns a table seeded with current list prices for the
// built-in providers. Local models cost nothing.
func DefaultPriceTable() *PriceTable {
	t := NewPriceTable()
	t.SetModel("openai", "gpt-4o", Price{InputPerMTok: 2.5, OutputPerMTok: 10})
	t.SetModel("openai", "gpt-4o-mini", Price{InputPerMTok: 0.15, OutputPerMTok: 0.6})
	t.SetModel("openai", "gpt-4.1", Price{InputPerMTok: 2, OutputPerMTok: 8})
	t.SetModel("openai", "gpt-4.1-mini", Price{InputPerMTok: 0.4, OutputPerMTok: 1.6})
	t.SetDefault("openai", Price{InputPerMTok: 2.5, OutputPerMTok: 10})
	t.SetModel("anthropic", "claude-3-5-sonnet-20241022", Price{InputPerMTok: 3, OutputPerMTok: 15})
	t.SetModel("anthropic", "claude-3-5-haiku-20241022", Price{InputPerMTok: 0.8, OutputPerMTok: 4})
	t.SetDefault("anthropic", Price{InputPerMTok: 3, OutputPerMTok: 15})
	t.SetDefault("ollama", Price{})
	return t
}

// SetModel registers the price for a concrete model.
func (t *PriceTable) SetModel(provider, model string, p Price) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.models[provider+"/"+model] = p
}

// SetDefault registers the fallback price for a provider.
func (t *PriceTable) SetDefault(provider string, p Price) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.defaults[provider] = p
}

// Cost estimates the USD cost of a call, rounded to 6 decimal places.
// Unknown models fall back to the provider default; unknown providers cost
// zero. Monotonic non-decreasing in both token counts for a fixed model.
func (t *PriceTable) Cost(provider, model string, inputTokens, outputTokens int) float64 {
	t.mu.RLock()
	price, ok := t.models[provider+"/"+model]
	if !ok {
		price = t.defaults[provider]
	}
	t.mu.RUnlock()

	cost := float64(inputTokens)/1e6*price.InputPerMTok +
		float64(outputTokens)/1e6*price.OutputPerMTok
	return math.Round(cost*1e6) / 1e6
}
