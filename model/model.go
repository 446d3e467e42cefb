package model

import (
	"context"
	"fmt"
	"time"
)

// Message roles used in normalized requests.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ToolCall represents a function call request surfaced by a model provider.
// Unified across vendors so downstream logic does not need per-provider
// branching.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // JSON string of arguments
}

// ToolDefinition declaratively exposes a callable function to the model.
// Parameters is a JSON Schema object (minimal subset).
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Message is one normalized chat message. Assistant messages may carry tool
// calls; tool messages carry the result for a prior call id.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// Request captures the normalized model input produced by the prompt builder.
type Request struct {
	System      string           `json:"system"`
	Messages    []Message        `json:"messages"`
	Tools       []ToolDefinition `json:"tools,omitempty"`
	Model       string           `json:"model,omitempty"` // overrides the adapter default
	Temperature float64          `json:"temperature,omitempty"`
	MaxTokens   int64            `json:"max_tokens,omitempty"`
}

// TokenUsage captures token usage statistics for a response. Providers that
// omit usage leave the Response.Usage pointer nil and the caller estimates.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the normalized output of one generation call.
type Response struct {
	Content      string        `json:"content"`
	ToolCalls    []ToolCall    `json:"tool_calls,omitempty"`
	Model        string        `json:"model"`
	FinishReason string        `json:"finish_reason"`
	Usage        *TokenUsage   `json:"usage,omitempty"`
	Latency      time.Duration `json:"-"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "ollama", ...
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface implemented by every vendor adapter.
type Model interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// ProviderError wraps a backend failure with retry classification. Auth and
// quota failures are permanent; transport and server errors are retryable.
type ProviderError struct {
	Provider   string
	StatusCode int
	Retryable  bool
	Err        error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider %s error (status %d): %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("provider %s error: %v", e.Provider, e.Err)
}

// Unwrap exposes the underlying error for errors.Is/As.
func (e *ProviderError) Unwrap() error { return e.Err }

// RetryableStatus classifies an HTTP status code. Timeouts, rate limits and
// server errors are transient; auth, quota and client errors are not.
func RetryableStatus(status int) bool {
	switch {
	case status == 408 || status == 429:
		return true
	case status >= 500:
		return true
	default:
		return false
	}
}

// EstimateTokens approximates token count from text length (~4 characters
// per token). Used as a cost-safety fallback when a provider does not report
// usage.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	n := len(text) / 4
	if n == 0 {
		n = 1
	}
	return n
}

// EstimateRequestTokens sums the token estimate across system prompt and
// all messages of a request.
func EstimateRequestTokens(req Request) int {
	total := EstimateTokens(req.System)
	for _, m := range req.Messages {
		total += EstimateTokens(m.Content)
		for _, tc := range m.ToolCalls {
			total += EstimateTokens(tc.Arguments)
		}
	}
	return total
}
