// Package ollama provides a model.Model implementation for Ollama's local
// chat API over plain HTTP. It keeps the same normalized contract as the
// hosted vendors; token usage comes from Ollama's eval counters.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/shopvoz/shopvoz/model"
)

// Options configure the Ollama adapter.
type Options struct {
	Endpoint    string // e.g. http://localhost:11434
	Model       string
	Temperature float64
	MaxTokens   int64
	HTTPClient  *http.Client
}

// Model wraps the Ollama /api/chat endpoint behind the generic model.Model interface.
type Model struct {
	endpoint string
	client   *http.Client
	opts     Options
}

// NewModel creates a new Ollama model adapter.
func NewModel(optFns ...func(o *Options)) *Model {
	opts := Options{
		Endpoint:    "http://localhost:11434",
		Model:       "llama3.1",
		Temperature: 0.7,
		MaxTokens:   1024,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 120 * time.Second}
	}
	return &Model{endpoint: opts.Endpoint, client: client, opts: opts}
}

type chatMessage struct {
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	ToolCalls []chatToolCall `json:"tool_calls,omitempty"`
}

type chatToolCall struct {
	Function chatToolCallFunction `json:"function"`
}

type chatToolCallFunction struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

type chatTool struct {
	Type     string           `json:"type"`
	Function chatToolFunction `json:"function"`
}

type chatToolFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

type chatRequest struct {
	Model    string         `json:"model"`
	Messages []chatMessage  `json:"messages"`
	Stream   bool           `json:"stream"`
	Tools    []chatTool     `json:"tools,omitempty"`
	Options  map[string]any `json:"options,omitempty"`
}

type chatResponse struct {
	Model           string      `json:"model"`
	Message         chatMessage `json:"message"`
	Done            bool        `json:"done"`
	DoneReason      string      `json:"done_reason"`
	PromptEvalCount int         `json:"prompt_eval_count"`
	EvalCount       int         `json:"eval_count"`
}

// Generate implements model.Model.
func (m *Model) Generate(ctx context.Context, req model.Request) (*model.Response, error) {
	body, err := json.Marshal(m.buildRequest(req))
	if err != nil {
		return nil, &model.ProviderError{Provider: "ollama", Err: fmt.Errorf("marshal request: %w", err)}
	}

	url := m.endpoint + "/api/chat"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &model.ProviderError{Provider: "ollama", Err: fmt.Errorf("create request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := m.client.Do(httpReq)
	if err != nil {
		return nil, &model.ProviderError{Provider: "ollama", Retryable: true, Err: err}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &model.ProviderError{Provider: "ollama", Retryable: true, Err: fmt.Errorf("read response: %w", err)}
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, &model.ProviderError{
			Provider:   "ollama",
			StatusCode: httpResp.StatusCode,
			Retryable:  model.RetryableStatus(httpResp.StatusCode),
			Err:        fmt.Errorf("status %d: %s", httpResp.StatusCode, respBody),
		}
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, &model.ProviderError{Provider: "ollama", Err: fmt.Errorf("decode response: %w", err)}
	}

	out := &model.Response{
		Content:      parsed.Message.Content,
		Model:        parsed.Model,
		FinishReason: parsed.DoneReason,
	}
	// Ollama does not assign tool call ids; generate stable ones locally so
	// the narration round-trip can correlate results.
	for _, tc := range parsed.Message.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, model.ToolCall{
			ID:        uuid.NewString(),
			Name:      tc.Function.Name,
			Arguments: string(tc.Function.Arguments),
		})
	}
	if parsed.PromptEvalCount > 0 || parsed.EvalCount > 0 {
		out.Usage = &model.TokenUsage{
			PromptTokens:     parsed.PromptEvalCount,
			CompletionTokens: parsed.EvalCount,
			TotalTokens:      parsed.PromptEvalCount + parsed.EvalCount,
		}
	}
	return out, nil
}

func (m *Model) buildRequest(req model.Request) chatRequest {
	modelID := m.opts.Model
	if req.Model != "" {
		modelID = req.Model
	}
	temperature := m.opts.Temperature
	if req.Temperature > 0 {
		temperature = req.Temperature
	}
	maxTokens := m.opts.MaxTokens
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}

	out := chatRequest{
		Model:  modelID,
		Stream: false,
		Options: map[string]any{
			"temperature": temperature,
			"num_predict": maxTokens,
		},
	}
	if req.System != "" {
		out.Messages = append(out.Messages, chatMessage{Role: "system", Content: req.System})
	}
	for _, msg := range req.Messages {
		cm := chatMessage{Role: msg.Role, Content: msg.Content}
		for _, tc := range msg.ToolCalls {
			cm.ToolCalls = append(cm.ToolCalls, chatToolCall{
				Function: chatToolCallFunction{
					Name:      tc.Name,
					Arguments: json.RawMessage(tc.Arguments),
				},
			})
		}
		out.Messages = append(out.Messages, cm)
	}
	for _, t := range req.Tools {
		out.Tools = append(out.Tools, chatTool{
			Type: "function",
			Function: chatToolFunction{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}
	return out
}

// Info returns metadata describing this Ollama model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:          m.opts.Model,
		Provider:      "ollama",
		SupportsTools: true,
	}
}
