package tool

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/shopvoz/shopvoz/config"
	"github.com/shopvoz/shopvoz/core"
	"github.com/shopvoz/shopvoz/retrieval"
)

// KnowledgeTool answers questions from the agent's knowledge map. Each topic
// routes to its configured source: a retrieval index, an external API or
// inline stored content.
type KnowledgeTool struct {
	retriever retrieval.Retriever
	client    *http.Client
}

// NewKnowledgeTool wires the tool to the retrieval collaborator and an HTTP
// client for external-api sources.
func NewKnowledgeTool(retriever retrieval.Retriever, client *http.Client) *KnowledgeTool {
	if client == nil {
		client = http.DefaultClient
	}
	return &KnowledgeTool{retriever: retriever, client: client}
}

// Name implements Tool.
func (t *KnowledgeTool) Name() string { return NameQueryKnowledge }

// Description implements Tool.
func (t *KnowledgeTool) Description() string {
	return "Answer questions about the business (hours, shipping, policies) from the configured knowledge sources."
}

// Parameters implements Tool.
func (t *KnowledgeTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"topic": map[string]any{
				"type":        "string",
				"description": "Knowledge topic to consult",
			},
			"question": map[string]any{
				"type":        "string",
				"description": "The user's question",
			},
		},
		"required": []string{"question"},
	}
}

// Call implements Tool.
func (t *KnowledgeTool) Call(ctx context.Context, toolCtx *Context, args map[string]any) core.ToolResult {
	topic, _ := args["topic"].(string)
	question, _ := args["question"].(string)

	source, ok := resolveSource(toolCtx.Config.Knowledge, topic, question)
	if !ok {
		return core.FailResult("no knowledge source configured for this topic")
	}

	switch source.Kind {
	case config.KnowledgeDirectStore:
		return core.OKResult(map[string]any{"answer": source.Ref})

	case config.KnowledgeExternalAPI:
		if !toolCtx.Config.Policies.AllowExternalCalls {
			return core.FailResult("external knowledge calls are disabled for this agent")
		}
		return t.queryExternal(ctx, source.Ref, question)

	default: // retrieval-index
		if t.retriever == nil {
			return core.FailResult("no retriever configured")
		}
		result, err := t.retriever.Query(ctx, toolCtx.Turn.TenantID, question, source.Ref)
		if err != nil {
			return core.FailResult(fmt.Sprintf("retrieval query: %v", err))
		}
		out := map[string]any{"answer": result.Data}
		if len(result.Sources) > 0 {
			out["sources"] = result.Sources
		}
		return core.OKResult(out)
	}
}

// resolveSource picks the knowledge source for a topic, falling back to a
// substring scan over topic names when the model names the topic loosely.
func resolveSource(knowledge map[string]config.KnowledgeSource, topic, question string) (config.KnowledgeSource, bool) {
	if len(knowledge) == 0 {
		return config.KnowledgeSource{}, false
	}
	if source, ok := knowledge[topic]; ok {
		return source, true
	}
	lowerQuestion := strings.ToLower(question)
	for name, source := range knowledge {
		if strings.Contains(strings.ToLower(topic), strings.ToLower(name)) ||
			strings.Contains(lowerQuestion, strings.ToLower(name)) {
			return source, true
		}
	}
	// One topic configured: use it regardless of naming.
	if len(knowledge) == 1 {
		for _, source := range knowledge {
			return source, true
		}
	}
	return config.KnowledgeSource{}, false
}

func (t *KnowledgeTool) queryExternal(ctx context.Context, endpoint, question string) core.ToolResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return core.FailResult(fmt.Sprintf("build knowledge request: %v", err))
	}
	q := req.URL.Query()
	q.Set("q", question)
	req.URL.RawQuery = q.Encode()

	resp, err := t.client.Do(req)
	if err != nil {
		return core.FailResult(fmt.Sprintf("query knowledge api: %v", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return core.FailResult(fmt.Sprintf("read knowledge response: %v", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return core.FailResult(fmt.Sprintf("knowledge api returned status %d", resp.StatusCode))
	}
	return core.OKResult(map[string]any{"answer": string(body)})
}
