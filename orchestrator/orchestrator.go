// Package orchestrator sequences one inbound user message into one
// structured agent response: load configuration, load short history, build
// the prompt, call the provider, execute requested tools, narrate their
// results and persist the turn. It composes the config, store, model, tool
// and prompt packages and owns every degradation policy between them.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopvoz/shopvoz/config"
	"github.com/shopvoz/shopvoz/core"
	"github.com/shopvoz/shopvoz/logging"
	"github.com/shopvoz/shopvoz/metrics"
	"github.com/shopvoz/shopvoz/model"
	"github.com/shopvoz/shopvoz/prompt"
	"github.com/shopvoz/shopvoz/store"
	"github.com/shopvoz/shopvoz/tool"
)

// Options configure an Orchestrator.
type Options struct {
	// Logger defaults to NoOpLogger.
	Logger logging.Logger
	// Metrics is optional; nil disables instrumentation.
	Metrics *metrics.Metrics
	// Prices defaults to the built-in table.
	Prices *model.PriceTable
}

// Orchestrator is the top-level turn state machine. All collaborators are
// injected at construction; the value is safe for concurrent use and
// serializes turns per conversation.
type Orchestrator struct {
	configs       config.Store
	conversations store.Conversation
	router        *model.Router
	registry      *tool.Registry
	prices        *model.PriceTable
	logger        logging.Logger
	metrics       *metrics.Metrics
	locks         *keyedMutex
}

// New constructs an Orchestrator from its collaborators.
func New(
	configs config.Store,
	conversations store.Conversation,
	router *model.Router,
	registry *tool.Registry,
	optFns ...func(o *Options),
) *Orchestrator {
	opts := Options{
		Logger: logging.NoOpLogger{},
		Prices: model.DefaultPriceTable(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Orchestrator{
		configs:       configs,
		conversations: conversations,
		router:        router,
		registry:      registry,
		prices:        opts.Prices,
		logger:        opts.Logger,
		metrics:       opts.Metrics,
		locks:         newKeyedMutex(),
	}
}

// turnState accumulates per-turn accounting across the one or two provider
// calls of a turn.
type turnState struct {
	start        time.Time
	modelID      string
	tokensInput  int
	tokensOutput int
	toolsUsed    []string
}

func (s *turnState) account(req model.Request, resp *model.Response) {
	s.modelID = resp.Model
	if resp.Usage != nil {
		s.tokensInput += resp.Usage.PromptTokens
		s.tokensOutput += resp.Usage.CompletionTokens
		return
	}
	// Provider reported no usage: estimate from content length.
	s.tokensInput += model.EstimateRequestTokens(req)
	s.tokensOutput += model.EstimateTokens(resp.Content)
}

// ProcessMessage executes one full turn. It fails only when the
// configuration cannot be found or the provider fails unrecoverably; every
// other failure degrades into a valid response.
func (o *Orchestrator) ProcessMessage(ctx context.Context, turn core.TurnContext, userText string) (*core.AgentResponse, error) {
	if err := turn.Validate(); err != nil {
		return nil, err
	}
	if turn.ConversationID == "" {
		turn.ConversationID = core.NewID()
	}

	// Two concurrent turns on one conversation would interleave their
	// history reads and appends; serialize them.
	unlock := o.locks.Lock(turn.ConversationKey())
	defer unlock()

	state := &turnState{start: time.Now()}
	scope := store.Scope{TenantID: turn.TenantID}

	// Load.
	cfg, err := o.configs.GetByTenantAndAgent(ctx, turn.TenantID, turn.AgentID)
	if err != nil {
		o.metrics.ObserveTurn(turn.TenantID, "config_not_found")
		return nil, err
	}
	cfg.Normalize()

	// Context.
	history, err := o.conversations.LastMessages(ctx, scope, turn.UserID, turn.ConversationID, cfg.Policies.HistoryWindow)
	if err != nil {
		o.logger.Warn("history load failed, continuing without context",
			"conversation_id", turn.ConversationID, "error", err.Error())
		history = nil
	}
	extracted := prompt.ExtractContext(history)

	// Prompt.
	tools := o.registry.AdvertisedTools(cfg)
	system := prompt.BuildSystemPrompt(cfg, tools)
	messages := prompt.BuildMessages(history, extracted, userText)

	// Think.
	req := model.Request{System: system, Messages: messages, Tools: tools}
	resp, err := o.router.Generate(ctx, cfg.LLM, req)
	if err != nil {
		o.metrics.ObserveTurn(turn.TenantID, "provider_error")
		return nil, err
	}
	o.metrics.ObserveProviderCall(cfg.LLM.Provider, resp.Model, resp.Latency)
	state.account(req, resp)

	toolCtx := &tool.Context{Turn: turn, Config: cfg, Logger: o.logger}

	// Act.
	var reply parsedReply
	var action core.Action
	if len(resp.ToolCalls) > 0 {
		reply, action = o.runToolCalls(ctx, cfg, turn, toolCtx, extracted, system, messages, resp, state)
	} else {
		reply, action = o.runInlineAction(ctx, cfg, toolCtx, extracted, resp, state)
	}

	// Shape.
	response := o.shape(turn, cfg, reply, action, state)

	// Persist. Failures are logged and swallowed; the turn already has a
	// response to return.
	o.persist(ctx, scope, turn, userText, response)

	o.metrics.ObserveTurn(turn.TenantID, "ok")
	o.metrics.AddTokens(state.tokensInput, state.tokensOutput)
	return response, nil
}

// runToolCalls executes the model-requested tool calls sequentially and
// issues the narration round-trip. Exactly one re-narration happens per
// turn: the second request carries no tool schema.
func (o *Orchestrator) runToolCalls(
	ctx context.Context,
	cfg *config.AgentConfig,
	turn core.TurnContext,
	toolCtx *tool.Context,
	extracted *prompt.ExtractedContext,
	system string,
	messages []model.Message,
	resp *model.Response,
	state *turnState,
) (parsedReply, core.Action) {
	calls := resp.ToolCalls
	if len(calls) > cfg.Policies.MaxToolCalls {
		o.logger.Warn("tool call count exceeds policy, truncating",
			"requested", len(calls), "max", cfg.Policies.MaxToolCalls)
		calls = calls[:cfg.Policies.MaxToolCalls]
	}

	executions := make([]execution, 0, len(calls))

	for _, call := range calls {
		args := map[string]any{}
		if call.Arguments != "" {
			if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
				o.logger.Warn("tool arguments are not valid JSON", "tool", call.Name, "error", err.Error())
				args = map[string]any{}
			}
		}
		fillImplicitArgs(call.Name, args, extracted)

		result := o.registry.Execute(ctx, cfg, call.Name, args, toolCtx)
		o.metrics.ObserveTool(call.Name, result.Success)
		state.toolsUsed = append(state.toolsUsed, call.Name)
		executions = append(executions, execution{call: call, result: result})
	}

	// A tool asking for clarification short-circuits the turn: no
	// narration round-trip, null action.
	for _, ex := range executions {
		if ex.result.NeedsUserInput {
			question := ex.result.Question
			return parsedReply{
				Message:          question,
				AudioDescription: audioDescription(question),
				Action:           core.NullAction(),
			}, core.NullAction()
		}
	}

	// Narration round-trip.
	narration := make([]model.Message, 0, len(messages)+len(executions)+2)
	narration = append(narration, messages...)
	narration = append(narration, model.Message{Role: model.RoleAssistant, ToolCalls: calls})
	for _, ex := range executions {
		encoded, err := json.Marshal(ex.result)
		if err != nil {
			encoded = []byte(`{"success":false,"error":"unencodable result"}`)
		}
		narration = append(narration, model.Message{
			Role:       model.RoleTool,
			Content:    string(encoded),
			ToolCallID: ex.call.ID,
		})
	}
	narration = append(narration, model.Message{Role: model.RoleSystem, Content: prompt.NarrationInstruction})

	var reply parsedReply
	narrReq := model.Request{System: system, Messages: narration}
	second, err := o.router.Generate(ctx, cfg.LLM, narrReq)
	if err != nil {
		// Tool side effects already happened; degrade to a deterministic
		// summary instead of failing the turn.
		o.logger.Error("narration call failed after tool execution",
			"conversation_id", turn.ConversationID, "error", err.Error())
		summary := summarizeResults(executionResults(executions))
		reply = parsedReply{
			Message:          summary,
			AudioDescription: audioDescription(summary),
			Action:           core.NullAction(),
			Degraded:         true,
		}
	} else {
		o.metrics.ObserveProviderCall(cfg.LLM.Provider, second.Model, second.Latency)
		state.account(narrReq, second)
		reply = parseReply(second.Content)
	}

	// The action mirrors the first successful tool execution.
	for _, ex := range executions {
		if ex.result.Success {
			return reply, core.NewAction(ex.call.Name, ex.result.Data)
		}
	}
	return reply, core.NullAction()
}

// execution pairs a requested tool call with its outcome.
type execution struct {
	call   model.ToolCall
	result core.ToolResult
}

func executionResults(executions []execution) []core.ToolResult {
	out := make([]core.ToolResult, len(executions))
	for i, ex := range executions {
		out[i] = ex.result
	}
	return out
}

// runInlineAction handles the parallel path where the model answers without
// the tool-call channel but names an action inside its JSON reply. A known,
// enabled action executes directly; an unknown name leaves the narrative
// untouched with a null action.
func (o *Orchestrator) runInlineAction(
	ctx context.Context,
	cfg *config.AgentConfig,
	toolCtx *tool.Context,
	extracted *prompt.ExtractedContext,
	resp *model.Response,
	state *turnState,
) (parsedReply, core.Action) {
	reply := parseReply(resp.Content)
	if reply.Action.IsNull() {
		return reply, core.NullAction()
	}

	name := reply.Action.Type
	if !o.registry.Executable(cfg, name) {
		o.logger.Warn("model named an unknown action, ignoring", "action", name)
		return reply, core.NullAction()
	}

	args := make(map[string]any, len(reply.Action.Payload))
	for k, v := range reply.Action.Payload {
		args[k] = v
	}
	fillImplicitArgs(name, args, extracted)

	result := o.registry.Execute(ctx, cfg, name, args, toolCtx)
	o.metrics.ObserveTool(name, result.Success)
	state.toolsUsed = append(state.toolsUsed, name)

	switch {
	case result.NeedsUserInput:
		reply.Message = result.Question
		reply.AudioDescription = audioDescription(result.Question)
		return reply, core.NullAction()
	case result.Success:
		return reply, core.NewAction(name, result.Data)
	default:
		o.logger.Warn("inline action failed", "action", name, "error", result.Error)
		return reply, core.NullAction()
	}
}

// fillImplicitArgs resolves anaphoric tool calls: "add it" without a product
// id refers to the first product of the last search result set.
func fillImplicitArgs(name string, args map[string]any, extracted *prompt.ExtractedContext) {
	if extracted == nil || len(extracted.LastSearchResults) == 0 {
		return
	}
	if name != tool.NameAddToCart && name != tool.NameShowProduct {
		return
	}
	if id, _ := args["productId"].(string); id == "" {
		args["productId"] = extracted.LastSearchResults[0].ID
	}
}

// summarizeResults renders tool outcomes as a plain message for the case
// where the narration call itself failed.
func summarizeResults(results []core.ToolResult) string {
	ok, failed := 0, 0
	firstError := ""
	for _, r := range results {
		if r.Success {
			ok++
			continue
		}
		failed++
		if firstError == "" {
			firstError = r.Error
		}
	}
	switch {
	case failed == 0:
		return "Done. I completed your request, but I could not generate a detailed summary this time."
	case ok == 0:
		return fmt.Sprintf("Sorry, I could not complete that: %s", firstError)
	default:
		return fmt.Sprintf("I completed part of your request, but something went wrong: %s", firstError)
	}
}

func (o *Orchestrator) shape(turn core.TurnContext, cfg *config.AgentConfig, reply parsedReply, action core.Action, state *turnState) *core.AgentResponse {
	modelID := state.modelID
	if modelID == "" {
		modelID = cfg.LLM.Model
	}
	audio := reply.AudioDescription
	if audio == "" {
		audio = audioDescription(reply.Message)
	}
	return &core.AgentResponse{
		Message:          reply.Message,
		AudioDescription: audio,
		ConversationID:   turn.ConversationID,
		Action:           action,
		Meta: core.ResponseMeta{
			Model:         modelID,
			Tokens:        state.tokensInput + state.tokensOutput,
			TokensInput:   state.tokensInput,
			TokensOutput:  state.tokensOutput,
			LatencyMS:     time.Since(state.start).Milliseconds(),
			ToolsUsed:     state.toolsUsed,
			EstimatedCost: o.prices.Cost(cfg.LLM.Provider, modelID, state.tokensInput, state.tokensOutput),
		},
	}
}

// persist appends the user and assistant messages. At-most-once: a failure
// here is logged and swallowed, leaving the turn unrecorded.
func (o *Orchestrator) persist(ctx context.Context, scope store.Scope, turn core.TurnContext, userText string, response *core.AgentResponse) {
	userMsg := core.NewConversationMessage(turn, core.RoleUser, userText)
	if err := o.conversations.SaveMessage(ctx, scope, userMsg); err != nil {
		o.logger.Error("persist user message failed", "conversation_id", turn.ConversationID, "error", err.Error())
		return
	}

	asstMsg := core.NewConversationMessage(turn, core.RoleAssistant, response.Message)
	if !asstMsg.CreatedAt.After(userMsg.CreatedAt) {
		asstMsg.CreatedAt = userMsg.CreatedAt.Add(time.Millisecond)
	}
	action := response.Action
	asstMsg.Action = &action
	asstMsg.Metadata = map[string]any{
		"model":      response.Meta.Model,
		"tools_used": response.Meta.ToolsUsed,
	}
	if err := o.conversations.SaveMessage(ctx, scope, asstMsg); err != nil {
		o.logger.Error("persist assistant message failed", "conversation_id", turn.ConversationID, "error", err.Error())
	}
}
