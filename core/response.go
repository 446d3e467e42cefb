package core

// ResponseMeta carries per-turn accounting: which model answered, token
// counts (reported by the provider when available, estimated otherwise),
// wall-clock latency in milliseconds, the tools that executed and the
// estimated cost in USD.
type ResponseMeta struct {
	Model         string   `json:"model"`
	Tokens        int      `json:"tokens"`
	TokensInput   int      `json:"tokensInput"`
	TokensOutput  int      `json:"tokensOutput"`
	LatencyMS     int64    `json:"latency"`
	ToolsUsed     []string `json:"toolsUsed,omitempty"`
	EstimatedCost float64  `json:"estimatedCost"`
}

// AgentResponse is the contract returned to every caller of the orchestrator.
// Invariant: a null action type implies an empty payload.
type AgentResponse struct {
	Message          string       `json:"message"`
	AudioDescription string       `json:"audio_description"`
	ConversationID   string       `json:"conversationId"`
	Action           Action       `json:"action"`
	Meta             ResponseMeta `json:"meta"`
}
