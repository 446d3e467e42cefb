package core

// ToolResult is the uniform outcome of a tool execution. NeedsUserInput is a
// third outcome distinct from success and failure: it tells the orchestrator
// to short-circuit the turn into a clarifying question instead of narrating
// or retrying.
type ToolResult struct {
	Success        bool           `json:"success"`
	Data           map[string]any `json:"data,omitempty"`
	Error          string         `json:"error,omitempty"`
	NeedsUserInput bool           `json:"needsUserInput,omitempty"`
	Question       string         `json:"question,omitempty"`
}

// OKResult builds a successful result with the given data payload.
func OKResult(data map[string]any) ToolResult {
	if data == nil {
		data = map[string]any{}
	}
	return ToolResult{Success: true, Data: data}
}

// FailResult builds a failed result from an error message.
func FailResult(msg string) ToolResult {
	return ToolResult{Success: false, Error: msg}
}

// AskResult builds a needs-user-input result carrying a clarifying question.
func AskResult(question string) ToolResult {
	return ToolResult{Success: false, NeedsUserInput: true, Question: question}
}
