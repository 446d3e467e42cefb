// Package tool implements the function-calling subsystem: the registry that
// advertises and executes capabilities, the built-in commerce tools, and the
// templated HTTP executor for tenant-declared custom tools.
package tool

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/shopvoz/shopvoz/config"
	"github.com/shopvoz/shopvoz/core"
	"github.com/shopvoz/shopvoz/logging"
	"github.com/shopvoz/shopvoz/store"
)

// Context carries per-call scoping to every tool execution: the turn
// identity, the agent configuration and a logger.
type Context struct {
	Turn   core.TurnContext
	Config *config.AgentConfig
	Logger logging.Logger
}

// Scope returns the tenant scope required by store methods.
func (c *Context) Scope() store.Scope {
	return store.Scope{TenantID: c.Turn.TenantID}
}

// Tool defines one callable capability. Implementations must be safe for
// concurrent use: a single tool value serves all tenants, with per-call
// scoping coming from the Context.
//
// Failures are results, not errors: a tool that cannot do its job returns a
// failed or needs-user-input ToolResult so sibling tool calls and the turn
// keep going.
type Tool interface {
	// Name returns the unique identifier advertised to the model
	// (snake_case).
	Name() string

	// Description tells the model when and how to use the tool.
	Description() string

	// Parameters returns a JSON schema describing the expected arguments.
	Parameters() map[string]any

	// Call executes the tool with already-validated arguments.
	Call(ctx context.Context, toolCtx *Context, args map[string]any) core.ToolResult
}

// ToolError represents errors that occur during tool execution.
type ToolError struct {
	Tool    string `json:"tool"`    // Name of the tool that failed
	Message string `json:"message"` // Error message
	Code    string `json:"code"`    // Error code for categorization
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// decodeArgs decodes a loosely typed argument map into a typed struct,
// coercing JSON numbers into integer fields where needed.
func decodeArgs(args map[string]any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		TagName:          "json",
	})
	if err != nil {
		return err
	}
	return decoder.Decode(args)
}
