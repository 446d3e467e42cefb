// Package config defines per-tenant agent configuration: which model backend
// answers, which tools are advertised, conversational policy and knowledge
// routing. Configurations are created and updated by an external
// configuration API; this module only reads them.
package config

import "strings"

// ToolsMode gates which tool sets an agent advertises to the model.
type ToolsMode string

// Tool advertisement modes.
const (
	ToolsModeDefault ToolsMode = "default" // core tools only
	ToolsModeCustom  ToolsMode = "custom"  // tenant-declared tools only
	ToolsModeHybrid  ToolsMode = "hybrid"  // both
)

// CoreToolFlags enables individual built-in capabilities.
type CoreToolFlags struct {
	SearchProduct  bool `json:"search_product" yaml:"search_product"`
	AddToCart      bool `json:"add_to_cart" yaml:"add_to_cart"`
	GetOrder       bool `json:"get_order" yaml:"get_order"`
	ShowProduct    bool `json:"show_product" yaml:"show_product"`
	QueryKnowledge bool `json:"query_knowledge" yaml:"query_knowledge"`
}

// CustomTool is a tenant-declared capability backed by an arbitrary HTTP
// endpoint. Path placeholders ({param}) are substituted from call arguments
// at execution time.
type CustomTool struct {
	Name             string         `json:"name" yaml:"name"`
	BaseURL          string         `json:"base_url" yaml:"base_url"`
	Path             string         `json:"path,omitempty" yaml:"path,omitempty"`
	Method           string         `json:"method,omitempty" yaml:"method,omitempty"`
	CredentialRef    string         `json:"credential_ref,omitempty" yaml:"credential_ref,omitempty"`
	Enabled          bool           `json:"enabled" yaml:"enabled"`
	Description      string         `json:"description,omitempty" yaml:"description,omitempty"`
	ParametersSchema map[string]any `json:"parameters_schema,omitempty" yaml:"parameters_schema,omitempty"`
}

// Advertisable reports whether the tool may be advertised or executed: it
// must be enabled and carry both a name and a base URL.
func (t CustomTool) Advertisable() bool {
	return t.Enabled && t.Name != "" && t.BaseURL != ""
}

// ToolsConfig is the tools block of an agent configuration.
type ToolsConfig struct {
	Mode   ToolsMode     `json:"mode" yaml:"mode"`
	Core   CoreToolFlags `json:"core" yaml:"core"`
	Custom []CustomTool  `json:"custom,omitempty" yaml:"custom,omitempty"`
}

// AdvertisesCore reports whether core tools may be advertised under this mode.
func (t ToolsConfig) AdvertisesCore() bool {
	return t.Mode == ToolsModeDefault || t.Mode == ToolsModeHybrid || t.Mode == ""
}

// AdvertisesCustom reports whether custom tools may be advertised under this mode.
func (t ToolsConfig) AdvertisesCustom() bool {
	return t.Mode == ToolsModeCustom || t.Mode == ToolsModeHybrid
}

// KnowledgeKind names where a knowledge topic is answered from.
type KnowledgeKind string

// Knowledge source kinds.
const (
	KnowledgeRetrievalIndex KnowledgeKind = "retrieval-index"
	KnowledgeExternalAPI    KnowledgeKind = "external-api"
	KnowledgeDirectStore    KnowledgeKind = "direct-store"
)

// KnowledgeSource routes one topic to a backend: a retrieval index reference,
// an external API URL or inline stored content.
type KnowledgeSource struct {
	Kind KnowledgeKind `json:"kind" yaml:"kind"`
	Ref  string        `json:"ref" yaml:"ref"`
}

// Policies carries conversational policy knobs.
type Policies struct {
	ConfidenceThreshold float64 `json:"confidence_threshold" yaml:"confidence_threshold"`
	AllowExternalCalls  bool    `json:"allow_external_calls" yaml:"allow_external_calls"`
	MaxToolCalls        int     `json:"max_tool_calls" yaml:"max_tool_calls"`
	HistoryWindow       int     `json:"history_window" yaml:"history_window"`
}

// Personality selects the tone of the system prompt.
type Personality string

// Personality presets.
const (
	PersonalityFriendly     Personality = "friendly"
	PersonalityProfessional Personality = "professional"
	PersonalityPlayful      Personality = "playful"
)

// LLMConfig selects the model backend for an agent. CredentialRef names a
// secret resolved by a CredentialResolver; decryption happens outside the
// core. BaseURL overrides the vendor endpoint for OpenAI-compatible hosts.
type LLMConfig struct {
	Provider      string  `json:"provider" yaml:"provider"`
	Model         string  `json:"model" yaml:"model"`
	CredentialRef string  `json:"credential_ref,omitempty" yaml:"credential_ref,omitempty"`
	Temperature   float64 `json:"temperature" yaml:"temperature"`
	MaxTokens     int64   `json:"max_tokens" yaml:"max_tokens"`
	BaseURL       string  `json:"base_url,omitempty" yaml:"base_url,omitempty"`
}

// Usage tracks plan counters. Billing enforcement happens outside the core;
// the orchestrator only reports consumption.
type Usage struct {
	Plan         string `json:"plan" yaml:"plan"`
	MonthlyTurns int    `json:"monthly_turns" yaml:"monthly_turns"`
	TurnsUsed    int    `json:"turns_used" yaml:"turns_used"`
}

// AgentConfig is the full configuration for one agent inside one tenant.
// (TenantID, AgentID) is unique.
type AgentConfig struct {
	TenantID    string                     `json:"tenant_id" yaml:"tenant_id"`
	AgentID     string                     `json:"agent_id" yaml:"agent_id"`
	Name        string                     `json:"name" yaml:"name"`
	LLM         LLMConfig                  `json:"llm" yaml:"llm"`
	Tools       ToolsConfig                `json:"tools" yaml:"tools"`
	Knowledge   map[string]KnowledgeSource `json:"knowledge,omitempty" yaml:"knowledge,omitempty"`
	Policies    Policies                   `json:"policies" yaml:"policies"`
	Personality Personality                `json:"personality" yaml:"personality"`
	Usage       Usage                      `json:"usage" yaml:"usage"`
}

// Normalize fills zero-valued policy fields with safe defaults.
func (c *AgentConfig) Normalize() {
	if c.Policies.HistoryWindow <= 0 {
		c.Policies.HistoryWindow = 4
	}
	if c.Policies.MaxToolCalls <= 0 {
		c.Policies.MaxToolCalls = 5
	}
	if c.LLM.Temperature <= 0 {
		c.LLM.Temperature = 0.7
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = 1024
	}
	if c.Tools.Mode == "" {
		c.Tools.Mode = ToolsModeDefault
	}
	if c.Personality == "" {
		c.Personality = PersonalityFriendly
	}
	for i := range c.Tools.Custom {
		if c.Tools.Custom[i].Method == "" {
			c.Tools.Custom[i].Method = "POST"
		} else {
			c.Tools.Custom[i].Method = strings.ToUpper(c.Tools.Custom[i].Method)
		}
	}
}

// Clone returns a deep copy safe for independent mutation.
func (c *AgentConfig) Clone() *AgentConfig {
	clone := *c
	clone.Tools.Custom = make([]CustomTool, len(c.Tools.Custom))
	copy(clone.Tools.Custom, c.Tools.Custom)
	if c.Knowledge != nil {
		clone.Knowledge = make(map[string]KnowledgeSource, len(c.Knowledge))
		for k, v := range c.Knowledge {
			clone.Knowledge[k] = v
		}
	}
	return &clone
}
