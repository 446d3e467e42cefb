package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `
agents:
  - tenant_id: t1
    agent_id: shop
    name: Clara
    personality: professional
    llm:
      provider: openai
      model: gpt-4o-mini
      credential_ref: openai-key
    tools:
      mode: hybrid
      core:
        search_product: true
        add_to_cart: true
      custom:
        - name: check_stock
          base_url: https://api.acme.test
          path: /stock/{productId}
          method: get
          enabled: true
    knowledge:
      hours:
        kind: direct-store
        ref: "Open 9:00-18:00 Monday to Saturday"
    policies:
      history_window: 6
      allow_external_calls: true
`

func TestParse(t *testing.T) {
	agents, err := Parse([]byte(fixture))
	require.NoError(t, err)
	require.Len(t, agents, 1)

	cfg := agents[0]
	assert.Equal(t, "t1", cfg.TenantID)
	assert.Equal(t, "shop", cfg.AgentID)
	assert.Equal(t, PersonalityProfessional, cfg.Personality)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, ToolsModeHybrid, cfg.Tools.Mode)
	assert.True(t, cfg.Tools.Core.SearchProduct)
	assert.False(t, cfg.Tools.Core.GetOrder)
	require.Len(t, cfg.Tools.Custom, 1)
	assert.Equal(t, "GET", cfg.Tools.Custom[0].Method)
	assert.Equal(t, KnowledgeDirectStore, cfg.Knowledge["hours"].Kind)
	assert.Equal(t, 6, cfg.Policies.HistoryWindow)
	// Unset policy knobs still get defaults.
	assert.Equal(t, 5, cfg.Policies.MaxToolCalls)
}

func TestParseRequiresIdentity(t *testing.T) {
	_, err := Parse([]byte("agents:\n  - name: nameless\n"))
	assert.Error(t, err)
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("agents: ["))
	assert.Error(t, err)
}
