package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionNullWireFormat(t *testing.T) {
	data, err := json.Marshal(NullAction())
	require.NoError(t, err)
	assert.JSONEq(t, `{"type": null, "payload": {}}`, string(data))
}

func TestActionTypedWireFormat(t *testing.T) {
	action := NewAction("add_to_cart", map[string]any{"productId": "p1"})
	data, err := json.Marshal(action)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type": "add_to_cart", "payload": {"productId": "p1"}}`, string(data))
}

func TestActionUnmarshalNullType(t *testing.T) {
	var action Action
	require.NoError(t, json.Unmarshal([]byte(`{"type": null, "payload": {"leftover": 1}}`), &action))
	assert.True(t, action.IsNull())
	// A null action never carries payload.
	assert.Empty(t, action.Payload)
}

func TestTurnContextValidate(t *testing.T) {
	valid := TurnContext{TenantID: "t1", UserID: "u1", AgentID: "a1"}
	assert.NoError(t, valid.Validate())

	assert.Error(t, TurnContext{UserID: "u1", AgentID: "a1"}.Validate())
	assert.Error(t, TurnContext{TenantID: "t1", AgentID: "a1"}.Validate())
	assert.Error(t, TurnContext{TenantID: "t1", UserID: "u1"}.Validate())

	// ConversationID may be empty; the orchestrator assigns one.
	noConv := TurnContext{TenantID: "t1", UserID: "u1", AgentID: "a1"}
	assert.NoError(t, noConv.Validate())
}

func TestConversationKey(t *testing.T) {
	turn := TurnContext{TenantID: "t1", UserID: "u1", ConversationID: "c1"}
	assert.Equal(t, "t1:u1:c1", turn.ConversationKey())
}

func TestToolResultHelpers(t *testing.T) {
	ok := OKResult(map[string]any{"count": 1})
	assert.True(t, ok.Success)
	assert.Equal(t, 1, ok.Data["count"])

	fail := FailResult("boom")
	assert.False(t, fail.Success)
	assert.Equal(t, "boom", fail.Error)

	ask := AskResult("which one?")
	assert.False(t, ask.Success)
	assert.True(t, ask.NeedsUserInput)
	assert.Equal(t, "which one?", ask.Question)
}
