package core

import "fmt"

// TurnContext identifies one inbound message: which tenant, which agent
// configuration, which end user and which conversation thread. Every store
// access and tool execution during the turn is scoped by these values.
type TurnContext struct {
	TenantID       string `json:"tenant_id"`
	UserID         string `json:"user_id"`
	ConversationID string `json:"conversation_id"`
	AgentID        string `json:"agent_id"`
}

// Validate reports the first missing identifier. ConversationID may be empty;
// the orchestrator starts a new conversation in that case.
func (t TurnContext) Validate() error {
	switch {
	case t.TenantID == "":
		return fmt.Errorf("turn context: missing tenant id")
	case t.UserID == "":
		return fmt.Errorf("turn context: missing user id")
	case t.AgentID == "":
		return fmt.Errorf("turn context: missing agent id")
	}
	return nil
}

// ConversationKey returns the serialization key for this turn. Two turns with
// the same key must not interleave their history reads and appends.
func (t TurnContext) ConversationKey() string {
	return t.TenantID + ":" + t.UserID + ":" + t.ConversationID
}
