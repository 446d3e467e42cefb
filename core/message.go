package core

import (
	"encoding/json"
	"time"
)

// Role is the conversational role of a message author.
type Role string

// Conversation roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Action is the structured side-effect attached to an assistant reply. An
// empty Type marshals as null per the response contract; an action with no
// type must carry an empty payload.
type Action struct {
	Type    string         `json:"-"`
	Payload map[string]any `json:"-"`
}

// NullAction returns the no-op action: null type, empty payload.
func NullAction() Action {
	return Action{Payload: map[string]any{}}
}

// NewAction builds a typed action. A nil payload is normalized to an empty
// object so callers always see {"payload": {}} on the wire.
func NewAction(typ string, payload map[string]any) Action {
	if payload == nil {
		payload = map[string]any{}
	}
	if typ == "" {
		payload = map[string]any{}
	}
	return Action{Type: typ, Payload: payload}
}

// IsNull reports whether the action carries no type.
func (a Action) IsNull() bool { return a.Type == "" }

type actionWire struct {
	Type    *string        `json:"type"`
	Payload map[string]any `json:"payload"`
}

// MarshalJSON emits {"type": null, "payload": {}} for the null action and the
// plain string type otherwise.
func (a Action) MarshalJSON() ([]byte, error) {
	w := actionWire{Payload: a.Payload}
	if w.Payload == nil {
		w.Payload = map[string]any{}
	}
	if a.Type != "" {
		t := a.Type
		w.Type = &t
	} else {
		w.Payload = map[string]any{}
	}
	return json.Marshal(w)
}

// UnmarshalJSON accepts both null and string types.
func (a *Action) UnmarshalJSON(data []byte) error {
	var w actionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.Type != nil {
		a.Type = *w.Type
	} else {
		a.Type = ""
	}
	a.Payload = w.Payload
	if a.Payload == nil || a.Type == "" {
		a.Payload = map[string]any{}
	}
	return nil
}

// ConversationMessage is one append-only entry in a conversation. The core
// never mutates or deletes a persisted message; ordering is by CreatedAt.
type ConversationMessage struct {
	ID             string         `json:"id"`
	TenantID       string         `json:"tenant_id"`
	UserID         string         `json:"user_id"`
	ConversationID string         `json:"conversation_id"`
	Role           Role           `json:"role"`
	Content        string         `json:"content"`
	Action         *Action        `json:"action,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// NewConversationMessage builds a message for the given turn with a fresh id
// and UTC timestamp.
func NewConversationMessage(turn TurnContext, role Role, content string) ConversationMessage {
	return ConversationMessage{
		ID:             NewID(),
		TenantID:       turn.TenantID,
		UserID:         turn.UserID,
		ConversationID: turn.ConversationID,
		Role:           role,
		Content:        content,
		CreatedAt:      time.Now().UTC(),
	}
}
