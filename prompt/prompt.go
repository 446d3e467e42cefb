// Package prompt assembles the system instruction and message sequence sent
// to the provider router, and mines the short history for entities so
// pronouns resolve against prior tool results.
package prompt

import (
	"fmt"
	"strings"

	"github.com/shopvoz/shopvoz/config"
	"github.com/shopvoz/shopvoz/core"
	"github.com/shopvoz/shopvoz/model"
)

var personaText = map[config.Personality]string{
	config.PersonalityFriendly:     "You are a warm, friendly shopping assistant. Keep replies short and helpful.",
	config.PersonalityProfessional: "You are a precise, professional shopping assistant. Be concise and factual.",
	config.PersonalityPlayful:      "You are a playful, upbeat shopping assistant. Keep the tone light but useful.",
}

// BuildSystemPrompt renders persona, tool catalogue, knowledge topics and
// reply-format policy into one system instruction.
func BuildSystemPrompt(cfg *config.AgentConfig, tools []model.ToolDefinition) string {
	var b strings.Builder

	persona, ok := personaText[cfg.Personality]
	if !ok {
		persona = personaText[config.PersonalityFriendly]
	}
	b.WriteString(persona)
	if cfg.Name != "" {
		fmt.Fprintf(&b, " Your name is %s.", cfg.Name)
	}
	b.WriteString("\n\n")

	if len(tools) > 0 {
		b.WriteString("You can call these tools when the user's request needs them:\n")
		for _, t := range tools {
			fmt.Fprintf(&b, "- %s: %s\n", t.Name, t.Description)
		}
		b.WriteString("\n")
	}

	if len(cfg.Knowledge) > 0 {
		b.WriteString("You have knowledge sources for these topics: ")
		first := true
		for topic := range cfg.Knowledge {
			if !first {
				b.WriteString(", ")
			}
			b.WriteString(topic)
			first = false
		}
		b.WriteString(". Use the query_knowledge tool to answer questions about them.\n\n")
	}

	b.WriteString("Always answer with a single JSON object of the form ")
	b.WriteString(`{"message": "...", "audio_description": "...", "action": {"type": null, "payload": {}}}. `)
	b.WriteString("message is the text shown to the user; audio_description is a short spoken version of it. ")
	b.WriteString("Set action.type only when the reply performs a known action. Answer in the user's language.\n")

	return b.String()
}

// BuildMessages assembles the full message list: history first (chronological),
// then the extracted-context summary, then the current user text. The system
// prompt travels separately in the request.
func BuildMessages(history []core.ConversationMessage, extracted *ExtractedContext, userText string) []model.Message {
	out := make([]model.Message, 0, len(history)+2)
	for _, msg := range history {
		role := string(msg.Role)
		if role != model.RoleUser && role != model.RoleAssistant {
			continue
		}
		out = append(out, model.Message{Role: role, Content: msg.Content})
	}
	if extracted != nil && extracted.Summary != "" {
		out = append(out, model.Message{Role: model.RoleSystem, Content: extracted.Summary})
	}
	out = append(out, model.Message{Role: model.RoleUser, Content: userText})
	return out
}

// NarrationInstruction is the instruction appended after tool execution. The
// second round-trip carries no tool schema, so exactly one narration happens
// per turn.
const NarrationInstruction = "Here are the tool results. Explain them to the user in natural language, " +
	"in the user's language. If a tool reported an error, apologize briefly and say what went wrong. " +
	"Reply with the same JSON object format as before."
