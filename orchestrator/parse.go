package orchestrator

import (
	"strings"
	"unicode"

	"github.com/tidwall/gjson"

	"github.com/shopvoz/shopvoz/core"
)

// parsedReply is the structured form of a model answer. Degraded marks the
// fallback mode where the raw text could not be parsed as the expected JSON
// object and is used verbatim as the message.
type parsedReply struct {
	Message          string
	AudioDescription string
	Action           core.Action
	Degraded         bool
}

// parseReply extracts {message, audio_description, action} from a model
// answer. The model is instructed to reply with a single JSON object, but
// free text around it, fenced code blocks and plain prose all occur in
// practice; anything unparseable degrades to a plain-text reply with a
// generated audio description and a null action. Parse failure is never an
// error.
func parseReply(raw string) parsedReply {
	blob := firstJSONObject(raw)
	if blob == "" || !gjson.Valid(blob) {
		return degradedReply(raw)
	}

	parsed := gjson.Parse(blob)
	message := parsed.Get("message")
	if !message.Exists() {
		return degradedReply(raw)
	}

	out := parsedReply{
		Message:          message.String(),
		AudioDescription: parsed.Get("audio_description").String(),
		Action:           core.NullAction(),
	}
	if out.AudioDescription == "" {
		out.AudioDescription = audioDescription(out.Message)
	}

	actionType := parsed.Get("action.type")
	if actionType.Exists() && actionType.Type == gjson.String && actionType.String() != "" {
		payload, _ := parsed.Get("action.payload").Value().(map[string]any)
		out.Action = core.NewAction(actionType.String(), payload)
	}
	return out
}

func degradedReply(raw string) parsedReply {
	text := strings.TrimSpace(raw)
	return parsedReply{
		Message:          text,
		AudioDescription: audioDescription(text),
		Action:           core.NullAction(),
		Degraded:         true,
	}
}

// firstJSONObject returns the first balanced {...} region of the text,
// respecting string literals and escapes.
func firstJSONObject(text string) string {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}

// audioDescription derives a short spoken version of a message: first
// sentence, stripped of markdown emphasis, capped in length.
func audioDescription(message string) string {
	text := strings.NewReplacer("*", "", "_", "", "#", "", "`", "").Replace(message)
	text = strings.TrimSpace(text)
	if idx := strings.IndexFunc(text, func(r rune) bool { return r == '.' || r == '!' || r == '?' }); idx > 0 && idx < len(text)-1 {
		text = text[:idx+1]
	}
	const maxLen = 200
	if len(text) > maxLen {
		cut := text[:maxLen]
		if idx := strings.LastIndexFunc(cut, unicode.IsSpace); idx > 0 {
			cut = cut[:idx]
		}
		text = cut
	}
	return strings.TrimSpace(text)
}
