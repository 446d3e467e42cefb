package prompt

import (
	"fmt"
	"strings"

	"github.com/shopvoz/shopvoz/core"
)

// maxSearchResults caps the carried-over search results for prompt-size
// control.
const maxSearchResults = 5

// SearchResult is one product carried over from a prior search action so the
// model can resolve back-references by name or position.
type SearchResult struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// ExtractedContext is the anaphora-resolution output of a history walk:
// which entities recent turns touched, the last structured action, and the
// last search result set.
type ExtractedContext struct {
	MentionedProductIDs []string
	LastAction          *core.Action
	LastSearchResults   []SearchResult
	Summary             string
}

// ExtractContext walks the short history in chronological order and
// accumulates referenced entities. It is a deterministic, order-preserving
// fold: same history in, same context out.
func ExtractContext(history []core.ConversationMessage) *ExtractedContext {
	out := &ExtractedContext{}
	seen := map[string]bool{}

	for _, msg := range history {
		if msg.Action == nil || msg.Action.IsNull() {
			continue
		}
		action := *msg.Action
		out.LastAction = &action

		switch action.Type {
		case "show_product", "add_to_cart":
			if id, ok := action.Payload["productId"].(string); ok && id != "" && !seen[id] {
				seen[id] = true
				out.MentionedProductIDs = append(out.MentionedProductIDs, id)
			}
		case "search_product":
			results := extractSearchResults(action.Payload)
			if len(results) > 0 {
				out.LastSearchResults = results
				for _, r := range results {
					if !seen[r.ID] {
						seen[r.ID] = true
						out.MentionedProductIDs = append(out.MentionedProductIDs, r.ID)
					}
				}
			}
		}
	}

	out.Summary = summarize(out)
	return out
}

func extractSearchResults(payload map[string]any) []SearchResult {
	raw, ok := payload["products"].([]any)
	if !ok {
		return nil
	}
	var out []SearchResult
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		r := SearchResult{}
		r.ID, _ = m["id"].(string)
		r.Name, _ = m["name"].(string)
		if price, ok := m["price"].(float64); ok {
			r.Price = price
		}
		if r.ID == "" {
			continue
		}
		out = append(out, r)
		if len(out) == maxSearchResults {
			break
		}
	}
	return out
}

// summarize renders the extracted context as a natural-language block the
// model can use to resolve "that one" without re-querying.
func summarize(ctx *ExtractedContext) string {
	if ctx.LastAction == nil && len(ctx.LastSearchResults) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Recent conversation context:\n")
	if len(ctx.LastSearchResults) > 0 {
		b.WriteString("The user recently saw these products:\n")
		for i, r := range ctx.LastSearchResults {
			fmt.Fprintf(&b, "%d. %s (id: %s, price: %.2f)\n", i+1, r.Name, r.ID, r.Price)
		}
		b.WriteString("When the user refers to \"that one\", \"it\" or a product by position or name, resolve it against this list.\n")
	}
	if ctx.LastAction != nil {
		fmt.Fprintf(&b, "The last action performed was: %s\n", ctx.LastAction.Type)
	}
	return b.String()
}
