package tool

import (
	"context"
	"fmt"

	"github.com/shopvoz/shopvoz/core"
	"github.com/shopvoz/shopvoz/store"
)

// Core tool names.
const (
	NameSearchProduct  = "search_product"
	NameAddToCart      = "add_to_cart"
	NameGetOrder       = "get_order"
	NameShowProduct    = "show_product"
	NameQueryKnowledge = "query_knowledge"
)

// SearchProductTool searches the tenant's catalogue. An empty or wildcard
// query returns all available items; the result always carries products and
// count, even when empty.
type SearchProductTool struct {
	products store.Products
}

// NewSearchProductTool wires the tool to a product store.
func NewSearchProductTool(products store.Products) *SearchProductTool {
	return &SearchProductTool{products: products}
}

// Name implements Tool.
func (t *SearchProductTool) Name() string { return NameSearchProduct }

// Description implements Tool.
func (t *SearchProductTool) Description() string {
	return "Search the product catalogue. Use an empty query to list everything."
}

// Parameters implements Tool.
func (t *SearchProductTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "Search text; empty or * lists all products",
			},
		},
	}
}

// ProductView is the product projection carried in tool results and actions.
type ProductView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
}

func viewOf(p store.Product) map[string]any {
	view := map[string]any{
		"id":    p.ID,
		"name":  p.Name,
		"price": p.Price,
	}
	if p.Description != "" {
		view["description"] = p.Description
	}
	return view
}

// Call implements Tool.
func (t *SearchProductTool) Call(ctx context.Context, toolCtx *Context, args map[string]any) core.ToolResult {
	query, _ := args["query"].(string)

	products, err := t.products.Search(ctx, toolCtx.Scope(), query)
	if err != nil {
		return core.FailResult(fmt.Sprintf("search products: %v", err))
	}

	views := make([]any, 0, len(products))
	for _, p := range products {
		views = append(views, viewOf(p))
	}
	return core.OKResult(map[string]any{
		"products": views,
		"count":    len(views),
	})
}
