package tool

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopvoz/shopvoz/core"
	"github.com/shopvoz/shopvoz/store"
)

// ShowProductTool returns the details of one product by id.
type ShowProductTool struct {
	products store.Products
}

// NewShowProductTool wires the tool to a product store.
func NewShowProductTool(products store.Products) *ShowProductTool {
	return &ShowProductTool{products: products}
}

// Name implements Tool.
func (t *ShowProductTool) Name() string { return NameShowProduct }

// Description implements Tool.
func (t *ShowProductTool) Description() string {
	return "Show the details of one product by product id."
}

// Parameters implements Tool.
func (t *ShowProductTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"productId": map[string]any{
				"type":        "string",
				"description": "Id of the product to show",
			},
		},
	}
}

// Call implements Tool.
func (t *ShowProductTool) Call(ctx context.Context, toolCtx *Context, args map[string]any) core.ToolResult {
	id, _ := args["productId"].(string)
	if id == "" {
		return core.AskResult("Which product would you like to see?")
	}

	product, err := t.products.Get(ctx, toolCtx.Scope(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return core.FailResult(fmt.Sprintf("product %q not found", id))
		}
		return core.FailResult(fmt.Sprintf("load product: %v", err))
	}

	view := viewOf(*product)
	view["productId"] = product.ID
	return core.OKResult(view)
}
