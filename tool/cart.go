package tool

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopvoz/shopvoz/core"
	"github.com/shopvoz/shopvoz/store"
)

// AddToCartTool adds a product to the user's cart: the single pending order
// per (tenant, user). Quantities merge into an existing line by product id
// and the total is recomputed from validated catalogue prices after every
// mutation.
type AddToCartTool struct {
	products store.Products
	orders   store.Orders
}

// NewAddToCartTool wires the tool to the product and order stores.
func NewAddToCartTool(products store.Products, orders store.Orders) *AddToCartTool {
	return &AddToCartTool{products: products, orders: orders}
}

// Name implements Tool.
func (t *AddToCartTool) Name() string { return NameAddToCart }

// Description implements Tool.
func (t *AddToCartTool) Description() string {
	return "Add a product to the user's cart by product id."
}

// Parameters implements Tool.
func (t *AddToCartTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"productId": map[string]any{
				"type":        "string",
				"description": "Id of the product to add",
			},
			"quantity": map[string]any{
				"type":        "integer",
				"description": "How many units; defaults to 1",
			},
		},
	}
}

type addToCartArgs struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Call implements Tool.
func (t *AddToCartTool) Call(ctx context.Context, toolCtx *Context, args map[string]any) core.ToolResult {
	var in addToCartArgs
	if err := decodeArgs(args, &in); err != nil {
		return core.FailResult(fmt.Sprintf("decode arguments: %v", err))
	}
	if in.ProductID == "" {
		return core.AskResult("Which product would you like to add to your cart?")
	}
	if in.Quantity <= 0 {
		in.Quantity = 1
	}

	scope := toolCtx.Scope()
	product, err := t.products.Get(ctx, scope, in.ProductID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return core.FailResult(fmt.Sprintf("product %q not found", in.ProductID))
		}
		return core.FailResult(fmt.Sprintf("load product: %v", err))
	}
	if !product.Available {
		return core.FailResult(fmt.Sprintf("product %q is not available", product.Name))
	}

	cart, err := t.orders.PendingByUser(ctx, scope, toolCtx.Turn.UserID)
	created := false
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return core.FailResult(fmt.Sprintf("load cart: %v", err))
		}
		cart = &store.Order{
			UserKey: toolCtx.Turn.UserID,
			Status:  store.OrderStatusPending,
		}
		created = true
	}

	cart.MergeItem(store.OrderItem{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  in.Quantity,
	})

	if created {
		err = t.orders.Create(ctx, scope, cart)
	} else {
		err = t.orders.Update(ctx, scope, cart)
	}
	if err != nil {
		return core.FailResult(fmt.Sprintf("save cart: %v", err))
	}

	items := make([]any, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, map[string]any{
			"productId": item.ProductID,
			"name":      item.Name,
			"price":     item.Price,
			"quantity":  item.Quantity,
		})
	}
	return core.OKResult(map[string]any{
		"productId": product.ID,
		"orderId":   cart.ID,
		"items":     items,
		"total":     cart.Total,
	})
}
