package tool

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopvoz/shopvoz/core"
	"github.com/shopvoz/shopvoz/store"
)

// orderLookupQuestion is the canned clarifying question asked when an order
// cannot be identified.
const orderLookupQuestion = "I need a bit more information to find your order. " +
	"Could you share your order number, or the email or phone used for the purchase?"

// GetOrderTool looks up an order by number, id, email or phone. Absence of
// every identifier is not a failure but a needs-user-input outcome, and so
// is a valid lookup that matches nothing.
type GetOrderTool struct {
	orders store.Orders
}

// NewGetOrderTool wires the tool to the order store.
func NewGetOrderTool(orders store.Orders) *GetOrderTool {
	return &GetOrderTool{orders: orders}
}

// Name implements Tool.
func (t *GetOrderTool) Name() string { return NameGetOrder }

// Description implements Tool.
func (t *GetOrderTool) Description() string {
	return "Look up an existing order by order number, order id, email or phone."
}

// Parameters implements Tool.
func (t *GetOrderTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"orderNumber": map[string]any{"type": "string", "description": "Order number shown to the customer"},
			"orderId":     map[string]any{"type": "string", "description": "Internal order id"},
			"email":       map[string]any{"type": "string", "description": "Email used for the purchase"},
			"phone":       map[string]any{"type": "string", "description": "Phone used for the purchase"},
		},
	}
}

type getOrderArgs struct {
	OrderNumber string `json:"orderNumber"`
	OrderID     string `json:"orderId"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
}

// Call implements Tool.
func (t *GetOrderTool) Call(ctx context.Context, toolCtx *Context, args map[string]any) core.ToolResult {
	var in getOrderArgs
	if err := decodeArgs(args, &in); err != nil {
		return core.FailResult(fmt.Sprintf("decode arguments: %v", err))
	}

	q := store.OrderQuery{
		OrderNumber: in.OrderNumber,
		OrderID:     in.OrderID,
		Email:       in.Email,
		Phone:       in.Phone,
	}
	if q.Empty() {
		return core.AskResult(orderLookupQuestion)
	}

	order, err := t.orders.ByQuery(ctx, toolCtx.Scope(), q)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return core.AskResult(orderLookupQuestion)
		}
		return core.FailResult(fmt.Sprintf("look up order: %v", err))
	}

	items := make([]any, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, map[string]any{
			"productId": item.ProductID,
			"name":      item.Name,
			"price":     item.Price,
			"quantity":  item.Quantity,
		})
	}
	return core.OKResult(map[string]any{
		"orderId":     order.ID,
		"orderNumber": order.OrderNumber,
		"status":      order.Status,
		"items":       items,
		"total":       order.Total,
	})
}
