// Package store defines the persistence collaborators of the agent core:
// conversation history, products and orders. Every method takes an explicit
// Scope carrying the tenant id, so tenant isolation is a signature-level
// requirement rather than a runtime wrapper.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/shopvoz/shopvoz/core"
)

// ErrNotFound is returned when a scoped lookup matches nothing.
var ErrNotFound = errors.New("store: not found")

// Scope carries the tenant id required by every store method.
type Scope struct {
	TenantID string
}

// Conversation persists append-only conversation history.
type Conversation interface {
	// LastMessages returns up to limit messages for the conversation in
	// chronological order (oldest first).
	LastMessages(ctx context.Context, scope Scope, userID, conversationID string, limit int) ([]core.ConversationMessage, error)
	// SaveMessage appends one message. Messages are never mutated or deleted.
	SaveMessage(ctx context.Context, scope Scope, msg core.ConversationMessage) error
}

// Product is one sellable item inside a tenant's catalogue.
type Product struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Price       float64        `json:"price"`
	Order       int            `json:"order"` // explicit display ordering
	Available   bool           `json:"available"`
	Deleted     bool           `json:"deleted"`
	Tags        []string       `json:"tags,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Products reads a tenant's catalogue.
type Products interface {
	// Search returns available, non-deleted items matching the query,
	// ordered by the explicit order field. An empty or wildcard query
	// returns everything.
	Search(ctx context.Context, scope Scope, query string) ([]Product, error)
	// Get returns one item by id or ErrNotFound.
	Get(ctx context.Context, scope Scope, id string) (*Product, error)
}

// OrderItem is one line of an order. Price is the validated catalogue price
// at the time the line was added.
type OrderItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Order statuses.
const (
	OrderStatusPending   = "pending" // acts as the cart
	OrderStatusConfirmed = "confirmed"
)

// Order is a purchase (or the pending cart) belonging to one user.
type Order struct {
	ID          string      `json:"id"`
	OrderNumber string      `json:"order_number"`
	UserKey     string      `json:"user_key"`
	Email       string      `json:"email,omitempty"`
	Phone       string      `json:"phone,omitempty"`
	Status      string      `json:"status"`
	Items       []OrderItem `json:"items"`
	Total       float64     `json:"total"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// RecomputeTotal sets Total to the sum of validated price times quantity
// across all items.
func (o *Order) RecomputeTotal() {
	total := 0.0
	for _, item := range o.Items {
		total += item.Price * float64(item.Quantity)
	}
	o.Total = total
}

// MergeItem adds quantity to an existing line with the same product id or
// appends a new line, then recomputes the total.
func (o *Order) MergeItem(item OrderItem) {
	for i := range o.Items {
		if o.Items[i].ProductID == item.ProductID {
			o.Items[i].Quantity += item.Quantity
			o.RecomputeTotal()
			return
		}
	}
	o.Items = append(o.Items, item)
	o.RecomputeTotal()
}

// OrderQuery identifies an order by any of its lookup keys. At least one
// field must be set.
type OrderQuery struct {
	OrderNumber string
	OrderID     string
	Email       string
	Phone       string
}

// Empty reports whether no identifying field is set.
func (q OrderQuery) Empty() bool {
	return q.OrderNumber == "" && q.OrderID == "" && q.Email == "" && q.Phone == ""
}

// Orders reads and writes a tenant's orders, including the single pending
// order per (tenant, user) that acts as the cart.
type Orders interface {
	// PendingByUser returns the user's pending order or ErrNotFound.
	PendingByUser(ctx context.Context, scope Scope, userKey string) (*Order, error)
	// ByQuery returns the newest order matching the query or ErrNotFound.
	ByQuery(ctx context.Context, scope Scope, q OrderQuery) (*Order, error)
	// Create stores a new order.
	Create(ctx context.Context, scope Scope, order *Order) error
	// Update replaces the stored order (item list and recomputed total).
	Update(ctx context.Context, scope Scope, order *Order) error
}
