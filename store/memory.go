package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopvoz/shopvoz/core"
)

// InMemoryConversation is a volatile Conversation implementation storing
// messages in process-local slices. Safe for concurrent access; best suited
// for tests and local development.
type InMemoryConversation struct {
	mu       sync.RWMutex
	messages map[string][]core.ConversationMessage // key: tenant:user:conversation
}

// NewInMemoryConversation constructs an empty in-memory conversation store.
func NewInMemoryConversation() *InMemoryConversation {
	return &InMemoryConversation{messages: make(map[string][]core.ConversationMessage)}
}

func convKey(tenantID, userID, conversationID string) string {
	return tenantID + ":" + userID + ":" + conversationID
}

// LastMessages implements Conversation.
func (s *InMemoryConversation) LastMessages(_ context.Context, scope Scope, userID, conversationID string, limit int) ([]core.ConversationMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.messages[convKey(scope.TenantID, userID, conversationID)]
	if limit <= 0 || limit > len(all) {
		limit = len(all)
	}
	out := make([]core.ConversationMessage, limit)
	copy(out, all[len(all)-limit:])
	return out, nil
}

// SaveMessage implements Conversation.
func (s *InMemoryConversation) SaveMessage(_ context.Context, scope Scope, msg core.ConversationMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := convKey(scope.TenantID, msg.UserID, msg.ConversationID)
	s.messages[k] = append(s.messages[k], msg)
	return nil
}

// InMemoryProducts is a volatile Products implementation.
type InMemoryProducts struct {
	mu       sync.RWMutex
	products map[string][]Product // key: tenant
}

// NewInMemoryProducts constructs an empty in-memory catalogue.
func NewInMemoryProducts() *InMemoryProducts {
	return &InMemoryProducts{products: make(map[string][]Product)}
}

// Seed replaces a tenant's catalogue.
func (s *InMemoryProducts) Seed(tenantID string, products []Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]Product, len(products))
	copy(copied, products)
	s.products[tenantID] = copied
}

// Search implements Products. Matching is a case-insensitive substring scan
// over name, description and tags; empty and "*" queries match everything.
func (s *InMemoryProducts) Search(_ context.Context, scope Scope, query string) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query = strings.TrimSpace(strings.ToLower(query))
	wildcard := query == "" || query == "*"

	var out []Product
	for _, p := range s.products[scope.TenantID] {
		if p.Deleted || !p.Available {
			continue
		}
		if wildcard || matches(p, query) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func matches(p Product, query string) bool {
	if strings.Contains(strings.ToLower(p.Name), query) ||
		strings.Contains(strings.ToLower(p.Description), query) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

// Get implements Products.
func (s *InMemoryProducts) Get(_ context.Context, scope Scope, id string) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products[scope.TenantID] {
		if p.ID == id && !p.Deleted {
			clone := p
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

// InMemoryOrders is a volatile Orders implementation.
type InMemoryOrders struct {
	mu     sync.RWMutex
	orders map[string][]*Order // key: tenant
	seq    int
}

// NewInMemoryOrders constructs an empty in-memory order store.
func NewInMemoryOrders() *InMemoryOrders {
	return &InMemoryOrders{orders: make(map[string][]*Order)}
}

// PendingByUser implements Orders.
func (s *InMemoryOrders) PendingByUser(_ context.Context, scope Scope, userKey string) (*Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orders[scope.TenantID] {
		if o.UserKey == userKey && o.Status == OrderStatusPending {
			return cloneOrder(o), nil
		}
	}
	return nil, ErrNotFound
}

// ByQuery implements Orders. The newest matching order wins.
func (s *InMemoryOrders) ByQuery(_ context.Context, scope Scope, q OrderQuery) (*Order, error) {
	if q.Empty() {
		return nil, ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var best *Order
	for _, o := range s.orders[scope.TenantID] {
		if !orderMatches(o, q) {
			continue
		}
		if best == nil || o.CreatedAt.After(best.CreatedAt) {
			best = o
		}
	}
	if best == nil {
		return nil, ErrNotFound
	}
	return cloneOrder(best), nil
}

func orderMatches(o *Order, q OrderQuery) bool {
	switch {
	case q.OrderID != "" && o.ID == q.OrderID:
		return true
	case q.OrderNumber != "" && o.OrderNumber == q.OrderNumber:
		return true
	case q.Email != "" && strings.EqualFold(o.Email, q.Email):
		return true
	case q.Phone != "" && o.Phone == q.Phone:
		return true
	}
	return false
}

// Create implements Orders. Missing ids and order numbers are assigned.
func (s *InMemoryOrders) Create(_ context.Context, scope Scope, order *Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	if order.ID == "" {
		order.ID = core.NewID()
	}
	if order.OrderNumber == "" {
		order.OrderNumber = orderNumber(s.seq)
	}
	now := time.Now().UTC()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now
	s.orders[scope.TenantID] = append(s.orders[scope.TenantID], cloneOrder(order))
	return nil
}

// Update implements Orders.
func (s *InMemoryOrders) Update(_ context.Context, scope Scope, order *Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, o := range s.orders[scope.TenantID] {
		if o.ID == order.ID {
			order.UpdatedAt = time.Now().UTC()
			s.orders[scope.TenantID][i] = cloneOrder(order)
			return nil
		}
	}
	return ErrNotFound
}

func cloneOrder(o *Order) *Order {
	clone := *o
	clone.Items = make([]OrderItem, len(o.Items))
	copy(clone.Items, o.Items)
	return &clone
}

func orderNumber(seq int) string {
	return fmt.Sprintf("%s-%04d", time.Now().UTC().Format("20060102"), seq)
}
