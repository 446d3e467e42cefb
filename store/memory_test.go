package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopvoz/shopvoz/core"
)

func turnMessage(tenant, user, conv, content string, role core.Role) core.ConversationMessage {
	turn := core.TurnContext{TenantID: tenant, UserID: user, ConversationID: conv, AgentID: "a1"}
	return core.NewConversationMessage(turn, role, content)
}

func TestInMemoryConversationRoundTrip(t *testing.T) {
	s := NewInMemoryConversation()
	scope := Scope{TenantID: "t1"}

	for _, content := range []string{"one", "two", "three"} {
		require.NoError(t, s.SaveMessage(context.Background(), scope, turnMessage("t1", "u1", "c1", content, core.RoleUser)))
	}

	msgs, err := s.LastMessages(context.Background(), scope, "u1", "c1", 10)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "one", msgs[0].Content)
	assert.Equal(t, "three", msgs[2].Content)
}

func TestInMemoryConversationWindow(t *testing.T) {
	s := NewInMemoryConversation()
	scope := Scope{TenantID: "t1"}

	for _, content := range []string{"one", "two", "three", "four"} {
		require.NoError(t, s.SaveMessage(context.Background(), scope, turnMessage("t1", "u1", "c1", content, core.RoleUser)))
	}

	msgs, err := s.LastMessages(context.Background(), scope, "u1", "c1", 2)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	// The newest messages win, oldest first.
	assert.Equal(t, "three", msgs[0].Content)
	assert.Equal(t, "four", msgs[1].Content)
}

func TestInMemoryConversationTenantIsolation(t *testing.T) {
	s := NewInMemoryConversation()

	require.NoError(t, s.SaveMessage(context.Background(), Scope{TenantID: "t1"}, turnMessage("t1", "u1", "c1", "secret", core.RoleUser)))

	msgs, err := s.LastMessages(context.Background(), Scope{TenantID: "t2"}, "u1", "c1", 10)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestInMemoryProductsSearch(t *testing.T) {
	s := NewInMemoryProducts()
	s.Seed("t1", []Product{
		{ID: "p2", Name: "Blue Shirt", Order: 2, Available: true},
		{ID: "p1", Name: "Red Shoes", Description: "Trail running", Order: 1, Available: true, Tags: []string{"footwear"}},
		{ID: "p3", Name: "Old Shoes", Order: 3, Available: true, Deleted: true},
		{ID: "p4", Name: "Sold Out Shoes", Order: 4, Available: false},
	})
	scope := Scope{TenantID: "t1"}

	all, err := s.Search(context.Background(), scope, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Ordered by the explicit order field, not insertion order.
	assert.Equal(t, "p1", all[0].ID)
	assert.Equal(t, "p2", all[1].ID)

	byTag, err := s.Search(context.Background(), scope, "FOOTWEAR")
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, "p1", byTag[0].ID)

	byDescription, err := s.Search(context.Background(), scope, "trail")
	require.NoError(t, err)
	assert.Len(t, byDescription, 1)

	wildcard, err := s.Search(context.Background(), scope, "*")
	require.NoError(t, err)
	assert.Len(t, wildcard, 2)
}

func TestInMemoryProductsGet(t *testing.T) {
	s := NewInMemoryProducts()
	s.Seed("t1", []Product{
		{ID: "p1", Name: "Red Shoes", Available: true},
		{ID: "p2", Name: "Gone", Deleted: true},
	})
	scope := Scope{TenantID: "t1"}

	p, err := s.Get(context.Background(), scope, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Red Shoes", p.Name)

	_, err = s.Get(context.Background(), scope, "p2")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Get(context.Background(), scope, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInMemoryOrdersCreateAssignsIdentity(t *testing.T) {
	s := NewInMemoryOrders()
	scope := Scope{TenantID: "t1"}

	order := &Order{UserKey: "u1", Status: OrderStatusPending}
	require.NoError(t, s.Create(context.Background(), scope, order))

	assert.NotEmpty(t, order.ID)
	assert.NotEmpty(t, order.OrderNumber)
	assert.False(t, order.CreatedAt.IsZero())
}

func TestInMemoryOrdersPendingByUser(t *testing.T) {
	s := NewInMemoryOrders()
	scope := Scope{TenantID: "t1"}

	require.NoError(t, s.Create(context.Background(), scope, &Order{UserKey: "u1", Status: OrderStatusConfirmed}))
	require.NoError(t, s.Create(context.Background(), scope, &Order{UserKey: "u1", Status: OrderStatusPending}))

	pending, err := s.PendingByUser(context.Background(), scope, "u1")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusPending, pending.Status)

	_, err = s.PendingByUser(context.Background(), scope, "someone-else")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInMemoryOrdersByQuery(t *testing.T) {
	s := NewInMemoryOrders()
	scope := Scope{TenantID: "t1"}

	order := &Order{UserKey: "u1", Email: "ana@example.com", Phone: "+34600111222", Status: OrderStatusConfirmed}
	require.NoError(t, s.Create(context.Background(), scope, order))

	byNumber, err := s.ByQuery(context.Background(), scope, OrderQuery{OrderNumber: order.OrderNumber})
	require.NoError(t, err)
	assert.Equal(t, order.ID, byNumber.ID)

	byEmail, err := s.ByQuery(context.Background(), scope, OrderQuery{Email: "ANA@EXAMPLE.COM"})
	require.NoError(t, err)
	assert.Equal(t, order.ID, byEmail.ID)

	_, err = s.ByQuery(context.Background(), scope, OrderQuery{})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.ByQuery(context.Background(), scope, OrderQuery{Phone: "unknown"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInMemoryOrdersUpdate(t *testing.T) {
	s := NewInMemoryOrders()
	scope := Scope{TenantID: "t1"}

	order := &Order{UserKey: "u1", Status: OrderStatusPending}
	require.NoError(t, s.Create(context.Background(), scope, order))

	order.MergeItem(OrderItem{ProductID: "p1", Price: 10, Quantity: 2})
	require.NoError(t, s.Update(context.Background(), scope, order))

	stored, err := s.PendingByUser(context.Background(), scope, "u1")
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.InDelta(t, 20, stored.Total, 0.001)

	missing := &Order{ID: "nope"}
	assert.ErrorIs(t, s.Update(context.Background(), scope, missing), ErrNotFound)
}

func TestOrderMergeItem(t *testing.T) {
	order := &Order{}
	order.MergeItem(OrderItem{ProductID: "p1", Price: 10, Quantity: 1})
	order.MergeItem(OrderItem{ProductID: "p1", Price: 10, Quantity: 2})
	order.MergeItem(OrderItem{ProductID: "p2", Price: 5, Quantity: 1})

	require.Len(t, order.Items, 2)
	assert.Equal(t, 3, order.Items[0].Quantity)
	assert.InDelta(t, 35, order.Total, 0.001)
}
