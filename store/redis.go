package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/shopvoz/shopvoz/core"
)

// RedisConversation implements Conversation on Redis. Each conversation is a
// list of JSON-encoded messages under one key; appends use RPUSH so list
// order is chronological by construction.
type RedisConversation struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// RedisOption configures a RedisConversation.
type RedisOption func(*RedisConversation)

// WithTTL sets an expiration refreshed on every append. Zero means no
// expiration.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisConversation) { s.ttl = ttl }
}

// WithPrefix sets the key prefix for conversation lists.
func WithPrefix(prefix string) RedisOption {
	return func(s *RedisConversation) { s.prefix = prefix }
}

// NewRedisConversation creates a conversation store with its own client.
func NewRedisConversation(address, password string, db int, opts ...RedisOption) *RedisConversation {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewRedisConversationFromClient(client, opts...)
}

// NewRedisConversationFromClient creates a conversation store from an
// existing client.
func NewRedisConversationFromClient(client *backend.Client, opts ...RedisOption) *RedisConversation {
	s := &RedisConversation{
		client: client,
		prefix: "shopvoz:conversation:",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisConversation) key(scope Scope, userID, conversationID string) string {
	return s.prefix + convKey(scope.TenantID, userID, conversationID)
}

// LastMessages implements Conversation using LRANGE over the list tail.
func (s *RedisConversation) LastMessages(ctx context.Context, scope Scope, userID, conversationID string, limit int) ([]core.ConversationMessage, error) {
	start := int64(0)
	if limit > 0 {
		start = int64(-limit)
	}
	raw, err := s.client.LRange(ctx, s.key(scope, userID, conversationID), start, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange: %w", err)
	}
	out := make([]core.ConversationMessage, 0, len(raw))
	for _, item := range raw {
		var msg core.ConversationMessage
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, fmt.Errorf("decode message: %w", err)
		}
		out = append(out, msg)
	}
	return out, nil
}

// SaveMessage implements Conversation using RPUSH, refreshing the TTL when
// one is configured.
func (s *RedisConversation) SaveMessage(ctx context.Context, scope Scope, msg core.ConversationMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	k := s.key(scope, msg.UserID, msg.ConversationID)
	pipe := s.client.Pipeline()
	pipe.RPush(ctx, k, data)
	if s.ttl > 0 {
		pipe.Expire(ctx, k, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis rpush: %w", err)
	}
	return nil
}
