package config

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopvoz/shopvoz/core"
)

// Store reads agent configurations. Implementations are expected to be
// backed by the external configuration service; the in-memory store exists
// for tests and local development.
type Store interface {
	// GetByTenantAndAgent returns the configuration for a (tenant, agent)
	// pair or core.ErrConfigNotFound.
	GetByTenantAndAgent(ctx context.Context, tenantID, agentID string) (*AgentConfig, error)
}

// InMemoryStore is a volatile Store implementation holding configurations in
// a process-local map. Safe for concurrent access; returned configurations
// are clones so callers cannot mutate stored state.
type InMemoryStore struct {
	mu      sync.RWMutex
	configs map[string]*AgentConfig
}

// NewInMemoryStore constructs an empty in-memory configuration store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{configs: make(map[string]*AgentConfig)}
}

func key(tenantID, agentID string) string { return tenantID + ":" + agentID }

// Put stores a clone of the configuration after normalizing defaults.
func (s *InMemoryStore) Put(cfg *AgentConfig) {
	clone := cfg.Clone()
	clone.Normalize()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs[key(clone.TenantID, clone.AgentID)] = clone
}

// GetByTenantAndAgent implements Store.
func (s *InMemoryStore) GetByTenantAndAgent(_ context.Context, tenantID, agentID string) (*AgentConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg, ok := s.configs[key(tenantID, agentID)]
	if !ok {
		return nil, fmt.Errorf("tenant %q agent %q: %w", tenantID, agentID, core.ErrConfigNotFound)
	}
	return cfg.Clone(), nil
}
