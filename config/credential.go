package config

import (
	"context"
	"fmt"
	"sync"
)

// CredentialResolver resolves a credential reference from an agent
// configuration into a usable secret. Encryption at rest and key management
// live outside the core; implementations typically call a vault service.
type CredentialResolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

// StaticCredentials is a map-backed CredentialResolver for tests and local
// development. Safe for concurrent use.
type StaticCredentials struct {
	mu      sync.RWMutex
	secrets map[string]string
}

// NewStaticCredentials builds a resolver from a fixed secret map.
func NewStaticCredentials(secrets map[string]string) *StaticCredentials {
	copied := make(map[string]string, len(secrets))
	for k, v := range secrets {
		copied[k] = v
	}
	return &StaticCredentials{secrets: copied}
}

// Set registers or replaces a secret.
func (s *StaticCredentials) Set(ref, secret string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secrets[ref] = secret
}

// Resolve implements CredentialResolver. An empty ref resolves to an empty
// secret so providers with ambient credentials keep working.
func (s *StaticCredentials) Resolve(_ context.Context, ref string) (string, error) {
	if ref == "" {
		return "", nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	secret, ok := s.secrets[ref]
	if !ok {
		return "", fmt.Errorf("credential %q not found", ref)
	}
	return secret, nil
}
