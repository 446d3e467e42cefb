// Package retrieval defines the interface to the external knowledge
// retrieval collaborator. Embedding computation and vector search happen
// outside the core; tools call Query opaquely.
package retrieval

import (
	"context"
	"strings"
	"sync"
)

// Result is the answer returned for a knowledge query.
type Result struct {
	Data    string   `json:"data"`
	Sources []string `json:"sources,omitempty"`
}

// Retriever answers natural-language questions against a tenant's knowledge
// index.
type Retriever interface {
	Query(ctx context.Context, tenantID, text, indexRef string) (*Result, error)
}

// StaticRetriever is a map-backed Retriever for tests and local development.
// Entries are keyed by (tenantID, indexRef); lookup falls back to a substring
// scan over entry keys so loosely phrased questions still match.
type StaticRetriever struct {
	mu      sync.RWMutex
	entries map[string]map[string]string // tenant -> indexRef -> data
}

// NewStaticRetriever constructs an empty static retriever.
func NewStaticRetriever() *StaticRetriever {
	return &StaticRetriever{entries: make(map[string]map[string]string)}
}

// Add registers content under a tenant and index reference.
func (r *StaticRetriever) Add(tenantID, indexRef, data string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries[tenantID] == nil {
		r.entries[tenantID] = make(map[string]string)
	}
	r.entries[tenantID][indexRef] = data
}

// Query implements Retriever. Unknown indexes return an empty result rather
// than an error; knowledge gaps are not failures.
func (r *StaticRetriever) Query(_ context.Context, tenantID, text, indexRef string) (*Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	indexes := r.entries[tenantID]
	if indexes == nil {
		return &Result{}, nil
	}
	if data, ok := indexes[indexRef]; ok {
		return &Result{Data: data, Sources: []string{indexRef}}, nil
	}
	lower := strings.ToLower(text)
	for ref, data := range indexes {
		if strings.Contains(lower, strings.ToLower(ref)) {
			return &Result{Data: data, Sources: []string{ref}}, nil
		}
	}
	return &Result{}, nil
}
