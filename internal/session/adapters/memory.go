// Package adapters provides in-memory session collaborators for local
// development and tests.
package adapters

import (
	"context"
	"sync"

	"sentra/internal/session/ports"
)

// MemoryCache stores the most recent credential in memory.
type MemoryCache struct {
	mu   sync.RWMutex
	cred *ports.Credential
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

func (c *MemoryCache) Store(_ context.Context, cred ports.Credential) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cred = &cred
	return nil
}

func (c *MemoryCache) Load(_ context.Context) (*ports.Credential, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.cred == nil {
		return nil, nil
	}
	cred := *c.cred
	return &cred, nil
}
