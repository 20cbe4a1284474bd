package wallet

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store for tests and local development.
type MemoryStore struct {
	mu    sync.RWMutex
	links map[string]*Link
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{links: make(map[string]*Link)}
}

func (m *MemoryStore) Get(ctx context.Context, playerID string) (*Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.links[playerID]
	if !ok {
		return nil, ErrNotConnected
	}
	cp := *l
	return &cp, nil
}

func (m *MemoryStore) Put(ctx context.Context, l *Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *l
	m.links[l.PlayerID] = &cp
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, playerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.links[playerID]; !ok {
		return ErrNotConnected
	}
	delete(m.links, playerID)
	return nil
}
