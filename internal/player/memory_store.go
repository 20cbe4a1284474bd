package player

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory player store for demo/development mode.
type MemoryStore struct {
	mu       sync.RWMutex
	players  map[string]*Player // id → player
	byUserID map[string]string  // userID → id
}

// NewMemoryStore creates an in-memory player store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		players:  make(map[string]*Player),
		byUserID: make(map[string]string),
	}
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.players[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MemoryStore) GetByUserID(_ context.Context, userID string) (*Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byUserID[userID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *m.players[id]
	return &cp, nil
}

func (m *MemoryStore) Create(_ context.Context, p *Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byUserID[p.UserID]; ok {
		return ErrAlreadyExists
	}
	cp := *p
	m.players[p.ID] = &cp
	m.byUserID[p.UserID] = p.ID
	return nil
}

func (m *MemoryStore) Update(_ context.Context, p *Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.players[p.ID]; !ok {
		return ErrNotFound
	}
	cp := *p
	m.players[p.ID] = &cp
	return nil
}
