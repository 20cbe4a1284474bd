package mining

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/dooflabs/dooficoin/internal/coin"
)

// MemoryStore is an in-memory Store for tests and local development.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session    // by session id
	active   map[string]string      // player id -> active session id
	rewards  map[string][]*Reward   // by player id, append order
	stats    map[string]*Statistics // by player id
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
		active:   make(map[string]string),
		rewards:  make(map[string][]*Reward),
		stats:    make(map[string]*Statistics),
	}
}

func (m *MemoryStore) ActiveSession(ctx context.Context, playerID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.active[playerID]
	if !ok {
		return nil, ErrNoActiveSession
	}
	s := *m.sessions[id]
	return &s, nil
}

func (m *MemoryStore) CreateSession(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.active[s.PlayerID]; ok {
		return ErrSessionActive
	}
	cp := *s
	m.sessions[s.ID] = &cp
	m.active[s.PlayerID] = s.ID
	return nil
}

func (m *MemoryStore) CompleteTick(ctx context.Context, s *Session, r *Reward) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.ID]; !ok {
		return ErrSessionNotFound
	}
	cp := *s
	m.sessions[s.ID] = &cp
	rc := *r
	m.rewards[r.PlayerID] = append(m.rewards[r.PlayerID], &rc)
	return nil
}

func (m *MemoryStore) CloseSession(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.ID]; !ok {
		return ErrSessionNotFound
	}
	cp := *s
	m.sessions[s.ID] = &cp
	if m.active[s.PlayerID] == s.ID {
		delete(m.active, s.PlayerID)
	}
	return nil
}

func (m *MemoryStore) Sessions(ctx context.Context, playerID string, limit int) ([]*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Session
	for _, s := range m.sessions {
		if s.PlayerID == playerID {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) Rewards(ctx context.Context, playerID string, limit int) ([]*Reward, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := m.rewards[playerID]
	var out []*Reward
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		cp := *all[i]
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MemoryStore) Stats(ctx context.Context, playerID string) (*Statistics, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.stats[playerID]
	if !ok {
		return nil, nil
	}
	cp := *st
	return &cp, nil
}

func (m *MemoryStore) UpdateStats(ctx context.Context, stats *Statistics) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *stats
	m.stats[stats.PlayerID] = &cp
	return nil
}

func (m *MemoryStore) TopMiners(ctx context.Context, limit int) ([]*Statistics, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Statistics
	for _, st := range m.stats {
		cp := *st
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		a := parseOrZero(out[i].TotalMinedLifetime)
		b := parseOrZero(out[j].TotalMinedLifetime)
		if !a.Equal(b) {
			return a.GreaterThan(b)
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func parseOrZero(s string) decimal.Decimal {
	d, ok := coin.Parse(s)
	if !ok {
		return decimal.Zero
	}
	return d
}
