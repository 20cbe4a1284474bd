package ledger

import (
	"context"
	"sync"

	"github.com/dooflabs/dooficoin/internal/pagination"
)

// MemoryStore is an in-memory ledger store for demo/development mode.
type MemoryStore struct {
	balances map[string]string
	entries  []*Entry
	mu       sync.RWMutex
}

// NewMemoryStore creates a new in-memory ledger store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		balances: make(map[string]string),
		entries:  make([]*Entry, 0),
	}
}

func (m *MemoryStore) Balance(_ context.Context, playerID string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if bal, ok := m.balances[playerID]; ok {
		return bal, nil
	}
	return "0", nil
}

func (m *MemoryStore) Apply(_ context.Context, updates []BalanceUpdate, entry *Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range updates {
		m.balances[u.PlayerID] = u.NewBalance
	}
	cp := *entry
	m.entries = append(m.entries, &cp)
	return nil
}

func (m *MemoryStore) History(_ context.Context, playerID string, before *pagination.Cursor, limit int) ([]*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*Entry
	for i := len(m.entries) - 1; i >= 0 && len(result) < limit; i-- {
		e := m.entries[i]
		if e.SenderID != playerID && e.ReceiverID != playerID {
			continue
		}
		if before != nil && !beforeCursor(e, before) {
			continue
		}
		cp := *e
		result = append(result, &cp)
	}
	return result, nil
}

// beforeCursor reports whether the entry sorts strictly after the
// cursor position in newest-first order.
func beforeCursor(e *Entry, c *pagination.Cursor) bool {
	if e.CreatedAt.Equal(c.CreatedAt) {
		return e.ID < c.ID
	}
	return e.CreatedAt.Before(c.CreatedAt)
}

// Entries returns all stored entries (for testing).
func (m *MemoryStore) Entries() []*Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*Entry, len(m.entries))
	copy(result, m.entries)
	return result
}
