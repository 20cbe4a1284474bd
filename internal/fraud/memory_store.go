package fraud

import (
	"context"
	"sync"
)

// MemoryAlertStore is an in-memory AlertStore for tests and local
// development.
type MemoryAlertStore struct {
	mu     sync.RWMutex
	alerts []*FraudAlert
}

// NewMemoryAlertStore creates an empty in-memory store.
func NewMemoryAlertStore() *MemoryAlertStore {
	return &MemoryAlertStore{}
}

func (m *MemoryAlertStore) Insert(ctx context.Context, a *FraudAlert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	m.alerts = append(m.alerts, &cp)
	return nil
}

func (m *MemoryAlertStore) Get(ctx context.Context, id string) (*FraudAlert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.alerts {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, ErrAlertNotFound
}

func (m *MemoryAlertStore) List(ctx context.Context, playerID, status string, limit int) ([]*FraudAlert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*FraudAlert
	for i := len(m.alerts) - 1; i >= 0 && len(out) < limit; i-- {
		a := m.alerts[i]
		if playerID != "" && a.PlayerID != playerID {
			continue
		}
		if status != "" && a.Status != status {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MemoryAlertStore) Update(ctx context.Context, a *FraudAlert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.alerts {
		if existing.ID == a.ID {
			cp := *a
			m.alerts[i] = &cp
			return nil
		}
	}
	return ErrAlertNotFound
}
