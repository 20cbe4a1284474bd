package progression

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore is an in-memory Store for tests and local development.
type MemoryStore struct {
	mu        sync.RWMutex
	levels    map[string]*PlayerLevel      // by player id
	scenarios map[string]*ScenarioProgress // by player id + scenario id
	rewards   map[string]*LevelReward      // by player id + level
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		levels:    make(map[string]*PlayerLevel),
		scenarios: make(map[string]*ScenarioProgress),
		rewards:   make(map[string]*LevelReward),
	}
}

func scenarioKey(playerID, scenarioID string) string {
	return playerID + "/" + scenarioID
}

func rewardKey(playerID string, level int) string {
	return fmt.Sprintf("%s/%d", playerID, level)
}

func (m *MemoryStore) Level(ctx context.Context, playerID string) (*PlayerLevel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	pl, ok := m.levels[playerID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *pl
	return &cp, nil
}

func (m *MemoryStore) SaveLevel(ctx context.Context, pl *PlayerLevel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *pl
	m.levels[pl.PlayerID] = &cp
	return nil
}

func (m *MemoryStore) Scenario(ctx context.Context, playerID, scenarioID string) (*ScenarioProgress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sp, ok := m.scenarios[scenarioKey(playerID, scenarioID)]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *sp
	return &cp, nil
}

func (m *MemoryStore) SaveScenario(ctx context.Context, sp *ScenarioProgress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *sp
	m.scenarios[scenarioKey(sp.PlayerID, sp.ScenarioID)] = &cp
	return nil
}

func (m *MemoryStore) Scenarios(ctx context.Context, playerID string) ([]*ScenarioProgress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*ScenarioProgress
	for _, sp := range m.scenarios {
		if sp.PlayerID == playerID {
			cp := *sp
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScenarioID < out[j].ScenarioID })
	return out, nil
}

func (m *MemoryStore) Reward(ctx context.Context, playerID string, level int) (*LevelReward, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rewards[rewardKey(playerID, level)]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *MemoryStore) SaveReward(ctx context.Context, r *LevelReward) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	m.rewards[rewardKey(r.PlayerID, r.Level)] = &cp
	return nil
}

func (m *MemoryStore) TopByExperience(ctx context.Context, limit int) ([]*PlayerLevel, error) {
	return m.top(limit, func(a, b *PlayerLevel) bool { return a.Experience > b.Experience })
}

func (m *MemoryStore) TopByMonsters(ctx context.Context, limit int) ([]*PlayerLevel, error) {
	return m.top(limit, func(a, b *PlayerLevel) bool { return a.MonstersKilled > b.MonstersKilled })
}

func (m *MemoryStore) TopByPlayerKills(ctx context.Context, limit int) ([]*PlayerLevel, error) {
	return m.top(limit, func(a, b *PlayerLevel) bool { return a.PlayersKilled > b.PlayersKilled })
}

func (m *MemoryStore) top(limit int, less func(a, b *PlayerLevel) bool) ([]*PlayerLevel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*PlayerLevel
	for _, pl := range m.levels {
		cp := *pl
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if less(out[i], out[j]) != less(out[j], out[i]) {
			return less(out[i], out[j])
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
