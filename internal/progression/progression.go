// Package progression tracks per-player advancement: experience and
// kill counters, scenario completion, phase gating, and level rewards.
// Counters only ever grow, and scenario completion is a one-way latch.
package progression

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dooflabs/dooficoin/internal/coin"
)

var (
	ErrNotFound          = errors.New("progression record not found")
	ErrAlreadyClaimed    = errors.New("level reward already claimed")
	ErrLevelNotReached   = errors.New("player has not reached that level")
	ErrInvalidTransition = errors.New("invalid phase transition")
)

// Experience awarded per event kind.
const (
	MonsterXP    = 10
	PlayerKillXP = 50
)

// PlayerLevel is the progression ledger for one player. Its counters
// are the bookkeeping source that the live player level is raised from.
type PlayerLevel struct {
	PlayerID       string    `json:"playerId"`
	Experience     int64     `json:"experience"`
	MonstersKilled int       `json:"monstersKilled"`
	PlayersKilled  int       `json:"playersKilled"`
	LevelUps       int       `json:"levelUps"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ScenarioProgress tracks one player's run through one scenario.
// IsCompleted never flips back to false once set.
type ScenarioProgress struct {
	PlayerID         string     `json:"playerId"`
	ScenarioID       string     `json:"scenarioId"`
	MonstersDefeated int        `json:"monstersDefeated"`
	IsCompleted      bool       `json:"isCompleted"`
	IsPerfect        bool       `json:"isPerfect"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// LevelReward is a one-shot currency claim unlocked by reaching a level.
type LevelReward struct {
	PlayerID  string    `json:"playerId"`
	Level     int       `json:"level"`
	Amount    string    `json:"amount"`
	ClaimedAt time.Time `json:"claimedAt"`
}

// Store persists progression records.
type Store interface {
	Level(ctx context.Context, playerID string) (*PlayerLevel, error)
	SaveLevel(ctx context.Context, pl *PlayerLevel) error
	Scenario(ctx context.Context, playerID, scenarioID string) (*ScenarioProgress, error)
	SaveScenario(ctx context.Context, sp *ScenarioProgress) error
	Scenarios(ctx context.Context, playerID string) ([]*ScenarioProgress, error)
	Reward(ctx context.Context, playerID string, level int) (*LevelReward, error)
	SaveReward(ctx context.Context, r *LevelReward) error
	TopByExperience(ctx context.Context, limit int) ([]*PlayerLevel, error)
	TopByMonsters(ctx context.Context, limit int) ([]*PlayerLevel, error)
	TopByPlayerKills(ctx context.Context, limit int) ([]*PlayerLevel, error)
}

// Config holds progression tunables.
type Config struct {
	// LevelRewardBase is multiplied by the level to price its reward.
	LevelRewardBase decimal.Decimal
}

// DefaultConfig returns the standard progression tunables.
func DefaultConfig() Config {
	return Config{
		LevelRewardBase: coin.MustParse("0.00000000000000000000000000000000001"),
	}
}

// RewardForLevel prices the one-shot reward for reaching a level.
func (c Config) RewardForLevel(level int) string {
	return coin.Format(c.LevelRewardBase.Mul(decimal.NewFromInt(int64(level))))
}
