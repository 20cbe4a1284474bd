// Package combat resolves kill events into stat mutations and currency
// movements. All rules are deterministic functions of the player state
// and a single named Policy, so there is exactly one source of truth for
// every threshold and fraction.
package combat

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/dooflabs/dooficoin/internal/coin"
)

var (
	ErrSamePlayer = errors.New("attacker and victim are the same player")
)

// Policy holds every combat constant. Defaults follow the canonical
// game rules; all values are overridable through configuration.
type Policy struct {
	// HealEveryKills is the monster-kill threshold that restores health
	// and raises power.
	HealEveryKills int
	// LevelEveryKills is the monster-kill threshold that raises the level.
	LevelEveryKills int
	// PowerIncrement is added to power at every heal threshold.
	PowerIncrement int
	// MaxHealth is the value health resets to.
	MaxHealth int
	// SelfElimReward is credited for each self-elimination.
	SelfElimReward decimal.Decimal
	// DeathPenaltyFrac is the fraction of balance lost on death.
	DeathPenaltyFrac decimal.Decimal
	// KillTransferFrac is the fraction of the victim's balance moved to
	// the attacker on a player kill.
	KillTransferFrac decimal.Decimal
}

// LevelFor computes the level a monster-kill count earns. The player's
// stored level is raised to match whenever this exceeds it, which makes
// the comparison the single source of truth for level-up detection.
func (p Policy) LevelFor(monstersKilled int) int {
	return 1 + monstersKilled/p.LevelEveryKills
}

// DefaultPolicy returns the canonical combat rules.
func DefaultPolicy() Policy {
	return Policy{
		HealEveryKills:   100,
		LevelEveryKills:  500,
		PowerIncrement:   5,
		MaxHealth:        100,
		SelfElimReward:   coin.MustParse("0.00000000000000000000000000000000001"),
		DeathPenaltyFrac: coin.MustParse("0.1"),
		KillTransferFrac: coin.MustParse("0.2"),
	}
}

// MonsterKillResult reports what a monster kill changed.
type MonsterKillResult struct {
	PlayerID       string `json:"playerId"`
	MonstersKilled int    `json:"monstersKilled"`
	Healed         bool   `json:"healed"`
	PowerGained    int    `json:"powerGained"`
	LevelChanged   bool   `json:"levelChanged"`
	Level          int    `json:"level"`
}

// SelfElimResult reports a self-elimination and its reward.
type SelfElimResult struct {
	PlayerID         string `json:"playerId"`
	SelfEliminations int    `json:"selfEliminations"`
	Reward           string `json:"reward"`
}

// DeathResult reports a death and the balance penalty taken.
type DeathResult struct {
	PlayerID string `json:"playerId"`
	Deaths   int    `json:"deaths"`
	Penalty  string `json:"penalty"`
	Health   int    `json:"health"`
}

// PlayerKillResult reports a player-versus-player kill. Transferred is
// the literal amount moved from victim to attacker, for audit.
type PlayerKillResult struct {
	AttackerID  string `json:"attackerId"`
	VictimID    string `json:"victimId"`
	Transferred string `json:"transferred"`
	PlayerKills int    `json:"playerKills"`
}
