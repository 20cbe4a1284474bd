// Package player manages the Player aggregate: identity, stats, and
// lifecycle. Currency balances live in the ledger; combat and mining
// mutate players through their services, never directly.
package player

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("player not found")
	ErrAlreadyExists = errors.New("player already exists for this user")
)

// Player is the per-user game aggregate. Created on first entry into the
// game and never hard-deleted while ledger or progression history
// references it.
type Player struct {
	ID               string     `json:"id"`
	UserID           string     `json:"userId"`
	Username         string     `json:"username"`
	Level            int        `json:"level"`
	Health           int        `json:"health"`
	Power            int        `json:"power"`
	MonstersKilled   int        `json:"monstersKilled"`
	SelfEliminations int        `json:"selfEliminations"`
	PlayerKills      int        `json:"playerKills"`
	Deaths           int        `json:"deaths"`
	CurrentPhase     int        `json:"currentPhase"`
	IsMining         bool       `json:"isMining"`
	LastActivity     *time.Time `json:"lastActivity,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// Store persists players.
type Store interface {
	Get(ctx context.Context, id string) (*Player, error)
	GetByUserID(ctx context.Context, userID string) (*Player, error)
	Create(ctx context.Context, p *Player) error
	Update(ctx context.Context, p *Player) error
}

// Defaults for a freshly created player.
const (
	StartingLevel  = 1
	StartingHealth = 100
	StartingPower  = 10
	StartingPhase  = 1
)
