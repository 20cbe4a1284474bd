// Package mining implements time-gated Dooficoin accrual.
//
// Each player has at most one active session. Accrual is lazy: no timers
// run anywhere — a reward is emitted only when a poll observes that the
// next-reward time has passed. The clock is injected so the whole state
// machine is testable without waiting.
package mining

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dooflabs/dooficoin/internal/coin"
)

var (
	ErrSessionActive   = errors.New("player already has an active mining session")
	ErrNoActiveSession = errors.New("no active mining session")
	ErrSessionNotFound = errors.New("mining session not found")
)

// Session is one mining period for a player. At most one session per
// player is active at a time.
type Session struct {
	ID             string     `json:"id"`
	PlayerID       string     `json:"playerId"`
	StartTime      time.Time  `json:"startTime"`
	EndTime        *time.Time `json:"endTime,omitempty"`
	NextRewardTime time.Time  `json:"nextRewardTime"`
	CurrentRate    string     `json:"currentRate"`
	TotalMined     string     `json:"totalMined"`
	Active         bool       `json:"active"`
}

// Reward is an immutable record of one accrual event.
type Reward struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	PlayerID  string    `json:"playerId"`
	Amount    string    `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

// Statistics aggregates a player's lifetime mining results.
type Statistics struct {
	PlayerID           string     `json:"playerId"`
	TotalSessions      int        `json:"totalSessions"`
	TotalMinedLifetime string     `json:"totalMinedLifetime"`
	LongestSessionSecs int64      `json:"longestSessionSeconds"`
	LastSessionAt      *time.Time `json:"lastSessionAt,omitempty"`
}

// Store persists sessions, rewards, and statistics. CompleteTick must
// persist the session mutation and the reward row together or not at all.
type Store interface {
	ActiveSession(ctx context.Context, playerID string) (*Session, error)
	CreateSession(ctx context.Context, s *Session) error
	CompleteTick(ctx context.Context, s *Session, r *Reward) error
	CloseSession(ctx context.Context, s *Session) error
	Sessions(ctx context.Context, playerID string, limit int) ([]*Session, error)
	Rewards(ctx context.Context, playerID string, limit int) ([]*Reward, error)
	Stats(ctx context.Context, playerID string) (*Statistics, error)
	UpdateStats(ctx context.Context, stats *Statistics) error
	TopMiners(ctx context.Context, limit int) ([]*Statistics, error)
}

// Config carries the accrual policy.
type Config struct {
	// TickInterval is the wall-clock gap between reward ticks.
	TickInterval time.Duration
	// BaseRate is the reward amount for the first tick of a session.
	BaseRate decimal.Decimal
	// RateGrowth multiplies the per-tick rate after every emitted tick.
	// 1 keeps the rate constant.
	RateGrowth decimal.Decimal
	// CatchUpAll credits every elapsed interval when a poll arrives late.
	// When false a late poll emits a single tick, under-crediting
	// infrequent pollers.
	CatchUpAll bool
}

// DefaultConfig returns the standard accrual policy: one tick every ten
// minutes at the minimum coin increment, constant rate, no catch-up.
func DefaultConfig() Config {
	return Config{
		TickInterval: 600 * time.Second,
		BaseRate:     coin.MustParse("0.00000000000000000000000000000000001"),
		RateGrowth:   decimal.NewFromInt(1),
		CatchUpAll:   false,
	}
}
