// Package fraud implements the advisory risk scorer. It observes the
// stream of player actions, keeps a bounded per-player sliding window,
// and scores the window with a set of rules. A score at or above the
// alert threshold appends a FraudAlert for the review workflow; nothing
// in this package ever blocks or fails the action that triggered it.
package fraud

import (
	"context"
	"errors"
	"time"
)

var (
	ErrAlertNotFound   = errors.New("fraud alert not found")
	ErrAlreadyReviewed = errors.New("fraud alert already reviewed")
)

// Alert statuses.
const (
	StatusOpen     = "open"
	StatusReviewed = "reviewed"
)

// Action is one observed player action inside the sliding window.
type Action struct {
	PlayerID  string         `json:"playerId"`
	Type      string         `json:"type"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// RuleHit is one rule's contribution to a risk score.
type RuleHit struct {
	Rule   string  `json:"rule"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// Assessment is the result of scoring a player's window.
type Assessment struct {
	PlayerID string    `json:"playerId"`
	Score    float64   `json:"score"`
	Hits     []RuleHit `json:"hits,omitempty"`
	At       time.Time `json:"at"`
}

// FraudAlert records a threshold breach for human review.
type FraudAlert struct {
	ID          string     `json:"id"`
	PlayerID    string     `json:"playerId"`
	Score       float64    `json:"score"`
	Rules       []string   `json:"rules"`
	Detail      string     `json:"detail"`
	Status      string     `json:"status"`
	ReviewedBy  string     `json:"reviewedBy,omitempty"`
	ReviewedAt  *time.Time `json:"reviewedAt,omitempty"`
	ActionTaken string     `json:"actionTaken,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// AlertStore persists fraud alerts.
type AlertStore interface {
	Insert(ctx context.Context, a *FraudAlert) error
	Get(ctx context.Context, id string) (*FraudAlert, error)
	List(ctx context.Context, playerID, status string, limit int) ([]*FraudAlert, error)
	Update(ctx context.Context, a *FraudAlert) error
}

// Rule scores one suspicious pattern over a player's action window.
// The window is ordered oldest first. Rules must be cheap: they run on
// the hot path against a bounded window, never against full history.
type Rule interface {
	Name() string
	Evaluate(window []Action, now time.Time) (float64, string)
}

// Config holds the scorer tunables.
type Config struct {
	// WindowDuration bounds the sliding window by age.
	WindowDuration time.Duration
	// WindowSize bounds the sliding window by count.
	WindowSize int
	// AlertThreshold is the score at which a FraudAlert is appended.
	AlertThreshold float64
	// AlertCooldown suppresses repeat alerts for the same player.
	AlertCooldown time.Duration
}

// DefaultConfig returns the standard scorer tunables.
func DefaultConfig() Config {
	return Config{
		WindowDuration: 300 * time.Second,
		WindowSize:     200,
		AlertThreshold: 1.0,
		AlertCooldown:  60 * time.Second,
	}
}
