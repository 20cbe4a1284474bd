package player

import (
	"context"
	"time"

	"github.com/dooflabs/dooficoin/internal/idgen"
)

// Notifier receives lifecycle events, e.g. a realtime hub.
type Notifier interface {
	NotifyPlayerJoined(playerID, username string)
}

// Service implements player lifecycle operations.
type Service struct {
	store    Store
	notifier Notifier
	now      func() time.Time
}

// NewService creates a player service.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// WithClock overrides the clock (for testing).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithNotifier wires join broadcasting.
func (s *Service) WithNotifier(n Notifier) *Service {
	s.notifier = n
	return s
}

// Enter returns the player for a user, creating one on first entry.
// The boolean reports whether a new player was created.
func (s *Service) Enter(ctx context.Context, userID, username string) (*Player, bool, error) {
	existing, err := s.store.GetByUserID(ctx, userID)
	if err == nil {
		return existing, false, nil
	}
	if err != ErrNotFound {
		return nil, false, err
	}

	now := s.now()
	p := &Player{
		ID:           idgen.WithPrefix("plr_"),
		UserID:       userID,
		Username:     username,
		Level:        StartingLevel,
		Health:       StartingHealth,
		Power:        StartingPower,
		CurrentPhase: StartingPhase,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Create(ctx, p); err != nil {
		return nil, false, err
	}
	if s.notifier != nil {
		s.notifier.NotifyPlayerJoined(p.ID, p.Username)
	}
	return p, true, nil
}

// Get returns a player by id.
func (s *Service) Get(ctx context.Context, id string) (*Player, error) {
	return s.store.Get(ctx, id)
}

// SetMining records whether the player currently has a mining session.
func (s *Service) SetMining(ctx context.Context, id string, mining bool) error {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	p.IsMining = mining
	p.UpdatedAt = s.now()
	return s.store.Update(ctx, p)
}

// Touch updates the player's last-activity timestamp.
func (s *Service) Touch(ctx context.Context, id string) error {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	now := s.now()
	p.LastActivity = &now
	p.UpdatedAt = now
	return s.store.Update(ctx, p)
}
