// Package wallet handles external wallet links. Connecting an address
// is real; withdrawals and deposits are deliberate stubs — there is no
// blockchain behind this game, and the endpoints say so instead of
// pretending to move coins.
package wallet

import (
	"context"
	"errors"
	"regexp"
	"time"
)

var (
	ErrNotConnected   = errors.New("player has no connected wallet")
	ErrInvalidAddress = errors.New("invalid wallet address")
	ErrNotSupported   = errors.New("external transfers are not supported")
)

// Link associates a player with an external wallet address.
type Link struct {
	PlayerID    string    `json:"playerId"`
	Address     string    `json:"address"`
	ConnectedAt time.Time `json:"connectedAt"`
}

// Store persists wallet links.
type Store interface {
	Get(ctx context.Context, playerID string) (*Link, error)
	Put(ctx context.Context, l *Link) error
	Delete(ctx context.Context, playerID string) error
}

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// Service manages wallet links.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService creates a wallet service.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// WithClock overrides the clock (for testing).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Connect links an external address to the player, replacing any
// previous link.
func (s *Service) Connect(ctx context.Context, playerID, address string) (*Link, error) {
	if !addressPattern.MatchString(address) {
		return nil, ErrInvalidAddress
	}
	l := &Link{PlayerID: playerID, Address: address, ConnectedAt: s.now()}
	if err := s.store.Put(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// Get returns the player's wallet link.
func (s *Service) Get(ctx context.Context, playerID string) (*Link, error) {
	return s.store.Get(ctx, playerID)
}

// Disconnect removes the player's wallet link.
func (s *Service) Disconnect(ctx context.Context, playerID string) error {
	return s.store.Delete(ctx, playerID)
}

// Withdraw is a stub. A wallet must be connected; beyond that the
// operation is not supported.
func (s *Service) Withdraw(ctx context.Context, playerID, amount string) error {
	if _, err := s.store.Get(ctx, playerID); err != nil {
		return err
	}
	return ErrNotSupported
}

// Deposit is a stub, same contract as Withdraw.
func (s *Service) Deposit(ctx context.Context, playerID, amount string) error {
	if _, err := s.store.Get(ctx, playerID); err != nil {
		return err
	}
	return ErrNotSupported
}
