// Package ledger tracks Dooficoin balances and the append-only audit trail
// of every currency movement.
//
// Flow:
//  1. Mining credits rewards (minted from the system account)
//  2. Combat moves coins between players (kill transfers, death penalties)
//  3. Every movement appends an immutable Entry
//
// Balances are arbitrary-precision decimal strings. A balance is never
// negative at rest; remove and transfer fail atomically on insufficient
// funds with no partial mutation.
package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dooflabs/dooficoin/internal/coin"
	"github.com/dooflabs/dooficoin/internal/idgen"
	"github.com/dooflabs/dooficoin/internal/metrics"
	"github.com/dooflabs/dooficoin/internal/pagination"
	"github.com/dooflabs/dooficoin/internal/syncutil"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrPlayerNotFound    = errors.New("player not found")
)

// SystemAccount is the counterparty for minted rewards and burned
// penalties. It has no balance of its own.
const SystemAccount = "system"

// Entry types recorded on the audit trail.
const (
	TypeTransfer     = "transfer"
	TypeMiningReward = "mining_reward"
	TypeKillTransfer = "kill_transfer"
	TypeDeathPenalty = "death_penalty"
	TypeSelfElim     = "self_elim_reward"
	TypeLevelReward  = "level_reward"
	TypePurchase     = "purchase"
)

// Entry is an immutable record of one currency movement.
type Entry struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Amount     string    `json:"amount"`
	Currency   string    `json:"currency"`
	Type       string    `json:"type"`
	ItemID     string    `json:"itemId,omitempty"`
	Reference  string    `json:"reference,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// BalanceUpdate is one player's new balance inside an atomic apply.
type BalanceUpdate struct {
	PlayerID   string
	NewBalance string
}

// Store persists balances and entries. Apply must persist all balance
// updates and the entry together or not at all. History returns entries
// newest first, starting strictly before the cursor when one is given.
type Store interface {
	Balance(ctx context.Context, playerID string) (string, error)
	Apply(ctx context.Context, updates []BalanceUpdate, entry *Entry) error
	History(ctx context.Context, playerID string, before *pagination.Cursor, limit int) ([]*Entry, error)
}

// Ledger manages player balances.
type Ledger struct {
	store Store
	locks syncutil.ShardedMutex
}

// New creates a new ledger over the given store.
func New(store Store) *Ledger {
	return &Ledger{store: store}
}

// Balance returns a player's current balance as a decimal string.
func (l *Ledger) Balance(ctx context.Context, playerID string) (string, error) {
	return l.store.Balance(ctx, playerID)
}

// Add credits a player's balance. A zero amount is a no-op that still
// succeeds; no entry is recorded for it.
func (l *Ledger) Add(ctx context.Context, playerID, amount, entryType, reference string) error {
	amt, ok := coin.Parse(amount)
	if !ok {
		return ErrInvalidAmount
	}
	if amt.Sign() == 0 {
		return nil
	}

	unlock := l.locks.Lock(playerID)
	defer unlock()

	bal, err := l.balance(ctx, playerID)
	if err != nil {
		return err
	}

	entry := l.newEntry(SystemAccount, playerID, amt, entryType, reference)
	err = l.store.Apply(ctx, []BalanceUpdate{
		{PlayerID: playerID, NewBalance: coin.Format(bal.Add(amt))},
	}, entry)
	if err == nil {
		metrics.LedgerEntriesTotal.WithLabelValues(entryType).Inc()
	}
	return err
}

// Remove debits a player's balance, burning the coins. Fails with
// ErrInsufficientFunds and no mutation when the balance is short.
func (l *Ledger) Remove(ctx context.Context, playerID, amount, entryType, reference string) error {
	amt, ok := coin.Parse(amount)
	if !ok {
		return ErrInvalidAmount
	}
	if amt.Sign() == 0 {
		return nil
	}

	unlock := l.locks.Lock(playerID)
	defer unlock()

	bal, err := l.balance(ctx, playerID)
	if err != nil {
		return err
	}
	if bal.Cmp(amt) < 0 {
		return ErrInsufficientFunds
	}

	entry := l.newEntry(playerID, SystemAccount, amt, entryType, reference)
	err = l.store.Apply(ctx, []BalanceUpdate{
		{PlayerID: playerID, NewBalance: coin.Format(bal.Sub(amt))},
	}, entry)
	if err == nil {
		metrics.LedgerEntriesTotal.WithLabelValues(entryType).Inc()
	}
	return err
}

// Transfer moves coins between two players atomically. Both balances and
// the entry are applied together; on ErrInsufficientFunds nothing changes.
// Locks are acquired in a fixed global order so concurrent opposite
// transfers cannot deadlock.
func (l *Ledger) Transfer(ctx context.Context, fromID, toID, amount, entryType, reference string) error {
	amt, ok := coin.Parse(amount)
	if !ok {
		return ErrInvalidAmount
	}
	if amt.Sign() == 0 {
		return nil
	}

	unlock := l.locks.LockPair(fromID, toID)
	defer unlock()

	return l.transferLocked(ctx, fromID, toID, amt, entryType, reference)
}

// TransferPercent moves fraction*balance from one player to another,
// computing the percentage from the sender's balance at call time. The
// transferred amount is returned for audit and logging.
func (l *Ledger) TransferPercent(ctx context.Context, fromID, toID string, fraction decimal.Decimal, entryType, reference string) (string, error) {
	if fraction.Sign() < 0 {
		return "", ErrInvalidAmount
	}

	unlock := l.locks.LockPair(fromID, toID)
	defer unlock()

	fromBal, err := l.balance(ctx, fromID)
	if err != nil {
		return "", err
	}

	amt := coin.Percent(fromBal, fraction)
	if amt.Sign() == 0 {
		return coin.Format(decimal.Zero), nil
	}

	if err := l.transferLocked(ctx, fromID, toID, amt, entryType, reference); err != nil {
		return "", err
	}
	return coin.Format(amt), nil
}

// RemovePercent burns fraction*balance of a player, computed from the
// balance at call time. Returns the removed amount.
func (l *Ledger) RemovePercent(ctx context.Context, playerID string, fraction decimal.Decimal, entryType, reference string) (string, error) {
	if fraction.Sign() < 0 {
		return "", ErrInvalidAmount
	}

	unlock := l.locks.Lock(playerID)
	defer unlock()

	bal, err := l.balance(ctx, playerID)
	if err != nil {
		return "", err
	}

	amt := coin.Percent(bal, fraction)
	if amt.Sign() == 0 {
		return coin.Format(decimal.Zero), nil
	}

	entry := l.newEntry(playerID, SystemAccount, amt, entryType, reference)
	err = l.store.Apply(ctx, []BalanceUpdate{
		{PlayerID: playerID, NewBalance: coin.Format(bal.Sub(amt))},
	}, entry)
	if err != nil {
		return "", err
	}
	metrics.LedgerEntriesTotal.WithLabelValues(entryType).Inc()
	return coin.Format(amt), nil
}

// History returns one page of ledger entries touching a player, newest
// first. Pass the next cursor from a previous page to continue; the
// returned cursor is empty on the last page.
func (l *Ledger) History(ctx context.Context, playerID, cursor string, limit int) ([]*Entry, string, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	before, err := pagination.Decode(cursor)
	if err != nil {
		return nil, "", err
	}

	// fetch one extra to detect whether another page exists
	entries, err := l.store.History(ctx, playerID, before, limit+1)
	if err != nil {
		return nil, "", err
	}
	entries, next, _ := pagination.ComputePage(entries, limit, func(e *Entry) (time.Time, string) {
		return e.CreatedAt, e.ID
	})
	return entries, next, nil
}

// transferLocked applies a transfer with both locks already held.
func (l *Ledger) transferLocked(ctx context.Context, fromID, toID string, amt decimal.Decimal, entryType, reference string) error {
	fromBal, err := l.balance(ctx, fromID)
	if err != nil {
		return err
	}
	if fromBal.Cmp(amt) < 0 {
		return ErrInsufficientFunds
	}

	toBal, err := l.balance(ctx, toID)
	if err != nil {
		return err
	}

	entry := l.newEntry(fromID, toID, amt, entryType, reference)
	err = l.store.Apply(ctx, []BalanceUpdate{
		{PlayerID: fromID, NewBalance: coin.Format(fromBal.Sub(amt))},
		{PlayerID: toID, NewBalance: coin.Format(toBal.Add(amt))},
	}, entry)
	if err == nil {
		metrics.LedgerEntriesTotal.WithLabelValues(entryType).Inc()
	}
	return err
}

func (l *Ledger) balance(ctx context.Context, playerID string) (decimal.Decimal, error) {
	raw, err := l.store.Balance(ctx, playerID)
	if err != nil {
		return decimal.Zero, err
	}
	bal, ok := coin.Parse(raw)
	if !ok {
		return decimal.Zero, ErrInvalidAmount
	}
	return bal, nil
}

func (l *Ledger) newEntry(from, to string, amt decimal.Decimal, entryType, reference string) *Entry {
	return &Entry{
		ID:         idgen.WithPrefix("tx_"),
		SenderID:   from,
		ReceiverID: to,
		Amount:     coin.Format(amt),
		Currency:   coin.Code,
		Type:       entryType,
		Reference:  reference,
		CreatedAt:  time.Now(),
	}
}
