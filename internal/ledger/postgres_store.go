package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dooflabs/dooficoin/internal/pagination"
)

// PostgresStore implements Store with PostgreSQL.
//
// Balances are stored as TEXT rather than NUMERIC: amounts carry up to 35
// fractional digits and the audit trail must round-trip the exact string
// the engine computed.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL-backed ledger store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Balance(ctx context.Context, playerID string) (string, error) {
	var bal string
	err := s.db.QueryRowContext(ctx, `
		SELECT balance FROM wallet_balances WHERE player_id = $1
	`, playerID).Scan(&bal)
	if err == sql.ErrNoRows {
		return "0", nil
	}
	if err != nil {
		return "", fmt.Errorf("ledger: get balance: %w", err)
	}
	return bal, nil
}

func (s *PostgresStore) Apply(ctx context.Context, updates []BalanceUpdate, entry *Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ledger: begin apply: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, u := range updates {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO wallet_balances (player_id, balance, updated_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (player_id) DO UPDATE SET balance = $2, updated_at = NOW()
		`, u.PlayerID, u.NewBalance)
		if err != nil {
			return fmt.Errorf("ledger: update balance for %s: %w", u.PlayerID, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO ledger_entries (id, sender_id, receiver_id, amount, currency, type, item_id, reference, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''), $9)
	`, entry.ID, entry.SenderID, entry.ReceiverID, entry.Amount, entry.Currency, entry.Type, entry.ItemID, entry.Reference, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("ledger: append entry: %w", err)
	}

	return tx.Commit()
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func (s *PostgresStore) History(ctx context.Context, playerID string, before *pagination.Cursor, limit int) ([]*Entry, error) {
	cursorAt, cursorID := time.Time{}, ""
	if before != nil {
		cursorAt, cursorID = before.CreatedAt, before.ID
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, sender_id, receiver_id, amount, currency, type, COALESCE(item_id, ''), COALESCE(reference, ''), created_at
		FROM ledger_entries
		WHERE (sender_id = $1 OR receiver_id = $1)
		  AND ($2::timestamptz IS NULL OR (created_at, id) < ($2, $3))
		ORDER BY created_at DESC, id DESC
		LIMIT $4
	`, playerID, nullTime(cursorAt), cursorID, limit)
	if err != nil {
		return nil, fmt.Errorf("ledger: history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []*Entry
	for rows.Next() {
		e := &Entry{}
		if err := rows.Scan(&e.ID, &e.SenderID, &e.ReceiverID, &e.Amount, &e.Currency, &e.Type, &e.ItemID, &e.Reference, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
