package wallet

import (
	"context"
	"database/sql"
)

// PostgresStore persists wallet links in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a postgres-backed store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (p *PostgresStore) Get(ctx context.Context, playerID string) (*Link, error) {
	var l Link
	err := p.db.QueryRowContext(ctx, `
		SELECT player_id, address, connected_at
		FROM wallet_links
		WHERE player_id = $1`, playerID).
		Scan(&l.PlayerID, &l.Address, &l.ConnectedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotConnected
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (p *PostgresStore) Put(ctx context.Context, l *Link) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO wallet_links (player_id, address, connected_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (player_id) DO UPDATE SET
			address = EXCLUDED.address,
			connected_at = EXCLUDED.connected_at`,
		l.PlayerID, l.Address, l.ConnectedAt)
	return err
}

func (p *PostgresStore) Delete(ctx context.Context, playerID string) error {
	res, err := p.db.ExecContext(ctx, `
		DELETE FROM wallet_links WHERE player_id = $1`, playerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotConnected
	}
	return nil
}
