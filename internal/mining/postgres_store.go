package mining

import (
	"context"
	"database/sql"
)

// PostgresStore persists mining state in PostgreSQL. The numeric columns
// hold amounts as text so the 35-decimal coin values round-trip exactly.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a postgres-backed store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const sessionColumns = `id, player_id, start_time, end_time, next_reward_time, current_rate, total_mined, active`

func (p *PostgresStore) ActiveSession(ctx context.Context, playerID string) (*Session, error) {
	row := p.db.QueryRowContext(ctx, `
		SELECT `+sessionColumns+`
		FROM mining_sessions
		WHERE player_id = $1 AND active`, playerID)
	s, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, ErrNoActiveSession
	}
	return s, err
}

func (p *PostgresStore) CreateSession(ctx context.Context, s *Session) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO mining_sessions (`+sessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.PlayerID, s.StartTime, s.EndTime, s.NextRewardTime,
		s.CurrentRate, s.TotalMined, s.Active)
	return err
}

func (p *PostgresStore) CompleteTick(ctx context.Context, s *Session, r *Reward) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE mining_sessions
		SET next_reward_time = $2, current_rate = $3, total_mined = $4
		WHERE id = $1`,
		s.ID, s.NextRewardTime, s.CurrentRate, s.TotalMined)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSessionNotFound
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO mining_rewards (id, session_id, player_id, amount, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		r.ID, r.SessionID, r.PlayerID, r.Amount, r.Timestamp)
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (p *PostgresStore) CloseSession(ctx context.Context, s *Session) error {
	res, err := p.db.ExecContext(ctx, `
		UPDATE mining_sessions
		SET end_time = $2, active = FALSE
		WHERE id = $1`,
		s.ID, s.EndTime)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (p *PostgresStore) Sessions(ctx context.Context, playerID string, limit int) ([]*Session, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT `+sessionColumns+`
		FROM mining_sessions
		WHERE player_id = $1
		ORDER BY start_time DESC
		LIMIT $2`, playerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (p *PostgresStore) Rewards(ctx context.Context, playerID string, limit int) ([]*Reward, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, session_id, player_id, amount, created_at
		FROM mining_rewards
		WHERE player_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, playerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Reward
	for rows.Next() {
		var r Reward
		if err := rows.Scan(&r.ID, &r.SessionID, &r.PlayerID, &r.Amount, &r.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}

func (p *PostgresStore) Stats(ctx context.Context, playerID string) (*Statistics, error) {
	var st Statistics
	var last sql.NullTime
	err := p.db.QueryRowContext(ctx, `
		SELECT player_id, total_sessions, total_mined_lifetime, longest_session_seconds, last_session_at
		FROM mining_statistics
		WHERE player_id = $1`, playerID).
		Scan(&st.PlayerID, &st.TotalSessions, &st.TotalMinedLifetime, &st.LongestSessionSecs, &last)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if last.Valid {
		t := last.Time
		st.LastSessionAt = &t
	}
	return &st, nil
}

func (p *PostgresStore) UpdateStats(ctx context.Context, stats *Statistics) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO mining_statistics (player_id, total_sessions, total_mined_lifetime, longest_session_seconds, last_session_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (player_id) DO UPDATE SET
			total_sessions = EXCLUDED.total_sessions,
			total_mined_lifetime = EXCLUDED.total_mined_lifetime,
			longest_session_seconds = EXCLUDED.longest_session_seconds,
			last_session_at = EXCLUDED.last_session_at`,
		stats.PlayerID, stats.TotalSessions, stats.TotalMinedLifetime,
		stats.LongestSessionSecs, stats.LastSessionAt)
	return err
}

func (p *PostgresStore) TopMiners(ctx context.Context, limit int) ([]*Statistics, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT player_id, total_sessions, total_mined_lifetime, longest_session_seconds, last_session_at
		FROM mining_statistics
		ORDER BY total_mined_lifetime::numeric DESC, player_id
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Statistics
	for rows.Next() {
		var st Statistics
		var last sql.NullTime
		if err := rows.Scan(&st.PlayerID, &st.TotalSessions, &st.TotalMinedLifetime, &st.LongestSessionSecs, &last); err != nil {
			return nil, err
		}
		if last.Valid {
			t := last.Time
			st.LastSessionAt = &t
		}
		out = append(out, &st)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*Session, error) {
	var s Session
	var end sql.NullTime
	err := row.Scan(&s.ID, &s.PlayerID, &s.StartTime, &end, &s.NextRewardTime,
		&s.CurrentRate, &s.TotalMined, &s.Active)
	if err != nil {
		return nil, err
	}
	if end.Valid {
		t := end.Time
		s.EndTime = &t
	}
	return &s, nil
}
