package player

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// PostgresStore implements Store with PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL-backed player store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const playerColumns = `id, user_id, username, level, health, power,
	monsters_killed, self_eliminations, player_kills, deaths,
	current_phase, is_mining, last_activity, created_at, updated_at`

func (s *PostgresStore) Get(ctx context.Context, id string) (*Player, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE id = $1`, id)
	return scanPlayer(row)
}

func (s *PostgresStore) GetByUserID(ctx context.Context, userID string) (*Player, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE user_id = $1`, userID)
	return scanPlayer(row)
}

func (s *PostgresStore) Create(ctx context.Context, p *Player) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO players (id, user_id, username, level, health, power,
			monsters_killed, self_eliminations, player_kills, deaths,
			current_phase, is_mining, last_activity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`, p.ID, p.UserID, p.Username, p.Level, p.Health, p.Power,
		p.MonstersKilled, p.SelfEliminations, p.PlayerKills, p.Deaths,
		p.CurrentPhase, p.IsMining, p.LastActivity, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrAlreadyExists
		}
		return fmt.Errorf("player: create: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, p *Player) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE players SET username = $2, level = $3, health = $4, power = $5,
			monsters_killed = $6, self_eliminations = $7, player_kills = $8,
			deaths = $9, current_phase = $10, is_mining = $11,
			last_activity = $12, updated_at = NOW()
		WHERE id = $1
	`, p.ID, p.Username, p.Level, p.Health, p.Power,
		p.MonstersKilled, p.SelfEliminations, p.PlayerKills, p.Deaths,
		p.CurrentPhase, p.IsMining, p.LastActivity)
	if err != nil {
		return fmt.Errorf("player: update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPlayer(row *sql.Row) (*Player, error) {
	p := &Player{}
	err := row.Scan(&p.ID, &p.UserID, &p.Username, &p.Level, &p.Health, &p.Power,
		&p.MonstersKilled, &p.SelfEliminations, &p.PlayerKills, &p.Deaths,
		&p.CurrentPhase, &p.IsMining, &p.LastActivity, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("player: scan: %w", err)
	}
	return p, nil
}
