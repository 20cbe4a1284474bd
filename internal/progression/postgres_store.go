package progression

import (
	"context"
	"database/sql"
)

// PostgresStore persists progression records in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a postgres-backed store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const levelColumns = `player_id, experience, monsters_killed, players_killed, level_ups, updated_at`

func (p *PostgresStore) Level(ctx context.Context, playerID string) (*PlayerLevel, error) {
	var pl PlayerLevel
	err := p.db.QueryRowContext(ctx, `
		SELECT `+levelColumns+`
		FROM player_levels
		WHERE player_id = $1`, playerID).
		Scan(&pl.PlayerID, &pl.Experience, &pl.MonstersKilled, &pl.PlayersKilled, &pl.LevelUps, &pl.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &pl, nil
}

func (p *PostgresStore) SaveLevel(ctx context.Context, pl *PlayerLevel) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO player_levels (`+levelColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (player_id) DO UPDATE SET
			experience = EXCLUDED.experience,
			monsters_killed = EXCLUDED.monsters_killed,
			players_killed = EXCLUDED.players_killed,
			level_ups = EXCLUDED.level_ups,
			updated_at = EXCLUDED.updated_at`,
		pl.PlayerID, pl.Experience, pl.MonstersKilled, pl.PlayersKilled, pl.LevelUps, pl.UpdatedAt)
	return err
}

const scenarioColumns = `player_id, scenario_id, monsters_defeated, is_completed, is_perfect, completed_at, updated_at`

func (p *PostgresStore) Scenario(ctx context.Context, playerID, scenarioID string) (*ScenarioProgress, error) {
	row := p.db.QueryRowContext(ctx, `
		SELECT `+scenarioColumns+`
		FROM scenario_progress
		WHERE player_id = $1 AND scenario_id = $2`, playerID, scenarioID)
	sp, err := scanScenario(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return sp, err
}

func (p *PostgresStore) SaveScenario(ctx context.Context, sp *ScenarioProgress) error {
	// is_completed only ever moves false -> true
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO scenario_progress (`+scenarioColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (player_id, scenario_id) DO UPDATE SET
			monsters_defeated = EXCLUDED.monsters_defeated,
			is_completed = scenario_progress.is_completed OR EXCLUDED.is_completed,
			is_perfect = CASE WHEN scenario_progress.is_completed THEN scenario_progress.is_perfect ELSE EXCLUDED.is_perfect END,
			completed_at = COALESCE(scenario_progress.completed_at, EXCLUDED.completed_at),
			updated_at = EXCLUDED.updated_at`,
		sp.PlayerID, sp.ScenarioID, sp.MonstersDefeated, sp.IsCompleted, sp.IsPerfect, sp.CompletedAt, sp.UpdatedAt)
	return err
}

func (p *PostgresStore) Scenarios(ctx context.Context, playerID string) ([]*ScenarioProgress, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT `+scenarioColumns+`
		FROM scenario_progress
		WHERE player_id = $1
		ORDER BY scenario_id`, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*ScenarioProgress
	for rows.Next() {
		sp, err := scanScenario(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}

func (p *PostgresStore) Reward(ctx context.Context, playerID string, level int) (*LevelReward, error) {
	var r LevelReward
	err := p.db.QueryRowContext(ctx, `
		SELECT player_id, level, amount, claimed_at
		FROM level_rewards
		WHERE player_id = $1 AND level = $2`, playerID, level).
		Scan(&r.PlayerID, &r.Level, &r.Amount, &r.ClaimedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (p *PostgresStore) SaveReward(ctx context.Context, r *LevelReward) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO level_rewards (player_id, level, amount, claimed_at)
		VALUES ($1, $2, $3, $4)`,
		r.PlayerID, r.Level, r.Amount, r.ClaimedAt)
	return err
}

func (p *PostgresStore) TopByExperience(ctx context.Context, limit int) ([]*PlayerLevel, error) {
	return p.top(ctx, "experience", limit)
}

func (p *PostgresStore) TopByMonsters(ctx context.Context, limit int) ([]*PlayerLevel, error) {
	return p.top(ctx, "monsters_killed", limit)
}

func (p *PostgresStore) TopByPlayerKills(ctx context.Context, limit int) ([]*PlayerLevel, error) {
	return p.top(ctx, "players_killed", limit)
}

func (p *PostgresStore) top(ctx context.Context, column string, limit int) ([]*PlayerLevel, error) {
	// column comes from a fixed internal set, never user input
	rows, err := p.db.QueryContext(ctx, `
		SELECT `+levelColumns+`
		FROM player_levels
		ORDER BY `+column+` DESC, player_id
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*PlayerLevel
	for rows.Next() {
		var pl PlayerLevel
		if err := rows.Scan(&pl.PlayerID, &pl.Experience, &pl.MonstersKilled, &pl.PlayersKilled, &pl.LevelUps, &pl.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &pl)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScenario(row rowScanner) (*ScenarioProgress, error) {
	var sp ScenarioProgress
	var completed sql.NullTime
	err := row.Scan(&sp.PlayerID, &sp.ScenarioID, &sp.MonstersDefeated,
		&sp.IsCompleted, &sp.IsPerfect, &completed, &sp.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if completed.Valid {
		t := completed.Time
		sp.CompletedAt = &t
	}
	return &sp, nil
}
