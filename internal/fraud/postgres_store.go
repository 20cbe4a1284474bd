package fraud

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
)

// PostgresAlertStore persists fraud alerts in PostgreSQL.
type PostgresAlertStore struct {
	db *sql.DB
}

// NewPostgresAlertStore creates a postgres-backed store.
func NewPostgresAlertStore(db *sql.DB) *PostgresAlertStore {
	return &PostgresAlertStore{db: db}
}

const alertColumns = `id, player_id, score, rules, detail, status, reviewed_by, reviewed_at, action_taken, created_at`

func (p *PostgresAlertStore) Insert(ctx context.Context, a *FraudAlert) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO fraud_alerts (`+alertColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, NULLIF($9, ''), $10)`,
		a.ID, a.PlayerID, a.Score, pq.Array(a.Rules), a.Detail, a.Status,
		a.ReviewedBy, a.ReviewedAt, a.ActionTaken, a.CreatedAt)
	return err
}

func (p *PostgresAlertStore) Get(ctx context.Context, id string) (*FraudAlert, error) {
	row := p.db.QueryRowContext(ctx, `
		SELECT `+alertColumns+`
		FROM fraud_alerts
		WHERE id = $1`, id)
	a, err := scanAlert(row)
	if err == sql.ErrNoRows {
		return nil, ErrAlertNotFound
	}
	return a, err
}

func (p *PostgresAlertStore) List(ctx context.Context, playerID, status string, limit int) ([]*FraudAlert, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT `+alertColumns+`
		FROM fraud_alerts
		WHERE ($1 = '' OR player_id = $1)
		  AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3`, playerID, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*FraudAlert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (p *PostgresAlertStore) Update(ctx context.Context, a *FraudAlert) error {
	res, err := p.db.ExecContext(ctx, `
		UPDATE fraud_alerts
		SET status = $2, reviewed_by = NULLIF($3, ''), reviewed_at = $4, action_taken = NULLIF($5, '')
		WHERE id = $1`,
		a.ID, a.Status, a.ReviewedBy, a.ReviewedAt, a.ActionTaken)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAlertNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAlert(row rowScanner) (*FraudAlert, error) {
	var a FraudAlert
	var reviewedBy, actionTaken sql.NullString
	var reviewedAt sql.NullTime
	err := row.Scan(&a.ID, &a.PlayerID, &a.Score, pq.Array(&a.Rules), &a.Detail,
		&a.Status, &reviewedBy, &reviewedAt, &actionTaken, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	a.ReviewedBy = reviewedBy.String
	a.ActionTaken = actionTaken.String
	if reviewedAt.Valid {
		t := reviewedAt.Time
		a.ReviewedAt = &t
	}
	return &a, nil
}
