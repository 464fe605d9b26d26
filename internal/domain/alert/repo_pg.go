package alert

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vitalshub/vitalshub/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const alertCols = `id, user_id, alert_type, title, message, is_read, timestamp`

func scanAlert(row pgx.Row) (*Alert, error) {
	var a Alert
	err := row.Scan(&a.ID, &a.UserID, &a.Type, &a.Title, &a.Message, &a.IsRead, &a.Timestamp)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *repoPG) Create(ctx context.Context, a *Alert) error {
	a.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO alerts (id, user_id, alert_type, title, message, is_read)
		VALUES ($1,$2,$3,$4,$5,false)
		RETURNING is_read, timestamp`,
		a.ID, a.UserID, a.Type, a.Title, a.Message).Scan(&a.IsRead, &a.Timestamp)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Alert, error) {
	return scanAlert(r.conn(ctx).QueryRow(ctx,
		`SELECT `+alertCols+` FROM alerts WHERE id = $1`, id))
}

func (r *repoPG) list(ctx context.Context, query string, args ...any) ([]*Alert, error) {
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var alerts []*Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

func (r *repoPG) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Alert, error) {
	return r.list(ctx,
		`SELECT `+alertCols+` FROM alerts WHERE user_id = $1 ORDER BY timestamp DESC`, userID)
}

func (r *repoPG) ListUnreadByUser(ctx context.Context, userID uuid.UUID) ([]*Alert, error) {
	return r.list(ctx,
		`SELECT `+alertCols+` FROM alerts WHERE user_id = $1 AND NOT is_read ORDER BY timestamp DESC`, userID)
}

func (r *repoPG) MarkRead(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `UPDATE alerts SET is_read = true WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
