package priority

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
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

const tierCols = `id, name, description, condition_keywords, seq, created_at`

func (r *repoPG) scanTier(row pgx.Row) (*Tier, error) {
	var t Tier
	var rawKeywords *string
	err := row.Scan(&t.ID, &t.Name, &t.Description, &rawKeywords, &t.Seq, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if rawKeywords != nil && *rawKeywords != "" {
		if err := json.Unmarshal([]byte(*rawKeywords), &t.Keywords); err != nil {
			return nil, fmt.Errorf("decode keywords for tier %s: %w", t.Name, err)
		}
	}
	return &t, nil
}

func (r *repoPG) Create(ctx context.Context, t *Tier) error {
	t.ID = uuid.New()
	raw, err := json.Marshal(t.Keywords)
	if err != nil {
		return fmt.Errorf("encode keywords: %w", err)
	}
	err = r.conn(ctx).QueryRow(ctx, `
		INSERT INTO priorities (id, name, description, condition_keywords)
		VALUES ($1,$2,$3,$4)
		RETURNING seq, created_at`,
		t.ID, t.Name, t.Description, string(raw)).Scan(&t.Seq, &t.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Tier, error) {
	return r.scanTier(r.conn(ctx).QueryRow(ctx,
		`SELECT `+tierCols+` FROM priorities WHERE id = $1`, id))
}

func (r *repoPG) GetByName(ctx context.Context, name string) (*Tier, error) {
	return r.scanTier(r.conn(ctx).QueryRow(ctx,
		`SELECT `+tierCols+` FROM priorities WHERE name = $1`, name))
}

func (r *repoPG) List(ctx context.Context) ([]*Tier, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+tierCols+` FROM priorities ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tiers []*Tier
	for rows.Next() {
		t, err := r.scanTier(rows)
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, t)
	}
	return tiers, rows.Err()
}
