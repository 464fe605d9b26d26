package triage

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

const triageCols = `t.id, t.patient_id, t.nurse_id, t.blood_pressure, t.heart_rate,
	t.temperature, t.oxygen_saturation, t.respiratory_rate, t.symptoms,
	t.priority, t.status, t.timestamp, pu.name, nu.name
	FROM triage_records t
	JOIN patients p ON p.id = t.patient_id
	JOIN users pu ON pu.id = p.user_id
	JOIN nurses n ON n.id = t.nurse_id
	JOIN users nu ON nu.id = n.user_id`

func scanRecord(row pgx.Row) (*Record, error) {
	var rec Record
	err := row.Scan(&rec.ID, &rec.PatientID, &rec.NurseID, &rec.BloodPressure, &rec.HeartRate,
		&rec.Temperature, &rec.OxygenSaturation, &rec.RespiratoryRate, &rec.Symptoms,
		&rec.Priority, &rec.Status, &rec.Timestamp, &rec.PatientName, &rec.NurseName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *repoPG) collect(rows pgx.Rows) ([]*Record, error) {
	defer rows.Close()
	var recs []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (r *repoPG) Create(ctx context.Context, rec *Record) error {
	rec.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO triage_records (id, patient_id, nurse_id, blood_pressure, heart_rate,
			temperature, oxygen_saturation, respiratory_rate, symptoms, priority, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING timestamp`,
		rec.ID, rec.PatientID, rec.NurseID, rec.BloodPressure, rec.HeartRate,
		rec.Temperature, rec.OxygenSaturation, rec.RespiratoryRate, rec.Symptoms,
		rec.Priority, rec.Status).Scan(&rec.Timestamp)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Record, error) {
	return scanRecord(r.conn(ctx).QueryRow(ctx, `SELECT `+triageCols+` WHERE t.id = $1`, id))
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Record, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM triage_records`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+triageCols+` ORDER BY t.timestamp DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	recs, err := r.collect(rows)
	if err != nil {
		return nil, 0, err
	}
	return recs, total, nil
}

func (r *repoPG) ListByPriority(ctx context.Context, priority string) ([]*Record, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+triageCols+` WHERE t.priority = $1 ORDER BY t.timestamp DESC`, priority)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *repoPG) ListByStatus(ctx context.Context, status string) ([]*Record, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+triageCols+` WHERE t.status = $1 ORDER BY t.timestamp DESC`, status)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE triage_records SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
