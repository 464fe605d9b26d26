package appointment

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

const apptCols = `a.id, a.patient_id, a.doctor_id, a.priority_id, a.date, a.time,
	a.appointment_type, a.condition, a.status, a.notes, a.doctor_remarks,
	a.created_at, a.updated_at, pu.name, du.name, pr.name
	FROM appointments a
	JOIN users pu ON pu.id = a.patient_id
	JOIN users du ON du.id = a.doctor_id
	LEFT JOIN priorities pr ON pr.id = a.priority_id`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.PriorityID, &a.Date, &a.Time,
		&a.Type, &a.Condition, &a.Status, &a.Notes, &a.DoctorRemarks,
		&a.CreatedAt, &a.UpdatedAt, &a.PatientName, &a.DoctorName, &a.PriorityName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO appointments (id, patient_id, doctor_id, priority_id, date, time,
			appointment_type, condition, status, notes, doctor_remarks)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING created_at`,
		a.ID, a.PatientID, a.DoctorID, a.PriorityID, a.Date, a.Time,
		a.Type, a.Condition, a.Status, a.Notes, a.DoctorRemarks).
		Scan(&a.CreatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppointment(r.conn(ctx).QueryRow(ctx, `SELECT `+apptCols+` WHERE a.id = $1`, id))
}

func (r *repoPG) collect(rows pgx.Rows) ([]*Appointment, error) {
	defer rows.Close()
	var appts []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appts = append(appts, a)
	}
	return appts, rows.Err()
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM appointments`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+apptCols+` ORDER BY a.created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	appts, err := r.collect(rows)
	if err != nil {
		return nil, 0, err
	}
	return appts, total, nil
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+apptCols+` WHERE a.patient_id = $1 ORDER BY a.date ASC, a.time ASC`, patientID)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *repoPG) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*Appointment, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+apptCols+` WHERE a.doctor_id = $1 ORDER BY a.date ASC, a.time ASC`, doctorID)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *repoPG) ListByDate(ctx context.Context, date string) ([]*Appointment, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+apptCols+` WHERE a.date = $1 ORDER BY a.time ASC`, date)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointments SET date=$2, time=$3, appointment_type=$4, condition=$5,
			status=$6, notes=$7, doctor_remarks=$8, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.Date, a.Time, a.Type, a.Condition, a.Status, a.Notes, a.DoctorRemarks)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
