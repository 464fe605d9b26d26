package dashboard

import (
	"context"

	"github.com/google/uuid"
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

func (r *repoPG) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	err := r.conn(ctx).QueryRow(ctx, query, args...).Scan(&n)
	return n, err
}

func (r *repoPG) CountPatients(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM patients`)
}

func (r *repoPG) CountStaff(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM users WHERE role IN ('nurse','doctor')`)
}

func (r *repoPG) CountTriageByPriority(ctx context.Context, priority string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM triage_records WHERE priority = $1`, priority)
}

func (r *repoPG) CountTriageByStatus(ctx context.Context, status string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM triage_records WHERE status = $1`, status)
}

func (r *repoPG) CountAppointments(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM appointments`)
}

func (r *repoPG) CountAppointmentsOnDate(ctx context.Context, date string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM appointments WHERE date = $1`, date)
}

func (r *repoPG) CountAppointmentsForDoctorOnDate(ctx context.Context, doctorID uuid.UUID, date string) (int, error) {
	return r.count(ctx,
		`SELECT COUNT(*) FROM appointments WHERE doctor_id = $1 AND date = $2`, doctorID, date)
}

func (r *repoPG) CountAppointmentsForPatientByStatus(ctx context.Context, patientID uuid.UUID, statuses ...string) (int, error) {
	return r.count(ctx,
		`SELECT COUNT(*) FROM appointments WHERE patient_id = $1 AND status = ANY($2)`, patientID, statuses)
}

func (r *repoPG) CountAlertsByType(ctx context.Context, alertType string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM alerts WHERE alert_type = $1`, alertType)
}

func (r *repoPG) CountUnreadAlerts(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM alerts WHERE NOT is_read`)
}
