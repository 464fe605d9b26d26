package dashboard

import (
	"context"

	"github.com/google/uuid"
)

// Repository answers the count queries the dashboards are made of.
type Repository interface {
	CountPatients(ctx context.Context) (int, error)
	CountStaff(ctx context.Context) (int, error)
	CountTriageByPriority(ctx context.Context, priority string) (int, error)
	CountTriageByStatus(ctx context.Context, status string) (int, error)
	CountAppointments(ctx context.Context) (int, error)
	CountAppointmentsOnDate(ctx context.Context, date string) (int, error)
	CountAppointmentsForDoctorOnDate(ctx context.Context, doctorID uuid.UUID, date string) (int, error)
	CountAppointmentsForPatientByStatus(ctx context.Context, patientID uuid.UUID, statuses ...string) (int, error)
	CountAlertsByType(ctx context.Context, alertType string) (int, error)
	CountUnreadAlerts(ctx context.Context) (int, error)
}
