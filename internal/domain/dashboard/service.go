package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vitalshub/vitalshub/internal/domain/alert"
	"github.com/vitalshub/vitalshub/internal/domain/appointment"
	"github.com/vitalshub/vitalshub/internal/domain/triage"
	"github.com/vitalshub/vitalshub/internal/platform/auth"
)

type Service struct {
	stats Repository
	now   func() time.Time
}

func NewService(stats Repository) *Service {
	return &Service{stats: stats, now: time.Now}
}

func (s *Service) today() string { return s.now().Format("2006-01-02") }

// StatsFor builds the dashboard for the caller's role. Unknown roles
// get an empty object rather than an error.
func (s *Service) StatsFor(ctx context.Context, role string, userID uuid.UUID) (any, error) {
	switch role {
	case auth.RoleNurse:
		return s.nurseStats(ctx)
	case auth.RoleDoctor:
		return s.doctorStats(ctx, userID)
	case auth.RolePatient:
		return s.patientStats(ctx, userID)
	case auth.RoleAdministrator:
		return s.adminStats(ctx)
	}
	return struct{}{}, nil
}

func (s *Service) nurseStats(ctx context.Context) (*NurseStats, error) {
	stats := &NurseStats{}
	var err error
	if stats.ActivePatients, err = s.stats.CountPatients(ctx); err != nil {
		return nil, err
	}
	if stats.CriticalCases, err = s.stats.CountTriageByPriority(ctx, triage.PriorityCritical); err != nil {
		return nil, err
	}
	if stats.TriageQueue, err = s.stats.CountTriageByStatus(ctx, triage.StatusPending); err != nil {
		return nil, err
	}
	if stats.AppointmentsToday, err = s.stats.CountAppointmentsOnDate(ctx, s.today()); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Service) doctorStats(ctx context.Context, doctorID uuid.UUID) (*DoctorStats, error) {
	stats := &DoctorStats{}
	var err error
	if stats.AppointmentsToday, err = s.stats.CountAppointmentsForDoctorOnDate(ctx, doctorID, s.today()); err != nil {
		return nil, err
	}
	if stats.PendingReviews, err = s.stats.CountTriageByStatus(ctx, triage.StatusPending); err != nil {
		return nil, err
	}
	if stats.CriticalAlerts, err = s.stats.CountAlertsByType(ctx, alert.TypeEmergency); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Service) patientStats(ctx context.Context, patientID uuid.UUID) (*PatientStats, error) {
	upcoming, err := s.stats.CountAppointmentsForPatientByStatus(ctx, patientID,
		appointment.StatusPending, appointment.StatusScheduled)
	if err != nil {
		return nil, err
	}
	return &PatientStats{UpcomingAppointments: upcoming}, nil
}

func (s *Service) adminStats(ctx context.Context) (*AdminStats, error) {
	stats := &AdminStats{}
	var err error
	if stats.TotalPatients, err = s.stats.CountPatients(ctx); err != nil {
		return nil, err
	}
	if stats.ActiveStaff, err = s.stats.CountStaff(ctx); err != nil {
		return nil, err
	}
	if stats.SystemAlerts, err = s.stats.CountUnreadAlerts(ctx); err != nil {
		return nil, err
	}
	if stats.MonthlyAppointments, err = s.stats.CountAppointments(ctx); err != nil {
		return nil, err
	}
	return stats, nil
}
