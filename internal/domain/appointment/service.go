package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Classifier maps a free-text condition to a priority tier id. A nil
// id with a nil error means the condition could not be classified and
// the booking proceeds without a priority.
type Classifier interface {
	Classify(ctx context.Context, condition string) (*uuid.UUID, error)
}

// DoctorDirectory answers whether a user account is a bookable doctor.
type DoctorDirectory interface {
	IsDoctor(ctx context.Context, userID uuid.UUID) (bool, error)
}

type Service struct {
	appts      Repository
	classifier Classifier
	doctors    DoctorDirectory
}

func NewService(appts Repository, classifier Classifier, doctors DoctorDirectory) *Service {
	return &Service{appts: appts, classifier: classifier, doctors: doctors}
}

func validSlot(date, time_, apptType string) error {
	if strings.TrimSpace(date) == "" || strings.TrimSpace(time_) == "" {
		return errors.New("date and time are required")
	}
	if strings.TrimSpace(apptType) == "" {
		return errors.New("appointment type is required")
	}
	return nil
}

// Book creates a pending appointment for the given patient. The
// condition is run through the classifier so the visit carries a
// priority from the moment it exists; a condition no tier matches
// books without one rather than failing.
func (s *Service) Book(ctx context.Context, patientID uuid.UUID, req BookingRequest) (*Appointment, error) {
	if err := validSlot(req.Date, req.Time, req.Type); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Condition) == "" {
		return nil, errors.New("condition is required")
	}
	ok, err := s.doctors.IsDoctor(ctx, req.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("check doctor: %w", err)
	}
	if !ok {
		return nil, ErrDoctorNotFound
	}

	priorityID, err := s.classifier.Classify(ctx, req.Condition)
	if err != nil {
		return nil, fmt.Errorf("classify condition: %w", err)
	}
	if priorityID == nil {
		log.Warn().Str("condition", req.Condition).Msg("condition left unclassified, booking without priority")
	}

	condition := req.Condition
	a := &Appointment{
		PatientID:  patientID,
		DoctorID:   req.DoctorID,
		PriorityID: priorityID,
		Date:       req.Date,
		Time:       req.Time,
		Type:       req.Type,
		Condition:  &condition,
		Notes:      req.Notes,
		Status:     StatusPending,
	}
	if err := s.appts.Create(ctx, a); err != nil {
		return nil, err
	}
	return s.appts.GetByID(ctx, a.ID)
}

// Create makes an appointment with an explicit patient, for staff-side
// scheduling. No classification happens here; the condition is stored
// as given.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Appointment, error) {
	if err := validSlot(req.Date, req.Time, req.Type); err != nil {
		return nil, err
	}
	ok, err := s.doctors.IsDoctor(ctx, req.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("check doctor: %w", err)
	}
	if !ok {
		return nil, ErrDoctorNotFound
	}
	a := &Appointment{
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		Date:      req.Date,
		Time:      req.Time,
		Type:      req.Type,
		Condition: req.Condition,
		Notes:     req.Notes,
		Status:    StatusPending,
	}
	if err := s.appts.Create(ctx, a); err != nil {
		return nil, err
	}
	return s.appts.GetByID(ctx, a.ID)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.appts.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	return s.appts.List(ctx, limit, offset)
}

func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error) {
	return s.appts.ListByPatient(ctx, patientID)
}

func (s *Service) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*Appointment, error) {
	return s.appts.ListByDoctor(ctx, doctorID)
}

func (s *Service) ListForDate(ctx context.Context, date string) ([]*Appointment, error) {
	return s.appts.ListByDate(ctx, date)
}

func validStatus(status string) bool {
	switch status {
	case StatusPending, StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Update applies a partial update. Fields absent from the patch keep
// their stored values.
func (s *Service) Update(ctx context.Context, id uuid.UUID, patch Patch) (*Appointment, error) {
	a, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Date != nil {
		a.Date = *patch.Date
	}
	if patch.Time != nil {
		a.Time = *patch.Time
	}
	if patch.Type != nil {
		a.Type = *patch.Type
	}
	if patch.Condition != nil {
		a.Condition = patch.Condition
	}
	if patch.Notes != nil {
		a.Notes = patch.Notes
	}
	if patch.DoctorRemarks != nil {
		a.DoctorRemarks = patch.DoctorRemarks
	}
	if patch.Status != nil {
		if !validStatus(*patch.Status) {
			return nil, fmt.Errorf("unknown status %q", *patch.Status)
		}
		a.Status = *patch.Status
	}
	if err := s.appts.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// MarkConsulted completes an appointment and records the doctor's
// remarks. Empty remarks leave any existing remarks in place.
func (s *Service) MarkConsulted(ctx context.Context, id uuid.UUID, remarks string) (*Appointment, error) {
	a, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Status = StatusCompleted
	if remarks != "" {
		a.DoctorRemarks = &remarks
	}
	if err := s.appts.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.appts.Delete(ctx, id)
}
