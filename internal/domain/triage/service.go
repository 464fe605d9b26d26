package triage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NurseDirectory resolves a signed-in nurse to their nurse profile.
type NurseDirectory interface {
	NurseIDForUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
}

type Service struct {
	records Repository
	nurses  NurseDirectory
}

func NewService(records Repository, nurses NurseDirectory) *Service {
	return &Service{records: records, nurses: nurses}
}

func validTriageStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

func validateVitals(req CreateRequest) error {
	if strings.TrimSpace(req.BloodPressure) == "" {
		return errors.New("blood pressure is required")
	}
	if req.HeartRate <= 0 {
		return errors.New("heart rate must be positive")
	}
	if req.Temperature <= 0 {
		return errors.New("temperature must be positive")
	}
	if req.OxygenSaturation <= 0 || req.OxygenSaturation > 100 {
		return errors.New("oxygen saturation must be between 1 and 100")
	}
	if req.RespiratoryRate <= 0 {
		return errors.New("respiratory rate must be positive")
	}
	return nil
}

// Create records a triage intake. When the caller is a nurse the record
// is attributed to their own profile regardless of the payload; doctors
// must name the nurse who took the vitals.
func (s *Service) Create(ctx context.Context, callerUserID uuid.UUID, callerIsNurse bool, req CreateRequest) (*Record, error) {
	if err := validateVitals(req); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Symptoms) == "" {
		return nil, errors.New("symptoms are required")
	}
	if strings.TrimSpace(req.Priority) == "" {
		return nil, errors.New("priority is required")
	}

	var nurseID uuid.UUID
	if callerIsNurse {
		id, err := s.nurses.NurseIDForUser(ctx, callerUserID)
		if err != nil {
			return nil, fmt.Errorf("resolve nurse profile: %w", err)
		}
		nurseID = id
	} else {
		if req.NurseID == nil {
			return nil, errors.New("nurse_id is required")
		}
		nurseID = *req.NurseID
	}

	rec := &Record{
		PatientID:        req.PatientID,
		NurseID:          nurseID,
		BloodPressure:    req.BloodPressure,
		HeartRate:        req.HeartRate,
		Temperature:      req.Temperature,
		OxygenSaturation: req.OxygenSaturation,
		RespiratoryRate:  req.RespiratoryRate,
		Symptoms:         req.Symptoms,
		Priority:         req.Priority,
		Status:           StatusPending,
	}
	if err := s.records.Create(ctx, rec); err != nil {
		return nil, err
	}
	return s.records.GetByID(ctx, rec.ID)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	return s.records.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Record, int, error) {
	return s.records.List(ctx, limit, offset)
}

func (s *Service) ListByPriority(ctx context.Context, priority string) ([]*Record, error) {
	return s.records.ListByPriority(ctx, priority)
}

func (s *Service) ListByStatus(ctx context.Context, status string) ([]*Record, error) {
	return s.records.ListByStatus(ctx, status)
}

// UpdateStatus advances a record through the intake pipeline.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	if !validTriageStatus(status) {
		return fmt.Errorf("unknown status %q", status)
	}
	return s.records.UpdateStatus(ctx, id, status)
}
