package triage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	records []*Record
}

func (m *mockRepo) Create(_ context.Context, r *Record) error {
	r.ID = uuid.New()
	r.Timestamp = time.Now()
	cp := *r
	m.records = append(m.records, &cp)
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Record, error) {
	for _, r := range m.records {
		if r.ID == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Record, int, error) {
	return m.records, len(m.records), nil
}

func (m *mockRepo) ListByPriority(_ context.Context, priority string) ([]*Record, error) {
	var out []*Record
	for _, r := range m.records {
		if r.Priority == priority {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockRepo) ListByStatus(_ context.Context, status string) ([]*Record, error) {
	var out []*Record
	for _, r := range m.records {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	for _, r := range m.records {
		if r.ID == id {
			r.Status = status
			return nil
		}
	}
	return ErrNotFound
}

type mockNurseDirectory struct {
	byUser map[uuid.UUID]uuid.UUID
}

func (m *mockNurseDirectory) NurseIDForUser(_ context.Context, userID uuid.UUID) (uuid.UUID, error) {
	id, ok := m.byUser[userID]
	if !ok {
		return uuid.Nil, errors.New("nurse profile not found")
	}
	return id, nil
}

type triageEnv struct {
	repo        *mockRepo
	nurseUserID uuid.UUID
	nurseID     uuid.UUID
	svc         *Service
}

func newTriageEnv() *triageEnv {
	env := &triageEnv{
		repo:        &mockRepo{},
		nurseUserID: uuid.New(),
		nurseID:     uuid.New(),
	}
	env.svc = NewService(env.repo, &mockNurseDirectory{
		byUser: map[uuid.UUID]uuid.UUID{env.nurseUserID: env.nurseID},
	})
	return env
}

func validIntake() CreateRequest {
	return CreateRequest{
		PatientID:        uuid.New(),
		BloodPressure:    "120/80",
		HeartRate:        82,
		Temperature:      37.4,
		OxygenSaturation: 97,
		RespiratoryRate:  16,
		Symptoms:         "shortness of breath",
		Priority:         PriorityHigh,
	}
}

func TestCreate_NurseAttributedToOwnProfile(t *testing.T) {
	env := newTriageEnv()
	req := validIntake()
	other := uuid.New()
	req.NurseID = &other // must be ignored for nurse callers

	rec, err := env.svc.Create(context.Background(), env.nurseUserID, true, req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.NurseID != env.nurseID {
		t.Errorf("nurse = %s, want caller's profile %s", rec.NurseID, env.nurseID)
	}
	if rec.Status != StatusPending {
		t.Errorf("status = %q, want pending", rec.Status)
	}
}

func TestCreate_DoctorMustNameNurse(t *testing.T) {
	env := newTriageEnv()
	req := validIntake()
	if _, err := env.svc.Create(context.Background(), uuid.New(), false, req); err == nil {
		t.Error("expected error when doctor omits nurse_id")
	}

	nurseID := uuid.New()
	req.NurseID = &nurseID
	rec, err := env.svc.Create(context.Background(), uuid.New(), false, req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.NurseID != nurseID {
		t.Errorf("nurse = %s, want %s", rec.NurseID, nurseID)
	}
}

func TestCreate_VitalsValidation(t *testing.T) {
	env := newTriageEnv()
	for name, mutate := range map[string]func(*CreateRequest){
		"blood pressure":         func(r *CreateRequest) { r.BloodPressure = "" },
		"heart rate":             func(r *CreateRequest) { r.HeartRate = 0 },
		"temperature":            func(r *CreateRequest) { r.Temperature = -1 },
		"oxygen saturation low":  func(r *CreateRequest) { r.OxygenSaturation = 0 },
		"oxygen saturation high": func(r *CreateRequest) { r.OxygenSaturation = 140 },
		"respiratory rate":       func(r *CreateRequest) { r.RespiratoryRate = 0 },
		"symptoms":               func(r *CreateRequest) { r.Symptoms = " " },
		"priority blank":         func(r *CreateRequest) { r.Priority = " " },
	} {
		req := validIntake()
		mutate(&req)
		if _, err := env.svc.Create(context.Background(), env.nurseUserID, true, req); err == nil {
			t.Errorf("invalid %s: expected error", name)
		}
	}
	if len(env.repo.records) != 0 {
		t.Error("no record should be created on validation failure")
	}
}

func TestCreate_PriorityIsFreeForm(t *testing.T) {
	env := newTriageEnv()
	req := validIntake()
	req.Priority = "urgent"
	rec, err := env.svc.Create(context.Background(), env.nurseUserID, true, req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Priority != "urgent" {
		t.Errorf("priority = %q, want the label as given", rec.Priority)
	}
}

func TestUpdateStatus(t *testing.T) {
	env := newTriageEnv()
	rec, err := env.svc.Create(context.Background(), env.nurseUserID, true, validIntake())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := env.svc.UpdateStatus(context.Background(), rec.ID, StatusInProgress); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	got, err := env.svc.Get(context.Background(), rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != StatusInProgress {
		t.Errorf("status = %q, want in-progress", got.Status)
	}

	if err := env.svc.UpdateStatus(context.Background(), rec.ID, "archived"); err == nil {
		t.Error("expected error for unknown status")
	}
	if err := env.svc.UpdateStatus(context.Background(), uuid.New(), StatusCompleted); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing record: err = %v, want ErrNotFound", err)
	}
}

func TestListFilters(t *testing.T) {
	env := newTriageEnv()
	for _, p := range []string{PriorityCritical, PriorityCritical, PriorityLow} {
		req := validIntake()
		req.Priority = p
		if _, err := env.svc.Create(context.Background(), env.nurseUserID, true, req); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	crit, err := env.svc.ListByPriority(context.Background(), PriorityCritical)
	if err != nil {
		t.Fatalf("ListByPriority: %v", err)
	}
	if len(crit) != 2 {
		t.Errorf("critical = %d, want 2", len(crit))
	}
	pending, err := env.svc.ListByStatus(context.Background(), StatusPending)
	if err != nil {
		t.Fatalf("ListByStatus: %v", err)
	}
	if len(pending) != 3 {
		t.Errorf("pending = %d, want 3", len(pending))
	}
}
