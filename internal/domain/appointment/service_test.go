package appointment

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	appts []*Appointment
}

func (m *mockRepo) Create(_ context.Context, a *Appointment) error {
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	cp := *a
	m.appts = append(m.appts, &cp)
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	for _, a := range m.appts {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Appointment, int, error) {
	return m.appts, len(m.appts), nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*Appointment, error) {
	var out []*Appointment
	for _, a := range m.appts {
		if a.PatientID == patientID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockRepo) ListByDoctor(_ context.Context, doctorID uuid.UUID) ([]*Appointment, error) {
	var out []*Appointment
	for _, a := range m.appts {
		if a.DoctorID == doctorID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockRepo) ListByDate(_ context.Context, date string) ([]*Appointment, error) {
	var out []*Appointment
	for _, a := range m.appts {
		if a.Date == date {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockRepo) Update(_ context.Context, a *Appointment) error {
	for i, e := range m.appts {
		if e.ID == a.ID {
			cp := *a
			m.appts[i] = &cp
			return nil
		}
	}
	return ErrNotFound
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, a := range m.appts {
		if a.ID == id {
			m.appts = append(m.appts[:i], m.appts[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// mockClassifier maps conditions containing a keyword to a fixed tier id.
type mockClassifier struct {
	tiers    map[string]uuid.UUID
	fallback *uuid.UUID
}

func (m *mockClassifier) Classify(_ context.Context, condition string) (*uuid.UUID, error) {
	lowered := strings.ToLower(condition)
	for kw, id := range m.tiers {
		if strings.Contains(lowered, kw) {
			tid := id
			return &tid, nil
		}
	}
	return m.fallback, nil
}

type mockDoctorDirectory struct {
	doctors map[uuid.UUID]bool
}

func (m *mockDoctorDirectory) IsDoctor(_ context.Context, userID uuid.UUID) (bool, error) {
	return m.doctors[userID], nil
}

type apptEnv struct {
	repo     *mockRepo
	doctorID uuid.UUID
	highID   uuid.UUID
	lowID    uuid.UUID
	svc      *Service
}

func newApptEnv() *apptEnv {
	env := &apptEnv{
		repo:     &mockRepo{},
		doctorID: uuid.New(),
		highID:   uuid.New(),
		lowID:    uuid.New(),
	}
	lowID := env.lowID
	classifier := &mockClassifier{
		tiers:    map[string]uuid.UUID{"chest pain": env.highID},
		fallback: &lowID,
	}
	directory := &mockDoctorDirectory{doctors: map[uuid.UUID]bool{env.doctorID: true}}
	env.svc = NewService(env.repo, classifier, directory)
	return env
}

func validBooking(doctorID uuid.UUID) BookingRequest {
	return BookingRequest{
		DoctorID:  doctorID,
		Date:      "2026-09-15",
		Time:      "10:30",
		Type:      "consultation",
		Condition: "chest pain and dizziness",
	}
}

func TestBook_AssignsPriorityAndPendingStatus(t *testing.T) {
	env := newApptEnv()
	patientID := uuid.New()

	a, err := env.svc.Book(context.Background(), patientID, validBooking(env.doctorID))
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if a.Status != StatusPending {
		t.Errorf("status = %q, want pending", a.Status)
	}
	if a.PriorityID == nil || *a.PriorityID != env.highID {
		t.Errorf("priority = %v, want high tier", a.PriorityID)
	}
	if a.PatientID != patientID {
		t.Errorf("patient = %s, want caller", a.PatientID)
	}
}

func TestBook_FallbackPriority(t *testing.T) {
	env := newApptEnv()
	req := validBooking(env.doctorID)
	req.Condition = "xyzxyz"
	a, err := env.svc.Book(context.Background(), uuid.New(), req)
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if a.PriorityID == nil || *a.PriorityID != env.lowID {
		t.Errorf("priority = %v, want fallback tier", a.PriorityID)
	}
}

func TestBook_UnknownDoctor(t *testing.T) {
	env := newApptEnv()
	req := validBooking(uuid.New())
	_, err := env.svc.Book(context.Background(), uuid.New(), req)
	if !errors.Is(err, ErrDoctorNotFound) {
		t.Errorf("err = %v, want ErrDoctorNotFound", err)
	}
	if len(env.repo.appts) != 0 {
		t.Error("no appointment should be created")
	}
}

func TestBook_MissingFields(t *testing.T) {
	env := newApptEnv()
	for name, mutate := range map[string]func(*BookingRequest){
		"date":      func(r *BookingRequest) { r.Date = "" },
		"time":      func(r *BookingRequest) { r.Time = " " },
		"type":      func(r *BookingRequest) { r.Type = "" },
		"condition": func(r *BookingRequest) { r.Condition = "" },
	} {
		req := validBooking(env.doctorID)
		mutate(&req)
		if _, err := env.svc.Book(context.Background(), uuid.New(), req); err == nil {
			t.Errorf("missing %s: expected error", name)
		}
	}
}

func TestBook_UnclassifiedWithoutFallback(t *testing.T) {
	env := newApptEnv()
	env.svc.classifier = &mockClassifier{tiers: map[string]uuid.UUID{}, fallback: nil}
	req := validBooking(env.doctorID)
	req.Condition = "xyzxyz"
	a, err := env.svc.Book(context.Background(), uuid.New(), req)
	if err != nil {
		t.Fatalf("unclassified booking should succeed: %v", err)
	}
	if a.PriorityID != nil {
		t.Errorf("priority = %v, want none", a.PriorityID)
	}
}

func TestMarkConsulted(t *testing.T) {
	env := newApptEnv()
	a, err := env.svc.Book(context.Background(), uuid.New(), validBooking(env.doctorID))
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	got, err := env.svc.MarkConsulted(context.Background(), a.ID, "prescribed rest")
	if err != nil {
		t.Fatalf("MarkConsulted: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Errorf("status = %q, want completed", got.Status)
	}
	if got.DoctorRemarks == nil || *got.DoctorRemarks != "prescribed rest" {
		t.Errorf("remarks = %v, want recorded", got.DoctorRemarks)
	}
}

func TestMarkConsulted_EmptyRemarksPreserved(t *testing.T) {
	env := newApptEnv()
	a, err := env.svc.Book(context.Background(), uuid.New(), validBooking(env.doctorID))
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if _, err := env.svc.MarkConsulted(context.Background(), a.ID, "first pass"); err != nil {
		t.Fatalf("first consult: %v", err)
	}
	got, err := env.svc.MarkConsulted(context.Background(), a.ID, "")
	if err != nil {
		t.Fatalf("second consult: %v", err)
	}
	if got.DoctorRemarks == nil || *got.DoctorRemarks != "first pass" {
		t.Errorf("remarks = %v, want preserved", got.DoctorRemarks)
	}
}

func TestMarkConsulted_NotFound(t *testing.T) {
	env := newApptEnv()
	if _, err := env.svc.Book(context.Background(), uuid.New(), validBooking(env.doctorID)); err != nil {
		t.Fatalf("Book: %v", err)
	}
	before := len(env.repo.appts)

	_, err := env.svc.MarkConsulted(context.Background(), uuid.New(), "remarks")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if len(env.repo.appts) != before || env.repo.appts[0].Status != StatusPending {
		t.Error("missing appointment consult must not touch stored state")
	}
}

func TestUpdate_PreservesUnsetFields(t *testing.T) {
	env := newApptEnv()
	a, err := env.svc.Book(context.Background(), uuid.New(), validBooking(env.doctorID))
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	newDate := "2026-09-20"
	got, err := env.svc.Update(context.Background(), a.ID, Patch{Date: &newDate})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Date != newDate {
		t.Errorf("date = %q, want %q", got.Date, newDate)
	}
	if got.Time != a.Time || got.Type != a.Type {
		t.Error("unset fields must keep their values")
	}
	if got.Condition == nil || *got.Condition != *a.Condition {
		t.Error("condition must keep its value")
	}
}

func TestUpdate_AnyListedStatus(t *testing.T) {
	env := newApptEnv()
	a, err := env.svc.Book(context.Background(), uuid.New(), validBooking(env.doctorID))
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	for _, status := range []string{StatusScheduled, StatusCancelled, StatusCompleted, StatusPending} {
		st := status
		got, err := env.svc.Update(context.Background(), a.ID, Patch{Status: &st})
		if err != nil {
			t.Fatalf("Update to %q: %v", status, err)
		}
		if got.Status != status {
			t.Errorf("status = %q, want %q", got.Status, status)
		}
	}
}

func TestUpdate_InvalidStatus(t *testing.T) {
	env := newApptEnv()
	a, err := env.svc.Book(context.Background(), uuid.New(), validBooking(env.doctorID))
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	bad := "rescheduled"
	if _, err := env.svc.Update(context.Background(), a.ID, Patch{Status: &bad}); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestListScoping(t *testing.T) {
	env := newApptEnv()
	p1, p2 := uuid.New(), uuid.New()
	for _, pid := range []uuid.UUID{p1, p1, p2} {
		if _, err := env.svc.Book(context.Background(), pid, validBooking(env.doctorID)); err != nil {
			t.Fatalf("Book: %v", err)
		}
	}

	mine, err := env.svc.ListForPatient(context.Background(), p1)
	if err != nil {
		t.Fatalf("ListForPatient: %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("patient appointments = %d, want 2", len(mine))
	}
	docs, err := env.svc.ListForDoctor(context.Background(), env.doctorID)
	if err != nil {
		t.Fatalf("ListForDoctor: %v", err)
	}
	if len(docs) != 3 {
		t.Errorf("doctor appointments = %d, want 3", len(docs))
	}
}

func TestDelete(t *testing.T) {
	env := newApptEnv()
	a, err := env.svc.Book(context.Background(), uuid.New(), validBooking(env.doctorID))
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if err := env.svc.Delete(context.Background(), a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := env.svc.Delete(context.Background(), a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: err = %v, want ErrNotFound", err)
	}
}
