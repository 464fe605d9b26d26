package appointment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/vitalshub/vitalshub/internal/platform/auth"
)

func asCaller(req *http.Request, userID uuid.UUID, role string) *http.Request {
	ctx := context.WithValue(req.Context(), auth.UserIDKey, userID)
	ctx = context.WithValue(ctx, auth.UserRoleKey, role)
	return req.WithContext(ctx)
}

func TestHandler_Book(t *testing.T) {
	env := newApptEnv()
	h := NewHandler(env.svc)
	patientID := uuid.New()

	body := fmt.Sprintf(`{"doctor_id":%q,"date":"2026-09-15","time":"10:30","appointment_type":"consultation","condition":"chest pain"}`,
		env.doctorID)
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/appointments/book", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req = asCaller(req, patientID, auth.RolePatient)
	rec := httptest.NewRecorder()

	if err := h.Book(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Book: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	var got Appointment
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.PatientID != patientID {
		t.Errorf("patient = %s, want caller", got.PatientID)
	}
	if got.Status != StatusPending {
		t.Errorf("status = %q, want pending", got.Status)
	}
}

func TestHandler_Book_UnknownDoctor(t *testing.T) {
	env := newApptEnv()
	h := NewHandler(env.svc)

	body := fmt.Sprintf(`{"doctor_id":%q,"date":"2026-09-15","time":"10:30","appointment_type":"consultation","condition":"fever"}`,
		uuid.New())
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/appointments/book", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req = asCaller(req, uuid.New(), auth.RolePatient)

	err := h.Book(e.NewContext(req, httptest.NewRecorder()))
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Fatalf("err = %v, want 404", err)
	}
}

func TestHandler_Consult_AssignedDoctorOnly(t *testing.T) {
	env := newApptEnv()
	h := NewHandler(env.svc)
	a, err := env.svc.Book(context.Background(), uuid.New(), validBooking(env.doctorID))
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	e := echo.New()
	consult := func(callerID uuid.UUID, role string) (error, *httptest.ResponseRecorder) {
		req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"doctor_remarks":"ok"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req = asCaller(req, callerID, role)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues(a.ID.String())
		return h.Consult(c), rec
	}

	// A different doctor is refused.
	err, _ = consult(uuid.New(), auth.RoleDoctor)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Fatalf("other doctor: err = %v, want 403", err)
	}

	// The assigned doctor completes the visit.
	err, rec := consult(env.doctorID, auth.RoleDoctor)
	if err != nil {
		t.Fatalf("assigned doctor: %v", err)
	}
	var got Appointment
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Errorf("status = %q, want completed", got.Status)
	}

	// Administrators bypass the assignment check.
	if err, _ := consult(uuid.New(), auth.RoleAdministrator); err != nil {
		t.Fatalf("administrator: %v", err)
	}
}

func TestHandler_Delete_RoleGates(t *testing.T) {
	env := newApptEnv()
	h := NewHandler(env.svc)
	patientID := uuid.New()
	a, err := env.svc.Book(context.Background(), patientID, validBooking(env.doctorID))
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	e := echo.New()
	del := func(callerID uuid.UUID, role string) error {
		req := asCaller(httptest.NewRequest(http.MethodDelete, "/", nil), callerID, role)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetParamNames("id")
		c.SetParamValues(a.ID.String())
		return h.Delete(c)
	}

	err = del(uuid.New(), auth.RolePatient)
	if he, ok := err.(*echo.HTTPError); !ok || he.Code != http.StatusForbidden {
		t.Fatalf("other patient: err = %v, want 403", err)
	}
	err = del(uuid.New(), auth.RoleNurse)
	if he, ok := err.(*echo.HTTPError); !ok || he.Code != http.StatusForbidden {
		t.Fatalf("nurse: err = %v, want 403", err)
	}
	err = del(uuid.New(), auth.RoleDoctor)
	if he, ok := err.(*echo.HTTPError); !ok || he.Code != http.StatusForbidden {
		t.Fatalf("unassigned doctor: err = %v, want 403", err)
	}
	if err := del(patientID, auth.RolePatient); err != nil {
		t.Fatalf("owner: %v", err)
	}
}

func TestHandler_Delete_AssignedDoctor(t *testing.T) {
	env := newApptEnv()
	h := NewHandler(env.svc)
	a, err := env.svc.Book(context.Background(), uuid.New(), validBooking(env.doctorID))
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	e := echo.New()
	req := asCaller(httptest.NewRequest(http.MethodDelete, "/", nil), env.doctorID, auth.RoleDoctor)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(a.ID.String())
	if err := h.Delete(c); err != nil {
		t.Fatalf("Delete as assigned doctor: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if _, err := env.svc.Get(context.Background(), a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("appointment should be gone, got err = %v", err)
	}
}

func TestHandler_List_PatientScoped(t *testing.T) {
	env := newApptEnv()
	h := NewHandler(env.svc)
	p1, p2 := uuid.New(), uuid.New()
	for _, pid := range []uuid.UUID{p1, p2} {
		if _, err := env.svc.Book(context.Background(), pid, validBooking(env.doctorID)); err != nil {
			t.Fatalf("Book: %v", err)
		}
	}

	e := echo.New()
	req := asCaller(httptest.NewRequest(http.MethodGet, "/api/appointments", nil), p1, auth.RolePatient)
	rec := httptest.NewRecorder()
	if err := h.List(e.NewContext(req, rec)); err != nil {
		t.Fatalf("List: %v", err)
	}
	var got []*Appointment
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].PatientID != p1 {
		t.Errorf("patient list = %+v, want only caller's visit", got)
	}
}
