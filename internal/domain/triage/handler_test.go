package triage

import (
	"context"
	"encoding/json"
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

func TestHandler_Create_NurseCaller(t *testing.T) {
	env := newTriageEnv()
	h := NewHandler(env.svc)

	body := fmt.Sprintf(`{"patient_id":%q,"blood_pressure":"130/85","heart_rate":90,
		"temperature":38.2,"oxygen_saturation":95,"respiratory_rate":18,
		"symptoms":"chest tightness","priority":"critical"}`, uuid.New())
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/triage", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req = asCaller(req, env.nurseUserID, auth.RoleNurse)
	rec := httptest.NewRecorder()

	if err := h.Create(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	var got Record
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.NurseID != env.nurseID {
		t.Errorf("nurse = %s, want caller's profile", got.NurseID)
	}
}

func TestHandler_List_PriorityFilter(t *testing.T) {
	env := newTriageEnv()
	h := NewHandler(env.svc)
	for _, p := range []string{PriorityCritical, PriorityLow} {
		req := validIntake()
		req.Priority = p
		if _, err := env.svc.Create(context.Background(), env.nurseUserID, true, req); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	e := echo.New()
	req := asCaller(httptest.NewRequest(http.MethodGet, "/api/triage?priority=critical", nil),
		env.nurseUserID, auth.RoleNurse)
	rec := httptest.NewRecorder()
	if err := h.List(e.NewContext(req, rec)); err != nil {
		t.Fatalf("List: %v", err)
	}
	var got []*Record
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].Priority != PriorityCritical {
		t.Errorf("filtered = %+v, want one critical record", got)
	}
}

func TestHandler_UpdateStatus_NotFound(t *testing.T) {
	env := newTriageEnv()
	h := NewHandler(env.svc)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"status":"completed"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req = asCaller(req, env.nurseUserID, auth.RoleNurse)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues(uuid.NewString())

	err := h.UpdateStatus(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Fatalf("err = %v, want 404", err)
	}
}
