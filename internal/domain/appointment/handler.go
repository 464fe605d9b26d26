package appointment

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/vitalshub/vitalshub/internal/platform/auth"
	"github.com/vitalshub/vitalshub/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/appointments", h.List)
	api.POST("/appointments", h.Create)
	api.POST("/appointments/book", h.Book, auth.RequireRole(auth.RolePatient))
	api.GET("/appointments/date/:date", h.ListByDate,
		auth.RequireRole(auth.RoleAdministrator, auth.RoleDoctor, auth.RoleNurse))
	api.PUT("/appointments/:id/consult", h.Consult,
		auth.RequireRole(auth.RoleDoctor, auth.RoleAdministrator))
	api.PUT("/appointments/:id", h.Update)
	api.DELETE("/appointments/:id", h.Delete)
}

func (h *Handler) Book(c echo.Context) error {
	var req BookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	ctx := c.Request().Context()
	a, err := h.svc.Book(ctx, auth.UserIDFromContext(ctx), req)
	if err != nil {
		return mapAppointmentError(err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) Create(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	ctx := c.Request().Context()
	if auth.RoleFromContext(ctx) == auth.RolePatient && req.PatientID != auth.UserIDFromContext(ctx) {
		return echo.NewHTTPError(http.StatusForbidden, "patients can only book for themselves")
	}
	a, err := h.svc.Create(ctx, req)
	if err != nil {
		return mapAppointmentError(err)
	}
	return c.JSON(http.StatusCreated, a)
}

// List scopes the result to the caller: patients see their own visits,
// doctors their own schedule, staff everything.
func (h *Handler) List(c echo.Context) error {
	ctx := c.Request().Context()
	callerID := auth.UserIDFromContext(ctx)

	switch auth.RoleFromContext(ctx) {
	case auth.RolePatient:
		appts, err := h.svc.ListForPatient(ctx, callerID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, emptyIfNil(appts))
	case auth.RoleDoctor:
		appts, err := h.svc.ListForDoctor(ctx, callerID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, emptyIfNil(appts))
	default:
		params := pagination.FromContext(c)
		appts, total, err := h.svc.List(ctx, params.Limit, params.Offset)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(emptyIfNil(appts), total, params.Limit, params.Offset))
	}
}

func (h *Handler) ListByDate(c echo.Context) error {
	appts, err := h.svc.ListForDate(c.Request().Context(), c.Param("date"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, emptyIfNil(appts))
}

type consultRequest struct {
	DoctorRemarks string `json:"doctor_remarks"`
}

func (h *Handler) Consult(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}
	var req consultRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx := c.Request().Context()
	a, err := h.svc.Get(ctx, id)
	if err != nil {
		return mapAppointmentError(err)
	}
	if auth.RoleFromContext(ctx) == auth.RoleDoctor && a.DoctorID != auth.UserIDFromContext(ctx) {
		return echo.NewHTTPError(http.StatusForbidden, "you can only consult your own appointments")
	}

	updated, err := h.svc.MarkConsulted(ctx, id, req.DoctorRemarks)
	if err != nil {
		return mapAppointmentError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}
	ctx := c.Request().Context()
	a, err := h.svc.Get(ctx, id)
	if err != nil {
		return mapAppointmentError(err)
	}
	callerID := auth.UserIDFromContext(ctx)
	switch auth.RoleFromContext(ctx) {
	case auth.RolePatient:
		if a.PatientID != callerID {
			return echo.NewHTTPError(http.StatusForbidden, "not your appointment")
		}
	case auth.RoleDoctor:
		if a.DoctorID != callerID {
			return echo.NewHTTPError(http.StatusForbidden, "not your appointment")
		}
	}

	var patch Patch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	updated, err := h.svc.Update(ctx, id, patch)
	if err != nil {
		return mapAppointmentError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}
	ctx := c.Request().Context()
	a, err := h.svc.Get(ctx, id)
	if err != nil {
		return mapAppointmentError(err)
	}
	role := auth.RoleFromContext(ctx)
	if role == auth.RolePatient && a.PatientID != auth.UserIDFromContext(ctx) {
		return echo.NewHTTPError(http.StatusForbidden, "not your appointment")
	}
	if role == auth.RoleDoctor && a.DoctorID != auth.UserIDFromContext(ctx) {
		return echo.NewHTTPError(http.StatusForbidden, "not your appointment")
	}
	if role == auth.RoleNurse {
		return echo.NewHTTPError(http.StatusForbidden, "not enough permissions")
	}
	if err := h.svc.Delete(ctx, id); err != nil {
		return mapAppointmentError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func emptyIfNil(appts []*Appointment) []*Appointment {
	if appts == nil {
		return []*Appointment{}
	}
	return appts
}

func mapAppointmentError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrDoctorNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	default:
		if _, ok := err.(*echo.HTTPError); ok {
			return err
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}
