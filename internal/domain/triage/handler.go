package triage

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
	staff := auth.RequireRole(auth.RoleNurse, auth.RoleDoctor, auth.RoleAdministrator)
	clinical := auth.RequireRole(auth.RoleNurse, auth.RoleDoctor)

	api.GET("/triage", h.List, staff)
	api.POST("/triage", h.Create, clinical)
	api.PUT("/triage/:id", h.UpdateStatus, clinical)
}

// List supports filtering by either priority or status; priority wins
// when both are given.
func (h *Handler) List(c echo.Context) error {
	ctx := c.Request().Context()
	if priority := c.QueryParam("priority"); priority != "" {
		recs, err := h.svc.ListByPriority(ctx, priority)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, emptyIfNil(recs))
	}
	if status := c.QueryParam("status"); status != "" {
		recs, err := h.svc.ListByStatus(ctx, status)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, emptyIfNil(recs))
	}
	params := pagination.FromContext(c)
	recs, total, err := h.svc.List(ctx, params.Limit, params.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(emptyIfNil(recs), total, params.Limit, params.Offset))
}

func (h *Handler) Create(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	ctx := c.Request().Context()
	callerIsNurse := auth.RoleFromContext(ctx) == auth.RoleNurse
	rec, err := h.svc.Create(ctx, auth.UserIDFromContext(ctx), callerIsNurse, req)
	if err != nil {
		return mapTriageError(err)
	}
	return c.JSON(http.StatusCreated, rec)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid triage id")
	}
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.svc.UpdateStatus(c.Request().Context(), id, req.Status); err != nil {
		return mapTriageError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "triage record updated"})
}

func emptyIfNil(recs []*Record) []*Record {
	if recs == nil {
		return []*Record{}
	}
	return recs
}

func mapTriageError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
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
