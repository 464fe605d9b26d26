package alert

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/vitalshub/vitalshub/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/alerts", h.List)
	api.POST("/alerts", h.Create,
		auth.RequireRole(auth.RoleNurse, auth.RoleDoctor, auth.RoleAdministrator))
	api.PUT("/alerts/:id/read", h.MarkRead)
}

func (h *Handler) List(c echo.Context) error {
	ctx := c.Request().Context()
	unreadOnly := c.QueryParam("unread_only") == "true"
	alerts, err := h.svc.ListForUser(ctx, auth.UserIDFromContext(ctx), unreadOnly)
	if err != nil {
		return err
	}
	if alerts == nil {
		alerts = []*Alert{}
	}
	return c.JSON(http.StatusOK, alerts)
}

func (h *Handler) Create(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	a, err := h.svc.Create(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) MarkRead(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid alert id")
	}
	ctx := c.Request().Context()
	if err := h.svc.MarkRead(ctx, id, auth.UserIDFromContext(ctx)); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "alert marked as read"})
}
