package priority

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vitalshub/vitalshub/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/priorities", h.ListTiers)
	api.POST("/priorities", h.CreateTier, auth.RequireRole(auth.RoleAdministrator))
}

func (h *Handler) ListTiers(c echo.Context) error {
	tiers, err := h.svc.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if tiers == nil {
		tiers = []*Tier{}
	}
	return c.JSON(http.StatusOK, tiers)
}

func (h *Handler) CreateTier(c echo.Context) error {
	var t Tier
	if err := c.Bind(&t); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &t); err != nil {
		if errors.Is(err, ErrConflict) {
			return echo.NewHTTPError(http.StatusConflict, "priority tier name already exists")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, t)
}
