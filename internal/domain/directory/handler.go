package directory

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/vitalshub/vitalshub/internal/platform/auth"
	"github.com/vitalshub/vitalshub/pkg/pagination"
)

type Handler struct {
	svc    *Service
	issuer *auth.Issuer
}

func NewHandler(svc *Service, issuer *auth.Issuer) *Handler {
	return &Handler{svc: svc, issuer: issuer}
}

// RegisterPublicRoutes mounts the endpoints reachable without a token.
func (h *Handler) RegisterPublicRoutes(e *echo.Echo) {
	e.POST("/auth/login", h.Login)
	e.POST("/auth/register", h.Register)
	e.POST("/auth/register-patient", h.RegisterPatient)
}

// RegisterRoutes mounts the authenticated directory endpoints.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/auth/me", h.Me)

	admin := auth.RequireRole(auth.RoleAdministrator)
	api.GET("/users", h.ListUsers, admin)
	api.GET("/users/:id", h.GetUser)
	api.GET("/admin/users", h.ListUsers, admin)
	api.PUT("/admin/users/:id/toggle-status", h.ToggleUserStatus, admin)
	api.DELETE("/admin/users/:id", h.DeleteUser, admin)

	api.POST("/admin/doctors", h.CreateDoctor, admin)
	api.GET("/admin/doctors", h.ListDoctorsAdmin, admin)
	api.PUT("/admin/doctors/:id/toggle-status", h.ToggleDoctorStatus, admin)
	api.DELETE("/admin/doctors/:id", h.DeleteDoctor, admin)

	api.POST("/admin/nurses", h.CreateNurse, admin)
	api.GET("/admin/nurses", h.ListNurses, admin)
	api.PUT("/admin/nurses/:id/toggle-status", h.ToggleNurseStatus, admin)
	api.DELETE("/admin/nurses/:id", h.DeleteNurse, admin)

	api.GET("/doctors", h.ListDoctors)
	api.GET("/doctors/available", h.ListAvailableDoctors)

	staff := auth.RequireRole(auth.RoleAdministrator, auth.RoleDoctor, auth.RoleNurse)
	api.GET("/patients", h.ListPatients, staff)
	api.GET("/patients/:id", h.GetPatient)
	api.PUT("/patients/:id", h.UpdatePatient)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        *User  `json:"user"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	u, err := h.svc.Authenticate(c.Request().Context(), req.Username, req.Password, req.Role)
	if err != nil {
		if errors.Is(err, ErrForbidden) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
		}
		return err
	}
	token, err := h.issuer.Issue(u.ID, u.Username, u.Role)
	if err != nil {
		return err
	}
	log.Info().Str("username", u.Username).Str("role", u.Role).Msg("user signed in")
	return c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer", User: u})
}

func (h *Handler) Register(c echo.Context) error {
	var req RegisterUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	u, err := h.svc.RegisterUser(c.Request().Context(), req)
	if err != nil {
		return mapDirectoryError(err)
	}
	return c.JSON(http.StatusCreated, u)
}

func (h *Handler) RegisterPatient(c echo.Context) error {
	var req RegisterPatientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	u, err := h.svc.RegisterPatient(c.Request().Context(), req)
	if err != nil {
		return mapDirectoryError(err)
	}
	return c.JSON(http.StatusCreated, u)
}

func (h *Handler) Me(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	u, err := h.svc.GetUser(c.Request().Context(), userID)
	if err != nil {
		return mapDirectoryError(err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) GetUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	ctx := c.Request().Context()
	if auth.RoleFromContext(ctx) != auth.RoleAdministrator && auth.UserIDFromContext(ctx) != id {
		return echo.NewHTTPError(http.StatusForbidden, "not enough permissions")
	}
	u, err := h.svc.GetUser(ctx, id)
	if err != nil {
		return mapDirectoryError(err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) ListUsers(c echo.Context) error {
	params := pagination.FromContext(c)
	users, total, err := h.svc.ListUsers(c.Request().Context(), params.Limit, params.Offset)
	if err != nil {
		return err
	}
	if users == nil {
		users = []*User{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(users, total, params.Limit, params.Offset))
}

func (h *Handler) ToggleUserStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	u, err := h.svc.ToggleUserActive(c.Request().Context(), id)
	if err != nil {
		return mapDirectoryError(err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) DeleteUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	if err := h.svc.DeleteUser(c.Request().Context(), id); err != nil {
		return mapDirectoryError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) CreateDoctor(c echo.Context) error {
	var req CreateDoctorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	d, err := h.svc.CreateDoctor(c.Request().Context(), req)
	if err != nil {
		return mapDirectoryError(err)
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) ListDoctorsAdmin(c echo.Context) error { return h.ListDoctors(c) }

func (h *Handler) ListDoctors(c echo.Context) error {
	params := pagination.FromContext(c)
	doctors, total, err := h.svc.ListDoctors(c.Request().Context(), params.Limit, params.Offset)
	if err != nil {
		return err
	}
	if doctors == nil {
		doctors = []*Doctor{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(doctors, total, params.Limit, params.Offset))
}

func (h *Handler) ListAvailableDoctors(c echo.Context) error {
	doctors, err := h.svc.ListAvailableDoctors(c.Request().Context())
	if err != nil {
		return err
	}
	if doctors == nil {
		doctors = []*Doctor{}
	}
	return c.JSON(http.StatusOK, doctors)
}

func (h *Handler) ToggleDoctorStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	d, err := h.svc.ToggleDoctorAvailable(c.Request().Context(), id)
	if err != nil {
		return mapDirectoryError(err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) DeleteDoctor(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	if err := h.svc.DeleteDoctor(c.Request().Context(), id); err != nil {
		return mapDirectoryError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) CreateNurse(c echo.Context) error {
	var req CreateNurseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	n, err := h.svc.CreateNurse(c.Request().Context(), req)
	if err != nil {
		return mapDirectoryError(err)
	}
	return c.JSON(http.StatusCreated, n)
}

func (h *Handler) ListNurses(c echo.Context) error {
	params := pagination.FromContext(c)
	nurses, total, err := h.svc.ListNurses(c.Request().Context(), params.Limit, params.Offset)
	if err != nil {
		return err
	}
	if nurses == nil {
		nurses = []*Nurse{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(nurses, total, params.Limit, params.Offset))
}

func (h *Handler) ToggleNurseStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid nurse id")
	}
	n, err := h.svc.ToggleNurseAvailable(c.Request().Context(), id)
	if err != nil {
		return mapDirectoryError(err)
	}
	return c.JSON(http.StatusOK, n)
}

func (h *Handler) DeleteNurse(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid nurse id")
	}
	if err := h.svc.DeleteNurse(c.Request().Context(), id); err != nil {
		return mapDirectoryError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListPatients(c echo.Context) error {
	params := pagination.FromContext(c)
	patients, total, err := h.svc.ListPatients(c.Request().Context(), params.Limit, params.Offset)
	if err != nil {
		return err
	}
	if patients == nil {
		patients = []*Patient{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(patients, total, params.Limit, params.Offset))
}

// GetPatient serves staff, and patients reading their own record.
func (h *Handler) GetPatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	ctx := c.Request().Context()
	p, err := h.svc.GetPatient(ctx, id)
	if err != nil {
		return mapDirectoryError(err)
	}
	if auth.RoleFromContext(ctx) == auth.RolePatient && p.UserID != auth.UserIDFromContext(ctx) {
		return echo.NewHTTPError(http.StatusForbidden, "not your record")
	}
	return c.JSON(http.StatusOK, p)
}

// UpdatePatient lets staff, or the owning patient, amend a record.
func (h *Handler) UpdatePatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	ctx := c.Request().Context()
	if auth.RoleFromContext(ctx) == auth.RolePatient {
		p, err := h.svc.GetPatient(ctx, id)
		if err != nil {
			return mapDirectoryError(err)
		}
		if p.UserID != auth.UserIDFromContext(ctx) {
			return echo.NewHTTPError(http.StatusForbidden, "not your record")
		}
	}
	var patch PatientPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	p, err := h.svc.UpdatePatient(ctx, id, patch)
	if err != nil {
		return mapDirectoryError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func mapDirectoryError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	default:
		if _, ok := err.(*echo.HTTPError); ok {
			return err
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}
