package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Role names carried in token claims.
const (
	RoleAdministrator = "administrator"
	RoleDoctor        = "doctor"
	RoleNurse         = "nurse"
	RolePatient       = "patient"
)

// ValidRole reports whether s is one of the four account roles.
func ValidRole(s string) bool {
	switch s {
	case RoleAdministrator, RoleDoctor, RoleNurse, RolePatient:
		return true
	}
	return false
}

// RequireRole returns middleware that admits a request only if the caller's
// role is in the allowed set. No role is implicit: routes that allow
// administrators list them explicitly, because some staff actions (triage
// intake, for one) belong to clinical roles only.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			callerRole := RoleFromContext(c.Request().Context())
			for _, required := range roles {
				if callerRole == required {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden,
				fmt.Sprintf("required role: %s", strings.Join(roles, " or ")))
		}
	}
}
