package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// PermissionChecker answers permission-tag queries for the active session.
type PermissionChecker interface {
	HasPermission(tag string) bool
}

// RequirePermission enforces that the active session's role carries the
// given permission tag. A missing session or unresolvable role denies.
func RequirePermission(checker PermissionChecker, tag string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !checker.HasPermission(tag) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
