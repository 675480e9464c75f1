package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/concert-booking/internal/core/domain"
)

// RBAC enforces role-based access control. It must run after Auth.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	var policy domain.Policy

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, _ := IdentityFrom(c)
			if err := policy.Authorize(identity, allowedRoles...); err != nil {
				return err
			}
			return next(c)
		}
	}
}
