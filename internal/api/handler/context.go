package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/concert-booking/internal/api/middleware"
	"github.com/99minutos/concert-booking/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Auth middleware. A
// missing identity means the route was registered without Auth.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok || id.Role == "" {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}

// bindAndValidate decodes the JSON body into req and runs the validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
