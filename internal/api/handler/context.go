package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/atelier-numerique/agency-api/internal/api/middleware"
	"github.com/atelier-numerique/agency-api/internal/core/domain"
)

// ctxClaims returns the claims injected by the Auth middleware. Handlers
// mounted without Auth get ErrUnauthorized instead of a nil dereference.
func ctxClaims(c echo.Context) (*domain.Claims, error) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}

// dataResponse is the success envelope shared by resource endpoints.
type dataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

func respond(c echo.Context, status int, data any) error {
	return c.JSON(status, dataResponse{Success: true, Data: data})
}

// bind decodes the request body and runs the registered validator.
func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	return c.Validate(dst)
}
