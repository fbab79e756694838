package middleware

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/atelier-numerique/agency-api/internal/core/domain"
	"github.com/atelier-numerique/agency-api/internal/core/ports"
)

const claimsKey = "claims"

var errMissingToken = fmt.Errorf("missing session token: %w", domain.ErrUnauthorized)

// Auth reads the session token from the Authorization header, or from the
// auth cookie when the header is absent, and verifies it. Verified claims are
// stored on the echo context and as the request actor.
func Auth(verifier ports.TokenVerifier, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := extractToken(c, cookieName)
			if err != nil {
				return err
			}

			claims, err := verifier.Verify(c.Request().Context(), token)
			if err != nil {
				return err
			}

			c.Set(claimsKey, claims)
			c.SetRequest(c.Request().WithContext(domain.WithActor(c.Request().Context(), claims)))
			return next(c)
		}
	}
}

func extractToken(c echo.Context, cookieName string) (string, error) {
	if header := c.Request().Header.Get(echo.HeaderAuthorization); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", fmt.Errorf("invalid authorization header: %w", domain.ErrUnauthorized)
		}
		return strings.TrimSpace(parts[1]), nil
	}
	if cookieName != "" {
		if cookie, err := c.Cookie(cookieName); err == nil && cookie.Value != "" {
			return cookie.Value, nil
		}
	}
	return "", errMissingToken
}

// ClaimsFrom returns the claims stored by Auth.
func ClaimsFrom(c echo.Context) (*domain.Claims, bool) {
	claims, ok := c.Get(claimsKey).(*domain.Claims)
	return claims, ok && claims != nil
}
