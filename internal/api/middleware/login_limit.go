package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/atelier-numerique/agency-api/internal/core/domain"
	"github.com/atelier-numerique/agency-api/internal/core/ports"
	"github.com/atelier-numerique/agency-api/pkg/metrics"
)

// maxLoginBody bounds how much of the body is buffered to read the email.
// Larger bodies are rejected.
const maxLoginBody = 16 << 10

// LoginRateLimit counts every login attempt per (client IP, submitted email).
// The body is read to find the email and then restored for the handler.
// When the counter store fails the request is let through.
func LoginRateLimit(limiter ports.AttemptLimiter, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			body, err := io.ReadAll(io.LimitReader(req.Body, maxLoginBody+1))
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "unreadable request body")
			}
			if len(body) > maxLoginBody {
				return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "login request body too large")
			}
			req.Body = io.NopCloser(bytes.NewReader(body))

			key := c.RealIP() + "|" + submittedEmail(body)
			attempt, err := limiter.Hit(req.Context(), key)
			if err != nil {
				log.Warn().Err(err).Msg("login limiter unavailable, allowing attempt")
				return next(c)
			}

			if !attempt.Allowed {
				metrics.RateLimitedTotal.WithLabelValues("login").Inc()
				log.Warn().Str("ip", c.RealIP()).Int("attempts", attempt.Count).Msg("login rate limit exceeded")
				return &domain.RateLimitError{RetryAfter: attempt.ResetAt}
			}
			return next(c)
		}
	}
}

// submittedEmail extracts the email field; malformed bodies share the empty
// email bucket of their IP.
func submittedEmail(body []byte) string {
	var payload struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Email)
}
