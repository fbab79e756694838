package api

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/atelier-numerique/agency-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type apiError struct {
	status int
	body   errorResponse
	header map[string]string
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain errors to a status code and a stable error code.
//   - Logs unexpected errors and hides their cause when hideInternal is set.
//   - Renders {"error": "<code>", "message": "<text>", "details": ...}.
func NewHTTPErrorHandler(log zerolog.Logger, hideInternal bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		ae := resolveError(err, hideInternal, time.Now())
		if ae.status >= http.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Msg("unhandled error")
		}

		for k, v := range ae.header {
			c.Response().Header().Set(k, v)
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(ae.status)
			return
		}
		_ = c.JSON(ae.status, ae.body)
	}
}

func resolveError(err error, hideInternal bool, now time.Time) apiError {
	var (
		ve *domain.ValidationError
		re *domain.RateLimitError
		ue *domain.UploadError
		he *echo.HTTPError
	)

	switch {
	case errors.As(err, &ve):
		return newAPIError(http.StatusBadRequest, "ValidationError", "the request payload is invalid", ve.Violations)

	case errors.As(err, &re):
		wait := re.RetryAfter.Sub(now)
		secs := int(math.Ceil(wait.Seconds()))
		if secs < 1 {
			secs = 1
		}
		ae := newAPIError(http.StatusTooManyRequests, "RateLimited", "too many login attempts, try again later",
			map[string]string{"retryAfter": re.RetryAfter.UTC().Format(time.RFC3339)})
		ae.header = map[string]string{"Retry-After": strconv.Itoa(secs)}
		return ae

	case errors.As(err, &ue):
		return newAPIError(uploadStatus(ue.Cause), string(ue.Cause), ue.Error(), nil)

	case errors.Is(err, domain.ErrTokenExpired):
		return newAPIError(http.StatusUnauthorized, "TokenExpired", "session expired, please log in again", nil)
	case errors.Is(err, domain.ErrTokenInvalid):
		return newAPIError(http.StatusUnauthorized, "TokenInvalid", "invalid session token", nil)
	case errors.Is(err, domain.ErrInvalidCredentials):
		return newAPIError(http.StatusUnauthorized, "InvalidCredentials", "invalid email or password", nil)
	case errors.Is(err, domain.ErrUnauthorized):
		return newAPIError(http.StatusUnauthorized, "Unauthorized", err.Error(), nil)
	case errors.Is(err, domain.ErrForbidden):
		return newAPIError(http.StatusForbidden, "Forbidden", "access forbidden", nil)
	case errors.Is(err, domain.ErrNotFound):
		return newAPIError(http.StatusNotFound, "NotFound", err.Error(), nil)
	case errors.Is(err, domain.ErrConflict):
		return newAPIError(http.StatusConflict, "Conflict", err.Error(), nil)

	// Echo's own errors (bind failures, 404 from router, body limit, etc.)
	case errors.As(err, &he):
		return newAPIError(he.Code, codeFromStatus(he.Code), fmt.Sprintf("%v", he.Message), nil)
	}

	code := "InternalError"
	if errors.Is(err, domain.ErrUpstream) {
		code = "UpstreamFailure"
	}
	msg := "internal server error"
	if !hideInternal {
		msg = err.Error()
	}
	return newAPIError(http.StatusInternalServerError, code, msg, nil)
}

func newAPIError(status int, code, msg string, details any) apiError {
	return apiError{status: status, body: errorResponse{Error: code, Message: msg, Details: details}}
}

func uploadStatus(cause domain.UploadCause) int {
	switch cause {
	case domain.UploadTooLarge:
		return http.StatusRequestEntityTooLarge
	case domain.UploadUnsupportedType:
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusBadRequest
	}
}

func codeFromStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BadRequest"
	case http.StatusUnauthorized:
		return "Unauthorized"
	case http.StatusForbidden:
		return "Forbidden"
	case http.StatusNotFound:
		return "NotFound"
	case http.StatusMethodNotAllowed:
		return "MethodNotAllowed"
	case http.StatusRequestEntityTooLarge:
		return "PayloadTooLarge"
	case http.StatusUnsupportedMediaType:
		return "UnsupportedMediaType"
	case http.StatusTooManyRequests:
		return "RateLimited"
	default:
		if status >= http.StatusInternalServerError {
			return "InternalError"
		}
		return http.StatusText(status)
	}
}
