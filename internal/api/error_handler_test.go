package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/atelier-numerique/agency-api/internal/core/domain"
)

func render(t *testing.T, err error, hideInternal bool) (*httptest.ResponseRecorder, errorResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/projects/x", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop(), hideInternal)(err, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v (%s)", err, rec.Body.String())
	}
	return rec, body
}

func TestErrorHandler_StatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", domain.NewValidationError("status", "bad"), http.StatusBadRequest, "ValidationError"},
		{"bad password", domain.ErrInvalidCredentials, http.StatusUnauthorized, "InvalidCredentials"},
		{"expired", domain.ErrTokenExpired, http.StatusUnauthorized, "TokenExpired"},
		{"invalid token", domain.ErrTokenInvalid, http.StatusUnauthorized, "TokenInvalid"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "Forbidden"},
		{"wrapped not found", fmt.Errorf("get: %w", domain.ErrProjectNotFound), http.StatusNotFound, "NotFound"},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound, "NotFound"},
		{"conflict", domain.ErrCategoryExists, http.StatusConflict, "Conflict"},
		{"too large", &domain.UploadError{Cause: domain.UploadTooLarge}, http.StatusRequestEntityTooLarge, "FileTooLarge"},
		{"bad type", &domain.UploadError{Cause: domain.UploadUnsupportedType}, http.StatusUnsupportedMediaType, "UnsupportedFileType"},
		{"too many", &domain.UploadError{Cause: domain.UploadTooManyFiles}, http.StatusBadRequest, "TooManyFiles"},
		{"no file", &domain.UploadError{Cause: domain.UploadNoFile}, http.StatusBadRequest, "NoFile"},
		{"echo 404", echo.ErrNotFound, http.StatusNotFound, "NotFound"},
		{"echo 413", echo.ErrStatusRequestEntityTooLarge, http.StatusRequestEntityTooLarge, "PayloadTooLarge"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, body := render(t, tc.err, true)
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
			if body.Error != tc.code {
				t.Fatalf("expected code %q, got %q", tc.code, body.Error)
			}
		})
	}
}

func TestErrorHandler_ValidationDetails(t *testing.T) {
	err := &domain.ValidationError{Violations: []domain.FieldViolation{
		{Field: "title", Message: "title is required"},
		{Field: "status", Message: "status must be one of: EN_COURS TERMINE EN_ATTENTE"},
	}}
	_, body := render(t, err, true)

	details, ok := body.Details.([]any)
	if !ok || len(details) != 2 {
		t.Fatalf("expected two violations, got %#v", body.Details)
	}
	first := details[0].(map[string]any)
	if first["field"] != "title" {
		t.Fatalf("unexpected first violation: %v", first)
	}
}

func TestErrorHandler_RateLimited(t *testing.T) {
	retry := time.Now().Add(90 * time.Second)
	rec, body := render(t, &domain.RateLimitError{RetryAfter: retry}, true)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if h := rec.Header().Get("Retry-After"); h != "90" && h != "89" {
		t.Fatalf("unexpected Retry-After %q", h)
	}
	details := body.Details.(map[string]any)
	if details["retryAfter"] != retry.UTC().Format(time.RFC3339) {
		t.Fatalf("unexpected retryAfter %v", details["retryAfter"])
	}
}

func TestErrorHandler_InternalDetailHiddenInProduction(t *testing.T) {
	cause := errors.New("mongo: connection reset by peer")

	rec, body := render(t, cause, true)
	if rec.Code != http.StatusInternalServerError || body.Message != "internal server error" {
		t.Fatalf("internal detail leaked: %d %q", rec.Code, body.Message)
	}

	rec, body = render(t, fmt.Errorf("find project: %w: %w", domain.ErrUpstream, cause), true)
	if rec.Code != http.StatusInternalServerError || body.Error != "UpstreamFailure" || body.Message != "internal server error" {
		t.Fatalf("unexpected upstream rendering: %d %+v", rec.Code, body)
	}

	_, body = render(t, cause, false)
	if body.Message != cause.Error() {
		t.Fatalf("expected detail outside production, got %q", body.Message)
	}
}
