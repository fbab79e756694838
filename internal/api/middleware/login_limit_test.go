package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/atelier-numerique/agency-api/internal/core/domain"
	"github.com/atelier-numerique/agency-api/internal/core/ports"
	"github.com/atelier-numerique/agency-api/internal/infrastructure/ratelimit"
)

type failingLimiter struct{}

func (failingLimiter) Hit(context.Context, string) (ports.Attempt, error) {
	return ports.Attempt{}, errors.New("redis: connection refused")
}

func loginRequest(e *echo.Echo, ip, email string) (echo.Context, *httptest.ResponseRecorder) {
	body := `{"email":"` + email + `","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.RemoteAddr = ip + ":51000"
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestLoginRateLimit_SixthAttemptForSameEmail(t *testing.T) {
	e := echo.New()
	limiter := ratelimit.NewMemoryLimiter(5, 15*time.Minute)
	mw := LoginRateLimit(limiter, zerolog.Nop())

	var bodies []string
	handler := mw(func(c echo.Context) error {
		b, _ := io.ReadAll(c.Request().Body)
		bodies = append(bodies, string(b))
		return domain.ErrInvalidCredentials
	})

	for i := 1; i <= 5; i++ {
		c, _ := loginRequest(e, "10.0.0.1", "jane@x.com")
		if err := handler(c); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected handler to run, got %v", i, err)
		}
	}

	c, _ := loginRequest(e, "10.0.0.1", "jane@x.com")
	var rle *domain.RateLimitError
	if err := handler(c); !errors.As(err, &rle) {
		t.Fatalf("expected RateLimitError, got %v", err)
	}
	if rle.RetryAfter.Before(time.Now()) {
		t.Fatalf("retryAfter should be in the future: %v", rle.RetryAfter)
	}

	// Same IP, different email: separate budget.
	c, _ = loginRequest(e, "10.0.0.1", "bob@x.com")
	if err := handler(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("other email should not be limited, got %v", err)
	}

	if len(bodies) != 6 || !strings.Contains(bodies[0], `"password":"wrong"`) {
		t.Fatalf("body was not restored for the handler: %v", bodies)
	}
}

func TestLoginRateLimit_FailsOpen(t *testing.T) {
	e := echo.New()
	called := false
	handler := LoginRateLimit(failingLimiter{}, zerolog.Nop())(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	c, _ := loginRequest(e, "10.0.0.1", "jane@x.com")
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("request should pass when the limiter store fails")
	}
}

func TestSubmittedEmail(t *testing.T) {
	if got := submittedEmail([]byte(`{"email":" jane@x.com "}`)); got != "jane@x.com" {
		t.Fatalf("unexpected email %q", got)
	}
	if got := submittedEmail([]byte(`not json`)); got != "" {
		t.Fatalf("expected empty email, got %q", got)
	}
}

func TestLoginRateLimit_OversizedBody(t *testing.T) {
	e := echo.New()
	limiter := ratelimit.NewMemoryLimiter(5, 15*time.Minute)
	handler := LoginRateLimit(limiter, zerolog.Nop())(func(c echo.Context) error {
		t.Fatalf("handler should not run for an oversized body")
		return nil
	})

	padding := strings.Repeat("a", maxLoginBody)
	body := `{"email":"jane@x.com","password":"` + padding + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())

	err := handler(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %v", err)
	}
}

func TestLoginRateLimit_BodyAtLimitPasses(t *testing.T) {
	e := echo.New()
	limiter := ratelimit.NewMemoryLimiter(5, 15*time.Minute)
	var got int
	handler := LoginRateLimit(limiter, zerolog.Nop())(func(c echo.Context) error {
		b, _ := io.ReadAll(c.Request().Body)
		got = len(b)
		return nil
	})

	prefix := `{"email":"jane@x.com","password":"`
	body := prefix + strings.Repeat("a", maxLoginBody-len(prefix)-2) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(body))
	c := e.NewContext(req, httptest.NewRecorder())

	if err := handler(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != maxLoginBody {
		t.Fatalf("handler saw %d bytes, want %d", got, maxLoginBody)
	}
}
