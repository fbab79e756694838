package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/atelier-numerique/agency-api/internal/core/domain"
)

type stubVerifier struct {
	verifyFn func(ctx context.Context, token string) (*domain.Claims, error)
}

func (s *stubVerifier) Verify(ctx context.Context, token string) (*domain.Claims, error) {
	return s.verifyFn(ctx, token)
}

func acceptToken(want string) *stubVerifier {
	return &stubVerifier{verifyFn: func(_ context.Context, token string) (*domain.Claims, error) {
		if token != want {
			return nil, domain.ErrTokenInvalid
		}
		return &domain.Claims{UserID: "u1", Email: "admin@agence.fr", Role: domain.RoleAdmin}, nil
	}}
}

func TestAuthMiddleware_BearerToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(acceptToken("good"), "admin_token")(func(c echo.Context) error {
		called = true
		claims, ok := ClaimsFrom(c)
		if !ok || claims.Email != "admin@agence.fr" {
			t.Fatalf("claims not set: %+v", claims)
		}
		if got := domain.ActorEmail(c.Request().Context()); got != "admin@agence.fr" {
			t.Fatalf("actor not set on request context: %q", got)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestAuthMiddleware_CookieToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "admin_token", Value: "good"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(acceptToken("good"), "admin_token")(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   error
	}{
		{"missing token", "", domain.ErrUnauthorized},
		{"wrong scheme", "Token good", domain.ErrUnauthorized},
		{"empty bearer", "Bearer ", domain.ErrUnauthorized},
		{"invalid token", "Bearer forged", domain.ErrTokenInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			c := e.NewContext(req, httptest.NewRecorder())

			handler := Auth(acceptToken("good"), "admin_token")(func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})

			if err := handler(c); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer old")
	c := e.NewContext(req, httptest.NewRecorder())

	verifier := &stubVerifier{verifyFn: func(context.Context, string) (*domain.Claims, error) {
		return nil, domain.ErrTokenExpired
	}}
	handler := Auth(verifier, "admin_token")(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}
