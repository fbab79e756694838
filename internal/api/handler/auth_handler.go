package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/atelier-numerique/agency-api/internal/core/domain"
	"github.com/atelier-numerique/agency-api/internal/core/ports"
)

// CookieConfig describes the HttpOnly cookie that mirrors the session token.
type CookieConfig struct {
	Name     string
	SameSite http.SameSite
	Secure   bool
}

type AuthHandler struct {
	authService ports.AuthService
	cookie      CookieConfig
}

func NewAuthHandler(authService ports.AuthService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success   bool         `json:"success"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *domain.User `json:"user"`
}

type verifyResponse struct {
	Success bool           `json:"success"`
	User    *domain.Claims `json:"user"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Login authenticates an administrator and returns a session token.
//
// @Summary      Admin login
// @Description  Rate limited per (client IP, email). The token is also set as an HttpOnly cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Failure      429   {object}  map[string]any
// @Router       /api/admin/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}

	res, err := h.authService.Login(c.Request().Context(), ports.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return err
	}

	h.setCookie(c, res.Token, res.ExpiresAt)
	return c.JSON(http.StatusOK, loginResponse{Success: true, Token: res.Token, ExpiresAt: res.ExpiresAt, User: res.User})
}

// Verify reports the identity behind the presented token.
//
// @Summary      Verify session
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  verifyResponse
// @Failure      401  {object}  map[string]any
// @Failure      403  {object}  map[string]any
// @Router       /api/admin/verify [post]
func (h *AuthHandler) Verify(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, verifyResponse{Success: true, User: claims})
}

// Refresh issues a new token with a fresh expiry for the same identity.
//
// @Summary      Refresh session
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  loginResponse
// @Failure      401  {object}  map[string]any
// @Router       /api/admin/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	res, err := h.authService.Refresh(c.Request().Context(), claims)
	if err != nil {
		return err
	}

	h.setCookie(c, res.Token, res.ExpiresAt)
	return c.JSON(http.StatusOK, loginResponse{Success: true, Token: res.Token, ExpiresAt: res.ExpiresAt, User: res.User})
}

// Logout clears the session cookie and, when enabled, revokes the token. The
// cookie is cleared even when the revocation fails.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  map[string]any
// @Failure      500  {object}  map[string]any
// @Router       /api/admin/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	h.clearCookie(c)
	if err := h.authService.Logout(c.Request().Context(), claims); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "logged out"})
}

func (h *AuthHandler) setCookie(c echo.Context, token string, expiresAt time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: h.cookie.SameSite,
	})
}

func (h *AuthHandler) clearCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: h.cookie.SameSite,
	})
}
