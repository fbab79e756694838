package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/atelier-numerique/agency-api/docs"
	"github.com/atelier-numerique/agency-api/internal/api/handler"
	"github.com/atelier-numerique/agency-api/internal/api/middleware"
	"github.com/atelier-numerique/agency-api/internal/core/domain"
	"github.com/atelier-numerique/agency-api/internal/core/ports"
	"github.com/atelier-numerique/agency-api/internal/core/validation"
)

const defaultBodyLimit = "60M"

// RouterConfig holds the HTTP-level settings of the router.
type RouterConfig struct {
	CORSOrigins   []string
	TrustProxy    bool
	HideInternal  bool
	CookieName    string
	BodyLimit     string
	ContactLimit  int
	ContactWindow time.Duration

	// Registry receives the HTTP metrics and backs /metrics. Nil means the
	// default Prometheus registry, where the agency metrics live.
	Registry *prometheus.Registry
}

// Deps are the collaborators the router mounts.
type Deps struct {
	Auth     *handler.AuthHandler
	Projects *handler.ProjectHandler
	Contact  *handler.ContactHandler
	Category *handler.CategoryHandler
	Upload   *handler.UploadHandler
	Health   *handler.HealthHandler

	Verifier     ports.TokenVerifier
	LoginLimiter ports.AttemptLimiter
	Validator    *validation.Validator
	Logger       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig, d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator(d.Validator)
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger, cfg.HideInternal)
	if cfg.TrustProxy {
		e.IPExtractor = echo.ExtractIPFromXFFHeader()
	} else {
		e.IPExtractor = echo.ExtractIPDirect()
	}

	bodyLimit := cfg.BodyLimit
	if bodyLimit == "" {
		bodyLimit = defaultBodyLimit
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if cfg.Registry != nil {
		registerer, gatherer = cfg.Registry, cfg.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "agency",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.Use(echomiddleware.BodyLimit(bodyLimit))

	auth := middleware.Auth(d.Verifier, cfg.CookieName)
	admin := middleware.RBAC(domain.RoleAdmin)

	// --- Auth ---
	adm := e.Group("/api/admin")
	adm.POST("/login", d.Auth.Login, middleware.LoginRateLimit(d.LoginLimiter, d.Logger))
	adm.POST("/verify", d.Auth.Verify, auth, admin)
	adm.POST("/refresh", d.Auth.Refresh, auth, admin)
	adm.POST("/logout", d.Auth.Logout, auth, admin)

	// --- Projects ---
	projects := e.Group("/api/projects")
	projects.GET("", d.Projects.ListPublic)
	projects.GET("/admin", d.Projects.List, auth, admin)
	projects.GET("/admin/:id", d.Projects.Get, auth, admin)
	projects.GET("/:id", d.Projects.GetPublic)
	projects.POST("", d.Projects.Create, auth, admin)
	projects.PUT("/:id", d.Projects.Update, auth, admin)
	projects.POST("/:id/status", d.Projects.UpdateStatus, auth, admin)
	projects.PATCH("/:id/status", d.Projects.UpdateStatus, auth, admin)
	projects.DELETE("/:id", d.Projects.Delete, auth, admin)

	// --- Contact ---
	contact := e.Group("/api/contact")
	contact.POST("", d.Contact.Submit, middleware.ContactRateLimit(cfg.ContactLimit, cfg.ContactWindow, cfg.TrustProxy))
	contact.GET("/admin", d.Contact.List, auth, admin)
	contact.GET("/admin/:id", d.Contact.Get, auth, admin)
	contact.POST("/:id/status", d.Contact.UpdateStatus, auth, admin)
	contact.PATCH("/:id/status", d.Contact.UpdateStatus, auth, admin)
	contact.DELETE("/:id", d.Contact.Delete, auth, admin)

	// --- Categories ---
	categories := e.Group("/api/categories")
	categories.GET("", d.Category.List)
	categories.POST("", d.Category.Create, auth, admin)
	categories.DELETE("/:id", d.Category.Delete, auth, admin)
	categories.POST("/:id/projects", d.Category.AssignProjects, auth, admin)

	// --- Uploads ---
	upload := e.Group("/api/upload")
	upload.POST("/image", d.Upload.UploadOne, auth, admin)
	upload.POST("/images", d.Upload.UploadMany, auth, admin)
	upload.GET("/image/:id", d.Upload.Get)
	upload.DELETE("/image/:id", d.Upload.Delete, auth, admin)

	// --- Health probes (no auth required) ---
	e.GET("/health", d.Health.Liveness)
	e.GET("/health/ready", d.Health.Readiness)

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
