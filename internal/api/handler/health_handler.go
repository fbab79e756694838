package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const readinessTimeout = 3 * time.Second

// Check probes one dependency and returns nil when it is reachable.
type Check func(ctx context.Context) error

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	primary string
	checks  map[string]Check
	started time.Time
	now     func() time.Time
}

// NewHealthHandler takes the named dependency checks. primary names the
// database reported by /health; the others only appear in /health/ready.
func NewHealthHandler(primary string, checks map[string]Check) *HealthHandler {
	return &HealthHandler{
		primary: primary,
		checks:  checks,
		started: time.Now(),
		now:     time.Now,
	}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type livenessResponse struct {
	Status   string  `json:"status"`
	Uptime   float64 `json:"uptime"`
	Database string  `json:"database"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Liveness handles GET /health. It always answers 200 while the process runs.
//
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  livenessResponse
// @Router       /health [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	db := "unknown"
	if check, ok := h.checks[h.primary]; ok {
		ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
		defer cancel()
		db = "connected"
		if err := check(ctx); err != nil {
			db = "disconnected"
		}
	}

	return c.JSON(http.StatusOK, livenessResponse{
		Status:   "ok",
		Uptime:   h.now().Sub(h.started).Seconds(),
		Database: db,
	})
}

// Readiness handles GET /health/ready.
//
// @Summary      Readiness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  readinessResponse
// @Failure      503  {object}  readinessResponse
// @Router       /health/ready [get]
func (h *HealthHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	deps := make(map[string]dependencyStatus, len(h.checks))
	healthy := true
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			deps[name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
			continue
		}
		deps[name] = dependencyStatus{Status: "ok"}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
