package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/atelier-numerique/agency-api/internal/core/ports"
)

// ProjectHandler handles HTTP requests for portfolio projects.
type ProjectHandler struct {
	service ports.ProjectService
}

func NewProjectHandler(service ports.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// ListPublic handles GET /api/projects.
//
// @Summary      List published projects
// @Tags         projects
// @Produce      json
// @Success      200  {object}  dataResponse{data=[]domain.Project}
// @Router       /api/projects [get]
func (h *ProjectHandler) ListPublic(c echo.Context) error {
	projects, err := h.service.ListPublic(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, projects)
}

// GetPublic handles GET /api/projects/:id. Unpublished projects are 404.
//
// @Summary      Get a published project
// @Tags         projects
// @Produce      json
// @Param        id   path      string  true  "Project id"
// @Success      200  {object}  dataResponse{data=domain.Project}
// @Failure      404  {object}  map[string]any
// @Router       /api/projects/{id} [get]
func (h *ProjectHandler) GetPublic(c echo.Context) error {
	p, err := h.service.GetPublic(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, p)
}

// List handles GET /api/projects/admin.
//
// @Summary      List all projects
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "EN_COURS, TERMINE or EN_ATTENTE"
// @Success      200     {object}  dataResponse{data=[]domain.Project}
// @Failure      400     {object}  map[string]any
// @Failure      401     {object}  map[string]any
// @Failure      403     {object}  map[string]any
// @Router       /api/projects/admin [get]
func (h *ProjectHandler) List(c echo.Context) error {
	projects, err := h.service.List(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, projects)
}

// Get handles GET /api/projects/admin/:id.
//
// @Summary      Get any project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project id"
// @Success      200  {object}  dataResponse{data=domain.Project}
// @Failure      404  {object}  map[string]any
// @Router       /api/projects/admin/{id} [get]
func (h *ProjectHandler) Get(c echo.Context) error {
	p, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, p)
}

// Create handles POST /api/projects.
//
// @Summary      Create a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      ports.CreateProjectInput  true  "Project"
// @Success      201   {object}  dataResponse{data=domain.Project}
// @Failure      400   {object}  map[string]any
// @Router       /api/projects [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	var in ports.CreateProjectInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	p, err := h.service.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, p)
}

// Update handles PUT /api/projects/:id. Absent fields keep their value.
//
// @Summary      Update a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                    true  "Project id"
// @Param        body  body      ports.UpdateProjectInput  true  "Fields to change"
// @Success      200   {object}  dataResponse{data=domain.Project}
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /api/projects/{id} [put]
func (h *ProjectHandler) Update(c echo.Context) error {
	var in ports.UpdateProjectInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	p, err := h.service.Update(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, p)
}

// UpdateStatus handles POST and PATCH /api/projects/:id/status.
//
// @Summary      Change a project status
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Project id"
// @Param        body  body      ports.StatusInput  true  "New status"
// @Success      200   {object}  dataResponse{data=domain.Project}
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /api/projects/{id}/status [patch]
func (h *ProjectHandler) UpdateStatus(c echo.Context) error {
	var in ports.StatusInput
	if err := bind(c, &in); err != nil {
		return err
	}
	p, err := h.service.UpdateStatus(c.Request().Context(), c.Param("id"), in.Status)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, p)
}

// Delete handles DELETE /api/projects/:id.
//
// @Summary      Delete a project
// @Tags         projects
// @Security     BearerAuth
// @Param        id   path  string  true  "Project id"
// @Success      204
// @Failure      404  {object}  map[string]any
// @Router       /api/projects/{id} [delete]
func (h *ProjectHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
