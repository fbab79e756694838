package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/atelier-numerique/agency-api/internal/core/ports"
)

type CategoryHandler struct {
	service ports.CategoryService
}

func NewCategoryHandler(service ports.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// List handles GET /api/categories.
//
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Success      200  {object}  dataResponse{data=[]domain.Category}
// @Router       /api/categories [get]
func (h *CategoryHandler) List(c echo.Context) error {
	cats, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, cats)
}

// Create handles POST /api/categories.
//
// @Summary      Create a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      ports.CreateCategoryInput  true  "Category"
// @Success      201   {object}  dataResponse{data=domain.Category}
// @Failure      400   {object}  map[string]any
// @Failure      409   {object}  map[string]any
// @Router       /api/categories [post]
func (h *CategoryHandler) Create(c echo.Context) error {
	var in ports.CreateCategoryInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	cat, err := h.service.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, cat)
}

// Delete handles DELETE /api/categories/:id.
//
// @Summary      Delete a category
// @Tags         categories
// @Security     BearerAuth
// @Param        id   path  string  true  "Category id"
// @Success      204
// @Failure      404  {object}  map[string]any
// @Router       /api/categories/{id} [delete]
func (h *CategoryHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// AssignProjects handles POST /api/categories/:id/projects. Each project is
// reported on its own; resend only the failed ids to retry.
//
// @Summary      Link projects to a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                     true  "Category id"
// @Param        body  body      ports.AssignProjectsInput  true  "Project ids"
// @Success      200   {object}  dataResponse{data=[]ports.AssignmentResult}
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /api/categories/{id}/projects [post]
func (h *CategoryHandler) AssignProjects(c echo.Context) error {
	var in ports.AssignProjectsInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	results, err := h.service.AssignProjects(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, results)
}
