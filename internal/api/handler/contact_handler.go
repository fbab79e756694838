package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/atelier-numerique/agency-api/internal/core/ports"
)

type ContactHandler struct {
	service ports.ContactService
}

func NewContactHandler(service ports.ContactService) *ContactHandler {
	return &ContactHandler{service: service}
}

type submittedMessage struct {
	ID string `json:"id"`
}

// Submit handles POST /api/contact. The message is accepted once stored,
// whether or not the notification emails go out.
//
// @Summary      Send a contact message
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        body  body      ports.SubmitContactInput  true  "Contact form"
// @Success      201   {object}  dataResponse{data=submittedMessage}
// @Failure      400   {object}  map[string]any
// @Failure      429   {object}  map[string]any
// @Router       /api/contact [post]
func (h *ContactHandler) Submit(c echo.Context) error {
	var in ports.SubmitContactInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	m, err := h.service.Submit(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, submittedMessage{ID: m.ID})
}

// List handles GET /api/contact/admin.
//
// @Summary      List contact messages
// @Tags         contact
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "NOUVEAU, LU, TRAITE or ARCHIVE"
// @Success      200     {object}  dataResponse{data=[]domain.ContactMessage}
// @Failure      400     {object}  map[string]any
// @Router       /api/contact/admin [get]
func (h *ContactHandler) List(c echo.Context) error {
	msgs, err := h.service.List(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, msgs)
}

// Get handles GET /api/contact/admin/:id.
//
// @Summary      Get a contact message
// @Tags         contact
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Message id"
// @Success      200  {object}  dataResponse{data=domain.ContactMessage}
// @Failure      404  {object}  map[string]any
// @Router       /api/contact/admin/{id} [get]
func (h *ContactHandler) Get(c echo.Context) error {
	m, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, m)
}

// UpdateStatus handles POST and PATCH /api/contact/:id/status.
//
// @Summary      Change a message status
// @Tags         contact
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Message id"
// @Param        body  body      ports.StatusInput  true  "New status"
// @Success      200   {object}  dataResponse{data=domain.ContactMessage}
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /api/contact/{id}/status [patch]
func (h *ContactHandler) UpdateStatus(c echo.Context) error {
	var in ports.StatusInput
	if err := bind(c, &in); err != nil {
		return err
	}
	m, err := h.service.UpdateStatus(c.Request().Context(), c.Param("id"), in.Status)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, m)
}

// Delete handles DELETE /api/contact/:id.
//
// @Summary      Delete a contact message
// @Tags         contact
// @Security     BearerAuth
// @Param        id   path  string  true  "Message id"
// @Success      204
// @Failure      404  {object}  map[string]any
// @Router       /api/contact/{id} [delete]
func (h *ContactHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
