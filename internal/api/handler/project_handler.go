package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tripsplit/expenses-system/internal/api/metrics"
	"github.com/tripsplit/expenses-system/internal/core/ports"
)

// ProjectHandler handles HTTP requests for project and participant operations.
type ProjectHandler struct {
	service ports.ProjectService
}

func NewProjectHandler(service ports.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// List handles GET /v1/projects.
//
// @Summary      List projects visible to the authenticated user
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listProjectsResponse
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/projects [get]
func (h *ProjectHandler) List(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	summaries, err := h.service.ListProjects(c.Request().Context(), session)
	if err != nil {
		return err
	}

	data := make([]projectSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		data = append(data, toSummaryResponse(s))
	}
	return c.JSON(http.StatusOK, listProjectsResponse{Data: data})
}

// Create handles POST /v1/projects.
//
// @Summary      Create a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProjectRequest  true  "Project details"
// @Success      201   {object}  projectDetailResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/projects [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req createProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	detail, err := h.service.CreateProject(c.Request().Context(), ports.CreateProjectInput{
		Session:           session,
		Title:             req.Title,
		ParticipantEmails: req.ParticipantEmails,
	})
	if err != nil {
		return err
	}

	metrics.ProjectsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toDetailResponse(detail))
}

// Get handles GET /v1/projects/:id.
//
// @Summary      Get a project by id
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project id"
// @Success      200  {object}  projectDetailResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/projects/{id} [get]
func (h *ProjectHandler) Get(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	detail, err := h.service.GetProject(c.Request().Context(), session, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDetailResponse(detail))
}

// Rename handles PATCH /v1/projects/:id as a partial-field merge (title only).
//
// @Summary      Rename a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Project id"
// @Param        body  body      renameProjectRequest  true  "New title"
// @Success      204   "renamed"
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/projects/{id} [patch]
func (h *ProjectHandler) Rename(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req renameProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	err = h.service.RenameProject(c.Request().Context(), ports.RenameProjectInput{
		Session:   session,
		ProjectID: c.Param("id"),
		Title:     req.Title,
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /v1/projects/:id. Expenses cascade.
//
// @Summary      Delete a project and its expenses
// @Tags         projects
// @Security     BearerAuth
// @Param        id  path  string  true  "Project id"
// @Success      204  "deleted"
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/projects/{id} [delete]
func (h *ProjectHandler) Delete(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteProject(c.Request().Context(), session, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// AddParticipant handles POST /v1/projects/:id/participants.
//
// @Summary      Invite a participant by email
// @Tags         participants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Project id"
// @Param        body  body      addParticipantRequest  true  "Participant email"
// @Success      201   {object}  participantResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/projects/{id}/participants [post]
func (h *ProjectHandler) AddParticipant(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req addParticipantRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	participant, err := h.service.AddParticipant(c.Request().Context(), ports.ParticipantInput{
		Session:   session,
		ProjectID: c.Param("id"),
		Email:     req.Email,
	})
	if err != nil {
		return err
	}

	metrics.ParticipantsInvitedTotal.Inc()
	return c.JSON(http.StatusCreated, toParticipantResponse(*participant))
}

// RemoveParticipant handles DELETE /v1/projects/:id/participants/:email.
// The creator can never be removed; stored expenses referencing the removed
// name are left untouched.
//
// @Summary      Remove a participant by email
// @Tags         participants
// @Security     BearerAuth
// @Param        id     path  string  true  "Project id"
// @Param        email  path  string  true  "Participant email"
// @Success      204  "removed"
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /v1/projects/{id}/participants/{email} [delete]
func (h *ProjectHandler) RemoveParticipant(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	err = h.service.RemoveParticipant(c.Request().Context(), ports.ParticipantInput{
		Session:   session,
		ProjectID: c.Param("id"),
		Email:     c.Param("email"),
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
