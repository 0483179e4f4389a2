package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"devlog-backend/internal/domains/project"
	"devlog-backend/internal/domains/user"
	"devlog-backend/internal/shared/response"
)

// ProjectHandler serves the project endpoints
type ProjectHandler struct {
	service project.Service
}

func NewProjectHandler(service project.Service) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// Resolve loads the project named by the :slug param, which may also be its id
func Resolve(c *gin.Context, service project.Service) (*project.Project, error) {
	ref := c.Param("slug")
	if id, err := uuid.Parse(ref); err == nil {
		return service.GetByID(c.Request.Context(), id)
	}
	return service.GetBySlug(c.Request.Context(), ref)
}

func (h *ProjectHandler) fail(c *gin.Context, err error) {
	if response.ValidationFailed(c, err) {
		return
	}
	if errors.Is(err, user.ErrUserNotFound) {
		response.ErrorResponse(c, http.StatusUnprocessableEntity, user.ToErrorCode(err), err.Error())
		return
	}
	response.ErrorResponse(c, project.ToHTTPStatus(err), project.ToErrorCode(err), err.Error())
}

// ════════════════════════════════════════════════════════════════
// CREATE: POST /v1/projects
// ════════════════════════════════════════════════════════════════

func (h *ProjectHandler) Create(c *gin.Context) {
	var req project.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	created, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusCreated, created.ToResponse())
}

// ════════════════════════════════════════════════════════════════
// READ: GET /v1/projects, GET /v1/projects/:slug
// ════════════════════════════════════════════════════════════════

func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.service.List(c.Request.Context())
	if err != nil {
		response.InternalServerError(c, err.Error())
		return
	}

	out := make([]project.ProjectResponse, len(projects))
	for i := range projects {
		out[i] = *projects[i].ToResponse()
	}
	response.SuccessWithMeta(c, http.StatusOK, out, &response.Meta{Total: len(out)})
}

func (h *ProjectHandler) Get(c *gin.Context) {
	p, err := Resolve(c, h.service)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, p.ToResponse())
}

// ════════════════════════════════════════════════════════════════
// CONTRIBUTORS
// POST   /v1/projects/:slug/contributors
// DELETE /v1/projects/:slug/contributors/:user_id
// ════════════════════════════════════════════════════════════════

func (h *ProjectHandler) AddContributors(c *gin.Context) {
	var req project.AddContributorsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	p, err := Resolve(c, h.service)
	if err != nil {
		h.fail(c, err)
		return
	}

	updated, err := h.service.AddContributors(c.Request.Context(), p.ID, req)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, updated.ToResponse())
}

func (h *ProjectHandler) RemoveContributor(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		response.BadRequest(c, "Invalid UUID format")
		return
	}

	p, err := Resolve(c, h.service)
	if err != nil {
		h.fail(c, err)
		return
	}

	updated, err := h.service.RemoveContributor(c.Request.Context(), p.ID, userID)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, updated.ToResponse())
}
