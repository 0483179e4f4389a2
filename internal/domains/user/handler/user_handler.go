package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"devlog-backend/internal/domains/user"
	"devlog-backend/internal/shared/response"
)

// UserHandler serves the user reference endpoints
type UserHandler struct {
	service user.Service
}

func NewUserHandler(service user.Service) *UserHandler {
	return &UserHandler{service: service}
}

// ════════════════════════════════════════════════════════════════
// CREATE: POST /v1/users
// ════════════════════════════════════════════════════════════════

func (h *UserHandler) Create(c *gin.Context) {
	var req user.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	created, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		if response.ValidationFailed(c, err) {
			return
		}
		response.ErrorResponse(c, user.ToHTTPStatus(err), user.ToErrorCode(err), err.Error())
		return
	}

	response.Success(c, http.StatusCreated, created.ToResponse())
}

// ════════════════════════════════════════════════════════════════
// READ: GET /v1/users/:id
// ════════════════════════════════════════════════════════════════

func (h *UserHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid UUID format")
		return
	}

	u, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.ErrorResponse(c, user.ToHTTPStatus(err), user.ToErrorCode(err), err.Error())
		return
	}

	response.Success(c, http.StatusOK, u.ToResponse())
}

// ════════════════════════════════════════════════════════════════
// READ: GET /v1/users
// ════════════════════════════════════════════════════════════════

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		response.InternalServerError(c, err.Error())
		return
	}

	out := make([]user.UserResponse, len(users))
	for i := range users {
		out[i] = *users[i].ToResponse()
	}
	response.SuccessWithMeta(c, http.StatusOK, out, &response.Meta{Total: len(out)})
}
