package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"devlog-backend/internal/domains/devlog"
	"devlog-backend/internal/domains/project"
	projectHandler "devlog-backend/internal/domains/project/handler"
	"devlog-backend/internal/shared/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// LogHandler serves the log endpoints
type LogHandler struct {
	service  devlog.Service
	projects project.Service
}

func NewLogHandler(service devlog.Service, projects project.Service) *LogHandler {
	return &LogHandler{
		service:  service,
		projects: projects,
	}
}

func (h *LogHandler) fail(c *gin.Context, err error) {
	if response.ValidationFailed(c, err) {
		return
	}
	if errors.Is(err, project.ErrProjectNotFound) {
		response.ErrorResponse(c, project.ToHTTPStatus(err), project.ToErrorCode(err), err.Error())
		return
	}
	response.ErrorResponse(c, devlog.ToHTTPStatus(err), devlog.ToErrorCode(err), err.Error())
}

// resolve loads the log named by :id, which may be its id or its slug
func (h *LogHandler) resolve(c *gin.Context) (*devlog.Log, error) {
	ref := c.Param("id")
	if id, err := uuid.Parse(ref); err == nil {
		return h.service.GetByID(c.Request.Context(), id)
	}
	return h.service.GetBySlug(c.Request.Context(), ref)
}

func toResponses(logs []devlog.Log) []devlog.LogResponse {
	out := make([]devlog.LogResponse, len(logs))
	for i := range logs {
		out[i] = *logs[i].ToResponse()
	}
	return out
}

// ════════════════════════════════════════════════════════════════
// CREATE: POST /v1/logs
// ════════════════════════════════════════════════════════════════

func (h *LogHandler) Create(c *gin.Context) {
	var req devlog.CreateLogRequest
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
// READ
// GET /v1/logs?project_id=&author_id=&important=true
// GET /v1/logs/:id (id or slug)
// ════════════════════════════════════════════════════════════════

func (h *LogHandler) List(c *gin.Context) {
	var filter devlog.LogFilter

	for param, dest := range map[string]**uuid.UUID{
		"project_id": &filter.ProjectID,
		"author_id":  &filter.AuthorID,
	} {
		raw := c.Query(param)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, fmt.Sprintf("Invalid %s", param))
			return
		}
		*dest = &id
	}
	filter.ImportantOnly = c.Query("important") == "true"

	logs, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err)
		return
	}

	out := toResponses(logs)
	response.SuccessWithMeta(c, http.StatusOK, out, &response.Meta{Total: len(out)})
}

func (h *LogHandler) Get(c *gin.Context) {
	l, err := h.resolve(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, l.ToResponse())
}

// ════════════════════════════════════════════════════════════════
// UPDATE: PATCH /v1/logs/:id
// The keys present in the body are the changed fields.
// ════════════════════════════════════════════════════════════════

func (h *LogHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid UUID format")
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		response.BadRequest(c, "Invalid JSON body")
		return
	}

	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	fields, err := devlog.ParseBodyFields(keys...)
	if err != nil {
		h.fail(c, err)
		return
	}

	var req devlog.UpdateLogRequest
	if err := json.Unmarshal(body, &req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	req.Fields = fields

	updated, notifications, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}

	if notifications == nil {
		notifications = []devlog.ChangeNotification{}
	}
	warnings := make([]string, len(notifications))
	for i, n := range notifications {
		warnings[i] = n.Message
	}

	response.SuccessWithMeta(c, http.StatusOK, devlog.UpdateLogResponse{
		Log:           updated.ToResponse(),
		Notifications: notifications,
	}, &response.Meta{Warnings: warnings})
}

// ════════════════════════════════════════════════════════════════
// HISTORY: GET /v1/logs/:id/history
// ════════════════════════════════════════════════════════════════

func (h *LogHandler) History(c *gin.Context) {
	l, err := h.resolve(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	changes, err := h.service.History(c.Request.Context(), l.ID)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, changes, &response.Meta{Total: len(changes)})
}

// ════════════════════════════════════════════════════════════════
// PROJECT LOGS
// GET /v1/projects/:slug/logs
// GET /v1/projects/:slug/logs/export
// ════════════════════════════════════════════════════════════════

func (h *LogHandler) ListByProject(c *gin.Context) {
	p, err := projectHandler.Resolve(c, h.projects)
	if err != nil {
		h.fail(c, err)
		return
	}

	logs, err := h.service.List(c.Request.Context(), devlog.LogFilter{
		ProjectID:     &p.ID,
		ImportantOnly: c.Query("important") == "true",
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	out := toResponses(logs)
	response.SuccessWithMeta(c, http.StatusOK, out, &response.Meta{Total: len(out)})
}

func (h *LogHandler) Export(c *gin.Context) {
	p, err := projectHandler.Resolve(c, h.projects)
	if err != nil {
		h.fail(c, err)
		return
	}

	f, err := h.service.ExportProjectLogs(c.Request.Context(), p.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	defer f.Close()

	filename := p.Slug
	if filename == "" {
		filename = p.ID.String()
	}

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-logs.xlsx"`, filename))
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		_ = c.Error(err)
	}
}
