package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devlog-backend/internal/domains/project"
	"devlog-backend/internal/domains/project/handler"
	"devlog-backend/internal/testutil/factory"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func newRouter(env *factory.Env) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	h := handler.NewProjectHandler(env.Projects)
	v1 := r.Group("/api/v1")
	v1.POST("/projects", h.Create)
	v1.GET("/projects", h.List)
	v1.GET("/projects/:slug", h.Get)
	v1.POST("/projects/:slug/contributors", h.AddContributors)
	v1.DELETE("/projects/:slug/contributors/:user_id", h.RemoveContributor)
	return r
}

func do(t *testing.T, r http.Handler, method, path string, body interface{}) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w.Code, env
}

func TestCreateProject(t *testing.T) {
	env := factory.NewEnv()
	f := factory.New(env)
	r := newRouter(env)
	admin := f.User(t)

	code, resp := do(t, r, http.MethodPost, "/api/v1/projects", map[string]interface{}{
		"name":        "Apollo Mission",
		"description": "Flight logs",
		"admin_id":    admin.ID,
	})
	require.Equal(t, http.StatusCreated, code)

	var created project.ProjectResponse
	require.NoError(t, json.Unmarshal(resp.Data, &created))
	assert.Equal(t, "apollo-mission", created.Slug)
	assert.Empty(t, created.ContributorIDs)

	code, _ = do(t, r, http.MethodGet, "/api/v1/projects/apollo-mission", nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = do(t, r, http.MethodGet, "/api/v1/projects/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestCreateProject_Errors(t *testing.T) {
	env := factory.NewEnv()
	r := newRouter(env)

	code, resp := do(t, r, http.MethodPost, "/api/v1/projects", map[string]interface{}{"name": ""})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)

	code, resp = do(t, r, http.MethodPost, "/api/v1/projects", map[string]interface{}{
		"name":     "Ghost",
		"admin_id": uuid.New(),
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "USER_NOT_FOUND", resp.Error.Code)
}

func TestContributors(t *testing.T) {
	env := factory.NewEnv()
	f := factory.New(env)
	r := newRouter(env)
	p := f.Project(t, factory.WithName("Rover"))
	u := f.User(t)

	code, resp := do(t, r, http.MethodPost, "/api/v1/projects/rover/contributors", map[string]interface{}{
		"user_ids": []uuid.UUID{u.ID},
	})
	require.Equal(t, http.StatusOK, code)

	var updated project.ProjectResponse
	require.NoError(t, json.Unmarshal(resp.Data, &updated))
	assert.Equal(t, []uuid.UUID{u.ID}, updated.ContributorIDs)

	code, _ = do(t, r, http.MethodDelete, "/api/v1/projects/rover/contributors/"+u.ID.String(), nil)
	assert.Equal(t, http.StatusOK, code)

	code, resp = do(t, r, http.MethodDelete, "/api/v1/projects/rover/contributors/"+p.AdminID.String(), nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "ADMIN_NOT_REMOVABLE", resp.Error.Code)
}

func TestGetProject_NotFound(t *testing.T) {
	r := newRouter(factory.NewEnv())

	code, resp := do(t, r, http.MethodGet, "/api/v1/projects/nothing-here", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "PROJECT_NOT_FOUND", resp.Error.Code)
}
