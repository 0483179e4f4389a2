package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devlog-backend/internal/domains/devlog/handler"
	"devlog-backend/internal/testutil/factory"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta *struct {
		Total    int      `json:"total"`
		Warnings []string `json:"warnings"`
	} `json:"meta"`
}

func newRouter(env *factory.Env) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	h := handler.NewLogHandler(env.Logs, env.Projects)
	v1 := r.Group("/api/v1")
	v1.POST("/logs", h.Create)
	v1.GET("/logs", h.List)
	v1.GET("/logs/:id", h.Get)
	v1.PATCH("/logs/:id", h.Update)
	v1.GET("/logs/:id/history", h.History)
	v1.GET("/projects/:slug/logs", h.ListByProject)
	v1.GET("/projects/:slug/logs/export", h.Export)
	return r
}

func do(t *testing.T, r http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
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
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func TestCreateAndGetBySlug(t *testing.T) {
	env := factory.NewEnv()
	f := factory.New(env)
	r := newRouter(env)
	p := f.Project(t)

	w, resp := do(t, r, http.MethodPost, "/api/v1/logs", map[string]interface{}{
		"project_id": p.ID,
		"author_id":  p.AdminID,
		"content":    "init",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Slug string `json:"slug"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &created))
	require.Len(t, created.Slug, 6)

	w, resp = do(t, r, http.MethodGet, "/api/v1/logs/"+created.Slug, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
}

func TestCreate_AuthorNotInProject(t *testing.T) {
	env := factory.NewEnv()
	f := factory.New(env)
	r := newRouter(env)
	p := f.Project(t)
	outsider := f.User(t)

	w, resp := do(t, r, http.MethodPost, "/api/v1/logs", map[string]interface{}{
		"project_id": p.ID,
		"author_id":  outsider.ID,
		"content":    "test",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "AUTHOR_NOT_IN_PROJECT", resp.Error.Code)
	assert.Equal(t, "author not in the project", resp.Error.Message)
}

func TestCreate_ValidationError(t *testing.T) {
	env := factory.NewEnv()
	r := newRouter(env)

	w, resp := do(t, r, http.MethodPost, "/api/v1/logs", map[string]interface{}{"content": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
}

func TestUpdate_Content(t *testing.T) {
	env := factory.NewEnv()
	f := factory.New(env)
	r := newRouter(env)
	l := f.Log(t, factory.WithContent("a"))

	w, resp := do(t, r, http.MethodPatch, "/api/v1/logs/"+l.ID.String(), map[string]interface{}{"content": "b"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, resp.Meta)
	require.Len(t, resp.Meta.Warnings, 1)
	assert.Contains(t, resp.Meta.Warnings[0], "has been modified")
}

func TestUpdate_ImmutableFields(t *testing.T) {
	env := factory.NewEnv()
	f := factory.New(env)
	r := newRouter(env)
	l := f.Log(t)
	other := f.Project(t)

	tests := []struct {
		name  string
		body  map[string]interface{}
		field string
	}{
		{"project", map[string]interface{}{"project_id": other.ID}, "project cannot be changed"},
		{"author", map[string]interface{}{"author_id": other.AdminID}, "author cannot be changed"},
		{"date", map[string]interface{}{"date": "2020-01-01T00:00:00Z"}, "date cannot be changed"},
		{"slug", map[string]interface{}{"slug": "abcdef"}, "slug cannot be changed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := do(t, r, http.MethodPatch, "/api/v1/logs/"+l.ID.String(), tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			require.NotNil(t, resp.Error)
			assert.Equal(t, "IMMUTABLE_FIELD", resp.Error.Code)
			assert.Equal(t, tt.field, resp.Error.Message)
		})
	}
}

func TestUpdate_RejectedBodiesChangeNothing(t *testing.T) {
	env := factory.NewEnv()
	f := factory.New(env)
	r := newRouter(env)
	l := f.Log(t, factory.WithContent("a"))
	other := f.Project(t)

	tests := []struct {
		name   string
		body   map[string]interface{}
		status int
		code   string
	}{
		{"null project", map[string]interface{}{"project_id": nil, "content": "b"}, http.StatusUnprocessableEntity, "IMMUTABLE_FIELD"},
		{"same project", map[string]interface{}{"project_id": l.ProjectID, "content": "b"}, http.StatusUnprocessableEntity, "IMMUTABLE_FIELD"},
		{"null author", map[string]interface{}{"author_id": nil, "content": "b"}, http.StatusUnprocessableEntity, "IMMUTABLE_FIELD"},
		{"project without suffix", map[string]interface{}{"project": other.ID, "content": "c"}, http.StatusBadRequest, "UNKNOWN_FIELD"},
		{"author without suffix", map[string]interface{}{"author": other.AdminID, "content": "d"}, http.StatusBadRequest, "UNKNOWN_FIELD"},
		{"suffixed content", map[string]interface{}{"content_id": "zzz", "important": true}, http.StatusBadRequest, "UNKNOWN_FIELD"},
		{"null content", map[string]interface{}{"content": nil}, http.StatusBadRequest, "VALIDATION_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := do(t, r, http.MethodPatch, "/api/v1/logs/"+l.ID.String(), tt.body)
			assert.Equal(t, tt.status, w.Code)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}

	stored, err := env.Logs.GetByID(context.Background(), l.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", stored.Content)
	assert.False(t, stored.Important)
	assert.Equal(t, l.ProjectID, stored.ProjectID)
	assert.Empty(t, env.Published.All())
}

func TestUpdate_UnknownField(t *testing.T) {
	env := factory.NewEnv()
	f := factory.New(env)
	r := newRouter(env)
	l := f.Log(t)

	w, resp := do(t, r, http.MethodPatch, "/api/v1/logs/"+l.ID.String(), map[string]interface{}{"title": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "UNKNOWN_FIELD", resp.Error.Code)
}

func TestGet_NotFound(t *testing.T) {
	r := newRouter(factory.NewEnv())

	w, resp := do(t, r, http.MethodGet, "/api/v1/logs/zzzzzz", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "LOG_NOT_FOUND", resp.Error.Code)
}

func TestListByProject(t *testing.T) {
	env := factory.NewEnv()
	f := factory.New(env)
	r := newRouter(env)
	p := f.Project(t, factory.WithName("Apollo Mission"))
	f.Log(t, factory.ForProject(p))
	f.Log(t, factory.ForProject(p))
	f.Log(t)

	w, resp := do(t, r, http.MethodGet, "/api/v1/projects/apollo-mission/logs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 2, resp.Meta.Total)

	w, _ = do(t, r, http.MethodGet, "/api/v1/projects/unknown/logs", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExport(t *testing.T) {
	env := factory.NewEnv()
	f := factory.New(env)
	r := newRouter(env)
	p := f.Project(t, factory.WithName("Apollo Mission"))
	f.Log(t, factory.ForProject(p))

	w, _ := do(t, r, http.MethodGet, "/api/v1/projects/apollo-mission/logs/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "apollo-mission-logs.xlsx")
	// XLSX files are zip archives
	assert.Equal(t, []byte("PK"), w.Body.Bytes()[:2])
}

func TestHistory_Empty(t *testing.T) {
	env := factory.NewEnv()
	f := factory.New(env)
	r := newRouter(env)
	l := f.Log(t)

	w, resp := do(t, r, http.MethodGet, "/api/v1/logs/"+l.Slug+"/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", string(resp.Data))
}
