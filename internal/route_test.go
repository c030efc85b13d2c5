package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raids-lab/taskflow/dao/model"
	"github.com/raids-lab/taskflow/internal/handler"
	"github.com/raids-lab/taskflow/internal/middleware"
	"github.com/raids-lab/taskflow/internal/resputil"
	"github.com/raids-lab/taskflow/internal/testutil"
	"github.com/raids-lab/taskflow/internal/util"
	"github.com/raids-lab/taskflow/pkg/board"
	"github.com/raids-lab/taskflow/pkg/notify"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type apiClient struct {
	t       *testing.T
	backend *Backend
}

type envelope struct {
	Success bool               `json:"success"`
	Code    resputil.ErrorCode `json:"code"`
	Data    json.RawMessage    `json:"data"`
	Message string             `json:"message"`
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	db := testutil.NewTestDB(t)
	backend := Register(&handler.RegisterConfig{
		DB:       db,
		Board:    board.NewService(db, notify.LogNotifier{}),
		TokenMgr: util.NewTokenManager("test-secret", 1, 2),
	})
	return &apiClient{t: t, backend: backend}
}

func (a *apiClient) do(method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.backend.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

// decode runs the request, requires the status and unmarshals data into out.
func (a *apiClient) decode(method, path, token string, body any, status int, out any) envelope {
	a.t.Helper()
	w, env := a.do(method, path, token, body)
	require.Equal(a.t, status, w.Code, w.Body.String())
	if out != nil {
		require.NoError(a.t, json.Unmarshal(env.Data, out))
	}
	return env
}

type session struct {
	token   string
	refresh string
	user    model.User
}

func (a *apiClient) register(name string) session {
	a.t.Helper()
	var resp handler.LoginResp
	a.decode(http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"username": name,
		"password": "s3cret-pass",
		"email":    name + "@example.com",
	}, http.StatusCreated, &resp)
	return session{token: resp.AccessToken, refresh: resp.RefreshToken, user: *resp.User}
}

func TestHealthz(t *testing.T) {
	api := newAPI(t)
	w, _ := api.do(http.MethodGet, "/v1/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestAuthFlow(t *testing.T) {
	api := newAPI(t)

	root := api.register("root")
	assert.Equal(t, model.RoleAdmin, root.user.Role)
	alice := api.register("alice")
	assert.Equal(t, model.RoleMember, alice.user.Role)

	w, env := api.do(http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"username": "alice", "password": "another-pass",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, resputil.UserExists, env.Code)
	assert.False(t, env.Success)

	w, env = api.do(http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"username": "alice", "password": "wrong-pass",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, resputil.InvalidCredentials, env.Code)

	var login handler.LoginResp
	env = api.decode(http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"username": "alice", "password": "s3cret-pass",
	}, http.StatusOK, &login)
	assert.True(t, env.Success)
	assert.NotEmpty(t, login.AccessToken)

	var me model.User
	api.decode(http.MethodGet, "/api/v1/auth/me", login.AccessToken, nil, http.StatusOK, &me)
	assert.Equal(t, "alice", me.Name)

	var refreshed handler.RefreshResp
	api.decode(http.MethodPost, "/api/v1/auth/refresh", "", map[string]any{
		"refreshToken": login.RefreshToken,
	}, http.StatusOK, &refreshed)
	assert.NotEmpty(t, refreshed.AccessToken)

	// an access token is not accepted as refresh token and vice versa
	w, _ = api.do(http.MethodPost, "/api/v1/auth/refresh", "", map[string]any{"refreshToken": login.AccessToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w, _ = api.do(http.MethodGet, "/api/v1/auth/me", login.RefreshToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = api.do(http.MethodGet, "/api/v1/projects", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBoardEndpoints(t *testing.T) {
	api := newAPI(t)
	api.register("root")
	alice := api.register("alice")
	bob := api.register("bob")

	var project model.Project
	api.decode(http.MethodPost, "/api/v1/projects", alice.token, map[string]any{"name": "Apollo"}, http.StatusCreated, &project)
	require.Len(t, project.Lists, 5)
	base := fmt.Sprintf("/api/v1/projects/%d", project.ID)

	w, env := api.do(http.MethodGet, base, bob.token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, resputil.UserNotAllowed, env.Code)

	w, _ = api.do(http.MethodGet, "/api/v1/projects/999", alice.token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	member := map[string]any{"userId": bob.user.ID, "role": "viewer"}
	api.decode(http.MethodPost, base+"/members", alice.token, member, http.StatusCreated, nil)
	w, env = api.do(http.MethodPost, base+"/members", alice.token, member)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, resputil.DuplicateMembership, env.Code)

	backlog, todo := project.Lists[0], project.Lists[1]
	newTask := map[string]any{"listId": backlog.ID, "title": "Launch", "assigneeId": bob.user.ID}
	w, _ = api.do(http.MethodPost, "/api/v1/tasks", bob.token, newTask)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var task model.Task
	api.decode(http.MethodPost, "/api/v1/tasks", alice.token, newTask, http.StatusCreated, &task)
	assert.InDelta(t, 1.0, task.Position, 0)
	assert.Equal(t, model.TaskStatusTodo, task.StatusID)

	w, env = api.do(http.MethodPost, "/api/v1/tasks", alice.token, map[string]any{
		"listId": backlog.ID, "title": "Nope", "assigneeId": 4242,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, resputil.InvalidAssignee, env.Code)

	var moved model.Task
	api.decode(http.MethodPatch, fmt.Sprintf("/api/v1/tasks/%d/move", task.ID), bob.token,
		map[string]any{"targetListId": todo.ID, "position": 1.5}, http.StatusOK, &moved)
	assert.Equal(t, todo.ID, moved.ListID)
	assert.InDelta(t, 1.5, moved.Position, 0)

	var completed model.Task
	api.decode(http.MethodPatch, fmt.Sprintf("/api/v1/tasks/%d/complete", task.ID), bob.token, nil, http.StatusOK, &completed)
	assert.Equal(t, model.TaskStatusDone, completed.StatusID)
	assert.NotNil(t, completed.CompletedAt)

	w, env = api.do(http.MethodDelete, fmt.Sprintf("/api/v1/lists/%d", todo.ID), alice.token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, resputil.InvalidState, env.Code)

	var lists []model.TaskList
	api.decode(http.MethodGet, base+"/lists", bob.token, nil, http.StatusOK, &lists)
	require.Len(t, lists, 5)
	require.Len(t, lists[1].Tasks, 1)
	assert.Equal(t, task.ID, lists[1].Tasks[0].ID)
	assert.Empty(t, lists[0].Tasks)

	var filtered []model.Task
	api.decode(http.MethodGet, fmt.Sprintf("%s/tasks?assignee=%d", base, bob.user.ID), bob.token, nil, http.StatusOK, &filtered)
	require.Len(t, filtered, 1)
	api.decode(http.MethodGet, base+"/tasks?status=1", bob.token, nil, http.StatusOK, &filtered)
	assert.Empty(t, filtered)

	var comment model.Comment
	api.decode(http.MethodPost, fmt.Sprintf("/api/v1/tasks/%d/comments", task.ID), alice.token,
		map[string]any{"content": "ship it"}, http.StatusCreated, &comment)
	api.decode(http.MethodDelete, fmt.Sprintf("/api/v1/tasks/comments/%d", comment.ID), alice.token, nil, http.StatusOK, nil)

	w, _ = api.do(http.MethodPost, "/api/v1/tasks", alice.token, map[string]any{"title": "no list"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReorderEndpoint(t *testing.T) {
	api := newAPI(t)
	api.register("root")
	alice := api.register("alice")

	var project model.Project
	api.decode(http.MethodPost, "/api/v1/projects", alice.token, map[string]any{"name": "Apollo"}, http.StatusCreated, &project)
	backlog := project.Lists[0]

	var a, b model.Task
	api.decode(http.MethodPost, "/api/v1/tasks", alice.token, map[string]any{"listId": backlog.ID, "title": "A"}, http.StatusCreated, &a)
	api.decode(http.MethodPost, "/api/v1/tasks", alice.token, map[string]any{"listId": backlog.ID, "title": "B"}, http.StatusCreated, &b)

	var list model.TaskList
	api.decode(http.MethodPatch, fmt.Sprintf("/api/v1/lists/%d/reorder", backlog.ID), alice.token, map[string]any{
		"taskOrders": []map[string]any{
			{"taskId": a.ID, "position": 5},
			{"taskId": b.ID, "position": 1},
		},
	}, http.StatusOK, &list)
	require.Len(t, list.Tasks, 2)
	assert.Equal(t, b.ID, list.Tasks[0].ID)
	assert.Equal(t, a.ID, list.Tasks[1].ID)

	// an entry without a position is rejected instead of moving the task to 0
	w, env := api.do(http.MethodPatch, fmt.Sprintf("/api/v1/lists/%d/reorder", backlog.ID), alice.token, map[string]any{
		"taskOrders": []map[string]any{{"taskId": a.ID}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, resputil.InvalidRequest, env.Code)

	var got model.Task
	api.decode(http.MethodGet, fmt.Sprintf("/api/v1/tasks/%d", a.ID), alice.token, nil, http.StatusOK, &got)
	assert.InDelta(t, 5.0, got.Position, 0)

	// a position of zero is a valid explicit value
	api.decode(http.MethodPatch, fmt.Sprintf("/api/v1/tasks/%d/move", a.ID), alice.token,
		map[string]any{"targetListId": backlog.ID, "position": 0}, http.StatusOK, &got)
	assert.InDelta(t, 0.0, got.Position, 0)

	w, _ = api.do(http.MethodPatch, fmt.Sprintf("/api/v1/tasks/%d/move", a.ID), alice.token,
		map[string]any{"listId": backlog.ID, "position": 2})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminRoutes(t *testing.T) {
	api := newAPI(t)
	root := api.register("root")
	bob := api.register("bob")

	w, _ := api.do(http.MethodGet, "/api/v1/admin/users", bob.token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var users []model.User
	api.decode(http.MethodGet, "/api/v1/admin/users", root.token, nil, http.StatusOK, &users)
	assert.Len(t, users, 2)

	var updated model.User
	api.decode(http.MethodPut, fmt.Sprintf("/api/v1/admin/users/%d/role", bob.user.ID), root.token,
		map[string]any{"role": "viewer"}, http.StatusOK, &updated)
	assert.Equal(t, model.RoleViewer, updated.Role)

	// writes with a token minted before the role change are rejected
	w, _ = api.do(http.MethodPost, "/api/v1/projects", bob.token, map[string]any{"name": "Stale"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = api.do(http.MethodPut, "/api/v1/admin/users/999/role", root.token, map[string]any{"role": "member"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	api := newAPI(t)
	w, _ := api.do(http.MethodGet, "/api/v1/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `taskflow_tasks{status="todo"}`)
}
