package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/teamboard/internal/db"
	"github.com/tgienger/teamboard/internal/models"
	"github.com/tgienger/teamboard/internal/notify"
	"github.com/tgienger/teamboard/internal/roles"
	"github.com/tgienger/teamboard/internal/tasks"
)

type testEnv struct {
	app      *fiber.App
	db       *db.DB
	admin    *models.User
	designer *models.User
}

func setupTestApp(t *testing.T) *testEnv {
	t.Helper()

	database, err := db.New(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	registry := roles.New([]string{"admin"}, nil)
	engine := tasks.NewEngine(database, tasks.Options{
		Roles:   registry,
		Emitter: notify.NewStore(database),
	})

	ctx := context.Background()
	admin, err := engine.CreateUser(ctx, "Alex", "admin", "")
	require.NoError(t, err)
	designer, err := engine.CreateUser(ctx, "Dana", "designer", "")
	require.NoError(t, err)

	app := NewApp(Deps{
		Engine:       engine,
		DB:           database,
		Roles:        registry,
		PollInterval: 5 * time.Second,
	})
	return &testEnv{app: app, db: database, admin: admin, designer: designer}
}

func (e *testEnv) do(t *testing.T, method, path string, actor int64, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if actor != 0 {
		req.Header.Set(UserHeader, strconv.FormatInt(actor, 10))
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var out map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), "body: %s", raw)
	}
	return resp, out
}

func taskField(t *testing.T, out map[string]any) map[string]any {
	t.Helper()
	task, ok := out["task"].(map[string]any)
	require.True(t, ok, "response has no task: %v", out)
	return task
}

func idOf(t *testing.T, obj map[string]any) int64 {
	t.Helper()
	id, ok := obj["id"].(float64)
	require.True(t, ok)
	return int64(id)
}

func TestHealth(t *testing.T) {
	env := setupTestApp(t)
	resp, out := env.do(t, "GET", "/health", 0, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", out["status"])
}

func TestRequiresActor(t *testing.T) {
	env := setupTestApp(t)

	resp, _ := env.do(t, "GET", "/api/tasks", 0, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = env.do(t, "GET", "/api/tasks", 9999, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestCreateAndGetTask(t *testing.T) {
	env := setupTestApp(t)

	resp, out := env.do(t, "POST", "/api/tasks", env.designer.ID, map[string]any{
		"title":        "Launch poster",
		"description":  map[string]any{"type": "checklist", "items": []map[string]any{{"text": "sketch"}}},
		"priority":     "high",
		"category":     "design",
		"assignee_ids": []int64{env.designer.ID, env.admin.ID},
		"due_date":     "2026-11-01",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, "%v", out)
	task := taskField(t, out)
	assert.Regexp(t, `^DES-\d{6}-0001$`, task["code"])
	assert.Equal(t, "2026-11-01", task["due_date"])
	assert.Len(t, task["assignees"], 2)

	id := idOf(t, task)
	resp, out = env.do(t, "GET", "/api/tasks/"+strconv.FormatInt(id, 10), env.admin.ID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Launch poster", taskField(t, out)["title"])
	assert.Equal(t, float64(5), out["poll_interval_seconds"])
	assert.NotEmpty(t, out["polled_at"])

	resp, out = env.do(t, "GET", "/api/tasks?assignee="+strconv.FormatInt(env.admin.ID, 10), env.admin.ID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, out["tasks"], 1)

	resp, _ = env.do(t, "GET", "/api/tasks/424242", env.admin.ID, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestErrorStatusMapping(t *testing.T) {
	env := setupTestApp(t)

	resp, out := env.do(t, "POST", "/api/tasks", env.designer.ID, map[string]any{"title": ""})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "validation", out["kind"])

	resp, _ = env.do(t, "POST", "/api/tasks", env.designer.ID, map[string]any{"title": "x", "due_date": "tomorrow"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	_, out = env.do(t, "POST", "/api/tasks", env.designer.ID, map[string]any{"title": "Leaf", "assignee_ids": []int64{env.designer.ID}})
	id := strconv.FormatInt(idOf(t, taskField(t, out)), 10)

	resp, out = env.do(t, "POST", "/api/tasks/"+id+"/approve", env.designer.ID, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "admin_required", out["code"])

	resp, out = env.do(t, "POST", "/api/tasks/"+id+"/approve", env.admin.ID, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "invalid_state", out["kind"])

	resp, out = env.do(t, "POST", "/api/groups/"+id+"/members", env.admin.ID, map[string]any{"task_id": 1})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "not_a_super_task", out["code"])

	resp, _ = env.do(t, "POST", "/api/tasks/abc/status", env.admin.ID, map[string]any{"status": "completed"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestStatusApprovalFlow(t *testing.T) {
	env := setupTestApp(t)

	_, out := env.do(t, "POST", "/api/tasks", env.admin.ID, map[string]any{"title": "Reel", "assignee_ids": []int64{env.designer.ID}})
	id := strconv.FormatInt(idOf(t, taskField(t, out)), 10)

	resp, out := env.do(t, "POST", "/api/tasks/"+id+"/status", env.designer.ID, map[string]any{"status": "completed"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, false, taskField(t, out)["admin_approved"])

	resp, out = env.do(t, "POST", "/api/tasks/"+id+"/approve", env.admin.ID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, taskField(t, out)["admin_approved"])

	// the admin was notified of the completion waiting for approval
	resp, out = env.do(t, "GET", "/api/notifications?unread=true", env.admin.ID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	list := out["notifications"].([]any)
	require.Len(t, list, 1)
	first := list[0].(map[string]any)
	assert.Equal(t, "task_completed", first["type"])
	assert.Equal(t, float64(1), out["unread_count"])

	nid := strconv.FormatInt(idOf(t, first), 10)
	resp, _ = env.do(t, "POST", "/api/notifications/"+nid+"/read", env.designer.ID, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode, "cannot read someone else's notification")
	resp, _ = env.do(t, "POST", "/api/notifications/"+nid+"/read", env.admin.ID, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestGroupEndpoints(t *testing.T) {
	env := setupTestApp(t)

	var ids []int64
	for _, title := range []string{"A", "B", "C"} {
		_, out := env.do(t, "POST", "/api/tasks", env.designer.ID, map[string]any{"title": title, "assignee_ids": []int64{env.designer.ID}})
		ids = append(ids, idOf(t, taskField(t, out)))
	}

	resp, out := env.do(t, "POST", "/api/groups", env.designer.ID, map[string]any{"title": "Campaign", "task_ids": ids[:2]})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, "%v", out)
	group := taskField(t, out)
	assert.Equal(t, true, group["is_super_task"])
	assert.Equal(t, "pending", group["status"])
	groupID := strconv.FormatInt(idOf(t, group), 10)

	resp, _ = env.do(t, "POST", "/api/groups/"+groupID+"/members", env.designer.ID, map[string]any{"task_id": ids[2]})
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, out = env.do(t, "POST", "/api/tasks/"+groupID+"/status", env.admin.ID, map[string]any{"status": "completed"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, out = env.do(t, "POST", "/api/groups", env.designer.ID, map[string]any{"title": "Nested", "task_ids": []int64{idOf(t, group), ids[0]}})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "invalid_group", out["kind"])

	resp, _ = env.do(t, "DELETE", "/api/tasks/"+strconv.FormatInt(ids[2], 10)+"/group", env.designer.ID, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, out = env.do(t, "GET", "/api/tasks/"+groupID, env.designer.ID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, taskField(t, out)["children"], 2)

	resp, _ = env.do(t, "DELETE", "/api/tasks/"+groupID, env.designer.ID, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, out = env.do(t, "GET", "/api/tasks?top_level=true", env.designer.ID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, out["tasks"], 3, "members survive their container")
}

func TestUpdateEndpoints(t *testing.T) {
	env := setupTestApp(t)

	_, out := env.do(t, "POST", "/api/tasks", env.designer.ID, map[string]any{
		"title": "Draft", "assignee_ids": []int64{env.designer.ID}, "start_date": "2026-10-20", "due_date": "2026-10-30",
	})
	id := strconv.FormatInt(idOf(t, taskField(t, out)), 10)

	resp, out := env.do(t, "PUT", "/api/tasks/"+id, env.designer.ID, map[string]any{
		"title": "Final", "description": "plain text works too", "due_date": "", "status": "in_progress",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, "%v", out)
	task := taskField(t, out)
	assert.Equal(t, "Final", task["title"])
	assert.Nil(t, task["due_date"])
	assert.Equal(t, "2026-10-20", task["start_date"])
	assert.Equal(t, "in_progress", task["status"])
	assert.Equal(t, "plain text works too", task["description"].(map[string]any)["text"])

	resp, out = env.do(t, "PUT", "/api/tasks/"+id+"/assignees", env.designer.ID, map[string]any{"assignee_ids": []int64{env.admin.ID}})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(env.admin.ID), taskField(t, out)["assigned_to"])

	resp, _ = env.do(t, "PUT", "/api/tasks/"+id+"/assignees", env.designer.ID, map[string]any{"unassigned": true})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestUserEndpoints(t *testing.T) {
	env := setupTestApp(t)

	resp, _ := env.do(t, "POST", "/api/users", 0, map[string]any{"name": "Eve", "role": "editor"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, "open only while the team is empty")

	resp, _ = env.do(t, "POST", "/api/users", env.designer.ID, map[string]any{"name": "Eve", "role": "editor"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, out := env.do(t, "POST", "/api/users", env.admin.ID, map[string]any{"name": "Eve", "role": "video editor"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	eve := out["user"].(map[string]any)
	assert.NotEmpty(t, eve["avatar_color"])

	resp, out = env.do(t, "GET", "/api/users", env.designer.ID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, out["users"], 3)

	path := "/api/users/" + strconv.FormatInt(env.designer.ID, 10) + "/role"
	resp, _ = env.do(t, "PUT", path, env.designer.ID, map[string]any{"role": "admin"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, out = env.do(t, "PUT", path, env.admin.ID, map[string]any{"role": "admin"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "admin", out["user"].(map[string]any)["role"])

	// the promoted user now passes admin checks
	resp, _ = env.do(t, "POST", "/api/users", env.designer.ID, map[string]any{"name": "Finn", "role": "writer"})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestBootstrapFirstUser(t *testing.T) {
	database, err := db.New(filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	defer database.Close()

	app := NewApp(Deps{Engine: tasks.NewEngine(database, tasks.Options{}), DB: database})
	env := &testEnv{app: app, db: database}

	resp, out := env.do(t, "POST", "/api/users", 0, map[string]any{"name": "Root", "role": "admin"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, "%v", out)

	resp, out = env.do(t, "POST", "/api/users", 0, map[string]any{"name": "Second", "role": "admin"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, "%v", out)

	count, err := database.UserCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
