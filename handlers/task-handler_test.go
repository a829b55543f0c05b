package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"personal-task-manager/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProtectedRoutesRedirectToLogin(t *testing.T) {
	app := newTestApp(t)
	garbage := &http.Cookie{Name: "session", Value: "not-a-token"}

	routes := []struct{ method, path string }{
		{http.MethodGet, "/dashboard"},
		{http.MethodGet, "/view/1"},
		{http.MethodPost, "/add"},
		{http.MethodGet, "/delete/1"},
		{http.MethodGet, "/complete/1"},
		{http.MethodGet, "/export"},
	}
	for _, rt := range routes {
		for _, cookie := range []*http.Cookie{nil, garbage} {
			rec := app.do(t, rt.method, rt.path, url.Values{}, cookie)
			assert.Equal(t, http.StatusFound, rec.Code, rt.path)
			assert.Equal(t, "/login", rec.Header().Get("Location"), rt.path)
		}
	}
}

func TestDashboardListsOnlyOwnTasks(t *testing.T) {
	app := newTestApp(t)
	alice := app.signUp(t, "alice")
	bob := app.signUp(t, "bob")

	app.addTask(t, alice, url.Values{"title": {"Buy milk"}, "description": {"2 litres"}, "priority": {"High"}, "due_date": {"2026-10-20"}})

	rec := app.do(t, http.MethodGet, "/dashboard", nil, alice)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Welcome, alice")
	assert.Contains(t, body, "Buy milk")
	assert.Contains(t, body, "2026-10-20")

	rec = app.do(t, http.MethodGet, "/dashboard", nil, bob)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Buy milk")
	assert.Contains(t, rec.Body.String(), "No tasks yet.")
}

func TestDashboardEscapesTaskTitles(t *testing.T) {
	app := newTestApp(t)
	alice := app.signUp(t, "alice")
	app.addTask(t, alice, url.Values{"title": {"<script>alert(1)</script>"}})

	rec := app.do(t, http.MethodGet, "/dashboard", nil, alice)
	assert.NotContains(t, rec.Body.String(), "<script>alert(1)</script>")
	assert.Contains(t, rec.Body.String(), "&lt;script&gt;")
}

func TestAddTaskDefaults(t *testing.T) {
	app := newTestApp(t)
	alice := app.signUp(t, "alice")
	app.addTask(t, alice, url.Values{"title": {"Buy milk"}})

	tasks := app.tasksOf(t, alice)
	require.Len(t, tasks, 1)
	assert.Equal(t, models.PriorityMedium, tasks[0].Priority)
	assert.Equal(t, models.StatusPending, tasks[0].Status)
	assert.Empty(t, tasks[0].DueDate)
}

func TestAddTaskRejectsMalformedInput(t *testing.T) {
	app := newTestApp(t)
	alice := app.signUp(t, "alice")

	cases := map[string]url.Values{
		"missing title":   {"description": {"x"}},
		"blank title":     {"title": {"   "}},
		"bad priority":    {"title": {"t"}, "priority": {"Urgent"}},
		"bad due date":    {"title": {"t"}, "due_date": {"next friday"}},
		"impossible date": {"title": {"t"}, "due_date": {"2026-02-30"}},
		"title too long":  {"title": {strings.Repeat("x", 201)}},
	}
	for name, form := range cases {
		t.Run(name, func(t *testing.T) {
			rec := app.do(t, http.MethodPost, "/add", form, alice)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "Invalid input")
		})
	}
	assert.Empty(t, app.tasksOf(t, alice))
}

func TestViewTaskOwnership(t *testing.T) {
	app := newTestApp(t)
	alice := app.signUp(t, "alice")
	bob := app.signUp(t, "bob")
	id := app.addTask(t, alice, url.Values{"title": {"Buy milk"}, "description": {"semi-skimmed"}})

	rec := app.do(t, http.MethodGet, fmt.Sprintf("/view/%d", id), nil, alice)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "semi-skimmed")

	rec = app.do(t, http.MethodGet, fmt.Sprintf("/view/%d", id), nil, bob)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Task not found or access denied!", strings.TrimSpace(rec.Body.String()))

	rec = app.do(t, http.MethodGet, "/view/9999", nil, alice)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Task not found or access denied!", strings.TrimSpace(rec.Body.String()))

	rec = app.do(t, http.MethodGet, "/view/abc", nil, alice)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCompleteTask(t *testing.T) {
	app := newTestApp(t)
	alice := app.signUp(t, "alice")
	id := app.addTask(t, alice, url.Values{"title": {"Buy milk"}})

	for i := 0; i < 2; i++ {
		rec := app.do(t, http.MethodGet, fmt.Sprintf("/complete/%d", id), nil, alice)
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
	}
	tasks := app.tasksOf(t, alice)
	require.Len(t, tasks, 1)
	assert.Equal(t, models.StatusCompleted, tasks[0].Status)
}

func TestDeleteTask(t *testing.T) {
	app := newTestApp(t)
	alice := app.signUp(t, "alice")
	id := app.addTask(t, alice, url.Values{"title": {"Buy milk"}})

	for i := 0; i < 2; i++ {
		rec := app.do(t, http.MethodGet, fmt.Sprintf("/delete/%d", id), nil, alice)
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
	}
	assert.Empty(t, app.tasksOf(t, alice))
}

func TestCompleteAndDeleteCannotTouchForeignTasks(t *testing.T) {
	app := newTestApp(t)
	alice := app.signUp(t, "alice")
	mallory := app.signUp(t, "mallory")
	id := app.addTask(t, alice, url.Values{"title": {"Buy milk"}})

	rec := app.do(t, http.MethodGet, fmt.Sprintf("/complete/%d", id), nil, mallory)
	assert.Equal(t, http.StatusFound, rec.Code)
	rec = app.do(t, http.MethodGet, fmt.Sprintf("/delete/%d", id), nil, mallory)
	assert.Equal(t, http.StatusFound, rec.Code)

	tasks := app.tasksOf(t, alice)
	require.Len(t, tasks, 1)
	assert.Equal(t, models.StatusPending, tasks[0].Status)
}

func TestExportTasks(t *testing.T) {
	app := newTestApp(t)
	alice := app.signUp(t, "alice")
	bob := app.signUp(t, "bob")
	id := app.addTask(t, alice, url.Values{"title": {"Buy milk"}})
	app.addTask(t, bob, url.Values{"title": {"Not alice's"}})

	rec := app.do(t, http.MethodGet, "/export", nil, alice)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="tasks.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, fmt.Sprintf("ID,Title,Description,Priority,Status,Due Date\r\n%d,Buy milk,,Medium,Pending,\r\n", id), rec.Body.String())
}

func TestStorageFailureIsInternalError(t *testing.T) {
	app := newTestApp(t)
	alice := app.signUp(t, "alice")
	require.NoError(t, app.store.Close())

	for _, path := range []string{"/dashboard", "/export", "/view/1", "/complete/1", "/delete/1"} {
		rec := app.do(t, http.MethodGet, path, nil, alice)
		assert.Equal(t, http.StatusInternalServerError, rec.Code, path)
		assert.NotContains(t, rec.Body.String(), "sql", path)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = app.do(t, http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `taskmanager_http_requests_total{code="200",method="GET",route="/health"}`)

	require.NoError(t, app.store.Close())
	rec = app.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUnmatchedRequestsAreCounted(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/no-such-page", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.do(t, http.MethodDelete, "/dashboard", nil, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = app.do(t, http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `taskmanager_http_requests_total{code="404",method="GET",route="unmatched"}`)
	assert.Contains(t, body, `taskmanager_http_requests_total{code="405",method="DELETE",route="unmatched"}`)
}
