package handlers

import (
	"net/http"
	"strconv"

	"personal-task-manager/logging"
	"personal-task-manager/middleware"
	"personal-task-manager/models"
	"personal-task-manager/services"

	"github.com/gorilla/mux"
)

type TaskHandler struct {
	tasks  *services.TaskService
	export *services.ExportService
	views  *Views
}

func NewTaskHandler(tasks *services.TaskService, export *services.ExportService, views *Views) *TaskHandler {
	return &TaskHandler{tasks: tasks, export: export, views: views}
}

type dashboardPage struct {
	Username   string
	Tasks      []models.Task
	Priorities []models.Priority
}

type taskPage struct {
	Task *models.Task
}

func (h *TaskHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.SessionFromContext(r.Context())
	tasks, err := h.tasks.ListTasks(r.Context(), session.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.views.Render(w, "dashboard.html", dashboardPage{
		Username:   session.Username,
		Tasks:      tasks,
		Priorities: models.Priorities,
	})
}

func (h *TaskHandler) ViewTask(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.SessionFromContext(r.Context())
	taskID, ok := taskIDFromPath(r)
	if !ok {
		writeServiceError(w, r, services.ErrNotFoundOrForbidden)
		return
	}
	task, err := h.tasks.GetTask(r.Context(), taskID, session.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.views.Render(w, "view.html", taskPage{Task: task})
}

func (h *TaskHandler) AddTask(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.SessionFromContext(r.Context())
	form := parseTaskForm(r)
	if err := validate.Struct(form); err != nil {
		logging.Logger.Warnf("Event ID: TASK_INVALID_INPUT, Description: User %d sent an invalid task: %v", session.UserID, err)
		http.Error(w, validationMessage(err), http.StatusBadRequest)
		return
	}
	newTask, err := form.toNewTask()
	if err != nil {
		http.Error(w, "Invalid input: "+err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := h.tasks.CreateTask(r.Context(), session.UserID, newTask); err != nil {
		writeServiceError(w, r, err)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.SessionFromContext(r.Context())
	taskID, ok := taskIDFromPath(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := h.tasks.CompleteTask(r.Context(), taskID, session.UserID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.SessionFromContext(r.Context())
	taskID, ok := taskIDFromPath(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := h.tasks.DeleteTask(r.Context(), taskID, session.UserID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func (h *TaskHandler) ExportTasks(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.SessionFromContext(r.Context())
	data, err := h.export.ExportTasks(r.Context(), session.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+services.ExportFilename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func taskIDFromPath(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
