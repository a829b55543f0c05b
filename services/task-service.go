package services

import (
	"context"
	"errors"

	"personal-task-manager/logging"
	"personal-task-manager/models"
	"personal-task-manager/repositories"
)

// TaskService exposes a user's own tasks. Every operation takes the owner's id and
// never touches tasks of other users.
type TaskService struct {
	tasks repositories.TaskRepository
}

func NewTaskService(tasks repositories.TaskRepository) *TaskService {
	return &TaskService{tasks: tasks}
}

func (s *TaskService) ListTasks(ctx context.Context, userID int64) ([]models.Task, error) {
	tasks, err := s.tasks.ListTasksByUser(ctx, userID)
	if err != nil {
		return nil, storageError("list tasks", err)
	}
	return tasks, nil
}

// GetTask returns ErrNotFoundOrForbidden both for missing ids and for tasks of other users.
func (s *TaskService) GetTask(ctx context.Context, taskID, userID int64) (*models.Task, error) {
	task, err := s.tasks.GetTaskForUser(ctx, taskID, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrNotFoundOrForbidden
	}
	if err != nil {
		return nil, storageError("get task", err)
	}
	return task, nil
}

func (s *TaskService) CreateTask(ctx context.Context, userID int64, in models.NewTask) (*models.Task, error) {
	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	task := &models.Task{
		Title:       in.Title,
		Description: in.Description,
		Priority:    priority,
		Status:      models.StatusPending,
		DueDate:     in.DueDate,
		UserID:      userID,
	}
	if err := s.tasks.CreateTask(ctx, task); err != nil {
		return nil, storageError("create task", err)
	}
	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task %d created for user %d", task.ID, userID)
	return task, nil
}

// CompleteTask marks the task Completed. Repeating it, or naming a task the user does not own, is a no-op.
func (s *TaskService) CompleteTask(ctx context.Context, taskID, userID int64) error {
	if err := s.tasks.CompleteTask(ctx, taskID, userID); err != nil {
		return storageError("complete task", err)
	}
	logging.Logger.Infof("Event ID: TASK_COMPLETED, Description: Task %d completed by user %d", taskID, userID)
	return nil
}

// DeleteTask removes the task. Missing ids and tasks of other users are ignored.
func (s *TaskService) DeleteTask(ctx context.Context, taskID, userID int64) error {
	if err := s.tasks.DeleteTask(ctx, taskID, userID); err != nil {
		return storageError("delete task", err)
	}
	logging.Logger.Infof("Event ID: TASK_DELETED, Description: Task %d deleted by user %d", taskID, userID)
	return nil
}
