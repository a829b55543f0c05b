package repositories

import (
	"context"
	"errors"

	"personal-task-manager/models"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateUsername = errors.New("username already exists")
)

type UserRepository interface {
	// CreateUser returns ErrDuplicateUsername when the username is taken.
	CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error)
	// GetUserByUsername returns ErrNotFound when no user has that name.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// TaskRepository operations are always scoped by the owning user id.
// CompleteTask and DeleteTask succeed silently when nothing matches.
type TaskRepository interface {
	CreateTask(ctx context.Context, task *models.Task) error
	ListTasksByUser(ctx context.Context, userID int64) ([]models.Task, error)
	GetTaskForUser(ctx context.Context, taskID, userID int64) (*models.Task, error)
	CompleteTask(ctx context.Context, taskID, userID int64) error
	DeleteTask(ctx context.Context, taskID, userID int64) error
}

type Store interface {
	UserRepository
	TaskRepository
	// Migrate creates the schema if it does not exist.
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
