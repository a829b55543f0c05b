package models

import "fmt"

type TaskStatus string

const (
	StatusPending   TaskStatus = "Pending"
	StatusCompleted TaskStatus = "Completed"
)

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Priorities lists the accepted priorities in the order the add form offers them.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// ParsePriority maps form input to a Priority. Empty input yields PriorityMedium.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case "":
		return PriorityMedium, nil
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(s), nil
	}
	return "", fmt.Errorf("unknown priority %q", s)
}

// ParseTaskStatus maps a stored value to a TaskStatus. Empty input yields StatusPending.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case "":
		return StatusPending, nil
	case StatusPending, StatusCompleted:
		return TaskStatus(s), nil
	}
	return "", fmt.Errorf("unknown task status %q", s)
}

// Task is a single entry of a user's personal list. DueDate is empty when unset.
type Task struct {
	ID          int64      `json:"id" bson:"_id"`
	Title       string     `json:"title" bson:"title"`
	Description string     `json:"description" bson:"description"`
	Priority    Priority   `json:"priority" bson:"priority"`
	Status      TaskStatus `json:"status" bson:"status"`
	DueDate     string     `json:"dueDate,omitempty" bson:"due_date,omitempty"`
	UserID      int64      `json:"userId" bson:"user_id"`
}

func (t Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// NewTask carries the fields a user supplies when adding a task.
type NewTask struct {
	Title       string
	Description string
	Priority    Priority
	DueDate     string
}
