package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"personal-task-manager/models"
)

const ExportFilename = "tasks.csv"

var exportHeader = []string{"ID", "Title", "Description", "Priority", "Status", "Due Date"}

type ExportService struct {
	tasks *TaskService
}

func NewExportService(tasks *TaskService) *ExportService {
	return &ExportService{tasks: tasks}
}

// ExportTasks renders the user's tasks as CSV in list order. The whole document is built
// before returning so a store failure never yields a truncated download.
func (s *ExportService) ExportTasks(ctx context.Context, userID int64) ([]byte, error) {
	tasks, err := s.tasks.ListTasks(ctx, userID)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, tasks); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteCSV writes a header row and one CRLF-terminated record per task. An unset due date is an empty field.
func WriteCSV(w io.Writer, tasks []models.Task) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, t := range tasks {
		record := []string{
			strconv.FormatInt(t.ID, 10),
			t.Title,
			t.Description,
			string(t.Priority),
			string(t.Status),
			t.DueDate,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
