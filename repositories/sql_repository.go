package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"personal-task-manager/models"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Dialect captures what differs between the relational backends.
type Dialect struct {
	Name       string
	DriverName string
	// positional dialects use $n placeholders instead of ?.
	positional bool
	schema     []string

	isUniqueViolation func(err error) bool
}

var DialectSQLite = Dialect{
	Name:       "sqlite",
	DriverName: "sqlite",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT UNIQUE NOT NULL,
			password TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			priority TEXT NOT NULL DEFAULT 'Medium',
			status TEXT NOT NULL DEFAULT 'Pending',
			due_date TEXT DEFAULT NULL,
			user_id INTEGER NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users (id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_user_id ON tasks (user_id)`,
	},
	isUniqueViolation: func(err error) bool {
		var sqliteErr *sqlite.Error
		if errors.As(err, &sqliteErr) {
			return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
		}
		return false
	},
}

var DialectPostgres = Dialect{
	Name:       "postgres",
	DriverName: "postgres",
	positional: true,
	schema: []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			password TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			priority TEXT NOT NULL DEFAULT 'Medium',
			status TEXT NOT NULL DEFAULT 'Pending',
			due_date TEXT DEFAULT NULL,
			user_id BIGINT NOT NULL REFERENCES users (id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_user_id ON tasks (user_id)`,
	},
	isUniqueViolation: func(err error) bool {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return pqErr.Code == "23505"
		}
		return false
	},
}

// rebind rewrites ? placeholders into $1, $2, ... for dialects that need it.
func (d Dialect) rebind(query string) string {
	if !d.positional {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SQLStore keeps users and tasks in a relational database through database/sql.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

func NewSQLStore(ctx context.Context, dialect Dialect, dsn string) (*SQLStore, error) {
	db, err := sql.Open(dialect.DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dialect.Name, err)
	}
	if dialect.Name == DialectSQLite.Name {
		// SQLite serializes writers; one connection avoids SQLITE_BUSY between pooled conns.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", dialect.Name, err)
	}
	return &SQLStore{db: db, dialect: dialect}, nil
}

func (s *SQLStore) Migrate(ctx context.Context) error {
	for _, stmt := range s.dialect.schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error) {
	user := &models.User{Username: username, PasswordHash: passwordHash}
	err := s.db.QueryRowContext(ctx,
		s.dialect.rebind(`INSERT INTO users (username, password) VALUES (?, ?) RETURNING id`),
		username, passwordHash,
	).Scan(&user.ID)
	if err != nil {
		if s.dialect.isUniqueViolation(err) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *SQLStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.QueryRowContext(ctx,
		s.dialect.rebind(`SELECT id, username, password FROM users WHERE username = ?`),
		username,
	).Scan(&user.ID, &user.Username, &user.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

func (s *SQLStore) CreateTask(ctx context.Context, task *models.Task) error {
	if task.Status == "" {
		task.Status = models.StatusPending
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	err := s.db.QueryRowContext(ctx,
		s.dialect.rebind(`INSERT INTO tasks (title, description, priority, status, due_date, user_id)
			VALUES (?, ?, ?, ?, ?, ?) RETURNING id`),
		task.Title, task.Description, string(task.Priority), string(task.Status), nullString(task.DueDate), task.UserID,
	).Scan(&task.ID)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

const taskColumns = `id, title, description, priority, status, due_date, user_id`

func (s *SQLStore) ListTasksByUser(ctx context.Context, userID int64) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		s.dialect.rebind(`SELECT `+taskColumns+` FROM tasks WHERE user_id = ? ORDER BY id`),
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}
	return tasks, nil
}

func (s *SQLStore) GetTaskForUser(ctx context.Context, taskID, userID int64) (*models.Task, error) {
	row := s.db.QueryRowContext(ctx,
		s.dialect.rebind(`SELECT `+taskColumns+` FROM tasks WHERE id = ? AND user_id = ?`),
		taskID, userID,
	)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return task, err
}

func (s *SQLStore) CompleteTask(ctx context.Context, taskID, userID int64) error {
	_, err := s.db.ExecContext(ctx,
		s.dialect.rebind(`UPDATE tasks SET status = ? WHERE id = ? AND user_id = ?`),
		string(models.StatusCompleted), taskID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete task: %w", err)
	}
	return nil
}

func (s *SQLStore) DeleteTask(ctx context.Context, taskID, userID int64) error {
	_, err := s.db.ExecContext(ctx,
		s.dialect.rebind(`DELETE FROM tasks WHERE id = ? AND user_id = ?`),
		taskID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	var (
		task             models.Task
		priority, status string
		dueDate          sql.NullString
	)
	if err := row.Scan(&task.ID, &task.Title, &task.Description, &priority, &status, &dueDate, &task.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to decode task: %w", err)
	}
	var err error
	if task.Priority, err = models.ParsePriority(priority); err != nil {
		return nil, fmt.Errorf("failed to decode task %d: %w", task.ID, err)
	}
	if task.Status, err = models.ParseTaskStatus(status); err != nil {
		return nil, fmt.Errorf("failed to decode task %d: %w", task.ID, err)
	}
	task.DueDate = dueDate.String
	return &task, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
