package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/simonbystrom/tasks/internal/log"
	"github.com/simonbystrom/tasks/internal/storage/sqlite/migrations"
	"github.com/simonbystrom/tasks/internal/task"
)

// RepositoryConfig is the configuration for the SQLite repository.
type RepositoryConfig struct {
	DBPath string
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.DBPath == "" {
		return fmt.Errorf("db path is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.SQLite"})
	return nil
}

// Repository is a SQLite implementation of storage.Repository. Insertion
// order is kept by an autoincrement sequence column.
type Repository struct {
	db     *sql.DB
	logger log.Logger
}

// NewRepository opens the database and migrates it to the latest schema.
func NewRepository(ctx context.Context, cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return nil, fmt.Errorf("could not create db directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", cfg.DBPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	migrator, err := migrations.NewMigrator(db, cfg.Logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create migrator: %w", err)
	}
	if err := migrator.Up(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not run migrations: %w", err)
	}

	cfg.Logger.Debugf("SQLite repository initialized at %s", cfg.DBPath)
	return &Repository{db: db, logger: cfg.Logger}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error { return r.db.Close() }

// ListTasks returns all tasks in insertion order.
func (r *Repository) ListTasks(ctx context.Context) ([]task.Task, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, text, completed FROM tasks ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("could not query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []task.Task{}
	for rows.Next() {
		var t task.Task
		if err := rows.Scan(&t.ID, &t.Text, &t.Completed); err != nil {
			return nil, fmt.Errorf("could not scan row: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return tasks, nil
}

// GetTask retrieves a task by ID.
func (r *Repository) GetTask(ctx context.Context, id string) (*task.Task, error) {
	var t task.Task
	err := r.db.QueryRowContext(ctx, `SELECT id, text, completed FROM tasks WHERE id = ?`, id).
		Scan(&t.ID, &t.Text, &t.Completed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task %s: %w", id, task.ErrNotFound)
		}
		return nil, fmt.Errorf("could not query task: %w", err)
	}
	return &t, nil
}

// CreateTask appends a task.
func (r *Repository) CreateTask(ctx context.Context, t task.Task) error {
	if err := insert(ctx, r.db, t); err != nil {
		return err
	}
	r.logger.Debugf("Created task in repository: %s", t.ID)
	return nil
}

// UpdateTask replaces the text and completion state of an existing task.
func (r *Repository) UpdateTask(ctx context.Context, t task.Task) error {
	result, err := r.db.ExecContext(ctx, `UPDATE tasks SET text = ?, completed = ? WHERE id = ?`, t.Text, t.Completed, t.ID)
	if err != nil {
		return fmt.Errorf("could not update task: %w", err)
	}
	if err := requireRow(result, t.ID); err != nil {
		return err
	}
	r.logger.Debugf("Updated task in repository: %s", t.ID)
	return nil
}

// DeleteTask deletes a task.
func (r *Repository) DeleteTask(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("could not delete task: %w", err)
	}
	if err := requireRow(result, id); err != nil {
		return err
	}
	r.logger.Debugf("Deleted task from repository: %s", id)
	return nil
}

// ReplaceTasks swaps the whole collection in one transaction.
func (r *Repository) ReplaceTasks(ctx context.Context, tasks []task.Task) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("could not clear tasks: %w", err)
	}
	for _, t := range tasks {
		if err := insert(ctx, tx, t); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	r.logger.Debugf("Replaced repository contents with %d tasks", len(tasks))
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insert(ctx context.Context, db execer, t task.Task) error {
	_, err := db.ExecContext(ctx, `INSERT INTO tasks (id, text, completed) VALUES (?, ?, ?)`, t.ID, t.Text, t.Completed)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: tasks.id") {
			return fmt.Errorf("task %s: %w", t.ID, task.ErrAlreadyExists)
		}
		return fmt.Errorf("could not insert task: %w", err)
	}
	return nil
}

func requireRow(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("task %s: %w", id, task.ErrNotFound)
	}
	return nil
}
