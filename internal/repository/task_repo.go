package repository

import (
	"database/sql"
	"fmt"
	"time"

	"careconnect/internal/database"
	"careconnect/internal/models"
)

// TaskRepository handles database operations for tasks
type TaskRepository struct {
	db *database.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *database.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `id, user_id, title, COALESCE(description, ''), due_date,
	COALESCE(recurrence, ''), is_completed, completed_at, completed_by, created_at`

func scanTask(scan func(dest ...interface{}) error) (*models.Task, error) {
	task := &models.Task{}
	err := scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.DueDate,
		&task.Recurrence,
		&task.IsCompleted,
		&task.CompletedAt,
		&task.CompletedBy,
		&task.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return task, nil
}

// ListByUser returns all tasks owned by a user
func (r *TaskRepository) ListByUser(userID int64) ([]*models.Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks WHERE user_id = ? ORDER BY due_date"
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task, err := scanTask(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tasks: %w", err)
	}
	return tasks, nil
}

// GetByID retrieves a task by ID
func (r *TaskRepository) GetByID(id int64) (*models.Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks WHERE id = ?"
	task, err := scanTask(r.db.QueryRow(query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// Create inserts a new task in the incomplete state
func (r *TaskRepository) Create(task *models.Task) (*models.Task, error) {
	now := time.Now()
	query := `
		INSERT INTO tasks (user_id, title, description, due_date, recurrence, is_completed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		task.UserID, task.Title, task.Description, task.DueDate, task.Recurrence, false, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	created := *task
	created.ID = id
	created.IsCompleted = false
	created.CompletedAt = nil
	created.CompletedBy = nil
	created.CreatedAt = now
	return &created, nil
}

// Update replaces a task's editable fields. Completion state is only
// changed through Complete.
func (r *TaskRepository) Update(id int64, task *models.Task) (*models.Task, error) {
	query := `
		UPDATE tasks
		SET title = ?, description = ?, due_date = ?, recurrence = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query, task.Title, task.Description, task.DueDate, task.Recurrence, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return r.GetByID(id)
}

// Complete marks a task as done. The transition is one-way.
func (r *TaskRepository) Complete(id, completedBy int64) (*models.Task, error) {
	query := `
		UPDATE tasks
		SET is_completed = ?, completed_at = ?, completed_by = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query, true, time.Now(), completedBy, id)
	if err != nil {
		return nil, fmt.Errorf("failed to complete task: %w", err)
	}
	return r.GetByID(id)
}

// Delete removes a task
func (r *TaskRepository) Delete(id int64) error {
	if _, err := r.db.Exec("DELETE FROM tasks WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// ListUserIDsWithIncompleteTasks returns the distinct owners of tasks
// that are not yet completed. The reminder scheduler sweep uses this.
func (r *TaskRepository) ListUserIDsWithIncompleteTasks() ([]int64, error) {
	rows, err := r.db.Query("SELECT DISTINCT user_id FROM tasks WHERE is_completed = ?", false)
	if err != nil {
		return nil, fmt.Errorf("failed to list task owners: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read task owners: %w", err)
	}
	return ids, nil
}
