package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-planner/internal/models"
	"github.com/adanyl0v/go-planner/internal/storage"
)

const taskColumns = `id::text,
       user_id::text,
       text,
       completed,
       scheduled_date,
       project_id::text,
       is_project_task,
       created_at`

type taskRepository struct {
	logger zerolog.Logger
	q      querier
}

func scanTask(row pgx.Row) (*models.Task, error) {
	var task models.Task
	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Text,
		&task.Completed,
		&task.ScheduledDate,
		&task.ProjectID,
		&task.IsProjectTask,
		&task.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	task.ScheduledDate = task.ScheduledDate.UTC()
	task.CreatedAt = task.CreatedAt.UTC()
	return &task, nil
}

// whereBuilder accumulates AND-ed conditions with positional arguments.
type whereBuilder struct {
	conditions []string
	args       []any
}

// add appends a condition whose single %d verb is replaced by the
// placeholder index of arg.
func (b *whereBuilder) add(condition string, arg any) {
	b.args = append(b.args, arg)
	b.conditions = append(b.conditions, fmt.Sprintf(condition, len(b.args)))
}

func (b *whereBuilder) raw(condition string) {
	b.conditions = append(b.conditions, condition)
}

func (b *whereBuilder) String() string {
	return strings.Join(b.conditions, "\n  AND ")
}

func taskKeyWhere(key models.TaskKey) *whereBuilder {
	var b whereBuilder
	b.add("id = $%d", key.ID)
	b.add("user_id = $%d", key.UserID)
	if key.ProjectID != "" {
		b.add("project_id = $%d", key.ProjectID)
		b.raw("is_project_task = TRUE")
	}
	return &b
}

func (r *taskRepository) List(ctx context.Context, filter models.TaskFilter) ([]*models.Task, error) {
	var b whereBuilder
	b.add("user_id = $%d", filter.UserID)
	switch filter.Scope {
	case models.ScopeStandalone:
		b.raw("is_project_task = FALSE")
	case models.ScopeProject:
		b.raw("is_project_task = TRUE")
	}
	if filter.ProjectID != "" {
		b.add("project_id = $%d", filter.ProjectID)
	}
	if filter.ScheduledFrom != nil {
		b.add("scheduled_date >= $%d", *filter.ScheduledFrom)
	}
	if filter.ScheduledTo != nil {
		b.add("scheduled_date < $%d", *filter.ScheduledTo)
	}

	orderBy := "completed ASC, scheduled_date ASC, created_at ASC"
	if filter.Order == models.TaskOrderCreated {
		orderBy = "completed ASC, created_at DESC"
	}

	query := "SELECT " + taskColumns + "\nFROM tasks\nWHERE " + b.String() + "\nORDER BY " + orderBy
	rows, err := r.q.Query(ctx, query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select tasks: %w", classify(err))
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("failed to iterate over rows: %w", classify(err))
	}
	return tasks, nil
}

func (r *taskRepository) Get(ctx context.Context, key models.TaskKey) (*models.Task, error) {
	b := taskKeyWhere(key)
	query := "SELECT " + taskColumns + "\nFROM tasks\nWHERE " + b.String()
	task, err := scanTask(r.q.QueryRow(ctx, query, b.args...))
	if err != nil {
		return nil, fmt.Errorf("failed to select task: %w", classify(err))
	}
	return task, nil
}

func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	const insertTaskQuery = `
INSERT INTO tasks (user_id,
                   text,
                   completed,
                   scheduled_date,
                   project_id,
                   is_project_task,
                   created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id::text
`
	err := r.q.QueryRow(
		ctx,
		insertTaskQuery,
		task.UserID,
		task.Text,
		task.Completed,
		task.ScheduledDate,
		task.ProjectID,
		task.IsProjectTask,
		task.CreatedAt,
	).Scan(&task.ID)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", classify(err))
	}
	r.logger.Debug().
		Str("task_id", task.ID).
		Msg("inserted task")
	return nil
}

func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	const updateTaskQuery = `
UPDATE tasks
SET text           = $1,
    completed      = $2,
    scheduled_date = $3
WHERE id = $4
  AND user_id = $5
`
	tag, err := r.q.Exec(
		ctx,
		updateTaskQuery,
		task.Text,
		task.Completed,
		task.ScheduledDate,
		task.ID,
		task.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", classify(err))
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, key models.TaskKey) (*models.Task, error) {
	b := taskKeyWhere(key)
	query := "DELETE\nFROM tasks\nWHERE " + b.String() + "\nRETURNING " + taskColumns
	task, err := scanTask(r.q.QueryRow(ctx, query, b.args...))
	if err != nil {
		return nil, fmt.Errorf("failed to delete task: %w", classify(err))
	}
	r.logger.Debug().
		Str("task_id", task.ID).
		Msg("deleted task")
	return task, nil
}

func (r *taskRepository) DeleteByProject(ctx context.Context, userID, projectID string) (int64, error) {
	const deleteTasksByProjectQuery = `
DELETE
FROM tasks
WHERE user_id = $1
  AND project_id = $2
  AND is_project_task = TRUE
`
	tag, err := r.q.Exec(ctx, deleteTasksByProjectQuery, userID, projectID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete project tasks: %w", classify(err))
	}
	return tag.RowsAffected(), nil
}
