package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-planner/internal/models"
)

const taskColumns = "id, user_id, text, completed, scheduled_date, project_id, is_project_task, created_at"

type taskRepository struct {
	logger zerolog.Logger
	q      sqlx.ExtContext
}

func taskKeyWhere(key models.TaskKey) *where {
	var w where
	w.add("id = ?", key.ID)
	w.add("user_id = ?", key.UserID)
	if key.ProjectID != "" {
		w.add("project_id = ? AND is_project_task = 1", key.ProjectID)
	}
	return &w
}

func (r *taskRepository) List(ctx context.Context, filter models.TaskFilter) ([]*models.Task, error) {
	var w where
	w.add("user_id = ?", filter.UserID)
	switch filter.Scope {
	case models.ScopeStandalone:
		w.add("is_project_task = 0")
	case models.ScopeProject:
		w.add("is_project_task = 1")
	}
	if filter.ProjectID != "" {
		w.add("project_id = ?", filter.ProjectID)
	}
	if filter.ScheduledFrom != nil {
		w.add("scheduled_date >= ?", toMillis(*filter.ScheduledFrom))
	}
	if filter.ScheduledTo != nil {
		w.add("scheduled_date < ?", toMillis(*filter.ScheduledTo))
	}

	orderBy := "completed ASC, scheduled_date ASC, created_at ASC"
	if filter.Order == models.TaskOrderCreated {
		orderBy = "completed ASC, created_at DESC"
	}

	query := "SELECT " + taskColumns + " FROM tasks WHERE " + w.String() + " ORDER BY " + orderBy

	var rows []taskRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, w.args...); err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}

	tasks := make([]*models.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, row.model())
	}
	return tasks, nil
}

func (r *taskRepository) Get(ctx context.Context, key models.TaskKey) (*models.Task, error) {
	w := taskKeyWhere(key)

	var row taskRow
	err := sqlx.GetContext(ctx, r.q, &row, "SELECT "+taskColumns+" FROM tasks WHERE "+w.String(), w.args...)
	if err != nil {
		return nil, fmt.Errorf("getting task %s: %w", key.ID, classify(err))
	}
	return row.model(), nil
}

func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	id := newID()
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO tasks (
			id, user_id, text, completed,
			scheduled_date, project_id, is_project_task, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, task.UserID, task.Text, task.Completed,
		toMillis(task.ScheduledDate), task.ProjectID, task.IsProjectTask, toMillis(task.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("creating task: %w", classify(err))
	}
	task.ID = id

	r.logger.Debug().
		Str("task_id", id).
		Msg("inserted task")
	return nil
}

func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	result, err := r.q.ExecContext(ctx, `
		UPDATE tasks SET text = ?, completed = ?, scheduled_date = ?
		WHERE id = ? AND user_id = ?`,
		task.Text, task.Completed, toMillis(task.ScheduledDate),
		task.ID, task.UserID,
	)
	if err != nil {
		return fmt.Errorf("updating task %s: %w", task.ID, classify(err))
	}
	return rowsAffected(result)
}

func (r *taskRepository) Delete(ctx context.Context, key models.TaskKey) (*models.Task, error) {
	w := taskKeyWhere(key)

	var row taskRow
	err := sqlx.GetContext(ctx, r.q, &row, "DELETE FROM tasks WHERE "+w.String()+" RETURNING "+taskColumns, w.args...)
	if err != nil {
		return nil, fmt.Errorf("deleting task %s: %w", key.ID, classify(err))
	}

	r.logger.Debug().
		Str("task_id", row.ID).
		Msg("deleted task")
	return row.model(), nil
}

func (r *taskRepository) DeleteByProject(ctx context.Context, userID, projectID string) (int64, error) {
	result, err := r.q.ExecContext(ctx,
		"DELETE FROM tasks WHERE user_id = ? AND project_id = ? AND is_project_task = 1",
		userID, projectID,
	)
	if err != nil {
		return 0, fmt.Errorf("deleting tasks of project %s: %w", projectID, err)
	}
	return result.RowsAffected()
}
