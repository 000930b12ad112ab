package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-planner/internal/models"
)

const projectColumns = "id, user_id, name, created_at, modified_at"

type projectRepository struct {
	logger zerolog.Logger
	q      sqlx.ExtContext
}

func (r *projectRepository) List(ctx context.Context, userID string) ([]*models.Project, error) {
	var rows []projectRow
	err := sqlx.SelectContext(ctx, r.q, &rows,
		"SELECT "+projectColumns+" FROM projects WHERE user_id = ? ORDER BY modified_at DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying projects: %w", err)
	}

	projects := make([]*models.Project, 0, len(rows))
	for _, row := range rows {
		projects = append(projects, row.model())
	}
	return projects, nil
}

func (r *projectRepository) Get(ctx context.Context, id, userID string) (*models.Project, error) {
	var row projectRow
	err := sqlx.GetContext(ctx, r.q, &row,
		"SELECT "+projectColumns+" FROM projects WHERE id = ? AND user_id = ?",
		id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("getting project %s: %w", id, classify(err))
	}
	return row.model(), nil
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	id := newID()
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO projects (id, user_id, name, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?)`,
		id, project.UserID, project.Name,
		toMillis(project.CreatedAt), toMillis(project.ModifiedAt),
	)
	if err != nil {
		return fmt.Errorf("creating project: %w", classify(err))
	}
	project.ID = id

	r.logger.Debug().
		Str("project_id", id).
		Msg("inserted project")
	return nil
}

func (r *projectRepository) Touch(ctx context.Context, id, userID string, modifiedAt time.Time) error {
	result, err := r.q.ExecContext(ctx,
		"UPDATE projects SET modified_at = ? WHERE id = ? AND user_id = ?",
		toMillis(modifiedAt), id, userID,
	)
	if err != nil {
		return fmt.Errorf("touching project %s: %w", id, err)
	}
	return rowsAffected(result)
}

func (r *projectRepository) Delete(ctx context.Context, id, userID string) (*models.Project, error) {
	var row projectRow
	err := sqlx.GetContext(ctx, r.q, &row,
		"DELETE FROM projects WHERE id = ? AND user_id = ? RETURNING "+projectColumns,
		id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("deleting project %s: %w", id, classify(err))
	}

	r.logger.Debug().
		Str("project_id", row.ID).
		Msg("deleted project")
	return row.model(), nil
}
