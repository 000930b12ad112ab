package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-planner/internal/models"
	"github.com/adanyl0v/go-planner/internal/storage"
)

type projectRepository struct {
	logger zerolog.Logger
	q      querier
}

func scanProject(row pgx.Row) (*models.Project, error) {
	var project models.Project
	err := row.Scan(
		&project.ID,
		&project.UserID,
		&project.Name,
		&project.CreatedAt,
		&project.ModifiedAt,
	)
	if err != nil {
		return nil, err
	}
	project.CreatedAt = project.CreatedAt.UTC()
	project.ModifiedAt = project.ModifiedAt.UTC()
	return &project, nil
}

func (r *projectRepository) List(ctx context.Context, userID string) ([]*models.Project, error) {
	const selectProjectsByUserIDQuery = `
SELECT id::text,
       user_id::text,
       name,
       created_at,
       modified_at
FROM projects
WHERE user_id = $1
ORDER BY modified_at DESC
`
	rows, err := r.q.Query(ctx, selectProjectsByUserIDQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select projects: %w", classify(err))
	}
	defer rows.Close()

	projects := make([]*models.Project, 0)
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("failed to iterate over rows: %w", classify(err))
	}
	return projects, nil
}

func (r *projectRepository) Get(ctx context.Context, id, userID string) (*models.Project, error) {
	const selectProjectQuery = `
SELECT id::text,
       user_id::text,
       name,
       created_at,
       modified_at
FROM projects
WHERE id = $1
  AND user_id = $2
`
	project, err := scanProject(r.q.QueryRow(ctx, selectProjectQuery, id, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to select project: %w", classify(err))
	}
	return project, nil
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	const insertProjectQuery = `
INSERT INTO projects (user_id,
                      name,
                      created_at,
                      modified_at)
VALUES ($1, $2, $3, $4)
RETURNING id::text
`
	err := r.q.QueryRow(
		ctx,
		insertProjectQuery,
		project.UserID,
		project.Name,
		project.CreatedAt,
		project.ModifiedAt,
	).Scan(&project.ID)
	if err != nil {
		return fmt.Errorf("failed to insert project: %w", classify(err))
	}
	r.logger.Debug().
		Str("project_id", project.ID).
		Msg("inserted project")
	return nil
}

func (r *projectRepository) Touch(ctx context.Context, id, userID string, modifiedAt time.Time) error {
	const touchProjectQuery = `
UPDATE projects
SET modified_at = $1
WHERE id = $2
  AND user_id = $3
`
	tag, err := r.q.Exec(ctx, touchProjectQuery, modifiedAt, id, userID)
	if err != nil {
		return fmt.Errorf("failed to touch project: %w", classify(err))
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *projectRepository) Delete(ctx context.Context, id, userID string) (*models.Project, error) {
	const deleteProjectQuery = `
DELETE
FROM projects
WHERE id = $1
  AND user_id = $2
RETURNING id::text,
          user_id::text,
          name,
          created_at,
          modified_at
`
	project, err := scanProject(r.q.QueryRow(ctx, deleteProjectQuery, id, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to delete project: %w", classify(err))
	}
	r.logger.Debug().
		Str("project_id", project.ID).
		Msg("deleted project")
	return project, nil
}
