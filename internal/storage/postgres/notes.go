package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-planner/internal/models"
	"github.com/adanyl0v/go-planner/internal/storage"
)

const noteColumns = `id::text,
       user_id::text,
       title,
       content,
       project_id::text,
       is_project_note,
       created_at,
       last_modified`

type noteRepository struct {
	logger zerolog.Logger
	q      querier
}

func scanNote(row pgx.Row) (*models.Note, error) {
	var note models.Note
	err := row.Scan(
		&note.ID,
		&note.UserID,
		&note.Title,
		&note.Content,
		&note.ProjectID,
		&note.IsProjectNote,
		&note.CreatedAt,
		&note.LastModified,
	)
	if err != nil {
		return nil, err
	}
	note.CreatedAt = note.CreatedAt.UTC()
	note.LastModified = note.LastModified.UTC()
	return &note, nil
}

func noteKeyWhere(key models.NoteKey) *whereBuilder {
	var b whereBuilder
	b.add("id = $%d", key.ID)
	b.add("user_id = $%d", key.UserID)
	if key.ProjectID != "" {
		b.add("project_id = $%d", key.ProjectID)
		b.raw("is_project_note = TRUE")
	}
	return &b
}

func (r *noteRepository) List(ctx context.Context, filter models.NoteFilter) ([]*models.Note, error) {
	var b whereBuilder
	b.add("user_id = $%d", filter.UserID)
	switch filter.Scope {
	case models.ScopeStandalone:
		b.raw("is_project_note = FALSE")
	case models.ScopeProject:
		b.raw("is_project_note = TRUE")
	}
	if filter.ProjectID != "" {
		b.add("project_id = $%d", filter.ProjectID)
	}

	query := "SELECT " + noteColumns + "\nFROM notes\nWHERE " + b.String() + "\nORDER BY last_modified DESC"
	rows, err := r.q.Query(ctx, query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select notes: %w", classify(err))
	}
	defer rows.Close()

	notes := make([]*models.Note, 0)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("failed to iterate over rows: %w", classify(err))
	}
	return notes, nil
}

func (r *noteRepository) Get(ctx context.Context, key models.NoteKey) (*models.Note, error) {
	b := noteKeyWhere(key)
	query := "SELECT " + noteColumns + "\nFROM notes\nWHERE " + b.String()
	note, err := scanNote(r.q.QueryRow(ctx, query, b.args...))
	if err != nil {
		return nil, fmt.Errorf("failed to select note: %w", classify(err))
	}
	return note, nil
}

func (r *noteRepository) Create(ctx context.Context, note *models.Note) error {
	const insertNoteQuery = `
INSERT INTO notes (user_id,
                   title,
                   content,
                   project_id,
                   is_project_note,
                   created_at,
                   last_modified)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id::text
`
	err := r.q.QueryRow(
		ctx,
		insertNoteQuery,
		note.UserID,
		note.Title,
		note.Content,
		note.ProjectID,
		note.IsProjectNote,
		note.CreatedAt,
		note.LastModified,
	).Scan(&note.ID)
	if err != nil {
		return fmt.Errorf("failed to insert note: %w", classify(err))
	}
	r.logger.Debug().
		Str("note_id", note.ID).
		Msg("inserted note")
	return nil
}

func (r *noteRepository) Update(ctx context.Context, note *models.Note) error {
	const updateNoteQuery = `
UPDATE notes
SET title         = $1,
    content       = $2,
    last_modified = $3
WHERE id = $4
  AND user_id = $5
`
	tag, err := r.q.Exec(
		ctx,
		updateNoteQuery,
		note.Title,
		note.Content,
		note.LastModified,
		note.ID,
		note.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", classify(err))
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *noteRepository) Delete(ctx context.Context, key models.NoteKey) (*models.Note, error) {
	b := noteKeyWhere(key)
	query := "DELETE\nFROM notes\nWHERE " + b.String() + "\nRETURNING " + noteColumns
	note, err := scanNote(r.q.QueryRow(ctx, query, b.args...))
	if err != nil {
		return nil, fmt.Errorf("failed to delete note: %w", classify(err))
	}
	r.logger.Debug().
		Str("note_id", note.ID).
		Msg("deleted note")
	return note, nil
}

func (r *noteRepository) DeleteByProject(ctx context.Context, userID, projectID string) (int64, error) {
	const deleteNotesByProjectQuery = `
DELETE
FROM notes
WHERE user_id = $1
  AND project_id = $2
  AND is_project_note = TRUE
`
	tag, err := r.q.Exec(ctx, deleteNotesByProjectQuery, userID, projectID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete project notes: %w", classify(err))
	}
	return tag.RowsAffected(), nil
}
