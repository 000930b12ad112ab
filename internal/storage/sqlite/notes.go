package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-planner/internal/models"
)

const noteColumns = "id, user_id, title, content, project_id, is_project_note, created_at, last_modified"

type noteRepository struct {
	logger zerolog.Logger
	q      sqlx.ExtContext
}

func noteKeyWhere(key models.NoteKey) *where {
	var w where
	w.add("id = ?", key.ID)
	w.add("user_id = ?", key.UserID)
	if key.ProjectID != "" {
		w.add("project_id = ? AND is_project_note = 1", key.ProjectID)
	}
	return &w
}

func (r *noteRepository) List(ctx context.Context, filter models.NoteFilter) ([]*models.Note, error) {
	var w where
	w.add("user_id = ?", filter.UserID)
	switch filter.Scope {
	case models.ScopeStandalone:
		w.add("is_project_note = 0")
	case models.ScopeProject:
		w.add("is_project_note = 1")
	}
	if filter.ProjectID != "" {
		w.add("project_id = ?", filter.ProjectID)
	}

	query := "SELECT " + noteColumns + " FROM notes WHERE " + w.String() + " ORDER BY last_modified DESC"

	var rows []noteRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, w.args...); err != nil {
		return nil, fmt.Errorf("querying notes: %w", err)
	}

	notes := make([]*models.Note, 0, len(rows))
	for _, row := range rows {
		notes = append(notes, row.model())
	}
	return notes, nil
}

func (r *noteRepository) Get(ctx context.Context, key models.NoteKey) (*models.Note, error) {
	w := noteKeyWhere(key)

	var row noteRow
	err := sqlx.GetContext(ctx, r.q, &row, "SELECT "+noteColumns+" FROM notes WHERE "+w.String(), w.args...)
	if err != nil {
		return nil, fmt.Errorf("getting note %s: %w", key.ID, classify(err))
	}
	return row.model(), nil
}

func (r *noteRepository) Create(ctx context.Context, note *models.Note) error {
	id := newID()
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO notes (
			id, user_id, title, content,
			project_id, is_project_note, created_at, last_modified
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, note.UserID, note.Title, note.Content,
		note.ProjectID, note.IsProjectNote, toMillis(note.CreatedAt), toMillis(note.LastModified),
	)
	if err != nil {
		return fmt.Errorf("creating note: %w", classify(err))
	}
	note.ID = id

	r.logger.Debug().
		Str("note_id", id).
		Msg("inserted note")
	return nil
}

func (r *noteRepository) Update(ctx context.Context, note *models.Note) error {
	result, err := r.q.ExecContext(ctx, `
		UPDATE notes SET title = ?, content = ?, last_modified = ?
		WHERE id = ? AND user_id = ?`,
		note.Title, note.Content, toMillis(note.LastModified),
		note.ID, note.UserID,
	)
	if err != nil {
		return fmt.Errorf("updating note %s: %w", note.ID, classify(err))
	}
	return rowsAffected(result)
}

func (r *noteRepository) Delete(ctx context.Context, key models.NoteKey) (*models.Note, error) {
	w := noteKeyWhere(key)

	var row noteRow
	err := sqlx.GetContext(ctx, r.q, &row, "DELETE FROM notes WHERE "+w.String()+" RETURNING "+noteColumns, w.args...)
	if err != nil {
		return nil, fmt.Errorf("deleting note %s: %w", key.ID, classify(err))
	}

	r.logger.Debug().
		Str("note_id", row.ID).
		Msg("deleted note")
	return row.model(), nil
}

func (r *noteRepository) DeleteByProject(ctx context.Context, userID, projectID string) (int64, error) {
	result, err := r.q.ExecContext(ctx,
		"DELETE FROM notes WHERE user_id = ? AND project_id = ? AND is_project_note = 1",
		userID, projectID,
	)
	if err != nil {
		return 0, fmt.Errorf("deleting notes of project %s: %w", projectID, err)
	}
	return result.RowsAffected()
}
