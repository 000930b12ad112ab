package services

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-planner/internal/models"
	"github.com/adanyl0v/go-planner/internal/storage"
)

type noteServiceImpl struct {
	logger zerolog.Logger
	store  storage.Store
	opts   options
}

func NewNoteService(
	logger zerolog.Logger,
	store storage.Store,
	opts ...Option,
) NoteService {
	return &noteServiceImpl{
		logger: logger,
		store:  store,
		opts:   newOptions(opts),
	}
}

func (s *noteServiceImpl) ListNotes(ctx context.Context, userID string) ([]*models.Note, error) {
	notes, err := s.store.Notes().List(ctx, models.NoteFilter{UserID: userID})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select notes by user id")
		return nil, err
	}

	s.logger.Debug().
		Int("count", len(notes)).
		Str("user_id", userID).
		Msg("selected notes by user id")
	return notes, nil
}

func (s *noteServiceImpl) CreateNote(ctx context.Context, params CreateNoteParams) (*models.Note, error) {
	if !validText(params.Title, MaxNoteTitleLength) {
		return nil, ErrInvalidNoteTitle
	}

	now := s.opts.timestamp()
	note := &models.Note{
		UserID:       params.UserID,
		Title:        params.Title,
		Content:      "",
		CreatedAt:    now,
		LastModified: now,
	}

	err := s.store.Notes().Create(ctx, note)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", params.UserID).
			Msg("failed to insert note")
		return nil, err
	}

	s.logger.Info().
		Str("note_id", note.ID).
		Str("user_id", note.UserID).
		Msg("created note")
	return note, nil
}

func (s *noteServiceImpl) UpdateNote(ctx context.Context, params UpdateNoteParams) (*models.Note, error) {
	return updateNote(ctx, s.logger, s.store, s.opts, models.NoteKey{
		ID:     params.ID,
		UserID: params.UserID,
	}, params.Update)
}

func (s *noteServiceImpl) DeleteNote(ctx context.Context, params DeleteNoteParams) (*models.Note, error) {
	return deleteNote(ctx, s.logger, s.store, models.NoteKey{
		ID:     params.ID,
		UserID: params.UserID,
	})
}

// updateNote applies a partial update to the note matching key. Any applied
// field refreshes LastModified.
func updateNote(
	ctx context.Context,
	logger zerolog.Logger,
	store storage.Store,
	opts options,
	key models.NoteKey,
	update models.NoteUpdate,
) (*models.Note, error) {
	if update.Title != nil && !validText(*update.Title, MaxNoteTitleLength) {
		return nil, ErrInvalidNoteTitle
	}
	if update.Content != nil && utf8.RuneCountInString(*update.Content) > MaxNoteContentLength {
		return nil, ErrInvalidNoteContent
	}

	note, err := store.Notes().Get(ctx, key)
	if err != nil {
		return nil, noteLookupError(logger, err, key)
	}
	if update.IsEmpty() {
		return note, nil
	}

	note.Apply(update)
	note.LastModified = laterThan(opts.timestamp(), note.LastModified)

	err = store.Notes().Update(ctx, note)
	if err != nil {
		return nil, noteLookupError(logger, err, key)
	}

	logger.Info().
		Str("note_id", note.ID).
		Str("user_id", note.UserID).
		Msg("updated note")
	return note, nil
}

func deleteNote(ctx context.Context, logger zerolog.Logger, store storage.Store, key models.NoteKey) (*models.Note, error) {
	note, err := store.Notes().Delete(ctx, key)
	if err != nil {
		return nil, noteLookupError(logger, err, key)
	}

	logger.Info().
		Str("note_id", key.ID).
		Str("user_id", key.UserID).
		Msg("deleted note")
	return note, nil
}

func noteLookupError(logger zerolog.Logger, err error, key models.NoteKey) error {
	if errors.Is(err, storage.ErrNotFound) {
		logger.Error().
			Str("note_id", key.ID).
			Str("user_id", key.UserID).
			Msg("note not found")
		return ErrNoteNotFound
	}

	logger.Error().
		Err(err).
		Str("note_id", key.ID).
		Msg("failed to access note")
	return err
}
