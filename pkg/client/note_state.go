package client

import (
	"context"
	"slices"
	"sync"

	"github.com/rs/zerolog"
)

// NoteState mirrors the user's notes, most recently modified first.
type NoteState struct {
	api    API
	logger zerolog.Logger

	mu    sync.RWMutex
	notes []Note

	listeners listeners
}

func (s *NoteState) OnChange(fn func()) (cancel func()) {
	return s.listeners.add(fn)
}

func (s *NoteState) Fetch(ctx context.Context) error {
	notes, err := s.api.ListNotes(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to fetch notes")
		return err
	}

	s.mu.Lock()
	s.notes = notes
	s.mu.Unlock()
	s.listeners.notify()
	return nil
}

func (s *NoteState) Add(ctx context.Context, note NewNote) (*Note, error) {
	created, err := s.api.CreateNote(ctx, note)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to create note")
		return nil, err
	}

	s.mu.Lock()
	s.notes = append([]Note{*created}, s.notes...)
	s.mu.Unlock()
	s.listeners.notify()
	return created, nil
}

// Update applies the change and moves the note to the front,
// since its last modification is now the newest.
func (s *NoteState) Update(ctx context.Context, id string, update NoteUpdate) (*Note, error) {
	updated, err := s.api.UpdateNote(ctx, id, update)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("note_id", id).
			Msg("failed to update note")
		return nil, err
	}

	s.mu.Lock()
	if i := indexOf(s.notes, func(n Note) bool { return n.ID == id }); i >= 0 {
		s.notes = append([]Note{*updated}, removeAt(s.notes, i)...)
	}
	s.mu.Unlock()
	s.listeners.notify()
	return updated, nil
}

func (s *NoteState) Delete(ctx context.Context, id string) error {
	_, err := s.api.DeleteNote(ctx, id)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("note_id", id).
			Msg("failed to delete note")
		return err
	}

	s.mu.Lock()
	if i := indexOf(s.notes, func(n Note) bool { return n.ID == id }); i >= 0 {
		s.notes = removeAt(s.notes, i)
	}
	s.mu.Unlock()
	s.listeners.notify()
	return nil
}

func (s *NoteState) Notes() []Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.notes)
}

// put stores note at the front, replacing any older copy.
func (s *NoteState) put(note Note) {
	s.mu.Lock()
	notes := s.notes
	if i := indexOf(notes, func(n Note) bool { return n.ID == note.ID }); i >= 0 {
		notes = removeAt(notes, i)
	}
	s.notes = append([]Note{note}, notes...)
	s.mu.Unlock()
	s.listeners.notify()
}

func (s *NoteState) remove(id string) {
	s.removeWhere(func(n Note) bool { return n.ID == id })
}

// removeProject drops the notes of a deleted project.
func (s *NoteState) removeProject(projectID string) {
	s.removeWhere(func(n Note) bool { return n.ProjectID != nil && *n.ProjectID == projectID })
}

func (s *NoteState) removeWhere(match func(Note) bool) {
	s.mu.Lock()
	s.notes = slices.DeleteFunc(slices.Clone(s.notes), match)
	s.mu.Unlock()
	s.listeners.notify()
}
