package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/go-planner/internal/models"
	"github.com/adanyl0v/go-planner/internal/services"
	"github.com/adanyl0v/go-planner/internal/storage"
)

func newNoteService(t *testing.T, clock *fakeClock) (services.NoteService, storage.Store) {
	t.Helper()

	store := newTestStore(t)
	return services.NewNoteService(zerolog.Nop(), store, services.WithClock(clock.Now)), store
}

func TestNoteService_CreateAndUpdate(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock(time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC))
	svc, store := newNoteService(t, clock)
	user := newTestUser(t, store, "alice")

	note, err := svc.CreateNote(ctx, services.CreateNoteParams{UserID: user.ID, Title: "X"})
	require.NoError(t, err)
	assert.Equal(t, "", note.Content)
	assert.False(t, note.CreatedAt.IsZero())
	assert.Equal(t, note.CreatedAt, note.LastModified)

	clock.Advance(time.Minute)
	updated, err := svc.UpdateNote(ctx, services.UpdateNoteParams{
		ID:     note.ID,
		UserID: user.ID,
		Update: models.NoteUpdate{Content: ptr("hello")},
	})
	require.NoError(t, err)
	assert.Equal(t, "X", updated.Title)
	assert.Equal(t, "hello", updated.Content)
	assert.True(t, updated.LastModified.After(note.LastModified))
	assert.Equal(t, note.CreatedAt, updated.CreatedAt)
}

func TestNoteService_UpdateWithinSameMillisecondStillAdvances(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock(time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC))
	svc, store := newNoteService(t, clock)
	user := newTestUser(t, store, "alice")

	note, err := svc.CreateNote(ctx, services.CreateNoteParams{UserID: user.ID, Title: "fast"})
	require.NoError(t, err)

	updated, err := svc.UpdateNote(ctx, services.UpdateNoteParams{
		ID:     note.ID,
		UserID: user.ID,
		Update: models.NoteUpdate{Title: ptr("faster")},
	})
	require.NoError(t, err)
	assert.True(t, updated.LastModified.After(note.LastModified))
}

func TestNoteService_Validation(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock(time.Now())
	svc, store := newNoteService(t, clock)
	user := newTestUser(t, store, "alice")

	_, err := svc.CreateNote(ctx, services.CreateNoteParams{UserID: user.ID, Title: "  "})
	assert.ErrorIs(t, err, services.ErrInvalidNoteTitle)

	note, err := svc.CreateNote(ctx, services.CreateNoteParams{UserID: user.ID, Title: "ok"})
	require.NoError(t, err)

	_, err = svc.UpdateNote(ctx, services.UpdateNoteParams{
		ID:     note.ID,
		UserID: user.ID,
		Update: models.NoteUpdate{Title: ptr("")},
	})
	assert.ErrorIs(t, err, services.ErrInvalidNoteTitle)

	_, err = svc.CreateNote(ctx, services.CreateNoteParams{
		UserID: user.ID,
		Title:  strings.Repeat("a", services.MaxNoteTitleLength+1),
	})
	assert.ErrorIs(t, err, services.ErrInvalidNoteTitle)

	_, err = svc.UpdateNote(ctx, services.UpdateNoteParams{
		ID:     note.ID,
		UserID: user.ID,
		Update: models.NoteUpdate{Content: ptr(strings.Repeat("a", services.MaxNoteContentLength+1))},
	})
	assert.ErrorIs(t, err, services.ErrInvalidNoteContent)

	updated, err := svc.UpdateNote(ctx, services.UpdateNoteParams{
		ID:     note.ID,
		UserID: user.ID,
		Update: models.NoteUpdate{Title: ptr(strings.Repeat("é", services.MaxNoteTitleLength))},
	})
	require.NoError(t, err)
	assert.Equal(t, services.MaxNoteTitleLength, len([]rune(updated.Title)))
}

func TestNoteService_ListIncludesProjectNotes(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock(time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC))
	svc, store := newNoteService(t, clock)
	user := newTestUser(t, store, "alice")
	bob := newTestUser(t, store, "bob")

	first, err := svc.CreateNote(ctx, services.CreateNoteParams{UserID: user.ID, Title: "first"})
	require.NoError(t, err)

	clock.Advance(time.Minute)
	projectID := "p-1"
	projectNote := &models.Note{
		UserID:        user.ID,
		Title:         "in project",
		ProjectID:     &projectID,
		IsProjectNote: true,
		CreatedAt:     clock.Now(),
		LastModified:  clock.Now(),
	}
	require.NoError(t, store.Notes().Create(ctx, projectNote))

	_, err = svc.CreateNote(ctx, services.CreateNoteParams{UserID: bob.ID, Title: "foreign"})
	require.NoError(t, err)

	notes, err := svc.ListNotes(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, projectNote.ID, notes[0].ID)
	assert.Equal(t, first.ID, notes[1].ID)
}

func TestNoteService_OwnershipAndDelete(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock(time.Now())
	svc, store := newNoteService(t, clock)
	user := newTestUser(t, store, "alice")
	bob := newTestUser(t, store, "bob")

	note, err := svc.CreateNote(ctx, services.CreateNoteParams{UserID: user.ID, Title: "mine"})
	require.NoError(t, err)

	_, err = svc.UpdateNote(ctx, services.UpdateNoteParams{
		ID:     note.ID,
		UserID: bob.ID,
		Update: models.NoteUpdate{Content: ptr("x")},
	})
	assert.ErrorIs(t, err, services.ErrNoteNotFound)

	_, err = svc.DeleteNote(ctx, services.DeleteNoteParams{ID: note.ID, UserID: bob.ID})
	assert.ErrorIs(t, err, services.ErrNoteNotFound)

	deleted, err := svc.DeleteNote(ctx, services.DeleteNoteParams{ID: note.ID, UserID: user.ID})
	require.NoError(t, err)
	assert.Equal(t, "mine", deleted.Title)

	notes, err := svc.ListNotes(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, notes)
}
