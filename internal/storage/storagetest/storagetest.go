// Package storagetest is a conformance suite every storage.Store backend
// must pass.
package storagetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/go-planner/internal/models"
	"github.com/adanyl0v/go-planner/internal/storage"
)

// Suite runs the conformance tests against stores built by NewStore.
// Each subtest gets a fresh, empty store.
type Suite struct {
	NewStore func(t *testing.T) storage.Store
	// SkipRollback disables the rollback check for backends running
	// without server-side transactions.
	SkipRollback bool
}

var base = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

func (s Suite) Run(t *testing.T) {
	t.Run("Users", s.testUsers)
	t.Run("TaskOwnership", s.testTaskOwnership)
	t.Run("TaskListing", s.testTaskListing)
	t.Run("TaskUpdateAndDelete", s.testTaskUpdateAndDelete)
	t.Run("DistantDates", s.testDistantDates)
	t.Run("Notes", s.testNotes)
	t.Run("Projects", s.testProjects)
	t.Run("DeleteByProject", s.testDeleteByProject)
	t.Run("MalformedIDs", s.testMalformedIDs)
	t.Run("WithinTxCommit", s.testWithinTxCommit)
	if !s.SkipRollback {
		t.Run("WithinTxRollback", s.testWithinTxRollback)
	}
}

func createUser(t *testing.T, store storage.Store, googleID string) *models.User {
	t.Helper()

	user := &models.User{
		GoogleID:  googleID,
		Email:     googleID + "@example.com",
		Name:      "User " + googleID,
		CreatedAt: base,
		UpdatedAt: base,
	}
	require.NoError(t, store.Users().Create(context.Background(), user))
	require.NotEmpty(t, user.ID)
	return user
}

func createProject(t *testing.T, store storage.Store, userID, name string, modified time.Time) *models.Project {
	t.Helper()

	project := &models.Project{
		UserID:     userID,
		Name:       name,
		CreatedAt:  modified,
		ModifiedAt: modified,
	}
	require.NoError(t, store.Projects().Create(context.Background(), project))
	require.NotEmpty(t, project.ID)
	return project
}

func createTask(t *testing.T, store storage.Store, task *models.Task) *models.Task {
	t.Helper()

	if task.CreatedAt.IsZero() {
		task.CreatedAt = base
	}
	if task.ScheduledDate.IsZero() {
		task.ScheduledDate = base
	}
	require.NoError(t, store.Tasks().Create(context.Background(), task))
	require.NotEmpty(t, task.ID)
	return task
}

func createNote(t *testing.T, store storage.Store, note *models.Note) *models.Note {
	t.Helper()

	if note.CreatedAt.IsZero() {
		note.CreatedAt = base
	}
	if note.LastModified.IsZero() {
		note.LastModified = note.CreatedAt
	}
	require.NoError(t, store.Notes().Create(context.Background(), note))
	require.NotEmpty(t, note.ID)
	return note
}

func taskIDs(tasks []*models.Task) []string {
	ids := make([]string, 0, len(tasks))
	for _, task := range tasks {
		ids = append(ids, task.ID)
	}
	return ids
}

func noteIDs(notes []*models.Note) []string {
	ids := make([]string, 0, len(notes))
	for _, note := range notes {
		ids = append(ids, note.ID)
	}
	return ids
}

func (s Suite) testUsers(t *testing.T) {
	ctx := context.Background()
	store := s.NewStore(t)

	user := createUser(t, store, "google-1")

	got, err := store.Users().GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.GoogleID, got.GoogleID)
	assert.Equal(t, user.Email, got.Email)
	assert.True(t, base.Equal(got.CreatedAt))

	got, err = store.Users().GetByGoogleID(ctx, "google-1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = store.Users().GetByGoogleID(ctx, "google-unknown")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	dup := &models.User{GoogleID: "google-1", CreatedAt: base, UpdatedAt: base}
	err = store.Users().Create(ctx, dup)
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	user.Name = "Renamed"
	user.Picture = "https://example.com/p.png"
	user.UpdatedAt = base.Add(time.Hour)
	require.NoError(t, store.Users().UpdateProfile(ctx, user))

	got, err = store.Users().GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, "https://example.com/p.png", got.Picture)
	assert.True(t, base.Add(time.Hour).Equal(got.UpdatedAt))
}

func (s Suite) testTaskOwnership(t *testing.T) {
	ctx := context.Background()
	store := s.NewStore(t)

	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")

	task := createTask(t, store, &models.Task{UserID: alice.ID, Text: "buy milk"})

	got, err := store.Tasks().Get(ctx, models.TaskKey{ID: task.ID, UserID: alice.ID})
	require.NoError(t, err)
	assert.Equal(t, "buy milk", got.Text)
	assert.Nil(t, got.ProjectID)
	assert.False(t, got.IsProjectTask)

	_, err = store.Tasks().Get(ctx, models.TaskKey{ID: task.ID, UserID: bob.ID})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = store.Tasks().Delete(ctx, models.TaskKey{ID: task.ID, UserID: bob.ID})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	foreign := *got
	foreign.UserID = bob.ID
	foreign.Text = "hijacked"
	err = store.Tasks().Update(ctx, &foreign)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	got, err = store.Tasks().Get(ctx, models.TaskKey{ID: task.ID, UserID: alice.ID})
	require.NoError(t, err)
	assert.Equal(t, "buy milk", got.Text)

	bobTasks, err := store.Tasks().List(ctx, models.TaskFilter{UserID: bob.ID})
	require.NoError(t, err)
	assert.Empty(t, bobTasks)

	// A standalone task is not reachable through a project key.
	project := createProject(t, store, alice.ID, "Home", base)
	_, err = store.Tasks().Get(ctx, models.TaskKey{ID: task.ID, UserID: alice.ID, ProjectID: project.ID})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func (s Suite) testTaskListing(t *testing.T) {
	ctx := context.Background()
	store := s.NewStore(t)

	user := createUser(t, store, "lister")
	project := createProject(t, store, user.ID, "Garden", base)

	late := createTask(t, store, &models.Task{
		UserID:        user.ID,
		Text:          "late",
		ScheduledDate: base.Add(5 * time.Hour),
	})
	early := createTask(t, store, &models.Task{
		UserID:        user.ID,
		Text:          "early",
		ScheduledDate: base.Add(time.Hour),
	})
	done := createTask(t, store, &models.Task{
		UserID:        user.ID,
		Text:          "done",
		Completed:     true,
		ScheduledDate: base,
	})
	tomorrow := createTask(t, store, &models.Task{
		UserID:        user.ID,
		Text:          "tomorrow",
		ScheduledDate: base.Add(24 * time.Hour),
	})
	inProject := createTask(t, store, &models.Task{
		UserID:        user.ID,
		Text:          "weed",
		ProjectID:     &project.ID,
		IsProjectTask: true,
		ScheduledDate: base.Add(2 * time.Hour),
	})

	all, err := store.Tasks().List(ctx, models.TaskFilter{
		UserID: user.ID,
		Scope:  models.ScopeStandalone,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{early.ID, late.ID, tomorrow.ID, done.ID}, taskIDs(all))

	from := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)
	today, err := store.Tasks().List(ctx, models.TaskFilter{
		UserID:        user.ID,
		Scope:         models.ScopeStandalone,
		ScheduledFrom: &from,
		ScheduledTo:   &to,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{early.ID, late.ID, done.ID}, taskIDs(today))

	projectTasks, err := store.Tasks().List(ctx, models.TaskFilter{
		UserID:    user.ID,
		Scope:     models.ScopeProject,
		ProjectID: project.ID,
		Order:     models.TaskOrderCreated,
	})
	require.NoError(t, err)
	require.Len(t, projectTasks, 1)
	assert.Equal(t, inProject.ID, projectTasks[0].ID)
	require.NotNil(t, projectTasks[0].ProjectID)
	assert.Equal(t, project.ID, *projectTasks[0].ProjectID)
	assert.True(t, projectTasks[0].IsProjectTask)

	everything, err := store.Tasks().List(ctx, models.TaskFilter{UserID: user.ID, Scope: models.ScopeProject})
	require.NoError(t, err)
	assert.Len(t, everything, 1)
}

func (s Suite) testTaskUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	store := s.NewStore(t)

	user := createUser(t, store, "editor")
	task := createTask(t, store, &models.Task{UserID: user.ID, Text: "draft"})

	task.Text = "final"
	task.Completed = true
	task.ScheduledDate = base.Add(48 * time.Hour)
	require.NoError(t, store.Tasks().Update(ctx, task))

	got, err := store.Tasks().Get(ctx, models.TaskKey{ID: task.ID, UserID: user.ID})
	require.NoError(t, err)
	assert.Equal(t, "final", got.Text)
	assert.True(t, got.Completed)
	assert.True(t, base.Add(48*time.Hour).Equal(got.ScheduledDate))
	assert.True(t, base.Equal(got.CreatedAt))

	deleted, err := store.Tasks().Delete(ctx, models.TaskKey{ID: task.ID, UserID: user.ID})
	require.NoError(t, err)
	assert.Equal(t, task.ID, deleted.ID)
	assert.Equal(t, "final", deleted.Text)

	_, err = store.Tasks().Get(ctx, models.TaskKey{ID: task.ID, UserID: user.ID})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = store.Tasks().Delete(ctx, models.TaskKey{ID: task.ID, UserID: user.ID})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

// Dates far from the present must come back unchanged and still filter
// by day.
func (s Suite) testDistantDates(t *testing.T) {
	ctx := context.Background()
	store := s.NewStore(t)

	user := createUser(t, store, "time-traveller")

	for _, scheduled := range []time.Time{
		time.Date(2300, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1600, time.June, 15, 0, 0, 0, 0, time.UTC),
		time.Date(9999, time.December, 31, 23, 59, 59, 999_000_000, time.UTC),
	} {
		task := createTask(t, store, &models.Task{
			UserID:        user.ID,
			Text:          scheduled.Format(time.RFC3339),
			ScheduledDate: scheduled,
			CreatedAt:     scheduled,
		})

		got, err := store.Tasks().Get(ctx, models.TaskKey{ID: task.ID, UserID: user.ID})
		require.NoError(t, err)
		assert.True(t, scheduled.Equal(got.ScheduledDate), "scheduled %s, got %s", scheduled, got.ScheduledDate)
		assert.True(t, scheduled.Equal(got.CreatedAt), "created %s, got %s", scheduled, got.CreatedAt)

		from := time.Date(scheduled.Year(), scheduled.Month(), scheduled.Day(), 0, 0, 0, 0, time.UTC)
		to := from.Add(24 * time.Hour)
		day, err := store.Tasks().List(ctx, models.TaskFilter{
			UserID:        user.ID,
			Scope:         models.ScopeStandalone,
			ScheduledFrom: &from,
			ScheduledTo:   &to,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{task.ID}, taskIDs(day))
	}

	note := createNote(t, store, &models.Note{
		UserID:    user.ID,
		Title:     "old",
		CreatedAt: time.Date(1600, time.June, 15, 12, 0, 0, 0, time.UTC),
	})
	got, err := store.Notes().Get(ctx, models.NoteKey{ID: note.ID, UserID: user.ID})
	require.NoError(t, err)
	assert.True(t, note.LastModified.Equal(got.LastModified))
}

func (s Suite) testNotes(t *testing.T) {
	ctx := context.Background()
	store := s.NewStore(t)

	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")
	project := createProject(t, store, alice.ID, "Book", base)

	older := createNote(t, store, &models.Note{UserID: alice.ID, Title: "older"})
	newer := createNote(t, store, &models.Note{
		UserID:    alice.ID,
		Title:     "newer",
		CreatedAt: base.Add(time.Hour),
	})
	chapter := createNote(t, store, &models.Note{
		UserID:        alice.ID,
		Title:         "chapter",
		ProjectID:     &project.ID,
		IsProjectNote: true,
		CreatedAt:     base.Add(30 * time.Minute),
	})

	all, err := store.Notes().List(ctx, models.NoteFilter{UserID: alice.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{newer.ID, chapter.ID, older.ID}, noteIDs(all))

	standalone, err := store.Notes().List(ctx, models.NoteFilter{UserID: alice.ID, Scope: models.ScopeStandalone})
	require.NoError(t, err)
	assert.Equal(t, []string{newer.ID, older.ID}, noteIDs(standalone))

	inProject, err := store.Notes().List(ctx, models.NoteFilter{
		UserID:    alice.ID,
		Scope:     models.ScopeProject,
		ProjectID: project.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{chapter.ID}, noteIDs(inProject))

	_, err = store.Notes().Get(ctx, models.NoteKey{ID: older.ID, UserID: bob.ID})
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.Notes().Get(ctx, models.NoteKey{ID: older.ID, UserID: alice.ID, ProjectID: project.ID})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	got, err := store.Notes().Get(ctx, models.NoteKey{ID: chapter.ID, UserID: alice.ID, ProjectID: project.ID})
	require.NoError(t, err)
	assert.Equal(t, "chapter", got.Title)
	assert.Equal(t, "", got.Content)

	older.Content = "body"
	older.LastModified = base.Add(2 * time.Hour)
	require.NoError(t, store.Notes().Update(ctx, older))

	all, err = store.Notes().List(ctx, models.NoteFilter{UserID: alice.ID})
	require.NoError(t, err)
	require.NotEmpty(t, all)
	assert.Equal(t, older.ID, all[0].ID)
	assert.Equal(t, "body", all[0].Content)
	assert.True(t, base.Equal(all[0].CreatedAt))

	deleted, err := store.Notes().Delete(ctx, models.NoteKey{ID: older.ID, UserID: alice.ID})
	require.NoError(t, err)
	assert.Equal(t, "body", deleted.Content)

	_, err = store.Notes().Delete(ctx, models.NoteKey{ID: older.ID, UserID: alice.ID})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func (s Suite) testProjects(t *testing.T) {
	ctx := context.Background()
	store := s.NewStore(t)

	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")

	first := createProject(t, store, alice.ID, "first", base)
	second := createProject(t, store, alice.ID, "second", base.Add(time.Hour))
	createProject(t, store, bob.ID, "foreign", base.Add(2*time.Hour))

	projects, err := store.Projects().List(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, second.ID, projects[0].ID)
	assert.Equal(t, first.ID, projects[1].ID)

	require.NoError(t, store.Projects().Touch(ctx, first.ID, alice.ID, base.Add(3*time.Hour)))

	projects, err = store.Projects().List(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, first.ID, projects[0].ID)
	assert.True(t, base.Add(3*time.Hour).Equal(projects[0].ModifiedAt))
	assert.True(t, base.Equal(projects[0].CreatedAt))

	err = store.Projects().Touch(ctx, first.ID, bob.ID, base)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = store.Projects().Get(ctx, first.ID, bob.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	deleted, err := store.Projects().Delete(ctx, first.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", deleted.Name)

	_, err = store.Projects().Get(ctx, first.ID, alice.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func (s Suite) testDeleteByProject(t *testing.T) {
	ctx := context.Background()
	store := s.NewStore(t)

	user := createUser(t, store, "cascade")
	doomed := createProject(t, store, user.ID, "doomed", base)
	kept := createProject(t, store, user.ID, "kept", base)

	for i := 0; i < 3; i++ {
		createTask(t, store, &models.Task{UserID: user.ID, Text: "t", ProjectID: &doomed.ID, IsProjectTask: true})
	}
	createTask(t, store, &models.Task{UserID: user.ID, Text: "other", ProjectID: &kept.ID, IsProjectTask: true})
	createTask(t, store, &models.Task{UserID: user.ID, Text: "standalone"})
	createNote(t, store, &models.Note{UserID: user.ID, Title: "n", ProjectID: &doomed.ID, IsProjectNote: true})
	createNote(t, store, &models.Note{UserID: user.ID, Title: "standalone"})

	n, err := store.Tasks().DeleteByProject(ctx, user.ID, doomed.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	n, err = store.Notes().DeleteByProject(ctx, user.ID, doomed.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	tasks, err := store.Tasks().List(ctx, models.TaskFilter{UserID: user.ID})
	require.NoError(t, err)
	assert.Len(t, tasks, 2)

	notes, err := store.Notes().List(ctx, models.NoteFilter{UserID: user.ID})
	require.NoError(t, err)
	assert.Len(t, notes, 1)
}

func (s Suite) testMalformedIDs(t *testing.T) {
	ctx := context.Background()
	store := s.NewStore(t)

	user := createUser(t, store, "malformed")

	_, err := store.Tasks().Get(ctx, models.TaskKey{ID: "not-an-id", UserID: user.ID})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = store.Notes().Delete(ctx, models.NoteKey{ID: "not-an-id", UserID: user.ID})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = store.Projects().Get(ctx, "not-an-id", user.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = store.Users().GetByID(ctx, "not-an-id")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func (s Suite) testWithinTxCommit(t *testing.T) {
	ctx := context.Background()
	store := s.NewStore(t)

	user := createUser(t, store, "tx")
	project := createProject(t, store, user.ID, "tx", base)

	var taskID string
	err := store.WithinTx(ctx, func(ctx context.Context, tx storage.Store) error {
		task := &models.Task{
			UserID:        user.ID,
			Text:          "inside",
			ProjectID:     &project.ID,
			IsProjectTask: true,
			ScheduledDate: base,
			CreatedAt:     base,
		}
		if err := tx.Tasks().Create(ctx, task); err != nil {
			return err
		}
		taskID = task.ID

		// Nested calls join the outer transaction.
		return tx.WithinTx(ctx, func(ctx context.Context, tx storage.Store) error {
			return tx.Projects().Touch(ctx, project.ID, user.ID, base.Add(time.Hour))
		})
	})
	require.NoError(t, err)

	_, err = store.Tasks().Get(ctx, models.TaskKey{ID: taskID, UserID: user.ID, ProjectID: project.ID})
	require.NoError(t, err)

	got, err := store.Projects().Get(ctx, project.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, base.Add(time.Hour).Equal(got.ModifiedAt))
}

func (s Suite) testWithinTxRollback(t *testing.T) {
	ctx := context.Background()
	store := s.NewStore(t)

	user := createUser(t, store, "rollback")
	project := createProject(t, store, user.ID, "rollback", base)
	createTask(t, store, &models.Task{UserID: user.ID, Text: "t", ProjectID: &project.ID, IsProjectTask: true})

	errBoom := errors.New("boom")
	err := store.WithinTx(ctx, func(ctx context.Context, tx storage.Store) error {
		if _, err := tx.Tasks().DeleteByProject(ctx, user.ID, project.ID); err != nil {
			return err
		}
		if _, err := tx.Projects().Delete(ctx, project.ID, user.ID); err != nil {
			return err
		}
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	_, err = store.Projects().Get(ctx, project.ID, user.ID)
	require.NoError(t, err)

	tasks, err := store.Tasks().List(ctx, models.TaskFilter{UserID: user.ID, ProjectID: project.ID})
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}
