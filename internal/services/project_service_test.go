package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/go-planner/internal/models"
	"github.com/adanyl0v/go-planner/internal/services"
	"github.com/adanyl0v/go-planner/internal/storage"
)

func newProjectService(t *testing.T, clock *fakeClock) (services.ProjectService, storage.Store) {
	t.Helper()

	store := newTestStore(t)
	return services.NewProjectService(zerolog.Nop(), store, services.WithClock(clock.Now)), store
}

func TestProjectService_CreateProject(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock(time.Now())
	svc, store := newProjectService(t, clock)
	user := newTestUser(t, store, "alice")

	_, err := svc.CreateProject(ctx, services.CreateProjectParams{UserID: user.ID, Name: " "})
	assert.ErrorIs(t, err, services.ErrInvalidProjectName)

	project, err := svc.CreateProject(ctx, services.CreateProjectParams{UserID: user.ID, Name: "Garden"})
	require.NoError(t, err)
	assert.NotEmpty(t, project.ID)
	assert.Equal(t, project.CreatedAt, project.ModifiedAt)
	assert.NotNil(t, project.Tasks)
	assert.Empty(t, project.Tasks)
	assert.NotNil(t, project.Notes)
	assert.Empty(t, project.Notes)
}

func TestProjectService_CreateProjectTaskTouchesProject(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock(time.Date(2025, time.July, 1, 9, 0, 0, 0, time.UTC))
	svc, store := newProjectService(t, clock)
	user := newTestUser(t, store, "alice")

	project, err := svc.CreateProject(ctx, services.CreateProjectParams{UserID: user.ID, Name: "Garden"})
	require.NoError(t, err)

	clock.Advance(time.Hour)
	task, err := svc.CreateProjectTask(ctx, services.CreateProjectTaskParams{
		ProjectID: project.ID,
		UserID:    user.ID,
		Text:      "weed",
	})
	require.NoError(t, err)
	assert.True(t, task.IsProjectTask)
	require.NotNil(t, task.ProjectID)
	assert.Equal(t, project.ID, *task.ProjectID)
	assert.False(t, task.Completed)

	stored, err := store.Projects().Get(ctx, project.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, clock.Now(), stored.ModifiedAt)

	clock.Advance(time.Hour)
	note, err := svc.CreateProjectNote(ctx, services.CreateProjectNoteParams{
		ProjectID: project.ID,
		UserID:    user.ID,
		Title:     "plan",
	})
	require.NoError(t, err)
	assert.True(t, note.IsProjectNote)
	assert.Equal(t, "", note.Content)

	stored, err = store.Projects().Get(ctx, project.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, clock.Now(), stored.ModifiedAt)
}

func TestProjectService_ForeignProjectIsNotFound(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock(time.Now())
	svc, store := newProjectService(t, clock)
	alice := newTestUser(t, store, "alice")
	bob := newTestUser(t, store, "bob")

	project, err := svc.CreateProject(ctx, services.CreateProjectParams{UserID: alice.ID, Name: "Private"})
	require.NoError(t, err)
	task, err := svc.CreateProjectTask(ctx, services.CreateProjectTaskParams{
		ProjectID: project.ID,
		UserID:    alice.ID,
		Text:      "secret",
	})
	require.NoError(t, err)

	_, err = svc.CreateProjectTask(ctx, services.CreateProjectTaskParams{
		ProjectID: project.ID,
		UserID:    bob.ID,
		Text:      "intrusion",
	})
	assert.ErrorIs(t, err, services.ErrProjectNotFound)

	_, err = svc.CreateProjectNote(ctx, services.CreateProjectNoteParams{
		ProjectID: project.ID,
		UserID:    bob.ID,
		Title:     "intrusion",
	})
	assert.ErrorIs(t, err, services.ErrProjectNotFound)

	_, err = svc.UpdateProjectTask(ctx, services.UpdateProjectTaskParams{
		ProjectID: project.ID,
		TaskID:    task.ID,
		UserID:    bob.ID,
		Update:    models.TaskUpdate{Completed: ptr(true)},
	})
	assert.ErrorIs(t, err, services.ErrProjectNotFound)

	_, err = svc.DeleteProject(ctx, services.DeleteProjectParams{ID: project.ID, UserID: bob.ID})
	assert.ErrorIs(t, err, services.ErrProjectNotFound)

	// Nothing was written on the foreign attempts.
	tasks, err := store.Tasks().List(ctx, models.TaskFilter{UserID: bob.ID})
	require.NoError(t, err)
	assert.Empty(t, tasks)

	_, err = store.Projects().Get(ctx, project.ID, alice.ID)
	require.NoError(t, err)
}

func TestProjectService_ItemMustBelongToProject(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock(time.Now())
	svc, store := newProjectService(t, clock)
	user := newTestUser(t, store, "alice")

	first, err := svc.CreateProject(ctx, services.CreateProjectParams{UserID: user.ID, Name: "first"})
	require.NoError(t, err)
	second, err := svc.CreateProject(ctx, services.CreateProjectParams{UserID: user.ID, Name: "second"})
	require.NoError(t, err)

	task, err := svc.CreateProjectTask(ctx, services.CreateProjectTaskParams{
		ProjectID: first.ID,
		UserID:    user.ID,
		Text:      "belongs to first",
	})
	require.NoError(t, err)
	note, err := svc.CreateProjectNote(ctx, services.CreateProjectNoteParams{
		ProjectID: first.ID,
		UserID:    user.ID,
		Title:     "belongs to first",
	})
	require.NoError(t, err)

	_, err = svc.UpdateProjectTask(ctx, services.UpdateProjectTaskParams{
		ProjectID: second.ID,
		TaskID:    task.ID,
		UserID:    user.ID,
		Update:    models.TaskUpdate{Completed: ptr(true)},
	})
	assert.ErrorIs(t, err, services.ErrTaskNotFound)

	_, err = svc.DeleteProjectNote(ctx, services.DeleteProjectItemParams{
		ProjectID: second.ID,
		ItemID:    note.ID,
		UserID:    user.ID,
	})
	assert.ErrorIs(t, err, services.ErrNoteNotFound)

	updated, err := svc.UpdateProjectTask(ctx, services.UpdateProjectTaskParams{
		ProjectID: first.ID,
		TaskID:    task.ID,
		UserID:    user.ID,
		Update:    models.TaskUpdate{Completed: ptr(true)},
	})
	require.NoError(t, err)
	assert.True(t, updated.Completed)

	clock.Advance(time.Second)
	updatedNote, err := svc.UpdateProjectNote(ctx, services.UpdateProjectNoteParams{
		ProjectID: first.ID,
		NoteID:    note.ID,
		UserID:    user.ID,
		Update:    models.NoteUpdate{Content: ptr("body")},
	})
	require.NoError(t, err)
	assert.Equal(t, "body", updatedNote.Content)
	assert.True(t, updatedNote.LastModified.After(note.LastModified))

	deleted, err := svc.DeleteProjectTask(ctx, services.DeleteProjectItemParams{
		ProjectID: first.ID,
		ItemID:    task.ID,
		UserID:    user.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, task.ID, deleted.ID)
}

func TestProjectService_ListProjectsEnriches(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock(time.Date(2025, time.July, 1, 9, 0, 0, 0, time.UTC))
	svc, store := newProjectService(t, clock)
	user := newTestUser(t, store, "alice")

	garden, err := svc.CreateProject(ctx, services.CreateProjectParams{UserID: user.ID, Name: "Garden"})
	require.NoError(t, err)
	clock.Advance(time.Minute)
	empty, err := svc.CreateProject(ctx, services.CreateProjectParams{UserID: user.ID, Name: "Empty"})
	require.NoError(t, err)

	clock.Advance(time.Minute)
	older, err := svc.CreateProjectTask(ctx, services.CreateProjectTaskParams{ProjectID: garden.ID, UserID: user.ID, Text: "older"})
	require.NoError(t, err)
	clock.Advance(time.Minute)
	newer, err := svc.CreateProjectTask(ctx, services.CreateProjectTaskParams{ProjectID: garden.ID, UserID: user.ID, Text: "newer"})
	require.NoError(t, err)
	clock.Advance(time.Minute)
	finished, err := svc.CreateProjectTask(ctx, services.CreateProjectTaskParams{ProjectID: garden.ID, UserID: user.ID, Text: "finished"})
	require.NoError(t, err)
	_, err = svc.UpdateProjectTask(ctx, services.UpdateProjectTaskParams{
		ProjectID: garden.ID,
		TaskID:    finished.ID,
		UserID:    user.ID,
		Update:    models.TaskUpdate{Completed: ptr(true)},
	})
	require.NoError(t, err)

	clock.Advance(time.Minute)
	noteA, err := svc.CreateProjectNote(ctx, services.CreateProjectNoteParams{ProjectID: garden.ID, UserID: user.ID, Title: "a"})
	require.NoError(t, err)
	clock.Advance(time.Minute)
	noteB, err := svc.CreateProjectNote(ctx, services.CreateProjectNoteParams{ProjectID: garden.ID, UserID: user.ID, Title: "b"})
	require.NoError(t, err)

	projects, err := svc.ListProjects(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, projects, 2)

	// Garden was touched by its children, so it is the most recently modified.
	assert.Equal(t, garden.ID, projects[0].ID)
	assert.Equal(t, empty.ID, projects[1].ID)

	var taskIDs []string
	for _, task := range projects[0].Tasks {
		taskIDs = append(taskIDs, task.ID)
	}
	assert.Equal(t, []string{newer.ID, older.ID, finished.ID}, taskIDs)

	require.Len(t, projects[0].Notes, 2)
	assert.Equal(t, noteB.ID, projects[0].Notes[0].ID)
	assert.Equal(t, noteA.ID, projects[0].Notes[1].ID)

	assert.NotNil(t, projects[1].Tasks)
	assert.Empty(t, projects[1].Tasks)
	assert.Empty(t, projects[1].Notes)
}

func TestProjectService_DeleteProjectCascades(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock(time.Now())
	svc, store := newProjectService(t, clock)
	user := newTestUser(t, store, "alice")

	doomed, err := svc.CreateProject(ctx, services.CreateProjectParams{UserID: user.ID, Name: "doomed"})
	require.NoError(t, err)
	kept, err := svc.CreateProject(ctx, services.CreateProjectParams{UserID: user.ID, Name: "kept"})
	require.NoError(t, err)

	for _, p := range []*models.ProjectDetails{doomed, kept} {
		_, err = svc.CreateProjectTask(ctx, services.CreateProjectTaskParams{ProjectID: p.ID, UserID: user.ID, Text: "t"})
		require.NoError(t, err)
		_, err = svc.CreateProjectNote(ctx, services.CreateProjectNoteParams{ProjectID: p.ID, UserID: user.ID, Title: "n"})
		require.NoError(t, err)
	}

	deleted, err := svc.DeleteProject(ctx, services.DeleteProjectParams{ID: doomed.ID, UserID: user.ID})
	require.NoError(t, err)
	assert.Equal(t, "doomed", deleted.Name)

	orphanTasks, err := store.Tasks().List(ctx, models.TaskFilter{UserID: user.ID, ProjectID: doomed.ID})
	require.NoError(t, err)
	assert.Empty(t, orphanTasks)

	orphanNotes, err := store.Notes().List(ctx, models.NoteFilter{UserID: user.ID, ProjectID: doomed.ID})
	require.NoError(t, err)
	assert.Empty(t, orphanNotes)

	projects, err := svc.ListProjects(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, kept.ID, projects[0].ID)
	assert.Len(t, projects[0].Tasks, 1)
	assert.Len(t, projects[0].Notes, 1)

	_, err = svc.DeleteProject(ctx, services.DeleteProjectParams{ID: doomed.ID, UserID: user.ID})
	assert.ErrorIs(t, err, services.ErrProjectNotFound)
}
