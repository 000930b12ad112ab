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

func newTaskService(t *testing.T, clock *fakeClock, opts ...services.Option) (services.TaskService, storage.Store) {
	t.Helper()

	store := newTestStore(t)
	opts = append([]services.Option{services.WithClock(clock.Now)}, opts...)
	return services.NewTaskService(zerolog.Nop(), store, opts...), store
}

func TestTaskService_CreateTaskDefaults(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock(time.Date(2025, time.May, 1, 8, 30, 0, 123456789, time.UTC))
	svc, store := newTaskService(t, clock)
	user := newTestUser(t, store, "alice")

	task, err := svc.CreateTask(ctx, services.CreateTaskParams{UserID: user.ID, Text: "water plants"})
	require.NoError(t, err)

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, user.ID, task.UserID)
	assert.False(t, task.Completed)
	assert.Nil(t, task.ProjectID)
	assert.False(t, task.IsProjectTask)
	assert.Equal(t, time.Date(2025, time.May, 1, 8, 30, 0, 123000000, time.UTC), task.CreatedAt)
	assert.Equal(t, task.CreatedAt, task.ScheduledDate)
}

func TestTaskService_CreateTaskValidation(t *testing.T) {
	clock := newFakeClock(time.Now())
	svc, store := newTaskService(t, clock)
	user := newTestUser(t, store, "alice")

	for _, text := range []string{"", "   ", "\t\n", strings.Repeat("a", services.MaxTaskTextLength+1)} {
		_, err := svc.CreateTask(context.Background(), services.CreateTaskParams{UserID: user.ID, Text: text})
		assert.ErrorIs(t, err, services.ErrInvalidTaskText)
	}
}

func TestTaskService_ListTasksExcludesProjectTasks(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock(time.Date(2025, time.May, 1, 12, 0, 0, 0, time.UTC))
	svc, store := newTaskService(t, clock)
	user := newTestUser(t, store, "alice")
	other := newTestUser(t, store, "bob")

	later, err := svc.CreateTask(ctx, services.CreateTaskParams{
		UserID:        user.ID,
		Text:          "later",
		ScheduledDate: ptr(time.Date(2025, time.May, 3, 9, 0, 0, 0, time.UTC)),
	})
	require.NoError(t, err)
	sooner, err := svc.CreateTask(ctx, services.CreateTaskParams{
		UserID:        user.ID,
		Text:          "sooner",
		ScheduledDate: ptr(time.Date(2025, time.May, 2, 9, 0, 0, 0, time.UTC)),
	})
	require.NoError(t, err)
	_, err = svc.CreateTask(ctx, services.CreateTaskParams{UserID: other.ID, Text: "foreign"})
	require.NoError(t, err)

	projectID := "p-1"
	require.NoError(t, store.Tasks().Create(ctx, &models.Task{
		UserID:        user.ID,
		Text:          "project task",
		ScheduledDate: clock.Now(),
		ProjectID:     &projectID,
		IsProjectTask: true,
		CreatedAt:     clock.Now(),
	}))

	tasks, err := svc.ListTasks(ctx, services.ListTasksParams{UserID: user.ID})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, sooner.ID, tasks[0].ID)
	assert.Equal(t, later.ID, tasks[1].ID)
}

func TestTaskService_ListTasksToday(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		location *time.Location
		now      time.Time
		want     []string
	}{
		{
			name:     "utc",
			location: time.UTC,
			now:      time.Date(2025, time.May, 1, 23, 0, 0, 0, time.UTC),
			want:     []string{"morning utc", "late utc"},
		},
		{
			name:     "fixed offset",
			location: time.FixedZone("UTC+3", 3*60*60),
			// 23:00 UTC on May 1st is already May 2nd at UTC+3.
			now:  time.Date(2025, time.May, 1, 23, 0, 0, 0, time.UTC),
			want: []string{"late utc", "next day"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := newFakeClock(tt.now)
			svc, store := newTaskService(t, clock, services.WithLocation(tt.location))
			user := newTestUser(t, store, "alice")

			scheduled := map[string]time.Time{
				"yesterday":   time.Date(2025, time.April, 30, 12, 0, 0, 0, time.UTC),
				"morning utc": time.Date(2025, time.May, 1, 8, 0, 0, 0, time.UTC),
				"late utc":    time.Date(2025, time.May, 1, 22, 0, 0, 0, time.UTC),
				"next day":    time.Date(2025, time.May, 2, 10, 0, 0, 0, time.UTC),
				"far":         time.Date(2025, time.May, 9, 10, 0, 0, 0, time.UTC),
			}
			for text, at := range scheduled {
				_, err := svc.CreateTask(ctx, services.CreateTaskParams{
					UserID:        user.ID,
					Text:          text,
					ScheduledDate: ptr(at),
				})
				require.NoError(t, err)
			}

			tasks, err := svc.ListTasks(ctx, services.ListTasksParams{UserID: user.ID, Today: true})
			require.NoError(t, err)

			got := make([]string, 0, len(tasks))
			for _, task := range tasks {
				got = append(got, task.Text)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTaskService_UpdateTask(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock(time.Now())
	svc, store := newTaskService(t, clock)
	user := newTestUser(t, store, "alice")
	bob := newTestUser(t, store, "bob")

	task, err := svc.CreateTask(ctx, services.CreateTaskParams{UserID: user.ID, Text: "draft"})
	require.NoError(t, err)

	updated, err := svc.UpdateTask(ctx, services.UpdateTaskParams{
		ID:     task.ID,
		UserID: user.ID,
		Update: models.TaskUpdate{Completed: ptr(true)},
	})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, "draft", updated.Text)
	assert.Equal(t, task.ScheduledDate, updated.ScheduledDate)

	unchanged, err := svc.UpdateTask(ctx, services.UpdateTaskParams{ID: task.ID, UserID: user.ID})
	require.NoError(t, err)
	assert.Equal(t, updated, unchanged)

	_, err = svc.UpdateTask(ctx, services.UpdateTaskParams{
		ID:     task.ID,
		UserID: user.ID,
		Update: models.TaskUpdate{Text: ptr(" ")},
	})
	assert.ErrorIs(t, err, services.ErrInvalidTaskText)

	_, err = svc.UpdateTask(ctx, services.UpdateTaskParams{
		ID:     task.ID,
		UserID: bob.ID,
		Update: models.TaskUpdate{Text: ptr("stolen")},
	})
	assert.ErrorIs(t, err, services.ErrTaskNotFound)

	got, err := store.Tasks().Get(ctx, models.TaskKey{ID: task.ID, UserID: user.ID})
	require.NoError(t, err)
	assert.Equal(t, "draft", got.Text)
	assert.True(t, got.Completed)
}

func TestTaskService_DeleteTask(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock(time.Now())
	svc, store := newTaskService(t, clock)
	user := newTestUser(t, store, "alice")
	bob := newTestUser(t, store, "bob")

	task, err := svc.CreateTask(ctx, services.CreateTaskParams{UserID: user.ID, Text: "bye"})
	require.NoError(t, err)

	_, err = svc.DeleteTask(ctx, services.DeleteTaskParams{ID: task.ID, UserID: bob.ID})
	assert.ErrorIs(t, err, services.ErrTaskNotFound)

	deleted, err := svc.DeleteTask(ctx, services.DeleteTaskParams{ID: task.ID, UserID: user.ID})
	require.NoError(t, err)
	assert.Equal(t, task.ID, deleted.ID)
	assert.Equal(t, "bye", deleted.Text)

	_, err = svc.DeleteTask(ctx, services.DeleteTaskParams{ID: task.ID, UserID: user.ID})
	assert.ErrorIs(t, err, services.ErrTaskNotFound)
}
