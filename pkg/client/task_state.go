package client

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// TaskState mirrors the user's standalone tasks.
type TaskState struct {
	api    API
	logger zerolog.Logger

	mu      sync.RWMutex
	tasks   []Task
	loading bool

	listeners listeners
}

// OnChange registers fn to run after every change and returns a function
// that unregisters it.
func (s *TaskState) OnChange(fn func()) (cancel func()) {
	return s.listeners.add(fn)
}

func (s *TaskState) setLoading(loading bool) {
	s.mu.Lock()
	s.loading = loading
	s.mu.Unlock()
	s.listeners.notify()
}

// Fetch replaces the local tasks with the server's list.
func (s *TaskState) Fetch(ctx context.Context) error {
	s.setLoading(true)

	tasks, err := s.api.ListTasks(ctx, false)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to fetch tasks")
		s.setLoading(false)
		return err
	}

	s.mu.Lock()
	s.tasks = tasks
	s.loading = false
	s.mu.Unlock()
	s.listeners.notify()
	return nil
}

func (s *TaskState) Add(ctx context.Context, task NewTask) (*Task, error) {
	created, err := s.api.CreateTask(ctx, task)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to create task")
		return nil, err
	}

	s.mu.Lock()
	s.tasks = append(slices.Clip(s.tasks), *created)
	s.mu.Unlock()
	s.listeners.notify()
	return created, nil
}

func (s *TaskState) Update(ctx context.Context, id string, update TaskUpdate) (*Task, error) {
	updated, err := s.api.UpdateTask(ctx, id, update)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to update task")
		return nil, err
	}

	s.mu.Lock()
	if i := indexOf(s.tasks, func(t Task) bool { return t.ID == id }); i >= 0 {
		s.tasks = slices.Clone(s.tasks)
		s.tasks[i] = *updated
	}
	s.mu.Unlock()
	s.listeners.notify()
	return updated, nil
}

func (s *TaskState) Delete(ctx context.Context, id string) error {
	_, err := s.api.DeleteTask(ctx, id)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to delete task")
		return err
	}

	s.mu.Lock()
	if i := indexOf(s.tasks, func(t Task) bool { return t.ID == id }); i >= 0 {
		s.tasks = removeAt(s.tasks, i)
	}
	s.mu.Unlock()
	s.listeners.notify()
	return nil
}

// Tasks returns a snapshot of the local tasks.
func (s *TaskState) Tasks() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.tasks)
}

func (s *TaskState) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Today returns the tasks scheduled on the calendar day of now,
// in now's location.
func (s *TaskState) Today(now time.Time) []Task {
	year, month, day := now.Date()

	s.mu.RLock()
	defer s.mu.RUnlock()

	var today []Task
	for _, task := range s.tasks {
		y, m, d := task.ScheduledDate.In(now.Location()).Date()
		if y == year && m == month && d == day {
			today = append(today, task)
		}
	}
	return today
}
