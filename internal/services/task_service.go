package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-planner/internal/models"
	"github.com/adanyl0v/go-planner/internal/storage"
)

type taskServiceImpl struct {
	logger zerolog.Logger
	store  storage.Store
	opts   options
}

func NewTaskService(
	logger zerolog.Logger,
	store storage.Store,
	opts ...Option,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		store:  store,
		opts:   newOptions(opts),
	}
}

func (s *taskServiceImpl) ListTasks(ctx context.Context, params ListTasksParams) ([]*models.Task, error) {
	filter := models.TaskFilter{
		UserID: params.UserID,
		Scope:  models.ScopeStandalone,
		Order:  models.TaskOrderSchedule,
	}
	if params.Today {
		from, to := dayBounds(s.opts.now(), s.opts.location)
		filter.ScheduledFrom = &from
		filter.ScheduledTo = &to
	}

	tasks, err := s.store.Tasks().List(ctx, filter)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", params.UserID).
			Msg("failed to select tasks by user id")
		return nil, err
	}

	s.logger.Debug().
		Int("count", len(tasks)).
		Str("user_id", params.UserID).
		Bool("today", params.Today).
		Msg("selected tasks by user id")
	return tasks, nil
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	if !validText(params.Text, MaxTaskTextLength) {
		return nil, ErrInvalidTaskText
	}

	now := s.opts.timestamp()
	task := &models.Task{
		UserID:        params.UserID,
		Text:          params.Text,
		Completed:     false,
		ScheduledDate: now,
		CreatedAt:     now,
	}
	if params.ScheduledDate != nil {
		task.ScheduledDate = normalizeTime(*params.ScheduledDate)
	}

	err := s.store.Tasks().Create(ctx, task)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", params.UserID).
			Msg("failed to insert task")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", task.UserID).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error) {
	return updateTask(ctx, s.logger, s.store, models.TaskKey{
		ID:     params.ID,
		UserID: params.UserID,
	}, params.Update)
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, params DeleteTaskParams) (*models.Task, error) {
	return deleteTask(ctx, s.logger, s.store, models.TaskKey{
		ID:     params.ID,
		UserID: params.UserID,
	})
}

// updateTask applies a partial update to the task matching key.
// An empty update returns the task unchanged.
func updateTask(
	ctx context.Context,
	logger zerolog.Logger,
	store storage.Store,
	key models.TaskKey,
	update models.TaskUpdate,
) (*models.Task, error) {
	if update.Text != nil && !validText(*update.Text, MaxTaskTextLength) {
		return nil, ErrInvalidTaskText
	}

	task, err := store.Tasks().Get(ctx, key)
	if err != nil {
		return nil, taskLookupError(logger, err, key)
	}
	if update.IsEmpty() {
		return task, nil
	}

	if update.ScheduledDate != nil {
		scheduled := normalizeTime(*update.ScheduledDate)
		update.ScheduledDate = &scheduled
	}
	task.Apply(update)

	err = store.Tasks().Update(ctx, task)
	if err != nil {
		return nil, taskLookupError(logger, err, key)
	}

	logger.Info().
		Str("task_id", task.ID).
		Str("user_id", task.UserID).
		Msg("updated task")
	return task, nil
}

func deleteTask(ctx context.Context, logger zerolog.Logger, store storage.Store, key models.TaskKey) (*models.Task, error) {
	task, err := store.Tasks().Delete(ctx, key)
	if err != nil {
		return nil, taskLookupError(logger, err, key)
	}

	logger.Info().
		Str("task_id", key.ID).
		Str("user_id", key.UserID).
		Msg("deleted task")
	return task, nil
}

func taskLookupError(logger zerolog.Logger, err error, key models.TaskKey) error {
	if errors.Is(err, storage.ErrNotFound) {
		logger.Error().
			Str("task_id", key.ID).
			Str("user_id", key.UserID).
			Msg("task not found")
		return ErrTaskNotFound
	}

	logger.Error().
		Err(err).
		Str("task_id", key.ID).
		Msg("failed to access task")
	return err
}
