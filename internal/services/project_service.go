package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-planner/internal/models"
	"github.com/adanyl0v/go-planner/internal/storage"
)

type projectServiceImpl struct {
	logger zerolog.Logger
	store  storage.Store
	opts   options
}

func NewProjectService(
	logger zerolog.Logger,
	store storage.Store,
	opts ...Option,
) ProjectService {
	return &projectServiceImpl{
		logger: logger,
		store:  store,
		opts:   newOptions(opts),
	}
}

// authorizeProject returns the project if it exists and is owned by userID.
// Every project-scoped operation goes through it first.
func (s *projectServiceImpl) authorizeProject(ctx context.Context, store storage.Store, projectID, userID string) (*models.Project, error) {
	project, err := store.Projects().Get(ctx, projectID, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().
				Str("project_id", projectID).
				Str("user_id", userID).
				Msg("project not found")
			return nil, ErrProjectNotFound
		}

		s.logger.Error().
			Err(err).
			Str("project_id", projectID).
			Msg("failed to select project")
		return nil, err
	}
	return project, nil
}

// ListProjects enriches projects with their tasks and notes using one query
// per collection.
func (s *projectServiceImpl) ListProjects(ctx context.Context, userID string) ([]*models.ProjectDetails, error) {
	projects, err := s.store.Projects().List(ctx, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select projects by user id")
		return nil, err
	}

	details := make([]*models.ProjectDetails, 0, len(projects))
	if len(projects) == 0 {
		return details, nil
	}

	tasks, err := s.store.Tasks().List(ctx, models.TaskFilter{
		UserID: userID,
		Scope:  models.ScopeProject,
		Order:  models.TaskOrderCreated,
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select project tasks")
		return nil, err
	}

	notes, err := s.store.Notes().List(ctx, models.NoteFilter{
		UserID: userID,
		Scope:  models.ScopeProject,
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select project notes")
		return nil, err
	}

	byID := make(map[string]*models.ProjectDetails, len(projects))
	for _, project := range projects {
		d := &models.ProjectDetails{
			Project: *project,
			Tasks:   make([]*models.Task, 0),
			Notes:   make([]*models.Note, 0),
		}
		byID[project.ID] = d
		details = append(details, d)
	}
	// Rows referencing a missing project are orphans and are skipped.
	for _, task := range tasks {
		if task.ProjectID == nil {
			continue
		}
		if d, ok := byID[*task.ProjectID]; ok {
			d.Tasks = append(d.Tasks, task)
		}
	}
	for _, note := range notes {
		if note.ProjectID == nil {
			continue
		}
		if d, ok := byID[*note.ProjectID]; ok {
			d.Notes = append(d.Notes, note)
		}
	}

	s.logger.Debug().
		Int("count", len(details)).
		Str("user_id", userID).
		Msg("selected projects by user id")
	return details, nil
}

func (s *projectServiceImpl) CreateProject(ctx context.Context, params CreateProjectParams) (*models.ProjectDetails, error) {
	if !validText(params.Name, MaxProjectNameLength) {
		return nil, ErrInvalidProjectName
	}

	now := s.opts.timestamp()
	project := &models.Project{
		UserID:     params.UserID,
		Name:       params.Name,
		CreatedAt:  now,
		ModifiedAt: now,
	}

	err := s.store.Projects().Create(ctx, project)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", params.UserID).
			Msg("failed to insert project")
		return nil, err
	}

	s.logger.Info().
		Str("project_id", project.ID).
		Str("user_id", project.UserID).
		Msg("created project")
	return &models.ProjectDetails{
		Project: *project,
		Tasks:   make([]*models.Task, 0),
		Notes:   make([]*models.Note, 0),
	}, nil
}

func (s *projectServiceImpl) DeleteProject(ctx context.Context, params DeleteProjectParams) (*models.Project, error) {
	var deleted *models.Project
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx storage.Store) error {
		_, err := s.authorizeProject(ctx, tx, params.ID, params.UserID)
		if err != nil {
			return err
		}

		deleted, err = tx.Projects().Delete(ctx, params.ID, params.UserID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return ErrProjectNotFound
			}
			s.logger.Error().
				Err(err).
				Str("project_id", params.ID).
				Msg("failed to delete project")
			return err
		}

		tasks, err := tx.Tasks().DeleteByProject(ctx, params.UserID, params.ID)
		if err != nil {
			s.logger.Error().
				Err(err).
				Str("project_id", params.ID).
				Msg("failed to delete project tasks")
			return err
		}

		notes, err := tx.Notes().DeleteByProject(ctx, params.UserID, params.ID)
		if err != nil {
			s.logger.Error().
				Err(err).
				Str("project_id", params.ID).
				Msg("failed to delete project notes")
			return err
		}

		s.logger.Debug().
			Str("project_id", params.ID).
			Int64("tasks", tasks).
			Int64("notes", notes).
			Msg("deleted project children")
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("project_id", params.ID).
		Str("user_id", params.UserID).
		Msg("deleted project")
	return deleted, nil
}

func (s *projectServiceImpl) CreateProjectTask(ctx context.Context, params CreateProjectTaskParams) (*models.Task, error) {
	if !validText(params.Text, MaxTaskTextLength) {
		return nil, ErrInvalidTaskText
	}

	now := s.opts.timestamp()
	task := &models.Task{
		UserID:        params.UserID,
		Text:          params.Text,
		Completed:     false,
		ScheduledDate: now,
		ProjectID:     &params.ProjectID,
		IsProjectTask: true,
		CreatedAt:     now,
	}
	if params.ScheduledDate != nil {
		task.ScheduledDate = normalizeTime(*params.ScheduledDate)
	}

	err := s.store.WithinTx(ctx, func(ctx context.Context, tx storage.Store) error {
		project, err := s.authorizeProject(ctx, tx, params.ProjectID, params.UserID)
		if err != nil {
			return err
		}
		task.ProjectID = &project.ID

		err = tx.Tasks().Create(ctx, task)
		if err != nil {
			s.logger.Error().
				Err(err).
				Str("project_id", project.ID).
				Msg("failed to insert project task")
			return err
		}
		return s.touch(ctx, tx, project, now)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("project_id", params.ProjectID).
		Msg("created project task")
	return task, nil
}

func (s *projectServiceImpl) UpdateProjectTask(ctx context.Context, params UpdateProjectTaskParams) (*models.Task, error) {
	_, err := s.authorizeProject(ctx, s.store, params.ProjectID, params.UserID)
	if err != nil {
		return nil, err
	}

	return updateTask(ctx, s.logger, s.store, models.TaskKey{
		ID:        params.TaskID,
		UserID:    params.UserID,
		ProjectID: params.ProjectID,
	}, params.Update)
}

func (s *projectServiceImpl) DeleteProjectTask(ctx context.Context, params DeleteProjectItemParams) (*models.Task, error) {
	_, err := s.authorizeProject(ctx, s.store, params.ProjectID, params.UserID)
	if err != nil {
		return nil, err
	}

	return deleteTask(ctx, s.logger, s.store, models.TaskKey{
		ID:        params.ItemID,
		UserID:    params.UserID,
		ProjectID: params.ProjectID,
	})
}

func (s *projectServiceImpl) CreateProjectNote(ctx context.Context, params CreateProjectNoteParams) (*models.Note, error) {
	if !validText(params.Title, MaxNoteTitleLength) {
		return nil, ErrInvalidNoteTitle
	}

	now := s.opts.timestamp()
	note := &models.Note{
		UserID:        params.UserID,
		Title:         params.Title,
		Content:       "",
		ProjectID:     &params.ProjectID,
		IsProjectNote: true,
		CreatedAt:     now,
		LastModified:  now,
	}

	err := s.store.WithinTx(ctx, func(ctx context.Context, tx storage.Store) error {
		project, err := s.authorizeProject(ctx, tx, params.ProjectID, params.UserID)
		if err != nil {
			return err
		}
		note.ProjectID = &project.ID

		err = tx.Notes().Create(ctx, note)
		if err != nil {
			s.logger.Error().
				Err(err).
				Str("project_id", project.ID).
				Msg("failed to insert project note")
			return err
		}
		return s.touch(ctx, tx, project, now)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("note_id", note.ID).
		Str("project_id", params.ProjectID).
		Msg("created project note")
	return note, nil
}

func (s *projectServiceImpl) UpdateProjectNote(ctx context.Context, params UpdateProjectNoteParams) (*models.Note, error) {
	_, err := s.authorizeProject(ctx, s.store, params.ProjectID, params.UserID)
	if err != nil {
		return nil, err
	}

	return updateNote(ctx, s.logger, s.store, s.opts, models.NoteKey{
		ID:        params.NoteID,
		UserID:    params.UserID,
		ProjectID: params.ProjectID,
	}, params.Update)
}

func (s *projectServiceImpl) DeleteProjectNote(ctx context.Context, params DeleteProjectItemParams) (*models.Note, error) {
	_, err := s.authorizeProject(ctx, s.store, params.ProjectID, params.UserID)
	if err != nil {
		return nil, err
	}

	return deleteNote(ctx, s.logger, s.store, models.NoteKey{
		ID:        params.ItemID,
		UserID:    params.UserID,
		ProjectID: params.ProjectID,
	})
}

func (s *projectServiceImpl) touch(ctx context.Context, tx storage.Store, project *models.Project, now time.Time) error {
	modified := laterThan(now, project.ModifiedAt)
	err := tx.Projects().Touch(ctx, project.ID, project.UserID, modified)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("project_id", project.ID).
			Msg("failed to touch project")
		return err
	}
	project.ModifiedAt = modified
	return nil
}
