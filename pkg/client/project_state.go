package client

import (
	"context"
	"slices"
	"sync"

	"github.com/rs/zerolog"
)

// ProjectState mirrors the user's projects together with their tasks
// and notes.
type ProjectState struct {
	api    API
	logger zerolog.Logger
	notes  *NoteState

	mu       sync.RWMutex
	projects []Project

	listeners listeners
}

func (s *ProjectState) OnChange(fn func()) (cancel func()) {
	return s.listeners.add(fn)
}

func (s *ProjectState) Fetch(ctx context.Context) error {
	projects, err := s.api.ListProjects(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to fetch projects")
		return err
	}

	s.mu.Lock()
	s.projects = projects
	s.mu.Unlock()
	s.listeners.notify()
	return nil
}

func (s *ProjectState) Create(ctx context.Context, name string) (*Project, error) {
	created, err := s.api.CreateProject(ctx, name)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to create project")
		return nil, err
	}

	s.mu.Lock()
	s.projects = append([]Project{*created}, s.projects...)
	s.mu.Unlock()
	s.listeners.notify()
	return created, nil
}

func (s *ProjectState) Delete(ctx context.Context, id string) error {
	_, err := s.api.DeleteProject(ctx, id)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("project_id", id).
			Msg("failed to delete project")
		return err
	}

	s.mu.Lock()
	if i := s.indexOf(id); i >= 0 {
		s.projects = removeAt(s.projects, i)
	}
	s.mu.Unlock()
	s.listeners.notify()

	if s.notes != nil {
		s.notes.removeProject(id)
	}
	return nil
}

func (s *ProjectState) AddTask(ctx context.Context, projectID string, task NewTask) (*Task, error) {
	created, err := s.api.CreateProjectTask(ctx, projectID, task)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("project_id", projectID).
			Msg("failed to create project task")
		return nil, err
	}

	s.modify(projectID, func(p *Project) {
		p.Tasks = append([]Task{*created}, p.Tasks...)
		if created.Created.After(p.Modified) {
			p.Modified = created.Created
		}
	})
	return created, nil
}

func (s *ProjectState) UpdateTask(ctx context.Context, projectID, taskID string, update TaskUpdate) (*Task, error) {
	updated, err := s.api.UpdateProjectTask(ctx, projectID, taskID, update)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("project_id", projectID).
			Str("task_id", taskID).
			Msg("failed to update project task")
		return nil, err
	}

	s.modify(projectID, func(p *Project) {
		if i := indexOf(p.Tasks, func(t Task) bool { return t.ID == taskID }); i >= 0 {
			p.Tasks = slices.Clone(p.Tasks)
			p.Tasks[i] = *updated
		}
	})
	return updated, nil
}

func (s *ProjectState) DeleteTask(ctx context.Context, projectID, taskID string) error {
	_, err := s.api.DeleteProjectTask(ctx, projectID, taskID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("project_id", projectID).
			Str("task_id", taskID).
			Msg("failed to delete project task")
		return err
	}

	s.modify(projectID, func(p *Project) {
		if i := indexOf(p.Tasks, func(t Task) bool { return t.ID == taskID }); i >= 0 {
			p.Tasks = removeAt(p.Tasks, i)
		}
	})
	return nil
}

func (s *ProjectState) AddNote(ctx context.Context, projectID, title string) (*Note, error) {
	created, err := s.api.CreateProjectNote(ctx, projectID, title)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("project_id", projectID).
			Msg("failed to create project note")
		return nil, err
	}

	s.modify(projectID, func(p *Project) {
		p.Notes = append([]Note{*created}, p.Notes...)
		if created.Created.After(p.Modified) {
			p.Modified = created.Created
		}
	})
	if s.notes != nil {
		s.notes.put(*created)
	}
	return created, nil
}

func (s *ProjectState) UpdateNote(ctx context.Context, projectID, noteID string, update NoteUpdate) (*Note, error) {
	updated, err := s.api.UpdateProjectNote(ctx, projectID, noteID, update)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("project_id", projectID).
			Str("note_id", noteID).
			Msg("failed to update project note")
		return nil, err
	}

	s.modify(projectID, func(p *Project) {
		if i := indexOf(p.Notes, func(n Note) bool { return n.ID == noteID }); i >= 0 {
			p.Notes = append([]Note{*updated}, removeAt(p.Notes, i)...)
		}
	})
	if s.notes != nil {
		s.notes.put(*updated)
	}
	return updated, nil
}

func (s *ProjectState) DeleteNote(ctx context.Context, projectID, noteID string) error {
	_, err := s.api.DeleteProjectNote(ctx, projectID, noteID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("project_id", projectID).
			Str("note_id", noteID).
			Msg("failed to delete project note")
		return err
	}

	s.modify(projectID, func(p *Project) {
		if i := indexOf(p.Notes, func(n Note) bool { return n.ID == noteID }); i >= 0 {
			p.Notes = removeAt(p.Notes, i)
		}
	})
	if s.notes != nil {
		s.notes.remove(noteID)
	}
	return nil
}

// Projects returns a snapshot. The task and note slices are copies too.
func (s *ProjectState) Projects() []Project {
	s.mu.RLock()
	defer s.mu.RUnlock()

	projects := make([]Project, len(s.projects))
	for i, p := range s.projects {
		p.Tasks = slices.Clone(p.Tasks)
		p.Notes = slices.Clone(p.Notes)
		projects[i] = p
	}
	return projects
}

func (s *ProjectState) indexOf(id string) int {
	return indexOf(s.projects, func(p Project) bool { return p.ID == id })
}

// modify applies fn to a copy of the project and notifies listeners.
// Projects missing locally are left alone.
func (s *ProjectState) modify(projectID string, fn func(p *Project)) {
	s.mu.Lock()
	if i := s.indexOf(projectID); i >= 0 {
		project := s.projects[i]
		fn(&project)
		s.projects = slices.Clone(s.projects)
		s.projects[i] = project
	}
	s.mu.Unlock()
	s.listeners.notify()
}
