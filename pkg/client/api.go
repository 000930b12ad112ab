package client

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *Client) Profile(ctx context.Context) (*User, error) {
	var user User
	err := c.do(ctx, http.MethodGet, "/api/user/profile", nil, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListTasks returns standalone tasks. With today set, only those scheduled
// for the server's current calendar day.
func (c *Client) ListTasks(ctx context.Context, today bool) ([]Task, error) {
	path := "/api/tasks"
	if today {
		path += "?today=true"
	}

	var tasks []Task
	err := c.do(ctx, http.MethodGet, path, nil, &tasks)
	return tasks, err
}

func (c *Client) CreateTask(ctx context.Context, task NewTask) (*Task, error) {
	return c.sendTask(ctx, http.MethodPost, "/api/tasks", task)
}

func (c *Client) UpdateTask(ctx context.Context, id string, update TaskUpdate) (*Task, error) {
	return c.sendTask(ctx, http.MethodPatch, "/api/tasks/"+url.PathEscape(id), update)
}

func (c *Client) DeleteTask(ctx context.Context, id string) (*Task, error) {
	return c.sendTask(ctx, http.MethodDelete, "/api/tasks/"+url.PathEscape(id), nil)
}

func (c *Client) ListNotes(ctx context.Context) ([]Note, error) {
	var notes []Note
	err := c.do(ctx, http.MethodGet, "/api/notes", nil, &notes)
	return notes, err
}

func (c *Client) CreateNote(ctx context.Context, note NewNote) (*Note, error) {
	return c.sendNote(ctx, http.MethodPost, "/api/notes", note)
}

func (c *Client) UpdateNote(ctx context.Context, id string, update NoteUpdate) (*Note, error) {
	return c.sendNote(ctx, http.MethodPatch, "/api/notes/"+url.PathEscape(id), update)
}

func (c *Client) DeleteNote(ctx context.Context, id string) (*Note, error) {
	return c.sendNote(ctx, http.MethodDelete, "/api/notes/"+url.PathEscape(id), nil)
}

func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	var projects []Project
	err := c.do(ctx, http.MethodGet, "/api/projects", nil, &projects)
	return projects, err
}

func (c *Client) CreateProject(ctx context.Context, name string) (*Project, error) {
	return c.sendProject(ctx, http.MethodPost, "/api/projects", map[string]string{"name": name})
}

// DeleteProject removes the project with its tasks and notes. The returned
// project has no tasks or notes attached.
func (c *Client) DeleteProject(ctx context.Context, id string) (*Project, error) {
	return c.sendProject(ctx, http.MethodDelete, projectPath(id), nil)
}

func (c *Client) CreateProjectTask(ctx context.Context, projectID string, task NewTask) (*Task, error) {
	return c.sendTask(ctx, http.MethodPost, projectPath(projectID)+"/tasks", task)
}

func (c *Client) UpdateProjectTask(ctx context.Context, projectID, taskID string, update TaskUpdate) (*Task, error) {
	return c.sendTask(ctx, http.MethodPatch, projectPath(projectID)+"/tasks/"+url.PathEscape(taskID), update)
}

func (c *Client) DeleteProjectTask(ctx context.Context, projectID, taskID string) (*Task, error) {
	return c.sendTask(ctx, http.MethodDelete, projectPath(projectID)+"/tasks/"+url.PathEscape(taskID), nil)
}

func (c *Client) CreateProjectNote(ctx context.Context, projectID, title string) (*Note, error) {
	return c.sendNote(ctx, http.MethodPost, projectPath(projectID)+"/notes", NewNote{Title: title})
}

func (c *Client) UpdateProjectNote(ctx context.Context, projectID, noteID string, update NoteUpdate) (*Note, error) {
	return c.sendNote(ctx, http.MethodPatch, projectPath(projectID)+"/notes/"+url.PathEscape(noteID), update)
}

func (c *Client) DeleteProjectNote(ctx context.Context, projectID, noteID string) (*Note, error) {
	return c.sendNote(ctx, http.MethodDelete, projectPath(projectID)+"/notes/"+url.PathEscape(noteID), nil)
}

func projectPath(id string) string {
	return "/api/projects/" + url.PathEscape(id)
}

func (c *Client) sendTask(ctx context.Context, method, path string, body any) (*Task, error) {
	var task Task
	err := c.do(ctx, method, path, body, &task)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) sendNote(ctx context.Context, method, path string, body any) (*Note, error) {
	var note Note
	err := c.do(ctx, method, path, body, &note)
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (c *Client) sendProject(ctx context.Context, method, path string, body any) (*Project, error) {
	var project Project
	err := c.do(ctx, method, path, body, &project)
	if err != nil {
		return nil, err
	}
	return &project, nil
}
