package client

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// API is the subset of [Client] the session state needs.
type API interface {
	ListTasks(ctx context.Context, today bool) ([]Task, error)
	CreateTask(ctx context.Context, task NewTask) (*Task, error)
	UpdateTask(ctx context.Context, id string, update TaskUpdate) (*Task, error)
	DeleteTask(ctx context.Context, id string) (*Task, error)

	ListNotes(ctx context.Context) ([]Note, error)
	CreateNote(ctx context.Context, note NewNote) (*Note, error)
	UpdateNote(ctx context.Context, id string, update NoteUpdate) (*Note, error)
	DeleteNote(ctx context.Context, id string) (*Note, error)

	ListProjects(ctx context.Context) ([]Project, error)
	CreateProject(ctx context.Context, name string) (*Project, error)
	DeleteProject(ctx context.Context, id string) (*Project, error)
	CreateProjectTask(ctx context.Context, projectID string, task NewTask) (*Task, error)
	UpdateProjectTask(ctx context.Context, projectID, taskID string, update TaskUpdate) (*Task, error)
	DeleteProjectTask(ctx context.Context, projectID, taskID string) (*Task, error)
	CreateProjectNote(ctx context.Context, projectID, title string) (*Note, error)
	UpdateProjectNote(ctx context.Context, projectID, noteID string, update NoteUpdate) (*Note, error)
	DeleteProjectNote(ctx context.Context, projectID, noteID string) (*Note, error)
}

// Session holds the state of one signed-in user. Sessions share nothing,
// so several can run side by side against different accounts.
type Session struct {
	Tasks    *TaskState
	Notes    *NoteState
	Projects *ProjectState
}

// NewSession wires the states together: project note changes made
// through Projects also show up in Notes, which lists project notes too.
func NewSession(api API, logger zerolog.Logger) *Session {
	notes := &NoteState{api: api, logger: logger.With().Str("state", "notes").Logger()}
	return &Session{
		Tasks: &TaskState{api: api, logger: logger.With().Str("state", "tasks").Logger()},
		Notes: notes,
		Projects: &ProjectState{
			api:    api,
			logger: logger.With().Str("state", "projects").Logger(),
			notes:  notes,
		},
	}
}

// listeners is a set of change callbacks. They are always invoked
// without any state lock held.
type listeners struct {
	mu     sync.Mutex
	nextID int
	fns    map[int]func()
}

func (l *listeners) add(fn func()) func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fns == nil {
		l.fns = make(map[int]func())
	}
	id := l.nextID
	l.nextID++
	l.fns[id] = fn

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.fns, id)
	}
}

func (l *listeners) notify() {
	l.mu.Lock()
	fns := make([]func(), 0, len(l.fns))
	for _, fn := range l.fns {
		fns = append(fns, fn)
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func indexOf[T any](items []T, match func(T) bool) int {
	for i, item := range items {
		if match(item) {
			return i
		}
	}
	return -1
}

func removeAt[T any](items []T, i int) []T {
	return append(items[:i:i], items[i+1:]...)
}
