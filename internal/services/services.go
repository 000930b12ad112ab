package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"

	"github.com/adanyl0v/go-planner/internal/models"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrNoteNotFound       = errors.New("note not found")
	ErrProjectNotFound    = errors.New("project not found")
	ErrInvalidTaskText    = errors.New("task text must be 1 to 1000 characters")
	ErrInvalidNoteTitle   = errors.New("note title must be 1 to 255 characters")
	ErrInvalidNoteContent = errors.New("note content must be at most 100000 characters")
	ErrInvalidProjectName = errors.New("project name must be 1 to 255 characters")
	ErrIdentityExchange   = errors.New("identity exchange failed")
	ErrInvalidToken       = errors.New("invalid token")
)

// Length limits in characters. The HTTP layer declares the same bounds
// as binding tags.
const (
	MaxTaskTextLength    = 1000
	MaxNoteTitleLength   = 255
	MaxNoteContentLength = 100000
	MaxProjectNameLength = 255
)

// validText reports whether s is not blank and fits in limit characters.
func validText(s string, limit int) bool {
	return strings.TrimSpace(s) != "" && utf8.RuneCountInString(s) <= limit
}

// IdentityProvider delegates authentication to an external OAuth provider.
type IdentityProvider interface {
	// AuthCodeURL returns the consent page URL carrying the given state.
	AuthCodeURL(state string) string
	// Exchange trades an authorization code for the user's profile.
	Exchange(ctx context.Context, code string) (*models.Profile, error)
}

type AuthService interface {
	AuthCodeURL(state string) string

	// Authenticate exchanges the authorization code for a profile,
	// resolves the local user and issues an access token.
	//
	// It returns ErrIdentityExchange if the provider rejects the code.
	Authenticate(ctx context.Context, code string) (*LoginResult, error)

	// ResolveUser finds the user by the provider subject id or creates
	// one on first login. Changed profile data is written back.
	ResolveUser(ctx context.Context, profile models.Profile) (*models.User, error)

	IssueAccessToken(user *models.User) (string, time.Time, error)

	// ParseAccessToken verifies the token and returns its claims or
	// ErrInvalidToken wrapping the reason.
	ParseAccessToken(token string) (*AccessClaims, error)

	// GetUserByID returns ErrUserNotFound if no such user exists.
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
}

// TaskService manages standalone tasks.
type TaskService interface {
	// ListTasks returns the user's standalone tasks, incomplete first,
	// then by scheduled date.
	ListTasks(ctx context.Context, params ListTasksParams) ([]*models.Task, error)
	CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error)
	UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error)
	DeleteTask(ctx context.Context, params DeleteTaskParams) (*models.Task, error)
}

type NoteService interface {
	// ListNotes returns every note of the user, project notes included,
	// most recently modified first.
	ListNotes(ctx context.Context, userID string) ([]*models.Note, error)
	CreateNote(ctx context.Context, params CreateNoteParams) (*models.Note, error)
	UpdateNote(ctx context.Context, params UpdateNoteParams) (*models.Note, error)
	DeleteNote(ctx context.Context, params DeleteNoteParams) (*models.Note, error)
}

// ProjectService manages projects and the tasks and notes scoped to them.
//
// Every project-scoped operation returns ErrProjectNotFound if the project
// does not exist or belongs to another user.
type ProjectService interface {
	ListProjects(ctx context.Context, userID string) ([]*models.ProjectDetails, error)
	CreateProject(ctx context.Context, params CreateProjectParams) (*models.ProjectDetails, error)
	// DeleteProject removes the project together with its tasks and notes.
	DeleteProject(ctx context.Context, params DeleteProjectParams) (*models.Project, error)

	CreateProjectTask(ctx context.Context, params CreateProjectTaskParams) (*models.Task, error)
	UpdateProjectTask(ctx context.Context, params UpdateProjectTaskParams) (*models.Task, error)
	DeleteProjectTask(ctx context.Context, params DeleteProjectItemParams) (*models.Task, error)

	CreateProjectNote(ctx context.Context, params CreateProjectNoteParams) (*models.Note, error)
	UpdateProjectNote(ctx context.Context, params UpdateProjectNoteParams) (*models.Note, error)
	DeleteProjectNote(ctx context.Context, params DeleteProjectItemParams) (*models.Note, error)
}

type AccessClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

type LoginResult struct {
	User                 *models.User
	AccessToken          string
	AccessTokenExpiresAt time.Time
}

type ListTasksParams struct {
	UserID string
	// Today restricts the listing to the current calendar day.
	Today bool
}

type CreateTaskParams struct {
	UserID string
	Text   string
	// ScheduledDate defaults to the creation time.
	ScheduledDate *time.Time
}

type UpdateTaskParams struct {
	ID     string
	UserID string
	Update models.TaskUpdate
}

type DeleteTaskParams struct {
	ID     string
	UserID string
}

// CreateNoteParams has no content: new notes always start empty.
type CreateNoteParams struct {
	UserID string
	Title  string
}

type UpdateNoteParams struct {
	ID     string
	UserID string
	Update models.NoteUpdate
}

type DeleteNoteParams struct {
	ID     string
	UserID string
}

type CreateProjectParams struct {
	UserID string
	Name   string
}

type DeleteProjectParams struct {
	ID     string
	UserID string
}

type CreateProjectTaskParams struct {
	ProjectID     string
	UserID        string
	Text          string
	ScheduledDate *time.Time
}

type UpdateProjectTaskParams struct {
	ProjectID string
	TaskID    string
	UserID    string
	Update    models.TaskUpdate
}

type CreateProjectNoteParams struct {
	ProjectID string
	UserID    string
	Title     string
}

type UpdateProjectNoteParams struct {
	ProjectID string
	NoteID    string
	UserID    string
	Update    models.NoteUpdate
}

type DeleteProjectItemParams struct {
	ProjectID string
	ItemID    string
	UserID    string
}
