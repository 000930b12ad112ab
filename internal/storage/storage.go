// Package storage defines the entity store used by the services.
//
// The store keeps users, tasks, notes and projects in independent collections
// and enforces no references between them. Ownership is expressed by the keys
// and filters every method takes, so a row owned by another user is
// indistinguishable from a missing one.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/adanyl0v/go-planner/internal/models"
)

var (
	// ErrNotFound is returned when no row matches the id and owner,
	// including ids that are malformed for the backend.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a unique key is taken.
	ErrAlreadyExists = errors.New("already exists")
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Store interface {
	Users() UserRepository
	Tasks() TaskRepository
	Notes() NoteRepository
	Projects() ProjectRepository

	// WithinTx runs fn against a store bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	// Calling WithinTx on a transaction-bound store reuses the transaction.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error

	Ping(ctx context.Context) error
	Close() error
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	// Create stores the user and sets its ID.
	Create(ctx context.Context, user *models.User) error
	UpdateProfile(ctx context.Context, user *models.User) error
}

type TaskRepository interface {
	List(ctx context.Context, filter models.TaskFilter) ([]*models.Task, error)
	Get(ctx context.Context, key models.TaskKey) (*models.Task, error)
	// Create stores the task and sets its ID.
	Create(ctx context.Context, task *models.Task) error
	// Update overwrites the mutable fields of the task matching ID and UserID.
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, key models.TaskKey) (*models.Task, error)
	DeleteByProject(ctx context.Context, userID, projectID string) (int64, error)
}

type NoteRepository interface {
	List(ctx context.Context, filter models.NoteFilter) ([]*models.Note, error)
	Get(ctx context.Context, key models.NoteKey) (*models.Note, error)
	Create(ctx context.Context, note *models.Note) error
	Update(ctx context.Context, note *models.Note) error
	Delete(ctx context.Context, key models.NoteKey) (*models.Note, error)
	DeleteByProject(ctx context.Context, userID, projectID string) (int64, error)
}

type ProjectRepository interface {
	// List returns the user's projects, most recently modified first.
	List(ctx context.Context, userID string) ([]*models.Project, error)
	Get(ctx context.Context, id, userID string) (*models.Project, error)
	Create(ctx context.Context, project *models.Project) error
	Touch(ctx context.Context, id, userID string, modifiedAt time.Time) error
	Delete(ctx context.Context, id, userID string) (*models.Project, error)
}
