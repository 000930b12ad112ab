// Package mongodb implements storage.Store on MongoDB collections.
package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adanyl0v/go-planner/internal/storage"
)

const (
	usersCollection    = "users"
	tasksCollection    = "tasks"
	notesCollection    = "notes"
	projectsCollection = "projects"
)

type Store struct {
	logger zerolog.Logger
	client *mongo.Client
	db     *mongo.Database
	// requireTx selects server transactions for WithinTx. Standalone
	// servers do not support them, so it can be switched off.
	requireTx bool
	inTx      bool
}

func New(logger zerolog.Logger, client *mongo.Client, database string, requireTx bool) *Store {
	return &Store{
		logger:    logger,
		client:    client,
		db:        client.Database(database),
		requireTx: requireTx,
	}
}

// EnsureIndexes creates the indexes the repositories query by.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{
				Keys:    bson.D{{Key: "googleId", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		tasksCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "scheduledDate", Value: 1}}},
			{Keys: bson.D{{Key: "projectId", Value: 1}}},
		},
		notesCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "lastModified", Value: -1}}},
			{Keys: bson.D{{Key: "projectId", Value: 1}}},
		},
		projectsCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "modified", Value: -1}}},
		},
	}

	for name, idx := range indexes {
		_, err := s.db.Collection(name).Indexes().CreateMany(ctx, idx)
		if err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", name, err)
		}
	}
	return nil
}

func (s *Store) Users() storage.UserRepository {
	return &userRepository{logger: s.logger, coll: s.db.Collection(usersCollection)}
}

func (s *Store) Tasks() storage.TaskRepository {
	return &taskRepository{logger: s.logger, coll: s.db.Collection(tasksCollection)}
}

func (s *Store) Notes() storage.NoteRepository {
	return &noteRepository{logger: s.logger, coll: s.db.Collection(notesCollection)}
}

func (s *Store) Projects() storage.ProjectRepository {
	return &projectRepository{logger: s.logger, coll: s.db.Collection(projectsCollection)}
}

// WithinTx runs fn inside a session transaction. The session context is
// passed down as ctx, so every repository call made with it joins the
// transaction. Without transactions fn runs against the plain store.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx storage.Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}

	txStore := &Store{
		logger:    s.logger,
		client:    s.client,
		db:        s.db,
		requireTx: s.requireTx,
		inTx:      true,
	}
	if !s.requireTx {
		return fn(ctx, txStore)
	}

	session, err := s.client.StartSession()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to start session")
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc, txStore)
	})
	return err
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close is a no-op: the client is owned by whoever connected it.
func (s *Store) Close() error {
	return nil
}

func classify(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return storage.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return storage.ErrAlreadyExists
	}
	return err
}

// objectID parses a hex id. Malformed ids never match a document.
func objectID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, storage.ErrNotFound
	}
	return id, nil
}

func optionalObjectID(hex *string) (*primitive.ObjectID, error) {
	if hex == nil {
		return nil, nil
	}
	id, err := objectID(*hex)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func optionalHex(id *primitive.ObjectID) *string {
	if id == nil {
		return nil
	}
	hex := id.Hex()
	return &hex
}
