// Package sqlite implements storage.Store on a local SQLite database.
// It backs single-user deployments and the test suites.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	sqlitedrv "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/adanyl0v/go-planner/internal/storage"
)

type Store struct {
	logger zerolog.Logger
	db     *sqlx.DB
	q      sqlx.ExtContext
	inTx   bool
}

// Open opens (or creates) the database at path and applies pending
// migrations. Use ":memory:" for a throwaway database.
func Open(ctx context.Context, logger zerolog.Logger, path string) (*Store, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	// SQLite serializes writers anyway; a single connection also keeps
	// an in-memory database alive and shared.
	db.SetMaxOpenConns(1)

	if _, err = db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &Store{
		logger: logger,
		db:     db,
		q:      db,
	}
	if err = s.runMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

func (s *Store) Users() storage.UserRepository {
	return &userRepository{logger: s.logger, q: s.q}
}

func (s *Store) Tasks() storage.TaskRepository {
	return &taskRepository{logger: s.logger, q: s.q}
}

func (s *Store) Notes() storage.NoteRepository {
	return &noteRepository{logger: s.logger, q: s.q}
}

func (s *Store) Projects() storage.ProjectRepository {
	return &projectRepository{logger: s.logger, q: s.q}
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx storage.Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	err = fn(ctx, &Store{
		logger: s.logger,
		db:     s.db,
		q:      tx,
		inTx:   true,
	})
	if err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	if s.inTx {
		return nil
	}
	return s.db.Close()
}

func classify(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}

	var sqliteErr *sqlitedrv.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return storage.ErrAlreadyExists
	}
	return err
}

func rowsAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
