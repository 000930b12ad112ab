// Package postgres implements storage.Store on top of a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-planner/internal/storage"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	logger zerolog.Logger
	pool   *pgxpool.Pool
	q      querier
	inTx   bool
}

// New wraps the pool. Call Migrate before serving requests.
func New(logger zerolog.Logger, pool *pgxpool.Pool) *Store {
	return &Store{
		logger: logger,
		pool:   pool,
		q:      pool,
	}
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

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = fn(ctx, &Store{
		logger: s.logger,
		pool:   s.pool,
		q:      tx,
		inTx:   true,
	})
	if err != nil {
		return err
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the pool. It is a no-op on a transaction-bound store.
func (s *Store) Close() error {
	if !s.inTx {
		s.pool.Close()
	}
	return nil
}

// classify maps driver errors onto the storage sentinels. Malformed uuids
// are reported as missing rows so callers never see a 500 for a bad id.
func classify(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return storage.ErrAlreadyExists
		case pgerrcode.InvalidTextRepresentation:
			return storage.ErrNotFound
		}
	}
	return err
}
