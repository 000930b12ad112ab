package postgres

import (
	"context"
	"fmt"
)

type migration struct {
	version int
	sql     string
}

// Tables carry no foreign keys: ownership and project membership are
// enforced by the service layer.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS users (
    id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    google_id  TEXT        NOT NULL UNIQUE,
    email      TEXT        NOT NULL,
    name       TEXT        NOT NULL,
    picture    TEXT        NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS projects (
    id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id     UUID        NOT NULL,
    name        TEXT        NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL,
    modified_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS projects_user_id_idx ON projects (user_id);

CREATE TABLE IF NOT EXISTS tasks (
    id              UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id         UUID        NOT NULL,
    text            TEXT        NOT NULL,
    completed       BOOLEAN     NOT NULL DEFAULT FALSE,
    scheduled_date  TIMESTAMPTZ NOT NULL,
    project_id      UUID,
    is_project_task BOOLEAN     NOT NULL DEFAULT FALSE,
    created_at      TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS tasks_user_id_scheduled_date_idx ON tasks (user_id, scheduled_date);
CREATE INDEX IF NOT EXISTS tasks_project_id_idx ON tasks (project_id);

CREATE TABLE IF NOT EXISTS notes (
    id              UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id         UUID        NOT NULL,
    title           TEXT        NOT NULL,
    content         TEXT        NOT NULL DEFAULT '',
    project_id      UUID,
    is_project_note BOOLEAN     NOT NULL DEFAULT FALSE,
    created_at      TIMESTAMPTZ NOT NULL,
    last_modified   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS notes_user_id_last_modified_idx ON notes (user_id, last_modified DESC);
CREATE INDEX IF NOT EXISTS notes_project_id_idx ON notes (project_id);
`,
	},
}

// Migrate applies every migration newer than the recorded schema version.
func (s *Store) Migrate(ctx context.Context) error {
	const createSchemaVersionQuery = `
CREATE TABLE IF NOT EXISTS schema_version (
    version    INTEGER PRIMARY KEY,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)
`
	_, err := s.pool.Exec(ctx, createSchemaVersionQuery)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	var current int
	const selectVersionQuery = `
SELECT COALESCE(MAX(version), 0)
FROM schema_version
`
	err = s.pool.QueryRow(ctx, selectVersionQuery).Scan(&current)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}

		err = s.applyMigration(ctx, m)
		if err != nil {
			return err
		}
		s.logger.Info().
			Int("version", m.version).
			Msg("applied migration")
	}
	return nil
}

func (s *Store) applyMigration(ctx context.Context, m migration) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin migration v%d: %w", m.version, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, m.sql)
	if err != nil {
		return fmt.Errorf("failed to apply migration v%d: %w", m.version, err)
	}

	const insertVersionQuery = `
INSERT INTO schema_version (version)
VALUES ($1)
`
	_, err = tx.Exec(ctx, insertVersionQuery, m.version)
	if err != nil {
		return fmt.Errorf("failed to record migration v%d: %w", m.version, err)
	}
	return tx.Commit(ctx)
}
