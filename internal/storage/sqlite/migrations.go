package sqlite

import (
	"context"
	"fmt"
)

type migration struct {
	version int
	sql     string
}

// Timestamps are stored as unix milliseconds in UTC. Version 1 stored
// nanoseconds; version 2 converts existing rows.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
    version    INTEGER PRIMARY KEY,
    applied_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS users (
    id         TEXT PRIMARY KEY,
    google_id  TEXT    NOT NULL UNIQUE,
    email      TEXT    NOT NULL,
    name       TEXT    NOT NULL,
    picture    TEXT    NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS projects (
    id          TEXT PRIMARY KEY,
    user_id     TEXT    NOT NULL,
    name        TEXT    NOT NULL,
    created_at  INTEGER NOT NULL,
    modified_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_projects_user_id ON projects(user_id);

CREATE TABLE IF NOT EXISTS tasks (
    id              TEXT PRIMARY KEY,
    user_id         TEXT    NOT NULL,
    text            TEXT    NOT NULL,
    completed       INTEGER NOT NULL DEFAULT 0,
    scheduled_date  INTEGER NOT NULL,
    project_id      TEXT,
    is_project_task INTEGER NOT NULL DEFAULT 0,
    created_at      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tasks_user_id_scheduled_date ON tasks(user_id, scheduled_date);
CREATE INDEX IF NOT EXISTS idx_tasks_project_id ON tasks(project_id);

CREATE TABLE IF NOT EXISTS notes (
    id              TEXT PRIMARY KEY,
    user_id         TEXT    NOT NULL,
    title           TEXT    NOT NULL,
    content         TEXT    NOT NULL DEFAULT '',
    project_id      TEXT,
    is_project_note INTEGER NOT NULL DEFAULT 0,
    created_at      INTEGER NOT NULL,
    last_modified   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_notes_user_id_last_modified ON notes(user_id, last_modified);
CREATE INDEX IF NOT EXISTS idx_notes_project_id ON notes(project_id);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
UPDATE users SET
    created_at = created_at / 1000000,
    updated_at = updated_at / 1000000;

UPDATE projects SET
    created_at  = created_at / 1000000,
    modified_at = modified_at / 1000000;

UPDATE tasks SET
    scheduled_date = scheduled_date / 1000000,
    created_at     = created_at / 1000000;

UPDATE notes SET
    created_at    = created_at / 1000000,
    last_modified = last_modified / 1000000;

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order, each in its own transaction.
func (s *Store) runMigrations(ctx context.Context) error {
	currentVersion := 0

	var tableCount int
	err := s.db.GetContext(ctx, &tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.GetContext(ctx, &currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}

		tx, err := s.db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning migration v%d: %w", m.version, err)
		}
		if _, err = tx.ExecContext(ctx, m.sql); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
		if err = tx.Commit(); err != nil {
			return fmt.Errorf("committing migration v%d: %w", m.version, err)
		}

		s.logger.Debug().
			Int("version", m.version).
			Msg("applied sqlite migration")
	}
	return nil
}
