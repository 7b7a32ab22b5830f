package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// Cross-entity references carry no engine-level FOREIGN KEY constraints.
// Each entity type is snapshot-replaced in its own transaction during sync,
// so between those commits a row may transiently reference a not-yet-replaced
// parent. The repository layer enforces referential integrity itself:
// mutations validate their references and deletes cascade depth-first inside
// one transaction. This keeps the contract portable across storage engines.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS backends (
		id              TEXT PRIMARY KEY,
		backend_type    TEXT NOT NULL,
		name            TEXT NOT NULL,
		token_env       TEXT NOT NULL DEFAULT '',
		enabled         INTEGER NOT NULL DEFAULT 1,
		last_sync_at    TEXT,
		last_sync_error TEXT,
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS projects (
		id          TEXT PRIMARY KEY,
		backend_id  TEXT NOT NULL,
		remote_id   TEXT,
		name        TEXT NOT NULL,
		color       TEXT NOT NULL DEFAULT '',
		is_favorite INTEGER NOT NULL DEFAULT 0,
		is_inbox    INTEGER NOT NULL DEFAULT 0,
		order_index INTEGER NOT NULL DEFAULT 0,
		parent_id   TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_backend_remote
		ON projects(backend_id, remote_id)`,
	`CREATE INDEX IF NOT EXISTS idx_projects_backend ON projects(backend_id)`,

	`CREATE TABLE IF NOT EXISTS sections (
		id          TEXT PRIMARY KEY,
		backend_id  TEXT NOT NULL,
		remote_id   TEXT,
		name        TEXT NOT NULL,
		project_id  TEXT NOT NULL,
		order_index INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_sections_backend_remote
		ON sections(backend_id, remote_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sections_project ON sections(project_id)`,

	`CREATE TABLE IF NOT EXISTS labels (
		id          TEXT PRIMARY KEY,
		backend_id  TEXT NOT NULL,
		remote_id   TEXT,
		name        TEXT NOT NULL,
		color       TEXT NOT NULL DEFAULT '',
		order_index INTEGER NOT NULL DEFAULT 0,
		is_favorite INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_labels_backend_remote
		ON labels(backend_id, remote_id)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id           TEXT PRIMARY KEY,
		backend_id   TEXT NOT NULL,
		remote_id    TEXT,
		content      TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		project_id   TEXT NOT NULL,
		section_id   TEXT,
		parent_id    TEXT,
		priority     INTEGER NOT NULL DEFAULT 1
		             CHECK(priority BETWEEN 1 AND 4),
		order_index  INTEGER NOT NULL DEFAULT 0,
		due_date     TEXT,
		due_datetime TEXT,
		is_recurring INTEGER NOT NULL DEFAULT 0,
		is_completed INTEGER NOT NULL DEFAULT 0,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_tasks_backend_remote
		ON tasks(backend_id, remote_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_section ON tasks(section_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_due ON tasks(due_date)`,

	`CREATE TABLE IF NOT EXISTS task_labels (
		task_id  TEXT NOT NULL,
		label_id TEXT NOT NULL,
		PRIMARY KEY (task_id, label_id)
	)`,
}
