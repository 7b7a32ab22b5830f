package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	err := Migrate(db)
	require.NoError(t, err)

	err = Migrate(db)
	require.NoError(t, err)
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{"backends", "projects", "sections", "labels", "tasks", "task_labels"}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_projects_backend_remote",
		"idx_sections_backend_remote",
		"idx_labels_backend_remote",
		"idx_tasks_backend_remote",
		"idx_tasks_project",
		"idx_tasks_due",
	}
	for _, index := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, index).Scan(&name)
		require.NoError(t, err, "index %s should exist", index)
	}
}

func TestMigrate_RemoteIDUniquePerBackend(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO projects (id, backend_id, remote_id, name, color, is_favorite, is_inbox, order_index, created_at, updated_at)
		VALUES ('p1', 'b1', 'r1', 'Inbox', '', 0, 1, 0, '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)

	// Same remote ID under another backend is fine.
	_, err = db.Exec(`INSERT INTO projects (id, backend_id, remote_id, name, color, is_favorite, is_inbox, order_index, created_at, updated_at)
		VALUES ('p2', 'b2', 'r1', 'Inbox', '', 0, 1, 0, '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)

	// Duplicate within the same backend is rejected.
	_, err = db.Exec(`INSERT INTO projects (id, backend_id, remote_id, name, color, is_favorite, is_inbox, order_index, created_at, updated_at)
		VALUES ('p3', 'b1', 'r1', 'Dup', '', 0, 0, 0, '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	assert.Error(t, err)
}

func TestTaskPriorityCheckConstraint(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO tasks (id, backend_id, remote_id, content, description, project_id, priority, order_index, is_recurring, is_completed, created_at, updated_at)
		VALUES ('t1', 'b1', 'r1', 'ok', '', 'p1', 9, 0, 0, 0, '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	assert.Error(t, err)
}
